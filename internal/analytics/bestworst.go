package analytics

import (
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// NoGroup is reported when no group qualifies as best or worst.
const NoGroup = "—"

// BestWorst names the groups with the highest and lowest average rating.
type BestWorst struct {
	LabelType string `json:"labelType"`
	Best      string `json:"best"`
	Worst     string `json:"worst"`
}

// ComputeBestWorst groups responses by pole when the schema has poles and by
// course otherwise, averaging every valid rating among items. Groups are
// visited in order of first appearance and the first one wins a tie.
func ComputeBestWorst(responses []survey.Response, schema survey.Schema, items []int) BestWorst {
	res := BestWorst{LabelType: "Curso", Best: NoGroup, Worst: NoGroup}
	key := func(r survey.Response) string { return r.Course }
	if schema.HasPoles {
		res.LabelType = "Polo"
		key = func(r survey.Response) string { return r.Pole }
	}

	type acc struct{ sum, count int }
	var order []string
	sums := make(map[string]*acc)
	for _, r := range responses {
		g := key(r)
		if g == "" || (!schema.HasPoles && len(survey.SanitizeList([]string{g})) == 0) {
			continue
		}
		for _, item := range items {
			v := r.Rating(item)
			if !v.Valid() {
				continue
			}
			a, ok := sums[g]
			if !ok {
				a = &acc{}
				sums[g] = a
				order = append(order, g)
			}
			a.sum += int(v)
			a.count++
		}
	}

	bestAvg, worstAvg := 0.0, 0.0
	for i, g := range order {
		a := sums[g]
		avg := float64(a.sum) / float64(a.count)
		if i == 0 || avg > bestAvg {
			bestAvg, res.Best = avg, g
		}
		if i == 0 || avg < worstAvg {
			worstAvg, res.Worst = avg, g
		}
	}
	return res
}
