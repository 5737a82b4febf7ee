package analytics

import (
	"sort"

	"github.com/diavi-ufpa/avalia/internal/survey"
)

// CategoryCount is the share of valid ratings of a group that fell into one concept.
type CategoryCount struct {
	Group   string         `json:"group"`
	Concept survey.Concept `json:"conceito"`
	Value   float64        `json:"valor"`
}

// AggregateCategories tallies the valid ratings of each group per concept and
// converts the tallies to percentages of the group's valid total. A group
// without valid ratings yields 0 for every concept. Output follows group
// order, and within a group the order of survey.Concepts.
func AggregateCategories(responses []survey.Response, groups []Group) []CategoryCount {
	out := make([]CategoryCount, 0, len(groups)*len(survey.Concepts))
	for _, g := range groups {
		counts := make(map[survey.Concept]int, len(survey.Concepts))
		total := 0
		for _, r := range responses {
			for _, item := range g.Items {
				if c, ok := r.Rating(item).Concept(); ok {
					counts[c]++
					total++
				}
			}
		}
		for _, c := range survey.Concepts {
			v := 0.0
			if total > 0 {
				v = float64(counts[c]) / float64(total) * 100
			}
			out = append(out, CategoryCount{Group: g.Key, Concept: c, Value: v})
		}
	}
	return out
}

// AggregateItems is AggregateCategories over single-item groups, emitted in
// ascending item order whatever the order of items.
func AggregateItems(responses []survey.Response, items []int) []CategoryCount {
	sorted := append([]int(nil), items...)
	sort.Ints(sorted)
	return AggregateCategories(responses, ItemGroups(sorted))
}
