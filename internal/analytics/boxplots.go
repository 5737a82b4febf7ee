package analytics

import (
	"github.com/diavi-ufpa/avalia/internal/stats"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// Boxplot carries both representations of a group's distribution: the true
// summary used in tables and the display summary drawn on charts.
type Boxplot struct {
	Group   string        `json:"group"`
	True    stats.Summary `json:"true"`
	Display stats.Summary `json:"display"`
}

// Boxplots summarizes the per-respondent averages of each group.
func Boxplots(responses []survey.Response, groups []Group) []Boxplot {
	out := make([]Boxplot, 0, len(groups))
	for _, g := range groups {
		truth := stats.Summarize(RespondentAverages(responses, g.Items))
		out = append(out, Boxplot{Group: g.Key, True: truth, Display: truth.Display()})
	}
	return out
}
