package analytics

import (
	"github.com/diavi-ufpa/avalia/internal/stats"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// GroupMean is the mean of all valid ratings of a group. Valid is false
// when the group had none, in which case Mean is 0.
type GroupMean struct {
	Group string  `json:"group"`
	Mean  float64 `json:"media"`
	Count int     `json:"count"`
	Valid bool    `json:"valid"`
}

// GroupMeans averages every valid rating of each group across all responses.
func GroupMeans(responses []survey.Response, groups []Group) []GroupMean {
	out := make([]GroupMean, 0, len(groups))
	for _, g := range groups {
		values := ratingValues(responses, g.Items)
		m, ok := stats.Mean(values)
		out = append(out, GroupMean{Group: g.Key, Mean: m, Count: len(values), Valid: ok})
	}
	return out
}

// RespondentAverages returns, for each response with at least one valid
// rating among items, the average of those ratings. For a single item this
// is the raw rating of every respondent who answered it.
func RespondentAverages(responses []survey.Response, items []int) []float64 {
	out := make([]float64, 0, len(responses))
	for _, r := range responses {
		sum, n := 0, 0
		for _, item := range items {
			if v := r.Rating(item); v.Valid() {
				sum += int(v)
				n++
			}
		}
		if n > 0 {
			out = append(out, float64(sum)/float64(n))
		}
	}
	return out
}

func ratingValues(responses []survey.Response, items []int) []float64 {
	var values []float64
	for _, r := range responses {
		for _, item := range items {
			if v := r.Rating(item); v.Valid() {
				values = append(values, float64(v))
			}
		}
	}
	return values
}
