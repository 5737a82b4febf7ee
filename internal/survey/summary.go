package survey

import "sort"

// Unavailable is displayed when a summary value cannot be determined.
const Unavailable = "N/A"

// Summary holds the headline cards of a dashboard.
type Summary struct {
	TotalRespondents int     `json:"total_respostas"`
	TopPole          string  `json:"polo_mais_respostas"`
	TopCourse        string  `json:"curso_mais_respostas"`
	OverallMean      float64 `json:"media_geral"`
}

// Summarize computes the summary cards of a dataset. Respondents are counted
// by distinct identifier when the schema records one, by row otherwise. The
// overall mean covers the rated items of the schema only.
func Summarize(ds *Dataset, schema Schema) Summary {
	s := Summary{
		TotalRespondents: countRespondents(ds.Responses),
		TopPole:          "—",
		TopCourse:        mostFrequent(ds.Responses, func(r Response) string { return r.Course }),
	}
	if schema.HasPoles {
		s.TopPole = mostFrequent(ds.Responses, func(r Response) string { return r.Pole })
	}

	items := schema.RatedItems(ds.QuestionCount())
	var sum, count int
	for _, r := range ds.Responses {
		for _, item := range items {
			if v := r.Rating(item); v.Valid() {
				sum += int(v)
				count++
			}
		}
	}
	if count > 0 {
		s.OverallMean = float64(sum) / float64(count)
	}
	return s
}

func countRespondents(responses []Response) int {
	seen := make(map[string]struct{})
	anonymous := 0
	for _, r := range responses {
		if r.Respondent == "" {
			anonymous++
			continue
		}
		seen[r.Respondent] = struct{}{}
	}
	return len(seen) + anonymous
}

// mostFrequent returns the value with most occurrences, ties broken by name.
func mostFrequent(responses []Response, key func(Response) string) string {
	counts := make(map[string]int)
	for _, r := range responses {
		if v := key(r); v != "" && !headerTextPattern.MatchString(v) {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return Unavailable
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names[0]
}
