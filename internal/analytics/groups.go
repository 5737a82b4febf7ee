// Package analytics aggregates normalized survey responses into the tables
// behind the dashboard charts. Every function is pure: the same responses
// and groups always yield the same output.
package analytics

import (
	"strconv"

	"github.com/diavi-ufpa/avalia/internal/survey"
)

// Group is a named set of question items aggregated together.
type Group struct {
	Key   string
	Items []int
}

// DimensionGroups returns one group per slice, in declaration order, capped
// to the number of questions present.
func DimensionGroups(slices []survey.Slice, questionCount int) []Group {
	groups := make([]Group, 0, len(slices))
	for _, s := range slices {
		groups = append(groups, Group{Key: s.Name, Items: s.Items(questionCount)})
	}
	return groups
}

// ItemGroups returns one single-item group per item, keyed by the item number.
func ItemGroups(items []int) []Group {
	groups := make([]Group, len(items))
	for i, item := range items {
		groups[i] = Group{Key: strconv.Itoa(item), Items: []int{item}}
	}
	return groups
}
