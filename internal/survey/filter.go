package survey

import (
	"sort"
	"strings"
)

// AllValues is the selection meaning "no restriction" for a filter attribute.
const AllValues = "todos"

// Filter restricts a dataset to one course, pole and discipline. Empty
// fields and AllValues match everything.
type Filter struct {
	Year       string `json:"ano" validate:"omitempty,oneof=2023 2025"`
	Course     string `json:"curso,omitempty"`
	Pole       string `json:"polo,omitempty"`
	Discipline string `json:"disciplina,omitempty"`
}

func selected(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, AllValues)
}

// Match reports whether a response satisfies every selected attribute.
func (f Filter) Match(r Response) bool {
	if selected(f.Course) && r.Course != strings.TrimSpace(f.Course) {
		return false
	}
	if selected(f.Pole) && r.Pole != strings.TrimSpace(f.Pole) {
		return false
	}
	if selected(f.Discipline) && !r.HasDiscipline(strings.TrimSpace(f.Discipline)) {
		return false
	}
	return true
}

// Normalized returns f with surrounding spaces removed and AllValues cleared.
func (f Filter) Normalized() Filter {
	clean := func(v string) string {
		if !selected(v) {
			return ""
		}
		return strings.TrimSpace(v)
	}
	return Filter{
		Year:       strings.TrimSpace(f.Year),
		Course:     clean(f.Course),
		Pole:       clean(f.Pole),
		Discipline: clean(f.Discipline),
	}
}

// Options are the selectable values of each filter attribute for a year.
type Options struct {
	Years       []string `json:"anos"`
	Dimensions  []string `json:"dimensoes"`
	Poles       []string `json:"polos"`
	Courses     []string `json:"cursos"`
	Disciplines []string `json:"disciplinas"`
}

// FilterOptions collects the unique, sorted attribute values of a dataset.
func FilterOptions(ds *Dataset, schema Schema) Options {
	var poles, courses, disciplines []string
	for _, r := range ds.Responses {
		if schema.HasPoles {
			poles = append(poles, r.Pole)
		}
		courses = append(courses, r.Course)
		disciplines = append(disciplines, r.Disciplines...)
	}
	return Options{
		Years:       append([]string(nil), Years...),
		Dimensions:  schema.DimensionNames(),
		Poles:       SanitizeList(poles),
		Courses:     SanitizeList(courses),
		Disciplines: SanitizeList(disciplines),
	}
}

// SanitizeList trims values and drops empties, duplicates, AllValues and
// leaked header text ("Qual ..."). The result is sorted.
func SanitizeList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || strings.EqualFold(v, AllValues) || headerTextPattern.MatchString(v) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
