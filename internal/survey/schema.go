package survey

import (
	"fmt"
	"slices"
)

// Kind identifies how raw answers of a survey year are encoded.
type Kind int

const (
	// Labeled answers are free text ("Excelente", "Bom/Boa", ...) under named headers.
	Labeled Kind = iota
	// Numeric answers are 1..5 codes located by column position.
	Numeric
)

const (
	DimensionSelfAssessment = "Autoavaliação Discente"
	DimensionTeaching       = "Avaliação da Ação Docente"
	DimensionInfrastructure = "Instalações Físicas e Recursos de TI"

	SubdimensionAttitude   = "Atitude Profissional"
	SubdimensionManagement = "Gestão Didática"
	SubdimensionAssessment = "Processo Avaliativo"
)

// MaxQuestions bounds the number of question columns kept from any schema year.
const MaxQuestions = 45

// Slice is a named, contiguous, half-open range [Start, End) of question
// positions (0-based). Item numbers are position+1.
type Slice struct {
	Name  string
	Start int
	End   int
}

// Items returns the 1-based item numbers covered by the slice once capped to n questions.
func (s Slice) Items(n int) []int {
	end := min(s.End, n)
	if s.Start >= end {
		return nil
	}
	items := make([]int, 0, end-s.Start)
	for i := s.Start; i < end; i++ {
		items = append(items, i+1)
	}
	return items
}

// Schema describes one survey year: its encoding and the question slices
// that make up each dimension. The slice boundaries are fixed per year so
// that results stay comparable across cycles.
type Schema struct {
	Year          string
	Kind          Kind
	HasPoles      bool
	Dimensions    []Slice
	Subdimensions []Slice
}

var (
	Schema2025 = Schema{
		Year:     "2025",
		Kind:     Labeled,
		HasPoles: true,
		Dimensions: []Slice{
			{Name: DimensionSelfAssessment, Start: 0, End: 13},
			{Name: DimensionTeaching, Start: 13, End: 35},
			{Name: DimensionInfrastructure, Start: 35, End: 45},
		},
		Subdimensions: []Slice{
			{Name: SubdimensionAttitude, Start: 13, End: 19},
			{Name: SubdimensionManagement, Start: 19, End: 30},
			{Name: SubdimensionAssessment, Start: 30, End: 35},
		},
	}

	// Schema2023 stops the infrastructure dimension at item 43: items 44 and
	// 45 were free-text questions that cycle.
	Schema2023 = Schema{
		Year:     "2023",
		Kind:     Numeric,
		HasPoles: false,
		Dimensions: []Slice{
			{Name: DimensionSelfAssessment, Start: 0, End: 13},
			{Name: DimensionTeaching, Start: 13, End: 35},
			{Name: DimensionInfrastructure, Start: 35, End: 43},
		},
		Subdimensions: []Slice{
			{Name: SubdimensionAttitude, Start: 13, End: 19},
			{Name: SubdimensionManagement, Start: 19, End: 30},
			{Name: SubdimensionAssessment, Start: 30, End: 35},
		},
	}
)

// DefaultYear is the cycle shown when no year is selected.
const DefaultYear = "2025"

// Years lists the supported cycles, most recent first.
var Years = []string{"2025", "2023"}

// SchemaFor returns the schema of a survey year.
func SchemaFor(year string) (Schema, error) {
	switch year {
	case Schema2025.Year:
		return Schema2025, nil
	case Schema2023.Year:
		return Schema2023, nil
	}
	return Schema{}, fmt.Errorf("%w: %q", ErrUnknownYear, year)
}

// Dimension returns the dimension slice with the given name.
func (s Schema) Dimension(name string) (Slice, bool) {
	for _, d := range s.Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return Slice{}, false
}

// Subdimension returns the subdimension slice with the given name.
func (s Schema) Subdimension(name string) (Slice, bool) {
	for _, d := range s.Subdimensions {
		if d.Name == name {
			return d, true
		}
	}
	return Slice{}, false
}

// RatedItems returns, in ascending order, the items of n questions that
// belong to some dimension. Items outside every dimension, such as the
// free-text questions 44 and 45 of 2023, are never rated.
func (s Schema) RatedItems(n int) []int {
	seen := make(map[int]bool)
	var items []int
	for _, d := range s.Dimensions {
		for _, item := range d.Items(n) {
			if !seen[item] {
				seen[item] = true
				items = append(items, item)
			}
		}
	}
	slices.Sort(items)
	return items
}

// DimensionNames returns the dimension names in declaration order.
func (s Schema) DimensionNames() []string {
	names := make([]string, len(s.Dimensions))
	for i, d := range s.Dimensions {
		names[i] = d.Name
	}
	return names
}
