package opiniao

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/diavi-ufpa/avalia/internal/chart"
	"github.com/diavi-ufpa/avalia/internal/stats"
)

const (
	// NoUnit stands for respondents whose unit field is empty.
	NoUnit = "Sem unidade"
	// NoTopUnit is reported when there are no respondents.
	NoTopUnit = "-"

	MeansLabel = "Média de Respostas"
	MeansColor = "rgba(255, 142, 41, 0.8)"
)

// Selection holds the filters of a view. Attributes is keyed by
// Attribute.Param. Empty values, "todos" and "todas" select everything.
type Selection struct {
	Attributes map[string]string `json:"atributos,omitempty"`
	Dimension  string            `json:"dimensao,omitempty"`
	Question   string            `json:"pergunta,omitempty"`
}

func chosen(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, "todos") && !strings.EqualFold(v, "todas")
}

// TopUnit is the unit with most respondents.
type TopUnit struct {
	Name  string `json:"nome"`
	Count int    `json:"total"`
}

// View is everything the questionnaire dashboard shows for a selection.
type View struct {
	Audience   Audience            `json:"publico"`
	Total      int                 `json:"total_participantes"`
	TopUnit    TopUnit             `json:"unidade_mais_participantes"`
	Options    map[string][]string `json:"opcoes"`
	Dimensions []Dimension         `json:"dimensoes"`
	Questions  []Question          `json:"perguntas"`
	Chart      chart.Data          `json:"grafico"`
}

// Build applies sel to records and assembles the view.
func Build(q Questionnaire, records []Record, sel Selection) View {
	filtered := Apply(q, records, sel)
	return View{
		Audience:   q.Audience,
		Total:      len(filtered),
		TopUnit:    TopUnitOf(q, filtered),
		Options:    CascadingOptions(q, records, sel),
		Dimensions: q.Dimensions,
		Questions:  selectableQuestions(q, sel),
		Chart:      QuestionMeans(q, filtered, sel),
	}
}

// Apply keeps the records matching every selected attribute. A selected
// dimension further keeps only respondents who scored at least one of its
// questions.
func Apply(q Questionnaire, records []Record, sel Selection) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if matchAttributes(q, r, sel, "") && answeredDimension(q, r, sel.Dimension) {
			out = append(out, r)
		}
	}
	return out
}

// matchAttributes checks every selected attribute except the one named skip.
func matchAttributes(q Questionnaire, r Record, sel Selection, skip string) bool {
	for _, a := range q.Attributes {
		if a.Param == skip {
			continue
		}
		v := sel.Attributes[a.Param]
		if chosen(v) && r[a.Field] != strings.TrimSpace(v) {
			return false
		}
	}
	return true
}

func answeredDimension(q Questionnaire, r Record, dimension string) bool {
	if !chosen(dimension) {
		return true
	}
	keys, ok := q.Dimension(dimension)
	if !ok || len(keys) == 0 {
		return true
	}
	for _, k := range keys {
		if v := r[k]; v != "" && v != "5" {
			return true
		}
	}
	return false
}

// CascadingOptions lists, for each attribute, the values present among the
// records matching the other selected attributes. Lists are sorted and
// exclude empty values.
func CascadingOptions(q Questionnaire, records []Record, sel Selection) map[string][]string {
	opts := make(map[string][]string, len(q.Attributes))
	for _, a := range q.Attributes {
		seen := make(map[string]struct{})
		values := []string{}
		for _, r := range records {
			if !matchAttributes(q, r, sel, a.Param) {
				continue
			}
			v := r[a.Field]
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		sort.Strings(values)
		opts[a.Param] = values
	}
	return opts
}

// TopUnitOf finds the unit with most records, ties broken alphabetically.
func TopUnitOf(q Questionnaire, records []Record) TopUnit {
	if len(records) == 0 {
		return TopUnit{Name: NoTopUnit}
	}
	counts := make(map[string]int)
	for _, r := range records {
		name := r[q.UnitField]
		if name == "" {
			name = NoUnit
		}
		counts[name]++
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	col := collate.New(language.BrazilianPortuguese)
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return col.CompareString(names[i], names[j]) < 0
	})
	return TopUnit{Name: names[0], Count: counts[names[0]]}
}

// QuestionKeys returns the questions charted for a selection: the selected
// question, else the selected dimension's, else every question.
func QuestionKeys(q Questionnaire, sel Selection) []string {
	if chosen(sel.Question) {
		return []string{strings.TrimSpace(sel.Question)}
	}
	if chosen(sel.Dimension) {
		keys, _ := q.Dimension(sel.Dimension)
		return append([]string{}, keys...)
	}
	return q.Keys()
}

// QuestionMeans charts the mean score of each charted question. Questions
// without any score are gaps.
func QuestionMeans(q Questionnaire, records []Record, sel Selection) chart.Data {
	keys := QuestionKeys(q, sel)
	data := make([]*float64, len(keys))
	for i, k := range keys {
		var scores []float64
		for _, r := range records {
			if s, ok := Score(r[k]); ok {
				scores = append(scores, s)
			}
		}
		if m, ok := stats.Mean(scores); ok {
			data[i] = &m
		}
	}
	return chart.Data{
		Labels:   keys,
		Datasets: []chart.Dataset{{Label: MeansLabel, Data: data, BackgroundColor: MeansColor}},
	}
}

func selectableQuestions(q Questionnaire, sel Selection) []Question {
	if !chosen(sel.Dimension) {
		return q.Questions
	}
	keys, _ := q.Dimension(sel.Dimension)
	in := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		in[k] = struct{}{}
	}
	out := make([]Question, 0, len(keys))
	for _, qu := range q.Questions {
		if _, ok := in[qu.Key]; ok {
			out = append(out, qu)
		}
	}
	return out
}
