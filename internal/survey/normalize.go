package survey

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Header names of the label schema.
const (
	HeaderRespondent       = "Nome de usuário"
	HeaderCourse           = "Qual é o seu Curso?"
	HeaderPole             = "Qual o seu Polo de Vinculação?"
	HeaderDisciplinePrefix = "Selecione para qual disciplina"
)

// Column positions of the numeric schema.
const (
	numericCourseColumn          = 1
	numericFirstDisciplineColumn = 2
)

var (
	questionHeaderPattern = regexp.MustCompile(`^\d+\)`)
	headerTextPattern     = regexp.MustCompile(`(?i)^qual\b`)
)

// Normalize converts the raw records of a survey year into a Dataset.
// Records missing trailing cells produce NoRating for the absent questions
// rather than failing the batch.
func Normalize(schema Schema, records [][]string) (*Dataset, error) {
	records = dropBlankRecords(records)
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	switch schema.Kind {
	case Labeled:
		return normalizeLabeled(schema, records)
	case Numeric:
		return normalizeNumeric(schema, records)
	}
	return nil, fmt.Errorf("unsupported schema kind %d", schema.Kind)
}

func normalizeLabeled(schema Schema, records [][]string) (*Dataset, error) {
	header := slices.Clone(records[0])
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	respondentCol, courseCol, poleCol := -1, -1, -1
	var questionCols, disciplineCols []int
	var questions []Question

	for i, h := range header {
		h = strings.TrimSpace(h)
		switch {
		case h == HeaderRespondent:
			respondentCol = i
		case h == HeaderCourse:
			courseCol = i
		case h == HeaderPole:
			poleCol = i
		case strings.HasPrefix(h, HeaderDisciplinePrefix) && !strings.Contains(h, "["):
			disciplineCols = append(disciplineCols, i)
		case questionHeaderPattern.MatchString(h) && !strings.Contains(h, "["):
			if len(questionCols) < MaxQuestions {
				questionCols = append(questionCols, i)
				questions = append(questions, Question{Item: len(questions) + 1, Header: h})
			}
		}
	}
	if len(questionCols) == 0 {
		return nil, ErrNoQuestions
	}

	ds := &Dataset{Year: schema.Year, Questions: questions}
	for _, rec := range records[1:] {
		r := Response{
			Respondent: cell(rec, respondentCol),
			Course:     cell(rec, courseCol),
			Ratings:    make([]Rating, len(questionCols)),
		}
		if schema.HasPoles {
			r.Pole = cell(rec, poleCol)
		}
		for _, c := range disciplineCols {
			if v := cell(rec, c); v != "" {
				r.Disciplines = append(r.Disciplines, v)
			}
		}
		for i, c := range questionCols {
			r.Ratings[i] = ParseLabel(cell(rec, c))
		}
		ds.Responses = append(ds.Responses, r)
	}
	return ds, nil
}

func normalizeNumeric(schema Schema, records [][]string) (*Dataset, error) {
	sample := records[0]
	found := false
	for _, rec := range records {
		if containsScore(rec) {
			sample, found = rec, true
			break
		}
	}
	if !found {
		return nil, ErrNoQuestions
	}

	start := 0
	for i, v := range sample {
		if isScoreCell(v) {
			start = i
			break
		}
	}
	n := min(len(sample)-start, MaxQuestions)

	questions := make([]Question, n)
	for i := range questions {
		questions[i] = Question{Item: i + 1, Header: fmt.Sprintf("%d)", i+1)}
	}

	ds := &Dataset{Year: schema.Year, Questions: questions}
	for _, rec := range records {
		course := cell(rec, numericCourseColumn)
		if headerTextPattern.MatchString(course) {
			continue
		}
		r := Response{Course: course, Ratings: make([]Rating, n)}
		for c := numericFirstDisciplineColumn; c < start; c++ {
			if v := cell(rec, c); v != "" {
				r.Disciplines = []string{v}
				break
			}
		}
		for i := 0; i < n; i++ {
			r.Ratings[i] = ParseNumeric(cell(rec, start+i))
		}
		ds.Responses = append(ds.Responses, r)
	}
	return ds, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func containsScore(rec []string) bool {
	for _, v := range rec {
		if isScoreCell(v) {
			return true
		}
	}
	return false
}

func dropBlankRecords(records [][]string) [][]string {
	out := records[:0:0]
	for _, rec := range records {
		for _, v := range rec {
			if strings.TrimSpace(v) != "" {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}
