// Package opiniao analyses the "Minha Opinião" institutional questionnaires
// answered by students and administrative staff.
package opiniao

import (
	"errors"
	"fmt"
)

var ErrUnknownAudience = errors.New("unknown questionnaire audience")

// Audience identifies who answered a questionnaire.
type Audience string

const (
	Student Audience = "discente"
	Staff   Audience = "tecnico"
)

// Question is one item of a questionnaire, keyed as in the exported files (P.<dimension>.<n>).
type Question struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Dimension groups question keys under an institutional evaluation axis.
type Dimension struct {
	Name string   `json:"name"`
	Keys []string `json:"keys"`
}

// Attribute is a filterable respondent field: Param is the name used in
// requests, Field the column of the exported records.
type Attribute struct {
	Param string `json:"param"`
	Field string `json:"field"`
}

// Questionnaire describes the layout of one audience's export.
type Questionnaire struct {
	Audience   Audience
	File       string
	Attributes []Attribute
	// UnitField is counted to find the unit with most respondents.
	UnitField  string
	Questions  []Question
	Dimensions []Dimension
}

var StudentQuestionnaire = Questionnaire{
	Audience: Student,
	File:     "DISCENTE.json",
	Attributes: []Attribute{
		{Param: "campus", Field: "CAMPUS_DISCENTE"},
		{Param: "unidade", Field: "UNIDADE_DISCENTE"},
		{Param: "curso", Field: "CURSO_DISCENTE"},
	},
	UnitField: "UNIDADE_DISCENTE",
	Questions: studentQuestions,
	Dimensions: []Dimension{
		{Name: "DIMENSÃO 2: POLÍTICAS DE ENSINO, PESQUISA, PÓSGRADUAÇÃO E EXTENSÃO", Keys: keyRange(2, 1, 11)},
		{Name: "DIMENSÃO 3: RESPONSABILIDADE SOCIAL", Keys: keyRange(3, 12, 14)},
		{Name: "DIMENSÃO 4: COMUNICAÇÃO COM A SOCIEDADE", Keys: keyRange(4, 15, 17)},
		{Name: "DIMENSÃO 6: ORGANIZAÇÃO E GESTÃO DA INSTITUIÇÃO", Keys: keyRange(6, 18, 18)},
		{Name: "DIMENSÃO 7: INFRAESTRUTURA FÍSICA", Keys: keyRange(7, 19, 27)},
		{Name: "DIMENSÃO 8: PLANEJAMENTO E AVALIAÇÃO", Keys: keyRange(8, 28, 30)},
		{Name: "DIMENSÃO 9: POLÍTICAS DE ATENDIMENTO AO ESTUDANTE", Keys: keyRange(9, 31, 34)},
	},
}

var StaffQuestionnaire = Questionnaire{
	Audience: Staff,
	File:     "TECNICO.json",
	Attributes: []Attribute{
		{Param: "lotacao", Field: "UND_LOTACAO_TECNICO"},
		{Param: "exercicio", Field: "UND_EXERCICIO_TECNICO"},
		{Param: "cargo", Field: "CARGO_TECNICO"},
	},
	UnitField: "UND_LOTACAO_TECNICO",
	Questions: staffQuestions,
	Dimensions: []Dimension{
		{Name: "DIMENSÃO 1: MISSÃO E PLANO DE DESENVOLVIMENTO INSTITUCIONAL", Keys: keyRange(1, 1, 3)},
		{Name: "DIMENSÃO 3: RESPONSABILIDADE SOCIAL DA INSTITUIÇÃO", Keys: keyRange(3, 4, 6)},
		{Name: "DIMENSÃO 4: COMUNICAÇÃO COM A SOCIEDADE", Keys: keyRange(4, 7, 11)},
		{Name: "DIMENSÃO 5: POLÍTICAS DE PESSOAL", Keys: keyRange(5, 12, 15)},
		{Name: "DIMENSÃO 6: ORGANIZAÇÃO E GESTÃO DA INSTITUIÇÃO", Keys: keyRange(6, 16, 17)},
		{Name: "DIMENSÃO 7: INFRAESTRUTURA FÍSICA", Keys: keyRange(7, 18, 22)},
		{Name: "DIMENSÃO 8: PLANEJAMENTO E AVALIAÇÃO", Keys: keyRange(8, 23, 28)},
	},
}

// For returns the questionnaire answered by an audience.
func For(a Audience) (Questionnaire, error) {
	switch a {
	case Student:
		return StudentQuestionnaire, nil
	case Staff:
		return StaffQuestionnaire, nil
	}
	return Questionnaire{}, fmt.Errorf("%w: %q", ErrUnknownAudience, a)
}

// Dimension returns the keys of the named dimension.
func (q Questionnaire) Dimension(name string) ([]string, bool) {
	for _, d := range q.Dimensions {
		if d.Name == name {
			return d.Keys, true
		}
	}
	return nil, false
}

// Keys returns every question key in questionnaire order.
func (q Questionnaire) Keys() []string {
	keys := make([]string, len(q.Questions))
	for i, qu := range q.Questions {
		keys[i] = qu.Key
	}
	return keys
}

func keyRange(dim, from, to int) []string {
	keys := make([]string, 0, to-from+1)
	for n := from; n <= to; n++ {
		keys = append(keys, fmt.Sprintf("P.%d.%d", dim, n))
	}
	return keys
}
