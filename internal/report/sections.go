package report

import (
	"fmt"

	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

type figureDef struct {
	kind    ChartKind
	caption func(year string) string
}

func (f figureDef) spec(view service.TabView) ChartSpec {
	spec := ChartSpec{Kind: f.kind}
	switch f.kind {
	case KindProportions:
		spec.Data = view.Proportions
	case KindMeans:
		spec.Data = view.Means
	case KindBoxplot:
		spec.Boxes = view.Boxplot
	}
	return spec
}

func withYear(format string) func(string) string {
	return func(year string) string { return fmt.Sprintf(format, year) }
}

func fixed(caption string) func(string) string {
	return func(string) string { return caption }
}

type sectionDef struct {
	tab     service.Tab
	title   string
	layout  Layout
	figures []figureDef
}

var itemProportions = figureDef{KindProportions, withYear("Proporções de Respostas por Item (%s)")}

func itemMeans(relation string) figureDef {
	return figureDef{KindMeans, fixed("Médias dos Itens relacionados " + relation + " (Discente)")}
}

var sectionDefs = []sectionDef{
	{
		tab:    service.TabDimensions,
		title:  "Dimensões Gerais",
		layout: LayoutDimensions,
		figures: []figureDef{
			{KindProportions, withYear("Proporções por Dimensão (%s)")},
			{KindMeans, withYear("Médias por Dimensão (%s)")},
			{KindBoxplot, withYear("Boxplot das Médias por Dimensão (%s)")},
		},
	},
	{
		tab:    service.TabSelfAssessment,
		title:  survey.DimensionSelfAssessment,
		layout: LayoutThree,
		figures: []figureDef{
			itemProportions,
			{KindBoxplot, fixed("Boxplot Discente")},
			{KindMeans, withYear("Médias dos Itens relacionados à Autoavaliação Discente (%s)")},
		},
	},
	{
		tab:     service.TabAttitude,
		title:   survey.SubdimensionAttitude,
		layout:  LayoutTwo,
		figures: []figureDef{itemProportions, itemMeans("à Atitude Profissional")},
	},
	{
		tab:     service.TabManagement,
		title:   survey.SubdimensionManagement,
		layout:  LayoutTwo,
		figures: []figureDef{itemProportions, itemMeans("à Gestão Didática")},
	},
	{
		tab:     service.TabAssessment,
		title:   survey.SubdimensionAssessment,
		layout:  LayoutTwo,
		figures: []figureDef{itemProportions, itemMeans("ao Processo Avaliativo")},
	},
	{
		tab:     service.TabInfrastructure,
		title:   survey.DimensionInfrastructure,
		layout:  LayoutTwo,
		figures: []figureDef{itemProportions, itemMeans("às Instalações Físicas e Recursos de TI")},
	},
}
