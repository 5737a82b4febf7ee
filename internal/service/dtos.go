package service

import (
	"github.com/diavi-ufpa/avalia/internal/analytics"
	"github.com/diavi-ufpa/avalia/internal/chart"
	"github.com/diavi-ufpa/avalia/internal/stats"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// Tab names the sections of the dashboard.
type Tab string

const (
	TabDimensions     Tab = "dimensoes"
	TabSelfAssessment Tab = "autoavaliacao"
	TabAttitude       Tab = "atitude"
	TabManagement     Tab = "gestao"
	TabAssessment     Tab = "processo"
	TabInfrastructure Tab = "infraestrutura"
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabDimensions, TabSelfAssessment, TabAttitude, TabManagement, TabAssessment, TabInfrastructure}

// StatsRow is one line of the statistics table, built from the true summary.
type StatsRow struct {
	Group   string        `json:"grupo"`
	Mean    *float64      `json:"media"`
	Summary stats.Summary `json:"resumo"`
}

// TabView holds the charts of one tab for a filtered dataset.
type TabView struct {
	Tab         Tab               `json:"tab"`
	Title       string            `json:"titulo"`
	Proportions chart.Data        `json:"proporcoes"`
	Means       chart.Data        `json:"medias"`
	Boxplot     []chart.BoxSeries `json:"boxplot"`
	Table       []StatsRow        `json:"tabela"`
}

// SummaryView holds the headline cards.
type SummaryView struct {
	survey.Summary
	BestWorst analytics.BestWorst `json:"melhor_pior"`
}

// DashboardView is the full dashboard for a filter.
type DashboardView struct {
	Filter  survey.Filter `json:"filtro"`
	Summary SummaryView   `json:"resumo"`
	Tabs    []TabView     `json:"abas"`
}
