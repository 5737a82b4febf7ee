package mocks

import (
	"context"
	"errors"

	"github.com/diavi-ufpa/avalia/internal/opiniao"
	"github.com/diavi-ufpa/avalia/internal/report"
	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// MockDashboardService is a mock implementation of the HTTP DashboardService.
type MockDashboardService struct {
	FilterOptionsFunc func(ctx context.Context, year string) (survey.Options, error)
	SummaryFunc       func(ctx context.Context, f survey.Filter) (service.SummaryView, error)
	TabFunc           func(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error)
}

func (m *MockDashboardService) FilterOptions(ctx context.Context, year string) (survey.Options, error) {
	if m.FilterOptionsFunc != nil {
		return m.FilterOptionsFunc(ctx, year)
	}
	return survey.Options{}, errors.New("FilterOptionsFunc not implemented")
}

func (m *MockDashboardService) Summary(ctx context.Context, f survey.Filter) (service.SummaryView, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, f)
	}
	return service.SummaryView{}, errors.New("SummaryFunc not implemented")
}

func (m *MockDashboardService) Tab(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error) {
	if m.TabFunc != nil {
		return m.TabFunc(ctx, f, tab)
	}
	return service.TabView{}, errors.New("TabFunc not implemented")
}

// MockReportBuilder is a mock implementation of ReportBuilder.
type MockReportBuilder struct {
	BuildFunc func(ctx context.Context, req report.Request) (*report.Report, error)
}

func (m *MockReportBuilder) Build(ctx context.Context, req report.Request) (*report.Report, error) {
	if m.BuildFunc != nil {
		return m.BuildFunc(ctx, req)
	}
	return nil, errors.New("BuildFunc not implemented")
}

// MockQuestionnaireSource serves exports from memory, keyed by audience.
type MockQuestionnaireSource struct {
	Exports map[opiniao.Audience][]byte
	Err     error
}

func (m *MockQuestionnaireSource) Raw(a opiniao.Audience) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	raw, ok := m.Exports[a]
	if !ok {
		return nil, errors.New("export not found")
	}
	return raw, nil
}

func (m *MockQuestionnaireSource) Records(a opiniao.Audience) ([]opiniao.Record, error) {
	raw, err := m.Raw(a)
	if err != nil {
		return nil, err
	}
	return opiniao.Decode(raw)
}
