package mocks

import (
	"context"
	"errors"

	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// MockLoader is a mock implementation of the dashboard Loader interface.
type MockLoader struct {
	FilterOptionsFunc func(ctx context.Context, year string) (survey.Options, error)
	SummaryFunc       func(ctx context.Context, f survey.Filter) (service.SummaryView, error)
	TabFunc           func(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error)
}

func (m *MockLoader) FilterOptions(ctx context.Context, year string) (survey.Options, error) {
	if m.FilterOptionsFunc != nil {
		return m.FilterOptionsFunc(ctx, year)
	}
	return survey.Options{}, errors.New("FilterOptionsFunc not implemented")
}

func (m *MockLoader) Summary(ctx context.Context, f survey.Filter) (service.SummaryView, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, f)
	}
	return service.SummaryView{}, errors.New("SummaryFunc not implemented")
}

func (m *MockLoader) Tab(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error) {
	if m.TabFunc != nil {
		return m.TabFunc(ctx, f, tab)
	}
	return service.TabView{}, errors.New("TabFunc not implemented")
}
