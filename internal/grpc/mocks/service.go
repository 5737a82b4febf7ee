package mocks

import (
	"context"
	"errors"

	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// MockDashboardService is a mock implementation of the DashboardService
// interface for testing the handler layer.
type MockDashboardService struct {
	DashboardFunc     func(ctx context.Context, f survey.Filter) (service.DashboardView, error)
	FilterOptionsFunc func(ctx context.Context, year string) (survey.Options, error)
	SummaryFunc       func(ctx context.Context, f survey.Filter) (service.SummaryView, error)
}

// Dashboard implements the DashboardService interface
func (m *MockDashboardService) Dashboard(ctx context.Context, f survey.Filter) (service.DashboardView, error) {
	if m.DashboardFunc != nil {
		return m.DashboardFunc(ctx, f)
	}
	return service.DashboardView{}, errors.New("DashboardFunc not implemented")
}

// FilterOptions implements the DashboardService interface
func (m *MockDashboardService) FilterOptions(ctx context.Context, year string) (survey.Options, error) {
	if m.FilterOptionsFunc != nil {
		return m.FilterOptionsFunc(ctx, year)
	}
	return survey.Options{}, errors.New("FilterOptionsFunc not implemented")
}

// Summary implements the DashboardService interface
func (m *MockDashboardService) Summary(ctx context.Context, f survey.Filter) (service.SummaryView, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, f)
	}
	return service.SummaryView{}, errors.New("SummaryFunc not implemented")
}
