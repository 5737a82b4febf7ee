package mocks

import (
	"context"
	"errors"

	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// MockSource is a mock implementation of the report Source interface.
type MockSource struct {
	TabFunc         func(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error)
	CoursePolesFunc func(ctx context.Context, year, course string) ([]string, error)
}

func (m *MockSource) Tab(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error) {
	if m.TabFunc != nil {
		return m.TabFunc(ctx, f, tab)
	}
	return service.TabView{}, errors.New("TabFunc not implemented")
}

func (m *MockSource) CoursePoles(ctx context.Context, year, course string) ([]string, error) {
	if m.CoursePolesFunc != nil {
		return m.CoursePolesFunc(ctx, year, course)
	}
	return nil, errors.New("CoursePolesFunc not implemented")
}
