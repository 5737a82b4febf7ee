package mocks

import (
	"context"
	"errors"

	"github.com/diavi-ufpa/avalia/internal/survey"
)

// MockSurveyRepository is a mock implementation of the SurveyRepository interface
// for testing the service layer.
type MockSurveyRepository struct {
	LoadDatasetFunc func(ctx context.Context, year string) (*survey.Dataset, error)
}

// LoadDataset implements the SurveyRepository interface
func (m *MockSurveyRepository) LoadDataset(ctx context.Context, year string) (*survey.Dataset, error) {
	if m.LoadDatasetFunc != nil {
		return m.LoadDatasetFunc(ctx, year)
	}
	return nil, errors.New("LoadDatasetFunc not implemented")
}
