package mocks

import (
	"context"
	"errors"

	"github.com/diavi-ufpa/avalia/internal/repository/models"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// MockDatasetStore is a mock implementation of app.DatasetStore.
type MockDatasetStore struct {
	ImportDatasetFunc func(ctx context.Context, ds *survey.Dataset, source string) error
	ListDatasetsFunc  func(ctx context.Context) ([]models.DatasetInfo, error)
}

func (m *MockDatasetStore) ImportDataset(ctx context.Context, ds *survey.Dataset, source string) error {
	if m.ImportDatasetFunc != nil {
		return m.ImportDatasetFunc(ctx, ds, source)
	}
	return errors.New("ImportDatasetFunc not implemented")
}

func (m *MockDatasetStore) ListDatasets(ctx context.Context) ([]models.DatasetInfo, error) {
	if m.ListDatasetsFunc != nil {
		return m.ListDatasetsFunc(ctx)
	}
	return nil, errors.New("ListDatasetsFunc not implemented")
}
