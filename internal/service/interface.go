package service

import (
	"context"

	"github.com/diavi-ufpa/avalia/internal/survey"
)

// SurveyRepository defines the storage operations the dashboard service needs.
type SurveyRepository interface {
	LoadDataset(ctx context.Context, year string) (*survey.Dataset, error)
}
