package grpc

import (
	"context"
	"time"

	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// DashboardService is what the analytics handlers read from.
type DashboardService interface {
	Dashboard(ctx context.Context, f survey.Filter) (service.DashboardView, error)
	FilterOptions(ctx context.Context, year string) (survey.Options, error)
	Summary(ctx context.Context, f survey.Filter) (service.SummaryView, error)
}
