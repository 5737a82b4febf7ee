package httpserver

import (
	"context"

	"github.com/diavi-ufpa/avalia/internal/dashboard"
	"github.com/diavi-ufpa/avalia/internal/opiniao"
	"github.com/diavi-ufpa/avalia/internal/report"
	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

// DashboardService serves the read-only dashboard endpoints.
type DashboardService interface {
	FilterOptions(ctx context.Context, year string) (survey.Options, error)
	Summary(ctx context.Context, f survey.Filter) (service.SummaryView, error)
	Tab(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error)
}

// SessionStore creates and looks up interactive dashboard sessions.
type SessionStore interface {
	Create() *dashboard.Session
	Get(id string) (*dashboard.Session, error)
	Delete(id string)
}

type ReportBuilder interface {
	Build(ctx context.Context, req report.Request) (*report.Report, error)
}

// QuestionnaireSource reads the "Minha Opinião" exports.
type QuestionnaireSource interface {
	Raw(a opiniao.Audience) ([]byte, error)
	Records(a opiniao.Audience) ([]opiniao.Record, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker func(ctx context.Context) error
