package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/diavi-ufpa/avalia/internal/chart"
	"github.com/diavi-ufpa/avalia/internal/dashboard"
	dashmocks "github.com/diavi-ufpa/avalia/internal/dashboard/mocks"
	"github.com/diavi-ufpa/avalia/internal/http/mocks"
	"github.com/diavi-ufpa/avalia/internal/opiniao"
	"github.com/diavi-ufpa/avalia/internal/report"
	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

const studentJSON = `[
	{"type": "header"},
	{"type": "database"},
	{"type": "table", "data": [
		{"CAMPUS_DISCENTE": "Belém", "UNIDADE_DISCENTE": "ICEN", "CURSO_DISCENTE": "Física", "P.2.1": "1"},
		{"CAMPUS_DISCENTE": "Belém", "UNIDADE_DISCENTE": "ICEN", "CURSO_DISCENTE": "Química", "P.2.1": "2"},
		{"CAMPUS_DISCENTE": "Castanhal", "UNIDADE_DISCENTE": "ITEC", "CURSO_DISCENTE": "Física", "P.2.1": "5"}
	]}
]`

type testEnv struct {
	server    *Server
	dashboard *mocks.MockDashboardService
	loader    *dashmocks.MockLoader
	sessions  *dashboard.Registry
	reports   *mocks.MockReportBuilder
	opinions  *mocks.MockQuestionnaireSource
	health    error
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		dashboard: &mocks.MockDashboardService{},
		loader: &dashmocks.MockLoader{
			FilterOptionsFunc: func(ctx context.Context, year string) (survey.Options, error) {
				return survey.Options{Years: survey.Years}, nil
			},
			SummaryFunc: func(ctx context.Context, f survey.Filter) (service.SummaryView, error) {
				return service.SummaryView{}, nil
			},
			TabFunc: func(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error) {
				return service.TabView{Tab: tab}, nil
			},
		},
		reports: &mocks.MockReportBuilder{},
		opinions: &mocks.MockQuestionnaireSource{Exports: map[opiniao.Audience][]byte{
			opiniao.Student: []byte(studentJSON),
		}},
	}
	logger := zaptest.NewLogger(t)
	env.sessions = dashboard.NewRegistry(env.loader, time.Minute, logger)
	env.server = New(Deps{
		Dashboard: env.dashboard,
		Sessions:  env.sessions,
		Reports:   env.reports,
		Opinions:  env.opinions,
		Health:    func(ctx context.Context) error { return env.health },
	}, logger)
	return env
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew(t *testing.T) {
	assert.Panics(t, func() { New(Deps{}, nil) })
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	env.health = errors.New("database is locked")
	rec = env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRawExports(t *testing.T) {
	t.Run("student export is served verbatim", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodGet, "/api/discente", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, studentJSON, rec.Body.String())
	})

	t.Run("missing staff export", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodGet, "/api/tecnico", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"Erro ao carregar os dados dos técnicos."}`, rec.Body.String())
	})

	t.Run("malformed student export", func(t *testing.T) {
		env := newTestEnv(t)
		env.opinions.Exports[opiniao.Student] = []byte(`[{"CAMPUS_DISCENTE": `)
		rec := env.do(t, http.MethodGet, "/api/discente", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"Erro ao carregar os dados."}`, rec.Body.String())
	})
}

func TestOpinion(t *testing.T) {
	env := newTestEnv(t)

	t.Run("filters by campus", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/opiniao/discente?campus=Bel%C3%A9m", "")
		require.Equal(t, http.StatusOK, rec.Code)

		view := decode[opiniao.View](t, rec)
		assert.Equal(t, 2, view.Total)
		assert.Equal(t, opiniao.TopUnit{Name: "ICEN", Count: 2}, view.TopUnit)
		assert.ElementsMatch(t, []string{"Belém", "Castanhal"}, view.Options["campus"])
	})

	t.Run("unknown audience", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/opiniao/docente", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unreadable export", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/opiniao/tecnico", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"message":"Erro ao carregar os dados dos técnicos."}`, rec.Body.String())
	})
}

func TestDashboardEndpoints(t *testing.T) {
	t.Run("filter options default to the current year", func(t *testing.T) {
		env := newTestEnv(t)
		var gotYear string
		env.dashboard.FilterOptionsFunc = func(ctx context.Context, year string) (survey.Options, error) {
			gotYear = year
			return survey.Options{Courses: []string{"Física"}}, nil
		}
		rec := env.do(t, http.MethodGet, "/api/ead/filters", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, survey.DefaultYear, gotYear)
		assert.Equal(t, []string{"Física"}, decode[survey.Options](t, rec).Courses)
	})

	t.Run("summary passes the normalized filter", func(t *testing.T) {
		env := newTestEnv(t)
		var got survey.Filter
		env.dashboard.SummaryFunc = func(ctx context.Context, f survey.Filter) (service.SummaryView, error) {
			got = f
			return service.SummaryView{}, nil
		}
		rec := env.do(t, http.MethodGet, "/api/ead/summary?ano=2023&curso=+F%C3%ADsica+&polo=todos", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, survey.Filter{Year: "2023", Course: "Física"}, got)
	})

	t.Run("invalid year", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodGet, "/api/ead/summary?ano=1999", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("tab view", func(t *testing.T) {
		env := newTestEnv(t)
		env.dashboard.TabFunc = func(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error) {
			return service.TabView{Tab: tab, Means: chart.Data{Labels: []string{"Dimensão"}}}, nil
		}
		rec := env.do(t, http.MethodGet, "/api/ead/tabs/gestao?ano=2025", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, service.TabManagement, decode[service.TabView](t, rec).Tab)
	})

	t.Run("unknown tab", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodGet, "/api/ead/tabs/inexistente", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no responses", func(t *testing.T) {
		env := newTestEnv(t)
		env.dashboard.TabFunc = func(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error) {
			return service.TabView{}, service.ErrNoResponses
		}
		rec := env.do(t, http.MethodGet, "/api/ead/tabs/dimensoes", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("storage failure hides details", func(t *testing.T) {
		env := newTestEnv(t)
		env.dashboard.SummaryFunc = func(ctx context.Context, f survey.Filter) (service.SummaryView, error) {
			return service.SummaryView{}, errors.Join(service.ErrStorageFailure, errors.New("disk I/O error"))
		}
		rec := env.do(t, http.MethodGet, "/api/ead/summary", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "disk")
	})
}

func TestSessions(t *testing.T) {
	t.Run("create, switch tab and read back", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/api/ead/sessions", `{"curso": "Física"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		snap := decode[dashboard.Snapshot](t, rec)
		assert.Equal(t, dashboard.StateReady, snap.State)
		assert.Equal(t, survey.Filter{Year: survey.DefaultYear, Course: "Física"}, snap.Filter)
		assert.Equal(t, "/api/ead/sessions/"+snap.ID, rec.Header().Get("Location"))

		rec = env.do(t, http.MethodPut, "/api/ead/sessions/"+snap.ID+"/tab", `{"aba": "infraestrutura"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, service.TabInfrastructure, decode[dashboard.Snapshot](t, rec).ActiveTab)

		rec = env.do(t, http.MethodGet, "/api/ead/sessions/"+snap.ID, "")
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[dashboard.Snapshot](t, rec)
		assert.ElementsMatch(t, []service.Tab{service.TabDimensions, service.TabInfrastructure}, got.LoadedTabs)
	})

	t.Run("empty body mounts the default selection", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/ead/sessions", "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, survey.DefaultYear, decode[dashboard.Snapshot](t, rec).Filter.Year)
	})

	t.Run("failed first load drops the session", func(t *testing.T) {
		env := newTestEnv(t)
		env.loader.SummaryFunc = func(ctx context.Context, f survey.Filter) (service.SummaryView, error) {
			return service.SummaryView{}, service.ErrNoResponses
		}

		rec := env.do(t, http.MethodPost, "/api/ead/sessions", `{"curso": "Física"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Header().Get("Location"))
		assert.Zero(t, env.sessions.Len())
	})

	t.Run("unknown session", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodGet, "/api/ead/sessions/nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/ead/sessions", `{"turma": "A"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing tab", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/ead/sessions", "")
		id := decode[dashboard.Snapshot](t, rec).ID
		rec = env.do(t, http.MethodPut, "/api/ead/sessions/"+id+"/tab", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("superseded filter change", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/ead/sessions", "")
		id := decode[dashboard.Snapshot](t, rec).ID

		started := make(chan struct{})
		env.loader.SummaryFunc = func(ctx context.Context, f survey.Filter) (service.SummaryView, error) {
			if f.Course == "Física" {
				close(started)
				<-ctx.Done()
				return service.SummaryView{}, ctx.Err()
			}
			return service.SummaryView{}, nil
		}

		var wg sync.WaitGroup
		var slow *httptest.ResponseRecorder
		wg.Add(1)
		go func() {
			defer wg.Done()
			slow = env.do(t, http.MethodPut, "/api/ead/sessions/"+id+"/filters", `{"curso": "Física"}`)
		}()
		<-started
		fast := env.do(t, http.MethodPut, "/api/ead/sessions/"+id+"/filters", `{"curso": "Química"}`)
		wg.Wait()

		assert.Equal(t, http.StatusOK, fast.Code)
		assert.Equal(t, http.StatusConflict, slow.Code)
		assert.Equal(t, "Química", decode[dashboard.Snapshot](t, fast).Filter.Course)
	})
}

func TestReport(t *testing.T) {
	t.Run("pdf download", func(t *testing.T) {
		env := newTestEnv(t)
		var got report.Request
		env.reports.BuildFunc = func(ctx context.Context, req report.Request) (*report.Report, error) {
			got = req
			return &report.Report{
				FileName: report.FileName("2025", req.Course, req.Pole),
				PDF:      []byte("%PDF-1.3 test"),
				Skipped:  []string{"gestao-boxplot"},
			}, nil
		}
		rec := env.do(t, http.MethodGet, "/api/ead/report?ano=2025&curso=Matem%C3%A1tica&polo=Bel%C3%A9m", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, report.Request{Year: "2025", Course: "Matemática", Pole: "Belém"}, got)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="relatorio-avalia-2025-Matemática-Belém.pdf"`)
		assert.Equal(t, "gestao-boxplot", rec.Header().Get(skippedHeader))
		assert.Equal(t, "%PDF-1.3 test", rec.Body.String())
	})

	t.Run("course is required", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodGet, "/api/ead/report?ano=2025", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no responses", func(t *testing.T) {
		env := newTestEnv(t)
		env.reports.BuildFunc = func(ctx context.Context, req report.Request) (*report.Report, error) {
			return nil, service.ErrNoResponses
		}
		rec := env.do(t, http.MethodGet, "/api/ead/report?curso=Letras", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
