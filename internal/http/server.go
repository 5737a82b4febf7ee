// Package httpserver exposes the dashboard, questionnaire and report
// endpoints over HTTP.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/diavi-ufpa/avalia/internal/metrics"
)

const (
	defaultAddr         = ":8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 2 * time.Minute
	defaultIdleTimeout  = 60 * time.Second
	healthTimeout       = 2 * time.Second
)

// Deps are the collaborators the handlers call. Health is optional.
type Deps struct {
	Dashboard DashboardService
	Sessions  SessionStore
	Reports   ReportBuilder
	Opinions  QuestionnaireSource
	Health    HealthChecker
}

type Option func(*Server)

func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

func WithTimeouts(read, write, idle time.Duration) Option {
	return func(s *Server) {
		s.readTimeout, s.writeTimeout, s.idleTimeout = read, write, idle
	}
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	deps     Deps
	logger   *zap.Logger
	validate *validator.Validate
	router   chi.Router
	httpSrv  *http.Server

	addr         string
	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration
}

// New builds the router. It panics when a required dependency is missing.
func New(deps Deps, logger *zap.Logger, opts ...Option) *Server {
	if deps.Dashboard == nil || deps.Sessions == nil || deps.Reports == nil || deps.Opinions == nil {
		panic("httpserver: dashboard, sessions, reports and opinions are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		deps:         deps,
		logger:       logger.Named("http"),
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		addr:         defaultAddr,
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
		idleTimeout:  defaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	s.router = r
	s.registerRoutes()

	s.httpSrv = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/discente", s.handleRawExport(studentExport))
		r.Get("/tecnico", s.handleRawExport(staffExport))
		r.Get("/opiniao/{audience}", s.handleOpinion)

		r.Route("/ead", func(r chi.Router) {
			r.Get("/filters", s.handleFilterOptions)
			r.Get("/summary", s.handleSummary)
			r.Get("/tabs/{tab}", s.handleTab)
			r.Get("/report", s.handleReport)

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", s.handleCreateSession)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetSession)
					r.Put("/filters", s.handleSetSessionFilter)
					r.Put("/tab", s.handleSetSessionTab)
				})
			})
		})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on lis until Shutdown is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("HTTP server starting", zap.String("addr", lis.Addr().String()))
	if err := s.httpSrv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start listens on the configured address and serves in a goroutine.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return err
	}
	go func() {
		if err := s.Serve(lis); err != nil {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := s.deps.Health(ctx); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
