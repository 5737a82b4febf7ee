// Package app wires the storage, services and transports together and runs
// them until shutdown.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/diavi-ufpa/avalia/internal/config"
	"github.com/diavi-ufpa/avalia/internal/dashboard"
	handler "github.com/diavi-ufpa/avalia/internal/grpc"
	httpserver "github.com/diavi-ufpa/avalia/internal/http"
	"github.com/diavi-ufpa/avalia/internal/metrics"
	"github.com/diavi-ufpa/avalia/internal/opiniao"
	"github.com/diavi-ufpa/avalia/internal/report"
	"github.com/diavi-ufpa/avalia/internal/repository"
	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/pkg/cache"
	dbbuilder "github.com/diavi-ufpa/avalia/pkg/database"
	grpcsrv "github.com/diavi-ufpa/avalia/pkg/grpc/server"
)

type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	dashboard  *service.DashboardService
	sessions   *dashboard.Registry
	grpcServer *grpcsrv.Server
	httpServer *httpserver.Server
	httpLis    net.Listener
}

type Option func(*options)

type options struct {
	grpcLis net.Listener
	httpLis net.Listener
}

// WithListeners serves on the given listeners instead of the configured ports.
func WithListeners(grpcLis, httpLis net.Listener) Option {
	return func(o *options) {
		o.grpcLis, o.httpLis = grpcLis, httpLis
	}
}

// NewApp opens the store, seeds missing years from the data directory and
// builds both servers. Redis is optional: when it cannot be reached the
// gRPC service runs without a cache.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	metrics.Init()

	dbPool, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	if err := repository.Migrate(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, err
	}
	surveyRepo := repository.NewSurveyRepository(dbPool)
	if _, err := SeedMissing(ctx, surveyRepo, cfg.DataDir, logger.Named("seed")); err != nil {
		logger.Error("survey seeding failed", zap.Error(err))
	}

	a := &App{cfg: cfg, logger: logger, dbPool: dbPool, httpLis: o.httpLis}

	var cacher handler.Cacher
	if cfg.RedisAddr != "" {
		c, err := cache.New(ctx,
			cache.WithAddress(cfg.RedisAddr),
			cache.WithPassword(cfg.RedisPassword),
			cache.WithDB(cfg.RedisDB),
		)
		if err != nil {
			logger.Warn("cache unavailable, serving without it", zap.Error(err))
		} else {
			a.cache, cacher = c, c
			logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
		}
	}

	a.dashboard = service.NewDashboardService(surveyRepo, logger, service.WithDatasetTTL(cfg.DatasetTTL))
	a.sessions = dashboard.NewRegistry(a.dashboard, cfg.SessionTTL, logger.Named("sessions"))
	reports := report.NewBuilder(a.dashboard, logger,
		report.WithAssetsDir(cfg.AssetsDir),
		report.WithChartTimeout(cfg.ChartTimeout),
		report.WithConcurrency(cfg.ReportConcurrency),
	)

	grpcHandlers := handler.NewGRPCHandlers(a.dashboard, cacher, logger, cfg.CacheTTL)
	grpcOpts := []grpcsrv.Option{
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithLogging(true),
		grpcsrv.WithMetrics(metrics.GRPCRequestDuration),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
	}
	if o.grpcLis != nil {
		grpcOpts = append(grpcOpts, grpcsrv.WithListener(o.grpcLis))
	}
	a.grpcServer, err = grpcsrv.New(grpcOpts...)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}
	a.grpcServer.RegisterServiceWithHealth(handler.ServiceName, func(s *grpc.Server) {
		handler.RegisterAnalyticsServer(s, grpcHandlers)
	})

	a.httpServer = httpserver.New(httpserver.Deps{
		Dashboard: a.dashboard,
		Sessions:  a.sessions,
		Reports:   reports,
		Opinions:  opiniao.Source{Dir: cfg.DataDir},
		Health:    dbPool.PingContext,
	}, logger, httpserver.WithAddr(":"+strconv.Itoa(cfg.HTTPPort)))

	return a, nil
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// both servers down within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("application starting")
	go a.sessions.Run(ctx)
	a.grpcServer.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if a.httpLis != nil {
			return a.httpServer.Serve(a.httpLis)
		}
		if err := a.httpServer.Start(); err != nil {
			return err
		}
		<-gctx.Done()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("application shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if err := a.grpcServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("grpc shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	err := g.Wait()
	a.close()
	if err != nil {
		return err
	}
	a.logger.Info("graceful shutdown completed successfully")
	return nil
}

func (a *App) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}
	_ = a.logger.Sync()
}
