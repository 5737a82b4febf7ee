package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second
)

type CacheKeyType string

const (
	cacheKeyDashboard     CacheKeyType = "grpc:dashboard"
	cacheKeyFilterOptions CacheKeyType = "grpc:filter_options"
	cacheKeySummary       CacheKeyType = "grpc:summary"
)

type GRPCHandlers struct {
	dashboard DashboardService
	cache     Cacher
	logger    *zap.Logger
	validate  *validator.Validate
	sfGroup   singleflight.Group
	cacheTTL  time.Duration
}

var _ AnalyticsServer = (*GRPCHandlers)(nil)

// NewGRPCHandlers initializes the gRPC handlers. A nil cache disables caching.
func NewGRPCHandlers(dashboard DashboardService, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if dashboard == nil {
		panic("nil DashboardService provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &GRPCHandlers{
		dashboard: dashboard,
		cache:     cache,
		logger:    logger.Named("grpc-handler"),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		cacheTTL:  ttl,
	}
}

func (s *GRPCHandlers) parseFilter(req *FilterRequest) (survey.Filter, error) {
	if req == nil {
		return survey.Filter{Year: survey.DefaultYear}, nil
	}
	f := req.Filter.Normalized()
	if err := s.validate.Struct(f); err != nil {
		return survey.Filter{}, status.Errorf(codes.InvalidArgument, "invalid filter: %v", err)
	}
	if f.Year == "" {
		f.Year = survey.DefaultYear
	}
	return f, nil
}

// normalizeKey builds a cache key from the normalized filter values. Empty
// values stay as empty segments so "no course" and "course X" never clash.
func normalizeKey(prefix CacheKeyType, parts ...string) string {
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(p, ":", "_")
	}
	return fmt.Sprintf("%s:%s", prefix, strings.Join(parts, ":"))
}

func filterKey(prefix CacheKeyType, f survey.Filter) string {
	return normalizeKey(prefix, f.Year, f.Course, f.Pole, f.Discipline)
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	switch {
	case errors.Is(err, service.ErrNoResponses):
		s.logger.Info("no responses found", zap.String("op", op), zap.Error(err))
		return status.Error(codes.NotFound, "no responses found for the given filter")
	case errors.Is(err, service.ErrInvalidFilter), errors.Is(err, service.ErrUnknownTab):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrStorageFailure):
		s.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		return status.Error(codes.Internal, "database error")
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}
}

func (s *GRPCHandlers) GetDashboard(ctx context.Context, req *FilterRequest) (*service.DashboardView, error) {
	f, err := s.parseFilter(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	view, err := FindAndCache(ctx, s.cache, &s.sfGroup, filterKey(cacheKeyDashboard, f), s.cacheTTL, s.logger, func(fetchCtx context.Context) (service.DashboardView, error) {
		return s.dashboard.Dashboard(fetchCtx, f)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetDashboard", err)
	}
	return &view, nil
}

func (s *GRPCHandlers) GetFilterOptions(ctx context.Context, req *FilterOptionsRequest) (*survey.Options, error) {
	year := survey.DefaultYear
	if req != nil {
		if err := s.validate.Struct(req); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid year: %v", err)
		}
		if y := strings.TrimSpace(req.Year); y != "" {
			year = y
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	opts, err := FindAndCache(ctx, s.cache, &s.sfGroup, normalizeKey(cacheKeyFilterOptions, year), s.cacheTTL, s.logger, func(fetchCtx context.Context) (survey.Options, error) {
		return s.dashboard.FilterOptions(fetchCtx, year)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetFilterOptions", err)
	}
	return &opts, nil
}

func (s *GRPCHandlers) GetSummary(ctx context.Context, req *FilterRequest) (*service.SummaryView, error) {
	f, err := s.parseFilter(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	summary, err := FindAndCache(ctx, s.cache, &s.sfGroup, filterKey(cacheKeySummary, f), s.cacheTTL, s.logger, func(fetchCtx context.Context) (service.SummaryView, error) {
		return s.dashboard.Summary(fetchCtx, f)
	})
	if err != nil {
		return nil, s.handleError(ctx, "GetSummary", err)
	}
	return &summary, nil
}
