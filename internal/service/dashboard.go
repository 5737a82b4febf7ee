package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/diavi-ufpa/avalia/internal/analytics"
	"github.com/diavi-ufpa/avalia/internal/chart"
	"github.com/diavi-ufpa/avalia/internal/repository"
	"github.com/diavi-ufpa/avalia/internal/stats"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

const (
	dbTimeout         = 5 * time.Second
	defaultDatasetTTL = time.Minute
)

var (
	ErrNoResponses    = errors.New("no responses found")
	ErrStorageFailure = errors.New("storage failure")
	ErrUnknownTab     = errors.New("unknown dashboard tab")
	ErrInvalidFilter  = errors.New("invalid filter")
)

type cachedDataset struct {
	ds       *survey.Dataset
	loadedAt time.Time
}

// DashboardService loads survey years and builds the dashboard views.
type DashboardService struct {
	storage SurveyRepository
	logger  *zap.Logger
	ttl     time.Duration
	now     func() time.Time

	mu       sync.RWMutex
	datasets map[string]cachedDataset
	group    singleflight.Group
}

// Option configures a DashboardService.
type Option func(*DashboardService)

// WithDatasetTTL sets how long a loaded year is reused before it is read again.
func WithDatasetTTL(ttl time.Duration) Option {
	return func(s *DashboardService) { s.ttl = ttl }
}

// NewDashboardService creates a new DashboardService instance.
func NewDashboardService(storage SurveyRepository, logger *zap.Logger, opts ...Option) *DashboardService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DashboardService{
		storage:  storage,
		logger:   logger,
		ttl:      defaultDatasetTTL,
		now:      time.Now,
		datasets: make(map[string]cachedDataset),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Invalidate drops the loaded copy of a year, e.g. after an import.
func (s *DashboardService) Invalidate(year string) {
	s.mu.Lock()
	delete(s.datasets, year)
	s.mu.Unlock()
}

func (s *DashboardService) dataset(ctx context.Context, year string) (*survey.Dataset, survey.Schema, error) {
	if year == "" {
		year = survey.DefaultYear
	}
	schema, err := survey.SchemaFor(year)
	if err != nil {
		return nil, survey.Schema{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	s.mu.RLock()
	c, ok := s.datasets[year]
	s.mu.RUnlock()
	if ok && s.now().Sub(c.loadedAt) < s.ttl {
		return c.ds, schema, nil
	}

	v, err, _ := s.group.Do(year, func() (any, error) {
		dbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dbTimeout)
		defer cancel()

		ds, err := s.storage.LoadDataset(dbCtx, year)
		if err != nil {
			if errors.Is(err, repository.ErrDatasetNotFound) {
				return nil, fmt.Errorf("%w: year %s", ErrNoResponses, year)
			}
			return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
		}
		s.mu.Lock()
		s.datasets[year] = cachedDataset{ds: ds, loadedAt: s.now()}
		s.mu.Unlock()

		s.logger.Info("loaded survey dataset",
			zap.String("year", year),
			zap.Int("responses", len(ds.Responses)),
			zap.Int("questions", ds.QuestionCount()))
		return ds, nil
	})
	if err != nil {
		return nil, survey.Schema{}, err
	}
	return v.(*survey.Dataset), schema, nil
}

// FilterOptions returns the selectable values of a year.
func (s *DashboardService) FilterOptions(ctx context.Context, year string) (survey.Options, error) {
	ds, schema, err := s.dataset(ctx, year)
	if err != nil {
		return survey.Options{}, err
	}
	return survey.FilterOptions(ds, schema), nil
}

// Summary computes the headline cards of the filtered year. Best and worst
// groups always consider the whole year.
func (s *DashboardService) Summary(ctx context.Context, f survey.Filter) (SummaryView, error) {
	f = f.Normalized()
	ds, schema, err := s.dataset(ctx, f.Year)
	if err != nil {
		return SummaryView{}, err
	}
	return SummaryView{
		Summary:   survey.Summarize(ds.Filtered(f), schema),
		BestWorst: analytics.ComputeBestWorst(ds.Responses, schema, schema.RatedItems(ds.QuestionCount())),
	}, nil
}

// Tab builds one tab of the dashboard for the filtered year.
func (s *DashboardService) Tab(ctx context.Context, f survey.Filter, tab Tab) (TabView, error) {
	f = f.Normalized()
	ds, schema, err := s.dataset(ctx, f.Year)
	if err != nil {
		return TabView{}, err
	}
	if err := ctx.Err(); err != nil {
		return TabView{}, err
	}
	return BuildTab(ds.Filtered(f), schema, tab)
}

// Dashboard builds the summary and every tab.
func (s *DashboardService) Dashboard(ctx context.Context, f survey.Filter) (DashboardView, error) {
	f = f.Normalized()
	summary, err := s.Summary(ctx, f)
	if err != nil {
		return DashboardView{}, err
	}
	view := DashboardView{Filter: f, Summary: summary, Tabs: make([]TabView, 0, len(Tabs))}
	for _, tab := range Tabs {
		tv, err := s.Tab(ctx, f, tab)
		if err != nil {
			return DashboardView{}, fmt.Errorf("tab %s: %w", tab, err)
		}
		view.Tabs = append(view.Tabs, tv)
	}
	return view, nil
}

// BuildTab computes the charts of a tab from an already filtered dataset.
func BuildTab(ds *survey.Dataset, schema survey.Schema, tab Tab) (TabView, error) {
	n := ds.QuestionCount()
	if tab == TabDimensions {
		groups := analytics.DimensionGroups(schema.Dimensions, n)
		return assemble(tab, "Dimensões Gerais", ds.Responses, groups,
			chart.Proportions(analytics.AggregateCategories(ds.Responses, groups))), nil
	}

	title, slice, ok := tabSlice(schema, tab)
	if !ok {
		return TabView{}, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	items := slice.Items(n)
	groups := analytics.ItemGroups(items)
	return assemble(tab, title, ds.Responses, groups,
		chart.ItemProportions(analytics.AggregateItems(ds.Responses, items))), nil
}

func tabSlice(schema survey.Schema, tab Tab) (string, survey.Slice, bool) {
	var name string
	var sub bool
	switch tab {
	case TabSelfAssessment:
		name = survey.DimensionSelfAssessment
	case TabAttitude:
		name, sub = survey.SubdimensionAttitude, true
	case TabManagement:
		name, sub = survey.SubdimensionManagement, true
	case TabAssessment:
		name, sub = survey.SubdimensionAssessment, true
	case TabInfrastructure:
		name = survey.DimensionInfrastructure
	default:
		return "", survey.Slice{}, false
	}
	if sub {
		s, ok := schema.Subdimension(name)
		return name, s, ok
	}
	s, ok := schema.Dimension(name)
	return name, s, ok
}

func assemble(tab Tab, title string, responses []survey.Response, groups []analytics.Group, proportions chart.Data) TabView {
	means := analytics.GroupMeans(responses, groups)
	boxes := analytics.Boxplots(responses, groups)

	table := make([]StatsRow, len(groups))
	for i := range groups {
		row := StatsRow{Group: groups[i].Key, Summary: boxes[i].True}
		if means[i].Valid {
			m := stats.Round2(means[i].Mean)
			row.Mean = &m
		}
		table[i] = row
	}
	return TabView{
		Tab:         tab,
		Title:       title,
		Proportions: proportions,
		Means:       chart.Means(means),
		Boxplot:     chart.Boxes(boxes),
		Table:       table,
	}
}

// ParseTab validates a tab name.
func ParseTab(name string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, name)
}

// CoursePoles lists the poles with responses for a course.
func (s *DashboardService) CoursePoles(ctx context.Context, year, course string) ([]string, error) {
	ds, schema, err := s.dataset(ctx, year)
	if err != nil {
		return nil, err
	}
	return survey.FilterOptions(ds.Filtered(survey.Filter{Course: course}), schema).Poles, nil
}
