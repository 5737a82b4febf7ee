// Package dashboard tracks interactive dashboard sessions. A session holds a
// filter selection and an active tab; every change starts a load that
// supersedes the previous one, and only the latest load may commit.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/diavi-ufpa/avalia/internal/metrics"
	"github.com/diavi-ufpa/avalia/internal/service"
	"github.com/diavi-ufpa/avalia/internal/survey"
)

var (
	ErrSessionNotFound = errors.New("dashboard session not found")
	// ErrSuperseded is returned by a load that finished after a newer one started.
	ErrSuperseded = errors.New("load superseded by a newer request")
)

// State is the lifecycle stage of a session.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Loader fetches the pieces a session displays.
type Loader interface {
	FilterOptions(ctx context.Context, year string) (survey.Options, error)
	Summary(ctx context.Context, f survey.Filter) (service.SummaryView, error)
	Tab(ctx context.Context, f survey.Filter, tab service.Tab) (service.TabView, error)
}

// Snapshot is a consistent copy of a session's state.
type Snapshot struct {
	ID         string               `json:"id"`
	State      State                `json:"estado"`
	Seq        uint64               `json:"seq"`
	Filter     survey.Filter        `json:"filtro"`
	ActiveTab  service.Tab          `json:"aba"`
	Options    *survey.Options      `json:"opcoes,omitempty"`
	Summary    *service.SummaryView `json:"resumo,omitempty"`
	View       *service.TabView     `json:"visao,omitempty"`
	LoadedTabs []service.Tab        `json:"abas_carregadas"`
	Error      string               `json:"erro,omitempty"`
}

// Session is one user's dashboard.
type Session struct {
	id     string
	loader Loader
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	state    State
	filter   survey.Filter
	tab      service.Tab
	options  *survey.Options
	summary  *service.SummaryView
	tabs     map[service.Tab]service.TabView
	err      error
	lastUsed time.Time
}

func newSession(id string, loader Loader, logger *zap.Logger, now func() time.Time) *Session {
	return &Session{
		id:       id,
		loader:   loader,
		logger:   logger.With(zap.String("session", id)),
		now:      now,
		state:    StateIdle,
		filter:   survey.Filter{Year: survey.DefaultYear},
		tab:      service.TabDimensions,
		tabs:     make(map[service.Tab]service.TabView),
		lastUsed: now(),
	}
}

func (s *Session) ID() string { return s.id }

// begin starts a new load: it bumps the sequence number, cancels the load in
// flight and derives the context of the new one from parent.
func (s *Session) begin(parent context.Context) (uint64, context.Context, context.CancelFunc) {
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.state = StateLoading
	s.err = nil
	s.lastUsed = s.now()
	return s.seq, ctx, cancel
}

// Mount performs the first load with the default selection.
func (s *Session) Mount(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	f, tab := s.filter, s.tab
	s.mu.Unlock()
	return s.reload(ctx, f, tab)
}

// SetFilter replaces the selection and reloads the summary and the active tab.
func (s *Session) SetFilter(ctx context.Context, f survey.Filter) (Snapshot, error) {
	f = f.Normalized()
	if f.Year == "" {
		f.Year = survey.DefaultYear
	}
	s.mu.Lock()
	tab := s.tab
	s.mu.Unlock()
	return s.reload(ctx, f, tab)
}

func (s *Session) reload(parent context.Context, f survey.Filter, tab service.Tab) (Snapshot, error) {
	s.mu.Lock()
	seq, ctx, cancel := s.begin(parent)
	s.filter = f
	s.tab = tab
	s.tabs = make(map[service.Tab]service.TabView)
	s.options, s.summary = nil, nil
	s.mu.Unlock()
	defer cancel()

	start := s.now()
	var (
		options survey.Options
		summary service.SummaryView
		view    service.TabView
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		options, err = s.loader.FilterOptions(gctx, f.Year)
		return err
	})
	g.Go(func() (err error) {
		summary, err = s.loader.Summary(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		view, err = s.loader.Tab(gctx, f, tab)
		return err
	})
	err := g.Wait()

	return s.commit(seq, tab, start, err, func() {
		s.options = &options
		s.summary = &summary
		s.tabs[tab] = view
	})
}

// SetTab activates a tab, loading it only if the current selection has not
// loaded it yet.
func (s *Session) SetTab(ctx context.Context, tab service.Tab) (Snapshot, error) {
	if _, err := service.ParseTab(string(tab)); err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	if _, ok := s.tabs[tab]; ok && s.state == StateReady {
		s.tab = tab
		s.lastUsed = s.now()
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	if s.summary == nil {
		// The load that would have filled the summary never committed.
		f := s.filter
		s.mu.Unlock()
		return s.reload(ctx, f, tab)
	}
	seq, lctx, cancel := s.begin(ctx)
	s.tab = tab
	f := s.filter
	s.mu.Unlock()
	defer cancel()

	start := s.now()
	view, err := s.loader.Tab(lctx, f, tab)
	return s.commit(seq, tab, start, err, func() {
		s.tabs[tab] = view
	})
}

// commit applies a finished load if it is still the latest one.
func (s *Session) commit(seq uint64, tab service.Tab, start time.Time, err error, apply func()) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		metrics.LoadsSuperseded.Inc()
		s.logger.Debug("discarding superseded load", zap.Uint64("seq", seq), zap.Uint64("latest", s.seq))
		return s.snapshotLocked(), ErrSuperseded
	}
	s.cancel = nil
	s.lastUsed = s.now()

	outcome := "ready"
	if err != nil {
		outcome = "error"
		s.state = StateError
		s.err = err
		s.logger.Warn("dashboard load failed", zap.Uint64("seq", seq), zap.String("tab", string(tab)), zap.Error(err))
	} else {
		apply()
		s.state = StateReady
	}
	metrics.DashboardLoadDuration.WithLabelValues(string(tab), outcome).Observe(s.now().Sub(start).Seconds())

	snap := s.snapshotLocked()
	if err != nil {
		return snap, fmt.Errorf("load %s: %w", tab, err)
	}
	return snap, nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:         s.id,
		State:      s.state,
		Seq:        s.seq,
		Filter:     s.filter,
		ActiveTab:  s.tab,
		Options:    s.options,
		Summary:    s.summary,
		LoadedTabs: make([]service.Tab, 0, len(s.tabs)),
	}
	if v, ok := s.tabs[s.tab]; ok {
		snap.View = &v
	}
	for _, t := range service.Tabs {
		if _, ok := s.tabs[t]; ok {
			snap.LoadedTabs = append(snap.LoadedTabs, t)
		}
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}

// Close cancels any load in flight.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateLoading {
		return s.now()
	}
	return s.lastUsed
}
