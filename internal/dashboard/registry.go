package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diavi-ufpa/avalia/internal/metrics"
)

const DefaultSessionTTL = 30 * time.Minute

// Registry keeps the live sessions by id and evicts the idle ones.
type Registry struct {
	loader Loader
	logger *zap.Logger
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a registry whose sessions load through loader.
func NewRegistry(loader Loader, ttl time.Duration, logger *zap.Logger) *Registry {
	if loader == nil {
		panic("loader must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		loader:   loader,
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create registers a new idle session.
func (r *Registry) Create() *Session {
	s := newSession(uuid.NewString(), r.loader, r.logger, r.now)

	r.mu.Lock()
	r.sessions[s.id] = s
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	r.logger.Debug("dashboard session created", zap.String("session", s.id))
	return s
}

// Get returns a live session.
func (r *Registry) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete closes and forgets a session. Unknown ids are ignored.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return
	}
	s.Close()
	metrics.ActiveSessions.Set(float64(n))
	r.logger.Debug("dashboard session deleted", zap.String("session", id))
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes and forgets the sessions idle for longer than the TTL. It
// returns how many were evicted.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	metrics.ActiveSessions.Set(float64(n))
	if len(expired) > 0 {
		r.logger.Info("evicted idle dashboard sessions", zap.Int("count", len(expired)), zap.Int("remaining", n))
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
