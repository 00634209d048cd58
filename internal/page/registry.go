package page

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/Zachkp/portfolio/internal/apperror"
	"github.com/Zachkp/portfolio/internal/logger"
)

// Registry holds the sessions of every rendered page until they go idle.
type Registry struct {
	opts Options
	ttl  time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry(opts Options, ttl time.Duration) *Registry {
	return &Registry{
		opts:     opts.withDefaults(),
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create starts a new session for a page render.
func (r *Registry) Create() (*Session, error) {
	s, err := NewSession(r.opts)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s, nil
}

func (r *Registry) Get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, apperror.ErrSessionNotFound
	}
	s.Touch()
	return s, nil
}

// Lookup resolves a session id as sent by the browser.
func (r *Registry) Lookup(raw string) (*Session, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.ErrSessionNotFound
	}
	return r.Get(id)
}

// Remove detaches and forgets a session.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Detach()
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts every detached session idle for longer than the ttl and
// returns how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.opts.Clock.Now().Add(-r.ttl)

	r.mu.Lock()
	var stale []*Session
	for id, s := range r.sessions {
		if !s.Attached() && s.IdleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Detach()
	}
	return len(stale)
}

// Run sweeps at a fraction of the ttl until ctx is done, then detaches every
// remaining session.
func (r *Registry) Run(ctx context.Context) error {
	interval := r.ttl / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := r.opts.Clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		case <-ticker.Chan():
			if n := r.Sweep(); n > 0 {
				logger.Log.WithFields(logrus.Fields{
					"evicted": n,
					"active":  r.Len(),
				}).Debug("Swept idle page sessions")
			}
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Detach()
	}
}

// Clock returns the clock sessions are driven by.
func (r *Registry) Clock() clockwork.Clock {
	return r.opts.Clock
}
