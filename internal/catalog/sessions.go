package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/odyssey-erp/catalog/internal/notify"
	"github.com/odyssey-erp/catalog/internal/shared"
)

// ErrSessionNotFound is returned for unknown or expired catalog sessions.
var ErrSessionNotFound = fmt.Errorf("catalog: session %w", shared.ErrNotFound)

const (
	// DefaultSessionTTL applies when the registry is built with a non-positive TTL.
	DefaultSessionTTL = 30 * time.Minute
	// DefaultMaxSessions caps live sessions unless WithMaxSessions overrides it.
	DefaultMaxSessions = 1000
)

// Session is one mount of the catalog: a controller plus the inbox that
// collects its notifications until the client reads them.
type Session struct {
	ID         uuid.UUID
	Controller *Controller
	Inbox      *notify.Inbox

	lastSeen time.Time
}

// SessionRegistry keeps the live sessions of the HTTP surface.
type SessionRegistry struct {
	deps Deps
	ttl  time.Duration
	max  int
	now  func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// SessionOption tunes a SessionRegistry.
type SessionOption func(*SessionRegistry)

// WithMaxSessions caps the number of live sessions. Once full, creating a
// session evicts the one idle the longest. Non-positive values are ignored.
func WithMaxSessions(n int) SessionOption {
	return func(r *SessionRegistry) {
		if n > 0 {
			r.max = n
		}
	}
}

// NewSessionRegistry builds a registry. deps.Notifier receives every
// notification in addition to the per-session inbox.
func NewSessionRegistry(deps Deps, ttl time.Duration, opts ...SessionOption) *SessionRegistry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Fetcher == nil {
		deps.Fetcher = NewFetcher(deps.Records)
	}
	r := &SessionRegistry{
		deps:     deps,
		ttl:      ttl,
		max:      DefaultMaxSessions,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers a new session and mounts its controller.
func (r *SessionRegistry) Create(ctx context.Context) *Session {
	inbox := notify.NewInbox(notify.DefaultInboxSize)
	deps := r.deps
	deps.Notifier = notify.Fanout{inbox, r.deps.Notifier}

	sess := &Session{
		ID:         uuid.New(),
		Controller: NewController(deps),
		Inbox:      inbox,
	}

	r.mu.Lock()
	now := r.now()
	evicted := r.makeRoom(now)
	sess.lastSeen = now
	r.sessions[sess.ID] = sess
	r.mu.Unlock()

	if evicted != uuid.Nil {
		r.deps.Logger.Info("catalog session evicted", slog.String("session_id", evicted.String()))
	}
	sess.Controller.Mount(ctx)
	r.deps.Logger.Debug("catalog session created", slog.String("session_id", sess.ID.String()))
	return sess
}

// makeRoom frees a slot when the registry is full. Expired sessions go first;
// otherwise the least recently seen one is evicted and its id returned.
// Callers hold r.mu.
func (r *SessionRegistry) makeRoom(now time.Time) uuid.UUID {
	if len(r.sessions) < r.max {
		return uuid.Nil
	}
	var oldest *Session
	for id, sess := range r.sessions {
		if r.expired(sess, now) {
			delete(r.sessions, id)
			continue
		}
		if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
			oldest = sess
		}
	}
	if len(r.sessions) < r.max || oldest == nil {
		return uuid.Nil
	}
	delete(r.sessions, oldest.ID)
	return oldest.ID
}

// Get returns a live session and refreshes its idle timer.
func (r *SessionRegistry) Get(id uuid.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := r.now()
	if r.expired(sess, now) {
		delete(r.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = now
	return sess, nil
}

// Drop removes a session.
func (r *SessionRegistry) Drop(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len reports the number of registered sessions, expired ones included until
// the next sweep.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes idle sessions and returns how many were dropped.
func (r *SessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	dropped := 0
	for id, sess := range r.sessions {
		if r.expired(sess, now) {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps idle sessions until ctx is cancelled.
func (r *SessionRegistry) Run(ctx context.Context) {
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.deps.Logger.Info("catalog sessions expired", slog.Int("count", n))
			}
		}
	}
}

func (r *SessionRegistry) expired(sess *Session, now time.Time) bool {
	return now.Sub(sess.lastSeen) > r.ttl
}
