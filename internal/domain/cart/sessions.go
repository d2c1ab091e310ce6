// internal/domain/cart/sessions.go
package cart

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrNoStore         = errors.New("no cart store bound to context")
	ErrSessionRequired = errors.New("session ID required")
)

// OpenHook runs once when a session's store is created
type OpenHook func(sessionID string, store *Store)

type session struct {
	store    *Store
	lastSeen time.Time
}

// Sessions maps browsing sessions to their cart stores. A store is created
// when its session starts and closed when the session ends or idles out.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	hooks    []OpenHook
	now      func() time.Time
}

// NewSessions creates a registry that expires sessions idle for ttl
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// OnOpen registers a hook for every store created after this call
func (r *Sessions) OnOpen(hook OpenHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
}

// Open returns the session's store, creating it on first use
func (r *Sessions) Open(sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[sessionID]; ok {
		sess.lastSeen = r.now()
		return sess.store, nil
	}

	store := NewStore()
	for _, hook := range r.hooks {
		hook(sessionID, store)
	}
	r.sessions[sessionID] = &session{store: store, lastSeen: r.now()}
	return store, nil
}

// Lookup returns the session's store without creating one
func (r *Sessions) Lookup(sessionID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return sess.store, true
}

// End closes the session's store and forgets it
func (r *Sessions) End(sessionID string) bool {
	r.mu.Lock()
	sess, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	if ok {
		sess.store.Close()
	}
	return ok
}

// Len returns the number of live sessions
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep ends every session idle longer than the TTL and returns their IDs
func (r *Sessions) Sweep() []string {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*session
	var ids []string
	for id, sess := range r.sessions {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			ids = append(ids, id)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, sess := range expired {
		sess.store.Close()
	}
	return ids
}

// Run sweeps on every interval until ctx is done, then ends all sessions
func (r *Sessions) Run(ctx context.Context, interval time.Duration, onExpire func(ids []string)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Shutdown()
			return
		case <-ticker.C:
			if ids := r.Sweep(); len(ids) > 0 && onExpire != nil {
				onExpire(ids)
			}
		}
	}
}

// Shutdown ends every session
func (r *Sessions) Shutdown() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*session)
	r.mu.Unlock()

	for _, sess := range all {
		sess.store.Close()
	}
}

type storeKey struct{}

// WithStore returns a context carrying store
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

// StoreFromContext returns the store bound by WithStore
func StoreFromContext(ctx context.Context) (*Store, error) {
	store, ok := ctx.Value(storeKey{}).(*Store)
	if !ok || store == nil {
		return nil, ErrNoStore
	}
	return store, nil
}
