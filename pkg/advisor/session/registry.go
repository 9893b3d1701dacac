package session

import (
	"sync"

	"product-advisor-be/pkg/advisor"
)

// Registry serializes work per session id. Each id gets its own lock; the
// registry mutex only guards the map itself, so sessions never contend
// with each other.
type Registry struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	busy bool
	refs int
}

func NewRegistry() *Registry {
	return &Registry{locks: make(map[string]*sessionLock)}
}

// Acquire claims the session for the calling worker. A session already
// in flight yields ErrSessionBusy rather than queueing: the caller
// surfaces it as retryable.
func (r *Registry) Acquire(sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		r.locks[sessionID] = l
	}
	if l.busy {
		return advisor.ErrSessionBusy
	}
	l.busy = true
	l.refs++
	return nil
}

// Release frees the session for the next input. Entries with no active
// claim are dropped so the map does not grow with dead sessions.
func (r *Registry) Release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[sessionID]
	if !ok {
		return
	}
	l.busy = false
	l.refs--
	if l.refs <= 0 {
		delete(r.locks, sessionID)
	}
}
