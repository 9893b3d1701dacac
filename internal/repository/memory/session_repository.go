package memory

import (
	"context"
	"time"

	"product-advisor-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps sessions in process memory with a sliding idle
// TTL. A session evicted by the TTL fires the expiry callback so the
// dialogue layer can close it with an idle-timeout event.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(idleTTL time.Duration, onExpired func(session *store.Session)) *SessionRepository {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	c := cache.New(idleTTL, idleTTL/3)
	if onExpired != nil {
		c.OnEvicted(func(_ string, value interface{}) {
			if session, ok := value.(*store.Session); ok && !session.Terminal {
				onExpired(session)
			}
		})
	}
	return &SessionRepository{cache: c}
}

// Save stores the session and resets its idle TTL.
func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*store.Session, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true, nil
	}
	return nil, false, nil
}

// Delete removes the session without firing the expiry callback path
// for an idle timeout; callers delete only already-terminal sessions.
func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
