package contract

import (
	"context"

	"product-advisor-be/pkg/store"
)

// SessionRepository holds live dialogue sessions with an idle TTL.
type SessionRepository interface {
	Save(ctx context.Context, session *store.Session) error
	Get(ctx context.Context, sessionID string) (*store.Session, bool, error)
	Delete(ctx context.Context, sessionID string) error
}
