package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"product-advisor-be/pkg/advisor/constraint"
	"product-advisor-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "advisor:session:"

// SessionRepository keeps sessions in Redis with a sliding idle TTL.
// Unlike the in-memory store there is no expiry callback: an idle
// session simply disappears when its TTL lapses, so the idle-timeout
// session_end event is only available with the memory backend.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, idleTTL time.Duration) *SessionRepository {
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &SessionRepository{client: client, ttl: idleTTL}
}

// sessionRecord is the wire form. The constraint accumulator keeps its
// state unexported, so its parts travel alongside the session.
type sessionRecord struct {
	Session    *store.Session    `json:"session"`
	Intent     constraint.Intent `json:"intent"`
	Pairs      []constraint.Pair `json:"pairs"`
	Exclusions []string          `json:"exclusions"`
}

func (r *SessionRepository) Save(ctx context.Context, session *store.Session) error {
	record := sessionRecord{
		Session:    session,
		Intent:     session.Constraints.Intent(),
		Pairs:      session.Constraints.Pairs(),
		Exclusions: session.Constraints.Exclusions(),
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", session.ID, err)
	}
	return r.client.Set(ctx, keyPrefix+session.ID, raw, r.ttl).Err()
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	raw, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var record sessionRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	session := record.Session
	session.Constraints = constraint.Restore(record.Intent, record.Pairs, record.Exclusions)

	// Reading a session keeps it alive.
	if err := r.client.Expire(ctx, keyPrefix+sessionID, r.ttl).Err(); err != nil {
		return nil, false, err
	}
	return session, true, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, keyPrefix+sessionID).Err()
}
