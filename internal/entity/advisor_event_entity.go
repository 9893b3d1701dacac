package entity

import (
	"time"

	"github.com/google/uuid"
)

// AdvisorEvent is one append-only analytics record. Events are never
// mutated or deleted; ordering within a session (by Seq) is the primary
// invariant.
type AdvisorEvent struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Seq       int64
	EventType string
	Data      map[string]interface{}
	CreatedAt time.Time
}
