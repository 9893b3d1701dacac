package store

import (
	"time"

	"product-advisor-be/internal/entity"
	"product-advisor-be/pkg/advisor/constraint"
)

// Dialogue states. ENDED is terminal; every non-terminal state accepts a
// timeout transition straight to ENDED.
const (
	StateStart          = "START"
	StateIntentDetected = "INTENT_DETECTED"
	StateQuestioning    = "QUESTIONING"
	StateExcluding      = "EXCLUDING"
	StateRecommending   = "RECOMMENDING"
	StateEnded          = "ENDED"
)

// Session is the active advisory conversation state. Exactly one dialogue
// worker owns a Session at a time; the registry serializes access, so no
// field needs its own locking.
type Session struct {
	ID      string `json:"id"`
	Locale  string `json:"locale"`
	Channel string `json:"channel"`
	State   string `json:"state"`

	// Query is the opening free-text message; QueryVector its embedding,
	// computed once per session. Nil vector means the embedding capability
	// was unavailable and retrieval runs attribute-only.
	Query       string    `json:"query"`
	QueryVector []float32 `json:"query_vector,omitempty"`

	// PendingQuestion is the question key currently awaiting an answer.
	PendingQuestion string `json:"pending_question,omitempty"`

	Constraints    *constraint.Accumulator `json:"-"`
	Recommendation *entity.Recommendation  `json:"recommendation,omitempty"`

	// EventSeq is the per-session monotonic sequence counter, incremented
	// before each emit while the session lock is held.
	EventSeq int64 `json:"event_seq"`

	Terminal  bool      `json:"terminal"`
	Degraded  bool      `json:"degraded"`
	CreatedAt time.Time `json:"created_at"`
}

func NewSession(id, locale, channel string) *Session {
	return &Session{
		ID:          id,
		Locale:      locale,
		Channel:     channel,
		State:       StateStart,
		Constraints: constraint.NewAccumulator(),
		CreatedAt:   time.Now().UTC(),
	}
}

// NextSeq advances and returns the event sequence counter.
func (s *Session) NextSeq() int64 {
	s.EventSeq++
	return s.EventSeq
}
