package analytics

import (
	"time"

	"product-advisor-be/internal/entity"

	"github.com/google/uuid"
)

// The nine advisor event types. Names are part of the stable wire format
// and never change across versions; query_iniziale keeps its historical
// spelling for log compatibility.
const (
	EventSessionStart        = "session_start"
	EventQueryIniziale       = "query_iniziale"
	EventIntentDetected      = "intent_detected"
	EventQuestionAsked       = "question_asked"
	EventAnswerGiven         = "answer_given"
	EventOptionExcluded      = "option_excluded"
	EventRecommendationShown = "recommendation_shown"
	EventSessionEnd          = "session_end"
	EventCapabilityDegraded  = "capability_degraded"
)

// WireEvent is the stable JSON record format for one event, used on the
// retry queue, on the NATS mirror and in replay responses.
type WireEvent struct {
	Timestamp string                 `json:"timestamp"`
	SessionID string                 `json:"session_id"`
	Seq       int64                  `json:"seq"`
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data"`
}

// ParseSessionID parses the wire session id back into a UUID.
func (w WireEvent) ParseSessionID() (uuid.UUID, error) {
	return uuid.Parse(w.SessionID)
}

// ToWire converts a stored event into its wire representation.
func ToWire(ev *entity.AdvisorEvent) WireEvent {
	return WireEvent{
		Timestamp: ev.CreatedAt.UTC().Format(time.RFC3339Nano),
		SessionID: ev.SessionId.String(),
		Seq:       ev.Seq,
		EventType: ev.EventType,
		Data:      ev.Data,
	}
}
