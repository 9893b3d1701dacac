package dto

import (
	"time"
)

type AdviseRequest struct {
	// SessionId is empty on the opening message; the service creates the
	// session and returns its id.
	SessionId string `json:"session_id,omitempty" validate:"omitempty,uuid4"`
	Text      string `json:"text" validate:"required,max=2000"`
	Locale    string `json:"locale,omitempty" validate:"omitempty,max=16"`
	Channel   string `json:"channel,omitempty" validate:"omitempty,max=32"`
}

type AdviseResponse struct {
	SessionId      string             `json:"session_id"`
	State          string             `json:"state"`
	MessageToUser  string             `json:"message_to_user"`
	Degraded       bool               `json:"degraded,omitempty"`
	Recommendation *RecommendationDTO `json:"recommendation,omitempty"`
}

type RecommendationDTO struct {
	PrimaryId     string       `json:"primary_id"`
	AlternativeId *string      `json:"alternative_id,omitempty"`
	Rationale     RationaleDTO `json:"rationale"`
}

type RationaleDTO struct {
	Intent             string          `json:"intent"`
	MatchedConstraints []ConstraintDTO `json:"matched_constraints"`
	Exclusions         []string        `json:"exclusions,omitempty"`
	Similarity         float64         `json:"similarity"`
	Composite          float64         `json:"composite"`
}

type ConstraintDTO struct {
	Question string `json:"question"`
	Value    string `json:"value"`
}

type SessionEventDTO struct {
	Seq       int64                  `json:"seq"`
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type SessionEventsResponse struct {
	SessionId string            `json:"session_id"`
	Events    []SessionEventDTO `json:"events"`
}
