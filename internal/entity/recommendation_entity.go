package entity

import "product-advisor-be/pkg/advisor/constraint"

// Recommendation is the terminal output of a dialogue: one primary product,
// at most one alternative, and the rationale that drove the choice.
// Immutable after creation; referenced by the recommendation_shown event.
type Recommendation struct {
	PrimaryID string `json:"primary_id"`
	// AlternativeID is nil when fewer than two candidates survived the
	// exclusion filter. Absent, never a placeholder.
	AlternativeID *string   `json:"alternative_id,omitempty"`
	Rationale     Rationale `json:"rationale"`
}

// Rationale references the constraints and intent that most influenced the
// composite rank, in dialogue order, for display and for the event payload.
type Rationale struct {
	IntentLabel        string            `json:"intent_label"`
	MatchedConstraints []constraint.Pair `json:"matched_constraints"`
	Exclusions         []string          `json:"exclusions,omitempty"`
	Similarity         float64           `json:"similarity"`
	Composite          float64           `json:"composite"`
}
