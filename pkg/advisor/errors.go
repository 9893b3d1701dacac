package advisor

import "errors"

// Sentinel errors shared by the dialogue machine, the ranking engine and the
// HTTP layer. The error middleware maps these onto response statuses.
var (
	// ErrEmptyInput marks malformed or empty user text. Recovered locally
	// with a re-prompt, the session keeps going.
	ErrEmptyInput = errors.New("empty user input")

	// ErrSessionBusy is returned when a second input arrives for a session
	// whose worker is still processing the previous one. Retryable.
	ErrSessionBusy = errors.New("session busy")

	// ErrSessionEnded is returned for input addressed to a terminal session.
	ErrSessionEnded = errors.New("session already ended")

	// ErrSessionNotFound is returned when a session id is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDimensionMismatch marks an embedding contract violation. Fatal to
	// the retrieval call, the session is flagged degraded.
	ErrDimensionMismatch = errors.New("query vector dimension mismatch")

	// ErrCapabilityUnavailable wraps failures of an external model
	// capability, intent classification in particular. Always recovered
	// via fallback; it never surfaces to the HTTP layer.
	ErrCapabilityUnavailable = errors.New("external capability unavailable")

	// ErrStoreUnavailable wraps durable event store write failures. A
	// store outage alone routes the event to the retry queue and the turn
	// completes; the error surfaces only when the queue also fails.
	ErrStoreUnavailable = errors.New("event store unavailable")

	// ErrNoCandidates is returned when retrieval leaves nothing to recommend.
	ErrNoCandidates = errors.New("no candidates available")
)
