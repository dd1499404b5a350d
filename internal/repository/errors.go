package repository

import "errors"

// Failure classes reported by catalog adapters. They are used for logging and metrics
// and never cross the adapter boundary.
var (
	ErrTransport        = errors.New("catalog request failed")
	ErrUnexpectedStatus = errors.New("catalog returned a non-success status")
	ErrMalformedPayload = errors.New("catalog payload is malformed")
	ErrNoResults        = errors.New("catalog returned no results")
)

// ErrLockHeld is returned when a workspace lock cannot be acquired before the context ends.
var ErrLockHeld = errors.New("workspace is locked by another run")

// ErrRunHistoryDisabled is returned by run history lookups when no store is configured.
var ErrRunHistoryDisabled = errors.New("run history is not configured")

// OutcomeLabel maps a fetch error to the metrics outcome label.
func OutcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNoResults):
		return "empty"
	case errors.Is(err, ErrUnexpectedStatus):
		return "status"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed"
	default:
		return "transport"
	}
}
