package outbox

import (
	"errors"
	"time"
)

// Status constants for outbox entry lifecycle.
const (
	StatusPending   = "pending"
	StatusRetrying  = "retrying"
	StatusDone      = "done"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// Action type constants. Email is the only external integration the CRM
// drives today.
const (
	ActionTypeEmail = "email"
)

// Domain errors.
var (
	ErrEmptyActionType = errors.New("action type is required")
	ErrEmptyPayload    = errors.New("payload is required")
	ErrMaxRetries      = errors.New("max retry attempts reached")
)

// EmailPayload is the JSON shape stored for email entries.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Entry represents a single external action queued for delivery with
// retries. Entries survive restarts; delivery happens in the processor.
type Entry struct {
	ID              string
	ActionType      string
	Payload         string // JSON payload for replay
	Status          string
	Attempts        int
	MaxAttempts     int
	LastAttemptedAt time.Time
	CreatedAt       time.Time
	ExternalID      string // provider id of the delivered message
	ErrorMessage    string // last error message if failed
}

// Validate checks that the Entry has valid data.
// POST: Returns nil if valid, error otherwise
func (e *Entry) Validate() error {
	if e.ActionType == "" {
		return ErrEmptyActionType
	}
	if e.Payload == "" {
		return ErrEmptyPayload
	}
	if e.CreatedAt.IsZero() {
		return errors.New("created_at must be set")
	}
	if e.MaxAttempts <= 0 {
		e.MaxAttempts = 5
	}
	return nil
}

// CanRetry returns true if the entry can be attempted again.
func (e *Entry) CanRetry() bool {
	return (e.Status == StatusPending || e.Status == StatusRetrying || e.Status == StatusFailed) &&
		e.Attempts < e.MaxAttempts
}

// MarkAttempt records one delivery attempt and its result.
// POST: Status reflects success, retry eligibility, or abandonment
func (e *Entry) MarkAttempt(when time.Time, externalID string, attemptErr error) {
	e.Attempts++
	e.LastAttemptedAt = when
	if attemptErr == nil {
		e.Status = StatusDone
		e.ExternalID = externalID
		e.ErrorMessage = ""
		return
	}
	e.ErrorMessage = attemptErr.Error()
	if e.Attempts >= e.MaxAttempts {
		e.Status = StatusAbandoned
		return
	}
	e.Status = StatusRetrying
}
