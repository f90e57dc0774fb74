package task

import (
	"errors"
	"strings"
	"time"
)

// Status constants for task lifecycle.
const (
	StatusOpen = "open"
	StatusDone = "done"
)

// Topic constants for the dashboard task board.
const (
	TopicCall    = "call"
	TopicPayment = "payment"
	TopicTrial   = "trial"
	TopicOther   = "other"
)

// Domain errors
var (
	ErrEmptyTitle    = errors.New("task title cannot be empty")
	ErrInvalidStatus = errors.New("status must be 'open' or 'done'")
)

// Task is one item on the dashboard task board.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Due       string    `json:"due,omitempty"` // YYYY-MM-DD
	Assignee  string    `json:"assignee,omitempty"`
	Topic     string    `json:"topic,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if t.Status != StatusOpen && t.Status != StatusDone {
		return ErrInvalidStatus
	}
	return nil
}

// Complete marks the task done.
// POST: Status is done; returns false if it already was
func (t *Task) Complete() bool {
	if t.Status == StatusDone {
		return false
	}
	t.Status = StatusDone
	return true
}
