// Package email delivers outbound notifications (conversion emails queued
// through the outbox) via an external provider.
package email

import (
	"context"
	"time"
)

// Message is a single outbound email.
type Message struct {
	To      string
	From    string // optional; the sender's default is used when empty
	Subject string
	HTML    string
}

// Receipt identifies an accepted send at the provider.
type Receipt struct {
	MessageID string
	SentAt    time.Time
}

// Sender hands a message to a delivery provider.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
