package email

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/outbox"
)

// Executor delivers queued email outbox entries through a Sender.
type Executor struct {
	sender Sender
}

// NewExecutor creates an executor backed by the given sender.
func NewExecutor(sender Sender) *Executor {
	return &Executor{sender: sender}
}

// Execute decodes an email payload and sends it.
// PRE: payload is a JSON-encoded outbox.EmailPayload
// POST: Returns the provider message id on success
func (e *Executor) Execute(ctx context.Context, payload string) (string, error) {
	var p outbox.EmailPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return "", fmt.Errorf("decode email payload: %w", err)
	}
	r, err := e.sender.Send(ctx, Message{
		To:      p.To,
		Subject: p.Subject,
		HTML:    p.Body,
	})
	if err != nil {
		return "", err
	}
	return r.MessageID, nil
}
