package email

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// NoopSender logs sends without delivering anything. Used in development
// and whenever no provider key is configured.
type NoopSender struct {
	seq atomic.Uint64
}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) Send(_ context.Context, msg Message) (Receipt, error) {
	id := fmt.Sprintf("noop-%d", s.seq.Add(1))
	slog.Info("email_noop", "id", id, "to", msg.To, "subject", msg.Subject)
	return Receipt{MessageID: id, SentAt: time.Now()}, nil
}
