package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/outbox"
)

// OutboxStoreForProcess defines the store interface needed by the processor.
type OutboxStoreForProcess interface {
	ListPending(ctx context.Context, limit int) ([]outbox.Entry, error)
	Save(ctx context.Context, entry outbox.Entry) error
}

// ActionExecutor executes a specific type of external action.
type ActionExecutor interface {
	// Execute runs the external action with the given payload and returns
	// the provider's id for the created resource.
	Execute(ctx context.Context, payload string) (string, error)
}

// OutboxProcessor retries queued external actions with exponential backoff.
type OutboxProcessor struct {
	store     OutboxStoreForProcess
	executors map[string]ActionExecutor
	baseDelay time.Duration
	maxDelay  time.Duration
	batchSize int
}

// NewOutboxProcessor creates a new outbox processor.
func NewOutboxProcessor(store OutboxStoreForProcess, executors map[string]ActionExecutor) *OutboxProcessor {
	return &OutboxProcessor{
		store:     store,
		executors: executors,
		baseDelay: 30 * time.Second,
		maxDelay:  1 * time.Hour,
		batchSize: 10,
	}
}

// ProcessPending processes one batch of pending outbox entries.
// POST: Each due entry is attempted once and its status updated
func (p *OutboxProcessor) ProcessPending(ctx context.Context) error {
	entries, err := p.store.ListPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("list pending outbox entries: %w", err)
	}
	for _, entry := range entries {
		if err := p.processEntry(ctx, entry); err != nil {
			slog.Error("outbox_process_failed", "entry_id", entry.ID, "action_type", entry.ActionType, "error", err.Error())
		}
	}
	return nil
}

func (p *OutboxProcessor) processEntry(ctx context.Context, entry outbox.Entry) error {
	if !entry.CanRetry() {
		return nil
	}
	if !entry.LastAttemptedAt.IsZero() && time.Since(entry.LastAttemptedAt) < p.delayFor(entry.Attempts) {
		return nil // not due yet
	}

	exec, ok := p.executors[entry.ActionType]
	if !ok {
		entry.Status = outbox.StatusFailed
		entry.ErrorMessage = "no executor registered for action type"
		return p.store.Save(ctx, entry)
	}

	externalID, execErr := exec.Execute(ctx, entry.Payload)
	entry.MarkAttempt(time.Now(), externalID, execErr)
	if execErr != nil {
		slog.Warn("outbox_attempt_failed", "entry_id", entry.ID, "attempts", entry.Attempts, "status", entry.Status, "error", execErr.Error())
	} else {
		slog.Info("outbox_delivered", "entry_id", entry.ID, "action_type", entry.ActionType, "external_id", externalID)
	}
	return p.store.Save(ctx, entry)
}

// delayFor computes the exponential backoff for the next attempt.
func (p *OutboxProcessor) delayFor(attempts int) time.Duration {
	delay := p.baseDelay
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= p.maxDelay {
			return p.maxDelay
		}
	}
	return delay
}

// RunOutboxLoop processes the outbox on an interval until the context ends.
func (p *OutboxProcessor) RunOutboxLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.ProcessPending(ctx); err != nil {
				slog.Error("outbox_loop_error", "error", err.Error())
			}
		}
	}
}
