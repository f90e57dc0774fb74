package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/convert"
	docsync "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/sync"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/client"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/outbox"
)

// OutboxStoreForConvert defines the store interface used to queue the
// conversion notification email.
type OutboxStoreForConvert interface {
	Create(ctx context.Context, entry outbox.Entry) error
}

// ConvertLeadInput carries input for the conversion orchestrator.
type ConvertLeadInput struct {
	Actor  string
	LeadID string
}

// ConvertLeadDeps holds dependencies for ConvertLead. OutboxStore and
// NotifyEmail are optional; when unset no notification is queued.
type ConvertLeadDeps struct {
	Documents   DocumentCommitter
	OutboxStore OutboxStoreForConvert
	NotifyEmail string
}

// ExecuteConvertLead resolves a lead out of the pipeline into a new client:
// the lead leaves the active set, a superseding lifecycle event with outcome
// converted is recorded, and one changelog entry names both sides.
// PRE: LeadID refers to a lead still in the active set
// POST: The lead id is absent from active leads and present in exactly one
// client and one live lifecycle event
func ExecuteConvertLead(ctx context.Context, input ConvertLeadInput, deps ConvertLeadDeps) (client.Client, docsync.Result, error) {
	if input.LeadID == "" {
		return client.Client{}, docsync.Result{}, errors.New("lead ID is required")
	}

	doc := deps.Documents.Snapshot()
	l, err := doc.LeadByID(input.LeadID)
	if err != nil {
		return client.Client{}, docsync.Result{}, fmt.Errorf("convert lead %s: %w", input.LeadID, err)
	}

	c := convert.LeadToClient(l, doc)

	if err := doc.RemoveLead(l.ID); err != nil {
		return client.Client{}, docsync.Result{}, err
	}
	doc.Clients = append(doc.Clients, c)
	doc.UpsertLifecycleEvent(lead.LifecycleEvent{
		ID:         uuid.New().String(),
		LeadID:     l.ID,
		Name:       l.Name,
		Area:       c.Area,
		Group:      c.Group,
		Source:     l.Source,
		Outcome:    lead.OutcomeConverted,
		ResolvedAt: timeNow(),
	})
	doc.AppendChange(newChange(input.Actor, fmt.Sprintf("converted lead %q to client %q", l.Name, c.DisplayName())))

	res := deps.Documents.Commit(ctx, doc)
	slog.Info("lead_event", "event", "lead_converted", "lead_id", l.ID, "client_id", c.ID, "outcome", res.Outcome.String())

	if res.Outcome == docsync.Accepted {
		queueConversionEmail(ctx, deps, c)
	}
	return c, res, nil
}

// queueConversionEmail records an outbox entry for the notification email;
// delivery and retries happen in the outbox processor.
func queueConversionEmail(ctx context.Context, deps ConvertLeadDeps, c client.Client) {
	if deps.OutboxStore == nil || deps.NotifyEmail == "" {
		return
	}
	payload, err := json.Marshal(outbox.EmailPayload{
		To:      deps.NotifyEmail,
		Subject: fmt.Sprintf("New client: %s", c.DisplayName()),
		Body: fmt.Sprintf("%s joined %s / %s on the %s plan.",
			c.DisplayName(), c.Area, c.Group, c.Plan),
	})
	if err != nil {
		slog.Error("outbox_payload_failed", "client_id", c.ID, "error", err.Error())
		return
	}
	entry := outbox.Entry{
		ID:          uuid.New().String(),
		ActionType:  outbox.ActionTypeEmail,
		Payload:     string(payload),
		Status:      outbox.StatusPending,
		MaxAttempts: 5,
		CreatedAt:   timeNow(),
	}
	if err := deps.OutboxStore.Create(ctx, entry); err != nil {
		slog.Error("outbox_enqueue_failed", "client_id", c.ID, "error", err.Error())
	}
}
