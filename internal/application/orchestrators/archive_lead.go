package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	docsync "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/sync"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
)

// ArchiveLeadInput carries input for the archive orchestrator.
type ArchiveLeadInput struct {
	Actor  string
	LeadID string
}

// ArchiveLeadDeps holds dependencies for ArchiveLead.
type ArchiveLeadDeps struct {
	Documents DocumentCommitter
}

// ExecuteArchiveLead resolves a lead out of the pipeline into the archive.
// The lead keeps its data with a refreshed timestamp, a superseding
// lifecycle event with outcome canceled is recorded, and one changelog entry
// is appended. There is no path back into the pipeline.
// PRE: LeadID refers to a lead still in the active set
func ExecuteArchiveLead(ctx context.Context, input ArchiveLeadInput, deps ArchiveLeadDeps) (docsync.Result, error) {
	if input.LeadID == "" {
		return docsync.Result{}, errors.New("lead ID is required")
	}

	doc := deps.Documents.Snapshot()
	l, err := doc.LeadByID(input.LeadID)
	if err != nil {
		return docsync.Result{}, fmt.Errorf("archive lead %s: %w", input.LeadID, err)
	}

	if err := doc.RemoveLead(l.ID); err != nil {
		return docsync.Result{}, err
	}
	l.UpdatedAt = timeNow()
	doc.ArchivedLeads = append(doc.ArchivedLeads, l)
	doc.UpsertLifecycleEvent(lead.LifecycleEvent{
		ID:         uuid.New().String(),
		LeadID:     l.ID,
		Name:       l.Name,
		Area:       l.Area,
		Group:      l.Group,
		Source:     l.Source,
		Outcome:    lead.OutcomeCanceled,
		ResolvedAt: timeNow(),
	})
	doc.AppendChange(newChange(input.Actor, fmt.Sprintf("archived lead %q", l.Name)))

	res := deps.Documents.Commit(ctx, doc)
	slog.Info("lead_event", "event", "lead_archived", "lead_id", l.ID, "outcome", res.Outcome.String())
	return res, nil
}
