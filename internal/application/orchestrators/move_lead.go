package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	docsync "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/sync"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
)

// MoveLeadInput carries input for the stage-move orchestrator.
type MoveLeadInput struct {
	Actor     string
	LeadID    string
	Direction int // +1 or -1
}

// MoveLeadDeps holds dependencies for MoveLead.
type MoveLeadDeps struct {
	Documents DocumentCommitter
}

// ExecuteMoveLead steps a lead one stage forward or backward, clamped at the
// pipeline ends. Pushing past a boundary is a no-op that still commits
// successfully.
// PRE: Direction is +1 or -1; LeadID refers to an active lead
// POST: Lead stage is within the pipeline; UpdatedAt is stamped
func ExecuteMoveLead(ctx context.Context, input MoveLeadInput, deps MoveLeadDeps) (lead.Lead, docsync.Result, error) {
	if input.LeadID == "" {
		return lead.Lead{}, docsync.Result{}, errors.New("lead ID is required")
	}
	if input.Direction != 1 && input.Direction != -1 {
		return lead.Lead{}, docsync.Result{}, errors.New("direction must be +1 or -1")
	}

	doc := deps.Documents.Snapshot()
	idx := doc.LeadIndex(input.LeadID)
	if idx < 0 {
		return lead.Lead{}, docsync.Result{}, fmt.Errorf("move lead %s: not in the active pipeline", input.LeadID)
	}

	l := doc.Leads[idx]
	moved := l.Move(input.Direction)
	l.UpdatedAt = timeNow()
	doc.Leads[idx] = l
	doc.AppendChange(newChange(input.Actor, fmt.Sprintf("moved lead %q to %s", l.Name, l.Stage)))

	res := deps.Documents.Commit(ctx, doc)
	slog.Info("lead_event", "event", "lead_moved", "lead_id", l.ID, "stage", l.Stage, "changed", moved, "outcome", res.Outcome.String())
	return l, res, nil
}
