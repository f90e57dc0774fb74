package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	docsync "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/sync"
)

// RemoveLeadInput carries input for the hard-delete orchestrator.
type RemoveLeadInput struct {
	Actor  string
	LeadID string
}

// RemoveLeadDeps holds dependencies for RemoveLead.
type RemoveLeadDeps struct {
	Documents DocumentCommitter
}

// ExecuteRemoveLead hard-deletes a lead: no archive copy and no lifecycle
// event remain, only a changelog entry referencing the id. The HTTP boundary
// must have taken the user through an explicit confirmation step before
// calling this.
// PRE: LeadID refers to a lead still in the active set
// POST: No residual record of the lead except the changelog entry
func ExecuteRemoveLead(ctx context.Context, input RemoveLeadInput, deps RemoveLeadDeps) (docsync.Result, error) {
	if input.LeadID == "" {
		return docsync.Result{}, errors.New("lead ID is required")
	}

	doc := deps.Documents.Snapshot()
	if err := doc.RemoveLead(input.LeadID); err != nil {
		return docsync.Result{}, fmt.Errorf("remove lead %s: %w", input.LeadID, err)
	}
	doc.AppendChange(newChange(input.Actor, fmt.Sprintf("deleted lead %s", input.LeadID)))

	res := deps.Documents.Commit(ctx, doc)
	slog.Info("lead_event", "event", "lead_removed", "lead_id", input.LeadID, "outcome", res.Outcome.String())
	return res, nil
}
