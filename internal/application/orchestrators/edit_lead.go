package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	docsync "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/sync"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
)

// EditLeadInput carries replacement values for an active lead's editable
// fields. Values arrive schema-valid from the form boundary; only the
// business-level fallbacks are re-applied here.
type EditLeadInput struct {
	Actor      string
	LeadID     string
	Name       string
	FirstName  string
	LastName   string
	ParentName string
	Phone      string
	WhatsApp   string
	Telegram   string
	Instagram  string
	Source     string
	Area       string
	Group      string
	Plan       string
	BirthDate  string
	StartDate  string
	Notes      string
}

// EditLeadDeps holds dependencies for EditLead.
type EditLeadDeps struct {
	Documents DocumentCommitter
}

// ExecuteEditLead replaces the lead's editable fields, re-derives area/group
// fallbacks, re-validates the subscription plan, stamps the update time, and
// commits with one changelog entry.
// PRE: LeadID refers to a lead still in the active set
func ExecuteEditLead(ctx context.Context, input EditLeadInput, deps EditLeadDeps) (lead.Lead, docsync.Result, error) {
	if input.LeadID == "" {
		return lead.Lead{}, docsync.Result{}, errors.New("lead ID is required")
	}

	doc := deps.Documents.Snapshot()
	idx := doc.LeadIndex(input.LeadID)
	if idx < 0 {
		return lead.Lead{}, docsync.Result{}, fmt.Errorf("edit lead %s: not in the active pipeline", input.LeadID)
	}

	l := doc.Leads[idx]
	l.Name = input.Name
	l.FirstName = input.FirstName
	l.LastName = input.LastName
	l.ParentName = input.ParentName
	l.Phone = input.Phone
	l.WhatsApp = input.WhatsApp
	l.Telegram = input.Telegram
	l.Instagram = input.Instagram
	l.Source = input.Source
	l.Area = input.Area
	l.Group = input.Group
	l.Plan = input.Plan
	l.BirthDate = input.BirthDate
	l.StartDate = input.StartDate
	l.Notes = input.Notes
	normalizeLead(&l, &doc.Settings)
	l.UpdatedAt = timeNow()

	if err := l.Validate(); err != nil {
		return lead.Lead{}, docsync.Result{}, err
	}

	doc.Leads[idx] = l
	doc.AppendChange(newChange(input.Actor, fmt.Sprintf("edited lead %q", l.Name)))

	res := deps.Documents.Commit(ctx, doc)
	slog.Info("lead_event", "event", "lead_edited", "lead_id", l.ID, "outcome", res.Outcome.String())
	return l, res, nil
}
