package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	docsync "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/sync"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/document"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
)

// IntakeLeadInput carries the schema-valid form values for a new lead.
type IntakeLeadInput struct {
	Actor      string
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

// IntakeLeadDeps holds dependencies for IntakeLead.
type IntakeLeadDeps struct {
	Documents DocumentCommitter
}

// ExecuteIntakeLead creates a lead at the first pipeline stage and commits
// the document.
// PRE: Input passed the form boundary (name + one contact channel)
// POST: Lead is in the active set at the queue stage; one changelog entry
func ExecuteIntakeLead(ctx context.Context, input IntakeLeadInput, deps IntakeLeadDeps) (lead.Lead, docsync.Result, error) {
	doc := deps.Documents.Snapshot()

	now := timeNow()
	l := lead.Lead{
		ID:         uuid.New().String(),
		Name:       input.Name,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		ParentName: input.ParentName,
		Phone:      input.Phone,
		WhatsApp:   input.WhatsApp,
		Telegram:   input.Telegram,
		Instagram:  input.Instagram,
		Source:     input.Source,
		Area:       input.Area,
		Group:      input.Group,
		Stage:      lead.StageQueue,
		Plan:       input.Plan,
		BirthDate:  input.BirthDate,
		StartDate:  input.StartDate,
		Notes:      input.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	normalizeLead(&l, &doc.Settings)

	if err := l.Validate(); err != nil {
		return lead.Lead{}, docsync.Result{}, err
	}

	doc.Leads = append(doc.Leads, l)
	doc.AppendChange(newChange(input.Actor, fmt.Sprintf("created lead %q", l.Name)))

	res := deps.Documents.Commit(ctx, doc)
	slog.Info("lead_event", "event", "lead_created", "lead_id", l.ID, "stage", l.Stage, "outcome", res.Outcome.String())
	return l, res, nil
}

// normalizeLead applies the business-level fallbacks shared by intake and
// edit: blank area/group fall back to the first configured values, the
// inferred source channel falls back to the first populated contact, and the
// requested plan is re-validated against the group's allowed set.
func normalizeLead(l *lead.Lead, s *document.Settings) {
	if l.Area == "" {
		l.Area = s.FirstArea()
	}
	if l.Group == "" {
		l.Group = s.FirstGroup()
	}
	if l.Source == "" {
		switch {
		case l.Phone != "":
			l.Source = "phone"
		case l.WhatsApp != "":
			l.Source = "whatsapp"
		case l.Telegram != "":
			l.Source = "telegram"
		case l.Instagram != "":
			l.Source = "instagram"
		}
	}
	if l.Plan != "" {
		l.Plan = s.Plans.Normalize(l.Group, l.Plan)
	}
}
