package lead

import (
	"errors"
	"strings"
	"time"
)

// Pipeline stage constants, in pipeline order.
const (
	StageQueue           = "queue"
	StagePostponed       = "postponed"
	StageTrial           = "trial"
	StageAwaitingPayment = "awaiting_payment"
)

// Stages is the ordered pipeline. Order defines the only legal movement
// primitive: one step forward or backward, clamped at both ends.
var Stages = []string{StageQueue, StagePostponed, StageTrial, StageAwaitingPayment}

// Terminal outcomes recorded when a lead exits the active pipeline.
const (
	OutcomeConverted = "converted"
	OutcomeCanceled  = "canceled"
)

// Domain errors
var (
	ErrEmptyName      = errors.New("lead name cannot be empty")
	ErrNoContact      = errors.New("lead needs at least one contact channel")
	ErrInvalidStage   = errors.New("unknown pipeline stage")
	ErrInvalidOutcome = errors.New("outcome must be 'converted' or 'canceled'")
)

// Lead is a prospective client moving through the intake pipeline.
type Lead struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	ParentName string    `json:"parent_name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	WhatsApp   string    `json:"whatsapp,omitempty"`
	Telegram   string    `json:"telegram,omitempty"`
	Instagram  string    `json:"instagram,omitempty"`
	Source     string    `json:"source,omitempty"` // primary contact channel
	Area       string    `json:"area,omitempty"`
	Group      string    `json:"group,omitempty"`
	Stage      string    `json:"stage"`
	Plan       string    `json:"plan,omitempty"` // requested subscription plan
	BirthDate  string    `json:"birth_date,omitempty"`
	StartDate  string    `json:"start_date,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StageIndex returns the position of a stage in the pipeline, or -1.
func StageIndex(stage string) int {
	for i, s := range Stages {
		if s == stage {
			return i
		}
	}
	return -1
}

// HasContact reports whether at least one contact channel is populated.
// INVARIANT: Lead fields are not mutated
func (l *Lead) HasContact() bool {
	return l.Phone != "" || l.WhatsApp != "" || l.Telegram != "" || l.Instagram != ""
}

// Validate checks if the Lead has valid data.
// PRE: Lead struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be empty; Stage must be a known stage;
// at least one contact channel must be populated
func (l *Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	if StageIndex(l.Stage) < 0 {
		return ErrInvalidStage
	}
	if !l.HasContact() {
		return ErrNoContact
	}
	return nil
}

// Move steps the lead one position along the pipeline. Direction is +1 or -1;
// the new stage is clamped at both ends, so pushing past a boundary is a
// no-op that still counts as a successful operation.
// POST: Stage is always one of Stages; returns true if the stage changed
func (l *Lead) Move(direction int) bool {
	idx := StageIndex(l.Stage)
	if idx < 0 {
		idx = 0
	}
	next := idx + direction
	if next < 0 {
		next = 0
	}
	if next > len(Stages)-1 {
		next = len(Stages) - 1
	}
	if Stages[next] == l.Stage {
		return false
	}
	l.Stage = Stages[next]
	return true
}

// LifecycleEvent is the immutable record of a lead's terminal exit from the
// active pipeline. In-pipeline stage moves never produce one.
type LifecycleEvent struct {
	ID         string    `json:"id"`
	LeadID     string    `json:"lead_id"`
	Name       string    `json:"name"`
	Area       string    `json:"area,omitempty"`
	Group      string    `json:"group,omitempty"`
	Source     string    `json:"source,omitempty"`
	Outcome    string    `json:"outcome"` // converted, canceled
	ResolvedAt time.Time `json:"resolved_at"`
}

// Validate checks that the LifecycleEvent has valid data.
func (e *LifecycleEvent) Validate() error {
	if e.LeadID == "" {
		return errors.New("lifecycle event needs a lead id")
	}
	if e.Outcome != OutcomeConverted && e.Outcome != OutcomeCanceled {
		return ErrInvalidOutcome
	}
	return nil
}
