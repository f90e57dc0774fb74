package document

import (
	"errors"
	"fmt"
	"time"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/client"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/plan"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/staff"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/task"
)

// Domain errors
var (
	// ErrRevisionConflict is returned by the persistence layer when the stored
	// revision has advanced past the one the caller last observed.
	ErrRevisionConflict = errors.New("document revision conflict")
	// ErrNotInitialized is returned when no document row has been created yet.
	ErrNotInitialized = errors.New("document not initialized")
	ErrLeadNotFound   = errors.New("lead not found")
	ErrClientNotFound = errors.New("client not found")
	ErrTaskNotFound   = errors.New("task not found")
)

// Settings holds club configuration referenced by every entity list.
type Settings struct {
	Areas         []string           `json:"areas"`
	Groups        []string           `json:"groups"`
	GroupLimits   map[string]int     `json:"group_limits,omitempty"`   // group -> capacity
	CurrencyRates map[string]float64 `json:"currency_rates,omitempty"` // code -> rate vs base currency
	PayFormula    string             `json:"pay_formula,omitempty"`    // coach pay formula
	Plans         plan.Rules         `json:"plans"`
}

// FirstArea returns the first configured area, or "".
func (s *Settings) FirstArea() string {
	if len(s.Areas) == 0 {
		return ""
	}
	return s.Areas[0]
}

// FirstGroup returns the first configured group, or "".
func (s *Settings) FirstGroup() string {
	if len(s.Groups) == 0 {
		return ""
	}
	return s.Groups[0]
}

// Entry is one append-only changelog record. Every document-mutating
// operation appends exactly one entry per logical action.
type Entry struct {
	ID          string    `json:"id"`
	Actor       string    `json:"actor"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Document is the root aggregate: the entire dataset plus a monotonic
// revision marker. It is the unit of persistence and commit; partial
// writes are forbidden.
type Document struct {
	Revision        int64                 `json:"revision"`
	Leads           []lead.Lead           `json:"leads"`
	ArchivedLeads   []lead.Lead           `json:"archived_leads"`
	LifecycleEvents []lead.LifecycleEvent `json:"lifecycle_events"`
	Clients         []client.Client       `json:"clients"`
	Tasks           []task.Task           `json:"tasks"`
	ArchivedTasks   []task.Task           `json:"archived_tasks"`
	Staff           []staff.Member        `json:"staff"`
	Settings        Settings              `json:"settings"`
	Changelog       []Entry               `json:"changelog"`
}

// Clone returns a deep copy. Readers treat snapshots as immutable; mutation
// always happens on a clone that becomes the commit candidate.
func (d *Document) Clone() Document {
	out := *d
	out.Leads = cloneLeads(d.Leads)
	out.ArchivedLeads = cloneLeads(d.ArchivedLeads)
	out.LifecycleEvents = append([]lead.LifecycleEvent(nil), d.LifecycleEvents...)
	out.Clients = cloneClients(d.Clients)
	out.Tasks = append([]task.Task(nil), d.Tasks...)
	out.ArchivedTasks = append([]task.Task(nil), d.ArchivedTasks...)
	out.Staff = cloneStaff(d.Staff)
	out.Changelog = append([]Entry(nil), d.Changelog...)
	out.Settings = d.Settings.clone()
	return out
}

func cloneLeads(in []lead.Lead) []lead.Lead {
	return append([]lead.Lead(nil), in...)
}

func cloneClients(in []client.Client) []client.Client {
	out := append([]client.Client(nil), in...)
	for i := range out {
		out[i].Placements = append([]client.Placement(nil), out[i].Placements...)
		for j := range out[i].Placements {
			out[i].Placements[j].PayAmount = cloneAmount(out[i].Placements[j].PayAmount)
		}
		out[i].PayAmount = cloneAmount(out[i].PayAmount)
	}
	return out
}

func cloneAmount(a *int) *int {
	if a == nil {
		return nil
	}
	v := *a
	return &v
}

func cloneStaff(in []staff.Member) []staff.Member {
	out := append([]staff.Member(nil), in...)
	for i := range out {
		out[i].Areas = append([]string(nil), out[i].Areas...)
		out[i].Groups = append([]string(nil), out[i].Groups...)
	}
	return out
}

func (s Settings) clone() Settings {
	out := s
	out.Areas = append([]string(nil), s.Areas...)
	out.Groups = append([]string(nil), s.Groups...)
	if s.GroupLimits != nil {
		out.GroupLimits = make(map[string]int, len(s.GroupLimits))
		for k, v := range s.GroupLimits {
			out.GroupLimits[k] = v
		}
	}
	if s.CurrencyRates != nil {
		out.CurrencyRates = make(map[string]float64, len(s.CurrencyRates))
		for k, v := range s.CurrencyRates {
			out.CurrencyRates[k] = v
		}
	}
	if s.Plans.Groups != nil {
		out.Plans.Groups = make(map[string]plan.GroupRules, len(s.Plans.Groups))
		for k, v := range s.Plans.Groups {
			g := v
			g.Allowed = append([]string(nil), v.Allowed...)
			g.Prices = append([]plan.Price(nil), v.Prices...)
			out.Plans.Groups[k] = g
		}
	}
	return out
}

// LeadIndex returns the position of a lead in the active set, or -1.
func (d *Document) LeadIndex(id string) int {
	for i := range d.Leads {
		if d.Leads[i].ID == id {
			return i
		}
	}
	return -1
}

// LeadByID returns a copy of the active lead with the given id.
func (d *Document) LeadByID(id string) (lead.Lead, error) {
	idx := d.LeadIndex(id)
	if idx < 0 {
		return lead.Lead{}, ErrLeadNotFound
	}
	return d.Leads[idx], nil
}

// RemoveLead drops a lead from the active set.
// POST: Returns ErrLeadNotFound if the id is not in the active set
func (d *Document) RemoveLead(id string) error {
	idx := d.LeadIndex(id)
	if idx < 0 {
		return ErrLeadNotFound
	}
	d.Leads = append(d.Leads[:idx], d.Leads[idx+1:]...)
	return nil
}

// ClientByID returns a copy of the client with the given id.
func (d *Document) ClientByID(id string) (client.Client, error) {
	for i := range d.Clients {
		if d.Clients[i].ID == id {
			return d.Clients[i], nil
		}
	}
	return client.Client{}, ErrClientNotFound
}

// ReplaceClient swaps the stored client with the same id.
func (d *Document) ReplaceClient(c client.Client) error {
	for i := range d.Clients {
		if d.Clients[i].ID == c.ID {
			d.Clients[i] = c
			return nil
		}
	}
	return ErrClientNotFound
}

// UpsertLifecycleEvent records a terminal exit. At most one live event is
// retained per lead id: an older entry for the same id is superseded in
// place, not kept alongside.
func (d *Document) UpsertLifecycleEvent(ev lead.LifecycleEvent) {
	for i := range d.LifecycleEvents {
		if d.LifecycleEvents[i].LeadID == ev.LeadID {
			d.LifecycleEvents[i] = ev
			return
		}
	}
	d.LifecycleEvents = append(d.LifecycleEvents, ev)
}

// LifecycleEventFor returns the live event for a lead id, if any.
func (d *Document) LifecycleEventFor(leadID string) (lead.LifecycleEvent, bool) {
	for i := range d.LifecycleEvents {
		if d.LifecycleEvents[i].LeadID == leadID {
			return d.LifecycleEvents[i], true
		}
	}
	return lead.LifecycleEvent{}, false
}

// AppendChange appends one changelog entry.
func (d *Document) AppendChange(e Entry) {
	d.Changelog = append(d.Changelog, e)
}

// Validate checks cross-reference consistency: every lead/client area and
// group must resolve to a configured value or be absent, and client coach
// references must resolve to a live staff member.
// POST: Returns the first violation found, nil otherwise
func (d *Document) Validate() error {
	for i := range d.Leads {
		if err := d.checkAreaGroup("lead", d.Leads[i].ID, d.Leads[i].Area, d.Leads[i].Group); err != nil {
			return err
		}
	}
	for i := range d.Clients {
		c := &d.Clients[i]
		if err := d.checkAreaGroup("client", c.ID, c.Area, c.Group); err != nil {
			return err
		}
		if err := c.CheckMirror(); err != nil {
			return fmt.Errorf("client %s: %w", c.ID, err)
		}
		if c.CoachID != "" && !d.hasStaff(c.CoachID) {
			return fmt.Errorf("client %s: coach %s does not resolve to a staff member", c.ID, c.CoachID)
		}
	}
	return nil
}

func (d *Document) checkAreaGroup(kind, id, area, group string) error {
	if area != "" && !containsString(d.Settings.Areas, area) {
		return fmt.Errorf("%s %s: area %q is not configured", kind, id, area)
	}
	if group != "" && !containsString(d.Settings.Groups, group) {
		return fmt.Errorf("%s %s: group %q is not configured", kind, id, group)
	}
	return nil
}

func (d *Document) hasStaff(id string) bool {
	for i := range d.Staff {
		if d.Staff[i].ID == id {
			return true
		}
	}
	return false
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
