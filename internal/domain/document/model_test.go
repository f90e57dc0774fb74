package document_test

import (
	"errors"
	"testing"
	"time"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/client"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/document"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/plan"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/staff"
)

func intPtr(v int) *int { return &v }

func testDocument() document.Document {
	cl := client.Client{
		ID:        "c1",
		FirstName: "Nino",
		CoachID:   "s1",
		Placements: []client.Placement{
			{ID: "p1", Area: "Center", Group: "kids-4-6", Plan: plan.Monthly, PayStatus: client.PayStatusPending, PayAmount: intPtr(100), Status: client.StatusActive},
		},
	}
	cl.SyncMirror()

	return document.Document{
		Revision: 3,
		Leads: []lead.Lead{
			{ID: "l1", Name: "Miro", Stage: lead.StageQueue, Phone: "123", Area: "Center", Group: "kids-4-6"},
			{ID: "l2", Name: "Ana", Stage: lead.StageTrial, Telegram: "@ana"},
		},
		Clients: []client.Client{cl},
		Staff: []staff.Member{
			{ID: "s1", Name: "Coach G.", Role: staff.RoleCoach, Areas: []string{"Center"}, Groups: []string{"kids-4-6"}},
		},
		Settings: document.Settings{
			Areas:  []string{"Center", "North"},
			Groups: []string{"kids-4-6", "teens-10-14"},
			Plans: plan.Rules{Groups: map[string]plan.GroupRules{
				"kids-4-6": {Allowed: []string{plan.Monthly}, Default: plan.Monthly},
			}},
		},
	}
}

// TestDocument_Clone verifies that mutating a clone never leaks into the
// original snapshot.
func TestDocument_Clone(t *testing.T) {
	orig := testDocument()
	cp := orig.Clone()

	cp.Leads[0].Name = "changed"
	cp.Leads = append(cp.Leads, lead.Lead{ID: "l3", Name: "New", Stage: lead.StageQueue, Phone: "1"})
	cp.Clients[0].Placements[0].Plan = plan.Yearly
	*cp.Clients[0].Placements[0].PayAmount = 999
	cp.Settings.Areas[0] = "Elsewhere"
	cp.Settings.Plans.Groups["kids-4-6"] = plan.GroupRules{Default: plan.Yearly}
	cp.Staff[0].Areas[0] = "Elsewhere"
	cp.AppendChange(document.Entry{ID: "e1", Actor: "x", Description: "y", Timestamp: time.Now()})

	if orig.Leads[0].Name != "Miro" || len(orig.Leads) != 2 {
		t.Error("lead mutation leaked into the original")
	}
	if orig.Clients[0].Placements[0].Plan != plan.Monthly {
		t.Error("placement mutation leaked into the original")
	}
	if *orig.Clients[0].Placements[0].PayAmount != 100 {
		t.Error("amount pointer is shared between clone and original")
	}
	if orig.Settings.Areas[0] != "Center" {
		t.Error("settings mutation leaked into the original")
	}
	if orig.Settings.Plans.Groups["kids-4-6"].Default != plan.Monthly {
		t.Error("plan rules mutation leaked into the original")
	}
	if orig.Staff[0].Areas[0] != "Center" {
		t.Error("staff mutation leaked into the original")
	}
	if len(orig.Changelog) != 0 {
		t.Error("changelog mutation leaked into the original")
	}
}

// TestDocument_LeadLookups tests index, fetch and removal of active leads.
func TestDocument_LeadLookups(t *testing.T) {
	d := testDocument()

	if idx := d.LeadIndex("l2"); idx != 1 {
		t.Errorf("LeadIndex(l2) = %d, want 1", idx)
	}
	if idx := d.LeadIndex("nope"); idx != -1 {
		t.Errorf("LeadIndex(nope) = %d, want -1", idx)
	}

	l, err := d.LeadByID("l1")
	if err != nil || l.Name != "Miro" {
		t.Errorf("LeadByID(l1) = %+v, %v", l, err)
	}
	if _, err := d.LeadByID("nope"); !errors.Is(err, document.ErrLeadNotFound) {
		t.Errorf("LeadByID(nope) = %v, want ErrLeadNotFound", err)
	}

	if err := d.RemoveLead("l1"); err != nil {
		t.Fatalf("RemoveLead(l1) = %v", err)
	}
	if d.LeadIndex("l1") != -1 || len(d.Leads) != 1 {
		t.Error("lead l1 still present after removal")
	}
	if err := d.RemoveLead("l1"); !errors.Is(err, document.ErrLeadNotFound) {
		t.Errorf("second RemoveLead(l1) = %v, want ErrLeadNotFound", err)
	}
}

// TestDocument_UpsertLifecycleEvent verifies that a newer event supersedes
// the older one for the same lead id.
func TestDocument_UpsertLifecycleEvent(t *testing.T) {
	d := testDocument()

	d.UpsertLifecycleEvent(lead.LifecycleEvent{ID: "e1", LeadID: "l1", Outcome: lead.OutcomeCanceled})
	d.UpsertLifecycleEvent(lead.LifecycleEvent{ID: "e2", LeadID: "l2", Outcome: lead.OutcomeConverted})
	d.UpsertLifecycleEvent(lead.LifecycleEvent{ID: "e3", LeadID: "l1", Outcome: lead.OutcomeConverted})

	if len(d.LifecycleEvents) != 2 {
		t.Fatalf("got %d lifecycle events, want 2", len(d.LifecycleEvents))
	}
	ev, ok := d.LifecycleEventFor("l1")
	if !ok || ev.ID != "e3" || ev.Outcome != lead.OutcomeConverted {
		t.Errorf("LifecycleEventFor(l1) = %+v, %v; want superseding event e3", ev, ok)
	}
	if _, ok := d.LifecycleEventFor("nope"); ok {
		t.Error("LifecycleEventFor(nope) reported an event")
	}
}

// TestDocument_ReplaceClient tests client lookup and replacement.
func TestDocument_ReplaceClient(t *testing.T) {
	d := testDocument()

	c, err := d.ClientByID("c1")
	if err != nil {
		t.Fatalf("ClientByID(c1) = %v", err)
	}
	c.FirstName = "Renamed"
	if err := d.ReplaceClient(c); err != nil {
		t.Fatalf("ReplaceClient = %v", err)
	}
	got, _ := d.ClientByID("c1")
	if got.FirstName != "Renamed" {
		t.Errorf("client not replaced: %q", got.FirstName)
	}

	c.ID = "ghost"
	if err := d.ReplaceClient(c); !errors.Is(err, document.ErrClientNotFound) {
		t.Errorf("ReplaceClient(ghost) = %v, want ErrClientNotFound", err)
	}
}

// TestDocument_Validate tests cross-reference checks.
func TestDocument_Validate(t *testing.T) {
	t.Run("consistent document", func(t *testing.T) {
		d := testDocument()
		if err := d.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("lead with unconfigured area", func(t *testing.T) {
		d := testDocument()
		d.Leads[0].Area = "Moon"
		if err := d.Validate(); err == nil {
			t.Error("Validate() accepted an unconfigured area")
		}
	})

	t.Run("client with dangling coach", func(t *testing.T) {
		d := testDocument()
		d.Clients[0].CoachID = "ghost"
		if err := d.Validate(); err == nil {
			t.Error("Validate() accepted a dangling coach reference")
		}
	})

	t.Run("client with broken mirror", func(t *testing.T) {
		d := testDocument()
		d.Clients[0].Group = "teens-10-14"
		if err := d.Validate(); err == nil {
			t.Error("Validate() accepted a broken mirror")
		}
	})
}

// TestSettings_FirstAreaGroup tests first-value fallbacks.
func TestSettings_FirstAreaGroup(t *testing.T) {
	s := document.Settings{Areas: []string{"Center"}, Groups: []string{"kids-4-6"}}
	if s.FirstArea() != "Center" || s.FirstGroup() != "kids-4-6" {
		t.Errorf("FirstArea/FirstGroup = %q/%q", s.FirstArea(), s.FirstGroup())
	}
	empty := document.Settings{}
	if empty.FirstArea() != "" || empty.FirstGroup() != "" {
		t.Error("empty settings should yield empty firsts")
	}
}
