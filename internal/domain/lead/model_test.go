package lead_test

import (
	"testing"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
)

// TestLead_Validate tests validation of Lead.
func TestLead_Validate(t *testing.T) {
	tests := []struct {
		name    string
		lead    lead.Lead
		wantErr error
	}{
		{
			name:    "valid lead with phone",
			lead:    lead.Lead{ID: "1", Name: "Miroslav K.", Stage: lead.StageQueue, Phone: "+995 555 123456"},
			wantErr: nil,
		},
		{
			name:    "valid lead with telegram only",
			lead:    lead.Lead{ID: "2", Name: "Ana G.", Stage: lead.StageTrial, Telegram: "@ana_g"},
			wantErr: nil,
		},
		{
			name:    "empty name",
			lead:    lead.Lead{ID: "3", Name: "  ", Stage: lead.StageQueue, Phone: "123"},
			wantErr: lead.ErrEmptyName,
		},
		{
			name:    "unknown stage",
			lead:    lead.Lead{ID: "4", Name: "Luka", Stage: "won", Phone: "123"},
			wantErr: lead.ErrInvalidStage,
		},
		{
			name:    "no contact channel",
			lead:    lead.Lead{ID: "5", Name: "Luka", Stage: lead.StageQueue},
			wantErr: lead.ErrNoContact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lead.Validate()
			if err != tt.wantErr {
				t.Errorf("Lead.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestLead_Move tests single-step movement along the pipeline.
func TestLead_Move(t *testing.T) {
	tests := []struct {
		name        string
		stage       string
		direction   int
		wantStage   string
		wantChanged bool
	}{
		{"forward from queue", lead.StageQueue, 1, lead.StagePostponed, true},
		{"forward from trial", lead.StageTrial, 1, lead.StageAwaitingPayment, true},
		{"backward from trial", lead.StageTrial, -1, lead.StagePostponed, true},
		{"clamped at start", lead.StageQueue, -1, lead.StageQueue, false},
		{"clamped at end", lead.StageAwaitingPayment, 1, lead.StageAwaitingPayment, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lead.Lead{ID: "1", Name: "Test", Stage: tt.stage, Phone: "123"}
			changed := l.Move(tt.direction)
			if changed != tt.wantChanged {
				t.Errorf("Lead.Move(%d) changed = %v, want %v", tt.direction, changed, tt.wantChanged)
			}
			if l.Stage != tt.wantStage {
				t.Errorf("Lead.Move(%d) stage = %q, want %q", tt.direction, l.Stage, tt.wantStage)
			}
		})
	}
}

// TestLead_MoveRoundTrip verifies that a forward step followed by a backward
// step restores the original stage everywhere except at the clamped ends.
func TestLead_MoveRoundTrip(t *testing.T) {
	for _, stage := range lead.Stages[:len(lead.Stages)-1] {
		l := lead.Lead{ID: "1", Name: "Test", Stage: stage, Phone: "123"}
		l.Move(1)
		l.Move(-1)
		if l.Stage != stage {
			t.Errorf("round trip from %q ended at %q", stage, l.Stage)
		}
	}
}

// TestLead_MoveStaysInPipeline checks that repeated moves never leave the
// stage set.
func TestLead_MoveStaysInPipeline(t *testing.T) {
	l := lead.Lead{ID: "1", Name: "Test", Stage: lead.StageQueue, Phone: "123"}
	for i := 0; i < 10; i++ {
		l.Move(1)
		if lead.StageIndex(l.Stage) < 0 {
			t.Fatalf("stage %q left the pipeline after %d forward moves", l.Stage, i+1)
		}
	}
	if l.Stage != lead.StageAwaitingPayment {
		t.Errorf("ten forward moves ended at %q, want %q", l.Stage, lead.StageAwaitingPayment)
	}
	for i := 0; i < 10; i++ {
		l.Move(-1)
	}
	if l.Stage != lead.StageQueue {
		t.Errorf("ten backward moves ended at %q, want %q", l.Stage, lead.StageQueue)
	}
}

// TestStageIndex tests stage lookup.
func TestStageIndex(t *testing.T) {
	for i, stage := range lead.Stages {
		if got := lead.StageIndex(stage); got != i {
			t.Errorf("StageIndex(%q) = %d, want %d", stage, got, i)
		}
	}
	if got := lead.StageIndex("unknown"); got != -1 {
		t.Errorf("StageIndex(unknown) = %d, want -1", got)
	}
}

// TestLifecycleEvent_Validate tests validation of LifecycleEvent.
func TestLifecycleEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		event   lead.LifecycleEvent
		wantErr bool
	}{
		{"converted", lead.LifecycleEvent{ID: "1", LeadID: "l1", Outcome: lead.OutcomeConverted}, false},
		{"canceled", lead.LifecycleEvent{ID: "2", LeadID: "l1", Outcome: lead.OutcomeCanceled}, false},
		{"missing lead id", lead.LifecycleEvent{ID: "3", Outcome: lead.OutcomeConverted}, true},
		{"unknown outcome", lead.LifecycleEvent{ID: "4", LeadID: "l1", Outcome: "paused"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("LifecycleEvent.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
