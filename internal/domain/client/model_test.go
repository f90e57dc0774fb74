package client_test

import (
	"errors"
	"testing"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/client"
)

func intPtr(v int) *int { return &v }

func twoPlacementClient() client.Client {
	c := client.Client{
		ID:        "c1",
		FirstName: "Nino",
		LastName:  "B.",
		Placements: []client.Placement{
			{ID: "p1", Area: "Center", Group: "kids-4-6", Plan: "monthly", PayStatus: client.PayStatusPaid, PayAmount: intPtr(100), Status: client.StatusActive},
			{ID: "p2", Area: "North", Group: "teens-10-14", Plan: "weekly-2", PayStatus: client.PayStatusPending, Status: client.StatusNew},
		},
	}
	c.SyncMirror()
	return c
}

// TestClient_SyncMirror tests that top-level fields track placements[0].
func TestClient_SyncMirror(t *testing.T) {
	c := twoPlacementClient()

	if c.Area != "Center" || c.Group != "kids-4-6" || c.Plan != "monthly" {
		t.Errorf("mirror = %q/%q/%q, want Center/kids-4-6/monthly", c.Area, c.Group, c.Plan)
	}
	if c.PayStatus != client.PayStatusPaid || c.PayAmount == nil || *c.PayAmount != 100 {
		t.Errorf("payment mirror = %q/%v, want paid/100", c.PayStatus, c.PayAmount)
	}
	if err := c.CheckMirror(); err != nil {
		t.Errorf("CheckMirror() after SyncMirror = %v", err)
	}

	// Clearing all placements clears the mirror.
	c.Placements = nil
	c.SyncMirror()
	if c.Area != "" || c.Plan != "" || c.PayAmount != nil {
		t.Errorf("mirror not cleared: %q/%q/%v", c.Area, c.Plan, c.PayAmount)
	}
}

// TestClient_CheckMirror tests mirror violation detection.
func TestClient_CheckMirror(t *testing.T) {
	c := twoPlacementClient()

	c.Plan = "yearly"
	if !errors.Is(c.CheckMirror(), client.ErrMirrorOutOfSync) {
		t.Error("CheckMirror() accepted a diverged plan")
	}

	c = twoPlacementClient()
	c.PayAmount = nil
	if !errors.Is(c.CheckMirror(), client.ErrMirrorOutOfSync) {
		t.Error("CheckMirror() accepted a diverged amount")
	}

	c = twoPlacementClient()
	c.PayAmount = intPtr(55)
	if !errors.Is(c.CheckMirror(), client.ErrMirrorOutOfSync) {
		t.Error("CheckMirror() accepted a different amount value")
	}
}

// TestClient_RemovePlacement tests placement removal rules.
func TestClient_RemovePlacement(t *testing.T) {
	t.Run("removing primary re-syncs mirror", func(t *testing.T) {
		c := twoPlacementClient()
		if err := c.RemovePlacement("p1", true); err != nil {
			t.Fatalf("RemovePlacement(p1) = %v", err)
		}
		if len(c.Placements) != 1 || c.Placements[0].ID != "p2" {
			t.Fatalf("placements after removal = %+v", c.Placements)
		}
		if c.Area != "North" || c.Plan != "weekly-2" || c.PayAmount != nil {
			t.Errorf("mirror after removal = %q/%q/%v, want North/weekly-2/nil", c.Area, c.Plan, c.PayAmount)
		}
	})

	t.Run("persisted client may drop last placement", func(t *testing.T) {
		c := twoPlacementClient()
		c.Placements = c.Placements[:1]
		c.SyncMirror()
		if err := c.RemovePlacement("p1", true); err != nil {
			t.Fatalf("RemovePlacement on persisted client = %v", err)
		}
		if len(c.Placements) != 0 || c.Area != "" {
			t.Errorf("expected empty placements and cleared mirror, got %+v / %q", c.Placements, c.Area)
		}
	})

	t.Run("unsaved client keeps last placement", func(t *testing.T) {
		c := twoPlacementClient()
		c.Placements = c.Placements[:1]
		c.SyncMirror()
		err := c.RemovePlacement("p1", false)
		if !errors.Is(err, client.ErrLastPlacement) {
			t.Fatalf("RemovePlacement on unsaved client = %v, want ErrLastPlacement", err)
		}
		if len(c.Placements) != 1 {
			t.Errorf("placement was removed despite the error")
		}
	})

	t.Run("unknown placement id", func(t *testing.T) {
		c := twoPlacementClient()
		if err := c.RemovePlacement("nope", true); !errors.Is(err, client.ErrUnknownPlacement) {
			t.Errorf("RemovePlacement(nope) = %v, want ErrUnknownPlacement", err)
		}
	})
}

// TestClient_Validate tests client validation.
func TestClient_Validate(t *testing.T) {
	c := twoPlacementClient()
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() on synced client = %v", err)
	}

	c.FirstName = " "
	if !errors.Is(c.Validate(), client.ErrEmptyName) {
		t.Error("Validate() accepted an empty first name")
	}

	c = twoPlacementClient()
	c.Group = "elsewhere"
	if !errors.Is(c.Validate(), client.ErrMirrorOutOfSync) {
		t.Error("Validate() accepted a broken mirror")
	}
}

// TestClient_DisplayName tests name joining.
func TestClient_DisplayName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{"both parts", "Nino", "B.", "Nino B."},
		{"first only", "Nino", "", "Nino"},
		{"spaces trimmed", " Nino ", " B. ", "Nino B."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := client.Client{FirstName: tt.first, LastName: tt.last}
			if got := c.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
