package client

import (
	"errors"
	"strings"
	"time"
)

// Payment status constants for a placement.
const (
	PayStatusPending = "pending"
	PayStatusPaid    = "paid"
	PayStatusOverdue = "overdue"
)

// Placement lifecycle status constants.
const (
	StatusNew    = "new"
	StatusActive = "active"
	StatusPaused = "paused"
)

// Domain errors
var (
	ErrEmptyName        = errors.New("client first name cannot be empty")
	ErrLastPlacement    = errors.New("a new client must keep at least one placement")
	ErrUnknownPlacement = errors.New("placement not found")
	ErrMirrorOutOfSync  = errors.New("client mirror fields differ from the primary placement")
)

// Placement is one enrollment slot: an area/group/plan/payment bundle.
type Placement struct {
	ID        string `json:"id"`
	Area      string `json:"area"`
	Group     string `json:"group"`
	Plan      string `json:"plan"`
	PayStatus string `json:"pay_status"`
	PayAmount *int   `json:"pay_amount,omitempty"` // omitted when no price resolves
	PayDate   string `json:"pay_date,omitempty"`
	Status    string `json:"status"`
}

// Client is an enrolled child. The top-level Area/Group/Plan/Pay* fields
// mirror placements[0] for backward compatibility and must stay equal to it
// whenever Placements is non-empty.
type Client struct {
	ID         string      `json:"id"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name,omitempty"`
	ParentName string      `json:"parent_name,omitempty"`
	Phone      string      `json:"phone,omitempty"`
	WhatsApp   string      `json:"whatsapp,omitempty"`
	Telegram   string      `json:"telegram,omitempty"`
	Instagram  string      `json:"instagram,omitempty"`
	Channel    string      `json:"channel,omitempty"` // channel of origin
	BirthDate  string      `json:"birth_date,omitempty"`
	Gender     string      `json:"gender,omitempty"`
	CoachID    string      `json:"coach_id,omitempty"`
	Placements []Placement `json:"placements"`

	// Mirrors of placements[0].
	Area      string `json:"area,omitempty"`
	Group     string `json:"group,omitempty"`
	Plan      string `json:"plan,omitempty"`
	PayStatus string `json:"pay_status,omitempty"`
	PayAmount *int   `json:"pay_amount,omitempty"`
	PayDate   string `json:"pay_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncMirror copies the primary placement's fields onto the client's
// top-level payment fields, or clears them when no placement remains.
// POST: CheckMirror returns nil
func (c *Client) SyncMirror() {
	if len(c.Placements) == 0 {
		c.Area, c.Group, c.Plan = "", "", ""
		c.PayStatus, c.PayAmount, c.PayDate = "", nil, ""
		return
	}
	p := c.Placements[0]
	c.Area = p.Area
	c.Group = p.Group
	c.Plan = p.Plan
	c.PayStatus = p.PayStatus
	c.PayAmount = p.PayAmount
	c.PayDate = p.PayDate
}

// CheckMirror verifies the mirror invariant against placements[0].
// INVARIANT: Client fields are not mutated
func (c *Client) CheckMirror() error {
	if len(c.Placements) == 0 {
		return nil
	}
	p := c.Placements[0]
	if c.Area != p.Area || c.Group != p.Group || c.Plan != p.Plan ||
		c.PayStatus != p.PayStatus || c.PayDate != p.PayDate {
		return ErrMirrorOutOfSync
	}
	if (c.PayAmount == nil) != (p.PayAmount == nil) {
		return ErrMirrorOutOfSync
	}
	if c.PayAmount != nil && *c.PayAmount != *p.PayAmount {
		return ErrMirrorOutOfSync
	}
	return nil
}

// RemovePlacement deletes a placement by id. A brand-new client that has
// never been persisted must keep its only placement; a persisted client may
// end up with an empty placements list.
// PRE: id is non-empty
// POST: Mirror fields are re-synced after removal
func (c *Client) RemovePlacement(id string, persisted bool) error {
	idx := -1
	for i, p := range c.Placements {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownPlacement
	}
	if !persisted && len(c.Placements) == 1 {
		return ErrLastPlacement
	}
	c.Placements = append(c.Placements[:idx], c.Placements[idx+1:]...)
	c.SyncMirror()
	return nil
}

// DisplayName joins the name parts for list views.
func (c *Client) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// Validate checks if the Client has valid data.
// POST: Returns error if validation fails, nil otherwise
func (c *Client) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return ErrEmptyName
	}
	return c.CheckMirror()
}
