package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	docsync "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/sync"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/client"
)

// EditClientInput carries replacement values for a persisted client. The
// placements slice replaces the stored one wholesale; the top-level mirror
// fields are re-derived here, never taken from the form.
type EditClientInput struct {
	Actor      string
	ClientID   string
	FirstName  string
	LastName   string
	ParentName string
	Phone      string
	WhatsApp   string
	Telegram   string
	Instagram  string
	BirthDate  string
	Gender     string
	CoachID    string
	Placements []client.Placement
}

// EditClientDeps holds dependencies for EditClient.
type EditClientDeps struct {
	Documents DocumentCommitter
}

// ExecuteEditClient replaces a client's editable fields and placements,
// re-syncs the mirror fields, and commits with one changelog entry. An
// existing client may end up with an empty placements list.
// PRE: ClientID refers to a persisted client
func ExecuteEditClient(ctx context.Context, input EditClientInput, deps EditClientDeps) (client.Client, docsync.Result, error) {
	if input.ClientID == "" {
		return client.Client{}, docsync.Result{}, errors.New("client ID is required")
	}

	doc := deps.Documents.Snapshot()
	c, err := doc.ClientByID(input.ClientID)
	if err != nil {
		return client.Client{}, docsync.Result{}, fmt.Errorf("edit client %s: %w", input.ClientID, err)
	}

	c.FirstName = input.FirstName
	c.LastName = input.LastName
	c.ParentName = input.ParentName
	c.Phone = input.Phone
	c.WhatsApp = input.WhatsApp
	c.Telegram = input.Telegram
	c.Instagram = input.Instagram
	c.BirthDate = input.BirthDate
	c.Gender = input.Gender
	c.CoachID = input.CoachID
	c.Placements = input.Placements
	for i := range c.Placements {
		c.Placements[i].Plan = doc.Settings.Plans.Normalize(c.Placements[i].Group, c.Placements[i].Plan)
	}
	c.SyncMirror()
	c.UpdatedAt = timeNow()

	if err := c.Validate(); err != nil {
		return client.Client{}, docsync.Result{}, err
	}
	if err := doc.ReplaceClient(c); err != nil {
		return client.Client{}, docsync.Result{}, err
	}
	doc.AppendChange(newChange(input.Actor, fmt.Sprintf("edited client %q", c.DisplayName())))

	res := deps.Documents.Commit(ctx, doc)
	slog.Info("client_event", "event", "client_edited", "client_id", c.ID, "outcome", res.Outcome.String())
	return c, res, nil
}

// RemovePlacementInput carries input for deleting one enrollment slot.
type RemovePlacementInput struct {
	Actor       string
	ClientID    string
	PlacementID string
}

// ExecuteRemovePlacement deletes one placement from a persisted client.
// Persisted clients may drop their last placement; only a brand-new client
// still in its intake form must keep one, and that rule is enforced at the
// form boundary through client.RemovePlacement.
func ExecuteRemovePlacement(ctx context.Context, input RemovePlacementInput, deps EditClientDeps) (client.Client, docsync.Result, error) {
	if input.ClientID == "" {
		return client.Client{}, docsync.Result{}, errors.New("client ID is required")
	}

	doc := deps.Documents.Snapshot()
	c, err := doc.ClientByID(input.ClientID)
	if err != nil {
		return client.Client{}, docsync.Result{}, fmt.Errorf("remove placement: %w", err)
	}
	if err := c.RemovePlacement(input.PlacementID, true); err != nil {
		return client.Client{}, docsync.Result{}, err
	}
	c.UpdatedAt = timeNow()
	if err := doc.ReplaceClient(c); err != nil {
		return client.Client{}, docsync.Result{}, err
	}
	doc.AppendChange(newChange(input.Actor, fmt.Sprintf("removed a placement from client %q", c.DisplayName())))

	res := deps.Documents.Commit(ctx, doc)
	slog.Info("client_event", "event", "placement_removed", "client_id", c.ID, "outcome", res.Outcome.String())
	return c, res, nil
}
