// Package convert builds a Client aggregate from a resolved Lead.
package convert

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/client"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/document"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/plan"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// LeadToClient derives a Client with exactly one Placement from a lead and
// the current document. Every derivation falls back rather than fails: a
// lead with no area, group, matching coach, plan, or even contact info still
// converts. Field resolution:
//
//   - area/group: the lead's own values, else the first configured value
//   - coach: first coach covering both area and group, else the first coach
//   - plan: requested (or global default) if legal for the group, else the
//     group's first allowed plan, else the group default, else the global one
//   - amount: per-plan price, else the group default amount, else omitted
//   - name: explicit first/last fields, else whitespace split of the display
//     name (first token, then the rest)
func LeadToClient(l lead.Lead, doc document.Document) client.Client {
	area := l.Area
	if area == "" {
		area = doc.Settings.FirstArea()
	}
	group := l.Group
	if group == "" {
		group = doc.Settings.FirstGroup()
	}

	coachID := resolveCoach(doc, area, group)
	planID := resolvePlan(doc.Settings.Plans, group, l.Plan)
	amount := resolveAmount(doc.Settings.Plans, area, group, planID)
	first, last := nameParts(l)

	now := timeNow()
	placement := client.Placement{
		ID:        uuid.New().String(),
		Area:      area,
		Group:     group,
		Plan:      planID,
		PayStatus: client.PayStatusPending,
		PayAmount: amount,
		Status:    client.StatusNew,
	}

	c := client.Client{
		ID:         uuid.New().String(),
		FirstName:  first,
		LastName:   last,
		ParentName: l.ParentName,
		Phone:      l.Phone,
		WhatsApp:   l.WhatsApp,
		Telegram:   l.Telegram,
		Instagram:  l.Instagram,
		Channel:    l.Source,
		BirthDate:  l.BirthDate,
		CoachID:    coachID,
		Placements: []client.Placement{placement},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	c.SyncMirror()
	return c
}

// resolveCoach picks the first coach whose areas and groups both include the
// resolved values, falling back to the first coach at all. A mismatch is
// tolerated, not an error.
func resolveCoach(doc document.Document, area, group string) string {
	fallback := ""
	for i := range doc.Staff {
		m := &doc.Staff[i]
		if !m.IsCoach() {
			continue
		}
		if m.Covers(area, group) {
			return m.ID
		}
		if fallback == "" {
			fallback = m.ID
		}
	}
	return fallback
}

// resolvePlan applies the conversion fallback chain: requested plan (or the
// global default when none was requested), then the group's first allowed
// plan, then the group default, then the global default.
func resolvePlan(rules plan.Rules, group, requested string) string {
	candidate := requested
	if candidate == "" {
		candidate = plan.Fallback
	}
	if rules.IsAllowed(group, candidate) {
		return candidate
	}
	if allowed := rules.Allowed(group); len(allowed) > 0 {
		return allowed[0]
	}
	return rules.Default(group)
}

// resolveAmount returns nil when neither a per-plan price nor a group
// default amount is configured; payment fields are then omitted entirely
// rather than defaulted to zero.
func resolveAmount(rules plan.Rules, area, group, planID string) *int {
	amount, ok := rules.AmountFor(area, group, planID)
	if !ok {
		return nil
	}
	return &amount
}

// nameParts prefers explicit name fields and otherwise splits the free-text
// display name: first token becomes the first name, the remaining tokens
// joined become the last name.
func nameParts(l lead.Lead) (first, last string) {
	if l.FirstName != "" || l.LastName != "" {
		return l.FirstName, l.LastName
	}
	fields := strings.Fields(l.Name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
