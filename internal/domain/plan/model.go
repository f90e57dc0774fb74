package plan

// Subscription plan identifiers. The set is closed; legality of each id is a
// property of the group it is requested for, not of the plan itself.
const (
	Monthly  = "monthly"
	Weekly2  = "weekly-2"
	Single   = "single"
	HalfYear = "half-year"
	Yearly   = "yearly"
)

// Fallback is the global default plan used when no group rule applies.
const Fallback = Monthly

// Price is a configured amount for a plan within one area/group.
type Price struct {
	Area   string `json:"area"`
	Plan   string `json:"plan"`
	Amount int    `json:"amount"`
}

// GroupRules holds the plan rules configured for a single group.
type GroupRules struct {
	Allowed       []string `json:"allowed"`        // ordered; first entry is the positional fallback
	Default       string   `json:"default"`        // preferred plan for the group
	DefaultAmount int      `json:"default_amount"` // generic amount when no per-plan price is configured; 0 means none
	Prices        []Price  `json:"prices"`
}

// Rules maps group names to their plan rules. All methods are total: an
// unknown group yields an empty allowed set and the global Fallback plan.
type Rules struct {
	Groups map[string]GroupRules `json:"groups"`
}

// Allowed returns the ordered set of plan ids legal for the group.
// POST: Returns nil for an unknown group
func (r Rules) Allowed(group string) []string {
	return r.Groups[group].Allowed
}

// Default returns the single default plan id for the group.
// POST: Returns the global Fallback for an unknown group or a group without a default
func (r Rules) Default(group string) string {
	g, ok := r.Groups[group]
	if !ok || g.Default == "" {
		return Fallback
	}
	return g.Default
}

// IsAllowed reports whether the plan id is legal for the group.
func (r Rules) IsAllowed(group, plan string) bool {
	for _, p := range r.Groups[group].Allowed {
		if p == plan {
			return true
		}
	}
	return false
}

// AmountFor resolves the expected amount for (area, group, plan).
// The per-plan price wins; a price row with an empty area applies to every
// area. When no per-plan price is configured the group's generic default
// amount is used. The second result is false when neither resolves.
// POST: Never fails; (0, false) means "no amount configured"
func (r Rules) AmountFor(area, group, plan string) (int, bool) {
	g, ok := r.Groups[group]
	if !ok {
		return 0, false
	}
	for _, p := range g.Prices {
		if p.Plan != plan {
			continue
		}
		if p.Area == "" || p.Area == area {
			return p.Amount, true
		}
	}
	if g.DefaultAmount > 0 {
		return g.DefaultAmount, true
	}
	return 0, false
}

// Normalize re-validates a previously chosen plan against the group's current
// allowed set and snaps to the group default (or the first allowed plan) when
// the choice is no longer legal. Idempotent: a legal plan is returned
// unchanged, and normalizing an already-normalized plan is a no-op.
// POST: Result is legal for the group whenever the group has any allowed plan
func (r Rules) Normalize(group, plan string) string {
	if plan != "" && r.IsAllowed(group, plan) {
		return plan
	}
	g := r.Groups[group]
	if g.Default != "" {
		return g.Default
	}
	if len(g.Allowed) > 0 {
		return g.Allowed[0]
	}
	return Fallback
}
