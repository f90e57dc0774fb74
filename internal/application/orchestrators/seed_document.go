package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/document"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/plan"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/staff"
)

// DocumentStoreForSeed defines the store interface needed by SeedDocument.
type DocumentStoreForSeed interface {
	Load(ctx context.Context) (document.Document, error)
	Create(ctx context.Context, doc document.Document) error
}

// SeedDocumentDeps holds dependencies for SeedDocument.
type SeedDocumentDeps struct {
	DocumentStore DocumentStoreForSeed
}

// ExecuteSeedDocument creates the initial document with default club
// settings and one coach if no document exists yet.
// POST: The store holds a document; an existing one is left untouched
func ExecuteSeedDocument(ctx context.Context, deps SeedDocumentDeps) error {
	_, err := deps.DocumentStore.Load(ctx)
	if err == nil {
		return nil // already seeded
	}
	if !errors.Is(err, document.ErrNotInitialized) {
		return err
	}

	doc := defaultDocument()
	if err := deps.DocumentStore.Create(ctx, doc); err != nil {
		return err
	}
	slog.Info("document_event", "event", "document_seeded", "areas", len(doc.Settings.Areas), "groups", len(doc.Settings.Groups))
	return nil
}

func defaultDocument() document.Document {
	groups := []string{"kids-4-6", "kids-7-9", "teens-10-14"}
	groupRules := make(map[string]plan.GroupRules, len(groups))
	for _, g := range groups {
		groupRules[g] = plan.GroupRules{
			Allowed: []string{plan.Monthly, plan.Weekly2, plan.Single, plan.HalfYear},
			Default: plan.Monthly,
			Prices: []plan.Price{
				{Plan: plan.Monthly, Amount: 100},
				{Plan: plan.Weekly2, Amount: 70},
				{Plan: plan.Single, Amount: 15},
				{Plan: plan.HalfYear, Amount: 500},
			},
		}
	}

	return document.Document{
		Settings: document.Settings{
			Areas:  []string{"Center", "North"},
			Groups: groups,
			GroupLimits: map[string]int{
				"kids-4-6":    12,
				"kids-7-9":    14,
				"teens-10-14": 16,
			},
			CurrencyRates: map[string]float64{"USD": 1, "EUR": 0.92},
			PayFormula:    "base+attendance",
			Plans:         plan.Rules{Groups: groupRules},
		},
		Staff: []staff.Member{
			{
				ID:     uuid.New().String(),
				Name:   "Head Coach",
				Role:   staff.RoleCoach,
				Areas:  []string{"Center", "North"},
				Groups: groups,
			},
		},
	}
}
