package document

import (
	"context"

	domain "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/document"
)

// Store persists the whole Document under optimistic concurrency. There is
// exactly one document; partial writes are not part of the interface.
type Store interface {
	// Load retrieves the document at its current revision.
	// POST: Returns domain.ErrNotInitialized if no document exists yet
	Load(ctx context.Context) (domain.Document, error)

	// Save persists the document only if the stored revision still equals
	// expected, and returns the new revision.
	// POST: Returns domain.ErrRevisionConflict if another writer advanced
	// the revision first
	Save(ctx context.Context, doc domain.Document, expected int64) (int64, error)

	// Create inserts the initial document at revision 1.
	// PRE: No document row exists
	Create(ctx context.Context, doc domain.Document) error
}
