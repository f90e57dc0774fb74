package orchestrators

import (
	"context"
	"time"

	"github.com/google/uuid"

	docsync "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/sync"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/document"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// DocumentCommitter is the commit-pipeline interface every document-mutating
// orchestrator depends on. Snapshot returns the visible document; Commit
// applies a candidate optimistically and reports whether it became durable.
type DocumentCommitter interface {
	Snapshot() document.Document
	Commit(ctx context.Context, candidate document.Document) docsync.Result
}

// newChange builds one changelog entry for a logical action.
func newChange(actor, description string) document.Entry {
	return document.Entry{
		ID:          uuid.New().String(),
		Actor:       actor,
		Description: description,
		Timestamp:   timeNow(),
	}
}
