package projections

import (
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/document"
)

// DocumentSource provides read-only snapshots of the visible document.
// Projections never mutate a snapshot.
type DocumentSource interface {
	Snapshot() document.Document
}
