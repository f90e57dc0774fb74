package projections

import (
	"sort"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
)

// ArchiveRow joins an archived lead with its live lifecycle event.
type ArchiveRow struct {
	Lead    lead.Lead
	Outcome string
}

// GetArchiveResult carries the query result, most recently resolved first.
type GetArchiveResult struct {
	Rows  []ArchiveRow
	Total int
}

// GetArchiveDeps holds dependencies for GetArchive.
type GetArchiveDeps struct {
	Documents DocumentSource
}

// QueryGetArchive lists archived leads with the outcome recorded at their
// exit from the pipeline. Converted leads live on as clients and are not
// listed here; only canceled ones carry an archive copy.
func QueryGetArchive(deps GetArchiveDeps) GetArchiveResult {
	doc := deps.Documents.Snapshot()

	rows := make([]ArchiveRow, 0, len(doc.ArchivedLeads))
	for _, l := range doc.ArchivedLeads {
		outcome := lead.OutcomeCanceled
		if ev, ok := doc.LifecycleEventFor(l.ID); ok {
			outcome = ev.Outcome
		}
		rows = append(rows, ArchiveRow{Lead: l, Outcome: outcome})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Lead.UpdatedAt.After(rows[j].Lead.UpdatedAt)
	})
	return GetArchiveResult{Rows: rows, Total: len(rows)}
}
