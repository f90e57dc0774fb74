package projections

import (
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/application/listutil"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/document"
)

// GetChangelogQuery carries query parameters.
type GetChangelogQuery struct {
	Page listutil.PageParams
}

// GetChangelogResult carries one page of changelog entries, newest first.
type GetChangelogResult struct {
	Entries  []document.Entry
	PageInfo listutil.PageInfo
}

// GetChangelogDeps holds dependencies for GetChangelog.
type GetChangelogDeps struct {
	Documents DocumentSource
}

// QueryGetChangelog pages through the append-only changelog in reverse
// chronological order.
func QueryGetChangelog(query GetChangelogQuery, deps GetChangelogDeps) GetChangelogResult {
	doc := deps.Documents.Snapshot()

	// Reverse: the changelog is appended in order, the view reads newest first.
	entries := make([]document.Entry, 0, len(doc.Changelog))
	for i := len(doc.Changelog) - 1; i >= 0; i-- {
		entries = append(entries, doc.Changelog[i])
	}

	info := listutil.NewPageInfo(query.Page, len(entries))
	lo, hi := listutil.Window(query.Page, len(entries))
	return GetChangelogResult{Entries: entries[lo:hi], PageInfo: info}
}
