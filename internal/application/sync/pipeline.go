// Package sync owns the commit pipeline: every document mutation is applied
// to the local authoritative copy first, then reconciled against the
// persisted source of truth with revision-based conflict detection.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/document"
)

// Outcome classifies the result of a commit attempt.
type Outcome int

const (
	// Accepted means the candidate reached the shared store and the local
	// copy now carries the store's new revision.
	Accepted Outcome = iota
	// RejectedConflict means another writer committed first. The local copy
	// keeps the candidate (the UI is never rolled back under the user), but
	// the change has not reached the shared store.
	RejectedConflict
	// RejectedError means the persistence channel itself failed. Local
	// handling is the same as for a conflict; the user-facing message is not.
	RejectedError
)

// String returns the reason code name.
func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case RejectedConflict:
		return "conflict"
	default:
		return "error"
	}
}

// Result reports what happened to one commit.
type Result struct {
	Outcome  Outcome
	Revision int64 // revision the local copy carries after the commit
	Err      error // underlying store error for rejected outcomes
}

// Applied reports whether the candidate is visible locally. It is true for
// every outcome: rejection means "not yet durable", never "not applied".
func (r Result) Applied() bool { return true }

// Store is the persistence boundary. Save must persist the document only if
// the stored revision still equals expected, returning the new revision on
// success and document.ErrRevisionConflict when another writer got there
// first.
type Store interface {
	Load(ctx context.Context) (document.Document, error)
	Save(ctx context.Context, doc document.Document, expected int64) (int64, error)
}

// Pipeline reconciles an optimistic local copy of the document against the
// persisted source of truth. It holds the only mutable reference to the
// visible document; readers get snapshots via Snapshot.
type Pipeline struct {
	mu      sync.Mutex
	store   Store
	current document.Document
}

// New creates a Pipeline seeded with the given document, which must carry
// the revision it was loaded at.
func New(store Store, initial document.Document) *Pipeline {
	return &Pipeline{store: store, current: initial}
}

// Snapshot returns a deep copy of the visible document.
func (p *Pipeline) Snapshot() document.Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current.Clone()
}

// Commit applies the candidate optimistically and attempts to persist it.
//
// Phase 1 always runs: the candidate becomes the visible document before the
// persistence attempt resolves, regardless of its outcome. Phase 2 only
// adjusts the local revision on acceptance; rejected commits leave the
// optimistic copy in place and report why durability was not reached.
//
// Commits are serialized: a second Commit blocks until the first resolves,
// so two commits never interleave their local-state application.
// POST: Snapshot reflects the candidate for every outcome
func (p *Pipeline) Commit(ctx context.Context, candidate document.Document) Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	expected := p.current.Revision
	candidate.Revision = expected
	p.current = candidate // phase 1: optimistic local apply, never rolled back

	rev, err := p.store.Save(ctx, candidate, expected)
	if err != nil {
		outcome := RejectedError
		if errors.Is(err, document.ErrRevisionConflict) {
			outcome = RejectedConflict
		}
		slog.Warn("document_commit_rejected", "reason", outcome.String(), "expected_revision", expected, "error", err.Error())
		return Result{Outcome: outcome, Revision: expected, Err: err}
	}

	p.current.Revision = rev // phase 2: adopt the store's revision
	slog.Info("document_commit_accepted", "revision", rev)
	return Result{Outcome: Accepted, Revision: rev}
}

// Reload replaces the local copy with the latest persisted document. Used by
// the caller after a conflict when it decides to re-derive and retry; the
// pipeline itself never retries.
func (p *Pipeline) Reload(ctx context.Context) error {
	doc, err := p.store.Load(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.current = doc
	p.mu.Unlock()
	slog.Info("document_reloaded", "revision", doc.Revision)
	return nil
}
