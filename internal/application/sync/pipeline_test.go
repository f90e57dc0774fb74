package sync

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/document"
	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/lead"
)

// fakeStore simulates the persisted document with its own revision counter.
type fakeStore struct {
	doc      document.Document
	revision int64
	saveErr  error // forced error for the next Save
	saves    int
}

func (f *fakeStore) Load(ctx context.Context) (document.Document, error) {
	out := f.doc.Clone()
	out.Revision = f.revision
	return out, nil
}

func (f *fakeStore) Save(ctx context.Context, doc document.Document, expected int64) (int64, error) {
	f.saves++
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	if expected != f.revision {
		return 0, fmt.Errorf("stale revision %d: %w", expected, document.ErrRevisionConflict)
	}
	f.doc = doc.Clone()
	f.revision++
	return f.revision, nil
}

func docWithLead(name string) document.Document {
	return document.Document{
		Leads: []lead.Lead{{ID: "l1", Name: name, Stage: lead.StageQueue}},
	}
}

func TestPipeline_CommitAccepted(t *testing.T) {
	store := &fakeStore{revision: 7}
	initial := document.Document{Revision: 7}
	p := New(store, initial)

	res := p.Commit(context.Background(), docWithLead("Ivan"))

	require.Equal(t, Accepted, res.Outcome)
	assert.Equal(t, int64(8), res.Revision)
	assert.NoError(t, res.Err)
	assert.True(t, res.Applied())

	snap := p.Snapshot()
	assert.Equal(t, int64(8), snap.Revision, "local copy adopts the store revision")
	require.Len(t, snap.Leads, 1)
	assert.Equal(t, "Ivan", snap.Leads[0].Name)
	assert.Equal(t, int64(8), store.revision)
}

func TestPipeline_CommitConflictKeepsLocalCandidate(t *testing.T) {
	store := &fakeStore{revision: 9} // store moved ahead of the local copy
	p := New(store, document.Document{Revision: 7})

	res := p.Commit(context.Background(), docWithLead("Ivan"))

	require.Equal(t, RejectedConflict, res.Outcome)
	assert.Equal(t, "conflict", res.Outcome.String())
	assert.Equal(t, int64(7), res.Revision)
	assert.ErrorIs(t, res.Err, document.ErrRevisionConflict)
	assert.True(t, res.Applied(), "rejection still means locally applied")

	// the optimistic copy is never rolled back
	snap := p.Snapshot()
	require.Len(t, snap.Leads, 1)
	assert.Equal(t, "Ivan", snap.Leads[0].Name)

	// the store never adopted the candidate
	assert.Empty(t, store.doc.Leads)
	assert.Equal(t, int64(9), store.revision)
}

func TestPipeline_CommitStoreError(t *testing.T) {
	store := &fakeStore{revision: 3, saveErr: errors.New("disk full")}
	p := New(store, document.Document{Revision: 3})

	res := p.Commit(context.Background(), docWithLead("Ivan"))

	require.Equal(t, RejectedError, res.Outcome)
	assert.Equal(t, "error", res.Outcome.String())
	assert.EqualError(t, res.Err, "disk full")
	assert.NotErrorIs(t, res.Err, document.ErrRevisionConflict)

	snap := p.Snapshot()
	require.Len(t, snap.Leads, 1, "channel failure keeps the candidate visible")
}

func TestPipeline_SequentialCommitsAdvanceRevision(t *testing.T) {
	store := &fakeStore{revision: 0}
	p := New(store, document.Document{Revision: 0})

	first := p.Commit(context.Background(), docWithLead("Ivan"))
	second := p.Commit(context.Background(), docWithLead("Petr"))

	require.Equal(t, Accepted, first.Outcome)
	require.Equal(t, Accepted, second.Outcome)
	assert.Equal(t, int64(1), first.Revision)
	assert.Equal(t, int64(2), second.Revision)
	assert.Equal(t, "Petr", store.doc.Leads[0].Name)
}

func TestPipeline_ReloadAfterConflict(t *testing.T) {
	store := &fakeStore{doc: docWithLead("Remote"), revision: 12}
	p := New(store, document.Document{Revision: 7})

	res := p.Commit(context.Background(), docWithLead("Mine"))
	require.Equal(t, RejectedConflict, res.Outcome)

	require.NoError(t, p.Reload(context.Background()))

	snap := p.Snapshot()
	assert.Equal(t, int64(12), snap.Revision)
	require.Len(t, snap.Leads, 1)
	assert.Equal(t, "Remote", snap.Leads[0].Name, "reload replaces the rejected candidate")

	// a retry derived from the reloaded copy now lands
	retry := snap
	retry.Leads[0].Name = "Mine"
	res = p.Commit(context.Background(), retry)
	require.Equal(t, Accepted, res.Outcome)
	assert.Equal(t, int64(13), res.Revision)
}

func TestPipeline_SnapshotIsIsolated(t *testing.T) {
	store := &fakeStore{revision: 0}
	p := New(store, docWithLead("Ivan"))

	snap := p.Snapshot()
	snap.Leads[0].Name = "Mutated"

	assert.Equal(t, "Ivan", p.Snapshot().Leads[0].Name, "snapshots are deep copies")
}
