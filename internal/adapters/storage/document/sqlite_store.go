package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/storage"
	domain "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/document"
)

const dateLayout = "2006-01-02T15:04:05.999999999Z07:00"

// SQLiteStore implements Store with a single JSON row guarded by a revision
// column. The revision check in Save is the entire concurrency story: no
// row-level locks, just compare-and-swap on one integer.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new document store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load retrieves the document at its current revision.
// POST: Returns domain.ErrNotInitialized if no document exists yet
func (s *SQLiteStore) Load(ctx context.Context) (domain.Document, error) {
	row := s.db.QueryRowContext(ctx, "SELECT revision, body FROM document WHERE id = 1")

	var revision int64
	var body string
	err := row.Scan(&revision, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Document{}, domain.ErrNotInitialized
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("load document: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return domain.Document{}, fmt.Errorf("decode document body: %w", err)
	}
	doc.Revision = revision
	return doc, nil
}

// Save persists the document only if the stored revision still equals
// expected.
// POST: Returns the advanced revision, or domain.ErrRevisionConflict when
// another writer committed first
func (s *SQLiteStore) Save(ctx context.Context, doc domain.Document, expected int64) (int64, error) {
	doc.Revision = expected + 1
	body, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("encode document body: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE document SET revision = ?, body = ?, updated_at = ? WHERE id = 1 AND revision = ?",
		doc.Revision, string(body), time.Now().Format(dateLayout), expected)
	if err != nil {
		return 0, fmt.Errorf("save document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("save document: %w", err)
	}
	if affected == 0 {
		// Either the row is missing or its revision moved on. Tell them apart
		// so a conflict is never reported for an uninitialized store.
		row := s.db.QueryRowContext(ctx, "SELECT revision FROM document WHERE id = 1")
		var current int64
		if scanErr := row.Scan(&current); errors.Is(scanErr, sql.ErrNoRows) {
			return 0, domain.ErrNotInitialized
		} else if scanErr != nil {
			return 0, fmt.Errorf("save document: %w", scanErr)
		}
		return 0, fmt.Errorf("expected revision %d, store is at %d: %w", expected, current, domain.ErrRevisionConflict)
	}
	return doc.Revision, nil
}

// Create inserts the initial document at revision 1.
// PRE: No document row exists
func (s *SQLiteStore) Create(ctx context.Context, doc domain.Document) error {
	doc.Revision = 1
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document body: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO document (id, revision, body, updated_at) VALUES (1, ?, ?, ?)",
		doc.Revision, string(body), time.Now().Format(dateLayout))
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}
