package account

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/adapters/storage"
	domain "github.com/melikovgraf1-sys/judo-crm-2-sub001/internal/domain/account"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	return NewSQLiteStore(db)
}

func testAccount() domain.Account {
	return domain.Account{
		ID:           "acct-1",
		Email:        "manager@club.example",
		PasswordHash: "$2a$12$fakehash",
		Role:         domain.RoleManager,
		CreatedAt:    time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	a := testAccount()

	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.GetByID(ctx, "acct-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Email != a.Email || got.Role != a.Role || got.PasswordHash != a.PasswordHash {
		t.Errorf("got = %+v", got)
	}
	if !got.CreatedAt.Equal(a.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, a.CreatedAt)
	}
	if !got.LockedUntil.IsZero() {
		t.Errorf("LockedUntil = %v, want zero", got.LockedUntil)
	}

	if _, err := store.GetByEmail(ctx, "manager@club.example"); err != nil {
		t.Errorf("GetByEmail() error = %v", err)
	}
	if _, err := store.GetByEmail(ctx, "ghost@club.example"); err == nil {
		t.Error("GetByEmail(unknown) returned no error")
	}
}

func TestSQLiteStore_SaveUpdatesInPlace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	a := testAccount()
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	a.FailedLogins = 5
	a.LockedUntil = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	if err := store.Save(ctx, a); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := store.GetByID(ctx, "acct-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.FailedLogins != 5 || !got.LockedUntil.Equal(a.LockedUntil) {
		t.Errorf("got = %+v", got)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1 after upsert", n)
	}
}

func TestSQLiteStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	b := testAccount()
	b.ID, b.Email = "acct-2", "zz@club.example"
	if err := store.Save(ctx, b); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, testAccount()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List() = %d accounts, want 2", len(all))
	}
	if all[0].Email != "manager@club.example" || all[1].Email != "zz@club.example" {
		t.Errorf("order = %q, %q; want sorted by email", all[0].Email, all[1].Email)
	}
}
