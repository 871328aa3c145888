package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sehyaatri/sehyaatri/internal/apperror"
	"github.com/sehyaatri/sehyaatri/internal/model"
)

// newTestDB opens a fresh in-memory database that is closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestAccount(t *testing.T, db *DB, email string) *model.Account {
	t.Helper()
	a := &model.Account{Email: email, Name: "Owner", PasswordHash: "$2a$04$hash", Role: model.RoleOwner}
	if err := db.Accounts().Append(context.Background(), a); err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return a
}

// =========================================================================
// ACCOUNT TESTS
// =========================================================================

func TestAccountAppend(t *testing.T) {
	db := newTestDB(t)

	a1 := createTestAccount(t, db, "Owner@X.com")
	a2 := createTestAccount(t, db, "second@x.com")

	if a1.ID != 1 || a2.ID != 2 {
		t.Errorf("ids = %d,%d, want 1,2", a1.ID, a2.ID)
	}
	if a1.Email != "owner@x.com" {
		t.Errorf("Email = %q, want normalized %q", a1.Email, "owner@x.com")
	}
}

func TestAccountAppend_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestAccount(t, db, "a@b.com")

	err := db.Accounts().Append(context.Background(), &model.Account{Email: " A@B.com ", PasswordHash: "h", Role: model.RoleOwner})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Append(duplicate) error = %v, want ErrConflict", err)
	}
}

func TestAccountFindByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestAccount(t, db, "find@x.com")

	found, err := db.Accounts().FindByEmail(context.Background(), "find@x.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if found.ID != created.ID || found.Name != "Owner" || found.Role != model.RoleOwner {
		t.Errorf("found = %+v, want the created account", found)
	}

	_, err = db.Accounts().FindByEmail(context.Background(), "missing@x.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("FindByEmail(missing) error = %v, want ErrNotFound", err)
	}
}

func TestAccountListAll_InsertionOrder(t *testing.T) {
	db := newTestDB(t)
	createTestAccount(t, db, "one@x.com")
	createTestAccount(t, db, "two@x.com")

	all, err := db.Accounts().ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 2 || all[0].Email != "one@x.com" || all[1].Email != "two@x.com" {
		t.Errorf("ListAll() = %+v, want one then two", all)
	}
}

// =========================================================================
// FEEDBACK TESTS
// =========================================================================

func TestFeedback_AppendAndListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	email := "user@x.com"
	now := time.Date(2026, 10, 15, 9, 30, 0, 123000000, time.UTC)

	first := &model.FeedbackRecord{UserEmail: &email, Payload: json.RawMessage(`{"websiteRating":5}`), CreatedAt: now}
	second := &model.FeedbackRecord{Payload: json.RawMessage(`{"websiteRating":2}`), CreatedAt: now}

	if err := db.Feedback().Append(ctx, first); err != nil {
		t.Fatalf("Append(first) error = %v", err)
	}
	if err := db.Feedback().Append(ctx, second); err != nil {
		t.Fatalf("Append(second) error = %v", err)
	}

	list, err := db.Feedback().ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}

	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("order = %d,%d, want %d,%d", list[0].ID, list[1].ID, second.ID, first.ID)
	}
	if list[0].UserEmail != nil {
		t.Errorf("anonymous record UserEmail = %q, want nil", *list[0].UserEmail)
	}
	if list[1].UserEmail == nil || *list[1].UserEmail != email {
		t.Errorf("UserEmail = %v, want %q", list[1].UserEmail, email)
	}
	if string(list[1].Payload) != `{"websiteRating":5}` {
		t.Errorf("Payload = %s, want it verbatim", list[1].Payload)
	}
	if !list[1].CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", list[1].CreatedAt, now)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sehyaatri.db")

	db, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	createTestAccount(t, db, "durable@x.com")
	if err := db.Feedback().Append(context.Background(), &model.FeedbackRecord{Payload: json.RawMessage(`{"x":1}`), CreatedAt: time.Now()}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	db.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.Accounts().FindByEmail(context.Background(), "durable@x.com"); err != nil {
		t.Errorf("account lost across reopen: %v", err)
	}
	list, err := reopened.Feedback().ListAll(context.Background())
	if err != nil || len(list) != 1 {
		t.Errorf("ListAll() after reopen = %d records, err %v; want 1", len(list), err)
	}

	next := createTestAccount(t, reopened, "next@x.com")
	if next.ID != 2 {
		t.Errorf("ID after reopen = %d, want 2", next.ID)
	}
}
