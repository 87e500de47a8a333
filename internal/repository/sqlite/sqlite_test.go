package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/mhasan/codepilot/internal/apperror"
	"github.com/mhasan/codepilot/internal/model"
	"github.com/mhasan/codepilot/internal/repository"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" creates a fresh database that exists only for the test — fast,
// isolated, destroyed when the connection closes. t.Helper() makes failures
// report at the caller's line, and t.Cleanup closes the DB even in subtests.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username, email string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: email}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestGeneration(t *testing.T, db *DB, userID int64, prompt string) *model.Generation {
	t.Helper()
	gen := &model.Generation{
		UserID:   userID,
		Prompt:   prompt,
		Language: "Python",
		Code:     "print(1)",
	}
	if err := db.Generations().Create(context.Background(), gen); err != nil {
		t.Fatalf("failed to create test generation: %v", err)
	}
	return gen
}

// =========================================================================
// USER TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "DemoUser", "demo@test.com")

	if user.ID == 0 {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	createTestUser(t, db, "DemoUser", "demo@test.com")

	// The UNIQUE constraint is what makes seeding race-safe — a second insert
	// with the same email must fail rather than produce a second row.
	dup := &model.User{Username: "Other", Email: "demo@test.com"}
	if err := db.Users().Create(context.Background(), dup); err == nil {
		t.Fatal("Create() with duplicate email should fail")
	}
}

func TestUserFindByEmail(t *testing.T) {
	db := newTestDB(t)

	created := createTestUser(t, db, "DemoUser", "demo@test.com")

	found, err := db.Users().FindByEmail(context.Background(), "demo@test.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
	if found.Username != "DemoUser" {
		t.Errorf("Username = %q, want %q", found.Username, "DemoUser")
	}
}

func TestUserFindByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().FindByEmail(context.Background(), "nobody@test.com")
	if err == nil {
		t.Fatal("FindByEmail() should error for unknown email")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// GENERATION TESTS
// =========================================================================

func TestGenerationCreate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "DemoUser", "demo@test.com")

	gen := createTestGeneration(t, db, user.ID, "write a function")

	if gen.ID == 0 {
		t.Error("Create() did not set gen.ID")
	}
	if gen.CreatedAt.IsZero() {
		t.Error("Create() did not set gen.CreatedAt")
	}
}

func TestGenerationCreate_UnknownUser(t *testing.T) {
	db := newTestDB(t)

	// foreign_keys=ON means an orphan generation must be rejected.
	gen := &model.Generation{UserID: 999, Prompt: "p", Language: "Python", Code: "print(1)"}
	if err := db.Generations().Create(context.Background(), gen); err == nil {
		t.Fatal("Create() should fail for a non-existent user")
	}
}

func TestGenerationCountByUser(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "DemoUser", "demo@test.com")
	other := createTestUser(t, db, "Other", "other@test.com")

	for i := 0; i < 3; i++ {
		createTestGeneration(t, db, user.ID, "write a function")
	}
	createTestGeneration(t, db, other.ID, "write a function")

	count, err := db.Generations().CountByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("CountByUser() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountByUser() = %d, want 3", count)
	}
}

func TestGenerationListByUser_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "DemoUser", "demo@test.com")

	first := createTestGeneration(t, db, user.ID, "first")
	second := createTestGeneration(t, db, user.ID, "second")
	third := createTestGeneration(t, db, user.ID, "third")

	got, err := db.Generations().ListByUser(context.Background(), user.ID,
		repository.ListOptions{Limit: 5})
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("ListByUser() returned %d rows, want 3", len(got))
	}
	// Rows created within the same timestamp granularity fall back to id DESC,
	// so the order is still newest-insert first.
	wantIDs := []int64{third.ID, second.ID, first.ID}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("row %d ID = %d, want %d", i, got[i].ID, want)
		}
	}
}

func TestGenerationListByUser_Pagination(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "DemoUser", "demo@test.com")

	for i := 0; i < 7; i++ {
		createTestGeneration(t, db, user.ID, "write a function")
	}

	page1, err := db.Generations().ListByUser(context.Background(), user.ID,
		repository.ListOptions{Limit: 5, Offset: 0})
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	page2, err := db.Generations().ListByUser(context.Background(), user.ID,
		repository.ListOptions{Limit: 5, Offset: 5})
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}

	if len(page1) != 5 {
		t.Errorf("page 1 has %d rows, want 5", len(page1))
	}
	if len(page2) != 2 {
		t.Errorf("page 2 has %d rows, want 2", len(page2))
	}

	// No overlap between pages.
	seen := make(map[int64]bool)
	for _, g := range append(page1, page2...) {
		if seen[g.ID] {
			t.Errorf("generation %d appears on both pages", g.ID)
		}
		seen[g.ID] = true
	}
}

func TestGenerationListByUser_OtherUsersExcluded(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "DemoUser", "demo@test.com")
	other := createTestUser(t, db, "Other", "other@test.com")

	createTestGeneration(t, db, user.ID, "mine")
	createTestGeneration(t, db, other.ID, "theirs")

	got, err := db.Generations().ListByUser(context.Background(), user.ID,
		repository.ListOptions{Limit: 5})
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(got) != 1 || got[0].Prompt != "mine" {
		t.Errorf("ListByUser() leaked other users' rows: %+v", got)
	}
}

func TestGenerationRoundTrip(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "DemoUser", "demo@test.com")

	original := &model.Generation{
		UserID:   user.ID,
		Prompt:   "write a function that adds two numbers",
		Language: "Python",
		Code:     "def add(a,b): return a+b",
	}
	if err := db.Generations().Create(context.Background(), original); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := db.Generations().ListByUser(context.Background(), user.ID,
		repository.ListOptions{Limit: 1})
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}

	g := got[0]
	if g.Prompt != original.Prompt || g.Language != original.Language || g.Code != original.Code {
		t.Errorf("round trip mismatch: got %+v", g)
	}
}
