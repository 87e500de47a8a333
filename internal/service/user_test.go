package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/mhasan/codepilot/internal/apperror"
	"github.com/mhasan/codepilot/internal/model"
)

type mockUserRepo struct {
	users   map[string]*model.User
	nextID  int64
	findErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.Email]; ok {
		return errors.New("UNIQUE constraint failed: users.email")
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.Email] = &stored
	return nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	user, ok := m.users[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	result := *user
	return &result, nil
}

func newTestUserService(t *testing.T) (*UserService, *mockUserRepo) {
	t.Helper()
	repo := newMockUserRepo()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewUserService(repo, logger), repo
}

func TestSeed_CreatesDemoUser(t *testing.T) {
	svc, repo := newTestUserService(t)

	user, err := svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if user.Username != DemoUsername {
		t.Errorf("Username = %q, want %q", user.Username, DemoUsername)
	}
	if user.Email != DemoEmail {
		t.Errorf("Email = %q, want %q", user.Email, DemoEmail)
	}
	if user.ID == 0 {
		t.Error("expected a server-assigned ID")
	}
	if len(repo.users) != 1 {
		t.Errorf("created %d users, want 1", len(repo.users))
	}
}

func TestSeed_IsIdempotent(t *testing.T) {
	svc, repo := newTestUserService(t)

	first, err := svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("first Seed() error = %v", err)
	}
	second, err := svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("Seed() returned different ids: %d then %d", first.ID, second.ID)
	}
	if len(repo.users) != 1 {
		t.Errorf("created %d users, want exactly 1", len(repo.users))
	}
}

func TestSeed_RepositoryFailure(t *testing.T) {
	svc, repo := newTestUserService(t)
	repo.findErr = errors.New("database locked")

	if _, err := svc.Seed(context.Background()); err == nil {
		t.Fatal("Seed() expected error when lookup fails")
	}
}
