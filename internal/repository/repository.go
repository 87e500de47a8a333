// Package repository defines the storage interfaces the rest of the application
// programs against. The service layer only ever sees these interfaces — the
// concrete SQLite implementation lives in repository/sqlite, and tests swap in
// in-memory mocks.
package repository

import (
	"context"

	"github.com/mhasan/codepilot/internal/model"
)

// ListOptions controls pagination of a user's generation history.
// Example: page 3 with 5 items per page → Limit=5, Offset=10.
type ListOptions struct {
	Limit  int
	Offset int
}

// UserRepository covers the only two user operations this service performs:
// looking up the demo account by email and creating it when it doesn't exist.
// Users are never updated or deleted.
type UserRepository interface {
	// Create inserts a new user and fills in its server-assigned ID and timestamp.
	Create(ctx context.Context, user *model.User) error
	// FindByEmail returns the user with the given email, or apperror.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// GenerationRepository stores immutable generation records. There is
// deliberately no update or delete — a generation is written exactly once.
type GenerationRepository interface {
	// Create inserts a generation and fills in its server-assigned ID and timestamp.
	Create(ctx context.Context, gen *model.Generation) error
	// CountByUser returns how many generations the user owns.
	CountByUser(ctx context.Context, userID int64) (int, error)
	// ListByUser returns one page of the user's generations,
	// newest first (creation time descending).
	ListByUser(ctx context.Context, userID int64, opts ListOptions) ([]model.Generation, error)
}
