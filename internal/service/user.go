package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mhasan/codepilot/internal/apperror"
	"github.com/mhasan/codepilot/internal/model"
	"github.com/mhasan/codepilot/internal/repository"
)

// The single demo account every session uses. Seeding is an upsert-by-email:
// calling it any number of times yields the same row.
const (
	DemoEmail    = "demo@test.com"
	DemoUsername = "DemoUser"
)

// UserService handles the demo-user seeding flow.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Seed finds the demo user by email, creating it on first call.
// The UNIQUE constraint on email backs the idempotence — even a racing pair of
// seed requests can only ever produce one row.
func (s *UserService) Seed(ctx context.Context) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, DemoEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		s.logger.Error("failed to look up demo user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("looking up demo user: %w", err)
	}

	user = &model.User{
		Username: DemoUsername,
		Email:    DemoEmail,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error("failed to create demo user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating demo user: %w", err)
	}

	s.logger.Info("created demo user", slog.Int64("id", user.ID))
	return user, nil
}
