package handler

import (
	"log/slog"
	"net/http"

	"github.com/mhasan/codepilot/internal/service"
)

// UserHandler exposes the demo-user seeding endpoint.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
	dev    bool
}

// NewUserHandler creates a new UserHandler. dev controls whether 500 responses
// carry internal error details.
func NewUserHandler(svc *service.UserService, logger *slog.Logger, dev bool) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
		dev:    dev,
	}
}

// HandleSeed processes POST /api/seed — find-or-create the demo user and
// return it. Safe to call any number of times.
func (h *UserHandler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Seed(r.Context())
	if err != nil {
		h.logger.Error("seed failed", slog.String("error", err.Error()))
		writeError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
