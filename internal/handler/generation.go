package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mhasan/codepilot/internal/apperror"
	"github.com/mhasan/codepilot/internal/service"
)

// GenerationHandler exposes the generation and history endpoints.
//
// The handler only speaks HTTP: it decodes bodies and query strings, hands
// plain values to the service, and translates the result (or domain error)
// back into the documented JSON shapes. All business rules live in the service.
type GenerationHandler struct {
	svc    *service.GenerationService
	logger *slog.Logger
	dev    bool
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(svc *service.GenerationService, logger *slog.Logger, dev bool) *GenerationHandler {
	return &GenerationHandler{
		svc:    svc,
		logger: logger,
		dev:    dev,
	}
}

// generateRequest is the POST /api/generate body. UserID is `any` because the
// frontend may send it as a JSON number or a numeric string — the service's
// ParseUserID accepts both.
type generateRequest struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language"`
	UserID   any    `json:"userId"`
}

// HandleGenerate processes POST /api/generate.
//
// On success: 200 with the stored generation record. Validation failures are
// 400 with the message verbatim; provider, empty-output, and storage failures
// are a generic 500 (detail only in development mode).
func (h *GenerationHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid generate request body", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("body", "Invalid JSON body"), h.dev)
		return
	}

	userID, err := service.ParseUserID(req.UserID)
	if err != nil {
		writeError(w, err, h.dev)
		return
	}

	gen, err := h.svc.Generate(r.Context(), userID, req.Prompt, req.Language)
	if err != nil {
		// The service has already logged the failure with context; here we
		// only translate it to the wire.
		writeError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, gen)
}

// HandleHistory processes GET /api/history?userId=<id>&page=<n>.
//
// The page parameter defaults to 1 and anything unparseable or below 1 behaves
// as page 1. Page size is fixed — the client cannot request larger pages.
func (h *GenerationHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := service.ParseUserID(r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err, h.dev)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	result, err := h.svc.History(r.Context(), userID, page)
	if err != nil {
		writeError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
