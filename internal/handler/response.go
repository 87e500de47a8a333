package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors, so every
// handler produces the same wire shapes the frontend parses:
//
//	validation failure → 400 {"error": "<message>"}
//	not found          → 404 {"error": "<message>"}
//	anything else      → 500 {"error": "Internal server error", "details": ...}
//
// The "details" field is only populated in development mode. Production
// responses never leak internal error text — the raw message might contain
// SQL, file paths, or provider API responses.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mhasan/codepilot/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`             // Message surfaced to the client
	Details string `json:"details,omitempty"` // Internal detail, development mode only
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS: headers and status code must be set BEFORE writing the
// body. Once Encode calls w.Write() the headers are sent, and any later header
// changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and sends it.
//
// errors.Is() walks the whole error chain (via Unwrap), so this works whether
// the service returned an *apperror.AppError directly or wrapped it with
// fmt.Errorf("...: %w", ...). Client input errors surface their message
// verbatim; upstream and storage failures collapse into a generic 500 whose
// detail is only attached when dev is true.
func writeError(w http.ResponseWriter, err error, dev bool) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: appErr.Message})
			return
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: appErr.Message})
			return
		}
	}

	resp := ErrorResponse{Error: "Internal server error"}
	if dev {
		resp.Details = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}
