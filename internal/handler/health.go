package handler

import (
	"net/http"
	"time"
)

// HealthHandler reports process liveness.
type HealthHandler struct {
	start time.Time
}

// NewHealthHandler creates a HealthHandler anchored at the current time, so
// uptime counts from server construction.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{start: time.Now()}
}

type healthResponse struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime"` // seconds since the server started
}

// HandleHealth responds to GET /health.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Uptime: time.Since(h.start).Seconds(),
	})
}
