package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/isdelr/board-be/internal/apperr"
	"github.com/isdelr/board-be/internal/monitoring"
)

// ProbeReporter exposes the result of the scheduled store probe.
type ProbeReporter interface {
	LastProbe() (monitoring.ProbeResult, bool)
}

// HealthHandler reports whether the service can reach its store.
type HealthHandler struct {
	db     monitoring.Pinger
	probes ProbeReporter
}

// NewHealthHandler creates a new HealthHandler. probes may be nil.
func NewHealthHandler(db monitoring.Pinger, probes ProbeReporter) *HealthHandler {
	return &HealthHandler{db: db, probes: probes}
}

type componentStatus struct {
	Status string `json:"status"`
}

// HealthResponse follows the common {status, info, error, details} layout.
type HealthResponse struct {
	Status    string                     `json:"status"`
	Info      map[string]componentStatus `json:"info"`
	Error     map[string]componentStatus `json:"error"`
	Details   map[string]componentStatus `json:"details"`
	LastProbe *monitoring.ProbeResult    `json:"lastProbe,omitempty"`
}

// Check pings the store and reports 200 when it is up. An unreachable store
// is reported as 503 in the error envelope; the cause is only logged.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		RespondError(w, r, apperr.Unavailable(err, "Service Unavailable"))
		return
	}

	database := componentStatus{Status: "up"}
	res := HealthResponse{
		Status:  "ok",
		Info:    map[string]componentStatus{"database": database},
		Error:   map[string]componentStatus{},
		Details: map[string]componentStatus{"database": database},
	}

	if h.probes != nil {
		if probe, ok := h.probes.LastProbe(); ok {
			res.LastProbe = &probe
		}
	}
	respondJSON(w, http.StatusOK, res)
}
