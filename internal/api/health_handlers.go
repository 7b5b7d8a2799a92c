package api

import (
	"context"
	"net/http"
	"time"
)

// checkTimeout bounds each dependency probe during readiness checks.
const checkTimeout = 2 * time.Second

// HealthChecker probes the health of one dependency.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandlers contains liveness and readiness handlers.
type HealthHandlers struct {
	checkers map[string]HealthChecker
}

// NewHealthHandlers creates a new health handlers instance. checkers
// maps a dependency name ("database", "redis") to its checker; nil
// checkers are skipped so optional dependencies can be omitted.
func NewHealthHandlers(checkers map[string]HealthChecker) *HealthHandlers {
	return &HealthHandlers{checkers: checkers}
}

// Liveness handles GET /health
func (h *HealthHandlers) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready
//
// Responds 503 with per-dependency detail if any dependency is down.
func (h *HealthHandlers) Readiness(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := make(map[string]string, len(h.checkers))

	for name, checker := range h.checkers {
		if checker == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := checker.HealthCheck(ctx)
		cancel()

		if err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = "unavailable: " + err.Error()
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]any{"checks": checks}
	if status == http.StatusOK {
		body["status"] = "ok"
	} else {
		body["status"] = "degraded"
	}
	writeJSON(w, status, body)
}
