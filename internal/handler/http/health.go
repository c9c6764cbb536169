package http

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/cmlabs-hris/leave-calendar-sync/internal/handler/http/response"
)

const healthCheckTimeout = 5 * time.Second

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
}

type HealthHandlerImpl struct {
	checks map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) HealthHandler {
	return &HealthHandlerImpl{checks: checks}
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Healthz implements HealthHandler.
func (h *HealthHandlerImpl) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	res := HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			slog.Warn("Health check failed", "check", name, "error", err)
			res.Status = "degraded"
			res.Checks[name] = err.Error()
			continue
		}
		res.Checks[name] = "ok"
	}

	if res.Status != "ok" {
		response.ServiceUnavailable(w, "One or more dependencies are unavailable", res)
		return
	}
	response.Success(w, res)
}
