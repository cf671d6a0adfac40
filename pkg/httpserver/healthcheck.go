package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/totpauth/pkg/logger"
)

// DefaultCheckTimeout bounds every readiness check.
const DefaultCheckTimeout = 2 * time.Second

// Check is a named readiness dependency such as the enrollment store or Redis.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// HealthStatus is the JSON body written by HealthCheckHandler.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheckHandler serves liveness when no checks are given ({"status":"alive"})
// and readiness otherwise. Every check runs with the request context bounded
// by DefaultCheckTimeout; any failure turns the response into 503 with
// "not_ready". Error details are logged, not returned.
func HealthCheckHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		status := HealthStatus{Status: "alive"}
		code := http.StatusOK

		if len(checks) > 0 {
			status.Status = "ready"
			status.Checks = make(map[string]string, len(checks))

			ctx, cancel := context.WithTimeout(r.Context(), DefaultCheckTimeout)
			defer cancel()

			for _, c := range checks {
				if err := c.Fn(ctx); err != nil {
					log.ErrorContext(ctx, "readiness check failed",
						logger.Component(c.Name),
						logger.Error(err),
					)
					status.Checks[c.Name] = "fail"
					status.Status = "not_ready"
					code = http.StatusServiceUnavailable
					continue
				}
				status.Checks[c.Name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	}
}
