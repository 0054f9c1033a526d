package server

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether a dependency is reachable. *pgxpool.Pool
// satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health serves GET /health. With a nil Pinger the service always reports
// healthy.
type Health struct {
	Service string
	Pinger  Pinger
	Logger  *logrus.Logger
}

func (h *Health) Routes(r *flow.Mux) {
	r.HandleFunc("/health", h.handleHealth, http.MethodGet)
}

func (h *Health) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.Pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := h.Pinger.Ping(ctx); err != nil {
			h.Logger.WithError(err).WithField("service", h.Service).Warn("health check failed")
			WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   h.Service,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
