package api

import (
	"context"
	"net/http"
	"time"

	"github.com/costaazul/concierge/internal/log"
)

// Pinger reports database reachability. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

const readyProbeTimeout = 2 * time.Second

// healthHandler serves liveness and readiness probes.
type healthHandler struct {
	pool   Pinger // optional: nil skips the database probe
	logger log.Logger
}

// health is the liveness probe: the process is up.
func (h *healthHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// ready is the readiness probe: the process can serve traffic, including
// reaching its database when one is wired.
func (h *healthHandler) ready(w http.ResponseWriter, r *http.Request) {
	if h.pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyProbeTimeout)
		defer cancel()

		if err := h.pool.Ping(ctx); err != nil {
			h.logger.Warn("readiness probe failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "database_unreachable", "database unreachable", h.logger)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}
