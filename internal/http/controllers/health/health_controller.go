// Package health expone el health check del servicio.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/chasqui/internal/http/helpers"
	"github.com/dropDatabas3/chasqui/internal/observability/logger"
)

// Pinger es lo que el health check necesita de storage y cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Response struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController handles GET /healthz.
type HealthController struct {
	version string
	checks  map[string]Pinger
}

// NewHealthController recibe los componentes a chequear por nombre.
func NewHealthController(version string, checks map[string]Pinger) *HealthController {
	return &HealthController{version: version, checks: checks}
}

// Health responde 200 si todos los pings pasan, 503 si alguno falla.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := Response{Status: "ok", Version: c.version, Checks: make(map[string]string, len(c.checks))}
	status := http.StatusOK
	for name, p := range c.checks {
		if err := p.Ping(ctx); err != nil {
			logger.From(ctx).Warn("health check failed", logger.Component(name), logger.Err(err))
			resp.Checks[name] = "down"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "up"
	}

	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, status, resp)
}
