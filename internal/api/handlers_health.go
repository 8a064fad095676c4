// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// UpstreamState reports the breaker state of one collaborator.
type UpstreamState func() string

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version   string
	upstreams map[string]UpstreamState
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, upstreams map[string]UpstreamState) HealthHandler {
	return &HealthHandlerImpl{
		version:   version,
		upstreams: upstreams,
	}
}

// HandleHealth returns server health status. The server stays "ok" while a
// collaborator is down; the portal degrades instead of failing.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	status := "ok"
	upstreams := make(map[string]string, len(h.upstreams))
	for name, state := range h.upstreams {
		s := state()
		upstreams[name] = s
		if s != "closed" {
			status = "degraded"
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    status,
		"version":   h.version,
		"upstreams": upstreams,
	})
}
