package handlers

import (
	"context"
	"net/http"

	"launcher-api/internal/routes"
)

// HealthHandler reports store health without authentication
type HealthHandler struct {
	BaseHandler
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(base BaseHandler) *HealthHandler {
	return &HealthHandler{BaseHandler: base}
}

// Register registers the health route
func (h *HealthHandler) Register(r *Router) {
	r.Handle(http.MethodGet, routes.Health, h.handleHealth)
}

func (h *HealthHandler) handleHealth(ctx context.Context, req *Request) (*Response, error) {
	stats := h.hub.Stats(ctx)
	return ok(map[string]interface{}{
		"status":     "ok",
		"backend":    stats.Backend,
		"users":      stats.Users,
		"messages":   stats.Messages,
		"payments":   stats.Payments,
		"broadcasts": stats.Broadcasts,
	}), nil
}
