// Package handler serves GET /api/health.
package handler

import (
	"net/http"

	"launcher-api/internal/routes"
	"launcher-api/pkg/vercelfn"
)

var handle = vercelfn.Deferred(vercelfn.RouteOf(http.MethodGet, routes.Health))

// Handler serves one request
func Handler(w http.ResponseWriter, r *http.Request) {
	handle(w, r)
}
