// Package handler serves GET /api/user/status.
package handler

import (
	"net/http"

	"launcher-api/internal/routes"
	"launcher-api/pkg/vercelfn"
)

var handle = vercelfn.Deferred(vercelfn.RouteOf(http.MethodGet, routes.UserStatus))

// Handler serves one request
func Handler(w http.ResponseWriter, r *http.Request) {
	handle(w, r)
}
