// Package handler serves every auth route as one function.
package handler

import (
	"net/http"

	"launcher-api/internal/routes"
	"launcher-api/pkg/vercelfn"
)

var handle = vercelfn.Deferred(vercelfn.ActionOf(routes.Prefix + "/auth"))

// Handler dispatches on the action query parameter set by the vercel.json rewrite
func Handler(w http.ResponseWriter, r *http.Request) {
	handle(w, r)
}
