// Package vercelfn exposes the route table as per-route http.HandlerFuncs for platforms
// that deploy one function file per route.
package vercelfn

import (
	"net/http"
	"path"
	"strings"

	"github.com/sirupsen/logrus"

	"launcher-api/internal/handlers"
)

// Route returns a handler serving exactly one route. Other methods receive 405.
func Route(router *handlers.Router, method, routePath string, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			handlers.WriteHTTP(w, handlers.JSON(http.StatusMethodNotAllowed, map[string]string{
				"message": "Method not allowed",
			}))
			return
		}

		serve(w, r, router, routePath, logger)
	}
}

// Action returns a handler for a "<prefix>/:action" function. The action is taken
// from the "action" query parameter the platform injects, or else from the last path segment.
func Action(router *handlers.Router, prefix string, logger *logrus.Logger) http.HandlerFunc {
	prefix = strings.TrimSuffix(prefix, "/")

	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		action := q.Get("action")
		if action == "" {
			action = path.Base(r.URL.Path)
		} else {
			q.Del("action")
			r.URL.RawQuery = q.Encode()
		}

		serve(w, r, router, prefix+"/"+action, logger)
	}
}

func serve(w http.ResponseWriter, r *http.Request, router *handlers.Router, routePath string, logger *logrus.Logger) {
	req, err := handlers.FromHTTP(r)
	if err != nil {
		logger.Errorf("Failed to read request: %v", err)
		handlers.WriteHTTP(w, handlers.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"}))
		return
	}
	req.Path = routePath

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		req.ClientIP = strings.TrimSpace(first)
	}

	handlers.WriteHTTP(w, router.Dispatch(r.Context(), req))
}
