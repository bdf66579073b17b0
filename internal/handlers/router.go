package handlers

import (
	"context"
	"net/http"
	"runtime/debug"
	"sort"

	"github.com/sirupsen/logrus"

	apperrors "launcher-api/internal/errors"
	"launcher-api/internal/routes"
)

// HandlerFunc handles one route
type HandlerFunc func(ctx context.Context, req *Request) (*Response, error)

// Router maps "METHOD path" keys to handlers. Every hosting adapter dispatches through it.
type Router struct {
	handlers map[string]HandlerFunc
	logger   *logrus.Logger
}

// NewRouter creates an empty router
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// Handle registers a handler for method and path
func (r *Router) Handle(method, path string, h HandlerFunc) {
	key := routes.Key(method, path)
	if _, exists := r.handlers[key]; exists {
		r.logger.Warnf("Route %s registered twice, replacing", key)
	}
	r.handlers[key] = h
}

// Has reports whether a route is registered
func (r *Router) Has(method, path string) bool {
	_, ok := r.handlers[routes.Key(method, path)]
	return ok
}

// Routes returns the registered route keys in sorted order
func (r *Router) Routes() []string {
	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dispatch runs the handler for req and maps its outcome to a response.
// Typed errors become their status with a {message} body; anything else, including a
// panic, becomes a 500.
func (r *Router) Dispatch(ctx context.Context, req *Request) (resp *Response) {
	handler, ok := r.handlers[routes.Key(req.Method, req.Path)]
	if !ok {
		r.logger.Debugf("No route for %s %s", req.Method, req.Path)
		return JSON(http.StatusNotFound, map[string]interface{}{
			"error":   "API endpoint not found",
			"path":    req.Path,
			"method":  req.Method,
			"message": "Check the endpoint URL and HTTP method",
		})
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Errorf("Handler panic for %s %s: %v\n%s", req.Method, req.Path, rec, debug.Stack())
			resp = internalError()
		}
	}()

	resp, err := handler(ctx, req)
	if err != nil {
		return r.errorResponse(req, err)
	}
	if resp == nil {
		r.logger.Errorf("Handler for %s %s returned no response", req.Method, req.Path)
		return internalError()
	}
	return resp
}

// errorResponse maps a handler error to a response
func (r *Router) errorResponse(req *Request, err error) *Response {
	status := apperrors.StatusOf(err)
	if status == http.StatusInternalServerError {
		r.logger.Errorf("Handler error for %s %s: %v", req.Method, req.Path, err)
		return internalError()
	}

	r.logger.Debugf("%s %s rejected with %d: %v", req.Method, req.Path, status, err)
	return JSON(status, map[string]interface{}{"message": apperrors.MessageOf(err)})
}

func internalError() *Response {
	return JSON(http.StatusInternalServerError, map[string]interface{}{
		"error":   "Internal server error",
		"message": "The request could not be completed",
	})
}
