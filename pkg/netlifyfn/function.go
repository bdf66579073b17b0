// Package netlifyfn serves the route table as a single serverless function that receives
// every /api call as a JSON event.
package netlifyfn

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"launcher-api/internal/handlers"
	"launcher-api/internal/routes"
)

// Event is the function invocation payload
type Event struct {
	HTTPMethod            string            `json:"httpMethod"`
	Path                  string            `json:"path"`
	Headers               map[string]string `json:"headers"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	Body                  string            `json:"body"`
	IsBase64Encoded       bool              `json:"isBase64Encoded"`
}

// Result is the function response payload
type Result struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded,omitempty"`
}

// Function adapts events to the route table
type Function struct {
	router *handlers.Router
	logger *logrus.Logger
}

// New creates a new function adapter
func New(router *handlers.Router, logger *logrus.Logger) *Function {
	return &Function{router: router, logger: logger}
}

// Invoke handles one event
func (f *Function) Invoke(ctx context.Context, ev Event) Result {
	req := &handlers.Request{
		Method:  strings.ToUpper(ev.HTTPMethod),
		Path:    normalizePath(ev.Path),
		Body:    normalizeBody(ev.Body, ev.IsBase64Encoded),
		Query:   url.Values{},
		Headers: http.Header{},
	}

	for k, v := range ev.QueryStringParameters {
		req.Query.Set(k, v)
	}
	// Header names arrive in any case; http.Header canonicalizes them
	for k, v := range ev.Headers {
		req.Headers.Set(k, v)
	}
	req.ClientIP = clientIP(req.Headers)

	f.logger.Debugf("Invocation %s %s", req.Method, req.Path)

	resp := f.router.Dispatch(ctx, req)
	data, err := resp.Encode()
	if err != nil {
		f.logger.Errorf("Failed to encode response for %s %s: %v", req.Method, req.Path, err)
		return Result{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"Internal server error"}`,
		}
	}

	result := Result{
		StatusCode: resp.Status,
		Headers:    map[string]string{"Content-Type": resp.ContentType},
	}
	if resp.Raw != nil {
		result.Body = base64.StdEncoding.EncodeToString(data)
		result.IsBase64Encoded = true
	} else {
		result.Body = string(data)
	}
	return result
}

// normalizePath maps the function path onto the /api route paths
func normalizePath(path string) string {
	if rest, ok := strings.CutPrefix(path, routes.NetlifyFunction); ok {
		return routes.Prefix + rest
	}
	return path
}

// normalizeBody decodes the event body. Any body that is not valid JSON is treated as {}.
func normalizeBody(body string, isBase64 bool) []byte {
	if body == "" {
		return nil
	}

	data := []byte(body)
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return []byte("{}")
		}
		data = decoded
	}

	if !json.Valid(data) {
		return []byte("{}")
	}
	return data
}

// clientIP returns the first address the platform reports for the caller
func clientIP(h http.Header) string {
	if ip := h.Get("X-Nf-Client-Connection-Ip"); ip != "" {
		return ip
	}
	if fwd := h.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	return ""
}
