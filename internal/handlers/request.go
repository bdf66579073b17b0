package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"launcher-api/internal/token"
)

// MaxBodyBytes bounds request bodies read by the adapters
const MaxBodyBytes = 1 << 20

// Request is the platform independent form of an API call
type Request struct {
	Method   string
	Path     string
	Body     []byte
	Query    url.Values
	Headers  http.Header
	ClientIP string
}

// Bind decodes the JSON body into v. A missing or malformed body leaves v at its zero value.
func (r *Request) Bind(v interface{}) {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return
	}
	_ = json.Unmarshal(r.Body, v)
}

// Token returns the bearer token from the Authorization header
func (r *Request) Token() string {
	if r.Headers == nil {
		return ""
	}
	return token.FromAuthorization(r.Headers.Get("Authorization"))
}

// Response is a status with either a JSON body or raw bytes
type Response struct {
	Status      int
	Body        interface{}
	ContentType string
	Raw         []byte
}

// JSON creates a JSON response
func JSON(status int, body interface{}) *Response {
	return &Response{Status: status, Body: body, ContentType: "application/json"}
}

// Binary creates a raw response with the given content type
func Binary(status int, contentType string, data []byte) *Response {
	return &Response{Status: status, ContentType: contentType, Raw: data}
}

// Encode returns the wire bytes of the response body
func (r *Response) Encode() ([]byte, error) {
	if r.Raw != nil {
		return r.Raw, nil
	}
	return json.Marshal(r.Body)
}

// FromHTTP builds a Request from a net/http request
func FromHTTP(r *http.Request) (*Request, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
	}

	clientIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		clientIP = host
	}

	return &Request{
		Method:   r.Method,
		Path:     r.URL.Path,
		Body:     body,
		Query:    r.URL.Query(),
		Headers:  r.Header,
		ClientIP: clientIP,
	}, nil
}

// WriteHTTP writes a Response to a net/http response writer
func WriteHTTP(w http.ResponseWriter, resp *Response) {
	data, err := resp.Encode()
	if err != nil {
		http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.Status)
	_, _ = w.Write(data)
}
