package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	apperrors "launcher-api/internal/errors"
	"launcher-api/internal/services"
	"launcher-api/internal/token"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	hub    *services.HubService
	codec  token.Codec
	logger *logrus.Logger
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(hub *services.HubService, codec token.Codec, logger *logrus.Logger) BaseHandler {
	return BaseHandler{
		hub:    hub,
		codec:  codec,
		logger: logger,
	}
}

// currentUser resolves the caller from the bearer token
func (h *BaseHandler) currentUser(req *Request) (string, error) {
	raw := req.Token()
	if raw == "" {
		return "", &apperrors.AuthError{Reason: "missing token"}
	}

	username, err := h.codec.Verify(raw)
	if err != nil {
		return "", &apperrors.AuthError{Reason: err.Error()}
	}
	return username, nil
}

// requireAdmin resolves the caller and requires the super-admin identity.
// A missing or invalid token is also refused with 403.
func (h *BaseHandler) requireAdmin(req *Request) (string, error) {
	username, err := h.currentUser(req)
	if err != nil || !h.hub.IsAdmin(username) {
		h.logger.Warnf("Admin access denied for %q on %s", username, req.Path)
		return "", &apperrors.AuthorizationError{Username: username, RequiredAccess: "admin"}
	}
	return username, nil
}

// issueToken creates the session token returned by signup and login
func (h *BaseHandler) issueToken(username string) (string, error) {
	t, err := h.codec.Issue(username)
	if err != nil {
		return "", &apperrors.InternalError{Operation: "issue token", Err: err}
	}
	return t, nil
}

// ok creates a 200 JSON response
func ok(body interface{}) *Response {
	return JSON(http.StatusOK, body)
}
