package handlers

import (
	"context"
	"net/http"

	"launcher-api/internal/routes"
	"launcher-api/internal/services"
)

// AuthHandler handles signup and login
type AuthHandler struct {
	BaseHandler
	limiter *services.AuthLimiter
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(base BaseHandler, limiter *services.AuthLimiter) *AuthHandler {
	return &AuthHandler{BaseHandler: base, limiter: limiter}
}

// Register registers the auth routes
func (h *AuthHandler) Register(r *Router) {
	r.Handle(http.MethodPost, routes.Signup, h.handleSignup)
	r.Handle(http.MethodPost, routes.Login, h.handleLogin)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (h *AuthHandler) handleSignup(ctx context.Context, req *Request) (*Response, error) {
	if err := h.limiter.Allow("signup", req.ClientIP); err != nil {
		return nil, err
	}

	var body credentialsRequest
	req.Bind(&body)

	user, err := h.hub.Signup(ctx, body.Username, body.Password, body.Email)
	if err != nil {
		return nil, err
	}

	t, err := h.issueToken(user.Username)
	if err != nil {
		return nil, err
	}

	return ok(map[string]interface{}{
		"token":     t,
		"username":  user.Username,
		"isPremium": false,
	}), nil
}

func (h *AuthHandler) handleLogin(ctx context.Context, req *Request) (*Response, error) {
	if err := h.limiter.Allow("login", req.ClientIP); err != nil {
		return nil, err
	}

	var body credentialsRequest
	req.Bind(&body)

	user, err := h.hub.Login(ctx, body.Username, body.Password)
	if err != nil {
		return nil, err
	}

	t, err := h.issueToken(user.Username)
	if err != nil {
		return nil, err
	}

	return ok(map[string]interface{}{
		"token":     t,
		"username":  user.Username,
		"isPremium": user.IsPremium,
	}), nil
}
