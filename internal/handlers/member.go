package handlers

import (
	"context"
	"net/http"

	"launcher-api/internal/helpers"
	"launcher-api/internal/routes"
)

// UserHandler handles the signed-in user's own status
type UserHandler struct {
	BaseHandler
}

// NewUserHandler creates a new user handler
func NewUserHandler(base BaseHandler) *UserHandler {
	return &UserHandler{BaseHandler: base}
}

// Register registers the user routes
func (h *UserHandler) Register(r *Router) {
	r.Handle(http.MethodGet, routes.UserStatus, h.handleStatus)
}

func (h *UserHandler) handleStatus(ctx context.Context, req *Request) (*Response, error) {
	username, err := h.currentUser(req)
	if err != nil {
		return nil, err
	}

	user, err := h.hub.UserStatus(ctx, username)
	if err != nil {
		return nil, err
	}

	return ok(map[string]interface{}{
		"username":  username,
		"isPremium": user.IsPremium,
	}), nil
}

// ChatHandler handles the polling chat
type ChatHandler struct {
	BaseHandler
}

// NewChatHandler creates a new chat handler
func NewChatHandler(base BaseHandler) *ChatHandler {
	return &ChatHandler{BaseHandler: base}
}

// Register registers the chat routes
func (h *ChatHandler) Register(r *Router) {
	r.Handle(http.MethodPost, routes.ChatSend, h.handleSend)
	r.Handle(http.MethodGet, routes.ChatMessages, h.handleMessages)
}

type chatRequest struct {
	Message string `json:"message"`
	Group   string `json:"group"`
}

func (h *ChatHandler) handleSend(ctx context.Context, req *Request) (*Response, error) {
	username, err := h.currentUser(req)
	if err != nil {
		return nil, err
	}

	var body chatRequest
	req.Bind(&body)

	msg, err := h.hub.SendMessage(ctx, username, body.Message, body.Group)
	if err != nil {
		return nil, err
	}

	return ok(map[string]interface{}{"success": true, "messageId": msg.ID}), nil
}

func (h *ChatHandler) handleMessages(ctx context.Context, req *Request) (*Response, error) {
	if _, err := h.currentUser(req); err != nil {
		return nil, err
	}

	all, newer := h.hub.Messages(ctx, req.Query.Get("group"), helpers.ParseSince(req.Query.Get("since")))
	return ok(map[string]interface{}{"messages": all, "newMessages": newer}), nil
}

// BroadcastHandler serves admin broadcasts to every signed-in client
type BroadcastHandler struct {
	BaseHandler
}

// NewBroadcastHandler creates a new broadcast handler
func NewBroadcastHandler(base BaseHandler) *BroadcastHandler {
	return &BroadcastHandler{BaseHandler: base}
}

// Register registers the broadcast routes
func (h *BroadcastHandler) Register(r *Router) {
	r.Handle(http.MethodGet, routes.Broadcasts, h.handleBroadcasts)
}

func (h *BroadcastHandler) handleBroadcasts(ctx context.Context, req *Request) (*Response, error) {
	if _, err := h.currentUser(req); err != nil {
		return nil, err
	}

	all, newer := h.hub.Broadcasts(ctx, helpers.ParseSince(req.Query.Get("since")))
	return ok(map[string]interface{}{"broadcasts": all, "newBroadcasts": newer}), nil
}
