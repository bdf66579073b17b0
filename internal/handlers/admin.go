package handlers

import (
	"context"
	"net/http"

	apperrors "launcher-api/internal/errors"
	"launcher-api/internal/routes"
)

// AdminHandler handles the /api/admin routes. Every route requires the super-admin.
type AdminHandler struct {
	BaseHandler
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(base BaseHandler) *AdminHandler {
	return &AdminHandler{BaseHandler: base}
}

// Register registers the admin routes
func (h *AdminHandler) Register(r *Router) {
	commandHandlers := map[string]HandlerFunc{
		routes.Key(http.MethodGet, routes.AdminUsers):      h.handleListUsers,
		routes.Key(http.MethodPost, routes.DeleteUser):     h.handleDeleteUser,
		routes.Key(http.MethodPost, routes.GrantPremium):   h.handleGrantPremium,
		routes.Key(http.MethodPost, routes.RemovePremium):  h.handleRemovePremium,
		routes.Key(http.MethodGet, routes.AdminPayments):   h.handleListPayments,
		routes.Key(http.MethodPost, routes.ConfirmPayment): h.handleConfirmPayment,
		routes.Key(http.MethodPost, routes.Broadcast):      h.handleBroadcast,
	}

	for key, handler := range commandHandlers {
		method, path := routes.Split(key)
		r.Handle(method, path, h.adminOnly(handler))
	}
}

// adminOnly refuses the call unless the caller is the super-admin
func (h *AdminHandler) adminOnly(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *Request) (*Response, error) {
		if _, err := h.requireAdmin(req); err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

type targetRequest struct {
	Username string `json:"username"`
}

type confirmRequest struct {
	PaymentID *int `json:"paymentId"`
}

type broadcastRequest struct {
	Message string `json:"message"`
}

func (h *AdminHandler) handleListUsers(ctx context.Context, req *Request) (*Response, error) {
	return ok(map[string]interface{}{"users": h.hub.ListUsers(ctx)}), nil
}

func (h *AdminHandler) handleDeleteUser(ctx context.Context, req *Request) (*Response, error) {
	var body targetRequest
	req.Bind(&body)

	if _, err := h.hub.DeleteUser(ctx, body.Username); err != nil {
		return nil, err
	}
	return ok(map[string]interface{}{"message": "User deleted"}), nil
}

func (h *AdminHandler) handleGrantPremium(ctx context.Context, req *Request) (*Response, error) {
	var body targetRequest
	req.Bind(&body)

	if err := h.hub.SetPremium(ctx, body.Username, true); err != nil {
		return nil, err
	}
	return ok(map[string]interface{}{"message": "Premium granted"}), nil
}

func (h *AdminHandler) handleRemovePremium(ctx context.Context, req *Request) (*Response, error) {
	var body targetRequest
	req.Bind(&body)

	if err := h.hub.SetPremium(ctx, body.Username, false); err != nil {
		return nil, err
	}
	return ok(map[string]interface{}{"message": "Premium removed"}), nil
}

func (h *AdminHandler) handleListPayments(ctx context.Context, req *Request) (*Response, error) {
	return ok(map[string]interface{}{"payments": h.hub.ListPayments(ctx)}), nil
}

func (h *AdminHandler) handleConfirmPayment(ctx context.Context, req *Request) (*Response, error) {
	var body confirmRequest
	req.Bind(&body)

	if body.PaymentID == nil {
		return nil, &apperrors.NotFoundError{Entity: "Payment", Key: "missing"}
	}

	if _, err := h.hub.ConfirmPayment(ctx, *body.PaymentID); err != nil {
		return nil, err
	}
	return ok(map[string]interface{}{
		"success": true,
		"message": "Payment confirmed. Premium activated!",
	}), nil
}

func (h *AdminHandler) handleBroadcast(ctx context.Context, req *Request) (*Response, error) {
	var body broadcastRequest
	req.Bind(&body)

	b, err := h.hub.Broadcast(ctx, body.Message)
	if err != nil {
		return nil, err
	}
	return ok(map[string]interface{}{"success": true, "broadcast": b}), nil
}
