package handlers

import (
	"context"
	"net/http"
	"strconv"

	apperrors "launcher-api/internal/errors"
	"launcher-api/internal/routes"
	"launcher-api/internal/services"
)

// PremiumHandler handles the premium upgrade payments
type PremiumHandler struct {
	BaseHandler
	qr *services.QRService
}

// NewPremiumHandler creates a new premium handler
func NewPremiumHandler(base BaseHandler, qr *services.QRService) *PremiumHandler {
	return &PremiumHandler{BaseHandler: base, qr: qr}
}

// Register registers the premium routes
func (h *PremiumHandler) Register(r *Router) {
	r.Handle(http.MethodPost, routes.CashPayment, h.handleCashPayment)
	r.Handle(http.MethodPost, routes.StripePayment, h.handleStripePayment)
	r.Handle(http.MethodGet, routes.PaymentQR, h.handlePaymentQR)
}

type amountRequest struct {
	Amount *float64 `json:"amount"`
}

func (h *PremiumHandler) handleCashPayment(ctx context.Context, req *Request) (*Response, error) {
	username, err := h.currentUser(req)
	if err != nil {
		return nil, err
	}

	var body amountRequest
	req.Bind(&body)

	payment, err := h.hub.CreateCashPayment(ctx, username, body.Amount)
	if err != nil {
		return nil, err
	}

	return ok(map[string]interface{}{
		"success":   true,
		"message":   "Cash payment notification sent to admin",
		"paymentId": payment.ID,
	}), nil
}

func (h *PremiumHandler) handleStripePayment(ctx context.Context, req *Request) (*Response, error) {
	username, err := h.currentUser(req)
	if err != nil {
		return nil, err
	}

	var body amountRequest
	req.Bind(&body)

	payment, err := h.hub.CreateStripePayment(ctx, username, body.Amount)
	if err != nil {
		return nil, err
	}

	return ok(map[string]interface{}{
		"success":   true,
		"message":   "Payment processed. Premium activated!",
		"paymentId": payment.ID,
	}), nil
}

// handlePaymentQR returns a PNG receipt for a payment owned by the caller.
// The admin may fetch any receipt.
func (h *PremiumHandler) handlePaymentQR(ctx context.Context, req *Request) (*Response, error) {
	username, err := h.currentUser(req)
	if err != nil {
		return nil, err
	}

	raw := req.Query.Get("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &apperrors.ValidationError{Field: "id", Message: "Valid payment id is required"}
	}

	payment, err := h.hub.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}

	if payment.Username != username && !h.hub.IsAdmin(username) {
		return nil, &apperrors.AuthorizationError{Username: username, RequiredAccess: "payment owner"}
	}

	png, err := h.qr.PaymentReceipt(payment)
	if err != nil {
		return nil, &apperrors.InternalError{Operation: "generate receipt", Err: err}
	}

	return Binary(http.StatusOK, "image/png", png), nil
}
