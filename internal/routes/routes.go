package routes

import "strings"

// API paths served by the route table
const (
	// Prefix is shared by every API route
	Prefix = "/api"

	// Auth routes
	Signup = "/api/auth/signup"
	Login  = "/api/auth/login"

	// Admin routes
	AdminPrefix    = "/api/admin"
	AdminUsers     = "/api/admin/users"
	DeleteUser     = "/api/admin/delete-user"
	GrantPremium   = "/api/admin/grant-premium"
	RemovePremium  = "/api/admin/remove-premium"
	AdminPayments  = "/api/admin/payments"
	ConfirmPayment = "/api/admin/confirm-payment"
	Broadcast      = "/api/admin/broadcast"

	// User routes
	UserStatus = "/api/user/status"

	// Chat routes
	ChatSend     = "/api/chat/send"
	ChatMessages = "/api/chat/messages"

	// Premium routes
	CashPayment   = "/api/premium/cash-payment"
	StripePayment = "/api/premium/stripe-payment"
	PaymentQR     = "/api/premium/payment-qr"

	// Broadcast routes
	Broadcasts = "/api/broadcasts"

	// Health route
	Health = "/api/health"

	// NetlifyFunction is the path a Netlify function is invoked under when /api/* is
	// rewritten to it
	NetlifyFunction = "/.netlify/functions/api"
)

// Key returns the route table key for a method and path
func Key(method, path string) string {
	return method + " " + path
}

// Split splits a route table key into method and path
func Split(key string) (method, path string) {
	method, path, _ = strings.Cut(key, " ")
	return method, path
}
