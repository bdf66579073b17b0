package models

import "time"

// PaymentType represents how a premium upgrade was paid
type PaymentType string

const (
	PaymentCash   PaymentType = "cash"
	PaymentStripe PaymentType = "stripe"
)

// PaymentStatus represents the lifecycle state of a payment.
// Cash payments move pending -> confirmed; stripe payments are created completed.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentConfirmed PaymentStatus = "confirmed"
)

// Payment represents a premium payment notification
type Payment struct {
	ID        int           `json:"id" bson:"id"`
	Type      PaymentType   `json:"type" bson:"type"`
	Username  string        `json:"username" bson:"username"`
	Amount    float64       `json:"amount" bson:"amount"` // Dollars
	Status    PaymentStatus `json:"status" bson:"status"`
	CreatedAt time.Time     `json:"createdAt" bson:"createdAt"`
}

// PaymentID returns the id of a payment
func PaymentID(p Payment) int {
	return p.ID
}

// IsPending reports whether the payment still awaits admin confirmation
func (p *Payment) IsPending() bool {
	return p.Status == PaymentPending
}
