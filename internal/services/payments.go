package services

import (
	"context"
	"fmt"
	"strconv"

	"launcher-api/internal/constants"
	apperrors "launcher-api/internal/errors"
	"launcher-api/internal/helpers"
	"launcher-api/internal/models"
	"launcher-api/internal/validation"
)

// CreateCashPayment records a pending cash payment and notifies the admins
func (s *HubService) CreateCashPayment(ctx context.Context, username string, amount *float64) (models.Payment, error) {
	dollars, err := validation.ValidateAmount(amount)
	if err != nil {
		return models.Payment{}, err
	}

	payment, err := s.appendPayment(ctx, models.Payment{
		Type:     models.PaymentCash,
		Username: username,
		Amount:   dollars,
		Status:   models.PaymentPending,
	})
	if err != nil {
		return models.Payment{}, err
	}

	s.logger.Infof("Cash payment %d from %q for $%.2f", payment.ID, username, dollars)
	s.notifier.Notify(ctx, fmt.Sprintf("New cash payment #%d from %s for $%.2f awaiting confirmation",
		payment.ID, validation.SanitizeText(username), dollars))

	return payment, nil
}

// CreateStripePayment activates premium for username and records a completed payment.
// amount is in cents and stored in dollars.
func (s *HubService) CreateStripePayment(ctx context.Context, username string, amount *float64) (models.Payment, error) {
	cents, err := validation.ValidateAmount(amount)
	if err != nil {
		return models.Payment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	i := indexOfUser(s.users, username)
	if i < 0 {
		return models.Payment{}, &apperrors.NotFoundError{Entity: "User", Key: username}
	}

	payment := models.Payment{
		ID:        helpers.NextID(s.payments, models.PaymentID),
		Type:      models.PaymentStripe,
		Username:  username,
		Amount:    cents / constants.CentsPerDollar,
		Status:    models.PaymentCompleted,
		CreatedAt: s.now().UTC(),
	}
	s.payments = append(s.payments, payment)

	if err := saveLocked(ctx, s, s.store.Payments, s.payments); err != nil {
		return models.Payment{}, err
	}

	// Premium is granted only once the payment is on record
	s.users[i].IsPremium = true
	if err := saveLocked(ctx, s, s.store.Users, s.users); err != nil {
		return models.Payment{}, err
	}

	s.logger.Infof("Stripe payment %d from %q for $%.2f, premium activated", payment.ID, username, payment.Amount)
	return payment, nil
}

// ListPayments returns every payment
func (s *HubService) ListPayments(ctx context.Context) []models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	payments := make([]models.Payment, len(s.payments))
	copy(payments, s.payments)
	return payments
}

// GetPayment returns a payment by id
func (s *HubService) GetPayment(ctx context.Context, id int) (models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	if i := s.indexOfPayment(id); i >= 0 {
		return s.payments[i], nil
	}
	return models.Payment{}, &apperrors.NotFoundError{Entity: "Payment", Key: strconv.Itoa(id)}
}

// ConfirmPayment marks a pending payment confirmed and grants premium to its owner.
// Payments that are not pending keep their status; the owner is still granted premium.
// A payment whose owner has been deleted is confirmed without touching users.
func (s *HubService) ConfirmPayment(ctx context.Context, id int) (models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	pi := s.indexOfPayment(id)
	if pi < 0 {
		return models.Payment{}, &apperrors.NotFoundError{Entity: "Payment", Key: strconv.Itoa(id)}
	}
	payment := &s.payments[pi]

	if ui := indexOfUser(s.users, payment.Username); ui >= 0 {
		s.users[ui].IsPremium = true
		if err := saveLocked(ctx, s, s.store.Users, s.users); err != nil {
			return models.Payment{}, err
		}
	} else {
		s.logger.Warnf("Payment %d belongs to unknown user %q", id, payment.Username)
	}

	if payment.IsPending() {
		payment.Status = models.PaymentConfirmed
		if err := saveLocked(ctx, s, s.store.Payments, s.payments); err != nil {
			return models.Payment{}, err
		}
	}

	s.logger.Infof("Confirmed payment %d for %q", id, payment.Username)
	return *payment, nil
}

// indexOfPayment is an internal method that assumes the mutex is already locked
func (s *HubService) indexOfPayment(id int) int {
	for i := range s.payments {
		if s.payments[i].ID == id {
			return i
		}
	}
	return -1
}

// appendPayment assigns an id and creation time and persists the payment
func (s *HubService) appendPayment(ctx context.Context, payment models.Payment) (models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	payment.ID = helpers.NextID(s.payments, models.PaymentID)
	payment.CreatedAt = s.now().UTC()
	s.payments = append(s.payments, payment)

	if err := saveLocked(ctx, s, s.store.Payments, s.payments); err != nil {
		return models.Payment{}, err
	}
	return payment, nil
}
