package order

import (
	"fmt"
	"strings"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/models"
)

// Order statuses move strictly forward (pending, confirmed, shipped,
// delivered). Cancellation is allowed from pending or confirmed only and is
// terminal, as is delivered.
var statusRank = map[models.OrderStatus]int{
	models.OrderStatusPending:   0,
	models.OrderStatusConfirmed: 1,
	models.OrderStatusShipped:   2,
	models.OrderStatusDelivered: 3,
}

func parseOrderStatus(s string) (models.OrderStatus, error) {
	switch status := models.OrderStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case models.OrderStatusPending, models.OrderStatusConfirmed,
		models.OrderStatusShipped, models.OrderStatusDelivered,
		models.OrderStatusCancelled:
		return status, nil
	default:
		return "", apperrors.Validation(apperrors.CodeInvalidStatus,
			fmt.Sprintf("unknown order status %q", s))
	}
}

func parsePaymentStatus(s string) (models.PaymentStatus, error) {
	switch status := models.PaymentStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case models.PaymentStatusPending, models.PaymentStatusCompleted,
		models.PaymentStatusFailed:
		return status, nil
	default:
		return "", apperrors.Validation(apperrors.CodeInvalidPaymentStatus,
			fmt.Sprintf("unknown payment status %q", s))
	}
}

func canTransition(from, to models.OrderStatus) error {
	if from == to {
		return apperrors.State(apperrors.CodeStateError,
			fmt.Sprintf("order is already %s", from))
	}
	if from == models.OrderStatusCancelled {
		return apperrors.State(apperrors.CodeStateError, "order is cancelled")
	}
	if to == models.OrderStatusCancelled {
		return canCancel(from)
	}
	fromRank, okFrom := statusRank[from]
	toRank, okTo := statusRank[to]
	if !okFrom || !okTo || toRank <= fromRank {
		return apperrors.State(apperrors.CodeStateError,
			fmt.Sprintf("cannot move order from %s to %s", from, to))
	}
	return nil
}

func canCancel(from models.OrderStatus) error {
	if from != models.OrderStatusPending && from != models.OrderStatusConfirmed {
		return apperrors.State(apperrors.CodeStateError,
			fmt.Sprintf("a %s order cannot be cancelled", from))
	}
	return nil
}

// Payment status has its own tiny machine: pending may become completed or
// failed, nothing else moves.
func canTransitionPayment(from, to models.PaymentStatus) error {
	if from == to {
		return apperrors.State(apperrors.CodeStateError,
			fmt.Sprintf("payment is already %s", from))
	}
	if from != models.PaymentStatusPending {
		return apperrors.State(apperrors.CodeStateError,
			fmt.Sprintf("payment status %s is final", from))
	}
	return nil
}
