// Package order turns validated carts into immutable orders. Creation
// reserves stock for every line inside one transaction; cancellation gives
// it back. Nothing here mutates an order outside the defined transitions.
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/cart"
	"github.com/shopcore/storefront-api/inventory"
	"github.com/shopcore/storefront-api/metrics"
	"github.com/shopcore/storefront-api/models"
)

// Notifier receives order lifecycle events, e.g. for the websocket feed.
type Notifier interface {
	OrderCreated(o models.Order)
	OrderUpdated(o models.Order)
}

type nopNotifier struct{}

func (nopNotifier) OrderCreated(models.Order) {}
func (nopNotifier) OrderUpdated(models.Order) {}

type Factory struct {
	db       *gorm.DB
	guard    *inventory.Guard
	carts    *cart.Store
	notifier Notifier
	log      *zap.Logger
}

func NewFactory(db *gorm.DB, guard *inventory.Guard, carts *cart.Store, notifier Notifier, log *zap.Logger) *Factory {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Factory{db: db, guard: guard, carts: carts, notifier: notifier, log: log}
}

type LineInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateInput struct {
	Lines           []LineInput    `json:"items"`
	ShippingAddress models.Address `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method"`
}

// Create converts the requested lines into an order. Stock for all lines is
// reserved atomically: if any single reservation fails the transaction rolls
// back and no stock moves. Price snapshots are taken from the products as
// read in this same transaction. The caller's cart is cleared afterwards,
// best effort.
func (f *Factory) Create(userID string, in CreateInput) (*models.Order, error) {
	if err := validateAddress(in.ShippingAddress); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return nil, apperrors.Validation(apperrors.CodeInvalidOrderData, "payment_method is required")
	}
	lines, err := normalizeLines(in.Lines)
	if err != nil {
		return nil, err
	}

	var created models.Order
	err = f.db.Transaction(func(tx *gorm.DB) error {
		orderLines := make([]models.OrderLine, 0, len(lines))
		var total float64

		for _, line := range lines {
			p, err := inventory.FindProduct(tx, line.ProductID)
			if err != nil {
				return err
			}
			if !p.IsActive {
				return apperrors.Conflict(apperrors.CodeProductInactive,
					fmt.Sprintf("product %d is not available", p.ID))
			}
			if err := f.guard.Reserve(tx, line.ProductID, line.Quantity); err != nil {
				metrics.ReservationFailures.Inc()
				return err
			}
			orderLines = append(orderLines, models.OrderLine{
				ProductID:     line.ProductID,
				Quantity:      line.Quantity,
				PriceSnapshot: p.Price,
			})
			total += p.Price * float64(line.Quantity)
		}

		created = models.Order{
			OrderRef:        newOrderRef(),
			UserID:          userID,
			Lines:           orderLines,
			TotalAmount:     total,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			PaymentMethod:   in.PaymentMethod,
			ShippingAddress: in.ShippingAddress,
		}
		if err := tx.Create(&created).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Cart clearing is deliberately outside the reservation transaction: a
	// stale cart is an annoyance, a half-reserved order is corruption.
	if err := f.carts.Clear(models.UserOwner(userID)); err != nil {
		f.log.Warn("order created but cart not cleared",
			zap.String("user_id", userID), zap.Uint("order_id", created.ID), zap.Error(err))
	}

	metrics.OrdersCreated.Inc()
	f.notifier.OrderCreated(created)
	return &created, nil
}

func normalizeLines(in []LineInput) ([]LineInput, error) {
	if len(in) == 0 {
		return nil, apperrors.Validation(apperrors.CodeInvalidOrderData, "order has no items")
	}
	byProduct := make(map[uint]int, len(in))
	ordered := make([]uint, 0, len(in))
	for _, line := range in {
		if line.ProductID == 0 {
			return nil, apperrors.Validation(apperrors.CodeMissingProductID, "product_id is required")
		}
		if line.Quantity <= 0 {
			return nil, apperrors.Validation(apperrors.CodeInvalidQuantity,
				fmt.Sprintf("quantity for product %d must be a positive integer", line.ProductID))
		}
		if _, seen := byProduct[line.ProductID]; !seen {
			ordered = append(ordered, line.ProductID)
		}
		byProduct[line.ProductID] += line.Quantity
	}
	out := make([]LineInput, 0, len(ordered))
	for _, id := range ordered {
		out = append(out, LineInput{ProductID: id, Quantity: byProduct[id]})
	}
	return out, nil
}

func newOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// Cancel restores every line's stock and marks the order cancelled. Only
// pending or confirmed orders qualify, and only for the owning user or an
// administrator. The status flip is a conditional update so two racing
// cancels cannot both restore stock.
func (f *Factory) Cancel(orderID uint, requester models.Identity) (*models.Order, error) {
	ord, err := f.load(orderID)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin && ord.UserID != requester.UserID {
		return nil, apperrors.Auth("not your order")
	}
	if err := canCancel(ord.Status); err != nil {
		return nil, err
	}

	err = f.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", orderID,
				[]models.OrderStatus{models.OrderStatusPending, models.OrderStatusConfirmed}).
			Update("status", models.OrderStatusCancelled)
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.State(apperrors.CodeStateError,
				fmt.Sprintf("a %s order cannot be cancelled", ord.Status))
		}
		for _, line := range ord.Lines {
			if err := f.guard.Release(tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ord, err = f.load(orderID)
	if err != nil {
		return nil, err
	}
	metrics.OrdersCancelled.Inc()
	f.notifier.OrderUpdated(*ord)
	return ord, nil
}

// Get returns one order, owner or admin only.
func (f *Factory) Get(orderID uint, requester models.Identity) (*models.Order, error) {
	ord, err := f.load(orderID)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin && ord.UserID != requester.UserID {
		return nil, apperrors.Auth("not your order")
	}
	return ord, nil
}

// List returns the requester's orders, newest first. Administrators see all
// orders.
func (f *Factory) List(requester models.Identity) ([]models.Order, error) {
	q := f.db.Preload("Lines").Order("created_at DESC")
	if !requester.IsAdmin {
		q = q.Where("user_id = ?", requester.UserID)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return orders, nil
}

// UpdateStatus moves the order forward in its lifecycle. "cancelled" is
// routed through Cancel so the stock-restoration invariant cannot be skipped.
func (f *Factory) UpdateStatus(orderID uint, status string, requester models.Identity) (*models.Order, error) {
	next, err := parseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	if next == models.OrderStatusCancelled {
		return f.Cancel(orderID, requester)
	}

	ord, err := f.load(orderID)
	if err != nil {
		return nil, err
	}
	if err := canTransition(ord.Status, next); err != nil {
		return nil, err
	}

	res := f.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, ord.Status).
		Update("status", next)
	if res.Error != nil {
		return nil, apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.State(apperrors.CodeStateError,
			"order status changed concurrently, retry")
	}

	ord, err = f.load(orderID)
	if err != nil {
		return nil, err
	}
	f.notifier.OrderUpdated(*ord)
	return ord, nil
}

// UpdatePaymentStatus mutates the payment machine only; it never infers or
// changes the order status.
func (f *Factory) UpdatePaymentStatus(orderID uint, status string) (*models.Order, error) {
	next, err := parsePaymentStatus(status)
	if err != nil {
		return nil, err
	}

	ord, err := f.load(orderID)
	if err != nil {
		return nil, err
	}
	if err := canTransitionPayment(ord.PaymentStatus, next); err != nil {
		return nil, err
	}

	res := f.db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", orderID, ord.PaymentStatus).
		Update("payment_status", next)
	if res.Error != nil {
		return nil, apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.State(apperrors.CodeStateError,
			"payment status changed concurrently, retry")
	}

	ord, err = f.load(orderID)
	if err != nil {
		return nil, err
	}
	f.notifier.OrderUpdated(*ord)
	return ord, nil
}

// AddTracking attaches a carrier tracking number.
func (f *Factory) AddTracking(orderID uint, trackingNumber string) (*models.Order, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, apperrors.Validation(apperrors.CodeInvalidOrderData, "tracking_number is required")
	}

	ord, err := f.load(orderID)
	if err != nil {
		return nil, err
	}
	if ord.Status == models.OrderStatusCancelled {
		return nil, apperrors.State(apperrors.CodeStateError, "order is cancelled")
	}

	if err := f.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("tracking_number", trackingNumber).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	ord, err = f.load(orderID)
	if err != nil {
		return nil, err
	}
	f.notifier.OrderUpdated(*ord)
	return ord, nil
}

func (f *Factory) load(orderID uint) (*models.Order, error) {
	var ord models.Order
	if err := f.db.Preload("Lines").First(&ord, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeOrderNotFound,
				fmt.Sprintf("order %d does not exist", orderID))
		}
		return nil, apperrors.Internal(err)
	}
	return &ord, nil
}
