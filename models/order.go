package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (forward-only flow; cancelled is terminal)
	OrderStatusPending   OrderStatus = "pending"   // Order placed, awaiting confirmation
	OrderStatusConfirmed OrderStatus = "confirmed" // Confirmed by seller
	OrderStatusShipped   OrderStatus = "shipped"   // Out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // Customer received the item
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled before shipping, stock restored

	// Payment statuses, independent of order status
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Order is the immutable record of a committed purchase. Only status,
// payment status and tracking number may change after creation; lines and
// amounts never do.
type Order struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	OrderRef        string        `gorm:"type:VARCHAR(64);uniqueIndex" json:"order_ref"`
	UserID          string        `gorm:"not null;index" json:"user_id"`
	Lines           []OrderLine   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	TotalAmount     float64       `gorm:"not null" json:"total_amount"`
	Status          OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus   PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod   string        `gorm:"type:VARCHAR(20)" json:"payment_method"` // e.g. "card", "cod"
	TrackingNumber  string        `gorm:"type:VARCHAR(64)" json:"tracking_number,omitempty"`
	ShippingAddress Address       `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// OrderLine carries the price the customer actually saw. PriceSnapshot is
// copied from the product at order creation and never recomputed, even if
// the catalog price changes later.
type OrderLine struct {
	ID            uint    `gorm:"primaryKey" json:"-"`
	OrderID       uint    `gorm:"not null;index" json:"-"`
	ProductID     uint    `gorm:"not null" json:"product_id"`
	Quantity      int     `gorm:"not null" json:"quantity"`
	PriceSnapshot float64 `gorm:"not null" json:"price_snapshot"`
}

// Address is embedded into orders as the shipping destination.
type Address struct {
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
}
