package models

import "time"

// Cart holds the not-yet-committed purchase lines for one owner. Guest and
// user carts live in the same table; the (owner_kind, owner_key) pair is
// unique, which enforces one cart per owner.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	OwnerKind OwnerKind  `gorm:"type:VARCHAR(8);not null;uniqueIndex:idx_cart_owner" json:"owner_kind"`
	OwnerKey  string     `gorm:"type:VARCHAR(64);not null;uniqueIndex:idx_cart_owner" json:"owner_key"`
	Lines     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) Owner() CartOwner {
	return CartOwner{Kind: c.OwnerKind, Key: c.OwnerKey}
}

// CartLine is a (product, quantity) pair. Quantity is always >= 1; a line
// whose quantity would drop to zero is deleted, not stored. Prices are not
// snapshotted here; cart totals follow live catalog prices until checkout.
type CartLine struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CartID    uint      `gorm:"not null;index;uniqueIndex:idx_cart_line_product" json:"-"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_line_product" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}
