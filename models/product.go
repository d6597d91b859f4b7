package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is the ledger view of a catalog item. Catalog CRUD lives in a
// separate service; this backend only reads products and moves stock.
type Product struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string  `gorm:"not null" json:"name"`
	Price     float64 `gorm:"not null" json:"price"`
	Stock     int     `gorm:"not null;default:0" json:"stock"`
	IsActive  bool    `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
