// Package inventory is the policy layer between carts/orders and the
// product ledger. Cart mutations use the soft Check, which is advisory and
// reserves nothing; checkout uses Reserve, a single conditional UPDATE that
// both checks and commits the stock movement.
package inventory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/models"
)

type Guard struct {
	db *gorm.DB
}

func NewGuard(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

// Product looks a product up by id, including inactive ones. Soft-deleted
// products are treated as missing.
func (g *Guard) Product(id uint) (*models.Product, error) {
	return FindProduct(g.db, id)
}

// FindProduct is Product against an explicit handle, for callers that need
// the read inside their own transaction.
func FindProduct(db *gorm.DB, id uint) (*models.Product, error) {
	var p models.Product
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(apperrors.CodeProductNotFound,
				fmt.Sprintf("product %d does not exist", id))
		}
		return nil, apperrors.Internal(err)
	}
	return &p, nil
}

// Check verifies that requestedQty of a product could be taken right now.
// It holds no lock and reserves nothing: stock may change before checkout,
// where Reserve has the final say.
func (g *Guard) Check(productID uint, requestedQty int) error {
	return Check(g.db, productID, requestedQty)
}

// Check against an explicit handle, for soft checks inside a transaction.
func Check(db *gorm.DB, productID uint, requestedQty int) error {
	p, err := FindProduct(db, productID)
	if err != nil {
		return err
	}
	return checkProduct(p, requestedQty)
}

func checkProduct(p *models.Product, requestedQty int) error {
	if !p.IsActive {
		return apperrors.Conflict(apperrors.CodeProductInactive,
			fmt.Sprintf("product %d is not available", p.ID))
	}
	if p.Stock < requestedQty {
		return apperrors.Conflict(apperrors.CodeInsufficientStock,
			fmt.Sprintf("requested %d of product %d, only %d in stock", requestedQty, p.ID, p.Stock))
	}
	return nil
}

// Reserve atomically takes qty units of stock:
//
//	UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?
//
// Zero rows affected means another request got there first (or stock was
// never sufficient); the caller's transaction must roll back. Run inside
// the checkout transaction so multi-line orders commit all or nothing.
func (g *Guard) Reserve(tx *gorm.DB, productID uint, qty int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.Conflict(apperrors.CodeInsufficientStock,
			fmt.Sprintf("insufficient stock for product %d", productID))
	}
	return nil
}

// Release returns qty units of stock, the inverse of Reserve. Used when a
// pending or confirmed order is cancelled. Unscoped so cancellation still
// restores stock on products the catalog has since soft-deleted.
func (g *Guard) Release(tx *gorm.DB, productID uint, qty int) error {
	res := tx.Unscoped().Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(apperrors.CodeProductNotFound,
			fmt.Sprintf("product %d does not exist", productID))
	}
	return nil
}
