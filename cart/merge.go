package cart

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/inventory"
	"github.com/shopcore/storefront-api/models"
)

// Merge folds the guest cart into the user's cart at login. Quantities for
// the same product are summed, clamped to current stock; lines whose product
// is gone or inactive are dropped. The guest cart is deleted in the same
// transaction whatever happens to its lines, so a second call with the same
// session key finds nothing and is a no-op.
func (s *Store) Merge(guestKey string, userID string) (*models.Cart, error) {
	guest := models.GuestOwner(guestKey)
	user := models.UserOwner(userID)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		guestCart, err := getCart(tx, guest)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // nothing to merge
			}
			return err
		}

		userCart, err := getOrCreate(tx, user)
		if err != nil {
			return err
		}

		for _, line := range guestCart.Lines {
			if err := s.mergeLine(tx, userCart.ID, line); err != nil {
				return err
			}
		}

		// Delete unconditionally; this is what makes merge single-shot.
		if err := tx.Where("cart_id = ?", guestCart.ID).Delete(&models.CartLine{}).Error; err != nil {
			return apperrors.Internal(err)
		}
		if err := tx.Delete(&models.Cart{}, guestCart.ID).Error; err != nil {
			return apperrors.Internal(err)
		}
		return touch(tx, userCart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrCreate(user)
}

func (s *Store) mergeLine(tx *gorm.DB, userCartID uint, line models.CartLine) error {
	product, err := inventory.FindProduct(tx, line.ProductID)
	if err != nil {
		if apperrors.FromErr(err).Kind == apperrors.KindNotFound {
			s.log.Info("merge: dropping line for missing product",
				zap.Uint("product_id", line.ProductID))
			return nil
		}
		return err
	}
	if !product.IsActive {
		s.log.Info("merge: dropping line for inactive product",
			zap.Uint("product_id", line.ProductID))
		return nil
	}

	existing := 0
	var current models.CartLine
	lerr := tx.Where("cart_id = ? AND product_id = ?", userCartID, line.ProductID).
		First(&current).Error
	switch {
	case lerr == nil:
		existing = current.Quantity
	case !errors.Is(lerr, gorm.ErrRecordNotFound):
		return apperrors.Internal(lerr)
	}

	target := existing + line.Quantity
	if target > product.Stock {
		s.log.Info("merge: clamping line to stock",
			zap.Uint("product_id", line.ProductID),
			zap.Int("wanted", target), zap.Int("stock", product.Stock))
		target = product.Stock
	}
	if target <= 0 {
		return nil
	}

	now := time.Now()
	fresh := models.CartLine{CartID: userCartID, ProductID: line.ProductID, Quantity: target, AddedAt: now}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": target,
			"added_at": now,
		}),
	}).Create(&fresh).Error; err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
