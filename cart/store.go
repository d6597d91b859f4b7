// Package cart owns the mutable pre-checkout state: one cart per owner,
// lines keyed by product. Quantity checks against the ledger are soft here;
// the hard, reserving check happens at checkout.
package cart

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/inventory"
	"github.com/shopcore/storefront-api/models"
)

type Store struct {
	db    *gorm.DB
	guard *inventory.Guard
	log   *zap.Logger
}

func NewStore(db *gorm.DB, guard *inventory.Guard, log *zap.Logger) *Store {
	return &Store{db: db, guard: guard, log: log}
}

// GetOrCreate returns the owner's cart, creating an empty one on first use.
// Concurrent first calls race on the unique owner index; the loser re-reads.
func (s *Store) GetOrCreate(owner models.CartOwner) (*models.Cart, error) {
	return getOrCreate(s.db, owner)
}

func getOrCreate(db *gorm.DB, owner models.CartOwner) (*models.Cart, error) {
	cart, err := getCart(db, owner)
	if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
		return cart, err
	}

	fresh := models.Cart{OwnerKind: owner.Kind, OwnerKey: owner.Key}
	if createErr := db.Create(&fresh).Error; createErr != nil {
		if isUniqueViolation(createErr) {
			return getCart(db, owner)
		}
		return nil, apperrors.Internal(createErr)
	}
	fresh.Lines = []models.CartLine{}
	return &fresh, nil
}

func getCart(db *gorm.DB, owner models.CartOwner) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Lines").
		Where("owner_kind = ? AND owner_key = ?", owner.Kind, owner.Key).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, apperrors.Internal(err)
	}
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}
	return &cart, nil
}

// AddItem adds qty of a product to the owner's cart. If the line already
// exists the quantities are summed, not overwritten; the increment is a
// single upsert so two concurrent adds for the same product both count.
func (s *Store) AddItem(owner models.CartOwner, productID uint, qty int) (*models.Cart, error) {
	if productID == 0 {
		return nil, apperrors.Validation(apperrors.CodeMissingProductID, "product_id is required")
	}
	if qty <= 0 {
		return nil, apperrors.Validation(apperrors.CodeInvalidQuantity, "quantity must be a positive integer")
	}

	product, err := s.guard.Product(productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, apperrors.Conflict(apperrors.CodeProductInactive,
			fmt.Sprintf("product %d is not available", productID))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreate(tx, owner)
		if err != nil {
			return err
		}

		// Soft check against the quantity the cart would end up holding.
		existing := 0
		var line models.CartLine
		lerr := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&line).Error
		switch {
		case lerr == nil:
			existing = line.Quantity
		case !errors.Is(lerr, gorm.ErrRecordNotFound):
			return apperrors.Internal(lerr)
		}
		if err := inventory.Check(tx, productID, existing+qty); err != nil {
			return err
		}

		now := time.Now()
		fresh := models.CartLine{CartID: cart.ID, ProductID: productID, Quantity: qty, AddedAt: now}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity": gorm.Expr("quantity + ?", qty),
				"added_at": now,
			}),
		}).Create(&fresh).Error; err != nil {
			return apperrors.Internal(err)
		}
		return touch(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrCreate(owner)
}

// UpdateQuantity sets a line to exactly qty. qty <= 0 removes the line. The
// soft inventory check runs against the new total, not an increment.
func (s *Store) UpdateQuantity(owner models.CartOwner, productID uint, qty int) (*models.Cart, error) {
	if productID == 0 {
		return nil, apperrors.Validation(apperrors.CodeMissingProductID, "product_id is required")
	}
	if qty <= 0 {
		if err := s.RemoveItem(owner, productID); err != nil {
			return nil, err
		}
		return s.GetOrCreate(owner)
	}

	if err := s.guard.Check(productID, qty); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreate(tx, owner)
		if err != nil {
			return err
		}
		res := tx.Model(&models.CartLine{}).
			Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			Updates(map[string]interface{}{"quantity": qty, "added_at": time.Now()})
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound(apperrors.CodeItemNotFound,
				fmt.Sprintf("product %d is not in the cart", productID))
		}
		return touch(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrCreate(owner)
}

// RemoveItem deletes a line. Removing a product that is not in the cart
// fails ITEM_NOT_FOUND.
func (s *Store) RemoveItem(owner models.CartOwner, productID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := getCart(tx, owner)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound(apperrors.CodeItemNotFound,
					fmt.Sprintf("product %d is not in the cart", productID))
			}
			return err
		}
		res := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			Delete(&models.CartLine{})
		if res.Error != nil {
			return apperrors.Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound(apperrors.CodeItemNotFound,
				fmt.Sprintf("product %d is not in the cart", productID))
		}
		return touch(tx, cart.ID)
	})
}

// Clear empties the owner's cart. Clearing an absent or already-empty cart
// is a no-op.
func (s *Store) Clear(owner models.CartOwner) error {
	return clear(s.db, owner)
}

func clear(db *gorm.DB, owner models.CartOwner) error {
	cart, err := getCart(db, owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartLine{}).Error; err != nil {
		return apperrors.Internal(err)
	}
	return touch(db, cart.ID)
}

// Issue types reported by Validate.
const (
	IssueInsufficientInventory = "insufficient_inventory"
	IssueUnavailable           = "unavailable"
)

type Issue struct {
	ProductID uint   `json:"product_id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
}

type ValidationResult struct {
	IsValid bool    `json:"is_valid"`
	Issues  []Issue `json:"issues"`
}

// Validate re-checks every line against the current catalog state. Purely
// advisory: the cart is not mutated and nothing is reserved.
func (s *Store) Validate(owner models.CartOwner) (*ValidationResult, error) {
	cart, err := s.GetOrCreate(owner)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{IsValid: true, Issues: []Issue{}}
	products, err := s.productsFor(cart.Lines)
	if err != nil {
		return nil, err
	}

	for _, line := range cart.Lines {
		p, ok := products[line.ProductID]
		switch {
		case !ok || !p.IsActive:
			result.Issues = append(result.Issues, Issue{
				ProductID: line.ProductID,
				Type:      IssueUnavailable,
				Message:   fmt.Sprintf("product %d is no longer available", line.ProductID),
			})
		case p.Stock < line.Quantity:
			result.Issues = append(result.Issues, Issue{
				ProductID: line.ProductID,
				Type:      IssueInsufficientInventory,
				Message:   fmt.Sprintf("only %d of product %d in stock", p.Stock, line.ProductID),
			})
		}
	}
	result.IsValid = len(result.Issues) == 0
	return result, nil
}

// Total sums quantity * live catalog price over all lines. Lines whose
// product has vanished contribute nothing; Validate reports them.
func (s *Store) Total(owner models.CartOwner) (float64, error) {
	cart, err := s.GetOrCreate(owner)
	if err != nil {
		return 0, err
	}
	products, err := s.productsFor(cart.Lines)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, line := range cart.Lines {
		if p, ok := products[line.ProductID]; ok {
			total += p.Price * float64(line.Quantity)
		}
	}
	return total, nil
}

// ItemCount is the sum of line quantities.
func (s *Store) ItemCount(owner models.CartOwner) (int, error) {
	cart, err := s.GetOrCreate(owner)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, line := range cart.Lines {
		count += line.Quantity
	}
	return count, nil
}

// View is the cart as returned to clients: lines joined with live product
// data plus derived totals.
type View struct {
	Items     []ItemView `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"item_count"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type ItemView struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

func (s *Store) ViewFor(owner models.CartOwner) (*View, error) {
	cart, err := s.GetOrCreate(owner)
	if err != nil {
		return nil, err
	}
	products, err := s.productsFor(cart.Lines)
	if err != nil {
		return nil, err
	}

	view := &View{Items: []ItemView{}, UpdatedAt: cart.UpdatedAt}
	for _, line := range cart.Lines {
		item := ItemView{ProductID: line.ProductID, Quantity: line.Quantity}
		if p, ok := products[line.ProductID]; ok {
			item.Name = p.Name
			item.Price = p.Price
			item.LineTotal = p.Price * float64(line.Quantity)
		}
		view.Items = append(view.Items, item)
		view.Total += item.LineTotal
		view.ItemCount += line.Quantity
	}
	return view, nil
}

func (s *Store) productsFor(lines []models.CartLine) (map[uint]models.Product, error) {
	products := make(map[uint]models.Product, len(lines))
	if len(lines) == 0 {
		return products, nil
	}
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	var rows []models.Product
	if err := s.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	for _, p := range rows {
		products[p.ID] = p
	}
	return products, nil
}

func touch(db *gorm.DB, cartID uint) error {
	if err := db.Model(&models.Cart{}).Where("id = ?", cartID).
		UpdateColumn("updated_at", time.Now()).Error; err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
