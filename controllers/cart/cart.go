package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/cart"
	"github.com/shopcore/storefront-api/controllers/api"
	"github.com/shopcore/storefront-api/middleware"
	"github.com/shopcore/storefront-api/models"
)

type addItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type updateItemInput struct {
	Quantity int `json:"quantity"`
}

type mergeInput struct {
	GuestSessionID string `json:"guest_session_id"`
}

// GET /cart
func GetCart(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := middleware.CurrentOwner(c)
		if !ok {
			api.Fail(c, apperrors.Unauthenticated("no cart owner"))
			return
		}
		view, err := store.ViewFor(owner)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusOK, view)
	}
}

// POST /cart/items
func AddItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := middleware.CurrentOwner(c)
		if !ok {
			api.Fail(c, apperrors.Unauthenticated("no cart owner"))
			return
		}
		var input addItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			api.Fail(c, apperrors.Validation(apperrors.CodeInvalidOrderData, "malformed request body"))
			return
		}
		if _, err := store.AddItem(owner, input.ProductID, input.Quantity); err != nil {
			api.Fail(c, err)
			return
		}
		view, err := store.ViewFor(owner)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusCreated, view)
	}
}

// PUT /cart/items/:product_id
func UpdateItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := middleware.CurrentOwner(c)
		if !ok {
			api.Fail(c, apperrors.Unauthenticated("no cart owner"))
			return
		}
		productID, err := productIDParam(c)
		if err != nil {
			api.Fail(c, err)
			return
		}
		var input updateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			api.Fail(c, apperrors.Validation(apperrors.CodeInvalidOrderData, "malformed request body"))
			return
		}
		if _, err := store.UpdateQuantity(owner, productID, input.Quantity); err != nil {
			api.Fail(c, err)
			return
		}
		view, err := store.ViewFor(owner)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusOK, view)
	}
}

// DELETE /cart/items/:product_id
func RemoveItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := middleware.CurrentOwner(c)
		if !ok {
			api.Fail(c, apperrors.Unauthenticated("no cart owner"))
			return
		}
		productID, err := productIDParam(c)
		if err != nil {
			api.Fail(c, err)
			return
		}
		if err := store.RemoveItem(owner, productID); err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusOK, gin.H{"message": "item removed"})
	}
}

// DELETE /cart
func ClearCart(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := middleware.CurrentOwner(c)
		if !ok {
			api.Fail(c, apperrors.Unauthenticated("no cart owner"))
			return
		}
		if err := store.Clear(owner); err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusOK, gin.H{"message": "cart cleared"})
	}
}

// GET /cart/validate
func ValidateCart(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := middleware.CurrentOwner(c)
		if !ok {
			api.Fail(c, apperrors.Unauthenticated("no cart owner"))
			return
		}
		result, err := store.Validate(owner)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusOK, result)
	}
}

// POST /cart/merge
// Runs once after login: the guest cart named in the body is folded into the
// authenticated user's cart and deleted. Requires a user token.
func MergeCart(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			api.Fail(c, apperrors.Unauthenticated("login required"))
			return
		}
		var input mergeInput
		if err := c.ShouldBindJSON(&input); err != nil || input.GuestSessionID == "" {
			api.Fail(c, apperrors.Validation(apperrors.CodeInvalidOrderData, "guest_session_id is required"))
			return
		}
		if _, err := store.Merge(input.GuestSessionID, ident.UserID); err != nil {
			api.Fail(c, err)
			return
		}
		view, err := store.ViewFor(models.UserOwner(ident.UserID))
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusOK, view)
	}
}

func productIDParam(c *gin.Context) (uint, error) {
	raw := c.Param("product_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation(apperrors.CodeMissingProductID, "invalid product id")
	}
	return uint(id), nil
}
