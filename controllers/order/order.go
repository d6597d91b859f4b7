package orderControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/controllers/api"
	"github.com/shopcore/storefront-api/middleware"
	"github.com/shopcore/storefront-api/order"
)

type updateStatusInput struct {
	Status string `json:"status"`
}

type updatePaymentStatusInput struct {
	PaymentStatus string `json:"payment_status"`
}

type trackingInput struct {
	TrackingNumber string `json:"tracking_number"`
}

// POST /orders
func CreateOrder(factory *order.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			api.Fail(c, apperrors.Unauthenticated("login required"))
			return
		}
		var input order.CreateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			api.Fail(c, apperrors.Validation(apperrors.CodeInvalidOrderData, "malformed request body"))
			return
		}
		created, err := factory.Create(ident.UserID, input)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusCreated, created)
	}
}

// GET /orders
func ListOrders(factory *order.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			api.Fail(c, apperrors.Unauthenticated("login required"))
			return
		}
		orders, err := factory.List(ident)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusOK, orders)
	}
}

// GET /orders/:order_id
func GetOrder(factory *order.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			api.Fail(c, apperrors.Unauthenticated("login required"))
			return
		}
		orderID, err := orderIDParam(c)
		if err != nil {
			api.Fail(c, err)
			return
		}
		ord, err := factory.Get(orderID, ident)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusOK, ord)
	}
}

// PUT /orders/:order_id/cancel
func CancelOrder(factory *order.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			api.Fail(c, apperrors.Unauthenticated("login required"))
			return
		}
		orderID, err := orderIDParam(c)
		if err != nil {
			api.Fail(c, err)
			return
		}
		ord, err := factory.Cancel(orderID, ident)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusOK, ord)
	}
}

// PUT /orders/:order_id/status (admin)
func UpdateOrderStatus(factory *order.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, _ := middleware.CurrentIdentity(c)
		orderID, err := orderIDParam(c)
		if err != nil {
			api.Fail(c, err)
			return
		}
		var input updateStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			api.Fail(c, apperrors.Validation(apperrors.CodeInvalidStatus, "malformed request body"))
			return
		}
		ord, err := factory.UpdateStatus(orderID, input.Status, ident)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusOK, ord)
	}
}

// PUT /orders/:order_id/payment-status (admin)
func UpdatePaymentStatus(factory *order.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := orderIDParam(c)
		if err != nil {
			api.Fail(c, err)
			return
		}
		var input updatePaymentStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			api.Fail(c, apperrors.Validation(apperrors.CodeInvalidPaymentStatus, "malformed request body"))
			return
		}
		ord, err := factory.UpdatePaymentStatus(orderID, input.PaymentStatus)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusOK, ord)
	}
}

// PUT /orders/:order_id/tracking (admin)
func AddTrackingNumber(factory *order.Factory) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := orderIDParam(c)
		if err != nil {
			api.Fail(c, err)
			return
		}
		var input trackingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			api.Fail(c, apperrors.Validation(apperrors.CodeInvalidOrderData, "malformed request body"))
			return
		}
		ord, err := factory.AddTracking(orderID, input.TrackingNumber)
		if err != nil {
			api.Fail(c, err)
			return
		}
		api.OK(c, http.StatusOK, ord)
	}
}

func orderIDParam(c *gin.Context) (uint, error) {
	raw := c.Param("order_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NotFound(apperrors.CodeOrderNotFound, "invalid order id")
	}
	return uint(id), nil
}
