// Package api renders the JSON envelope shared by every endpoint:
// {"success":true,"data":...} or {"success":false,"error":{code,message}}.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/shopcore/storefront-api/apperrors"
)

func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func Fail(c *gin.Context, err error) {
	e := apperrors.FromErr(err)
	c.JSON(apperrors.HTTPStatus(e), envelope(e))
}

// FailAbort is Fail for middleware, stopping the handler chain.
func FailAbort(c *gin.Context, err error) {
	e := apperrors.FromErr(err)
	c.AbortWithStatusJSON(apperrors.HTTPStatus(e), envelope(e))
}

func envelope(e *apperrors.Error) gin.H {
	msg := e.Message
	if e.Kind == apperrors.KindInternal {
		// Never leak persistence details to clients.
		msg = "internal error"
	}
	return gin.H{
		"success": false,
		"error":   gin.H{"code": e.Code, "message": msg},
	}
}
