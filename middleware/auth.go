package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/controllers/api"
	"github.com/shopcore/storefront-api/models"
)

const (
	ctxIdentity  = "identity"
	ctxCartOwner = "cart_owner"

	guestHeader = "X-Guest-Session"
	guestCookie = "guest_session"
)

type tokenClaims struct {
	UserID string
	Role   string
}

func parseToken(tokenString, secret string) (*tokenClaims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, apperrors.Unauthenticated("authorization header is missing")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthenticated("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.Unauthenticated("invalid token claims")
	}
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return nil, apperrors.Unauthenticated("invalid token claims")
	}
	return &tokenClaims{UserID: userID, Role: role}, nil
}

// ResolveOwner resolves the cart owner for guest-or-user endpoints. A valid
// bearer token wins; otherwise the guest session key is taken from the
// X-Guest-Session header or the guest_session cookie.
func ResolveOwner(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			claims, err := parseToken(header, secret)
			if err != nil {
				api.FailAbort(c, err)
				return
			}
			if claims.Role == "guest" {
				c.Set(ctxCartOwner, models.GuestOwner(claims.UserID))
			} else {
				c.Set(ctxCartOwner, models.UserOwner(claims.UserID))
				c.Set(ctxIdentity, models.Identity{UserID: claims.UserID, IsAdmin: claims.Role == "admin"})
			}
			c.Next()
			return
		}

		sessionKey := c.GetHeader(guestHeader)
		if sessionKey == "" {
			sessionKey, _ = c.Cookie(guestCookie)
		}
		if sessionKey == "" {
			api.FailAbort(c, apperrors.Unauthenticated("no credentials or guest session"))
			return
		}
		c.Set(ctxCartOwner, models.GuestOwner(sessionKey))
		c.Next()
	}
}

// RequireUser admits authenticated non-guest callers only.
func RequireUser(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(c.GetHeader("Authorization"), secret)
		if err != nil {
			api.FailAbort(c, err)
			return
		}
		if claims.Role == "guest" {
			api.FailAbort(c, apperrors.Auth("login required"))
			return
		}
		c.Set(ctxIdentity, models.Identity{UserID: claims.UserID, IsAdmin: claims.Role == "admin"})
		c.Set(ctxCartOwner, models.UserOwner(claims.UserID))
		c.Next()
	}
}

// RequireAdmin stacks on RequireUser.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := CurrentIdentity(c)
		if !ok || !ident.IsAdmin {
			api.FailAbort(c, apperrors.Auth("administrator access required"))
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return models.Identity{}, false
	}
	ident, ok := v.(models.Identity)
	return ident, ok
}

func CurrentOwner(c *gin.Context) (models.CartOwner, bool) {
	v, ok := c.Get(ctxCartOwner)
	if !ok {
		return models.CartOwner{}, false
	}
	owner, ok := v.(models.CartOwner)
	return owner, ok && !owner.IsZero()
}
