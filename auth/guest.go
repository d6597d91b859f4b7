// Package auth mints guest sessions. User and admin token issuance is owned
// by the identity service; this backend only validates those tokens.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/shopcore/storefront-api/apperrors"
	"github.com/shopcore/storefront-api/controllers/api"
	"github.com/shopcore/storefront-api/models"
)

const guestSessionTTL = 24 * time.Hour

// POST /auth/guest
func CreateGuestSession(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := "guest_" + randomHex(16)

		session := models.GuestSession{
			ID:        guestID,
			ExpiresAt: time.Now().Add(guestSessionTTL),
		}
		if err := db.Create(&session).Error; err != nil {
			api.Fail(c, apperrors.Internal(err))
			return
		}

		token, err := issueGuestToken(guestID, secret, session.ExpiresAt)
		if err != nil {
			api.Fail(c, apperrors.Internal(err))
			return
		}

		api.OK(c, http.StatusCreated, gin.H{
			"guest_session_id": guestID,
			"token":            token,
			"expires_at":       session.ExpiresAt,
		})
	}
}

func randomHex(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "rand_guest"
	}
	return hex.EncodeToString(bytes)
}

func issueGuestToken(id, secret string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id,
		"role":    "guest",
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
