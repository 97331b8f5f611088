package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mMahabub/proshopp-api/models"
	"gorm.io/gorm"
)

// POST /auth/guest
func CreateGuestUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := "guest_" + generateRandomString(16)

		guest := models.GuestUser{
			ID:        guestID,
			ExpiresAt: time.Now().Add(24 * time.Hour),
		}

		if err := db.Create(&guest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest"})
			return
		}

		token, err := issueGuestToken(guestID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guest_id":   guestID,
			"token":      token,
			"expires_at": guest.ExpiresAt,
		})
	}
}

// CleanupExpiredGuests removes guest users (and their carts) past expiry.
func CleanupExpiredGuests(db *gorm.DB) error {
	var expired []models.GuestUser
	if err := db.Where("expires_at < ?", time.Now()).Find(&expired).Error; err != nil {
		return err
	}
	for _, g := range expired {
		var cart models.GuestCart
		if err := db.Where("guest_id = ?", g.ID).First(&cart).Error; err == nil {
			db.Where("cart_id = ?", cart.CartID).Delete(&models.GuestCartItem{})
			db.Delete(&cart)
		}
		db.Delete(&g)
	}
	return nil
}

func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "rand_guest"
	}
	return hex.EncodeToString(bytes)
}
