package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	cartControllers "github.com/mMahabub/proshopp-api/controllers/cart"
	"github.com/mMahabub/proshopp-api/models"
	"gorm.io/gorm"
)

// POST /auth/google-user
//
// Verifies a Google sign-in ID token via Firebase, upserts the user (with a
// cart), merges any guest cart carried over from before sign-in, and issues
// the session JWT.
func GoogleUserLoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"idToken"`
			GuestID string `json:"guest_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
			return
		}

		if firebaseAuth == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Auth backend not configured"})
			return
		}

		token, err := firebaseAuth.VerifyIDTokenAndCheckRevoked(c.Request.Context(), req.IDToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Firebase ID token"})
			return
		}
		if token.Audience != projectID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token audience"})
			return
		}

		email, _ := token.Claims["email"].(string)
		name, _ := token.Claims["name"].(string)
		picture, _ := token.Claims["picture"].(string)
		firebaseUserID := token.UID

		var user models.User
		err = db.Preload("Cart.Items").Where("id = ?", firebaseUserID).First(&user).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			user = models.User{
				ID:       firebaseUserID,
				Email:    email,
				Name:     name,
				Picture:  picture,
				Provider: "google",
				Cart:     models.Cart{UserID: firebaseUserID},
			}
			if err := db.Create(&user).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				return
			}
		case err == nil:
			db.Model(&user).Updates(models.User{Name: name, Picture: picture})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		mergeStatus := "no-guest-cart"
		if req.GuestID != "" {
			merged, err := cartControllers.MergeGuestCartIntoUserCart(db, req.GuestID, user.ID)
			switch {
			case err != nil:
				mergeStatus = "merge-failed"
			case merged:
				mergeStatus = "merged-success"
			default:
				mergeStatus = "guest-cart-empty"
			}
		}

		sessionToken, err := issueJWT(email, "user", firebaseUserID, name, picture)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Login successful",
			"merge_status": mergeStatus,
			"user":         user,
			"token":        sessionToken,
		})
	}
}
