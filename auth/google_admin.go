package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mMahabub/proshopp-api/models"
	"gorm.io/gorm"
)

// POST /auth/google-admin
//
// Same Google verification as user login, but the account must exist in the
// admins table. First-time sign-ins are recorded unapproved and rejected
// until an existing admin approves them.
func GoogleAdminLoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"idToken"`
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
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or revoked ID token"})
			return
		}
		if token.Audience != projectID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token audience"})
			return
		}

		email, _ := token.Claims["email"].(string)
		name, _ := token.Claims["name"].(string)
		picture, _ := token.Claims["picture"].(string)

		var admin models.Admin
		err = db.Where("email = ?", email).First(&admin).Error
		if err == gorm.ErrRecordNotFound {
			admin = models.Admin{Email: email, Name: name, Picture: picture, Approved: false}
			if err := db.Create(&admin).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register admin"})
				return
			}
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin account pending approval"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if !admin.Approved {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin account pending approval"})
			return
		}

		sessionToken, err := issueJWT(email, "admin", token.UID, name, picture)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"admin":   admin,
			"token":   sessionToken,
		})
	}
}
