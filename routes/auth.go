package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mMahabub/proshopp-api/auth"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/google-user", auth.GoogleUserLoginHandler(db))
		authGroup.POST("/google-admin", auth.GoogleAdminLoginHandler(db))
		authGroup.POST("/guest", auth.CreateGuestUser(db))
	}
}
