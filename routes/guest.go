package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/mMahabub/proshopp-api/controllers/cart"
	"gorm.io/gorm"
)

// SetupGuestCartRoutes registers the cart endpoints used before login.
// Each handler identifies the cart by the guest_id query parameter
// issued at POST /auth/guest.
func SetupGuestCartRoutes(r *gin.Engine, db *gorm.DB) {
	guestCart := r.Group("/guest/cart")
	{
		guestCart.GET("", cartControllers.GetGuestCart(db))
		guestCart.POST("", cartControllers.AddGuestCartItem(db))
		guestCart.PUT("/:product_id", cartControllers.UpdateGuestCartItemQuantity(db))
		guestCart.DELETE("/:product_id", cartControllers.DeleteGuestCartItem(db))
		guestCart.DELETE("", cartControllers.ClearGuestCart(db))
	}
}
