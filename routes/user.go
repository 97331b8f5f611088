package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/mMahabub/proshopp-api/controllers/cart"
	checkoutController "github.com/mMahabub/proshopp-api/controllers/checkout"
	orderControllers "github.com/mMahabub/proshopp-api/controllers/order"
	userControllers "github.com/mMahabub/proshopp-api/controllers/user"
	"github.com/mMahabub/proshopp-api/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, checkout *checkoutController.Controller, jwtSecret string) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(jwtSecret))
	{
		// Profile
		userGroup.GET("", userControllers.GetUser(db))
		userGroup.PUT("", userControllers.UpdateUser(db))

		// Shopping cart
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(db))
			cartGroup.POST("", cartControllers.AddCartItem(db))
			cartGroup.PUT("/:product_id", cartControllers.UpdateCartItemQuantity(db))
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(db))
			cartGroup.DELETE("", cartControllers.ClearUserCart(db))
		}

		// Checkout flow: shipping address, review, payment, completion
		checkoutGroup := userGroup.Group("/checkout")
		{
			checkoutGroup.POST("/shipping", checkout.SetShippingAddress)
			checkoutGroup.GET("/shipping", checkout.GetShippingAddress)
			checkoutGroup.GET("/summary", checkout.GetSummary)
			checkoutGroup.POST("/payment-intent", checkout.CreatePaymentIntent)
			checkoutGroup.POST("/complete", checkout.CompleteCheckout)
		}

		// Order history
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.GET("", orderControllers.GetUserOrdersHandler(db))
			orderGroup.GET("/:orderID", orderControllers.GetUserOrderByIDHandler(db))
		}
	}
}
