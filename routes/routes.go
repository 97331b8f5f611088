package routes

import (
	"github.com/gin-gonic/gin"
	checkoutController "github.com/mMahabub/proshopp-api/controllers/checkout"
	orderControllers "github.com/mMahabub/proshopp-api/controllers/order"
	paymentController "github.com/mMahabub/proshopp-api/controllers/payment"
	"gorm.io/gorm"
)

// Deps carries the shared handler dependencies route groups need
// beyond the database handle.
type Deps struct {
	Checkout    *checkoutController.Controller
	Webhook     *paymentController.WebhookHandler
	JWTSecret   string
	AdminAPIKey string
}

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, deps Deps) {
	// Public routes (no middleware)
	SetupAuthRoutes(r, db)
	SetupCatalogRoutes(r, db)
	SetupGuestCartRoutes(r, db)

	// JWT-protected user routes
	SetupUserRoutes(r, db, deps.Checkout, deps.JWTSecret)

	// API-key-protected admin routes
	SetupAdminRoutes(r, db, deps.AdminAPIKey)

	// Payment provider webhook (verified by signature, not by session)
	r.POST("/api/webhooks/stripe", deps.Webhook.Handle)

	// Real-time order feed for the back office
	r.GET("/ws/orders", orderControllers.OrderWebSocketHandler)
}
