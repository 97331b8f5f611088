package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/mMahabub/proshopp-api/controllers/admin"
	cartControllers "github.com/mMahabub/proshopp-api/controllers/cart"
	orderControllers "github.com/mMahabub/proshopp-api/controllers/order"
	productcontroller "github.com/mMahabub/proshopp-api/controllers/product"
	userControllers "github.com/mMahabub/proshopp-api/controllers/user"
	"github.com/mMahabub/proshopp-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-key middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, apiKey string) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(apiKey))
	{
		// Admin and user management
		adminGroup.GET("/admins", adminController.GetAllAdmins(db))
		adminGroup.GET("/users", userControllers.GetAllUsers(db))

		// Product management
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("", productcontroller.GetProducts(db))
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(db))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(db))
		}

		// Category management
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.GET("", productcontroller.GetAllCategories(db))
			categoryAdmin.POST("", productcontroller.CreateCategory(db))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(db))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(db))
		}

		// Order management
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(db))
			orderAdmin.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
			orderAdmin.DELETE("/:orderID", orderControllers.DeleteOrderHandler(db))
		}

		// Dashboard metrics
		dashboard := adminGroup.Group("/dashboard")
		{
			dashboard.GET("/summary", adminController.GetDashboardSummary(db))
			dashboard.GET("/daily-sales", adminController.GetDailySales(db))
			dashboard.GET("/recent-orders", adminController.GetRecentOrders(db))
			dashboard.GET("/low-stock", adminController.GetLowStockProducts(db))
			dashboard.GET("/top-sellers", adminController.GetTopSellers(db))
		}

		// Admin approval workflow
		adminMgmt := adminGroup.Group("/admin-management")
		{
			adminMgmt.GET("/pending", adminController.ListPendingAdmins(db))
			adminMgmt.POST("/approve", adminController.ApproveAdmin(db))
			adminMgmt.POST("/reject", adminController.RejectAdmin(db))
		}

		// Support: inspect a customer's cart
		cartMgmt := adminGroup.Group("/user-cart")
		{
			cartMgmt.GET("/:user_id", cartControllers.GetAdminUserCart(db))
		}
	}
}
