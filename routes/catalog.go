package routes

import (
	"github.com/gin-gonic/gin"
	productcontroller "github.com/mMahabub/proshopp-api/controllers/product"
	"gorm.io/gorm"
)

// SetupCatalogRoutes registers the public product and category browse
// endpoints. No auth: the storefront catalog is open.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(db))
		products.GET("/featured", productcontroller.GetFeaturedProducts(db))
		products.GET("/slug/:slug", productcontroller.GetProductBySlug(db))
		products.GET("/:id", productcontroller.GetProductByID(db))
	}

	categories := r.Group("/categories")
	{
		categories.GET("", productcontroller.GetAllCategories(db))
		categories.GET("/with-products", productcontroller.GetCategoriesWithProducts(db))
	}
}
