package adminController

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mMahabub/proshopp-api/models"
	"gorm.io/gorm"
)

const lowStockThreshold = 5

// DailySales is one bucket of the 30-day revenue chart.
type DailySales struct {
	Day   string  `json:"day"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// TopSeller is a product ranked by units sold across paid orders.
type TopSeller struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitsSold   int    `json:"units_sold"`
}

// GET /admin/dashboard/summary returns revenue over paid orders plus entity counts.
func GetDashboardSummary(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var revenue float64
		if err := db.Model(&models.Order{}).
			Where("is_paid = ?", true).
			Select("COALESCE(SUM(total_price), 0)").
			Scan(&revenue).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute revenue"})
			return
		}

		var orderCount, productCount, userCount int64
		db.Model(&models.Order{}).Count(&orderCount)
		db.Model(&models.Product{}).Count(&productCount)
		db.Model(&models.User{}).Count(&userCount)

		c.JSON(http.StatusOK, gin.H{
			"total_revenue": revenue,
			"order_count":   orderCount,
			"product_count": productCount,
			"user_count":    userCount,
		})
	}
}

// GET /admin/dashboard/daily-sales returns paid revenue bucketed by paid date
// over the last 30 days.
func GetDailySales(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		since := time.Now().AddDate(0, 0, -30)

		var buckets []DailySales
		if err := db.Model(&models.Order{}).
			Select("DATE(paid_at) AS day, COALESCE(SUM(total_price), 0) AS total, COUNT(*) AS count").
			Where("is_paid = ? AND paid_at >= ?", true, since).
			Group("DATE(paid_at)").
			Order("day").
			Scan(&buckets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute daily sales"})
			return
		}
		if buckets == nil {
			buckets = []DailySales{}
		}
		c.JSON(http.StatusOK, buckets)
	}
}

// GET /admin/dashboard/recent-orders
func GetRecentOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
		if limit < 1 || limit > 50 {
			limit = 5
		}

		var orders []models.Order
		if err := db.Preload("User").Preload("Items").
			Order("created_at DESC").
			Limit(limit).
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/dashboard/low-stock
func GetLowStockProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		threshold, _ := strconv.Atoi(c.DefaultQuery("threshold", strconv.Itoa(lowStockThreshold)))
		if threshold < 0 {
			threshold = lowStockThreshold
		}

		var products []models.Product
		if err := db.Where("stock <= ?", threshold).
			Order("stock ASC").
			Limit(20).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch low-stock products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /admin/dashboard/top-sellers ranks products by units sold, summed
// from paid-order line snapshots.
func GetTopSellers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
		if limit < 1 || limit > 50 {
			limit = 5
		}

		var sellers []TopSeller
		if err := db.Model(&models.OrderItem{}).
			Select("order_items.product_id, order_items.product_name, SUM(order_items.quantity) AS units_sold").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.is_paid = ?", true).
			Group("order_items.product_id, order_items.product_name").
			Order("units_sold DESC").
			Limit(limit).
			Scan(&sellers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute top sellers"})
			return
		}
		if sellers == nil {
			sellers = []TopSeller{}
		}
		c.JSON(http.StatusOK, sellers)
	}
}
