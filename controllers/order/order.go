package orderControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mMahabub/proshopp-api/events"
	"github.com/mMahabub/proshopp-api/models"
	"github.com/mMahabub/proshopp-api/pricing"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// PlaceOrderParams is everything checkout has gathered by the time the
// order is created.
type PlaceOrderParams struct {
	UserID          string
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	PaymentIntentID string
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// generateOrderNumber returns a unique, human-readable order reference.
func generateOrderNumber() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8]
}

// lockForUpdate adds a row lock on dialects that support it. SQLite (used in
// tests) serializes writes on its own and rejects FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// PlaceOrder turns the user's cart into an order inside one transaction:
// stock is decremented under row locks, the order and its item snapshot are
// inserted, and the cart is cleared. Any failure rolls the whole thing back.
func PlaceOrder(db *gorm.DB, p PlaceOrderParams) (*models.Order, error) {
	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", p.UserID).First(&cart).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var lines []pricing.Line
		var orderItems []models.OrderItem

		for _, item := range cart.Items {
			var product models.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}

			if product.Stock < item.Quantity {
				return ErrInsufficientStock
			}

			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			lines = append(lines, pricing.Line{Price: item.Price, Quantity: item.Quantity})
			orderItems = append(orderItems, models.OrderItem{
				ProductID:    item.ProductID,
				ProductName:  item.ProductName,
				ProductSlug:  item.ProductSlug,
				ProductImage: item.ProductImage,
				Price:        item.Price,
				Quantity:     item.Quantity,
			})
		}

		totals := pricing.Compute(lines)

		order = models.Order{
			OrderNumber:     generateOrderNumber(),
			UserID:          p.UserID,
			Items:           orderItems,
			Subtotal:        totals.Subtotal,
			Tax:             totals.Tax,
			ShippingCost:    totals.ShippingCost,
			TotalPrice:      totals.Total,
			ShippingAddress: p.ShippingAddress,
			PaymentMethod:   p.PaymentMethod,
			PaymentIntentID: p.PaymentIntentID,
			Status:          models.OrderStatusPending,
			CreatedAt:       time.Now(),
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Clearing the cart in the same transaction closes the window where
		// an order exists but the cart survives.
		return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// MarkOrderPaid flips an order to paid/processing by its payment-intent id.
// Calling it twice is a no-op, so webhook redelivery is safe.
func MarkOrderPaid(db *gorm.DB, paymentIntentID string) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").Where("payment_intent_id = ?", paymentIntentID).First(&order).Error; err != nil {
		return nil, err
	}
	if order.IsPaid {
		return &order, nil
	}

	now := time.Now()
	updates := map[string]interface{}{
		"is_paid": true,
		"paid_at": &now,
	}
	if CanTransition(order.Status, models.OrderStatusProcessing) {
		updates["status"] = models.OrderStatusProcessing
	}
	if err := db.Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}

	order.IsPaid = true
	order.PaidAt = &now
	if s, ok := updates["status"]; ok {
		order.Status = s.(models.OrderStatus)
	}
	return &order, nil
}

// -------- Handlers --------

// GET /orders (admin)
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userIDVal).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// byIDOrNumber routes numeric ids to the primary key and anything else to
// the order number.
func byIDOrNumber(query *gorm.DB, id string) *gorm.DB {
	if _, err := strconv.ParseUint(id, 10, 64); err == nil {
		return query.Where("id = ?", id)
	}
	return query.Where("order_number = ?", id)
}

// GET /admin/orders/:orderID accepts a numeric id or an order number.
// Unscoped lookup; admin routes only.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var order models.Order
		if err := byIDOrNumber(db.Preload("User").Preload("Items"), id).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// GET /user/orders/:orderID
//
// Scoped to the authenticated user; an order belonging to someone else is
// indistinguishable from a missing one.
func GetUserOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var order models.Order
		if err := byIDOrNumber(db.Preload("Items").Where("user_id = ?", userIDVal), id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// PUT /orders/:orderID/status (admin)
//
// Transitions are guard-checked: forward only, cancelled from any
// non-terminal state.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := ParseStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if !CanTransition(order.Status, newStatus) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "cannot transition from " + string(order.Status) + " to " + string(newStatus),
			})
			return
		}

		updates := map[string]interface{}{"status": newStatus}
		if newStatus == models.OrderStatusDelivered {
			now := time.Now()
			updates["is_delivered"] = true
			updates["delivered_at"] = &now
		}

		if err := db.Model(&order).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "status": newStatus})
	}
}

// DELETE /orders/:orderID (admin)
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Where("id = ?", orderID).Delete(&models.Order{}).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}

// AnnounceOrderCreated pushes the new order to the Kafka topic and the admin
// websocket feed.
func AnnounceOrderCreated(producer *events.Producer, order *models.Order) {
	items := make([]events.OrderItemPayload, len(order.Items))
	for i, it := range order.Items {
		items[i] = events.OrderItemPayload{ProductID: it.ProductID, Name: it.ProductName, Quantity: it.Quantity}
	}
	producer.Emit(events.EventOrderCreated, order.OrderNumber, events.OrderCreatedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Items:       items,
		TotalCents:  pricing.ToMinorUnits(order.TotalPrice),
	})
	broadcastNewOrder(*order)
}
