package orderControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mMahabub/proshopp-api/models"
)

const testUserID = "user-1"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	require.NoError(t, db.Create(&models.User{ID: testUserID, Email: "u@example.com", Name: "Test User"}).Error)
	return db
}

func seedCart(t *testing.T, db *gorm.DB, products ...struct {
	Price float64
	Stock int
	Qty   int
}) models.Cart {
	t.Helper()
	cart := models.Cart{UserID: testUserID}
	require.NoError(t, db.Create(&cart).Error)
	for i, p := range products {
		product := models.Product{
			Name:  fmt.Sprintf("Product %d", i+1),
			Slug:  fmt.Sprintf("product-%d", i+1),
			Price: p.Price,
			Stock: p.Stock,
		}
		require.NoError(t, db.Create(&product).Error)
		require.NoError(t, db.Create(&models.CartItem{
			CartID:      cart.CartID,
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSlug: product.Slug,
			Price:       p.Price,
			Quantity:    p.Qty,
			AddedAt:     time.Now(),
		}).Error)
	}
	return cart
}

func testAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:   "Test User",
		Street:     "1 Main St",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62701",
		Country:    "US",
	}
}

func TestPlaceOrder(t *testing.T) {
	db := newTestDB(t)
	seedCart(t, db,
		struct {
			Price float64
			Stock int
			Qty   int
		}{Price: 100, Stock: 5, Qty: 2},
	)

	order, err := PlaceOrder(db, PlaceOrderParams{
		UserID:          testUserID,
		ShippingAddress: testAddress(),
		PaymentMethod:   "card",
		PaymentIntentID: "pi_test_1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.IsPaid)
	assert.Equal(t, 200.0, order.Subtotal)
	assert.Equal(t, 16.0, order.Tax)
	assert.Equal(t, 0.0, order.ShippingCost)
	assert.Equal(t, 216.0, order.TotalPrice)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", order.Items[0].ProductID).Error)
	assert.Equal(t, 3, product.Stock, "stock decremented by ordered quantity")

	var remaining int64
	db.Model(&models.CartItem{}).Count(&remaining)
	assert.EqualValues(t, 0, remaining, "cart cleared in the same transaction")
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := newTestDB(t)

	_, err := PlaceOrder(db, PlaceOrderParams{UserID: testUserID, ShippingAddress: testAddress()})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	db := newTestDB(t)
	cart := seedCart(t, db,
		struct {
			Price float64
			Stock int
			Qty   int
		}{Price: 50, Stock: 10, Qty: 2},
		struct {
			Price float64
			Stock int
			Qty   int
		}{Price: 30, Stock: 1, Qty: 3},
	)

	_, err := PlaceOrder(db, PlaceOrderParams{UserID: testUserID, ShippingAddress: testAddress()})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// first product's decrement must have been rolled back
	var products []models.Product
	require.NoError(t, db.Order("id").Find(&products).Error)
	assert.Equal(t, 10, products[0].Stock)
	assert.Equal(t, 1, products[1].Stock)

	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.EqualValues(t, 0, orders)

	var items int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.CartID).Count(&items)
	assert.EqualValues(t, 2, items, "cart untouched on failure")
}

func TestMarkOrderPaidIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	order := models.Order{
		OrderNumber:     "20260830-abc123",
		UserID:          testUserID,
		PaymentIntentID: "pi_test_2",
		Status:          models.OrderStatusPending,
		TotalPrice:      108,
	}
	require.NoError(t, db.Create(&order).Error)

	paid, err := MarkOrderPaid(db, "pi_test_2")
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, models.OrderStatusProcessing, paid.Status)
	firstPaidAt := *paid.PaidAt

	again, err := MarkOrderPaid(db, "pi_test_2")
	require.NoError(t, err)
	assert.True(t, again.IsPaid)
	require.NotNil(t, again.PaidAt)
	assert.True(t, again.PaidAt.Equal(firstPaidAt) || again.PaidAt.Sub(firstPaidAt) < time.Second,
		"second delivery must not move paid_at")
}

func TestMarkOrderPaidUnknownIntent(t *testing.T) {
	db := newTestDB(t)

	_, err := MarkOrderPaid(db, "pi_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func newStatusRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/orders/:orderID/status", UpdateOrderStatusHandler(db))
	return r
}

func putStatus(t *testing.T, r *gin.Engine, orderID uint, status string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(gin.H{"status": status})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/orders/%d/status", orderID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	db := newTestDB(t)
	r := newStatusRouter(db)
	order := models.Order{OrderNumber: "n-1", UserID: testUserID, Status: models.OrderStatusProcessing}
	require.NoError(t, db.Create(&order).Error)

	// skipping a step is rejected
	assert.Equal(t, http.StatusConflict, putStatus(t, r, order.ID, "delivered").Code)

	// going backwards is rejected
	assert.Equal(t, http.StatusConflict, putStatus(t, r, order.ID, "pending").Code)

	require.Equal(t, http.StatusOK, putStatus(t, r, order.ID, "shipped").Code)
	require.Equal(t, http.StatusOK, putStatus(t, r, order.ID, "delivered").Code)

	var got models.Order
	require.NoError(t, db.First(&got, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusDelivered, got.Status)
	assert.True(t, got.IsDelivered)
	assert.NotNil(t, got.DeliveredAt)

	// delivered is terminal
	assert.Equal(t, http.StatusConflict, putStatus(t, r, order.ID, "cancelled").Code)
}

func TestUpdateOrderStatusUnknownValue(t *testing.T) {
	db := newTestDB(t)
	r := newStatusRouter(db)
	order := models.Order{OrderNumber: "n-2", UserID: testUserID, Status: models.OrderStatusPending}
	require.NoError(t, db.Create(&order).Error)

	assert.Equal(t, http.StatusBadRequest, putStatus(t, r, order.ID, "misplaced").Code)
}

func TestGetUserOrderByIDHandlerScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.User{ID: "other-user", Email: "other@example.com"}).Error)

	victimOrder := models.Order{
		OrderNumber:     "20260830-victim1",
		UserID:          "other-user",
		Status:          models.OrderStatusPending,
		ShippingAddress: models.ShippingAddress{FullName: "Other User", Street: "9 Secret Ln", City: "Springfield", PostalCode: "62701", Country: "US"},
	}
	require.NoError(t, db.Create(&victimOrder).Error)

	ownOrder := models.Order{OrderNumber: "20260830-own1", UserID: testUserID, Status: models.OrderStatusPending}
	require.NoError(t, db.Create(&ownOrder).Error)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", testUserID) })
	r.GET("/user/orders/:orderID", GetUserOrderByIDHandler(db))

	fetch := func(ref string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/user/orders/"+ref, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// someone else's order must look like it does not exist, by number or id
	w := fetch("20260830-victim1")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "9 Secret Ln")
	assert.Equal(t, http.StatusNotFound, fetch(fmt.Sprintf("%d", victimOrder.ID)).Code)

	w = fetch("20260830-own1")
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, ownOrder.ID, got.ID)
}

func TestGetOrderByIDHandlerAcceptsOrderNumber(t *testing.T) {
	db := newTestDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/orders/:orderID", GetOrderByIDHandler(db))

	order := models.Order{OrderNumber: "20260830-lookup1", UserID: testUserID, Status: models.OrderStatusPending}
	require.NoError(t, db.Create(&order).Error)

	req := httptest.NewRequest(http.MethodGet, "/orders/20260830-lookup1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, order.ID, got.ID)
}
