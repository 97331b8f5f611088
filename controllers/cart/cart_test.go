package cartControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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
		&models.GuestCart{},
		&models.GuestCartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func newCartRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", testUserID) })
	r.GET("/cart", GetUserCart(db))
	r.POST("/cart", AddCartItem(db))
	r.PUT("/cart/:product_id", UpdateCartItemQuantity(db))
	r.DELETE("/cart/:product_id", DeleteCartItem(db))
	r.DELETE("/cart", ClearUserCart(db))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Slug: strings.ToLower(name), Price: price, Stock: stock}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestAddCartItemCreatesLine(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)
	p := seedProduct(t, db, "Widget", 19.99, 5)

	w := doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 2})
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, p.ID, item.ProductID)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 19.99, item.Price)
	assert.Equal(t, "Widget", item.ProductName)
}

func TestAddCartItemAccumulates(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)
	p := seedProduct(t, db, "Widget", 10, 50)

	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 3}).Code)
	w := doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 4})
	require.Equal(t, http.StatusOK, w.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 7, item.Quantity)

	var count int64
	db.Model(&models.CartItem{}).Count(&count)
	assert.EqualValues(t, 1, count, "same product should stay a single line")
}

func TestAddCartItemClampedToStock(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)
	p := seedProduct(t, db, "Scarce", 10, 4)

	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 3}).Code)
	w := doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 3})
	require.Equal(t, http.StatusOK, w.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 4, item.Quantity)
}

func TestAddCartItemCappedAtTen(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)
	p := seedProduct(t, db, "Bulk", 1, 500)

	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 8}).Code)
	w := doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 8})
	require.Equal(t, http.StatusOK, w.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 10, item.Quantity)
}

func TestAddCartItemOutOfStock(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)
	p := seedProduct(t, db, "Gone", 10, 0)

	w := doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 1})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)

	w := doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: 999, Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateQuantitySetsOutright(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)
	p := seedProduct(t, db, "Widget", 10, 50)

	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 5}).Code)
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/cart/%d", p.ID), gin.H{"quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 2, item.Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)
	p := seedProduct(t, db, "Widget", 10, 50)

	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 5}).Code)
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/cart/%d", p.ID), gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.CartItem{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestUpdateQuantityRefreshesPriceAndStock(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)
	p := seedProduct(t, db, "Widget", 10, 50)

	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 2}).Code)

	// catalog changed since the item was added
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", p.ID).
		Updates(map[string]interface{}{"price": 12.50, "stock": 3}).Error)

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/cart/%d", p.ID), gin.H{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, 12.50, item.Price)
	assert.Equal(t, 3, item.Quantity, "clamped to the new stock")
	assert.Equal(t, 3, item.ProductStock)
}

func TestDeleteCartItemNotFound(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)
	p := seedProduct(t, db, "Widget", 10, 50)
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 1}).Code)

	w := doJSON(t, r, http.MethodDelete, "/cart/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClearUserCart(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)
	a := seedProduct(t, db, "A", 10, 50)
	b := seedProduct(t, db, "B", 20, 50)
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: a.ID, Quantity: 1}).Code)
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: b.ID, Quantity: 1}).Code)

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodDelete, "/cart", nil).Code)

	var count int64
	db.Model(&models.CartItem{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestClearUserCartWithoutCartRow(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)

	// the user never added anything, so no cart row exists yet
	w := doJSON(t, r, http.MethodDelete, "/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cart cleared")
}

func TestGetUserCartTotals(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)
	a := seedProduct(t, db, "A", 90, 50)
	b := seedProduct(t, db, "B", 10, 50)
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: a.ID, Quantity: 1}).Code)
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: b.ID, Quantity: 1}).Code)

	w := doJSON(t, r, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.ItemCount)
	assert.Equal(t, 100.0, resp.Subtotal)
	assert.Equal(t, 8.0, resp.Tax)
	assert.Equal(t, 0.0, resp.ShippingCost, "free shipping at 100")
	assert.Equal(t, 108.0, resp.Total)
}

func TestGetUserCartBelowFreeShipping(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)
	p := seedProduct(t, db, "Cheap", 19.99, 50)
	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/cart", CartItemInput{ProductID: p.ID, Quantity: 2}).Code)

	w := doJSON(t, r, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 39.98, resp.Subtotal)
	assert.Equal(t, 3.2, resp.Tax)
	assert.Equal(t, 10.0, resp.ShippingCost)
	assert.Equal(t, 53.18, resp.Total)
}

func TestGetUserCartEmpty(t *testing.T) {
	db := newTestDB(t)
	r := newCartRouter(db)

	w := doJSON(t, r, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.ItemCount)
	assert.Equal(t, 0.0, resp.Total)
}
