package productcontroller

import (
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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Category{}))
	return db
}

func newCatalogRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/products", GetProducts(db))
	r.GET("/products/featured", GetFeaturedProducts(db))
	r.GET("/products/slug/:slug", GetProductBySlug(db))
	r.GET("/products/:id", GetProductByID(db))
	return r
}

type listResponse struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func getList(t *testing.T, r *gin.Engine, path string) listResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func seedCatalog(t *testing.T, db *gorm.DB) models.Category {
	t.Helper()
	audio := models.Category{Name: "Audio", Slug: "audio"}
	require.NoError(t, db.Create(&audio).Error)

	products := []models.Product{
		{Name: "Wireless Headphones", Slug: "wireless-headphones", Brand: "Acme", Price: 120, Stock: 5, Categories: []models.Category{audio}},
		{Name: "Desk Lamp", Slug: "desk-lamp", Brand: "Lumen", Price: 35, Stock: 20},
		{Name: "Headphone Stand", Slug: "headphone-stand", Brand: "Acme", Price: 18, Stock: 8, Categories: []models.Category{audio}},
		{Name: "Mechanical Keyboard", Slug: "mechanical-keyboard", Brand: "Clack", Price: 90, Stock: 0, IsFeatured: true},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
	return audio
}

func TestGetProductsSearchIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	r := newCatalogRouter(db)

	resp := getList(t, r, "/products?search=HEADPHONE")
	assert.EqualValues(t, 2, resp.Total)
	for _, p := range resp.Products {
		assert.Contains(t, strings.ToLower(p.Name), "headphone")
	}
}

func TestGetProductsPriceFilter(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	r := newCatalogRouter(db)

	resp := getList(t, r, "/products?min_price=30&max_price=100")
	assert.EqualValues(t, 2, resp.Total)
	for _, p := range resp.Products {
		assert.GreaterOrEqual(t, p.Price, 30.0)
		assert.LessOrEqual(t, p.Price, 100.0)
	}
}

func TestGetProductsCategoryFilter(t *testing.T) {
	db := newTestDB(t)
	audio := seedCatalog(t, db)
	r := newCatalogRouter(db)

	resp := getList(t, r, fmt.Sprintf("/products?category_id=%d", audio.ID))
	assert.EqualValues(t, 2, resp.Total)
}

func TestGetProductsSortAndPaginate(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	r := newCatalogRouter(db)

	resp := getList(t, r, "/products?sort_by=price&order=asc&page=1&page_size=2")
	assert.EqualValues(t, 4, resp.Total)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "headphone-stand", resp.Products[0].Slug)
	assert.Equal(t, "desk-lamp", resp.Products[1].Slug)

	resp = getList(t, r, "/products?sort_by=price&order=asc&page=2&page_size=2")
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "mechanical-keyboard", resp.Products[0].Slug)
}

func TestGetProductsRejectsUnknownSortColumn(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	r := newCatalogRouter(db)

	// falls back to created_at rather than interpolating the input
	resp := getList(t, r, "/products?sort_by=stock;%20DROP%20TABLE%20products")
	assert.EqualValues(t, 4, resp.Total)
}

func TestGetProductBySlug(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	r := newCatalogRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/products/slug/desk-lamp", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var p models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Desk Lamp", p.Name)

	req = httptest.NewRequest(http.MethodGet, "/products/slug/no-such-thing", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetFeaturedProducts(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	r := newCatalogRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/products/featured", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.True(t, products[0].IsFeatured)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "wireless-headphones", slugify("Wireless Headphones"))
	assert.Equal(t, "acme-20-off", slugify("Acme 20% Off!"))
}
