package cartControllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mMahabub/proshopp-api/models"
)

func seedGuestCart(t *testing.T, db *gorm.DB, guestID string, items ...models.GuestCartItem) models.GuestCart {
	t.Helper()
	cart := models.GuestCart{GuestID: guestID}
	require.NoError(t, db.Create(&cart).Error)
	for i := range items {
		items[i].CartID = cart.CartID
		items[i].AddedAt = time.Now()
		require.NoError(t, db.Create(&items[i]).Error)
	}
	return cart
}

func TestMergeGuestCartIntoUserCart(t *testing.T) {
	db := newTestDB(t)

	userCart := models.Cart{UserID: testUserID}
	require.NoError(t, db.Create(&userCart).Error)
	require.NoError(t, db.Create(&models.CartItem{
		CartID: userCart.CartID, ProductID: 1, ProductName: "A", Price: 10, Quantity: 1, AddedAt: time.Now(),
	}).Error)

	seedGuestCart(t, db, "guest-1",
		models.GuestCartItem{ProductID: 1, ProductName: "A", Price: 10, Quantity: 2},
		models.GuestCartItem{ProductID: 2, ProductName: "B", Price: 20, Quantity: 1},
	)

	merged, err := MergeGuestCartIntoUserCart(db, "guest-1", testUserID)
	require.NoError(t, err)
	assert.True(t, merged)

	var items []models.CartItem
	require.NoError(t, db.Where("cart_id = ?", userCart.CartID).Order("product_id").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity, "overlapping product quantities add up")
	assert.Equal(t, 1, items[1].Quantity)

	var guestCarts int64
	db.Model(&models.GuestCart{}).Count(&guestCarts)
	assert.EqualValues(t, 0, guestCarts, "guest cart is deleted after the merge")
	var guestItems int64
	db.Model(&models.GuestCartItem{}).Count(&guestItems)
	assert.EqualValues(t, 0, guestItems)
}

func TestMergeCreatesUserCartWhenMissing(t *testing.T) {
	db := newTestDB(t)

	seedGuestCart(t, db, "guest-1",
		models.GuestCartItem{ProductID: 7, ProductName: "Solo", Price: 5, Quantity: 2},
	)

	merged, err := MergeGuestCartIntoUserCart(db, "guest-1", testUserID)
	require.NoError(t, err)
	assert.True(t, merged)

	var cart models.Cart
	require.NoError(t, db.Preload("Items").Where("user_id = ?", testUserID).First(&cart).Error)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(7), cart.Items[0].ProductID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestMergeNoGuestCart(t *testing.T) {
	db := newTestDB(t)

	merged, err := MergeGuestCartIntoUserCart(db, "no-such-guest", testUserID)
	require.NoError(t, err)
	assert.False(t, merged)
}

func TestMergeEmptyGuestCart(t *testing.T) {
	db := newTestDB(t)
	seedGuestCart(t, db, "guest-1")

	merged, err := MergeGuestCartIntoUserCart(db, "guest-1", testUserID)
	require.NoError(t, err)
	assert.False(t, merged)

	var guestCarts int64
	db.Model(&models.GuestCart{}).Count(&guestCarts)
	assert.EqualValues(t, 0, guestCarts, "empty guest cart is still cleaned up")
}
