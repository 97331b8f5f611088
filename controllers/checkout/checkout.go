package checkoutControllers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"gorm.io/gorm"

	orderControllers "github.com/mMahabub/proshopp-api/controllers/order"
	"github.com/mMahabub/proshopp-api/events"
	"github.com/mMahabub/proshopp-api/models"
	"github.com/mMahabub/proshopp-api/pricing"
	"github.com/mMahabub/proshopp-api/redisx"
)

// Controller carries the checkout pipeline's dependencies.
type Controller struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Producer       *events.Producer
	Cookies        *securecookie.SecureCookie
	PublishableKey string
}

// POST /user/checkout/shipping
//
// Validates the shipping address and seals it into an encrypted httpOnly
// cookie for the rest of the checkout.
func (ctl *Controller) SetShippingAddress(c *gin.Context) {
	var addr models.ShippingAddress
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if addr.FullName == "" || addr.Street == "" || addr.City == "" || addr.PostalCode == "" || addr.Country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full_name, street, city, postal_code and country are required"})
		return
	}

	encoded, err := ctl.Cookies.Encode(ShippingCookieName, addr)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store shipping address"})
		return
	}

	c.SetCookie(ShippingCookieName, encoded, shippingCookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Shipping address saved", "shipping_address": addr})
}

// GET /user/checkout/address
func (ctl *Controller) GetShippingAddress(c *gin.Context) {
	addr, ok := ctl.readShippingAddress(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No shipping address on file"})
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (ctl *Controller) readShippingAddress(c *gin.Context) (models.ShippingAddress, bool) {
	raw, err := c.Cookie(ShippingCookieName)
	if err != nil {
		return models.ShippingAddress{}, false
	}
	var addr models.ShippingAddress
	if err := ctl.Cookies.Decode(ShippingCookieName, raw, &addr); err != nil {
		return models.ShippingAddress{}, false
	}
	return addr, true
}

// GET /user/checkout/summary
//
// Returns the address plus the derived totals; the numbers here are the same
// ones the payment intent is created from.
func (ctl *Controller) GetSummary(c *gin.Context) {
	userID := c.GetString("user_id")

	addr, ok := ctl.readShippingAddress(c)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "No shipping address on file", "redirect": "/shipping"})
		return
	}

	items, err := ctl.cartItems(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Cart is empty", "redirect": "/cart"})
		return
	}

	lines := make([]pricing.Line, len(items))
	for i, it := range items {
		lines[i] = pricing.Line{Price: it.Price, Quantity: it.Quantity}
	}

	c.JSON(http.StatusOK, gin.H{
		"shipping_address": addr,
		"items":            items,
		"totals":           pricing.Compute(lines),
	})
}

// POST /user/checkout/payment-intent
//
// Runs the precondition chain (address → cart → totals) and asks Stripe for
// a payment intent over the order total in minor units. The client secret
// goes back to the browser payment widget.
func (ctl *Controller) CreatePaymentIntent(c *gin.Context) {
	userID := c.GetString("user_id")

	addr, ok := ctl.readShippingAddress(c)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "No shipping address on file", "redirect": "/shipping"})
		return
	}

	items, err := ctl.cartItems(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Cart is empty", "redirect": "/cart"})
		return
	}

	lines := make([]pricing.Line, len(items))
	for i, it := range items {
		lines[i] = pricing.Line{Price: it.Price, Quantity: it.Quantity}
	}
	totals := pricing.Compute(lines)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(pricing.ToMinorUnits(totals.Total)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("user_id", userID)
	params.AddMetadata("shipping_city", addr.City)

	pi, err := paymentintent.New(params)
	if err != nil {
		log.Printf("stripe payment intent: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment intent creation failed", "redirect": "/cart"})
		return
	}
	if pi.ClientSecret == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment processor returned no client secret", "redirect": "/cart"})
		return
	}

	if ctl.Redis != nil {
		key := fmt.Sprintf(redisx.KeyCheckoutIntent, userID)
		_ = ctl.Redis.Set(c.Request.Context(), key, pi.ID, redisx.TTLCheckoutIntent).Err()
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_intent_id": pi.ID,
		"client_secret":     pi.ClientSecret,
		"publishable_key":   ctl.PublishableKey,
		"totals":            totals,
	})
}

// POST /user/checkout/complete
//
// Called after the browser widget confirms payment. Re-reads the cart and the
// shipping cookie, creates the order in one transaction and announces it. The
// webhook later marks it paid.
func (ctl *Controller) CompleteCheckout(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		PaymentIntentID string `json:"payment_intent_id" binding:"required"`
		PaymentMethod   string `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_intent_id is required"})
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "card"
	}

	addr, ok := ctl.readShippingAddress(c)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "No shipping address on file", "redirect": "/shipping"})
		return
	}

	// An order for this intent already exists: the client retried the
	// redirect. Return the existing order instead of creating another.
	var existing models.Order
	if err := ctl.DB.Preload("Items").
		Where("payment_intent_id = ?", req.PaymentIntentID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Order already placed", "order": existing})
		return
	}

	order, err := orderControllers.PlaceOrder(ctl.DB, orderControllers.PlaceOrderParams{
		UserID:          userID,
		ShippingAddress: addr,
		PaymentMethod:   req.PaymentMethod,
		PaymentIntentID: req.PaymentIntentID,
	})
	if err != nil {
		switch err {
		case orderControllers.ErrEmptyCart:
			c.JSON(http.StatusConflict, gin.H{"error": "Cart is empty", "redirect": "/cart"})
		case orderControllers.ErrInsufficientStock:
			c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock", "redirect": "/cart"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		}
		return
	}

	orderControllers.AnnounceOrderCreated(ctl.Producer, order)

	// The address cookie has served its purpose.
	c.SetCookie(ShippingCookieName, "", -1, "/", "", false, true)

	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

func (ctl *Controller) cartItems(userID string) ([]models.CartItem, error) {
	var cart models.Cart
	err := ctl.DB.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cart.Items, nil
}
