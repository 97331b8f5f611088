package checkoutControllers

import (
	"crypto/sha256"

	"github.com/gorilla/securecookie"
)

const (
	// ShippingCookieName holds the encrypted shipping address during checkout.
	ShippingCookieName = "shipping_address"

	// shippingCookieMaxAge is 24 hours, matching the guest session lifetime.
	shippingCookieMaxAge = 24 * 60 * 60
)

// NewShippingCodec derives the hash and block keys for the shipping-address
// cookie from the configured secret.
func NewShippingCodec(secret string) *securecookie.SecureCookie {
	hashKey := sha256.Sum256([]byte(secret + ":hash"))
	blockKey := sha256.Sum256([]byte(secret + ":block"))
	sc := securecookie.New(hashKey[:], blockKey[:])
	sc.MaxAge(shippingCookieMaxAge)
	return sc
}
