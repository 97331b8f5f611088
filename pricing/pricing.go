// Package pricing holds the cart arithmetic: subtotal, tax, shipping and the
// conversion to the minor units the payment processor expects.
package pricing

import "math"

const (
	// TaxRate applies to the subtotal of every cart and order.
	TaxRate = 0.08

	// FreeShippingMin is the subtotal at which shipping becomes free.
	FreeShippingMin = 100.0

	// FlatShippingCost is charged below FreeShippingMin.
	FlatShippingCost = 10.0

	// MaxQuantityPerLine caps any single cart line.
	MaxQuantityPerLine = 10
)

// Line is the price/quantity pair the totals are derived from.
type Line struct {
	Price    float64
	Quantity int
}

// Totals is the fully derived money breakdown for a cart or order.
type Totals struct {
	Subtotal     float64 `json:"subtotal"`
	Tax          float64 `json:"tax"`
	ShippingCost float64 `json:"shipping_cost"`
	Total        float64 `json:"total"`
}

// Round2 rounds to two decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Subtotal is Σ(price × quantity), rounded to two decimals.
func Subtotal(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Price * float64(l.Quantity)
	}
	return Round2(sum)
}

// Tax is TaxRate of the subtotal, rounded to two decimals.
func Tax(subtotal float64) float64 {
	return Round2(subtotal * TaxRate)
}

// Shipping is free above FreeShippingMin and flat below it. An empty cart
// ships nothing.
func Shipping(subtotal float64) float64 {
	if subtotal == 0 || subtotal >= FreeShippingMin {
		return 0
	}
	return FlatShippingCost
}

// Compute derives the full breakdown from the given lines.
func Compute(lines []Line) Totals {
	sub := Subtotal(lines)
	tax := Tax(sub)
	ship := Shipping(sub)
	return Totals{
		Subtotal:     sub,
		Tax:          tax,
		ShippingCost: ship,
		Total:        Round2(sub + tax + ship),
	}
}

// ItemCount is Σ(quantity).
func ItemCount(lines []Line) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// ToMinorUnits converts a two-decimal amount to integer cents for the
// payment processor.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ClampQuantity bounds a requested quantity to [1, min(stock, MaxQuantityPerLine)].
// Quantities of zero or less mean "remove the line" and are returned as 0.
func ClampQuantity(qty, stock int) int {
	if qty <= 0 {
		return 0
	}
	max := MaxQuantityPerLine
	if stock < max {
		max = stock
	}
	if max < 1 {
		return 0
	}
	if qty > max {
		return max
	}
	return qty
}
