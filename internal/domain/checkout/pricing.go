// internal/domain/checkout/pricing.go
package checkout

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
)

// Pricing derives shipping and tax from a cart total
type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// NewPricing creates pricing rules from configuration
func NewPricing(cfg config.CheckoutConfig) Pricing {
	return Pricing{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		FlatShippingFee:       cfg.FlatShippingFee,
		TaxRate:               cfg.TaxRate,
	}
}

// Quote is the order summary shown next to the cart. It is recomputed from
// the cart total on every read.
type Quote struct {
	Subtotal              decimal.Decimal `json:"subtotal"`
	Shipping              decimal.Decimal `json:"shipping"`
	FreeShipping          bool            `json:"free_shipping"`
	FreeShippingRemaining decimal.Decimal `json:"free_shipping_remaining"`
	Tax                   decimal.Decimal `json:"tax"`
	Total                 decimal.Decimal `json:"total"`
}

// Quote prices a cart total. Shipping is free only above the threshold.
func (p Pricing) Quote(subtotal decimal.Decimal) Quote {
	q := Quote{
		Subtotal:              subtotal,
		Shipping:              p.FlatShippingFee,
		FreeShippingRemaining: decimal.Zero,
		Tax:                   subtotal.Mul(p.TaxRate).Round(2),
	}

	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		q.Shipping = decimal.Zero
		q.FreeShipping = true
	}
	if subtotal.LessThan(p.FreeShippingThreshold) {
		q.FreeShippingRemaining = p.FreeShippingThreshold.Sub(subtotal)
	}

	q.Total = subtotal.Add(q.Shipping).Add(q.Tax)
	return q
}
