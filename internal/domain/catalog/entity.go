// internal/domain/catalog/entity.go
package catalog

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

// Product is an immutable catalog record. Values handed out by the catalog
// are copies; list fields are never shared with the catalog itself.
type Product struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Image         string           `json:"image"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Category      string           `json:"category"`
	Brand         string           `json:"brand"`
	Compatibility []string         `json:"compatibility"`
	Features      []string         `json:"features"`
	Colors        []string         `json:"colors"`
	InStock       bool             `json:"in_stock"`
	Rating        float64          `json:"rating"`
	Reviews       int              `json:"reviews"`
}

// HasColor reports whether color is one of the declared variants
func (p Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// DefaultColor is the variant preselected on the product page
func (p Product) DefaultColor() string {
	if len(p.Colors) == 0 {
		return ""
	}
	return p.Colors[0]
}

// DiscountPercentage returns the whole-number markdown against OriginalPrice
func (p Product) DiscountPercentage() int {
	if p.OriginalPrice == nil || !p.OriginalPrice.IsPositive() || !p.Price.LessThan(*p.OriginalPrice) {
		return 0
	}
	off := p.OriginalPrice.Sub(p.Price).Mul(decimal.NewFromInt(100)).Div(*p.OriginalPrice)
	return int(off.IntPart())
}

func (p Product) clone() Product {
	c := p
	c.Compatibility = append([]string(nil), p.Compatibility...)
	c.Features = append([]string(nil), p.Features...)
	c.Colors = append([]string(nil), p.Colors...)
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		c.OriginalPrice = &op
	}
	return c
}

func (p Product) matches(term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Brand), term) ||
		strings.Contains(strings.ToLower(p.Category), term) {
		return true
	}
	for _, device := range p.Compatibility {
		if strings.Contains(strings.ToLower(device), term) {
			return true
		}
	}
	return false
}
