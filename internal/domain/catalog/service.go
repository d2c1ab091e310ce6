// internal/domain/catalog/service.go
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Sort orders accepted by List
const (
	SortByName      = "name"
	SortByPriceLow  = "price-low"
	SortByPriceHigh = "price-high"
	SortByRating    = "rating"

	AllCategories = "all"
)

// ListQuery filters and orders a product listing
type ListQuery struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	SortBy   string
}

// Catalog is the read-only product source shared by every session
type Catalog struct {
	products []Product
	byID     map[int]int
}

// NewCatalog validates products and freezes them in the given order
func NewCatalog(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}

	for _, p := range products {
		if err := validateProduct(p); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidProduct, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p.clone())
	}

	return c, nil
}

func validateProduct(p Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: product %d has no name", ErrInvalidProduct, p.ID)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: product %d has a negative price", ErrInvalidProduct, p.ID)
	case p.OriginalPrice != nil && p.OriginalPrice.IsNegative():
		return fmt.Errorf("%w: product %d has a negative original price", ErrInvalidProduct, p.ID)
	case len(p.Colors) == 0:
		return fmt.Errorf("%w: product %d declares no colors", ErrInvalidProduct, p.ID)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("%w: product %d rating %.1f outside 0-5", ErrInvalidProduct, p.ID, p.Rating)
	case p.Reviews < 0:
		return fmt.Errorf("%w: product %d has a negative review count", ErrInvalidProduct, p.ID)
	}
	return nil
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}

// All returns every product in catalog order
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.clone()
	}
	return out
}

// Get returns the product with the given id
func (c *Catalog) Get(id int) (Product, error) {
	idx, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}
	return c.products[idx].clone(), nil
}

// Featured returns the first n products in catalog order
func (c *Catalog) Featured(n int) []Product {
	if n < 0 {
		n = 0
	}
	if n > len(c.products) {
		n = len(c.products)
	}
	out := make([]Product, n)
	for i := 0; i < n; i++ {
		out[i] = c.products[i].clone()
	}
	return out
}

// Categories returns "all" followed by each distinct lower-cased category
// in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	out := []string{AllCategories}
	for _, p := range c.products {
		cat := strings.ToLower(p.Category)
		if seen[cat] {
			continue
		}
		seen[cat] = true
		out = append(out, cat)
	}
	return out
}

// List filters by category and inclusive price range, then sorts
func (c *Catalog) List(q ListQuery) []Product {
	category := strings.ToLower(strings.TrimSpace(q.Category))

	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && category != AllCategories && strings.ToLower(p.Category) != category {
			continue
		}
		if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		out = append(out, p.clone())
	}

	sortProducts(out, q.SortBy)
	return out
}

// Search matches term against name, brand, category and compatible devices
func (c *Catalog) Search(term string) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []Product{}
	}

	out := []Product{}
	for _, p := range c.products {
		if p.matches(term) {
			out = append(out, p.clone())
		}
	}
	return out
}

// ValidSort reports whether sortBy names a known order. Empty means name.
func ValidSort(sortBy string) bool {
	switch sortBy {
	case "", SortByName, SortByPriceLow, SortByPriceHigh, SortByRating:
		return true
	}
	return false
}

func sortProducts(products []Product, sortBy string) {
	var less func(a, b Product) bool

	switch sortBy {
	case SortByPriceLow:
		less = func(a, b Product) bool { return a.Price.LessThan(b.Price) }
	case SortByPriceHigh:
		less = func(a, b Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortByRating:
		less = func(a, b Product) bool { return a.Rating > b.Rating }
	default:
		less = func(a, b Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	}

	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}
