// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// CatalogHandler handles product endpoints
type CatalogHandler struct {
	catalog *catalog.Catalog
	config  *config.Config
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(c *catalog.Catalog, cfg *config.Config) *CatalogHandler {
	return &CatalogHandler{
		catalog: c,
		config:  cfg,
	}
}

// productView adds derived fields to a product
type productView struct {
	catalog.Product
	DiscountPercentage int `json:"discount_percentage,omitempty"`
}

func viewProducts(products []catalog.Product) []productView {
	out := make([]productView, len(products))
	for i, p := range products {
		out[i] = productView{Product: p, DiscountPercentage: p.DiscountPercentage()}
	}
	return out
}

// GetProducts handles GET /products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	q := catalog.ListQuery{
		Category: c.Query("category"),
		SortBy:   c.Query("sort_by"),
	}

	if !catalog.ValidSort(q.SortBy) {
		badRequest(c, "Invalid sort_by", nil)
		return
	}

	var err error
	if q.MinPrice, err = parsePrice(c.Query("min_price")); err != nil {
		badRequest(c, "Invalid min_price", err)
		return
	}
	if q.MaxPrice, err = parsePrice(c.Query("max_price")); err != nil {
		badRequest(c, "Invalid max_price", err)
		return
	}

	products := h.catalog.List(q)

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data": gin.H{
			"products": viewProducts(products),
			"count":    len(products),
		},
	})
}

// GetFeatured handles GET /products/featured
func (h *CatalogHandler) GetFeatured(c *gin.Context) {
	limit := h.config.Catalog.FeaturedCount
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "Invalid limit", err)
			return
		}
		limit = n
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Featured products retrieved successfully",
		"data":    viewProducts(h.catalog.Featured(limit)),
	})
}

// SearchProducts handles GET /products/search
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	term := c.Query("q")
	products := h.catalog.Search(term)

	c.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"data": gin.H{
			"query":    term,
			"products": viewProducts(products),
			"count":    len(products),
		},
	})
}

// GetCategories handles GET /products/categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    h.catalog.Categories(),
	})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid product ID", nil)
		return
	}

	p, err := h.catalog.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    productView{Product: p, DiscountPercentage: p.DiscountPercentage()},
	})
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
