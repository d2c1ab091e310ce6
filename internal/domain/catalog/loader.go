// internal/domain/catalog/loader.go
package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:embed seed/products.json
var seedFS embed.FS

// Loader supplies the products a catalog is built from
type Loader interface {
	Load(ctx context.Context) ([]Product, error)
}

// Build loads products and freezes them into a Catalog
func Build(ctx context.Context, loader Loader) (*Catalog, error) {
	products, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return NewCatalog(products)
}

// EmbeddedLoader decodes the product seed compiled into the binary
type EmbeddedLoader struct{}

// Load decodes the embedded seed
func (EmbeddedLoader) Load(ctx context.Context) ([]Product, error) {
	return SeedProducts()
}

// SeedProducts returns the embedded product seed
func SeedProducts() ([]Product, error) {
	data, err := seedFS.ReadFile("seed/products.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read product seed: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode product seed: %w", err)
	}
	return products, nil
}

// ProductRecord is the catalog_products row. List columns are Postgres
// text arrays.
type ProductRecord struct {
	ID            int                 `gorm:"primaryKey;autoIncrement:false"`
	SortOrder     int                 `gorm:"not null;default:0;index"`
	Name          string              `gorm:"not null;size:255"`
	Description   string              `gorm:"type:text"`
	Image         string              `gorm:"size:500"`
	Price         decimal.Decimal     `gorm:"type:numeric(10,2);not null"`
	OriginalPrice decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	Category      string              `gorm:"not null;size:100;index"`
	Brand         string              `gorm:"size:100"`
	Compatibility pq.StringArray      `gorm:"type:text[]"`
	Features      pq.StringArray      `gorm:"type:text[]"`
	Colors        pq.StringArray      `gorm:"type:text[];not null"`
	InStock       bool                `gorm:"not null;default:true"`
	Rating        float64             `gorm:"not null;default:0"`
	Reviews       int                 `gorm:"not null;default:0"`
}

// TableName overrides the table name
func (ProductRecord) TableName() string {
	return "catalog_products"
}

// ToProduct converts a row into a catalog product
func (r ProductRecord) ToProduct() Product {
	p := Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Image:         r.Image,
		Price:         r.Price,
		Category:      r.Category,
		Brand:         r.Brand,
		Compatibility: fromArray(r.Compatibility),
		Features:      fromArray(r.Features),
		Colors:        fromArray(r.Colors),
		InStock:       r.InStock,
		Rating:        r.Rating,
		Reviews:       r.Reviews,
	}
	if r.OriginalPrice.Valid {
		op := r.OriginalPrice.Decimal
		p.OriginalPrice = &op
	}
	return p
}

// RecordFromProduct converts a product into a row at the given position
func RecordFromProduct(p Product, sortOrder int) ProductRecord {
	r := ProductRecord{
		ID:            p.ID,
		SortOrder:     sortOrder,
		Name:          p.Name,
		Description:   p.Description,
		Image:         p.Image,
		Price:         p.Price,
		Category:      p.Category,
		Brand:         p.Brand,
		Compatibility: toArray(p.Compatibility),
		Features:      toArray(p.Features),
		Colors:        toArray(p.Colors),
		InStock:       p.InStock,
		Rating:        p.Rating,
		Reviews:       p.Reviews,
	}
	if p.OriginalPrice != nil {
		r.OriginalPrice = decimal.NewNullDecimal(*p.OriginalPrice)
	}
	return r
}

// PostgresLoader reads catalog_products once through gorm
type PostgresLoader struct {
	db *gorm.DB
}

// NewPostgresLoader creates a loader over db
func NewPostgresLoader(db *gorm.DB) *PostgresLoader {
	return &PostgresLoader{db: db}
}

// Load reads every row in catalog order
func (l *PostgresLoader) Load(ctx context.Context) ([]Product, error) {
	var rows []ProductRecord
	if err := l.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query catalog products: %w", err)
	}

	products := make([]Product, len(rows))
	for i, row := range rows {
		products[i] = row.ToProduct()
	}
	return products, nil
}

func fromArray(a pq.StringArray) []string {
	out := make([]string, len(a))
	copy(out, a)
	return out
}

// toArray never returns nil so empty lists are stored as '{}', not NULL
func toArray(list []string) pq.StringArray {
	out := make(pq.StringArray, len(list))
	copy(out, list)
	return out
}
