// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	"fmt"
	"log"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// Migration handles schema setup for the catalog tables
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations creates or updates the catalog tables
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	models := []interface{}{
		&catalog.ProductRecord{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates the indexes the catalog queries use
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_catalog_products_sort ON catalog_products(sort_order, id)",
		"CREATE INDEX IF NOT EXISTS idx_catalog_products_category ON catalog_products(category)",
	}

	failCount := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", len(indexes)-failCount, failCount)
	return nil
}

// SeedCatalog inserts the embedded products when the table is empty
func (m *Migration) SeedCatalog(ctx context.Context) (int, error) {
	var count int64
	if err := m.db.WithContext(ctx).Model(&catalog.ProductRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	products, err := catalog.SeedProducts()
	if err != nil {
		return 0, err
	}

	records := make([]catalog.ProductRecord, len(products))
	for i, p := range products {
		records[i] = catalog.RecordFromProduct(p, i)
	}

	if err := m.db.WithContext(ctx).Create(&records).Error; err != nil {
		return 0, fmt.Errorf("failed to seed products: %w", err)
	}

	log.Printf("🌱 Seeded %d catalog products", len(records))
	return len(records), nil
}
