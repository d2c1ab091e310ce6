package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

func connect(t *testing.T) *DB {
	t.Helper()

	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set")
	}
	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := NewConnection(cfg)
	if err != nil {
		t.Skipf("postgres unreachable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigration_SeedsAndLoadsCatalog(t *testing.T) {
	db := connect(t)
	ctx := context.Background()

	m := NewMigration(db.GetDB())
	require.NoError(t, m.RunAutoMigrations())
	require.NoError(t, m.CreateIndexes())
	_, err := m.SeedCatalog(ctx)
	require.NoError(t, err)

	again, err := m.SeedCatalog(ctx)
	require.NoError(t, err)
	assert.Zero(t, again, "seeding is skipped once rows exist")

	c, err := catalog.Build(ctx, catalog.NewPostgresLoader(db.GetDB()))
	require.NoError(t, err)
	assert.Positive(t, c.Len())
	assert.NoError(t, db.Health(ctx))
}
