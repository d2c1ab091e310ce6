package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, CatalogSourceEmbedded, cfg.Catalog.Source)
	assert.Equal(t, 3, cfg.Catalog.FeaturedCount)
	assert.Equal(t, "session_token", cfg.Session.CookieName)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "100", cfg.Checkout.FreeShippingThreshold.String())
	assert.Equal(t, "9.99", cfg.Checkout.FlatShippingFee.String())
	assert.Equal(t, "0.08", cfg.Checkout.TaxRate.String())
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CHECKOUT_TAX_RATE", "0.1")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.1", cfg.Checkout.TaxRate.String())
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Security.CORSAllowedOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"short secret", map[string]string{"SESSION_SECRET": "short"}, "SESSION_SECRET"},
		{"unknown catalog source", map[string]string{"CATALOG_SOURCE": "s3"}, "CATALOG_SOURCE"},
		{"postgres without host", map[string]string{"CATALOG_SOURCE": "postgres", "DB_HOST": " "}, "DB_HOST"},
		{"negative tax", map[string]string{"CHECKOUT_TAX_RATE": "-0.01"}, "CHECKOUT_TAX_RATE"},
		{"redis without host", map[string]string{"REDIS_ENABLED": "true", "REDIS_HOST": " "}, "REDIS_HOST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "shop", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable", cfg.GetDatabaseDSN())
}
