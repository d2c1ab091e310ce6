// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Catalog sources
const (
	CatalogSourceEmbedded = "embedded"
	CatalogSourcePostgres = "postgres"
)

// Config holds all configuration for our application
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Session  SessionConfig
	Catalog  CatalogConfig
	Checkout CheckoutConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Security SecurityConfig
	PDF      PDFConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name         string
	Version      string
	Environment  string
	Debug        bool
	CompanyName  string
	CompanyEmail string
	CompanyPhone string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// SessionConfig controls the browsing session that owns a cart
type SessionConfig struct {
	Secret        string
	CookieName    string
	TTL           time.Duration
	SweepInterval time.Duration
	SecureCookie  bool
}

// CatalogConfig selects where the product catalog is loaded from
type CatalogConfig struct {
	Source        string
	FeaturedCount int
}

// CheckoutConfig contains the figures derived from a cart total
type CheckoutConfig struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
	DefaultCountry        string
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	RateLimitBurst     int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// PDFConfig contains receipt rendering configuration
type PDFConfig struct {
	Enabled bool
	Dpi     uint
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:         getEnv("APP_NAME", "Storefront Backend"),
			Version:      getEnv("APP_VERSION", "1.0.0"),
			Environment:  getEnv("APP_ENV", "development"),
			Debug:        getEnvAsBool("APP_DEBUG", true),
			CompanyName:  getEnv("COMPANY_NAME", "Mobile Case Co."),
			CompanyEmail: getEnv("COMPANY_EMAIL", "support@example.com"),
			CompanyPhone: getEnv("COMPANY_PHONE", "+1 (555) 123-4567"),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			MaxBodyBytes:   getEnvAsInt64("SERVER_MAX_BODY_BYTES", 1<<20), // 1MB
		},
		Session: SessionConfig{
			Secret:        getEnv("SESSION_SECRET", "change-this-session-secret-in-production"),
			CookieName:    getEnv("SESSION_COOKIE_NAME", "session_token"),
			TTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
			SecureCookie:  getEnvAsBool("SESSION_SECURE_COOKIE", false),
		},
		Catalog: CatalogConfig{
			Source:        getEnv("CATALOG_SOURCE", CatalogSourceEmbedded),
			FeaturedCount: getEnvAsInt("CATALOG_FEATURED_COUNT", 3),
		},
		Checkout: CheckoutConfig{
			FreeShippingThreshold: getEnvAsDecimal("CHECKOUT_FREE_SHIPPING_THRESHOLD", decimal.NewFromInt(100)),
			FlatShippingFee:       getEnvAsDecimal("CHECKOUT_FLAT_SHIPPING_FEE", decimal.RequireFromString("9.99")),
			TaxRate:               getEnvAsDecimal("CHECKOUT_TAX_RATE", decimal.RequireFromString("0.08")),
			DefaultCountry:        getEnv("CHECKOUT_DEFAULT_COUNTRY", "US"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "storefront_db"),
			User:         getEnv("DB_USER", "storefront_user"),
			Password:     getEnv("DB_PASSWORD", "storefront_password"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 300),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 50),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		PDF: PDFConfig{
			Enabled: getEnvAsBool("PDF_ENABLED", true),
			Dpi:     uint(getEnvAsInt("PDF_DPI", 300)),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	switch c.Catalog.Source {
	case CatalogSourceEmbedded:
	case CatalogSourcePostgres:
		if strings.TrimSpace(c.Database.Host) == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if strings.TrimSpace(c.Database.Name) == "" {
			return fmt.Errorf("DB_NAME is required")
		}
		if strings.TrimSpace(c.Database.User) == "" {
			return fmt.Errorf("DB_USER is required")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be %q or %q, got %q",
			CatalogSourceEmbedded, CatalogSourcePostgres, c.Catalog.Source)
	}

	if c.Checkout.TaxRate.IsNegative() {
		return fmt.Errorf("CHECKOUT_TAX_RATE cannot be negative")
	}
	if c.Checkout.FlatShippingFee.IsNegative() {
		return fmt.Errorf("CHECKOUT_FLAT_SHIPPING_FEE cannot be negative")
	}

	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Host) == "" {
		return fmt.Errorf("REDIS_HOST is required when REDIS_ENABLED is set")
	}

	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
