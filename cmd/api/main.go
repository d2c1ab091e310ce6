// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/contact"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-backend/internal/interfaces/http"
	"github.com/your-org/storefront-backend/internal/interfaces/http/routes"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Logging)
	appLogger.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	products, closeDB := loadCatalog(ctx, cfg, appLogger)
	defer closeDB()
	appLogger.WithField("products", products.Len()).Info("📦 Catalog loaded")

	var redisClient *redis.Client
	var subscribers contact.Subscribers = contact.NewMemorySubscribers()
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewConnection(cfg)
		if err != nil {
			appLogger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		subscribers = contact.NewRedisSubscribers(redisClient)
	}

	orders := order.NewBook()
	checkoutService := checkout.NewService(cfg.Checkout, orders, appLogger)

	sessions := cart.NewSessions(cfg.Session.TTL)
	sessions.OnOpen(cart.TransitionLogger(appLogger))

	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sessions.Run(ctx, cfg.Session.SweepInterval, func(ids []string) {
			checkoutService.Forget(ids...)
			for _, id := range ids {
				orders.ForgetSession(id)
			}
			appLogger.WithField("sessions", len(ids)).Debug("Expired idle sessions")
		})
	}()

	server, err := http.NewServer(routes.Dependencies{
		Config:   cfg,
		Logger:   appLogger,
		Catalog:  products,
		Sessions: sessions,
		Tokens:   auth.NewSessionTokenManager(cfg),
		Cart:     cart.NewService(products),
		Checkout: checkoutService,
		Orders:   orders,
		Contact:  contact.NewService(subscribers, appLogger),
		PDF:      pdf.NewService(cfg),
	}, redisClient)
	if err != nil {
		appLogger.Fatalf("Failed to build HTTP server: %v", err)
	}

	appLogger.Info("✅ All systems operational!")

	go func() {
		if err := server.Start(); err != nil {
			appLogger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("👋 Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Ending the sessions closes every cart store, which ends open event streams.
	stop()
	<-sweepDone

	if err := server.Stop(shutdownCtx); err != nil {
		appLogger.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	appLogger.Info("✅ Server shutdown completed")
}

// loadCatalog builds the catalog from the configured source. The returned
// func releases the database when one was opened.
func loadCatalog(ctx context.Context, cfg *config.Config, appLogger *logrus.Logger) (*catalog.Catalog, func()) {
	if cfg.Catalog.Source != config.CatalogSourcePostgres {
		products, err := catalog.Build(ctx, catalog.EmbeddedLoader{})
		if err != nil {
			appLogger.Fatalf("Failed to load embedded catalog: %v", err)
		}
		return products, func() {}
	}

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		appLogger.Fatalf("Failed to connect to database: %v", err)
	}

	migration := postgres.NewMigration(db.GetDB())
	if err := migration.RunAutoMigrations(); err != nil {
		appLogger.Fatalf("Database migration failed: %v", err)
	}
	if err := migration.CreateIndexes(); err != nil {
		appLogger.Warnf("Index creation failed: %v", err)
	}
	if cfg.IsDevelopment() {
		if _, err := migration.SeedCatalog(ctx); err != nil {
			appLogger.Warnf("Catalog seeding failed: %v", err)
		}
	}

	products, err := catalog.Build(ctx, catalog.NewPostgresLoader(db.GetDB()))
	if err != nil {
		appLogger.Fatalf("Failed to load catalog from database: %v", err)
	}

	return products, func() {
		if err := db.Close(); err != nil {
			appLogger.Warnf("Failed to close database: %v", err)
		}
	}
}
