// internal/interfaces/http/routes/routes.go
package routes

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/contact"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

// Dependencies are the services the API routes are built on
type Dependencies struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Catalog  *catalog.Catalog
	Sessions *cart.Sessions
	Tokens   *auth.SessionTokenManager
	Cart     *cart.Service
	Checkout *checkout.Service
	Orders   *order.Book
	Contact  *contact.Service
	PDF      *pdf.Service
}

func (d Dependencies) validate() error {
	switch {
	case d.Config == nil:
		return errors.New("routes: config is required")
	case d.Logger == nil:
		return errors.New("routes: logger is required")
	case d.Catalog == nil:
		return errors.New("routes: catalog is required")
	case d.Sessions == nil:
		return errors.New("routes: cart sessions are required")
	case d.Tokens == nil:
		return errors.New("routes: session token manager is required")
	case d.Cart == nil, d.Checkout == nil, d.Orders == nil, d.Contact == nil, d.PDF == nil:
		return errors.New("routes: domain services are required")
	}
	return nil
}

// SetupRoutes registers every API route on rg
func SetupRoutes(rg *gin.RouterGroup, deps Dependencies) error {
	if err := deps.validate(); err != nil {
		return err
	}

	SetupProductRoutes(rg, deps)
	SetupContactRoutes(rg, deps)

	// Everything below belongs to a browsing session
	sessioned := rg.Group("")
	sessioned.Use(middleware.Session(deps.Config, deps.Tokens, deps.Sessions, deps.Logger))
	SetupCartRoutes(sessioned, deps)
	SetupCheckoutRoutes(sessioned, deps)
	SetupOrderRoutes(sessioned, deps)

	return nil
}

// SetupProductRoutes sets up product related routes
func SetupProductRoutes(rg *gin.RouterGroup, deps Dependencies) {
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog, deps.Config)

	products := rg.Group("/products")
	{
		products.GET("", catalogHandler.GetProducts)
		products.GET("/featured", catalogHandler.GetFeatured)
		products.GET("/search", catalogHandler.SearchProducts)
		products.GET("/categories", catalogHandler.GetCategories)
		products.GET("/:id", catalogHandler.GetProduct)
	}
}

// SetupCartRoutes sets up cart related routes
func SetupCartRoutes(rg *gin.RouterGroup, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Cart, deps.Checkout.Pricing())

	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.GET("/events", cartHandler.Events)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items/:id", cartHandler.UpdateCartItem)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveFromCart)
	}
}

// SetupCheckoutRoutes sets up checkout flow routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps Dependencies) {
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout)

	checkoutGroup := rg.Group("/checkout")
	{
		checkoutGroup.GET("", checkoutHandler.GetCheckout)
		checkoutGroup.POST("/information", checkoutHandler.SubmitInformation)
		checkoutGroup.POST("/shipping", checkoutHandler.SubmitShipping)
		checkoutGroup.POST("/back", checkoutHandler.Back)
		checkoutGroup.POST("/place-order", checkoutHandler.PlaceOrder)
	}
}

// SetupOrderRoutes sets up order related routes
func SetupOrderRoutes(rg *gin.RouterGroup, deps Dependencies) {
	orderHandler := handlers.NewOrderHandler(deps.Orders, deps.PDF, deps.Logger)

	orders := rg.Group("/orders")
	{
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/receipt", orderHandler.GetReceipt)
	}
}

// SetupContactRoutes sets up the contact form and newsletter routes
func SetupContactRoutes(rg *gin.RouterGroup, deps Dependencies) {
	contactHandler := handlers.NewContactHandler(deps.Contact)

	rg.POST("/contact", contactHandler.SubmitMessage)
	rg.POST("/newsletter", contactHandler.Subscribe)
}
