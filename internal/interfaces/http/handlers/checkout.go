// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles the checkout flow endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func session(c *gin.Context) (string, *cart.Store, bool) {
	sessionID, _ := middleware.GetSessionID(c)
	store, err := middleware.GetCartStore(c)
	if err != nil {
		respondError(c, err)
		return "", nil, false
	}
	return sessionID, store, true
}

// GetCheckout handles GET /checkout
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	sessionID, store, ok := session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout retrieved successfully",
		"data":    h.checkoutService.Summary(sessionID, store),
	})
}

// SubmitInformation handles POST /checkout/information
func (h *CheckoutHandler) SubmitInformation(c *gin.Context) {
	sessionID, store, ok := session(c)
	if !ok {
		return
	}

	var req checkout.ContactInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	summary, err := h.checkoutService.SubmitInformation(sessionID, store, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contact information saved",
		"data":    summary,
	})
}

// SubmitShipping handles POST /checkout/shipping
func (h *CheckoutHandler) SubmitShipping(c *gin.Context) {
	sessionID, store, ok := session(c)
	if !ok {
		return
	}

	var req checkout.ShippingAddress
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	summary, err := h.checkoutService.SubmitShipping(sessionID, store, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping address saved",
		"data":    summary,
	})
}

// Back handles POST /checkout/back
func (h *CheckoutHandler) Back(c *gin.Context) {
	sessionID, store, ok := session(c)
	if !ok {
		return
	}

	summary, err := h.checkoutService.Back(sessionID, store)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Moved back one step",
		"data":    summary,
	})
}

// PlaceOrder handles POST /checkout/place-order
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	sessionID, store, ok := session(c)
	if !ok {
		return
	}

	var req checkout.PaymentDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	o, err := h.checkoutService.PlaceOrder(sessionID, store, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    o,
	})
}
