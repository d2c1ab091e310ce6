// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

const (
	// eventBuffer bounds how far an SSE client may fall behind
	eventBuffer       = 32
	heartbeatInterval = 15 * time.Second
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	pricing     checkout.Pricing
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, pricing checkout.Pricing) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		pricing:     pricing,
	}
}

// CartResponse is the cart page model
type CartResponse struct {
	cart.State
	ItemCount     int            `json:"item_count"`
	TotalQuantity int            `json:"total_quantity"`
	Quote         checkout.Quote `json:"quote"`
}

func (h *CartHandler) response(state cart.State) CartResponse {
	return CartResponse{
		State:         state,
		ItemCount:     state.ItemCount(),
		TotalQuantity: state.TotalQuantity(),
		Quote:         h.pricing.Quote(state.Total),
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store, err := middleware.GetCartStore(c)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    h.response(store.State()),
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	store, err := middleware.GetCartStore(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	state, err := h.cartService.AddItem(store, req.ProductID, req.Color, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    h.response(state),
	})
}

// UpdateCartItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	store, err := middleware.GetCartStore(c)
	if err != nil {
		respondError(c, err)
		return
	}

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid product ID", nil)
		return
	}

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	state, err := h.cartService.UpdateItem(store, productID, c.Query("color"), *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    h.response(state),
	})
}

// RemoveFromCart handles DELETE /cart/items/:id
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	store, err := middleware.GetCartStore(c)
	if err != nil {
		respondError(c, err)
		return
	}

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid product ID", nil)
		return
	}

	state, err := h.cartService.RemoveItem(store, productID, c.Query("color"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    h.response(state),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, err := middleware.GetCartStore(c)
	if err != nil {
		respondError(c, err)
		return
	}

	state, err := h.cartService.Clear(store)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    h.response(state),
	})
}

// CartEvent is one committed transition as sent to SSE clients
type CartEvent struct {
	Action string       `json:"action"`
	Cart   CartResponse `json:"cart"`
}

// Events handles GET /cart/events. It streams the current cart, then every
// committed transition, until the client leaves or the session ends.
func (h *CartHandler) Events(c *gin.Context) {
	store, err := middleware.GetCartStore(c)
	if err != nil {
		respondError(c, err)
		return
	}

	events := make(chan CartEvent, eventBuffer)
	dropped := make(chan struct{})
	closeDropped := func() {
		select {
		case <-dropped:
		default:
			close(dropped)
		}
	}

	// The subscriber runs under the store's dispatch lock, so it never
	// blocks: a client that falls a full buffer behind is disconnected.
	unsubscribe := store.Subscribe(func(action cart.Action, state cart.State) {
		select {
		case events <- CartEvent{Action: action.Name(), Cart: h.response(state)}:
		default:
			closeDropped()
		}
	})
	defer unsubscribe()

	// The stream outlives the server's WriteTimeout
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		_ = c.Error(err)
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("snapshot", h.response(store.State()))
	c.Writer.Flush()

	keepAlive := time.NewTicker(heartbeatInterval)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-dropped:
			return false
		case <-store.Done():
			return false
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case ev := <-events:
			c.SSEvent("transition", ev)
			return true
		}
	})
}
