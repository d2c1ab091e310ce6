// internal/interfaces/http/handlers/order.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orders     *order.Book
	pdfService *pdf.Service
	logger     *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *order.Book, pdfService *pdf.Service, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orders:     orders,
		pdfService: pdfService,
		logger:     logger,
	}
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	sessionID, _ := middleware.GetSessionID(c)
	orders := h.orders.ListBySession(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data": gin.H{
			"orders": orders,
			"count":  len(orders),
		},
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := h.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// GetReceipt handles GET /orders/:id/receipt
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	o, ok := h.lookup(c)
	if !ok {
		return
	}

	buf, err := h.pdfService.GenerateReceipt(o)
	if errors.Is(err, pdf.ErrDisabled) {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "PDF receipts are not enabled",
		})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("order_number", o.OrderNumber).Error("Failed to generate receipt")
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("receipt-%s.pdf", o.OrderNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *OrderHandler) lookup(c *gin.Context) (*order.Order, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid order ID", nil)
		return nil, false
	}

	sessionID, _ := middleware.GetSessionID(c)
	o, err := h.orders.Get(sessionID, id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return o, true
}
