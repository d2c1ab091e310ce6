// internal/interfaces/http/handlers/contact.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/contact"
)

// ContactHandler handles the contact form and newsletter sign-up
type ContactHandler struct {
	contactService *contact.Service
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *contact.Service) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// SubmitMessage handles POST /contact
func (h *ContactHandler) SubmitMessage(c *gin.Context) {
	var req contact.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	msg, err := h.contactService.SubmitMessage(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Thank you for your message. We'll get back to you soon.",
		"data": gin.H{
			"id": msg.ID,
		},
	})
}

// Subscribe handles POST /newsletter
func (h *ContactHandler) Subscribe(c *gin.Context) {
	var req contact.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err)
		return
	}

	added, err := h.contactService.Subscribe(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	msg := "Subscribed to the newsletter"
	if !added {
		msg = "Already subscribed to the newsletter"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": msg,
		"data": gin.H{
			"subscribed": true,
		},
	})
}
