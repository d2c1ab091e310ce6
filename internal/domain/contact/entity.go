// internal/domain/contact/entity.go
package contact

import (
	"time"

	"github.com/google/uuid"
)

// Subject categorises a contact message
type Subject string

const (
	SubjectGeneral     Subject = "general"
	SubjectOrder       Subject = "order"
	SubjectProduct     Subject = "product"
	SubjectSupport     Subject = "support"
	SubjectPartnership Subject = "partnership"
)

// MessageRequest is the contact form
type MessageRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"required,oneof=general order product support partnership"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

// Message is a received contact form
type Message struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    Subject   `json:"subject"`
	Body       string    `json:"message"`
	ReceivedAt time.Time `json:"received_at"`
}

// SubscribeRequest is the newsletter form
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}
