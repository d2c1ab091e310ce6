// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// Order is the snapshot taken when a session places its cart
type Order struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	SessionID   string          `json:"-"`
	Email       string          `json:"email"`
	Status      OrderStatus     `json:"status"`
	Items       []OrderItem     `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Shipping    decimal.Decimal `json:"shipping"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	ShipTo      Address         `json:"ship_to"`
	CardLast4   string          `json:"card_last4"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderItem is one cart line frozen at order time
type OrderItem struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Color     string          `json:"color"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Address represents the shipping destination
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

// FullName joins first and last name
func (a Address) FullName() string {
	return a.FirstName + " " + a.LastName
}

// GenerateOrderNumber formats an order number from the creation date and id
func GenerateOrderNumber(createdAt time.Time, id uuid.UUID) string {
	// Format: ORD-YYYYMMDD-XXXXXXXX
	return fmt.Sprintf("ORD-%s-%s", createdAt.Format("20060102"), id.String()[:8])
}

// ItemCount returns the sum of item quantities
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// IsCompleted checks if order is delivered
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusDelivered
}
