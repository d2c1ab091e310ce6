// internal/domain/cart/entity.go
package cart

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// LineItem is one product variant and its quantity
type LineItem struct {
	Product       catalog.Product `json:"product"`
	SelectedColor string          `json:"selected_color"`
	Quantity      int             `json:"quantity"`
}

// Subtotal returns price × quantity for the line
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func (li LineItem) is(productID int, color string) bool {
	return li.Product.ID == productID && li.SelectedColor == color
}

// selectedBy matches every variant of productID when color is empty
func (li LineItem) selectedBy(productID int, color string) bool {
	if li.Product.ID != productID {
		return false
	}
	return color == "" || li.SelectedColor == color
}

// State is the cart contents in insertion order. Total is always the fold
// of Items and is never adjusted on its own.
type State struct {
	Items []LineItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Empty returns the state a session starts with
func Empty() State {
	return State{Items: []LineItem{}, Total: decimal.Zero}
}

// IsEmpty reports whether the cart holds no lines
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// ItemCount returns the number of distinct lines
func (s State) ItemCount() int {
	return len(s.Items)
}

// TotalQuantity returns the sum of all quantities
func (s State) TotalQuantity() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

// Find returns the line for a product variant
func (s State) Find(productID int, color string) (LineItem, bool) {
	for _, item := range s.Items {
		if item.is(productID, color) {
			return item, true
		}
	}
	return LineItem{}, false
}

// Clone returns a state that shares no slice with s
func (s State) Clone() State {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return State{Items: items, Total: s.Total}
}

// ComputeTotal folds price × quantity over items
func ComputeTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Action is a cart transition request. The set of actions is closed.
type Action interface {
	Name() string
	isAction()
}

// AddToCart adds one unit of a product variant
type AddToCart struct {
	Product       catalog.Product
	SelectedColor string
}

// RemoveFromCart drops lines of a product. An empty SelectedColor removes
// every variant.
type RemoveFromCart struct {
	ProductID     int
	SelectedColor string
}

// UpdateQuantity sets the quantity on matching lines. A quantity of zero or
// less removes them. An empty SelectedColor matches every variant.
type UpdateQuantity struct {
	ProductID     int
	SelectedColor string
	Quantity      int
}

// ClearCart empties the cart
type ClearCart struct{}

func (AddToCart) Name() string      { return "add_to_cart" }
func (RemoveFromCart) Name() string { return "remove_from_cart" }
func (UpdateQuantity) Name() string { return "update_quantity" }
func (ClearCart) Name() string      { return "clear_cart" }

func (AddToCart) isAction()      {}
func (RemoveFromCart) isAction() {}
func (UpdateQuantity) isAction() {}
func (ClearCart) isAction()      {}
