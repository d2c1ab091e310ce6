// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// MaxQuantity caps the units a single request may add or set
const MaxQuantity = 99

var (
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrInvalidColor    = errors.New("color is not offered for this product")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 99")
)

// Service turns presentation requests into cart actions
type Service struct {
	catalog *catalog.Catalog
}

// NewService creates a new cart service
func NewService(c *catalog.Catalog) *Service {
	return &Service{catalog: c}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID int    `json:"product_id" binding:"required"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=99"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=99"`
}

// AddItem adds quantity units of a product variant, one AddToCart action per
// unit, committed as a single batch. An empty color selects the product's
// first declared color.
func (s *Service) AddItem(store *Store, productID int, color string, quantity int) (State, error) {
	if quantity < 1 || quantity > MaxQuantity {
		return State{}, ErrInvalidQuantity
	}

	prod, err := s.catalog.Get(productID)
	if err != nil {
		return State{}, err
	}
	if !prod.InStock {
		return State{}, fmt.Errorf("%w: %s", ErrOutOfStock, prod.Name)
	}

	if color == "" {
		color = prod.DefaultColor()
	}
	if !prod.HasColor(color) {
		return State{}, fmt.Errorf("%w: %q for %s", ErrInvalidColor, color, prod.Name)
	}

	actions := make([]Action, quantity)
	for i := range actions {
		actions[i] = AddToCart{Product: prod, SelectedColor: color}
	}
	return store.DispatchBatch(actions...)
}

// UpdateItem sets the quantity of a product's lines. An empty color
// updates every variant of the product. A quantity of zero or less removes
// the lines.
func (s *Service) UpdateItem(store *Store, productID int, color string, quantity int) (State, error) {
	if quantity > MaxQuantity {
		return State{}, ErrInvalidQuantity
	}
	return store.Dispatch(UpdateQuantity{ProductID: productID, SelectedColor: color, Quantity: quantity})
}

// RemoveItem removes a product's lines. An empty color removes every variant.
func (s *Service) RemoveItem(store *Store, productID int, color string) (State, error) {
	return store.Dispatch(RemoveFromCart{ProductID: productID, SelectedColor: color})
}

// Clear empties the cart
func (s *Service) Clear(store *Store) (State, error) {
	return store.Dispatch(ClearCart{})
}

// TransitionLogger returns a hook that logs every committed transition of
// each new session's store.
func TransitionLogger(logger *logrus.Logger) OpenHook {
	return func(sessionID string, store *Store) {
		store.Subscribe(func(action Action, state State) {
			logger.WithFields(logrus.Fields{
				"session_id":     sessionID,
				"action":         action.Name(),
				"item_count":     state.ItemCount(),
				"total_quantity": state.TotalQuantity(),
				"total":          state.Total.StringFixed(2),
			}).Debug("Cart transition committed")
		})
	}
}
