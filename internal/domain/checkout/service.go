// internal/domain/checkout/service.go
package checkout

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/validation"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrWrongStep       = errors.New("checkout is not at this step")
	ErrAlreadyComplete = errors.New("order already placed")
)

// Step is a position in the checkout flow
type Step int

const (
	StepInformation Step = iota + 1
	StepShipping
	StepPayment
	StepComplete
)

// StepInfo describes one step for the progress indicator
type StepInfo struct {
	ID        Step   `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

// ContactInfo is collected on the Information step
type ContactInfo struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

// ShippingAddress is collected on the Shipping step
type ShippingAddress struct {
	Address string `json:"address" validate:"required,max=255"`
	City    string `json:"city" validate:"required,max=100"`
	ZipCode string `json:"zip_code" validate:"required,max=20"`
	Country string `json:"country" validate:"omitempty,len=2"`
}

// PaymentDetails is collected on the Payment step. Nothing but the last four
// card digits outlives the request.
type PaymentDetails struct {
	CardNumber string `json:"card_number" validate:"required,card_number"`
	ExpiryDate string `json:"expiry_date" validate:"required,card_expiry"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	NameOnCard string `json:"name_on_card" validate:"required,max=100"`
}

// Summary is the checkout page model
type Summary struct {
	Step     Step             `json:"step"`
	Steps    []StepInfo       `json:"steps"`
	Items    []cart.LineItem  `json:"items"`
	Quote    Quote            `json:"quote"`
	Contact  *ContactInfo     `json:"contact,omitempty"`
	ShipTo   *ShippingAddress `json:"ship_to,omitempty"`
	Complete bool             `json:"complete"`
	Order    *order.Order     `json:"order,omitempty"`
}

type flow struct {
	step    Step
	contact *ContactInfo
	address *ShippingAddress
	order   *order.Order
}

// Service runs one checkout flow per session
type Service struct {
	pricing        Pricing
	orders         *order.Book
	validator      *validation.Validator
	logger         *logrus.Logger
	defaultCountry string
	now            func() time.Time

	mu    sync.Mutex
	flows map[string]*flow
}

// NewService creates a new checkout service
func NewService(cfg config.CheckoutConfig, orders *order.Book, logger *logrus.Logger) *Service {
	return &Service{
		pricing:        NewPricing(cfg),
		orders:         orders,
		validator:      validation.New(),
		logger:         logger,
		defaultCountry: cfg.DefaultCountry,
		now:            time.Now,
		flows:          make(map[string]*flow),
	}
}

// Pricing returns the pricing rules in use
func (s *Service) Pricing() Pricing {
	return s.pricing
}

// flowFor returns the session's flow. A completed flow is replaced once the
// cart has been filled again. Callers hold s.mu.
func (s *Service) flowFor(sessionID string, state cart.State) *flow {
	f, ok := s.flows[sessionID]
	if !ok || (f.step == StepComplete && !state.IsEmpty()) {
		f = &flow{step: StepInformation}
		s.flows[sessionID] = f
	}
	return f
}

// Summary returns the flow position and the quote for the current cart
func (s *Service) Summary(sessionID string, store *cart.Store) Summary {
	state := store.State()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.summarize(s.flowFor(sessionID, state), state)
}

func (s *Service) summarize(f *flow, state cart.State) Summary {
	sum := Summary{
		Step: f.step,
		Steps: []StepInfo{
			{ID: StepInformation, Title: "Information", Completed: f.step > StepInformation},
			{ID: StepShipping, Title: "Shipping", Completed: f.step > StepShipping},
			{ID: StepPayment, Title: "Payment", Completed: f.step == StepComplete},
		},
		Items:    state.Items,
		Quote:    s.pricing.Quote(state.Total),
		Contact:  f.contact,
		ShipTo:   f.address,
		Complete: f.step == StepComplete,
		Order:    f.order,
	}
	for i := range sum.Steps {
		sum.Steps[i].Current = sum.Steps[i].ID == f.step
	}
	return sum
}

// SubmitInformation records contact details and moves to Shipping
func (s *Service) SubmitInformation(sessionID string, store *cart.Store, info ContactInfo) (Summary, error) {
	info.Email = strings.TrimSpace(info.Email)
	if err := s.validator.Struct(info); err != nil {
		return Summary{}, err
	}

	state := store.State()

	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.flowFor(sessionID, state)
	if err := s.expect(f, state, StepInformation); err != nil {
		return Summary{}, err
	}

	f.contact = &info
	f.step = StepShipping
	return s.summarize(f, state), nil
}

// SubmitShipping records the address and moves to Payment
func (s *Service) SubmitShipping(sessionID string, store *cart.Store, addr ShippingAddress) (Summary, error) {
	if addr.Country == "" {
		addr.Country = s.defaultCountry
	}
	addr.Country = strings.ToUpper(addr.Country)
	if err := s.validator.Struct(addr); err != nil {
		return Summary{}, err
	}

	state := store.State()

	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.flowFor(sessionID, state)
	if err := s.expect(f, state, StepShipping); err != nil {
		return Summary{}, err
	}

	f.address = &addr
	f.step = StepPayment
	return s.summarize(f, state), nil
}

// Back moves one step back. It never goes below Information.
func (s *Service) Back(sessionID string, store *cart.Store) (Summary, error) {
	state := store.State()

	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.flowFor(sessionID, state)
	if f.step == StepComplete {
		return Summary{}, ErrAlreadyComplete
	}
	if f.step > StepInformation {
		f.step--
	}
	return s.summarize(f, state), nil
}

// PlaceOrder simulates order placement: it snapshots the cart into an
// order, clears the cart and completes the flow. No payment is taken.
func (s *Service) PlaceOrder(sessionID string, store *cart.Store, payment PaymentDetails) (*order.Order, error) {
	if err := s.validator.Struct(payment); err != nil {
		return nil, err
	}

	state := store.State()

	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.flowFor(sessionID, state)
	if err := s.expect(f, state, StepPayment); err != nil {
		return nil, err
	}

	o := s.buildOrder(sessionID, f, state, payment)

	if _, err := store.Dispatch(cart.ClearCart{}); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	s.orders.Save(o)

	f.order = o
	f.step = StepComplete

	s.logger.WithFields(logrus.Fields{
		"session_id":   sessionID,
		"order_number": o.OrderNumber,
		"items":        o.ItemCount(),
		"total":        o.Total.StringFixed(2),
	}).Info("Order placed")

	return o, nil
}

// Forget drops the flows of ended sessions
func (s *Service) Forget(sessionIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range sessionIDs {
		delete(s.flows, id)
	}
}

func (s *Service) expect(f *flow, state cart.State, step Step) error {
	if f.step == StepComplete {
		return ErrAlreadyComplete
	}
	if state.IsEmpty() {
		return ErrEmptyCart
	}
	if f.step != step {
		return fmt.Errorf("%w: at step %d, not %d", ErrWrongStep, f.step, step)
	}
	return nil
}

func (s *Service) buildOrder(sessionID string, f *flow, state cart.State, payment PaymentDetails) *order.Order {
	quote := s.pricing.Quote(state.Total)
	createdAt := s.now().UTC()
	id := uuid.New()

	items := make([]order.OrderItem, len(state.Items))
	for i, li := range state.Items {
		items[i] = order.OrderItem{
			ProductID: li.Product.ID,
			Name:      li.Product.Name,
			Brand:     li.Product.Brand,
			Color:     li.SelectedColor,
			Quantity:  li.Quantity,
			UnitPrice: li.Product.Price,
			LineTotal: li.Subtotal(),
		}
	}

	digits := validation.DigitsOnly(payment.CardNumber)

	return &order.Order{
		ID:          id,
		OrderNumber: order.GenerateOrderNumber(createdAt, id),
		SessionID:   sessionID,
		Email:       f.contact.Email,
		Status:      order.OrderStatusProcessing,
		Items:       items,
		Subtotal:    quote.Subtotal,
		Shipping:    quote.Shipping,
		Tax:         quote.Tax,
		Total:       quote.Total,
		ShipTo: order.Address{
			FirstName: f.contact.FirstName,
			LastName:  f.contact.LastName,
			Address:   f.address.Address,
			City:      f.address.City,
			ZipCode:   f.address.ZipCode,
			Country:   f.address.Country,
		},
		CardLast4: digits[len(digits)-4:],
		CreatedAt: createdAt,
	}
}
