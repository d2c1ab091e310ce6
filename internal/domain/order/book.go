// internal/domain/order/book.go
package order

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

// Book keeps placed orders in memory, scoped to the session that placed them
type Book struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*Order
}

// NewBook creates an empty order book
func NewBook() *Book {
	return &Book{orders: make(map[uuid.UUID]*Order)}
}

// Save stores a copy of o
func (b *Book) Save(o *Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := *o
	stored.Items = append([]OrderItem(nil), o.Items...)
	b.orders[o.ID] = &stored
}

// Get returns the order if sessionID placed it
func (b *Book) Get(sessionID string, id uuid.UUID) (*Order, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	o, ok := b.orders[id]
	if !ok || o.SessionID != sessionID {
		return nil, ErrOrderNotFound
	}
	out := *o
	out.Items = append([]OrderItem(nil), o.Items...)
	return &out, nil
}

// ListBySession returns the session's orders, newest first
func (b *Book) ListBySession(sessionID string) []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := []Order{}
	for _, o := range b.orders {
		if o.SessionID == sessionID {
			c := *o
			c.Items = append([]OrderItem(nil), o.Items...)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ForgetSession drops every order placed by sessionID
func (b *Book) ForgetSession(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for id, o := range b.orders {
		if o.SessionID == sessionID {
			delete(b.orders, id)
			n++
		}
	}
	return n
}
