// internal/domain/cart/store.go
package cart

import (
	"errors"
	"sync"
	"sync/atomic"
)

var ErrStoreClosed = errors.New("cart store is closed")

// Subscriber is called after every committed transition with the action
// that produced it and a copy of the new state. Subscribers must not call
// Dispatch on the same store from inside the callback.
type Subscriber func(action Action, state State)

// Store owns one session's cart. Dispatches are serialized: each
// transition and its notifications finish before the next one starts.
type Store struct {
	dispatchMu sync.Mutex
	state      atomic.Pointer[State]

	subMu       sync.RWMutex
	subscribers map[uint64]Subscriber
	nextSubID   uint64

	closed atomic.Bool
	done   chan struct{}
}

// Option configures a Store at construction
type Option func(*Store)

// WithInitialState starts the store from state instead of an empty cart.
// The total is recomputed from the items.
func WithInitialState(state State) Option {
	return func(s *Store) {
		next := state.Clone()
		next.Total = ComputeTotal(next.Items)
		s.state.Store(&next)
	}
}

// WithSubscriber registers fn before the store is handed out
func WithSubscriber(fn Subscriber) Option {
	return func(s *Store) {
		s.addSubscriber(fn)
	}
}

// NewStore creates an empty cart store
func NewStore(opts ...Option) *Store {
	s := &Store{
		subscribers: make(map[uint64]Subscriber),
		done:        make(chan struct{}),
	}
	empty := Empty()
	s.state.Store(&empty)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the latest committed state
func (s *Store) State() State {
	return s.state.Load().Clone()
}

// Dispatch applies action and notifies subscribers
func (s *Store) Dispatch(action Action) (State, error) {
	return s.DispatchBatch(action)
}

// DispatchBatch applies actions in order as one committed transition.
// Subscribers are notified once, with the last action and the final state.
func (s *Store) DispatchBatch(actions ...Action) (State, error) {
	if len(actions) == 0 {
		return s.State(), nil
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	if s.closed.Load() {
		return State{}, ErrStoreClosed
	}

	next := *s.state.Load()
	for _, action := range actions {
		next = Transition(next, action)
	}
	s.state.Store(&next)

	s.subMu.RLock()
	subs := make([]Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	last := actions[len(actions)-1]
	for _, fn := range subs {
		fn(last, next.Clone())
	}

	return next.Clone(), nil
}

// Subscribe registers fn and returns a func that removes it
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	id := s.addSubscriber(fn)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) addSubscriber(fn Subscriber) uint64 {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	if !s.closed.Load() {
		s.subscribers[id] = fn
	}
	return id
}

// SubscriberCount returns the number of live subscribers
func (s *Store) SubscriberCount() int {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	return len(s.subscribers)
}

// Close tears the store down. Later dispatches fail with ErrStoreClosed.
func (s *Store) Close() {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	if s.closed.Swap(true) {
		return
	}

	s.subMu.Lock()
	s.subscribers = make(map[uint64]Subscriber)
	s.subMu.Unlock()

	close(s.done)
}

// Done is closed once the store is closed
func (s *Store) Done() <-chan struct{} {
	return s.done
}

// Closed reports whether Close has been called
func (s *Store) Closed() bool {
	return s.closed.Load()
}
