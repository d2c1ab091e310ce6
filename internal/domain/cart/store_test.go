package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DispatchNotifiesSubscribers(t *testing.T) {
	store := NewStore()
	p := product(1, "20", "Black")

	var got []string
	var last State
	unsubscribe := store.Subscribe(func(action Action, state State) {
		got = append(got, action.Name())
		last = state
	})

	_, err := store.Dispatch(AddToCart{Product: p, SelectedColor: "Black"})
	require.NoError(t, err)
	_, err = store.Dispatch(UpdateQuantity{ProductID: 1, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"add_to_cart", "update_quantity"}, got)
	assert.Equal(t, 3, last.Items[0].Quantity)
	assertTotal(t, "60", store.State())

	unsubscribe()
	unsubscribe()
	_, err = store.Dispatch(ClearCart{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Zero(t, store.SubscriberCount())
}

func TestStore_DispatchBatchNotifiesOnce(t *testing.T) {
	store := NewStore()
	p := product(1, "2", "Black")

	var calls int
	var last State
	store.Subscribe(func(action Action, state State) {
		calls++
		last = state
		assert.Equal(t, "add_to_cart", action.Name())
	})

	actions := make([]Action, 40)
	for i := range actions {
		actions[i] = AddToCart{Product: p, SelectedColor: "Black"}
	}
	state, err := store.DispatchBatch(actions...)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 40, state.Items[0].Quantity)
	assert.Equal(t, 40, last.Items[0].Quantity)
	assertTotal(t, "80", store.State())

	_, err = store.DispatchBatch()
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "an empty batch commits nothing")
}

func TestStore_SubscriberCannotMutateState(t *testing.T) {
	store := NewStore()
	store.Subscribe(func(_ Action, state State) {
		state.Items[0].Quantity = 99
		state.Items = nil
	})

	_, err := store.Dispatch(AddToCart{Product: product(1, "5", "Black"), SelectedColor: "Black"})
	require.NoError(t, err)

	s := store.State()
	require.Len(t, s.Items, 1)
	assert.Equal(t, 1, s.Items[0].Quantity)
}

func TestStore_StateCopyIsIsolated(t *testing.T) {
	store := NewStore()
	_, err := store.Dispatch(AddToCart{Product: product(1, "5", "Black"), SelectedColor: "Black"})
	require.NoError(t, err)

	s := store.State()
	s.Items[0].Quantity = 42

	assert.Equal(t, 1, store.State().Items[0].Quantity)
}

func TestStore_ConcurrentDispatchesAreSerialized(t *testing.T) {
	store := NewStore()
	p := product(1, "2.50", "Black")

	var mu sync.Mutex
	var quantities []int
	store.Subscribe(func(_ Action, state State) {
		mu.Lock()
		defer mu.Unlock()
		quantities = append(quantities, state.TotalQuantity())
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Dispatch(AddToCart{Product: p, SelectedColor: "Black"})
		}()
	}
	wg.Wait()

	s := store.State()
	require.Len(t, s.Items, 1)
	assert.Equal(t, 50, s.Items[0].Quantity)
	assertTotal(t, "125", s)

	require.Len(t, quantities, 50)
	for i, q := range quantities {
		assert.Equal(t, i+1, q, "notifications arrive in commit order")
	}
}

func TestStore_Close(t *testing.T) {
	store := NewStore()
	store.Subscribe(func(Action, State) {})

	select {
	case <-store.Done():
		t.Fatal("done before close")
	default:
	}

	store.Close()
	store.Close()

	assert.True(t, store.Closed())
	assert.Zero(t, store.SubscriberCount())
	<-store.Done()
	_, err := store.Dispatch(ClearCart{})
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestStore_WithInitialStateRecomputesTotal(t *testing.T) {
	p := product(1, "3", "Black")
	store := NewStore(WithInitialState(State{
		Items: []LineItem{{Product: p, SelectedColor: "Black", Quantity: 4}},
	}))

	assertTotal(t, "12", store.State())
}

func TestSessions_Lifecycle(t *testing.T) {
	sessions := NewSessions(time.Hour)

	var opened []string
	sessions.OnOpen(func(id string, _ *Store) { opened = append(opened, id) })

	first, err := sessions.Open("abc")
	require.NoError(t, err)
	again, err := sessions.Open("abc")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, []string{"abc"}, opened)

	_, err = sessions.Open("")
	assert.ErrorIs(t, err, ErrSessionRequired)

	found, ok := sessions.Lookup("abc")
	assert.True(t, ok)
	assert.Same(t, first, found)

	assert.True(t, sessions.End("abc"))
	assert.False(t, sessions.End("abc"))
	assert.True(t, first.Closed())
	assert.Zero(t, sessions.Len())
}

func TestSessions_SweepEndsIdleSessions(t *testing.T) {
	sessions := NewSessions(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	stale, err := sessions.Open("stale")
	require.NoError(t, err)

	now = now.Add(50 * time.Second)
	_, err = sessions.Open("fresh")
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	expired := sessions.Sweep()

	assert.Equal(t, []string{"stale"}, expired)
	assert.True(t, stale.Closed())
	_, ok := sessions.Lookup("fresh")
	assert.True(t, ok)
}

func TestSessions_RunShutsDownOnCancel(t *testing.T) {
	sessions := NewSessions(time.Hour)
	store, err := sessions.Open("abc")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sessions.Run(ctx, time.Millisecond, nil)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.True(t, store.Closed())
	assert.Zero(t, sessions.Len())
}

func TestStoreFromContext(t *testing.T) {
	_, err := StoreFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoStore)

	store := NewStore()
	got, err := StoreFromContext(WithStore(context.Background(), store))
	require.NoError(t, err)
	assert.Same(t, store, got)
}
