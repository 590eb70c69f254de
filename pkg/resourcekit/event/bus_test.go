package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case evt, ok := <-sub.C():
		require.True(t, ok, "subscription channel closed")
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublishAndSubscribe(t *testing.T) {
	bus := NewBus(BusConfig{})
	defer bus.Close()

	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	bus.Publish(New(TypeOpened, "memory://a", "memory"))

	evt := recv(t, sub)
	assert.Equal(t, TypeOpened, evt.Type)
	assert.Equal(t, "memory://a", evt.Key)
	assert.Equal(t, "memory", evt.Scheme)
	assert.NotEmpty(t, evt.ID)
	assert.False(t, evt.Timestamp.IsZero())
}

func TestSubscribeFiltersTypes(t *testing.T) {
	bus := NewBus(BusConfig{})
	defer bus.Close()

	sub := bus.Subscribe(TypeFailed)
	defer sub.Unsubscribe()

	bus.Publish(New(TypeOpened, "memory://a", "memory"))
	bus.Publish(NewFailed("memory://b", "memory", assert.AnError))

	evt := recv(t, sub)
	assert.Equal(t, TypeFailed, evt.Type)
	assert.Equal(t, assert.AnError.Error(), evt.Error)

	select {
	case extra := <-sub.C():
		t.Fatalf("unexpected event: %+v", extra)
	default:
	}
}

func TestFanOut(t *testing.T) {
	bus := NewBus(BusConfig{})
	defer bus.Close()

	first := bus.Subscribe()
	second := bus.Subscribe()

	bus.Publish(New(TypeClosed, "memory://a", "memory"))

	assert.Equal(t, TypeClosed, recv(t, first).Type)
	assert.Equal(t, TypeClosed, recv(t, second).Type)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(BusConfig{})
	defer bus.Close()

	sub := bus.Subscribe()
	sub.Unsubscribe()

	// Channel is closed; publishing must not panic.
	bus.Publish(New(TypeOpened, "memory://a", "memory"))

	_, ok := <-sub.C()
	assert.False(t, ok)

	// Safe to call again.
	sub.Unsubscribe()
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	var dropped []string
	var mu sync.Mutex
	bus := NewBus(BusConfig{
		BufferSize: 1,
		OnDrop: func(evt Event, subscriberID string) {
			mu.Lock()
			dropped = append(dropped, evt.Key)
			mu.Unlock()
		},
	})
	defer bus.Close()

	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	bus.Publish(New(TypeOpened, "memory://first", "memory"))
	bus.Publish(New(TypeOpened, "memory://second", "memory"))

	mu.Lock()
	assert.Equal(t, []string{"memory://second"}, dropped)
	mu.Unlock()

	assert.Equal(t, "memory://first", recv(t, sub).Key)
}

func TestCloseShutsDownSubscriptions(t *testing.T) {
	bus := NewBus(BusConfig{})
	sub := bus.Subscribe()

	bus.Close()

	_, ok := <-sub.C()
	assert.False(t, ok)

	// Closed bus rejects new subscriptions and swallows publishes.
	assert.Nil(t, bus.Subscribe())
	bus.Publish(New(TypeOpened, "memory://a", "memory"))

	// Idempotent.
	bus.Close()
}

func TestSubscribeRacingCloseNeverLeaksOpenChannel(t *testing.T) {
	// A subscription racing Close must either be rejected or have its
	// channel closed by Close; a subscription that is alive but never
	// delivered to would hang its consumer.
	for range 50 {
		bus := NewBus(BusConfig{})

		var sub *Subscription
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub = bus.Subscribe()
		}()
		go func() {
			defer wg.Done()
			bus.Close()
		}()
		wg.Wait()

		if sub == nil {
			continue
		}
		select {
		case _, ok := <-sub.C():
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("subscription channel left open after Close")
		}
	}
}

func TestConcurrentPublish(t *testing.T) {
	bus := NewBus(BusConfig{BufferSize: 1024})
	defer bus.Close()

	sub := bus.Subscribe()
	defer sub.Unsubscribe()

	var wg sync.WaitGroup
	n := 100
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(New(TypeOpened, "memory://x", "memory"))
		}()
	}
	wg.Wait()

	for range n {
		recv(t, sub)
	}
}
