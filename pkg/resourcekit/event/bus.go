package event

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the per-subscription channel buffer when none is
// configured.
const DefaultBufferSize = 64

// Bus is an in-memory pub/sub fan-out for lifecycle events. Publish is
// non-blocking: events are dropped for subscribers whose buffer is
// full. The zero value is not usable; create one with NewBus.
type Bus struct {
	bufferSize int
	onDrop     func(evt Event, subscriberID string)

	mu     sync.RWMutex
	subs   map[string]*Subscription
	nextID atomic.Int64
	closed atomic.Bool
}

// BusConfig configures bus behavior.
type BusConfig struct {
	// BufferSize is the channel buffer size per subscription.
	// Default: DefaultBufferSize.
	BufferSize int

	// OnDrop is called when a subscriber's buffer is full and an event
	// is dropped for it.
	OnDrop func(evt Event, subscriberID string)
}

// NewBus creates a bus with the given configuration.
func NewBus(cfg BusConfig) *Bus {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	return &Bus{
		bufferSize: cfg.BufferSize,
		onDrop:     cfg.OnDrop,
		subs:       make(map[string]*Subscription),
	}
}

// Subscription is an active interest in a set of event types.
type Subscription struct {
	id    string
	types map[string]struct{} // empty means all types
	ch    chan Event
	bus   *Bus
	once  sync.Once
}

// C returns the channel events are delivered on. The channel is closed
// when the subscription is removed or the bus shuts down.
func (s *Subscription) C() <-chan Event { return s.ch }

// Unsubscribe removes the subscription and closes its channel.
// It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	delete(s.bus.subs, s.id)
	s.bus.mu.Unlock()
	s.once.Do(func() { close(s.ch) })
}

// Subscribe registers interest in the given event types. With no types,
// the subscription receives every event. Returns nil if the bus is
// closed.
func (b *Bus) Subscribe(types ...string) *Subscription {
	sub := &Subscription{
		id:    "sub-" + strconv.FormatInt(b.nextID.Add(1), 10),
		types: make(map[string]struct{}, len(types)),
		ch:    make(chan Event, b.bufferSize),
		bus:   b,
	}
	for _, t := range types {
		sub.types[t] = struct{}{}
	}

	// The closed check happens under mu so a subscription cannot slip
	// in between Close's flag set and its sweep of the map.
	b.mu.Lock()
	if b.closed.Load() {
		b.mu.Unlock()
		return nil
	}
	b.subs[sub.id] = sub
	b.mu.Unlock()
	return sub
}

// Publish delivers evt to every matching subscriber without blocking.
// Events are dropped for subscribers with full buffers.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed.Load() {
		return
	}
	for _, sub := range b.subs {
		if len(sub.types) > 0 {
			if _, ok := sub.types[evt.Type]; !ok {
				continue
			}
		}
		select {
		case sub.ch <- evt:
		default:
			if b.onDrop != nil {
				b.onDrop(evt, sub.id)
			}
		}
	}
}

// Close shuts down the bus and closes all subscription channels.
// It is idempotent.
func (b *Bus) Close() {
	if b.closed.Swap(true) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subs {
		delete(b.subs, id)
		sub.once.Do(func() { close(sub.ch) })
	}
}
