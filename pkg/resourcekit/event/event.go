// Package event provides lifecycle notifications for resource
// providers: an immutable Event record and an in-memory pub/sub Bus
// with per-subscriber buffering.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle event types published by the provider.
const (
	// TypeOpened is published after a resource finishes construction.
	TypeOpened = "resource.opened"

	// TypeClosed is published after a resource is removed and closed.
	TypeClosed = "resource.closed"

	// TypeFailed is published when a construction attempt fails.
	TypeFailed = "resource.failed"
)

// Event describes one resource lifecycle transition. Events are
// immutable once created.
type Event struct {
	// ID is a unique event identifier.
	ID string `json:"id"`

	// Type is one of the Type* constants.
	Type string `json:"type"`

	// Key is the normalized URI of the affected resource.
	Key string `json:"key"`

	// Scheme is the driver scheme of the affected resource.
	Scheme string `json:"scheme"`

	// Timestamp is when the transition occurred.
	Timestamp time.Time `json:"timestamp"`

	// Error carries the failure message for TypeFailed events.
	Error string `json:"error,omitempty"`
}

// New creates an event with a fresh ID and the current time.
func New(eventType, key, scheme string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Key:       key,
		Scheme:    scheme,
		Timestamp: time.Now().UTC(),
	}
}

// NewFailed creates a TypeFailed event carrying the construction error.
func NewFailed(key, scheme string, err error) Event {
	evt := New(TypeFailed, key, scheme)
	if err != nil {
		evt.Error = err.Error()
	}
	return evt
}
