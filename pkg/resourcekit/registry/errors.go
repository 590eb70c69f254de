package registry

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by registry operations.
var (
	// ErrAlreadyExists indicates Add was called for a key that is live
	// (ready or still under construction).
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrNotFound indicates a lookup resolved to an absent entry.
	ErrNotFound = errors.New("resource not found")
)

// ConstructionError wraps a factory failure. It is returned only to the
// caller whose Add or AddIfAbsent invoked the factory; concurrent
// waiters observe the entry's disappearance instead and see ErrNotFound
// or retry, depending on the operation.
type ConstructionError struct {
	// Key is the string form of the key whose construction failed.
	Key string
	// Err is the error the factory returned.
	Err error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct resource %s: %v", e.Key, e.Err)
}

// Unwrap returns the factory's error for errors.Is/As support.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}
