package resourcekit

import "errors"

// Sentinel errors for provider operations.
var (
	// ErrUnknownScheme indicates no driver is registered for the URI's
	// scheme.
	ErrUnknownScheme = errors.New("no driver for scheme")

	// ErrDriverRegistered indicates a driver registration for a scheme
	// that already has one.
	ErrDriverRegistered = errors.New("driver already registered")

	// ErrInvalidURI indicates a URI that could not be parsed or lacks a
	// scheme.
	ErrInvalidURI = errors.New("invalid resource uri")

	// ErrProviderClosed indicates an operation on a provider after
	// CloseAll.
	ErrProviderClosed = errors.New("provider closed")
)
