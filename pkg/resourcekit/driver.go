package resourcekit

import (
	"context"
	"net/url"
)

// Resource is a handle managed by the provider. Implementations must
// tolerate Close being called exactly once.
type Resource interface {
	Close() error
}

// Driver opens a resource for a parsed, normalized URI. Open is invoked
// with no provider locks held; it may block and perform I/O, and must
// be safe to call concurrently for different URIs. The options map
// carries driver-specific settings and may be nil.
type Driver interface {
	Open(ctx context.Context, uri *url.URL, options map[string]any) (Resource, error)
}

// DriverFunc adapts a function to the Driver interface.
type DriverFunc func(ctx context.Context, uri *url.URL, options map[string]any) (Resource, error)

// Open implements Driver.
func (f DriverFunc) Open(ctx context.Context, uri *url.URL, options map[string]any) (Resource, error) {
	return f(ctx, uri, options)
}
