package resourcekit

import (
	"net/url"
	"time"
)

// Connection pairs an opened resource with its identity: the normalized
// URI it is registered under, the driver scheme that opened it, a
// unique handle ID, and the open timestamp. Connections are created by
// the provider and shared by every caller that opens the same URI.
type Connection struct {
	id       string
	uri      *url.URL
	scheme   string
	resource Resource
	openedAt time.Time
}

// ID returns the unique handle identifier assigned at open time.
func (c *Connection) ID() string { return c.id }

// URI returns the normalized URI the connection is registered under.
func (c *Connection) URI() *url.URL { return c.uri }

// Key returns the string form of the normalized URI, the registry key.
func (c *Connection) Key() string { return c.uri.String() }

// Scheme returns the driver scheme that opened the resource.
func (c *Connection) Scheme() string { return c.scheme }

// Resource returns the underlying driver resource.
func (c *Connection) Resource() Resource { return c.resource }

// OpenedAt returns when the resource finished construction.
func (c *Connection) OpenedAt() time.Time { return c.openedAt }

// Close closes the underlying resource. The provider calls this on
// removal; callers that hold a Connection after removal should not
// close it again.
func (c *Connection) Close() error { return c.resource.Close() }
