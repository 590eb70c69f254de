package resourcekit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/randalmurphal/resourcekit/pkg/resourcekit/config"
	"github.com/randalmurphal/resourcekit/pkg/resourcekit/event"
	"github.com/randalmurphal/resourcekit/pkg/resourcekit/observability"
	"github.com/randalmurphal/resourcekit/pkg/resourcekit/registry"
)

// openParams carries the parsed URI and driver options through the
// registry factory.
type openParams struct {
	uri     *url.URL
	options map[string]any
}

// Provider manages resources keyed by normalized URI. Resources are
// constructed lazily by scheme-registered drivers, at most once per
// URI, and shared by every caller that opens the same URI. All methods
// are safe for concurrent use.
type Provider struct {
	drmu    sync.RWMutex
	drivers map[string]Driver

	resources *registry.Registry[string, openParams, *Connection]

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	bus     *event.Bus
	retry   RetryConfig

	closed atomic.Bool
}

// New creates a provider with the built-in memory and sqlite drivers
// plus whatever the options add.
func New(opts ...Option) *Provider {
	cfg := defaultProviderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Provider{
		drivers: cfg.drivers,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		spans:   cfg.spans,
		bus:     cfg.bus,
		retry:   cfg.retry,
	}
	p.resources = registry.New(p.construct)
	return p
}

// RegisterDriver adds a driver for a scheme after construction.
// Registering a scheme twice fails with ErrDriverRegistered.
func (p *Provider) RegisterDriver(scheme string, d Driver) error {
	if scheme == "" || d == nil {
		return errors.New("resourcekit: invalid scheme or driver")
	}
	p.drmu.Lock()
	defer p.drmu.Unlock()
	if _, exists := p.drivers[scheme]; exists {
		return fmt.Errorf("scheme %q: %w", scheme, ErrDriverRegistered)
	}
	p.drivers[scheme] = d
	return nil
}

// driver returns the driver registered for scheme.
func (p *Provider) driver(scheme string) (Driver, error) {
	p.drmu.RLock()
	d, ok := p.drivers[scheme]
	p.drmu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("scheme %q: %w", scheme, ErrUnknownScheme)
	}
	return d, nil
}

// Open returns the connection for rawURI, constructing the resource if
// it is not yet registered. Concurrent Opens of the same normalized URI
// share a single driver call and receive the same connection. A caller
// that arrives while another's construction is in flight waits for it.
func (p *Provider) Open(ctx context.Context, rawURI string, options map[string]any) (*Connection, error) {
	if p.closed.Load() {
		return nil, ErrProviderClosed
	}
	key, u, err := NormalizeURI(rawURI)
	if err != nil {
		return nil, err
	}
	conn, err := p.resources.AddIfAbsent(ctx, key, openParams{uri: u, options: options})
	if err != nil {
		return nil, err
	}
	return p.checkClosedAfterRegister(ctx, key, conn)
}

// Create constructs and registers the resource for rawURI
// unconditionally. It fails with registry.ErrAlreadyExists when the URI
// is already registered, ready or pending, without waiting for an
// in-flight construction.
func (p *Provider) Create(ctx context.Context, rawURI string, options map[string]any) (*Connection, error) {
	if p.closed.Load() {
		return nil, ErrProviderClosed
	}
	key, u, err := NormalizeURI(rawURI)
	if err != nil {
		return nil, err
	}
	conn, err := p.resources.Add(ctx, key, openParams{uri: u, options: options})
	if err != nil {
		return nil, err
	}
	return p.checkClosedAfterRegister(ctx, key, conn)
}

// checkClosedAfterRegister re-checks the closed flag after a
// registration. A registration racing CloseAll can land after its
// Keys snapshot; unwinding here keeps a closed provider empty and
// never hands out a resource CloseAll may already have closed.
func (p *Provider) checkClosedAfterRegister(ctx context.Context, key string, conn *Connection) (*Connection, error) {
	if !p.closed.Load() {
		return conn, nil
	}
	if c, removed := p.resources.Remove(key); removed {
		_ = p.closeConnection(ctx, key, c)
	}
	return nil, ErrProviderClosed
}

// Lookup returns the connection registered for rawURI without opening
// anything. If the resource is under construction, Lookup waits for it;
// if the URI is not registered, it fails immediately with
// registry.ErrNotFound.
func (p *Provider) Lookup(rawURI string) (*Connection, error) {
	key, _, err := NormalizeURI(rawURI)
	if err != nil {
		return nil, err
	}
	return p.resources.Get(key)
}

// Close removes the resource for rawURI and closes it. It returns false
// with no error when the URI is not registered. When a construction for
// the URI is in flight, Close waits for it to settle first.
func (p *Provider) Close(ctx context.Context, rawURI string) (bool, error) {
	key, _, err := NormalizeURI(rawURI)
	if err != nil {
		return false, err
	}

	conn, removed := p.resources.Remove(key)
	if !removed {
		return false, nil
	}
	return true, p.closeConnection(ctx, key, conn)
}

// CloseAll removes and closes every registered resource and marks the
// provider closed. Close errors are collected; every resource is still
// removed. CloseAll is idempotent.
func (p *Provider) CloseAll(ctx context.Context) error {
	if p.closed.Swap(true) {
		return nil
	}

	var errs []error
	for _, key := range p.resources.Keys() {
		conn, removed := p.resources.Remove(key)
		if !removed {
			continue
		}
		if err := p.closeConnection(ctx, key, conn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// closeConnection closes a removed connection and emits telemetry.
func (p *Provider) closeConnection(ctx context.Context, key string, conn *Connection) error {
	_, span := p.spans.StartCloseSpan(ctx, key)
	err := conn.Close()
	p.spans.EndSpanWithError(span, err)

	p.metrics.RecordRemoval(ctx, conn.scheme)
	p.metrics.RecordActive(ctx, conn.scheme, -1)

	if err != nil {
		observability.LogResourceCloseError(p.logger, key, err)
		return fmt.Errorf("close %s: %w", key, err)
	}
	observability.LogResourceClosed(p.logger, key, conn.id)
	if p.bus != nil {
		p.bus.Publish(event.New(event.TypeClosed, key, conn.scheme))
	}
	return nil
}

// Apply opens every resource declared in the manifest. Opens run
// concurrently; the first failure cancels the remaining opens and is
// returned. Already-open URIs are shared, not reopened.
func (p *Provider) Apply(ctx context.Context, m config.Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, spec := range m.Resources {
		g.Go(func() error {
			if _, err := p.Open(ctx, spec.URI, spec.Options); err != nil {
				return fmt.Errorf("open %q: %w", spec.URI, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	observability.LogManifestApplied(p.logger, len(m.Resources))
	return nil
}

// URIs returns a sorted snapshot of all registered URIs, including
// resources still under construction.
func (p *Provider) URIs() []string {
	return p.resources.Keys()
}

// Len returns the number of registered resources, pending included.
func (p *Provider) Len() int {
	return p.resources.Len()
}

// Range calls fn for each ready connection. Pending constructions are
// skipped. If fn returns false, iteration stops.
func (p *Provider) Range(fn func(uri string, conn *Connection) bool) {
	p.resources.Range(fn)
}

// construct is the registry factory: it resolves the driver for the
// URI's scheme and opens the resource, with retries, telemetry, and
// lifecycle events. The registry guarantees at most one construct call
// in flight per key.
func (p *Provider) construct(ctx context.Context, key string, params openParams) (*Connection, error) {
	scheme := params.uri.Scheme
	d, err := p.driver(scheme)
	if err != nil {
		return nil, err
	}

	ctx, span := p.spans.StartOpenSpan(ctx, key, scheme)
	start := time.Now()
	res, err := retryOpen(ctx, p.retry, func(ctx context.Context) (Resource, error) {
		return d.Open(ctx, params.uri, params.options)
	})
	duration := time.Since(start)
	p.metrics.RecordConstruction(ctx, scheme, duration, err)
	p.spans.EndSpanWithError(span, err)

	if err != nil {
		observability.LogResourceOpenFailed(p.logger, key, err)
		if p.bus != nil {
			p.bus.Publish(event.NewFailed(key, scheme, err))
		}
		return nil, err
	}

	conn := &Connection{
		id:       uuid.NewString(),
		uri:      params.uri,
		scheme:   scheme,
		resource: res,
		openedAt: time.Now().UTC(),
	}
	p.metrics.RecordActive(ctx, scheme, 1)
	observability.LogResourceOpened(p.logger, key, conn.id, float64(duration.Milliseconds()))
	if p.bus != nil {
		p.bus.Publish(event.New(event.TypeOpened, key, scheme))
	}
	return conn, nil
}
