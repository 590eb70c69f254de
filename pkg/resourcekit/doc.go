/*
Package resourcekit provides URI-keyed management of expensive,
long-lived resources such as connection pools, database handles, and
remote stores.

# Overview

resourcekit pairs a concurrent lazy-construction registry with a driver
layer keyed by URI scheme. Opening a resource parses and normalizes the
URI, picks the driver registered for its scheme, and constructs the
resource at most once per URI, no matter how many goroutines race on
it. Slow constructions never block access to other URIs.

# Basic Usage

Register drivers, then open resources by URI:

	p := resourcekit.New(
	    resourcekit.WithLogger(slog.Default()),
	)

	conn, err := p.Open(ctx, "sqlite:app.db", nil)
	if err != nil {
	    log.Fatal(err)
	}
	defer p.CloseAll(ctx)

	db := conn.Resource().(*resourcekit.SQLitePool).DB()

Open is idempotent: concurrent calls for the same normalized URI share
one construction and receive the same *Connection. Create is the
strict form and fails when the URI is already registered.

# Drivers

A Driver opens a resource for a parsed URI. The built-in drivers cover
the "memory" scheme (in-process store, useful for tests) and the
"sqlite" scheme (database/sql pools through modernc.org/sqlite).
Register custom drivers with WithDriver or RegisterDriver:

	p := resourcekit.New(resourcekit.WithDriver("redis", redisDriver{}))

# Observability

The provider logs through slog, records OpenTelemetry metrics and
spans, and can publish lifecycle events to an event.Bus. All of these
are opt-in; the defaults are no-ops.
*/
package resourcekit
