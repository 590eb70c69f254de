package resourcekit

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteDriver opens database/sql connection pools for the "sqlite"
// scheme. URIs take the forms:
//
//	sqlite:app.db        relative file path
//	sqlite:/var/app.db   absolute file path
//	sqlite::memory:      in-memory database
//
// Recognized options:
//
//	"journal_mode": string, default "WAL"
type SQLiteDriver struct{}

// Open implements Driver. The pool is pinged before it is returned, so
// an unopenable database fails construction rather than the first
// query.
func (SQLiteDriver) Open(ctx context.Context, uri *url.URL, options map[string]any) (Resource, error) {
	dsn := sqliteDSN(uri)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Each pooled connection to an in-memory database sees its own
	// empty database, so pin the pool to a single connection.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	journalMode := "WAL"
	if v, ok := options["journal_mode"].(string); ok && v != "" {
		journalMode = v
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode="+journalMode); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLitePool{db: db, dsn: dsn}, nil
}

// sqliteDSN maps a sqlite URI to the driver DSN.
func sqliteDSN(uri *url.URL) string {
	if uri.Opaque != "" {
		return uri.Opaque
	}
	if uri.Path != "" {
		return uri.Path
	}
	return ":memory:"
}

// SQLitePool is the resource opened by SQLiteDriver: a database/sql
// pool over one SQLite database.
type SQLitePool struct {
	db  *sql.DB
	dsn string
}

// DB returns the underlying database/sql pool.
func (p *SQLitePool) DB() *sql.DB { return p.db }

// DSN returns the DSN the pool was opened with.
func (p *SQLitePool) DSN() string { return p.dsn }

// Close implements Resource.
func (p *SQLitePool) Close() error {
	return p.db.Close()
}
