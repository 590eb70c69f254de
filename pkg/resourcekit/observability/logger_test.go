package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// newTestLogger returns a logger writing to a buffer for inspection.
func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buf
}

func TestEnrichLogger(t *testing.T) {
	logger, buf := newTestLogger()

	enriched := EnrichLogger(logger, "sqlite:app.db", "sqlite")
	enriched.Info("hello")

	out := buf.String()
	assert.Contains(t, out, "uri=sqlite:app.db")
	assert.Contains(t, out, "scheme=sqlite")
}

func TestEnrichLoggerNil(t *testing.T) {
	assert.Nil(t, EnrichLogger(nil, "uri", "scheme"))
}

func TestLogResourceOpened(t *testing.T) {
	logger, buf := newTestLogger()

	LogResourceOpened(logger, "memory://a", "conn-1", 12.5)

	out := buf.String()
	assert.Contains(t, out, "resource opened")
	assert.Contains(t, out, "uri=memory://a")
	assert.Contains(t, out, "conn_id=conn-1")
	assert.Contains(t, out, "duration_ms=12.5")
}

func TestLogResourceOpenFailed(t *testing.T) {
	logger, buf := newTestLogger()

	LogResourceOpenFailed(logger, "memory://a", errors.New("dial failed"))

	out := buf.String()
	assert.Contains(t, out, "resource open failed")
	assert.Contains(t, out, "dial failed")
}

func TestLogResourceClosed(t *testing.T) {
	logger, buf := newTestLogger()

	LogResourceClosed(logger, "memory://a", "conn-1")

	assert.Contains(t, buf.String(), "resource closed")
}

func TestLogResourceCloseError(t *testing.T) {
	logger, buf := newTestLogger()

	LogResourceCloseError(logger, "memory://a", errors.New("busy"))

	out := buf.String()
	assert.Contains(t, out, "resource close failed")
	assert.Contains(t, out, "busy")
}

func TestLogManifestApplied(t *testing.T) {
	logger, buf := newTestLogger()

	LogManifestApplied(logger, 3)

	out := buf.String()
	assert.Contains(t, out, "manifest applied")
	assert.Contains(t, out, "resources_opened=3")
}

func TestLogHelpersTolerateNilLogger(t *testing.T) {
	// None of these may panic.
	LogResourceOpened(nil, "u", "c", 1)
	LogResourceOpenFailed(nil, "u", errors.New("e"))
	LogResourceClosed(nil, "u", "c")
	LogResourceCloseError(nil, "u", errors.New("e"))
	LogManifestApplied(nil, 0)
}
