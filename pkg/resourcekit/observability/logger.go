// Package observability provides structured logging, metrics, and
// tracing for resource providers.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import "log/slog"

// EnrichLogger adds resource context to a logger.
// Returns a new logger with uri and scheme fields.
func EnrichLogger(logger *slog.Logger, uri, scheme string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("uri", uri),
		slog.String("scheme", scheme),
	)
}

// LogResourceOpened logs a successful resource construction.
func LogResourceOpened(logger *slog.Logger, uri, connID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("resource opened",
		slog.String("uri", uri),
		slog.String("conn_id", connID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogResourceOpenFailed logs a failed construction attempt.
func LogResourceOpenFailed(logger *slog.Logger, uri string, err error) {
	if logger == nil {
		return
	}
	logger.Error("resource open failed",
		slog.String("uri", uri),
		slog.String("error", err.Error()),
	)
}

// LogResourceClosed logs removal and close of a resource.
func LogResourceClosed(logger *slog.Logger, uri, connID string) {
	if logger == nil {
		return
	}
	logger.Info("resource closed",
		slog.String("uri", uri),
		slog.String("conn_id", connID),
	)
}

// LogResourceCloseError logs a failed close of a removed resource.
func LogResourceCloseError(logger *slog.Logger, uri string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("resource close failed",
		slog.String("uri", uri),
		slog.String("error", err.Error()),
	)
}

// LogManifestApplied logs completion of a config manifest apply.
func LogManifestApplied(logger *slog.Logger, opened int) {
	if logger == nil {
		return
	}
	logger.Info("manifest applied",
		slog.Int("resources_opened", opened),
	)
}
