// Package observability provides structured logging, metrics and tracing
// for node editor scenes.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// Every logging helper accepts a nil logger and does nothing with it.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds scene context to a logger.
// Returns a new logger with a scene_id field.
//
// Example:
//
//	enriched := EnrichLogger(logger, "scene-123")
//	enriched.Info("loaded") // includes scene_id
func EnrichLogger(logger *slog.Logger, sceneID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("scene_id", sceneID))
}

// LogMutation logs a completed scene mutation.
func LogMutation(logger *slog.Logger, op, itemID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("scene mutated",
		slog.String("operation", op),
		slog.String("item_id", itemID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogMutationError logs a rejected or failed mutation. The scene is
// unchanged when this is logged.
func LogMutationError(logger *slog.Logger, op, itemID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("scene mutation rejected",
		slog.String("operation", op),
		slog.String("item_id", itemID),
		slog.String("error", err.Error()),
	)
}

// LogHistory logs a history action (store, undo, redo, clear).
func LogHistory(logger *slog.Logger, action string, cursor, depth int) {
	if logger == nil {
		return
	}
	logger.Debug("history "+action,
		slog.Int("cursor", cursor),
		slog.Int("depth", depth),
	)
}

// LogDocument logs a document serialize or deserialize.
func LogDocument(logger *slog.Logger, action, docID string, nodes, edges, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Info("document "+action,
		slog.String("document_id", docID),
		slog.Int("nodes", nodes),
		slog.Int("edges", edges),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogStore logs a document store operation. A non-nil err is logged at
// warn level.
func LogStore(logger *slog.Logger, op, docID string, revision int64, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Warn("store operation failed",
			slog.String("operation", op),
			slog.String("document_id", docID),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Debug("store operation",
		slog.String("operation", op),
		slog.String("document_id", docID),
		slog.Int64("revision", revision),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
