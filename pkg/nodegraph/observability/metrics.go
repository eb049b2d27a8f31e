package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records scene metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordMutation records a mutation attempt with its duration and error status.
	RecordMutation(ctx context.Context, op string, duration time.Duration, err error)

	// RecordHistoryDepth records the number of entries in a scene's history.
	RecordHistoryDepth(ctx context.Context, depth int)

	// RecordDocumentSize records the size of a serialized document.
	RecordDocumentSize(ctx context.Context, op string, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	mutations       metric.Int64Counter
	mutationLatency metric.Float64Histogram
	mutationErrors  metric.Int64Counter
	historyDepth    metric.Int64Gauge
	documentSize    metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("nodegraph")

	mutations, err := meter.Int64Counter("nodegraph.scene.mutations",
		metric.WithDescription("Number of scene mutations"),
	)
	if err != nil {
		return nil, err
	}

	mutationLatency, err := meter.Float64Histogram("nodegraph.scene.mutation_latency_ms",
		metric.WithDescription("Scene mutation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	mutationErrors, err := meter.Int64Counter("nodegraph.scene.mutation_errors",
		metric.WithDescription("Number of rejected scene mutations"),
	)
	if err != nil {
		return nil, err
	}

	historyDepth, err := meter.Int64Gauge("nodegraph.history.depth",
		metric.WithDescription("Entries in the undo history"),
	)
	if err != nil {
		return nil, err
	}

	documentSize, err := meter.Int64Histogram("nodegraph.document.size_bytes",
		metric.WithDescription("Serialized document size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		mutations:       mutations,
		mutationLatency: mutationLatency,
		mutationErrors:  mutationErrors,
		historyDepth:    historyDepth,
		documentSize:    documentSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordMutation records a mutation attempt.
func (m *otelMetrics) RecordMutation(ctx context.Context, op string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("operation", op))

	if err != nil {
		m.mutationErrors.Add(ctx, 1, attrs)
		return
	}
	m.mutations.Add(ctx, 1, attrs)
	m.mutationLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordHistoryDepth records the current history depth.
func (m *otelMetrics) RecordHistoryDepth(ctx context.Context, depth int) {
	m.historyDepth.Record(ctx, int64(depth))
}

// RecordDocumentSize records a serialized document size.
func (m *otelMetrics) RecordDocumentSize(ctx context.Context, op string, sizeBytes int64) {
	m.documentSize.Record(ctx, sizeBytes, metric.WithAttributes(attribute.String("operation", op)))
}
