package observability

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/yungbote/pantry-backend"

// Metrics holds the instruments recorded by the HTTP layer, the aggregate
// write path and the event sinks.
type Metrics struct {
	apiRequests   metric.Int64Counter
	apiLatency    metric.Float64Histogram
	apiInflight   metric.Int64UpDownCounter
	aggLatency    metric.Float64Histogram
	aggOps        metric.Int64Counter
	aggConflicts  metric.Int64Counter
	aggRetries    metric.Int64Counter
	sessionEvents metric.Int64Counter
	sinkFailures  metric.Int64Counter
	sweepAbandons metric.Int64Counter
}

var (
	metricsOnce sync.Once
	current     *Metrics
)

// Init builds the process-wide metrics from the global meter provider.
func Init() *Metrics {
	metricsOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err == nil {
			current = m
		}
	})
	return current
}

func Current() *Metrics {
	return current
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)
	m := &Metrics{}
	var err error

	if m.apiRequests, err = meter.Int64Counter("pantry_api_requests_total",
		metric.WithDescription("API requests by method, route and status")); err != nil {
		return nil, err
	}
	if m.apiLatency, err = meter.Float64Histogram("pantry_api_request_duration_seconds",
		metric.WithDescription("API request latency"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5)); err != nil {
		return nil, err
	}
	if m.apiInflight, err = meter.Int64UpDownCounter("pantry_api_inflight_requests",
		metric.WithDescription("API requests in flight")); err != nil {
		return nil, err
	}
	if m.aggLatency, err = meter.Float64Histogram("pantry_aggregate_operation_duration_seconds",
		metric.WithDescription("Aggregate write attempt latency"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1)); err != nil {
		return nil, err
	}
	if m.aggOps, err = meter.Int64Counter("pantry_aggregate_operations_total",
		metric.WithDescription("Aggregate write attempts by operation and status")); err != nil {
		return nil, err
	}
	if m.aggConflicts, err = meter.Int64Counter("pantry_aggregate_conflicts_total",
		metric.WithDescription("Aggregate writes that ended in a conflict")); err != nil {
		return nil, err
	}
	if m.aggRetries, err = meter.Int64Counter("pantry_aggregate_retries_total",
		metric.WithDescription("Aggregate write retries")); err != nil {
		return nil, err
	}
	if m.sessionEvents, err = meter.Int64Counter("pantry_shopping_session_events_total",
		metric.WithDescription("Shopping session events dispatched by name")); err != nil {
		return nil, err
	}
	if m.sinkFailures, err = meter.Int64Counter("pantry_event_sink_failures_total",
		metric.WithDescription("Event sink deliveries that failed")); err != nil {
		return nil, err
	}
	if m.sweepAbandons, err = meter.Int64Counter("pantry_shopping_session_swept_total",
		metric.WithDescription("Stale sessions abandoned by the sweep")); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	attrs := metric.WithAttributes(
		attribute.String("method", strings.ToUpper(method)),
		attribute.String("route", route),
		attribute.String("status", status),
	)
	ctx := context.Background()
	m.apiRequests.Add(ctx, 1, attrs)
	m.apiLatency.Record(ctx, dur.Seconds(), attrs)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(context.Background(), 1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(context.Background(), -1)
}

func (m *Metrics) ObserveAggregateOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if status == "" {
		status = "unknown"
	}
	attrs := metric.WithAttributes(attribute.String("operation", name), attribute.String("status", status))
	ctx := context.Background()
	m.aggOps.Add(ctx, 1, attrs)
	m.aggLatency.Record(ctx, dur.Seconds(), attrs)
}

func (m *Metrics) IncAggregateConflict(name string) {
	if m == nil {
		return
	}
	m.aggConflicts.Add(context.Background(), 1, metric.WithAttributes(attribute.String("operation", name)))
}

func (m *Metrics) IncAggregateRetry(name string) {
	if m == nil {
		return
	}
	m.aggRetries.Add(context.Background(), 1, metric.WithAttributes(attribute.String("operation", name)))
}

func (m *Metrics) IncSessionEvent(name string) {
	if m == nil {
		return
	}
	m.sessionEvents.Add(context.Background(), 1, metric.WithAttributes(attribute.String("event", name)))
}

func (m *Metrics) IncSinkFailure(sink string) {
	if m == nil {
		return
	}
	m.sinkFailures.Add(context.Background(), 1, metric.WithAttributes(attribute.String("sink", sink)))
}

func (m *Metrics) AddSweepAbandoned(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sweepAbandons.Add(context.Background(), int64(n))
}
