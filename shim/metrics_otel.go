package shim

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsOptions configures NewOTelMetrics.
type OTelMetricsOptions struct {
	MeterProvider          metric.MeterProvider
	Meter                  metric.Meter
	InstrumentationName    string
	InstrumentationVersion string
}

var _ MetricHook = (*OTelMetrics)(nil)

// OTelMetrics implements MetricHook using OpenTelemetry instruments.
type OTelMetrics struct {
	meter               metric.Meter
	modelsCreated       metric.Int64Counter
	modelsReleased      metric.Int64Counter
	operationsCompleted metric.Int64Counter
	operationsFailed    metric.Int64Counter
	operationDuration   metric.Float64Histogram
}

// NewOTelMetrics constructs a MetricHook that emits OpenTelemetry measurements.
func NewOTelMetrics(opts OTelMetricsOptions) (*OTelMetrics, error) {
	meter := opts.Meter
	if meter == nil {
		provider := opts.MeterProvider
		if provider == nil {
			provider = otel.GetMeterProvider()
		}
		name := opts.InstrumentationName
		if name == "" {
			name = "github.com/rocketbitz/xgboost-go/shim"
		}
		meter = provider.Meter(name, metric.WithInstrumentationVersion(opts.InstrumentationVersion))
	}

	modelsCreated, err := meter.Int64Counter("xgboost.shim.models.created")
	if err != nil {
		return nil, err
	}
	modelsReleased, err := meter.Int64Counter("xgboost.shim.models.released")
	if err != nil {
		return nil, err
	}
	operationsCompleted, err := meter.Int64Counter("xgboost.shim.operations.completed")
	if err != nil {
		return nil, err
	}
	operationsFailed, err := meter.Int64Counter("xgboost.shim.operations.failed")
	if err != nil {
		return nil, err
	}
	operationDuration, err := meter.Float64Histogram("xgboost.shim.operation.duration", metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &OTelMetrics{
		meter:               meter,
		modelsCreated:       modelsCreated,
		modelsReleased:      modelsReleased,
		operationsCompleted: operationsCompleted,
		operationsFailed:    operationsFailed,
		operationDuration:   operationDuration,
	}, nil
}

// ModelCreated records a model registered by create or load.
func (o *OTelMetrics) ModelCreated(attrs map[string]string) {
	o.modelsCreated.Add(context.Background(), 1, metric.WithAttributes(attribute.String(labelSource, attrs[labelSource])))
}

// ModelReleased records a model released by destroy.
func (o *OTelMetrics) ModelReleased(_ map[string]string) {
	o.modelsReleased.Add(context.Background(), 1)
}

// OperationCompleted records a successful operation and its duration.
func (o *OTelMetrics) OperationCompleted(op string, elapsed time.Duration, attrs map[string]string) {
	ctx := context.Background()
	o.operationsCompleted.Add(ctx, 1, metric.WithAttributes(otelAttrs(op, attrs)...))
	o.operationDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String(labelOperation, op)))
}

// OperationFailed records an operation that returned a non-zero status.
func (o *OTelMetrics) OperationFailed(op string, _ error, attrs map[string]string) {
	o.operationsFailed.Add(context.Background(), 1, metric.WithAttributes(otelAttrs(op, attrs)...))
}

func otelAttrs(op string, attrs map[string]string) []attribute.KeyValue {
	kvs := []attribute.KeyValue{attribute.String(labelOperation, op)}
	if v := attrs[labelStatus]; v != "" {
		kvs = append(kvs, attribute.String(labelStatus, v))
	}
	return kvs
}
