package shim

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestOTelMetricsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewOTelMetrics(OTelMetricsOptions{MeterProvider: provider})
	if err != nil {
		t.Fatalf("NewOTelMetrics: %v", err)
	}

	metrics.ModelCreated(map[string]string{labelSource: OpCreate})
	metrics.ModelReleased(nil)
	metrics.OperationCompleted(OpFit, 5*time.Millisecond, map[string]string{labelStatus: "ok"})
	metrics.OperationCompleted(OpPredict, time.Millisecond, map[string]string{labelStatus: "ok"})
	metrics.OperationFailed(OpSave, errors.New("disk full"), map[string]string{labelStatus: "serialization"})

	ctx := context.Background()
	if err := provider.ForceFlush(ctx); err != nil {
		t.Fatalf("ForceFlush: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	cases := map[string]float64{
		"xgboost.shim.models.created":       1,
		"xgboost.shim.models.released":      1,
		"xgboost.shim.operations.completed": 2,
		"xgboost.shim.operations.failed":    1,
	}
	for name, want := range cases {
		if got := otelCounterValue(rm, name); got != want {
			t.Fatalf("unexpected counter %s: got %v want %v", name, got, want)
		}
	}
	if got := otelHistogramCount(rm, "xgboost.shim.operation.duration"); got != 2 {
		t.Fatalf("unexpected histogram count %d", got)
	}

	if err := provider.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func otelCounterValue(rm metricdata.ResourceMetrics, name string) float64 {
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			if metric.Name != name {
				continue
			}
			switch data := metric.Data.(type) {
			case metricdata.Sum[int64]:
				var sum float64
				for _, dp := range data.DataPoints {
					sum += float64(dp.Value)
				}
				return sum
			}
		}
	}
	return 0
}

func otelHistogramCount(rm metricdata.ResourceMetrics, name string) uint64 {
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			if metric.Name != name {
				continue
			}
			if data, ok := metric.Data.(metricdata.Histogram[float64]); ok {
				var count uint64
				for _, dp := range data.DataPoints {
					count += dp.Count
				}
				return count
			}
		}
	}
	return 0
}
