package shim

import (
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func TestOTelTracerRecordsSpans(t *testing.T) {
	tp, recorder := newTestTracerProvider()
	tracer := NewOTelTracer(tp.Tracer("shim-test"))

	span := tracer.StartSpan("xgboost-shim-fit", TraceAttribute{Key: "handle", Value: Handle(3)}, TraceAttribute{Key: "rows", Value: 5})
	span.AddEvent("iteration", TraceAttribute{Key: "iter", Value: 0})
	span.RecordError(nil)
	span.End(errors.New("boom"))

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected one span, got %d", len(ended))
	}
	got := ended[0]
	if got.Name() != "xgboost-shim-fit" || got.Status().Code != codes.Error {
		t.Fatalf("unexpected span %s status %v", got.Name(), got.Status())
	}
	var handleSeen bool
	for _, kv := range got.Attributes() {
		if kv.Key == "handle" && kv.Value.AsInt64() == 3 {
			handleSeen = true
		}
	}
	if !handleSeen {
		t.Fatalf("handle attribute missing: %v", got.Attributes())
	}
	if len(got.Events()) != 2 {
		t.Fatalf("expected iteration and exception events, got %d", len(got.Events()))
	}
}

func TestToAttribute(t *testing.T) {
	cases := []struct {
		in   TraceAttribute
		want attribute.KeyValue
	}{
		{in: TraceAttribute{Key: "path", Value: "/tmp/m.bin"}, want: attribute.String("path", "/tmp/m.bin")},
		{in: TraceAttribute{Key: "rows", Value: 5}, want: attribute.Int("rows", 5)},
		{in: TraceAttribute{Key: "handle", Value: Handle(9)}, want: attribute.Int64("handle", 9)},
		{in: TraceAttribute{Key: "ok", Value: true}, want: attribute.Bool("ok", true)},
		{in: TraceAttribute{Key: "eta", Value: float32(0.5)}, want: attribute.Float64("eta", 0.5)},
		{in: TraceAttribute{Key: "err", Value: errors.New("x")}, want: attribute.String("err", "x")},
		{in: TraceAttribute{Key: "nil"}, want: attribute.String("nil", "")},
		{in: TraceAttribute{Value: 1}, want: attribute.String("undefined", "1")},
	}
	for _, tc := range cases {
		if got := toAttribute(tc.in); got != tc.want {
			t.Fatalf("toAttribute(%+v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
