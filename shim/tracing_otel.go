package shim

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// NewOTelTracer adapts an OpenTelemetry tracer to Tracer.
func NewOTelTracer(tracer trace.Tracer) Tracer {
	return &otelTracer{tracer: tracer}
}

type otelTracer struct {
	tracer trace.Tracer
}

func (o *otelTracer) StartSpan(name string, attrs ...TraceAttribute) Span {
	if o == nil || o.tracer == nil {
		return nil
	}
	_, span := o.tracer.Start(context.Background(), name, trace.WithAttributes(toAttributes(attrs)...))
	return &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End(err error) {
	if s == nil || s.span == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, StatusName(StatusCode(err)))
	}
	s.span.End()
}

func (s *otelSpan) AddEvent(name string, attrs ...TraceAttribute) {
	if s == nil || s.span == nil {
		return
	}
	s.span.AddEvent(name, trace.WithAttributes(toAttributes(attrs)...))
}

func (s *otelSpan) RecordError(err error) {
	if s == nil || s.span == nil || err == nil {
		return
	}
	s.span.RecordError(err)
}

func toAttributes(attrs []TraceAttribute) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		out = append(out, toAttribute(attr))
	}
	return out
}

func toAttribute(attr TraceAttribute) attribute.KeyValue {
	if attr.Key == "" {
		return attribute.String("undefined", fmt.Sprint(attr.Value))
	}
	switch v := attr.Value.(type) {
	case nil:
		return attribute.String(attr.Key, "")
	case string:
		return attribute.String(attr.Key, v)
	case Handle:
		return attribute.Int64(attr.Key, int64(v))
	case fmt.Stringer:
		return attribute.String(attr.Key, v.String())
	case bool:
		return attribute.Bool(attr.Key, v)
	case int:
		return attribute.Int(attr.Key, v)
	case int32:
		return attribute.Int(attr.Key, int(v))
	case int64:
		return attribute.Int64(attr.Key, v)
	case uint:
		return attribute.Int64(attr.Key, int64(v))
	case uint32:
		return attribute.Int64(attr.Key, int64(v))
	case uint64:
		return attribute.Int64(attr.Key, int64(v))
	case float32:
		return attribute.Float64(attr.Key, float64(v))
	case float64:
		return attribute.Float64(attr.Key, v)
	case error:
		return attribute.String(attr.Key, v.Error())
	default:
		return attribute.String(attr.Key, fmt.Sprint(attr.Value))
	}
}
