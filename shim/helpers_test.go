package shim

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/rocketbitz/xgboost-go/xgb"
)

const (
	demoRows = 5
	demoCols = 3
)

func demoData() ([]float32, []float32) {
	xs := make([]float32, demoRows*demoCols)
	ys := make([]float32, demoRows)
	for i := 0; i < demoRows; i++ {
		for j := 0; j < demoCols; j++ {
			xs[i*demoCols+j] = float32((i + 1) * (j + 1))
		}
		ys[i] = float32(1 + i*i*i)
	}
	return xs, ys
}

func newObservedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	return logger.Sugar(), logs
}

func newTestTracerProvider() (*tracesdk.TracerProvider, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := tracesdk.NewTracerProvider(tracesdk.WithSpanProcessor(recorder))
	return tp, recorder
}

func hasLogEvent(logs *observer.ObservedLogs, event string) bool {
	for _, entry := range logs.All() {
		if evt, ok := entry.ContextMap()["event"].(string); ok && evt == event {
			return true
		}
	}
	return false
}

type panicEngine struct {
	xgb.Engine
}

func (panicEngine) NewMatrix([]float32, int, int, float32) (xgb.NativeMatrix, error) {
	panic("matrix allocator exploded")
}

type debugfRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (d *debugfRecorder) Debugf(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = append(d.lines, fmt.Sprintf(format, args...))
}

func (d *debugfRecorder) Lines() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.lines...)
}

type metricRecorder struct {
	mu        sync.Mutex
	created   map[string]int
	released  int
	completed map[string]int
	failed    map[string]int
	statuses  map[string]string
}

func newMetricRecorder() *metricRecorder {
	return &metricRecorder{
		created:   make(map[string]int),
		completed: make(map[string]int),
		failed:    make(map[string]int),
		statuses:  make(map[string]string),
	}
}

func (m *metricRecorder) ModelCreated(attrs map[string]string) {
	m.mu.Lock()
	m.created[attrs[labelSource]]++
	m.mu.Unlock()
}

func (m *metricRecorder) ModelReleased(_ map[string]string) {
	m.mu.Lock()
	m.released++
	m.mu.Unlock()
}

func (m *metricRecorder) OperationCompleted(op string, _ time.Duration, _ map[string]string) {
	m.mu.Lock()
	m.completed[op]++
	m.mu.Unlock()
}

func (m *metricRecorder) OperationFailed(op string, _ error, attrs map[string]string) {
	m.mu.Lock()
	m.failed[op]++
	m.statuses[op] = attrs[labelStatus]
	m.mu.Unlock()
}

func (m *metricRecorder) Snapshot() metricSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := metricSnapshot{
		Created:   make(map[string]int, len(m.created)),
		Released:  m.released,
		Completed: make(map[string]int, len(m.completed)),
		Failed:    make(map[string]int, len(m.failed)),
		Statuses:  make(map[string]string, len(m.statuses)),
	}
	for k, v := range m.created {
		snap.Created[k] = v
	}
	for k, v := range m.completed {
		snap.Completed[k] = v
	}
	for k, v := range m.failed {
		snap.Failed[k] = v
	}
	for k, v := range m.statuses {
		snap.Statuses[k] = v
	}
	return snap
}

type metricSnapshot struct {
	Created   map[string]int
	Released  int
	Completed map[string]int
	Failed    map[string]int
	Statuses  map[string]string
}
