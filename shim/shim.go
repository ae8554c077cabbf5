// Package shim exposes xgb models through opaque integer handles so a foreign
// host can drive them across a C boundary. A Table owns every model it hands
// out; hosts only ever see Handle values.
package shim

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/rocketbitz/xgboost-go/xgb"
)

// Handle identifies a model registered in a Table. Zero is never a valid
// handle.
type Handle uintptr

// Config controls New.
type Config struct {
	// Engine backs every model. Defaults to xgb.DefaultEngine().
	Engine xgb.Engine
	// LenientColumns lets Predict accept a column count different from the
	// one the model was fitted or loaded with.
	LenientColumns bool
	// ModelOptions are appended to the options every model is created with.
	ModelOptions     []xgb.Option
	Logger           Logger
	StructuredLogger StructuredLogger
	Tracer           Tracer
	Metrics          MetricHook
}

// Logger provides debug logging hooks for the table.
type Logger interface {
	Debugf(format string, args ...any)
}

// StructuredLogger emits key/value pairs for structured logging backends.
type StructuredLogger = xgb.StructuredLogger

// TraceAttribute represents a tracing attribute attached to operation spans.
type TraceAttribute struct {
	Key   string
	Value any
}

// Tracer starts spans that wrap table operations.
type Tracer interface {
	StartSpan(name string, attrs ...TraceAttribute) Span
}

// Span records an operation and its outcome for tracing systems.
type Span interface {
	End(err error)
	AddEvent(name string, attrs ...TraceAttribute)
	RecordError(err error)
}

// MetricHook captures model lifecycle and operation telemetry.
type MetricHook interface {
	ModelCreated(attrs map[string]string)
	ModelReleased(attrs map[string]string)
	OperationCompleted(op string, elapsed time.Duration, attrs map[string]string)
	OperationFailed(op string, err error, attrs map[string]string)
}

const (
	labelOperation = "operation"
	labelStatus    = "status"
	labelSource    = "source"
)

// Operation names reported to loggers, tracers and metrics.
const (
	OpCreate   = "create"
	OpLoad     = "load"
	OpDestroy  = "destroy"
	OpSetParam = "set_param"
	OpFit      = "fit"
	OpPredict  = "predict"
	OpSave     = "save"
)

type entry struct {
	model   *xgb.Model
	lastErr string
}

// Table maps handles to models. The registry is safe for concurrent use;
// calls on the same handle must be serialized by the caller.
type Table struct {
	cfg       Config
	modelOpts []xgb.Option

	mu      sync.Mutex
	next    Handle
	entries map[Handle]*entry
	// lastErr holds failures that have no handle to attach to, such as a
	// failed Load.
	lastErr string
}

// New builds an empty table.
func New(cfg Config) *Table {
	if cfg.Engine == nil {
		cfg.Engine = xgb.DefaultEngine()
	}
	opts := []xgb.Option{xgb.WithStrictColumns(!cfg.LenientColumns)}
	if cfg.StructuredLogger != nil {
		opts = append(opts, xgb.WithLogger(cfg.StructuredLogger))
	}
	opts = append(opts, cfg.ModelOptions...)
	return &Table{
		cfg:       cfg,
		modelOpts: opts,
		next:      1,
		entries:   make(map[Handle]*entry),
	}
}

// Len reports the number of live handles.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Version reports the version of the engine backing the table.
func (t *Table) Version() (xgb.Version, error) {
	return t.cfg.Engine.Version()
}

// Create registers an unfitted model that will run rounds boosting
// iterations. It returns 0 only if model construction panicked.
func (t *Table) Create(rounds int) Handle {
	var h Handle
	err := t.run(OpCreate, 0, func() error {
		h = t.register(xgb.NewModel(t.cfg.Engine, rounds, t.modelOpts...))
		return nil
	}, logKV("rounds", rounds))
	if err != nil {
		return 0
	}
	t.metricModelCreated(OpCreate)
	t.logEvent("model_created", logKV("handle", h), logKV("rounds", rounds))
	return h
}

// Load registers a model read from path.
func (t *Table) Load(path string) (Handle, error) {
	var h Handle
	err := t.run(OpLoad, 0, func() error {
		model, err := xgb.LoadModel(t.cfg.Engine, path, t.modelOpts...)
		if err != nil {
			return err
		}
		h = t.register(model)
		return nil
	}, logKV("path", path))
	if err != nil {
		return 0, err
	}
	t.metricModelCreated(OpLoad)
	t.logEvent("model_loaded", logKV("handle", h), logKV("path", path))
	return h, nil
}

// Destroy releases the model behind h. Zero, unknown and already destroyed
// handles are ignored. Release failures are logged, never returned.
func (t *Table) Destroy(h Handle) {
	if h == 0 {
		return
	}
	t.mu.Lock()
	e, ok := t.entries[h]
	delete(t.entries, h)
	t.mu.Unlock()
	if !ok {
		return
	}

	err := t.run(OpDestroy, 0, func() error {
		return e.model.Close()
	}, logKV("handle", h))
	if err != nil {
		t.warn("xgboost shim release failed", "handle", h, "error", err)
	}
	t.metricModelReleased()
	t.logEvent("model_destroyed", logKV("handle", h))
}

// Close destroys every registered model.
func (t *Table) Close() {
	t.mu.Lock()
	handles := make([]Handle, 0, len(t.entries))
	for h := range t.entries {
		handles = append(handles, h)
	}
	t.mu.Unlock()
	for _, h := range handles {
		t.Destroy(h)
	}
}

// SetParam records a parameter on the model behind h.
func (t *Table) SetParam(h Handle, name, value string) error {
	return t.withModel(OpSetParam, h, func(m *xgb.Model) error {
		return m.SetParam(name, value)
	}, logKV("name", name))
}

// Fit trains the model behind h on a row-major features buffer and one label
// per row.
func (t *Table) Fit(h Handle, features, labels []float32, rows, cols int) error {
	return t.withModel(OpFit, h, func(m *xgb.Model) error {
		return m.Fit(features, labels, rows, cols)
	}, logKV("rows", rows), logKV("cols", cols))
}

// Predict writes exactly rows predictions into out.
func (t *Table) Predict(h Handle, features []float32, rows, cols int, out []float32) error {
	return t.withModel(OpPredict, h, func(m *xgb.Model) error {
		return m.PredictInto(out, features, rows, cols)
	}, logKV("rows", rows), logKV("cols", cols))
}

// Save writes the model behind h to path.
func (t *Table) Save(h Handle, path string) error {
	return t.withModel(OpSave, h, func(m *xgb.Model) error {
		return m.Save(path)
	}, logKV("path", path))
}

// LastError returns the message of the most recent failure recorded for h.
// Handle 0 reports failures of Create and Load. Messages persist until the
// next failure on the same handle.
func (t *Table) LastError(h Handle) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h == 0 {
		return t.lastErr
	}
	if e, ok := t.entries[h]; ok {
		return e.lastErr
	}
	return ""
}

func (t *Table) register(m *xgb.Model) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.next
	t.next++
	t.entries[h] = &entry{model: m}
	return h
}

func (t *Table) lookup(h Handle) (*xgb.Model, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[h]; ok {
		return e.model, nil
	}
	return nil, errors.Wrapf(xgb.ErrInvalidHandle{Resource: "model"}, "handle %d", h)
}

func (t *Table) withModel(op string, h Handle, fn func(*xgb.Model) error, fields ...logField) error {
	return t.run(op, h, func() error {
		m, err := t.lookup(h)
		if err != nil {
			return err
		}
		return fn(m)
	}, append([]logField{logKV("handle", h)}, fields...)...)
}

// run executes fn with panic containment, tracing, metrics and last-error
// bookkeeping. The recover defer runs before the finish defer so a recovered
// panic is reported like any other failure.
func (t *Table) run(op string, h Handle, fn func() error, fields ...logField) (err error) {
	start := time.Now()
	span := t.startSpan(op, fields...)
	defer func() {
		t.finish(op, h, span, time.Since(start), err)
	}()
	defer Recover(&err, op)
	return fn()
}

func (t *Table) finish(op string, h Handle, span Span, elapsed time.Duration, err error) {
	if span != nil {
		span.End(err)
	}
	if err == nil {
		t.metricOperationCompleted(op, elapsed)
		return
	}
	t.recordError(h, err)
	t.metricOperationFailed(op, err)
	t.logEvent("operation_failed", logKV("operation", op), logKV("handle", h), logKV("status", StatusCode(err)), logKV("error", err))
}

func (t *Table) recordError(h Handle, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[h]; ok && h != 0 {
		e.lastErr = err.Error()
		return
	}
	t.lastErr = err.Error()
}

type logField struct {
	key   string
	value any
}

func logKV(key string, value any) logField {
	return logField{key: key, value: value}
}

func (t *Table) logEvent(event string, fields ...logField) {
	if t.cfg.StructuredLogger != nil {
		kv := make([]any, 0, len(fields)*2+2)
		kv = append(kv, "event", event)
		for _, field := range fields {
			if field.key == "" {
				continue
			}
			kv = append(kv, field.key, field.value)
		}
		t.cfg.StructuredLogger.Debugw("xgboost shim", kv...)
		return
	}
	if t.cfg.Logger == nil {
		return
	}
	var b strings.Builder
	b.WriteString(event)
	for _, field := range fields {
		if field.key == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(field.key)
		b.WriteString("=")
		b.WriteString(fmt.Sprint(field.value))
	}
	t.cfg.Logger.Debugf("xgboost shim %s", b.String())
}

func (t *Table) warn(msg string, keyvals ...any) {
	if t.cfg.StructuredLogger != nil {
		t.cfg.StructuredLogger.Warnw(msg, keyvals...)
		return
	}
	if t.cfg.Logger != nil {
		t.cfg.Logger.Debugf("%s %v", msg, keyvals)
	}
}

func (t *Table) startSpan(op string, fields ...logField) Span {
	if t.cfg.Tracer == nil {
		return nil
	}
	attrs := make([]TraceAttribute, 0, len(fields))
	for _, field := range fields {
		attrs = append(attrs, TraceAttribute{Key: field.key, Value: field.value})
	}
	return t.cfg.Tracer.StartSpan("xgboost-shim-"+op, attrs...)
}

func (t *Table) metricModelCreated(source string) {
	if t.cfg.Metrics == nil {
		return
	}
	t.cfg.Metrics.ModelCreated(map[string]string{labelSource: source})
}

func (t *Table) metricModelReleased() {
	if t.cfg.Metrics == nil {
		return
	}
	t.cfg.Metrics.ModelReleased(map[string]string{})
}

func (t *Table) metricOperationCompleted(op string, elapsed time.Duration) {
	if t.cfg.Metrics == nil {
		return
	}
	t.cfg.Metrics.OperationCompleted(op, elapsed, map[string]string{labelOperation: op, labelStatus: StatusName(StatusOK)})
}

func (t *Table) metricOperationFailed(op string, err error) {
	if t.cfg.Metrics == nil {
		return
	}
	t.cfg.Metrics.OperationFailed(op, err, map[string]string{labelOperation: op, labelStatus: StatusName(StatusCode(err))})
}
