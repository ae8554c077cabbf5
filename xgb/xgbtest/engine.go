// Package xgbtest provides an in-memory xgb.Engine that counts native
// resources and injects failures, for testing ownership without libxgboost.
package xgbtest

import (
	"encoding/json"
	"math"
	"os"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/rocketbitz/xgboost-go/xgb"
)

// Operations that FailOn can target.
const (
	OpNewMatrix     = "NewMatrix"
	OpSetLabels     = "SetLabels"
	OpNewBooster    = "NewBooster"
	OpSetParam      = "SetParam"
	OpUpdateOneIter = "UpdateOneIter"
	OpPredict       = "Predict"
	OpNumFeatures   = "NumFeatures"
	OpSave          = "Save"
	OpLoad          = "Load"
	OpFreeMatrix    = "FreeMatrix"
	OpFreeBooster   = "FreeBooster"
)

// FakeVersion is the version the fake engine reports.
var FakeVersion = xgb.Version{Major: 2, Minor: 0, Patch: 3}

// Counts is a snapshot of resource accounting.
type Counts struct {
	MatricesCreated int
	MatricesFreed   int
	BoostersCreated int
	BoostersFreed   int
	DoubleFrees     int
	PredictBuffers  int
}

// LiveMatrices reports matrices created but not yet freed.
func (c Counts) LiveMatrices() int { return c.MatricesCreated - c.MatricesFreed }

// LiveBoosters reports boosters created but not yet freed.
func (c Counts) LiveBoosters() int { return c.BoostersCreated - c.BoostersFreed }

// Engine is a fake xgb.Engine. A booster memorizes its training rows and
// predicts the label of the nearest one, which is enough to check that data
// flows through fit and predict unchanged.
type Engine struct {
	mu       sync.Mutex
	counts   Counts
	failures map[string]error
	boosters []*Booster
	// PredictLength overrides the number of values Predict reports when
	// non-negative.
	PredictLength int
}

// NewEngine returns an empty fake engine.
func NewEngine() *Engine {
	return &Engine{failures: make(map[string]error), PredictLength: -1}
}

// FailOn makes every later call of op fail with err. A nil err clears it.
func (e *Engine) FailOn(op string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		delete(e.failures, op)
		return
	}
	e.failures[op] = err
}

// Counts returns the current resource accounting.
func (e *Engine) Counts() Counts {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counts
}

// Boosters returns every booster the engine created, in creation order.
func (e *Engine) Boosters() []*Booster {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Booster(nil), e.boosters...)
}

func (e *Engine) fail(op string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failures[op]
}

// NewMatrix implements xgb.Engine.
func (e *Engine) NewMatrix(data []float32, rows, cols int, missing float32) (xgb.NativeMatrix, error) {
	if err := e.fail(OpNewMatrix); err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 || len(data) < rows*cols {
		return nil, errors.Newf("fake: bad matrix %dx%d over %d values", rows, cols, len(data))
	}
	e.mu.Lock()
	e.counts.MatricesCreated++
	e.mu.Unlock()
	return &Matrix{
		engine:  e,
		data:    append([]float32(nil), data[:rows*cols]...),
		rows:    rows,
		cols:    cols,
		missing: missing,
	}, nil
}

// NewBooster implements xgb.Engine.
func (e *Engine) NewBooster(train ...xgb.NativeMatrix) (xgb.NativeBooster, error) {
	if err := e.fail(OpNewBooster); err != nil {
		return nil, err
	}
	for _, m := range train {
		fm, ok := m.(*Matrix)
		if !ok || fm.freed {
			return nil, xgb.ErrInvalidHandle{Resource: "dmatrix"}
		}
	}
	b := &Booster{engine: e, params: make(map[string]string)}
	e.mu.Lock()
	e.counts.BoostersCreated++
	e.boosters = append(e.boosters, b)
	e.mu.Unlock()
	return b, nil
}

// Version implements xgb.Engine.
func (e *Engine) Version() (xgb.Version, error) {
	return FakeVersion, nil
}

// Matrix is a fake native matrix.
type Matrix struct {
	engine  *Engine
	data    []float32
	labels  []float32
	rows    int
	cols    int
	missing float32
	freed   bool
	// result stands in for the library-owned prediction buffer tied to this
	// matrix. It is poisoned on Free so reads after release show up as NaN.
	result []float32
}

// SetLabels implements xgb.NativeMatrix.
func (m *Matrix) SetLabels(labels []float32) error {
	if m.freed {
		return xgb.ErrInvalidHandle{Resource: "dmatrix"}
	}
	if err := m.engine.fail(OpSetLabels); err != nil {
		return err
	}
	m.labels = append([]float32(nil), labels...)
	return nil
}

// Labels implements xgb.NativeMatrix.
func (m *Matrix) Labels() ([]float32, error) {
	if m.freed {
		return nil, xgb.ErrInvalidHandle{Resource: "dmatrix"}
	}
	return append([]float32(nil), m.labels...), nil
}

// Missing reports the missing-value sentinel the matrix was built with.
func (m *Matrix) Missing() float32 {
	return m.missing
}

// Free implements xgb.NativeMatrix.
func (m *Matrix) Free() error {
	e := m.engine
	if m.freed {
		e.mu.Lock()
		e.counts.DoubleFrees++
		e.mu.Unlock()
		return errors.New("fake: matrix freed twice")
	}
	m.freed = true
	for i := range m.result {
		m.result[i] = float32(math.NaN())
	}
	e.mu.Lock()
	e.counts.MatricesFreed++
	e.mu.Unlock()
	return e.fail(OpFreeMatrix)
}

// Booster is a fake native booster.
type Booster struct {
	engine     *Engine
	params     map[string]string
	paramOrder []string
	iterations []int
	features   [][]float32
	targets    []float32
	cols       int
	freed      bool
}

type boosterFile struct {
	Params   map[string]string `json:"params"`
	Cols     int               `json:"cols"`
	Features [][]float32       `json:"features"`
	Targets  []float32         `json:"targets"`
}

// Params returns a copy of the parameters applied to the booster.
func (b *Booster) Params() map[string]string {
	out := make(map[string]string, len(b.params))
	for k, v := range b.params {
		out[k] = v
	}
	return out
}

// ParamOrder returns parameter names in the order they were applied.
func (b *Booster) ParamOrder() []string {
	return append([]string(nil), b.paramOrder...)
}

// Iterations returns the iteration indices passed to UpdateOneIter.
func (b *Booster) Iterations() []int {
	return append([]int(nil), b.iterations...)
}

// Freed reports whether the booster has been released.
func (b *Booster) Freed() bool {
	return b.freed
}

// SetParam implements xgb.NativeBooster.
func (b *Booster) SetParam(name, value string) error {
	if b.freed {
		return xgb.ErrInvalidHandle{Resource: "booster"}
	}
	if err := b.engine.fail(OpSetParam); err != nil {
		return err
	}
	b.params[name] = value
	b.paramOrder = append(b.paramOrder, name)
	return nil
}

// UpdateOneIter implements xgb.NativeBooster.
func (b *Booster) UpdateOneIter(iter int, train xgb.NativeMatrix) error {
	if b.freed {
		return xgb.ErrInvalidHandle{Resource: "booster"}
	}
	m, ok := train.(*Matrix)
	if !ok || m.freed {
		return xgb.ErrInvalidHandle{Resource: "dmatrix"}
	}
	if err := b.engine.fail(OpUpdateOneIter); err != nil {
		return err
	}
	if len(m.labels) != m.rows {
		return errors.Newf("fake: %d labels for %d rows", len(m.labels), m.rows)
	}
	b.iterations = append(b.iterations, iter)
	b.cols = m.cols
	b.features = b.features[:0]
	for i := 0; i < m.rows; i++ {
		b.features = append(b.features, append([]float32(nil), m.data[i*m.cols:(i+1)*m.cols]...))
	}
	b.targets = append(b.targets[:0], m.labels...)
	return nil
}

// Predict implements xgb.NativeBooster. The returned slice is owned by the
// matrix and is overwritten with NaN when the matrix is freed.
func (b *Booster) Predict(train xgb.NativeMatrix) ([]float32, error) {
	if b.freed {
		return nil, xgb.ErrInvalidHandle{Resource: "booster"}
	}
	m, ok := train.(*Matrix)
	if !ok || m.freed {
		return nil, xgb.ErrInvalidHandle{Resource: "dmatrix"}
	}
	if err := b.engine.fail(OpPredict); err != nil {
		return nil, err
	}
	n := m.rows
	b.engine.mu.Lock()
	if b.engine.PredictLength >= 0 {
		n = b.engine.PredictLength
	}
	b.engine.counts.PredictBuffers++
	b.engine.mu.Unlock()

	out := make([]float32, n)
	for i := 0; i < n && i < m.rows; i++ {
		out[i] = b.nearest(m.data[i*m.cols : (i+1)*m.cols])
	}
	m.result = out
	return out, nil
}

func (b *Booster) nearest(row []float32) float32 {
	best, bestDist := float32(0), math.Inf(1)
	for i, f := range b.features {
		var d float64
		for j := 0; j < len(f) && j < len(row); j++ {
			diff := float64(f[j] - row[j])
			d += diff * diff
		}
		if d < bestDist {
			best, bestDist = b.targets[i], d
		}
	}
	return best
}

// NumFeatures implements xgb.NativeBooster.
func (b *Booster) NumFeatures() (int, error) {
	if b.freed {
		return 0, xgb.ErrInvalidHandle{Resource: "booster"}
	}
	if err := b.engine.fail(OpNumFeatures); err != nil {
		return 0, err
	}
	return b.cols, nil
}

// Save implements xgb.NativeBooster by writing JSON to path.
func (b *Booster) Save(path string) error {
	if b.freed {
		return xgb.ErrInvalidHandle{Resource: "booster"}
	}
	if err := b.engine.fail(OpSave); err != nil {
		return err
	}
	raw, err := json.Marshal(boosterFile{Params: b.params, Cols: b.cols, Features: b.features, Targets: b.targets})
	if err != nil {
		return errors.Wrap(err, "fake: encode model")
	}
	return errors.Wrap(os.WriteFile(path, raw, 0o600), "fake: write model")
}

// Load implements xgb.NativeBooster by reading JSON written by Save.
func (b *Booster) Load(path string) error {
	if b.freed {
		return xgb.ErrInvalidHandle{Resource: "booster"}
	}
	if err := b.engine.fail(OpLoad); err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "fake: read model")
	}
	var f boosterFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return errors.Wrap(err, "fake: decode model")
	}
	b.cols = f.Cols
	b.features = f.Features
	b.targets = f.Targets
	return nil
}

// Free implements xgb.NativeBooster.
func (b *Booster) Free() error {
	e := b.engine
	if b.freed {
		e.mu.Lock()
		e.counts.DoubleFrees++
		e.mu.Unlock()
		return errors.New("fake: booster freed twice")
	}
	b.freed = true
	e.mu.Lock()
	e.counts.BoostersFreed++
	e.mu.Unlock()
	return e.fail(OpFreeBooster)
}
