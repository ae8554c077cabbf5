package xgb

import (
	"os"

	"github.com/cockroachdb/errors"
)

// State is the lifecycle stage of a Model.
type State int

const (
	// StateUninitialized models hold a round count and parameters but no booster.
	StateUninitialized State = iota
	// StateLoaded models hold a booster read from a file.
	StateLoaded
	// StateFitted models hold a booster trained by Fit.
	StateFitted
	// StateClosed models have released their booster.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoaded:
		return "loaded"
	case StateFitted:
		return "fitted"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Model owns one native booster together with the round count and the
// parameters applied at fit time. A Model is not safe for concurrent use;
// distinct models are independent.
type Model struct {
	engine  Engine
	booster NativeBooster
	rounds  int
	params  *Params
	cols    int
	state   State
	opts    options
}

// NewModel returns an unfitted model that will run rounds boosting
// iterations on Fit.
func NewModel(engine Engine, rounds int, opts ...Option) *Model {
	return &Model{
		engine: engine,
		rounds: rounds,
		params: NewParams(),
		state:  StateUninitialized,
		opts:   buildOptions(opts),
	}
}

// LoadModel opens a booster from a serialized model file. The returned model
// can predict and save; it has no parameters and a round count of zero, so it
// can only be re-fit after SetRounds.
func LoadModel(engine Engine, path string, opts ...Option) (*Model, error) {
	if engine == nil {
		return nil, invalidArgument("nil engine")
	}
	if path == "" {
		return nil, invalidArgument("empty model path")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, classify(err, ErrModelLoad, "load model %s", path)
	}

	o := buildOptions(opts)
	booster, err := engine.NewBooster()
	if err != nil {
		return nil, classify(err, ErrResourceCreation, "create booster for %s", path)
	}
	if booster == nil {
		return nil, errors.Wrap(ErrResourceCreation, "engine returned a nil booster")
	}
	if err := booster.Load(path); err != nil {
		releaseBooster(o.logger, booster)
		return nil, classify(err, ErrModelLoad, "load model %s", path)
	}

	cols, err := booster.NumFeatures()
	if err != nil {
		o.logger.Debugw("xgboost feature count unavailable", "path", path, "error", err)
		cols = 0
	}

	o.logger.Debugw("xgboost model loaded", "path", path, "cols", cols)
	return &Model{
		engine:  engine,
		booster: booster,
		params:  NewParams(),
		cols:    cols,
		state:   StateLoaded,
		opts:    o,
	}, nil
}

// State reports the lifecycle stage.
func (m *Model) State() State {
	return m.state
}

// Rounds reports the number of boosting iterations Fit runs.
func (m *Model) Rounds() int {
	return m.rounds
}

// SetRounds changes the number of boosting iterations for the next Fit.
func (m *Model) SetRounds(rounds int) error {
	if m.state == StateClosed {
		return ErrClosed
	}
	if rounds < 0 {
		return invalidArgument("negative round count %d", rounds)
	}
	m.rounds = rounds
	return nil
}

// Cols reports the column count the booster is bound to, or 0 when unknown.
func (m *Model) Cols() int {
	return m.cols
}

// SetParam records a parameter for the next Fit. It has no native effect
// until then.
func (m *Model) SetParam(name, value string) error {
	if m.state == StateClosed {
		return ErrClosed
	}
	m.params.Set(name, value)
	return nil
}

// Params returns a copy of the accumulated parameters.
func (m *Model) Params() *Params {
	return m.params.Clone()
}

// Fit trains a new booster on features and labels. The staging matrix is
// released when Fit returns. The previous booster, if any, is released only
// after the new one finished training; on failure the model keeps its prior
// booster and state.
func (m *Model) Fit(features, labels []float32, rows, cols int) error {
	if m.state == StateClosed {
		return ErrClosed
	}
	if m.rounds <= 0 {
		return invalidArgument("round count must be positive, got %d", m.rounds)
	}
	if labels == nil {
		return invalidArgument("fit requires labels")
	}

	dm, err := newDataMatrix(m.engine, features, labels, rows, cols, m.opts)
	if err != nil {
		return err
	}
	defer m.releaseMatrix(dm)

	booster, err := m.engine.NewBooster(dm.native)
	if err != nil {
		return classify(err, ErrResourceCreation, "create booster")
	}
	if booster == nil {
		return errors.Wrap(ErrResourceCreation, "engine returned a nil booster")
	}
	if err := m.train(booster, dm); err != nil {
		releaseBooster(m.opts.logger, booster)
		return err
	}

	previous := m.booster
	m.booster = booster
	m.cols = cols
	m.state = StateFitted
	if previous != nil {
		releaseBooster(m.opts.logger, previous)
	}
	m.opts.logger.Debugw("xgboost model fitted", "rows", rows, "cols", cols, "rounds", m.rounds, "params", m.params.Len())
	return nil
}

func (m *Model) train(booster NativeBooster, dm *DataMatrix) error {
	err := m.params.Each(func(name, value string) error {
		if err := booster.SetParam(name, value); err != nil {
			return classify(err, ErrTraining, "set parameter %s=%s", name, value)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for iter := 0; iter < m.rounds; iter++ {
		if err := booster.UpdateOneIter(iter, dm.native); err != nil {
			return classify(err, ErrTraining, "boosting iteration %d", iter)
		}
	}
	return nil
}

// Predict returns one prediction per row of features.
func (m *Model) Predict(features []float32, rows, cols int) ([]float32, error) {
	var dst []float32
	if rows > 0 {
		dst = make([]float32, rows)
	}
	if err := m.PredictInto(dst, features, rows, cols); err != nil {
		return nil, err
	}
	return dst, nil
}

// PredictInto writes exactly rows predictions into dst, which must hold at
// least rows values. The values are copied out of the library-owned result
// before the staging matrix is released; that buffer is never freed here.
func (m *Model) PredictInto(dst, features []float32, rows, cols int) error {
	switch m.state {
	case StateClosed:
		return ErrClosed
	case StateUninitialized:
		return errors.WithStack(ErrNotFitted)
	}
	if m.opts.strictColumns && m.cols > 0 && cols != m.cols {
		return invalidArgument("model expects %d columns, got %d", m.cols, cols)
	}
	if len(dst) < rows {
		return invalidArgument("output buffer holds %d values, want %d", len(dst), rows)
	}

	dm, err := newDataMatrix(m.engine, features, nil, rows, cols, m.opts)
	if err != nil {
		return err
	}
	defer m.releaseMatrix(dm)

	borrowed, err := m.booster.Predict(dm.native)
	if err != nil {
		return classify(err, ErrPrediction, "predict %d rows", rows)
	}
	if len(borrowed) != rows {
		return errors.Wrapf(ErrPrediction, "library returned %d values for %d rows", len(borrowed), rows)
	}
	copy(dst[:rows], borrowed)
	return nil
}

// Save writes the booster to path.
func (m *Model) Save(path string) error {
	switch m.state {
	case StateClosed:
		return ErrClosed
	case StateUninitialized:
		return errors.Mark(errors.Wrapf(ErrNotFitted, "save %s", path), ErrSerialization)
	}
	if path == "" {
		return invalidArgument("empty model path")
	}
	if err := m.booster.Save(path); err != nil {
		return classify(err, ErrSerialization, "save model %s", path)
	}
	m.opts.logger.Debugw("xgboost model saved", "path", path)
	return nil
}

// Close releases the booster. Subsequent calls are no-ops and every other
// operation fails with ErrClosed.
func (m *Model) Close() error {
	if m == nil || m.state == StateClosed {
		return nil
	}
	booster := m.booster
	m.booster = nil
	m.state = StateClosed
	m.params = NewParams()
	if booster == nil {
		return nil
	}
	return booster.Free()
}

func (m *Model) releaseMatrix(dm *DataMatrix) {
	if err := dm.Close(); err != nil {
		m.opts.logger.Warnw("xgboost matrix release failed", "rows", dm.rows, "cols", dm.cols, "error", err)
	}
}

func releaseBooster(logger StructuredLogger, booster NativeBooster) {
	if err := booster.Free(); err != nil {
		logger.Warnw("xgboost booster release failed", "error", err)
	}
}
