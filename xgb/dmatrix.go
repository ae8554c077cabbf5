package xgb

import (
	"math"

	"github.com/cockroachdb/errors"
)

// DataMatrix owns exactly one native matrix built from a caller buffer. It is
// scoped to a single fit or predict call and must be closed by its creator;
// the caller keeps ownership of the buffers it was built from.
type DataMatrix struct {
	native    NativeMatrix
	rows      int
	cols      int
	hasLabels bool
}

// NewDataMatrix stages a features-only matrix for inference.
func NewDataMatrix(engine Engine, features []float32, rows, cols int, opts ...Option) (*DataMatrix, error) {
	return newDataMatrix(engine, features, nil, rows, cols, buildOptions(opts))
}

// NewTrainingMatrix stages a matrix and attaches labels to its label slot.
// labels must hold exactly rows values.
func NewTrainingMatrix(engine Engine, features, labels []float32, rows, cols int, opts ...Option) (*DataMatrix, error) {
	if labels == nil {
		return nil, invalidArgument("training matrix requires labels")
	}
	return newDataMatrix(engine, features, labels, rows, cols, buildOptions(opts))
}

func newDataMatrix(engine Engine, features, labels []float32, rows, cols int, o options) (*DataMatrix, error) {
	if engine == nil {
		return nil, invalidArgument("nil engine")
	}
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrResourceCreation, "matrix dimensions %dx%d must be positive", rows, cols)
	}
	if rows > math.MaxInt/cols {
		return nil, invalidArgument("matrix dimensions %dx%d overflow", rows, cols)
	}
	if len(features) != rows*cols {
		return nil, invalidArgument("features hold %d values, want %d (%d rows x %d cols)", len(features), rows*cols, rows, cols)
	}
	if labels != nil && len(labels) != rows {
		return nil, invalidArgument("labels hold %d values, want %d rows", len(labels), rows)
	}

	native, err := engine.NewMatrix(features, rows, cols, o.missing)
	if err != nil {
		return nil, classify(err, ErrResourceCreation, "create %dx%d matrix", rows, cols)
	}
	if native == nil {
		return nil, errors.Wrap(ErrResourceCreation, "engine returned a nil matrix")
	}

	d := &DataMatrix{native: native, rows: rows, cols: cols}
	if labels != nil {
		if err := native.SetLabels(labels); err != nil {
			if ferr := native.Free(); ferr != nil {
				o.logger.Warnw("xgboost matrix release failed", "error", ferr)
			}
			return nil, classify(err, ErrResourceCreation, "attach %d labels", len(labels))
		}
		d.hasLabels = true
	}
	return d, nil
}

// Rows reports the row count.
func (d *DataMatrix) Rows() int {
	if d == nil {
		return 0
	}
	return d.rows
}

// Cols reports the column count.
func (d *DataMatrix) Cols() int {
	if d == nil {
		return 0
	}
	return d.cols
}

// HasLabels reports whether labels were attached.
func (d *DataMatrix) HasLabels() bool {
	return d != nil && d.hasLabels
}

// Labels reads the label slot back from the native matrix.
func (d *DataMatrix) Labels() ([]float32, error) {
	if d == nil || d.native == nil {
		return nil, ErrInvalidHandle{"dmatrix"}
	}
	if !d.hasLabels {
		return nil, nil
	}
	return d.native.Labels()
}

// Close releases the native matrix. The handle is dropped before the release
// so later calls are no-ops even if the library reports a failure.
func (d *DataMatrix) Close() error {
	if d == nil || d.native == nil {
		return nil
	}
	native := d.native
	d.native = nil
	return native.Free()
}
