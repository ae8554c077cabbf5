package xgb

import (
	"gonum.org/v1/gonum/mat"
)

// FlattenDense copies X into the row-major float32 layout the native library
// expects and returns it with its dimensions.
func FlattenDense(X mat.Matrix) ([]float32, int, int) {
	if X == nil {
		return nil, 0, 0
	}
	rows, cols := X.Dims()
	out := make([]float32, rows*cols)
	if raw, ok := X.(mat.RawMatrixer); ok {
		blas := raw.RawMatrix()
		for i := 0; i < rows; i++ {
			row := blas.Data[i*blas.Stride : i*blas.Stride+cols]
			for j, v := range row {
				out[i*cols+j] = float32(v)
			}
		}
		return out, rows, cols
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[i*cols+j] = float32(X.At(i, j))
		}
	}
	return out, rows, cols
}

// FitDense trains on a gonum matrix and one target per row.
func (m *Model) FitDense(X mat.Matrix, y []float64) error {
	if X == nil {
		return invalidArgument("nil feature matrix")
	}
	features, rows, cols := FlattenDense(X)
	if len(y) != rows {
		return invalidArgument("targets hold %d values, want %d rows", len(y), rows)
	}
	labels := make([]float32, len(y))
	for i, v := range y {
		labels[i] = float32(v)
	}
	return m.Fit(features, labels, rows, cols)
}

// PredictDense predicts one value per row of X.
func (m *Model) PredictDense(X mat.Matrix) (*mat.VecDense, error) {
	if X == nil {
		return nil, invalidArgument("nil feature matrix")
	}
	features, rows, cols := FlattenDense(X)
	preds, err := m.Predict(features, rows, cols)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(preds))
	for i, v := range preds {
		out[i] = float64(v)
	}
	return mat.NewVecDense(len(out), out), nil
}
