// Package xgb owns the native XGBoost resources behind a small Go API: a
// DataMatrix that stages a flat row-major buffer for a single call, and a
// Model that drives fit, predict, save and load against one booster.
package xgb

import "fmt"

// Engine abstracts the native library so the ownership rules in this package
// can be exercised without libxgboost.
type Engine interface {
	// NewMatrix copies a dense row-major buffer into a native matrix.
	NewMatrix(data []float32, rows, cols int, missing float32) (NativeMatrix, error)
	// NewBooster allocates a booster bound to the given training matrices.
	// With no matrices the booster is meant to be populated by Load.
	NewBooster(train ...NativeMatrix) (NativeBooster, error)
	// Version reports the native library version.
	Version() (Version, error)
}

// NativeMatrix is a native DMatrix handle.
type NativeMatrix interface {
	SetLabels(labels []float32) error
	Labels() ([]float32, error)
	Free() error
}

// NativeBooster is a native booster handle.
type NativeBooster interface {
	SetParam(name, value string) error
	UpdateOneIter(iter int, train NativeMatrix) error
	// Predict returns memory owned by the library. The slice is only valid
	// until the next call on the booster or the release of m, and must not be
	// freed by the caller.
	Predict(m NativeMatrix) ([]float32, error)
	NumFeatures() (int, error)
	Save(path string) error
	Load(path string) error
	Free() error
}

// Version is a native library version.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
