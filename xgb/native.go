//go:build cgo

package xgb

import (
	"github.com/rocketbitz/xgboost-go/internal/capi"
)

type nativeEngine struct{}

// NativeEngine returns the Engine backed by the linked libxgboost.
func NativeEngine() Engine {
	return nativeEngine{}
}

// DefaultEngine returns the engine used when none is configured. Builds with
// cgo link libxgboost.
func DefaultEngine() Engine {
	return NativeEngine()
}

func (nativeEngine) NewMatrix(data []float32, rows, cols int, missing float32) (NativeMatrix, error) {
	d, err := capi.CreateDMatrixFromMat(data, uint64(rows), uint64(cols), missing)
	if err != nil {
		return nil, err
	}
	return &nativeMatrix{handle: d}, nil
}

func (nativeEngine) NewBooster(train ...NativeMatrix) (NativeBooster, error) {
	dmats := make([]*capi.DMatrix, 0, len(train))
	for _, m := range train {
		d, err := asNativeMatrix(m)
		if err != nil {
			return nil, err
		}
		dmats = append(dmats, d)
	}
	b, err := capi.CreateBooster(dmats)
	if err != nil {
		return nil, err
	}
	return &nativeBooster{handle: b}, nil
}

func (nativeEngine) Version() (Version, error) {
	v := capi.RuntimeVersion()
	return Version{Major: int(v.Major), Minor: int(v.Minor), Patch: int(v.Patch)}, nil
}

// CheckNativeVersion verifies that the linked libxgboost matches the major
// version of the headers it was compiled against and is at least minimum.
func CheckNativeVersion(minimum Version) error {
	if err := capi.EnsureRuntimeCompatible(); err != nil {
		return err
	}
	return capi.EnsureRuntimeAtLeast(capi.Version{Major: uint(minimum.Major), Minor: uint(minimum.Minor), Patch: uint(minimum.Patch)})
}

type nativeMatrix struct {
	handle *capi.DMatrix
}

func asNativeMatrix(m NativeMatrix) (*capi.DMatrix, error) {
	nm, ok := m.(*nativeMatrix)
	if !ok || nm == nil || nm.handle == nil {
		return nil, ErrInvalidHandle{"dmatrix"}
	}
	return nm.handle, nil
}

func (m *nativeMatrix) SetLabels(labels []float32) error {
	return m.handle.SetFloatInfo("label", labels)
}

func (m *nativeMatrix) Labels() ([]float32, error) {
	return m.handle.FloatInfo("label")
}

func (m *nativeMatrix) Free() error {
	if m.handle == nil {
		return nil
	}
	err := m.handle.Free()
	m.handle = nil
	return err
}

type nativeBooster struct {
	handle *capi.Booster
}

func (b *nativeBooster) SetParam(name, value string) error {
	return b.handle.SetParam(name, value)
}

func (b *nativeBooster) UpdateOneIter(iter int, train NativeMatrix) error {
	d, err := asNativeMatrix(train)
	if err != nil {
		return err
	}
	return b.handle.UpdateOneIter(iter, d)
}

func (b *nativeBooster) Predict(m NativeMatrix) ([]float32, error) {
	d, err := asNativeMatrix(m)
	if err != nil {
		return nil, err
	}
	return b.handle.Predict(d)
}

func (b *nativeBooster) NumFeatures() (int, error) {
	n, err := b.handle.NumFeature()
	return int(n), err
}

func (b *nativeBooster) Save(path string) error {
	return b.handle.SaveModel(path)
}

func (b *nativeBooster) Load(path string) error {
	return b.handle.LoadModel(path)
}

func (b *nativeBooster) Free() error {
	if b.handle == nil {
		return nil
	}
	err := b.handle.Free()
	b.handle = nil
	return err
}
