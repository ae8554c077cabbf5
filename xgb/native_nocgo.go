//go:build !cgo

package xgb

type unavailableEngine struct{}

// DefaultEngine returns the engine used when none is configured. Without cgo
// there is no native library, so every call fails with ErrNativeUnavailable.
func DefaultEngine() Engine {
	return unavailableEngine{}
}

func (unavailableEngine) NewMatrix([]float32, int, int, float32) (NativeMatrix, error) {
	return nil, ErrNativeUnavailable
}

func (unavailableEngine) NewBooster(...NativeMatrix) (NativeBooster, error) {
	return nil, ErrNativeUnavailable
}

func (unavailableEngine) Version() (Version, error) {
	return Version{}, ErrNativeUnavailable
}

// CheckNativeVersion always fails without cgo.
func CheckNativeVersion(Version) error {
	return ErrNativeUnavailable
}
