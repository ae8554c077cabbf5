package xgb

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrResourceCreation indicates that a native matrix or booster could not be created.
	ErrResourceCreation = errors.New("xgboost: native resource creation failed")
	// ErrInvalidArgument indicates a caller contract violation such as a
	// dimension mismatch or an empty path.
	ErrInvalidArgument = errors.New("xgboost: invalid argument")
	// ErrModelLoad indicates that a serialized model could not be loaded.
	ErrModelLoad = errors.New("xgboost: model load failed")
	// ErrSerialization indicates that the model could not be written.
	ErrSerialization = errors.New("xgboost: model save failed")
	// ErrNotFitted indicates that the model holds no booster yet.
	ErrNotFitted = errors.New("xgboost: model is neither fitted nor loaded")
	// ErrTraining indicates that a boosting iteration or parameter update failed.
	ErrTraining = errors.New("xgboost: training failed")
	// ErrPrediction indicates that native inference failed or returned an
	// unexpected number of values.
	ErrPrediction = errors.New("xgboost: prediction failed")
	// ErrClosed indicates that the model has already been closed.
	ErrClosed = errors.New("xgboost: model closed")
	// ErrNativeUnavailable indicates the binary was built without cgo.
	ErrNativeUnavailable = errors.New("xgboost: native library unavailable (built without cgo)")
)

// ErrInvalidHandle reports a nil, closed or foreign native handle.
type ErrInvalidHandle struct {
	Resource string
}

func (e ErrInvalidHandle) Error() string {
	return "invalid or closed " + e.Resource + " handle"
}

// classify tags a native failure with one of the package sentinels while
// keeping the native message and any wrapped cause reachable.
func classify(err error, kind error, format string, args ...any) error {
	return errors.Wrapf(errors.Mark(err, kind), format, args...)
}

func invalidArgument(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
