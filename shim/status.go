package shim

import (
	"github.com/cockroachdb/errors"

	"github.com/rocketbitz/xgboost-go/xgb"
)

// Status codes returned across the C boundary.
const (
	StatusOK               = 0
	StatusInvalidHandle    = -1
	StatusInvalidArgument  = -2
	StatusResourceCreation = -3
	StatusModelLoad        = -4
	StatusSerialization    = -5
	StatusNotFitted        = -6
	StatusNative           = -7
	StatusPanic            = -8
)

// StatusCode maps an error returned by a Table method to a status code.
func StatusCode(err error) int {
	if err == nil {
		return StatusOK
	}
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		return StatusPanic
	}
	var handleErr xgb.ErrInvalidHandle
	if errors.As(err, &handleErr) && handleErr.Resource == "model" {
		return StatusInvalidHandle
	}
	switch {
	case errors.Is(err, xgb.ErrClosed):
		return StatusInvalidHandle
	case errors.Is(err, xgb.ErrInvalidArgument):
		return StatusInvalidArgument
	case errors.Is(err, xgb.ErrResourceCreation):
		return StatusResourceCreation
	case errors.Is(err, xgb.ErrModelLoad):
		return StatusModelLoad
	case errors.Is(err, xgb.ErrSerialization):
		return StatusSerialization
	case errors.Is(err, xgb.ErrNotFitted):
		return StatusNotFitted
	default:
		return StatusNative
	}
}

// StatusName returns a short label for a status code.
func StatusName(code int) string {
	switch code {
	case StatusOK:
		return "ok"
	case StatusInvalidHandle:
		return "invalid_handle"
	case StatusInvalidArgument:
		return "invalid_argument"
	case StatusResourceCreation:
		return "resource_creation"
	case StatusModelLoad:
		return "model_load"
	case StatusSerialization:
		return "serialization"
	case StatusNotFitted:
		return "not_fitted"
	case StatusPanic:
		return "panic"
	default:
		return "native"
	}
}
