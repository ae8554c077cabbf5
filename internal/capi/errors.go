//go:build cgo

package capi

import (
	"fmt"
	"runtime"
)

/*
#cgo LDFLAGS: -lxgboost
#include <xgboost/c_api.h>
*/
import "C"

// Error carries the message XGBoost recorded for a failed C API call.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return "xgboost: " + e.Message
	}
	return fmt.Sprintf("%s: xgboost: %s", e.Op, e.Message)
}

// LastError returns the message of the most recent failure on the calling
// thread, as reported by XGBGetLastError.
func LastError() string {
	msg := C.XGBGetLastError()
	if msg == nil {
		return ""
	}
	return C.GoString(msg)
}

// ErrorFromStatus converts an XGBoost C API status into a Go error. The C API
// returns 0 on success and -1 on failure, with the failure detail available
// from XGBGetLastError on the same thread.
func ErrorFromStatus(status int, op string) error {
	if status == 0 {
		return nil
	}
	msg := LastError()
	if msg == "" {
		msg = fmt.Sprintf("status %d", status)
	}
	return &Error{Op: op, Message: msg}
}

// call runs fn with the goroutine pinned to its OS thread so the thread-local
// XGBGetLastError message still belongs to fn when the status is converted.
func call(op string, fn func() C.int) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return ErrorFromStatus(int(fn()), op)
}
