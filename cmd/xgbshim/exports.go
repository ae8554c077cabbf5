//go:build cgo

package main

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"math"
	"os"
	"unsafe"

	"go.uber.org/zap"

	"github.com/rocketbitz/xgboost-go/shim"
	"github.com/rocketbitz/xgboost-go/xgb"
)

// minimumNative is the oldest libxgboost whose C API matches these bindings.
var minimumNative = xgb.Version{Major: 1, Minor: 0}

var table = newTable()

func newTable() *shim.Table {
	t, err := shim.NewFromEnv(os.Getenv)
	if err != nil {
		warn("xgbshim configuration ignored", err)
	}
	if err := xgb.CheckNativeVersion(minimumNative); err != nil {
		warn("xgbshim native library version check failed", err)
	}
	return t
}

func warn(msg string, err error) {
	logger, lerr := zap.NewProduction()
	if lerr != nil {
		return
	}
	logger.Sugar().Warnw(msg, "error", err)
	_ = logger.Sync()
}

func floats(p *C.float, n int) []float32 {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(p)), n)
}

// dims converts C dimensions and returns the element count, or 0 when it
// would not fit in an int.
func dims(rows, cols C.size_t) (int, int, int) {
	r, c := int(rows), int(cols)
	if r <= 0 || c <= 0 || r > math.MaxInt/c {
		return r, c, 0
	}
	return r, c, r * c
}

//export XGBShimCreate
func XGBShimCreate(rounds C.uint) C.uintptr_t {
	return C.uintptr_t(table.Create(int(rounds)))
}

//export XGBShimLoad
func XGBShimLoad(path *C.char) C.uintptr_t {
	h, _ := table.Load(C.GoString(path))
	return C.uintptr_t(h)
}

//export XGBShimDestroy
func XGBShimDestroy(h C.uintptr_t) {
	table.Destroy(shim.Handle(h))
}

//export XGBShimSetParam
func XGBShimSetParam(h C.uintptr_t, name, value *C.char) C.int {
	return C.int(shim.StatusCode(table.SetParam(shim.Handle(h), C.GoString(name), C.GoString(value))))
}

//export XGBShimFit
func XGBShimFit(h C.uintptr_t, xs, ys *C.float, rows, cols C.size_t) C.int {
	r, c, n := dims(rows, cols)
	err := table.Fit(shim.Handle(h), floats(xs, n), floats(ys, r), r, c)
	return C.int(shim.StatusCode(err))
}

//export XGBShimPredict
func XGBShimPredict(h C.uintptr_t, xs *C.float, rows, cols C.size_t, out *C.float) C.int {
	r, c, n := dims(rows, cols)
	err := table.Predict(shim.Handle(h), floats(xs, n), r, c, floats(out, r))
	return C.int(shim.StatusCode(err))
}

//export XGBShimSave
func XGBShimSave(h C.uintptr_t, path *C.char) C.int {
	return C.int(shim.StatusCode(table.Save(shim.Handle(h), C.GoString(path))))
}

// XGBShimLastError copies the last failure message recorded for h into buf
// as a NUL-terminated string, truncating to size-1 bytes. It returns the full
// message length, so a return value >= size means the message was truncated.
//
//export XGBShimLastError
func XGBShimLastError(h C.uintptr_t, buf *C.char, size C.size_t) C.size_t {
	msg := table.LastError(shim.Handle(h))
	if size > C.size_t(math.MaxInt32) {
		size = C.size_t(math.MaxInt32)
	}
	if buf != nil && size > 0 {
		dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(size))
		n := copy(dst[:len(dst)-1], msg)
		dst[n] = 0
	}
	return C.size_t(len(msg))
}

//export XGBShimVersion
func XGBShimVersion(major, minor, patch *C.int) C.int {
	v, err := table.Version()
	if err != nil {
		return C.int(shim.StatusCode(err))
	}
	if major != nil {
		*major = C.int(v.Major)
	}
	if minor != nil {
		*minor = C.int(v.Minor)
	}
	if patch != nil {
		*patch = C.int(v.Patch)
	}
	return C.int(shim.StatusOK)
}
