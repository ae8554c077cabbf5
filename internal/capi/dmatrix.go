//go:build cgo

package capi

import "unsafe"

/*
#cgo LDFLAGS: -lxgboost
#include <stdlib.h>
#include <xgboost/c_api.h>
*/
import "C"

// DMatrix wraps an XGBoost DMatrixHandle.
type DMatrix struct {
	ptr C.DMatrixHandle
}

// CreateDMatrixFromMat builds a DMatrix from a dense row-major buffer. The
// library copies data before returning, so the caller keeps ownership.
func CreateDMatrixFromMat(data []float32, rows, cols uint64, missing float32) (*DMatrix, error) {
	if len(data) == 0 {
		return nil, &Error{Op: "XGDMatrixCreateFromMat", Message: "empty data buffer"}
	}
	var out C.DMatrixHandle
	err := call("XGDMatrixCreateFromMat", func() C.int {
		return C.XGDMatrixCreateFromMat((*C.float)(unsafe.Pointer(&data[0])), C.bst_ulong(rows), C.bst_ulong(cols), C.float(missing), &out)
	})
	if err != nil {
		return nil, err
	}
	return &DMatrix{ptr: out}, nil
}

// SetFloatInfo copies values into a float field of the matrix, such as "label".
func (d *DMatrix) SetFloatInfo(field string, values []float32) error {
	if d == nil || d.ptr == nil {
		return &Error{Op: "XGDMatrixSetFloatInfo", Message: "invalid or closed dmatrix handle"}
	}
	if len(values) == 0 {
		return &Error{Op: "XGDMatrixSetFloatInfo", Message: "empty " + field + " buffer"}
	}
	cField := C.CString(field)
	defer C.free(unsafe.Pointer(cField))

	return call("XGDMatrixSetFloatInfo", func() C.int {
		return C.XGDMatrixSetFloatInfo(d.ptr, cField, (*C.float)(unsafe.Pointer(&values[0])), C.bst_ulong(len(values)))
	})
}

// FloatInfo returns a copy of a float field of the matrix.
func (d *DMatrix) FloatInfo(field string) ([]float32, error) {
	if d == nil || d.ptr == nil {
		return nil, &Error{Op: "XGDMatrixGetFloatInfo", Message: "invalid or closed dmatrix handle"}
	}
	cField := C.CString(field)
	defer C.free(unsafe.Pointer(cField))

	var outLen C.bst_ulong
	var outPtr *C.float
	err := call("XGDMatrixGetFloatInfo", func() C.int {
		return C.XGDMatrixGetFloatInfo(d.ptr, cField, &outLen, &outPtr)
	})
	if err != nil {
		return nil, err
	}
	if outLen == 0 || outPtr == nil {
		return nil, nil
	}
	out := make([]float32, int(outLen))
	copy(out, unsafe.Slice((*float32)(unsafe.Pointer(outPtr)), int(outLen)))
	return out, nil
}

// NumRow reports the number of rows stored in the matrix.
func (d *DMatrix) NumRow() (uint64, error) {
	if d == nil || d.ptr == nil {
		return 0, &Error{Op: "XGDMatrixNumRow", Message: "invalid or closed dmatrix handle"}
	}
	var out C.bst_ulong
	if err := call("XGDMatrixNumRow", func() C.int { return C.XGDMatrixNumRow(d.ptr, &out) }); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// NumCol reports the number of columns stored in the matrix.
func (d *DMatrix) NumCol() (uint64, error) {
	if d == nil || d.ptr == nil {
		return 0, &Error{Op: "XGDMatrixNumCol", Message: "invalid or closed dmatrix handle"}
	}
	var out C.bst_ulong
	if err := call("XGDMatrixNumCol", func() C.int { return C.XGDMatrixNumCol(d.ptr, &out) }); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// Free releases the matrix handle. The handle is cleared even when the library
// reports a failure so it can never be freed twice.
func (d *DMatrix) Free() error {
	if d == nil || d.ptr == nil {
		return nil
	}
	ptr := d.ptr
	d.ptr = nil
	return call("XGDMatrixFree", func() C.int { return C.XGDMatrixFree(ptr) })
}
