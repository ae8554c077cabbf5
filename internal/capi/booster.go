//go:build cgo

package capi

import "unsafe"

/*
#cgo LDFLAGS: -lxgboost
#include <stdlib.h>
#include <xgboost/c_api.h>
*/
import "C"

// Booster wraps an XGBoost BoosterHandle.
type Booster struct {
	ptr C.BoosterHandle
}

func invalidBooster(op string) error {
	return &Error{Op: op, Message: "invalid or closed booster handle"}
}

// CreateBooster allocates a booster bound to the supplied training matrices.
// An empty list creates a booster meant to be populated by LoadModel.
func CreateBooster(dmats []*DMatrix) (*Booster, error) {
	handles := make([]C.DMatrixHandle, 0, len(dmats))
	for _, d := range dmats {
		if d == nil || d.ptr == nil {
			return nil, &Error{Op: "XGBoosterCreate", Message: "invalid or closed dmatrix handle"}
		}
		handles = append(handles, d.ptr)
	}

	var first *C.DMatrixHandle
	if len(handles) > 0 {
		first = &handles[0]
	}
	var out C.BoosterHandle
	err := call("XGBoosterCreate", func() C.int {
		return C.XGBoosterCreate(first, C.bst_ulong(len(handles)), &out)
	})
	if err != nil {
		return nil, err
	}
	return &Booster{ptr: out}, nil
}

// SetParam sets a single named parameter on the booster.
func (b *Booster) SetParam(name, value string) error {
	if b == nil || b.ptr == nil {
		return invalidBooster("XGBoosterSetParam")
	}
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	cValue := C.CString(value)
	defer C.free(unsafe.Pointer(cValue))

	return call("XGBoosterSetParam", func() C.int {
		return C.XGBoosterSetParam(b.ptr, cName, cValue)
	})
}

// UpdateOneIter runs one boosting iteration against the training matrix.
func (b *Booster) UpdateOneIter(iter int, dtrain *DMatrix) error {
	if b == nil || b.ptr == nil {
		return invalidBooster("XGBoosterUpdateOneIter")
	}
	if dtrain == nil || dtrain.ptr == nil {
		return &Error{Op: "XGBoosterUpdateOneIter", Message: "invalid or closed dmatrix handle"}
	}
	return call("XGBoosterUpdateOneIter", func() C.int {
		return C.XGBoosterUpdateOneIter(b.ptr, C.int(iter), dtrain.ptr)
	})
}

// Predict runs inference over dmat. The returned slice aliases memory owned by
// the library: it stays valid only until the next call on this booster or the
// release of dmat, and must never be freed by the caller.
func (b *Booster) Predict(dmat *DMatrix) ([]float32, error) {
	if b == nil || b.ptr == nil {
		return nil, invalidBooster("XGBoosterPredict")
	}
	if dmat == nil || dmat.ptr == nil {
		return nil, &Error{Op: "XGBoosterPredict", Message: "invalid or closed dmatrix handle"}
	}
	var outLen C.bst_ulong
	var outResult *C.float
	err := call("XGBoosterPredict", func() C.int {
		return C.XGBoosterPredict(b.ptr, dmat.ptr, 0, 0, 0, &outLen, &outResult)
	})
	if err != nil {
		return nil, err
	}
	if outLen == 0 || outResult == nil {
		return nil, nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(outResult)), int(outLen)), nil
}

// NumFeature reports the feature count the booster was trained with.
func (b *Booster) NumFeature() (uint64, error) {
	if b == nil || b.ptr == nil {
		return 0, invalidBooster("XGBoosterGetNumFeature")
	}
	var out C.bst_ulong
	if err := call("XGBoosterGetNumFeature", func() C.int { return C.XGBoosterGetNumFeature(b.ptr, &out) }); err != nil {
		return 0, err
	}
	return uint64(out), nil
}

// SaveModel writes the booster to fname.
func (b *Booster) SaveModel(fname string) error {
	if b == nil || b.ptr == nil {
		return invalidBooster("XGBoosterSaveModel")
	}
	cName := C.CString(fname)
	defer C.free(unsafe.Pointer(cName))
	return call("XGBoosterSaveModel", func() C.int { return C.XGBoosterSaveModel(b.ptr, cName) })
}

// LoadModel replaces the booster state with the model stored in fname.
func (b *Booster) LoadModel(fname string) error {
	if b == nil || b.ptr == nil {
		return invalidBooster("XGBoosterLoadModel")
	}
	cName := C.CString(fname)
	defer C.free(unsafe.Pointer(cName))
	return call("XGBoosterLoadModel", func() C.int { return C.XGBoosterLoadModel(b.ptr, cName) })
}

// Free releases the booster handle. The handle is cleared before the call so a
// second Free is a no-op.
func (b *Booster) Free() error {
	if b == nil || b.ptr == nil {
		return nil
	}
	ptr := b.ptr
	b.ptr = nil
	return call("XGBoosterFree", func() C.int { return C.XGBoosterFree(ptr) })
}
