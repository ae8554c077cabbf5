//go:build cgo

package capi

import "fmt"

/*
#cgo LDFLAGS: -lxgboost
#include <xgboost/c_api.h>
#include <xgboost/version_config.h>

static inline int xgbgo_build_version_major(void) {
    return XGBOOST_VER_MAJOR;
}

static inline int xgbgo_build_version_minor(void) {
    return XGBOOST_VER_MINOR;
}

static inline int xgbgo_build_version_patch(void) {
    return XGBOOST_VER_PATCH;
}
*/
import "C"

// Version represents an XGBoost semantic version.
type Version struct {
	Major uint
	Minor uint
	Patch uint
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1 if v < other, 0 if equal, and 1 if v > other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major < other.Major:
		return -1
	case v.Major > other.Major:
		return 1
	case v.Minor < other.Minor:
		return -1
	case v.Minor > other.Minor:
		return 1
	case v.Patch < other.Patch:
		return -1
	case v.Patch > other.Patch:
		return 1
	default:
		return 0
	}
}

// RuntimeVersion queries the version reported by the linked libxgboost.
func RuntimeVersion() Version {
	var major, minor, patch C.int
	C.XGBoostVersion(&major, &minor, &patch)
	return Version{Major: uint(major), Minor: uint(minor), Patch: uint(patch)}
}

// BuildVersion reports the version encoded in the headers used at compile
// time. This can diverge from RuntimeVersion when linked against a different
// library release at runtime.
func BuildVersion() Version {
	return Version{
		Major: uint(C.xgbgo_build_version_major()),
		Minor: uint(C.xgbgo_build_version_minor()),
		Patch: uint(C.xgbgo_build_version_patch()),
	}
}

// EnsureRuntimeAtLeast validates that the runtime library is at least the
// provided version.
func EnsureRuntimeAtLeast(minimum Version) error {
	runtime := RuntimeVersion()
	if runtime.Compare(minimum) < 0 {
		return fmt.Errorf("xgboost runtime %s is older than required %s", runtime, minimum)
	}
	return nil
}

// EnsureRuntimeCompatible ensures the runtime version matches the headers'
// major version and is not older than their minor version.
func EnsureRuntimeCompatible() error {
	build := BuildVersion()
	runtime := RuntimeVersion()

	if runtime.Major != build.Major {
		return fmt.Errorf("xgboost major version mismatch: runtime %s, headers %s", runtime, build)
	}
	if runtime.Minor < build.Minor {
		return fmt.Errorf("xgboost runtime %s predates header minor version %s", runtime, build)
	}
	return nil
}
