package shim

import (
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/rocketbitz/xgboost-go/xgb"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: StatusOK},
		{name: "unknown handle", err: errors.Wrap(xgb.ErrInvalidHandle{Resource: "model"}, "handle 7"), want: StatusInvalidHandle},
		{name: "closed", err: xgb.ErrClosed, want: StatusInvalidHandle},
		{name: "invalid argument", err: errors.Wrap(xgb.ErrInvalidArgument, "rows"), want: StatusInvalidArgument},
		{name: "foreign matrix", err: errors.Mark(xgb.ErrInvalidHandle{Resource: "dmatrix"}, xgb.ErrResourceCreation), want: StatusResourceCreation},
		{name: "model load", err: errors.Mark(errors.New("bad magic"), xgb.ErrModelLoad), want: StatusModelLoad},
		{name: "unfitted save", err: errors.Mark(xgb.ErrNotFitted, xgb.ErrSerialization), want: StatusSerialization},
		{name: "not fitted", err: errors.WithStack(xgb.ErrNotFitted), want: StatusNotFitted},
		{name: "training", err: errors.Mark(errors.New("nan gradient"), xgb.ErrTraining), want: StatusNative},
		{name: "panic", err: &PanicError{Value: "boom", Operation: OpFit}, want: StatusPanic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusCode(tc.err); got != tc.want {
				t.Fatalf("StatusCode = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestStatusName(t *testing.T) {
	for code, want := range map[int]string{
		StatusOK:              "ok",
		StatusInvalidHandle:   "invalid_handle",
		StatusInvalidArgument: "invalid_argument",
		StatusPanic:           "panic",
		StatusNative:          "native",
		-99:                   "native",
	} {
		if got := StatusName(code); got != want {
			t.Fatalf("StatusName(%d) = %q, want %q", code, got, want)
		}
	}
}
