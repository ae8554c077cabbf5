package shim

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestRecoverConvertsPanic(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err, "predict")
		var out []float32
		out[3] = 1
		return nil
	}

	err := run()
	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %T: %v", err, err)
	}
	if !strings.HasPrefix(panicErr.Error(), "panic in predict: ") {
		t.Fatalf("unexpected message %q", panicErr.Error())
	}
	if panicErr.Stack == "" {
		t.Fatalf("expected stack trace")
	}
}

func TestRecoverKeepsExistingError(t *testing.T) {
	original := errors.New("validation failed")
	run := func() (err error) {
		defer Recover(&err, "fit")
		err = original
		panic("late failure")
	}

	err := run()
	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("expected PanicError, got %T", err)
	}
	if !errors.Is(err, original) {
		t.Fatalf("original error not kept: %v", err)
	}
}

func TestRecoverWithoutPanic(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err, "save")
		return errors.New("plain failure")
	}
	if err := run(); err == nil || err.Error() != "plain failure" {
		t.Fatalf("unexpected error %v", err)
	}
}
