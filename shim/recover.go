package shim

import (
	"fmt"
	"runtime/debug"
)

// PanicError is an error built from a panic recovered inside a table
// operation.
type PanicError struct {
	// Value is the value passed to panic.
	Value any
	// Stack is the goroutine stack at the time of recovery.
	Stack string
	// Operation names the table operation that panicked.
	Operation string
	// Cause is the error the operation had already returned, if any.
	Cause error
}

func (e *PanicError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("panic in %s: %v (after: %v)", e.Operation, e.Value, e.Cause)
	}
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.Value)
}

func (e *PanicError) Unwrap() error {
	return e.Cause
}

// Recover converts a panic into a *PanicError stored in *err. Use it with
// defer in functions with a named error result. An error already set is kept
// as the cause.
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	*err = &PanicError{Value: r, Stack: string(debug.Stack()), Operation: operation, Cause: *err}
}
