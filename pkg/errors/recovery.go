package errors

import (
	"fmt"
	"runtime/debug"
)

// RecoverPanic turns a value returned by recover() into an ErrInternal whose details
// carry the stack. It returns nil when nothing was recovered.
func RecoverPanic(recovered interface{}) error {
	if recovered == nil {
		return nil
	}

	cause, ok := recovered.(error)
	if !ok {
		cause = fmt.Errorf("panic: %v", recovered)
	}

	return ErrInternal.
		WithCause(cause).
		WithDetail("panic", true).
		WithDetail("stack_trace", string(debug.Stack()))
}

// Capture runs fn and reports a panic inside it as an error instead of unwinding
// the caller.
func Capture(fn func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = RecoverPanic(recovered)
		}
	}()
	return fn()
}
