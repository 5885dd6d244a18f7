package failure

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// AssertionError is raised by the expectation engine when an expectation is
// not met. It is never raised by the runner itself.
type AssertionError struct {
	Message string
	Cause   error // Error that caused the failure, if any
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return e.Message
}

func (e *AssertionError) Unwrap() error {
	return e.Cause
}

// Assertionf builds an AssertionError from a format string.
func Assertionf(format string, args ...any) *AssertionError {
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

// ConfigError signals misuse of the DSL rather than a failed expectation:
// a declaration outside any describe, a missing fixture name, a callable with
// an unsupported signature or an unknown error kind.
type ConfigError struct {
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return e.Message
}

// Configf builds a ConfigError from a format string.
func Configf(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// PanicError wraps a recovered panic value together with the stack of the
// goroutine that panicked. Value may itself be an error, such as a
// runtime.Error from a nil dereference.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns Value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Kind classifies the outcome of a guarded region.
type Kind int

const (
	KindNone    Kind = iota // nothing raised
	KindFailure             // an expectation failed
	KindError               // any other fault
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFailure:
		return "failure"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Classify reports which taxonomy err belongs to.
// Uses errors.As so that wrapped assertion errors still count as failures.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var ae *AssertionError
	if errors.As(err, &ae) {
		return KindFailure
	}
	return KindError
}

// IsConfig reports whether err is or wraps a *ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// FromPanic converts a recovered panic value into an error.
// Assertion and config errors are returned unchanged, since panicking is how
// they are raised. Anything else, errors included, is wrapped in a
// *PanicError carrying the current stack. Call it from the deferred recover
// so the stack still holds the panicking frames.
func FromPanic(r any) error {
	switch err := r.(type) {
	case *AssertionError:
		return err
	case *ConfigError:
		return err
	}
	return &PanicError{Value: r, Stack: debug.Stack()}
}

// Guard runs fn, converting a panic into an error. The error returned by fn
// and the recovered panic are reported the same way.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = FromPanic(r)
		}
	}()
	return fn()
}
