package expect

import (
	"fmt"

	"github.com/roach88/jafar/internal/failure"
	"github.com/roach88/jafar/internal/inspect"
)

// ToBeThrownFrom asserts that calling fn raises an error of the kind held by
// the subject. fn is a func() or func() error; it raises by panicking or by
// returning a non-nil error. The subject is an ErrorKind (see ErrorOf) or a
// sentinel error. It ends the chain and returns the raised error.
//
//	expect.That(expect.ErrorOf[*strconv.NumError]()).ToBeThrownFrom(func() error {
//	    _, err := strconv.Atoi("x")
//	    return err
//	})
func (v *Verifier) ToBeThrownFrom(fn any) error {
	kind := v.mustKind()
	err, _ := capture(mustBlock(fn))

	switch {
	case err == nil:
		panic(failure.Assertionf("Expected block to throw a %s error.", kind))
	case !kind.Matches(err):
		panic(&failure.AssertionError{
			Message: fmt.Sprintf("Block threw an unexpected %T error.", err),
			Cause:   err,
		})
	}
	return err
}

// ToNotBeThrownFrom asserts that calling fn does not raise an error of the
// subject's kind. An error of any other kind is raised again unchanged.
func (v *Verifier) ToNotBeThrownFrom(fn any) {
	kind := v.mustKind()
	err, recovered := capture(mustBlock(fn))
	if err == nil {
		return
	}
	if kind.Matches(err) {
		panic(failure.Assertionf("Block should not have thrown a %s error, but it did.", kind))
	}
	if recovered != nil {
		panic(recovered)
	}
	panic(err)
}

func (v *Verifier) mustKind() ErrorKind {
	kind, err := resolveKind(v.value)
	if err != nil {
		panic(err)
	}
	return kind
}

func mustBlock(fn any) func() error {
	switch f := fn.(type) {
	case func() error:
		if f != nil {
			return f
		}
	case func():
		if f != nil {
			return func() error {
				f()
				return nil
			}
		}
	}
	panic(failure.Configf("Block must be a func() or func() error, got %s.", inspect.Value(fn)))
}

// capture calls fn and returns what it raised. recovered holds the original
// panic value when fn panicked. A panicked error is returned as is.
func capture(fn func() error) (err error, recovered any) {
	defer func() {
		if r := recover(); r != nil {
			recovered = r
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = failure.FromPanic(r)
		}
	}()
	return fn(), nil
}
