package expect

import (
	"errors"
	"reflect"
	"strconv"

	"github.com/roach88/jafar/internal/failure"
	"github.com/roach88/jafar/internal/inspect"
)

var errorType = reflect.TypeFor[error]()

// Type identifies a Go type for ToBeA.
type Type struct {
	rt reflect.Type
}

// TypeOf returns the Type token for T. T may be an interface, in which case
// any value implementing it matches.
func TypeOf[T any]() Type {
	return Type{rt: reflect.TypeFor[T]()}
}

// String returns the Go name of the type.
func (t Type) String() string {
	if t.rt == nil {
		return "<nil type>"
	}
	return t.rt.String()
}

// matches reports whether a value of type rt is an instance of t: the same
// type, a pointer to it, an implementation of it, or a struct embedding it.
func (t Type) matches(rt reflect.Type) bool {
	if t.rt == nil || rt == nil {
		return false
	}
	if t.rt.Kind() == reflect.Interface {
		return rt.Implements(t.rt)
	}
	if rt == t.rt || (rt.Kind() == reflect.Pointer && rt.Elem() == t.rt) {
		return true
	}
	return embeds(rt, t.rt, 0)
}

func embeds(rt, target reflect.Type, depth int) bool {
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct || depth > maxDepth {
		return false
	}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft == target || (ft.Kind() == reflect.Pointer && ft.Elem() == target) {
			return true
		}
		if embeds(ft, target, depth+1) {
			return true
		}
	}
	return false
}

// ErrorKind identifies a kind of error for the throw assertions.
type ErrorKind interface {
	// Matches reports whether err is of this kind.
	Matches(err error) bool
	String() string
}

// typeKind matches errors by type, as errors.As does.
type typeKind struct {
	rt reflect.Type
}

// ErrorOf returns the ErrorKind matching any error in a chain whose type is T.
// Using it with a T that does not implement error is a configuration error,
// reported when the assertion runs.
func ErrorOf[T any]() ErrorKind {
	return typeKind{rt: reflect.TypeFor[T]()}
}

func (k typeKind) validate() error {
	if k.rt.Kind() == reflect.Interface || k.rt.Implements(errorType) {
		return nil
	}
	return failure.Configf("No such error kind: %s does not implement error.", k.rt)
}

func (k typeKind) Matches(err error) bool {
	if err == nil || k.validate() != nil {
		return false
	}
	target := reflect.New(k.rt)
	return errors.As(err, target.Interface())
}

func (k typeKind) String() string {
	return k.rt.String()
}

// sentinelKind matches errors by identity, as errors.Is does.
type sentinelKind struct {
	err error
}

func (k sentinelKind) Matches(err error) bool {
	return errors.Is(err, k.err)
}

func (k sentinelKind) String() string {
	return strconv.Quote(k.err.Error())
}

// resolveKind turns an expectation subject into an ErrorKind.
func resolveKind(v any) (ErrorKind, error) {
	switch k := v.(type) {
	case typeKind:
		if err := k.validate(); err != nil {
			return nil, err
		}
		return k, nil
	case ErrorKind:
		return k, nil
	case error:
		return sentinelKind{err: k}, nil
	default:
		return nil, failure.Configf("No such error kind: %s.", inspect.Value(v))
	}
}
