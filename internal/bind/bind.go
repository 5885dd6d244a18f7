package bind

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/jafar/internal/failure"
)

// Context maps fixture names to values.
type Context map[string]any

var (
	errorType   = reflect.TypeFor[error]()
	contextType = reflect.TypeFor[Context]()
	mapType     = reflect.TypeFor[map[string]any]()
)

// Merge returns a new Context holding c's entries overridden by each of
// others in order. c is never modified.
func (c Context) Merge(others ...Context) Context {
	size := len(c)
	for _, o := range others {
		size += len(o)
	}
	merged := make(Context, size)
	for k, v := range c {
		merged[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			merged[k] = v
		}
	}
	return merged
}

// resultShape describes which values a callable returns.
type resultShape int

const (
	returnsNothing resultShape = iota
	returnsError
	returnsContext
	returnsContextAndError
)

// Callable is a function together with the fixture names of its parameters.
type Callable struct {
	fn     reflect.Value
	names  []string
	shape  resultShape
	source string // fn's type, for messages
}

// New validates fn against names and returns a Callable.
//
// fn must be a func whose arity equals len(names). It may return nothing,
// an error, a Context (or map[string]any), or a Context and an error.
// Anything else is a *failure.ConfigError.
func New(fn any, names ...string) (*Callable, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, failure.Configf("expected a function, got %T", fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, failure.Configf("%s: variadic functions cannot bind fixtures", t)
	}
	if t.NumIn() != len(names) {
		return nil, failure.Configf("%s takes %d parameter(s) but %d fixture name(s) were declared: %s",
			t, t.NumIn(), len(names), strings.Join(names, ", "))
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return nil, failure.Configf("%s: fixture names must not be empty", t)
		}
		if seen[name] {
			return nil, failure.Configf("%s: fixture %q declared twice", t, name)
		}
		seen[name] = true
	}

	shape, err := shapeOf(t)
	if err != nil {
		return nil, err
	}

	return &Callable{
		fn:     v,
		names:  append([]string(nil), names...),
		shape:  shape,
		source: t.String(),
	}, nil
}

// MustNew is New, panicking on error.
func MustNew(fn any, names ...string) *Callable {
	c, err := New(fn, names...)
	if err != nil {
		panic(err)
	}
	return c
}

func shapeOf(t reflect.Type) (resultShape, error) {
	isContext := func(rt reflect.Type) bool { return rt == contextType || rt == mapType }

	switch {
	case t.NumOut() == 0:
		return returnsNothing, nil
	case t.NumOut() == 1 && t.Out(0) == errorType:
		return returnsError, nil
	case t.NumOut() == 1 && isContext(t.Out(0)):
		return returnsContext, nil
	case t.NumOut() == 2 && isContext(t.Out(0)) && t.Out(1) == errorType:
		return returnsContextAndError, nil
	}
	return 0, failure.Configf("%s: results must be (), (error), (bind.Context) or (bind.Context, error)", t)
}

// Names returns the declared fixture names in parameter order.
func (c *Callable) Names() []string {
	return append([]string(nil), c.names...)
}

// Resolve looks up each declared name in ctx and returns the arguments in
// parameter order. A missing name or a value of the wrong type is a
// *failure.ConfigError.
func (c *Callable) Resolve(ctx Context) ([]reflect.Value, error) {
	t := c.fn.Type()
	args := make([]reflect.Value, len(c.names))
	for i, name := range c.names {
		value, ok := ctx[name]
		if !ok {
			return nil, failure.Configf("%s needs a %s parameter.", c.source, name)
		}
		arg, err := convert(value, t.In(i))
		if err != nil {
			return nil, failure.Configf("%s: fixture %q: %v", c.source, name, err)
		}
		args[i] = arg
	}
	return args, nil
}

// Apply resolves the callable's fixtures from ctx, calls it, and returns the
// Context and error it produced. A callable that returns no Context yields nil.
// Panics raised by the function are not recovered.
func (c *Callable) Apply(ctx Context) (Context, error) {
	args, err := c.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	out := c.fn.Call(args)

	switch c.shape {
	case returnsError:
		return nil, asError(out[0])
	case returnsContext:
		return asContext(out[0]), nil
	case returnsContextAndError:
		return asContext(out[0]), asError(out[1])
	default:
		return nil, nil
	}
}

func convert(value any, want reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch want.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(want), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not a valid %s", want)
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(want) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), want)
	}
	return v, nil
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

func asContext(v reflect.Value) Context {
	if v.IsNil() {
		return nil
	}
	if v.Type() == contextType {
		return v.Interface().(Context)
	}
	return Context(v.Interface().(map[string]any))
}
