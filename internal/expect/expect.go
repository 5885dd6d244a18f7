package expect

import (
	"reflect"
	"strings"

	"github.com/roach88/jafar/internal/failure"
	"github.com/roach88/jafar/internal/inspect"
)

// Verifier verifies aspects of one subject value.
type Verifier struct {
	value any
}

// That returns a Verifier for value.
func That(value any) *Verifier {
	return &Verifier{value: value}
}

// Check fails unless condition is truthy.
func Check(condition any, message ...string) {
	That(condition).ToRingTrue(message...)
}

// ToBe asserts the subject is strictly equal to expected.
func (v *Verifier) ToBe(expected any) *Verifier {
	return v.checkBinary(StrictEqual(v.value, expected), "===", expected)
}

// ToNotBe asserts the subject is not strictly equal to expected.
func (v *Verifier) ToNotBe(expected any) *Verifier {
	return v.checkBinary(!StrictEqual(v.value, expected), "!==", expected)
}

// ToEqual asserts the subject is loosely equal to expected. See LooseEqual
// for the coercion rules.
func (v *Verifier) ToEqual(expected any) *Verifier {
	return v.checkBinary(LooseEqual(v.value, expected), "==", expected)
}

// ToNotEqual asserts the subject is not loosely equal to expected.
func (v *Verifier) ToNotEqual(expected any) *Verifier {
	return v.checkBinary(!LooseEqual(v.value, expected), "!=", expected)
}

// ToRingTrue asserts the subject evaluates to true in a boolean context.
// The name comes from the English idiom "to ring true".
func (v *Verifier) ToRingTrue(message ...string) *Verifier {
	return v.check(Truthy(v.value), pick(message, "Expected {actual} to evaluate to true"), nil)
}

// ToRingFalse asserts the subject evaluates to false in a boolean context.
func (v *Verifier) ToRingFalse(message ...string) *Verifier {
	return v.check(!Truthy(v.value), pick(message, "Expected {actual} to evaluate to false"), nil)
}

// ToBeA asserts the subject is an object whose type is t, a pointer to t,
// implements t, or embeds t. t is a Type from TypeOf or a reflect.Type.
func (v *Verifier) ToBeA(t any) *Verifier {
	typ := typeToken(t)
	if !isObject(v.value) {
		v.raise("Expected {actual} to be an object.", nil)
	}
	if !typ.matches(reflect.TypeOf(v.value)) {
		v.raise("Expected {actual} to be a(n) {expected} object.", typ.String())
	}
	return v
}

// ToBeAn is ToBeA for type names beginning with a vowel.
func (v *Verifier) ToBeAn(t any) *Verifier {
	return v.ToBeA(t)
}

// ToBeIterable asserts the subject can be ranged over: a slice, array, map,
// channel, range-over-func iterator, or a value with an All method returning
// one. It ends the chain.
func (v *Verifier) ToBeIterable() bool {
	if !isIterable(v.value) {
		v.raise("Expected {actual} to be a slice, array, map, channel or iterator.", nil)
	}
	return true
}

// String describes the verifier and its subject.
func (v *Verifier) String() string {
	return "expect.Verifier(" + inspect.Value(v.value) + ")"
}

func (v *Verifier) checkBinary(condition bool, operator string, expected any) *Verifier {
	return v.check(condition, "Expected {actual} "+operator+" {expected}", expected)
}

func (v *Verifier) check(condition bool, message string, expected any) *Verifier {
	if !condition {
		v.raise(message, expected)
	}
	return v
}

func (v *Verifier) raise(message string, expected any) {
	r := strings.NewReplacer(
		"{actual}", inspect.Value(v.value),
		"{expected}", inspect.Value(expected),
	)
	panic(&failure.AssertionError{Message: r.Replace(message)})
}

func pick(message []string, fallback string) string {
	if len(message) > 0 && message[0] != "" {
		return message[0]
	}
	return fallback
}

func typeToken(t any) Type {
	switch x := t.(type) {
	case Type:
		if x.rt != nil {
			return x
		}
	case reflect.Type:
		if x != nil {
			return Type{rt: x}
		}
	}
	panic(failure.Configf("ToBeA needs a type from expect.TypeOf, got %s.", inspect.Value(t)))
}

func isObject(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Struct:
		return true
	case reflect.Pointer:
		return !rv.IsNil()
	}
	return false
}

func isIterable(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return true
	case reflect.Func:
		return isRangeFunc(rv.Type())
	}
	m := rv.MethodByName("All")
	if !m.IsValid() {
		return false
	}
	mt := m.Type()
	return mt.NumIn() == 0 && mt.NumOut() == 1 && isRangeFunc(mt.Out(0))
}

// isRangeFunc reports whether t has the shape func(yield func(...) bool)
// with zero to two yielded values.
func isRangeFunc(t reflect.Type) bool {
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	yield := t.In(0)
	return yield.Kind() == reflect.Func &&
		yield.NumIn() <= 2 &&
		yield.NumOut() == 1 &&
		yield.Out(0).Kind() == reflect.Bool
}
