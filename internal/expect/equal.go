package expect

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// maxDepth bounds recursion when comparing nested values.
const maxDepth = 64

// exportAll lets go-cmp descend into unexported struct fields.
var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// StrictEqual reports whether a and b have the same dynamic type and the same
// value. Pointers, channels and funcs compare by identity; slices, arrays, maps
// and structs compare element-wise, each element strictly.
func StrictEqual(a, b any) bool {
	return strictEqual(reflect.ValueOf(a), reflect.ValueOf(b), 0)
}

func strictEqual(a, b reflect.Value, depth int) bool {
	a, b = unwrap(a), unwrap(b)
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() || depth > maxDepth {
		return false
	}

	switch a.Kind() {
	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !strictEqual(a.Index(i), b.Index(i), depth+1) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() || !strictEqual(iter.Value(), other, depth+1) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !strictEqual(a.Field(i), b.Field(i), depth+1) {
				return false
			}
		}
		return true
	case reflect.Func:
		return a.Pointer() == b.Pointer()
	default:
		return a.Equal(b)
	}
}

// LooseEqual reports whether a and b are equal after coercion:
//
//  1. strictly equal values are equal
//  2. nil equals any falsy value
//  3. a bool equals any value with the same truthiness
//  4. numbers of any kind compare numerically
//  5. a number equals a string that parses to the same number
//  6. two strings are equal when identical or numerically equal
//  7. slices and arrays compare element-wise, loosely
//  8. maps need the same keys and loosely equal values
//  9. structs (or pointers to structs) of one type compare structurally
//
// Anything else is unequal.
func LooseEqual(a, b any) bool {
	return looseEqual(reflect.ValueOf(a), reflect.ValueOf(b), 0)
}

func looseEqual(a, b reflect.Value, depth int) bool {
	a, b = unwrap(a), unwrap(b)
	if strictEqual(a, b, depth) {
		return true
	}
	if depth > maxDepth {
		return false
	}
	if !a.IsValid() {
		return !truthy(b)
	}
	if !b.IsValid() {
		return !truthy(a)
	}
	if a.Kind() == reflect.Bool {
		return a.Bool() == truthy(b)
	}
	if b.Kind() == reflect.Bool {
		return b.Bool() == truthy(a)
	}

	if isNumber(a) || isNumber(b) {
		return numbersEqual(a, b)
	}

	switch {
	case a.Kind() == reflect.String && b.Kind() == reflect.String:
		if a.String() == b.String() {
			return true
		}
		an, aok := parseNumber(a.String())
		bn, bok := parseNumber(b.String())
		return aok && bok && an == bn
	case isSequence(a) && isSequence(b):
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !looseEqual(a.Index(i), b.Index(i), depth+1) {
				return false
			}
		}
		return true
	case a.Kind() == reflect.Map && b.Kind() == reflect.Map:
		return mapsLooseEqual(a, b, depth)
	case a.Type() == b.Type() && isStructLike(a) && a.CanInterface() && b.CanInterface():
		return cmp.Equal(a.Interface(), b.Interface(), exportAll)
	}
	return false
}

func mapsLooseEqual(a, b reflect.Value, depth int) bool {
	if a.Len() != b.Len() {
		return false
	}
	// keys match by their printed form so map[string]int and map[any]int
	// can compare
	index := make(map[string]reflect.Value, b.Len())
	iter := b.MapRange()
	for iter.Next() {
		index[fmt.Sprint(iter.Key())] = iter.Value()
	}
	iter = a.MapRange()
	for iter.Next() {
		other, ok := index[fmt.Sprint(iter.Key())]
		if !ok || !looseEqual(iter.Value(), other, depth+1) {
			return false
		}
	}
	return true
}

func numbersEqual(a, b reflect.Value) bool {
	switch {
	case isSigned(a) && isSigned(b):
		return a.Int() == b.Int()
	case isUnsigned(a) && isUnsigned(b):
		return a.Uint() == b.Uint()
	}
	an, aok := toFloat(a)
	bn, bok := toFloat(b)
	return aok && bok && an == bn
}

// toFloat converts numbers and numeric strings.
func toFloat(v reflect.Value) (float64, bool) {
	switch {
	case isSigned(v):
		return float64(v.Int()), true
	case isUnsigned(v):
		return float64(v.Uint()), true
	case v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64:
		return v.Float(), true
	case v.Kind() == reflect.String:
		return parseNumber(v.String())
	}
	return 0, false
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Truthy reports whether v evaluates to true in a boolean context. Falsy
// values are nil, false, numeric zero, the empty string, empty collections and
// nil pointers, funcs and interfaces. Every struct is truthy.
func Truthy(v any) bool {
	return truthy(reflect.ValueOf(v))
}

func truthy(v reflect.Value) bool {
	v = unwrap(v)
	if !v.IsValid() {
		return false
	}
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0
	case reflect.Complex64, reflect.Complex128:
		return v.Complex() != 0
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return v.Len() > 0
	case reflect.Pointer, reflect.Func, reflect.UnsafePointer:
		return !v.IsNil()
	default:
		return true
	}
}

// unwrap strips interface layers; a nil interface becomes the zero Value.
func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isSigned(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumber(v reflect.Value) bool {
	return isSigned(v) || isUnsigned(v) || v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func isSequence(v reflect.Value) bool {
	return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
}

func isStructLike(v reflect.Value) bool {
	if v.Kind() == reflect.Pointer {
		return v.Type().Elem().Kind() == reflect.Struct
	}
	return v.Kind() == reflect.Struct
}
