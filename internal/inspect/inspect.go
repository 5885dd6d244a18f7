package inspect

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// maxDepth bounds recursion into nested collections.
const maxDepth = 16

var timeType = reflect.TypeFor[time.Time]()

// Value renders v:
//   - nil as nil, strings as quoted Go literals, other scalars as literals
//   - slices and arrays as [e1, e2]
//   - maps as {k1: v1, k2: v2} with sorted keys, or as a sequence when the
//     keys are exactly the integers 0..n-1
//   - objects as (Type object), or (Type text) when the value has a String or
//     Error method
func Value(v any) string {
	return inspect(reflect.ValueOf(v), 0)
}

func inspect(v reflect.Value, depth int) string {
	if !v.IsValid() {
		return "nil"
	}
	if depth > maxDepth {
		return "..."
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "nil"
		}
		return inspect(v.Elem(), depth)
	}

	t := v.Type()
	if t == timeType && v.CanInterface() {
		return "(" + t.String() + " " + v.Interface().(time.Time).Format(time.RFC3339) + ")"
	}
	if s, ok := stringForm(v); ok {
		return "(" + t.String() + " " + s + ")"
	}

	switch v.Kind() {
	case reflect.String:
		return strconv.Quote(v.String())
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.Complex64, reflect.Complex128:
		return fmt.Sprint(v.Complex())
	case reflect.Slice, reflect.Array:
		return sequence(v, depth)
	case reflect.Map:
		return mapping(v, depth)
	case reflect.Pointer:
		if v.IsNil() {
			return "(" + t.String() + " nil)"
		}
		return "(" + t.String() + " object)"
	case reflect.Struct:
		return "(" + t.String() + " object)"
	default:
		// func, chan, unsafe pointer
		if v.IsNil() {
			return "(" + t.String() + " nil)"
		}
		return "(" + t.String() + ")"
	}
}

// stringForm returns the String() or Error() text of v when it has one.
// A method that panics is treated as absent.
func stringForm(v reflect.Value) (s string, ok bool) {
	if !v.CanInterface() {
		return "", false
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return "", false
		}
	}

	defer func() {
		if r := recover(); r != nil {
			s, ok = "", false
		}
	}()

	switch x := v.Interface().(type) {
	case fmt.Stringer:
		return x.String(), true
	case error:
		return x.Error(), true
	}
	return "", false
}

func sequence(v reflect.Value, depth int) string {
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = inspect(v.Index(i), depth+1)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func mapping(v reflect.Value, depth int) string {
	keys := v.MapKeys()

	if ordered, ok := sequenceKeys(keys); ok {
		parts := make([]string, len(ordered))
		for i, k := range ordered {
			parts[i] = inspect(v.MapIndex(k), depth+1)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}

	entries := make([]mapEntry, len(keys))
	for i, k := range keys {
		entries[i] = mapEntry{key: k, text: inspect(k, depth+1)}
	}
	slices.SortFunc(entries, compareEntries)

	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.text + ": " + inspect(v.MapIndex(e.key), depth+1)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// sequenceKeys reports whether keys are exactly the integers 0..n-1 and, if
// so, returns them in that order.
func sequenceKeys(keys []reflect.Value) ([]reflect.Value, bool) {
	ordered := make([]reflect.Value, len(keys))
	for _, k := range keys {
		idx, ok := intKey(k)
		if !ok || idx < 0 || idx >= int64(len(keys)) || ordered[idx].IsValid() {
			return nil, false
		}
		ordered[idx] = k
	}
	return ordered, true
}

func intKey(k reflect.Value) (int64, bool) {
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return k.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := k.Uint()
		if u > 1<<62 {
			return 0, false
		}
		return int64(u), true
	case reflect.Interface:
		if k.IsNil() {
			return 0, false
		}
		return intKey(k.Elem())
	}
	return 0, false
}

type mapEntry struct {
	key  reflect.Value
	text string
}

// compareEntries orders numeric keys numerically and everything else by its
// rendered form.
func compareEntries(a, b mapEntry) int {
	if fa, ok := numericKey(a.key); ok {
		if fb, ok := numericKey(b.key); ok {
			if c := cmp.Compare(fa, fb); c != 0 {
				return c
			}
		}
	}
	return strings.Compare(a.text, b.text)
}

func numericKey(k reflect.Value) (float64, bool) {
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(k.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(k.Uint()), true
	case reflect.Float32, reflect.Float64:
		return k.Float(), true
	case reflect.Interface:
		if k.IsNil() {
			return 0, false
		}
		return numericKey(k.Elem())
	}
	return 0, false
}
