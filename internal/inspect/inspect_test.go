package inspect

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type point struct{ X, Y int }

type label struct{ text string }

func (l label) String() string { return "<" + l.text + ">" }

type explodes struct{}

func (explodes) String() string { panic("no string form") }

func TestValue_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "nil"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 42, "42"},
		{"negative", -7, "-7"},
		{"uint8", uint8(255), "255"},
		{"float", 1.5, "1.5"},
		{"float32", float32(0.25), "0.25"},
		{"string", "hello", `"hello"`},
		{"escaped", "a\"b\n", `"a\"b\n"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.in))
		})
	}
}

func TestValue_Sequences(t *testing.T) {
	assert.Equal(t, "[1, 2, 3]", Value([]int{1, 2, 3}))
	assert.Equal(t, `["a", "b"]`, Value([2]string{"a", "b"}))
	assert.Equal(t, "[]", Value([]int{}))
	assert.Equal(t, "[[1], [2, 3]]", Value([][]int{{1}, {2, 3}}))
	assert.Equal(t, `[1, "x", nil]`, Value([]any{1, "x", nil}))
}

func TestValue_Mappings(t *testing.T) {
	assert.Equal(t, `{"a": 1, "b": 2}`, Value(map[string]int{"b": 2, "a": 1}))
	assert.Equal(t, `{"k": [1, 2]}`, Value(map[string][]int{"k": {1, 2}}))
	assert.Equal(t, "{2: true, 10: false}", Value(map[int]bool{10: false, 2: true}))
}

func TestValue_MapWithSequenceKeysRendersAsSequence(t *testing.T) {
	assert.Equal(t, `["zero", "one", "two"]`, Value(map[int]string{2: "two", 0: "zero", 1: "one"}))
	// a gap makes it a mapping
	assert.Equal(t, `{0: "zero", 2: "two"}`, Value(map[int]string{2: "two", 0: "zero"}))
	// so does an offset start
	assert.Equal(t, `{1: "one"}`, Value(map[int]string{1: "one"}))
}

func TestValue_Objects(t *testing.T) {
	assert.Equal(t, "(inspect.point object)", Value(point{1, 2}))
	assert.Equal(t, "(*inspect.point object)", Value(&point{1, 2}))
	assert.Equal(t, "(*inspect.point nil)", Value((*point)(nil)))
	assert.Equal(t, "(inspect.label <hi>)", Value(label{"hi"}))
	assert.Equal(t, "(*errors.errorString boom)", Value(errors.New("boom")))
	assert.Equal(t, "(time.Duration 1.5s)", Value(1500*time.Millisecond))
}

func TestValue_PanickingStringMethodFallsBack(t *testing.T) {
	assert.Equal(t, "(inspect.explodes object)", Value(explodes{}))
}

func TestValue_Time(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "(time.Time 2024-03-01T12:30:00Z)", Value(ts))
}

func TestValue_FuncsAndChans(t *testing.T) {
	assert.Equal(t, "(func())", Value(func() {}))
	assert.Equal(t, "(chan int nil)", Value((chan int)(nil)))
}

func TestValue_DeepNestingIsBounded(t *testing.T) {
	var v any = 1
	for i := 0; i < maxDepth+5; i++ {
		v = []any{v}
	}
	assert.Contains(t, Value(v), "...")
}
