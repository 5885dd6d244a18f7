package failure

import (
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, KindNone, Classify(nil))
	assert.Equal(t, KindFailure, Classify(Assertionf("Expected %d === %d", 1, 2)))
	assert.Equal(t, KindError, Classify(Configf("needs a db parameter")))
	assert.Equal(t, KindError, Classify(errors.New("boom")))
}

func TestClassify_WrappedAssertion(t *testing.T) {
	err := fmt.Errorf("context: %w", Assertionf("nope"))
	assert.Equal(t, KindFailure, Classify(err))
}

func TestAssertionError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &AssertionError{Message: "wrapped", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "wrapped", err.Error())
}

func TestIsConfig(t *testing.T) {
	assert.True(t, IsConfig(Configf("x")))
	assert.True(t, IsConfig(fmt.Errorf("outer: %w", Configf("x"))))
	assert.False(t, IsConfig(Assertionf("x")))
	assert.False(t, IsConfig(nil))
}

func TestGuard_ReturnedError(t *testing.T) {
	want := errors.New("returned")
	err := Guard(func() error { return want })
	assert.Same(t, want, err)
}

func TestGuard_PanicWithError(t *testing.T) {
	want := Assertionf("failed")
	err := Guard(func() error { panic(want) })

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Same(t, want, ae)
}

func TestGuard_PanicWithConfigErrorIsUnchanged(t *testing.T) {
	want := Configf("bad fixture")
	err := Guard(func() error { panic(want) })
	assert.Same(t, want, err)
	assert.True(t, IsConfig(err))
}

func TestGuard_PanicWithPlainErrorKeepsStack(t *testing.T) {
	want := errors.New("disk gone")
	err := Guard(func() error { panic(want) })

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, want)
	assert.Equal(t, "panic: disk gone", err.Error())
	assert.NotEmpty(t, pe.Stack)
	assert.Equal(t, KindError, Classify(err))
}

func TestGuard_RuntimeErrorKeepsStack(t *testing.T) {
	err := Guard(func() error {
		var m map[string]int
		m["x"] = 1
		return nil
	})

	var re runtime.Error
	require.ErrorAs(t, err, &re)
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, string(pe.Stack), "TestGuard_RuntimeErrorKeepsStack")
}

func TestGuard_PanicWithValue(t *testing.T) {
	err := Guard(func() error { panic("not an error") })

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "not an error", pe.Value)
	assert.Equal(t, "panic: not an error", pe.Error())
	assert.NotEmpty(t, pe.Stack)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "failure", KindFailure.String())
	assert.Equal(t, "error", KindError.String())
	assert.Equal(t, "kind(7)", Kind(7).String())
}
