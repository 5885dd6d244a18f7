package selfcheck

import (
	"errors"

	"github.com/roach88/jafar"
)

var _ = jafar.Describe("Fixtures", func(d *jafar.D) {
	d.Before(func() jafar.Context {
		return jafar.Context{"a": 1, "x": "outer"}
	})

	d.It("are passed to tests by name", func(a int) {
		jafar.Expect(a).ToBe(1)
	}, "a")

	d.It("may be ignored", func() {})

	d.Describe("in a nested suite", func(d *jafar.D) {
		d.Before(func(a int) jafar.Context {
			return jafar.Context{"b": a + 1, "x": "inner"}
		}, "a")

		d.It("accumulate from every enclosing suite", func(a, b int) {
			jafar.Expect(a).ToBe(1)
			jafar.Expect(b).ToBe(2)
		}, "a", "b")

		d.It("are overridden by the innermost hook", func(x string) {
			jafar.Expect(x).ToBe("inner")
		}, "x")
	})

	d.It("are not affected by a nested suite's hooks", func(x string) {
		jafar.Expect(x).ToBe("outer")
	}, "x")
})

var _ = jafar.Describe("Hooks", func(d *jafar.D) {
	type log struct{ entries []string }
	calls := &log{}

	d.Before(func() jafar.Context {
		calls.entries = append(calls.entries, "before")
		return jafar.Context{"calls": calls}
	})
	d.After(func(calls *log) {
		calls.entries = append(calls.entries, "after")
	}, "calls")

	d.It("run before the first test", func(calls *log) {
		jafar.Expect(calls.entries).ToEqual([]string{"before"})
	}, "calls")

	d.It("run around every child", func(calls *log) {
		jafar.Expect(calls.entries).ToEqual([]string{"before", "after", "before"})
	}, "calls")

	d.Describe("with sentinel errors", func(d *jafar.D) {
		d.It("match returned errors by identity", func() {
			errBoom := errors.New("boom")
			jafar.Expect(errBoom).ToBeThrownFrom(func() error { return errBoom })
		})
	})
})
