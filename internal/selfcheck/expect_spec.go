package selfcheck

import (
	"bytes"
	"io"

	"github.com/roach88/jafar"
)

// runtimeError is an ordinary domain error for the throw assertions.
type runtimeError struct{ msg string }

func (e *runtimeError) Error() string { return e.msg }

// failed is the kind raised by an unmet expectation.
var failed = jafar.ErrorOf[*jafar.AssertionError]()

// fails asserts that block raises an expectation failure.
func fails(block func()) {
	jafar.Expect(failed).ToBeThrownFrom(block)
}

var _ = jafar.Describe("Expectations", func(d *jafar.D) {
	runtime := jafar.ErrorOf[*runtimeError]()

	d.It("can assert that an error is thrown", func() {
		fails(func() {
			jafar.Expect(runtime).ToBeThrownFrom(func() {})
		})

		jafar.Expect(runtime).ToBeThrownFrom(func() {
			panic(&runtimeError{"should be caught by jafar"})
		})
		jafar.Expect(runtime).ToBeThrownFrom(func() error {
			return &runtimeError{"returned errors count too"}
		})
	})

	d.It("can assert that an error is not thrown", func() {
		fails(func() {
			jafar.Expect(runtime).ToNotBeThrownFrom(func() {
				panic(&runtimeError{"should be caught by jafar"})
			})
		})

		jafar.Expect(runtime).ToNotBeThrownFrom(func() {})
	})

	d.It("can assert that actual === expected", func() {
		jafar.Expect(5).ToBe(5)
		jafar.Expect("a").ToBe("a")
		jafar.Expect([]int{1, 2, 3}).ToBe([]int{1, 2, 3})
		jafar.Expect(false).ToBe(false)
		jafar.Expect(nil).ToBe(nil)

		fails(func() { jafar.Expect(5).ToBe("5") })
		fails(func() { jafar.Expect(0).ToBe(false) })
		fails(func() { jafar.Expect("a").ToBe("e") })
		fails(func() { jafar.Expect([]int{1, 2, 3}).ToBe([]string{"1", "2", "3"}) })
		fails(func() { jafar.Expect(false).ToBe(nil) })
	})

	d.It("can assert that actual !== expected", func() {
		jafar.Expect("1").ToNotBe("a")
		jafar.Expect("1").ToNotBe(1)

		fails(func() { jafar.Expect(1).ToNotBe(1) })
	})

	d.It("can assert that actual == expected", func() {
		jafar.Expect("1").ToEqual("1")
		jafar.Expect("1").ToEqual(1)
		jafar.Expect(false).ToEqual(nil)

		fails(func() { jafar.Expect("a").ToEqual("b") })
	})

	d.It("can assert that actual != expected", func() {
		jafar.Expect("a").ToNotEqual("z")
		jafar.Expect(true).ToNotEqual(false)

		fails(func() { jafar.Expect(1).ToNotEqual("1") })
	})

	d.It("can assert truthiness", func() {
		jafar.Expect(true).ToRingTrue()
		jafar.Expect(1).ToRingTrue()
		jafar.Expect("a").ToRingTrue()
		jafar.Expect([]bool{false}).ToRingTrue()
		jafar.Expect(struct{}{}).ToRingTrue()

		fails(func() { jafar.Expect(false).ToRingTrue() })
		fails(func() { jafar.Expect(nil).ToRingTrue() })
		fails(func() { jafar.Expect(0).ToRingTrue() })
		fails(func() { jafar.Expect("").ToRingTrue() })
		fails(func() { jafar.Expect([]int{}).ToRingTrue() })
	})

	d.It("can assert falsehood", func() {
		jafar.Expect(false).ToRingFalse()
		jafar.Expect(nil).ToRingFalse()
		jafar.Expect(0).ToRingFalse()
		jafar.Expect("").ToRingFalse()
		jafar.Expect([]int{}).ToRingFalse()

		fails(func() { jafar.Expect(true).ToRingFalse() })
		fails(func() { jafar.Expect("a").ToRingFalse() })
		fails(func() { jafar.Expect(1).ToRingFalse() })
		fails(func() { jafar.Expect([]int{0}).ToRingFalse() })
		fails(func() { jafar.Expect(struct{}{}).ToRingFalse() })
	})

	d.It("can assert type membership", func() {
		jafar.Expect(&bytes.Buffer{}).ToBeA(jafar.TypeOf[bytes.Buffer]())
		jafar.Expect(&bytes.Buffer{}).ToBeAn(jafar.TypeOf[io.Reader]())

		fails(func() { jafar.Expect(&bytes.Buffer{}).ToBeAn(jafar.TypeOf[error]()) })
		fails(func() { jafar.Expect(12).ToBeA(jafar.TypeOf[int]()) })
	})

	d.It("can assert iterability", func() {
		jafar.Expect([]int{}).ToBeIterable()
		jafar.Expect(map[string]int{}).ToBeIterable()

		fails(func() { jafar.Expect(12).ToBeIterable() })
		fails(func() { jafar.Expect("foo").ToBeIterable() })
	})

	d.It("can check a bare condition", func() {
		jafar.Check(1 < 2)

		fails(func() { jafar.Check(2 < 1, "two is not less than one") })
	})
})
