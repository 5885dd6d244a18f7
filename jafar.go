// Package jafar is a behavior-testing DSL: suites are declared with nested
// Describe blocks, tests with It, and fixtures are handed to tests by name
// from Before hooks.
//
// Spec files declare their suites at package initialisation:
//
//	var _ = jafar.Describe("math", func(d *jafar.D) {
//	    d.Before(func() jafar.Context {
//	        return jafar.Context{"two": 2}
//	    })
//	    d.It("adds", func(two int) {
//	        jafar.Expect(1 + 1).ToBe(two)
//	    }, "two")
//	})
//
// A binary that links spec packages in and calls Main gets the jafar command
// line: discovery selects spec files and the suites declared in them run.
//
// Go does not record parameter names at run time, so a function taking
// fixtures lists their names after it, in parameter order.
package jafar

import (
	"io"
	"os"
	"runtime"

	"github.com/roach88/jafar/internal/bind"
	"github.com/roach88/jafar/internal/cli"
	"github.com/roach88/jafar/internal/expect"
	"github.com/roach88/jafar/internal/failure"
	"github.com/roach88/jafar/internal/tree"
)

// Context carries fixture values by name. Before hooks return one to add to
// it; values returned later override earlier ones with the same name.
type Context = bind.Context

// Verifier is returned by Expect.
type Verifier = expect.Verifier

// Type identifies a Go type for ToBeA. See TypeOf.
type Type = expect.Type

// ErrorKind identifies a kind of error for ToBeThrownFrom. See ErrorOf.
type ErrorKind = expect.ErrorKind

// AssertionError is raised by a failed expectation. ErrorOf[*AssertionError]
// matches it, which lets specs assert that an expectation fails.
type AssertionError = failure.AssertionError

var (
	registry = tree.NewRegistry()
	builder  = tree.NewBuilder(registry)
)

// D is handed to a Describe body to declare what the suite contains. It is
// only valid while that body runs.
type D struct {
	b *tree.Builder
}

// Describe declares a suite named name; body populates it through d. Called
// inside another Describe body it declares a nested suite, otherwise a root
// suite attributed to the calling file. Describe returns true so it can
// initialise a package-level variable.
//
// Suites are declared from package initialisation, which runs on one
// goroutine; Describe is not safe for concurrent use.
//
// Misuse, such as a fixture function that does not match its names, panics
// with a *failure.ConfigError while the suite is being declared.
func Describe(name string, body func(d *D)) bool {
	_, file, line, _ := runtime.Caller(1)

	d := &D{b: builder}
	builder.DescribeAt(name, file, line, func() {
		if body != nil {
			body(d)
		}
	})
	return true
}

// Describe declares a suite nested in the current one.
func (d *D) Describe(name string, body func(d *D)) {
	d.b.Describe(name, func() {
		if body != nil {
			body(d)
		}
	})
}

// It declares a test. fn may take fixtures, named by names in parameter
// order, and may return an error.
func (d *D) It(name string, fn any, names ...string) {
	must(d.b.It(name, bind.MustNew(fn, names...)))
}

// Before declares a hook run before each child of the current suite. fn may
// take fixtures like It, and may return a Context, an error, or both.
func (d *D) Before(fn any, names ...string) {
	must(d.b.Before(bind.MustNew(fn, names...)))
}

// After declares a hook run after each child of the current suite, with the
// same fixtures that child saw.
func (d *D) After(fn any, names ...string) {
	must(d.b.After(bind.MustNew(fn, names...)))
}

// It declares a test in the suite whose body is running. Outside any
// Describe body it panics with a *failure.ConfigError.
func It(name string, fn any, names ...string) {
	(&D{b: builder}).It(name, fn, names...)
}

// Before declares a before hook in the suite whose body is running.
func Before(fn any, names ...string) {
	(&D{b: builder}).Before(fn, names...)
}

// After declares an after hook in the suite whose body is running.
func After(fn any, names ...string) {
	(&D{b: builder}).After(fn, names...)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Expect starts an expectation about value.
func Expect(value any) *Verifier {
	return expect.That(value)
}

// Check fails the current test unless condition is truthy.
func Check(condition any, message ...string) {
	expect.Check(condition, message...)
}

// TypeOf returns the Type token for T, for use with ToBeA.
func TypeOf[T any]() Type {
	return expect.TypeOf[T]()
}

// ErrorOf returns the ErrorKind matching errors of type T, for use with
// ToBeThrownFrom. Sentinel errors can be passed to Expect directly.
func ErrorOf[T any]() ErrorKind {
	return expect.ErrorOf[T]()
}

// Run executes the jafar command line with args against the suites declared
// so far and returns the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	return cli.Execute(&cli.App{Registry: registry}, args, stdout, stderr)
}

// Main runs the command line with the process arguments and exits.
func Main() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
