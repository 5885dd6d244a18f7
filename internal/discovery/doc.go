// Package discovery finds spec files beneath a set of paths.
//
// A directory whose name starts with "test" or "spec" is a test directory:
// every file with the configured extension inside it, or inside any of its
// subdirectories, is selected. Elsewhere only files named like
// foo_test.go, foo_spec.go, FooTest.go or FooSpec.go are selected. Every
// subdirectory is walked, hidden ones included.
package discovery
