// Package selfcheck holds jafar's own behavior specs, written with the jafar
// DSL. Importing it registers the suites; cmd/jafar links it in so that
// `jafar run ./internal/selfcheck` exercises the expectation engine and the
// fixture rules end to end.
package selfcheck
