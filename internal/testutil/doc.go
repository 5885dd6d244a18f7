// Package testutil holds deterministic stand-ins for the wall clock and the
// run ID generator, so command tests produce stable history output.
package testutil
