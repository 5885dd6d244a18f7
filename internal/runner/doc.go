// Package runner executes suite/test trees depth-first, in declaration order,
// on the calling goroutine.
//
// # Failure handling
//
// A test absorbs everything its own body raises, returned error or panic,
// and reports it through the Listener; its siblings then run normally.
//
// A suite guards only its own before and after hooks. When a hook raises,
// the remaining children of that suite are skipped and the error is reported
// once, as the suite's own result. Descent into a child is not guarded at the
// suite level.
package runner
