// Package cli implements the jafar command line: run, list and history.
//
// # Exit Codes
//
//   - 0: every test passed
//   - 1: a test failed or errored, or a hook raised
//   - 2: command error (bad flag, invalid config, missing path, store failure)
//
// With --format json every command writes a single CLIResponse object to
// stdout, errors included.
package cli
