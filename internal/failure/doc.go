// Package failure defines the two error taxonomies the runner distinguishes.
//
// An *AssertionError means the behavior under test did not hold. Everything
// else is an unexpected fault: DSL misuse (*ConfigError), a recovered panic
// (*PanicError) or any error escaping test or hook code.
package failure
