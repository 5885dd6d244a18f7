// Package expect implements the expectation engine: a Verifier bound to a
// subject value with chainable matchers.
//
// A matcher that does not hold panics with a *failure.AssertionError. Misuse
// of a matcher (for example an unknown error kind) panics with a
// *failure.ConfigError. The runner recovers both and reports them by kind.
//
// Example:
//
//	expect.That(sum).ToBe(4).ToNotEqual("5")
//	expect.That(expect.ErrorOf[*fs.PathError]()).ToBeThrownFrom(func() error {
//	    _, err := os.Open("missing")
//	    return err
//	})
package expect
