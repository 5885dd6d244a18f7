package reporting

import "github.com/roach88/jafar/internal/tree"

// Listener mirrors runner.Listener so this package does not depend on the
// runner.
type Listener interface {
	Before(stack tree.Stack)
	After(stack tree.Stack, err error)
}

// Multi forwards every event to each listener in order.
type Multi []Listener

// Before implements Listener.
func (m Multi) Before(stack tree.Stack) {
	for _, l := range m {
		l.Before(stack)
	}
}

// After implements Listener.
func (m Multi) After(stack tree.Stack, err error) {
	for _, l := range m {
		l.After(stack, err)
	}
}
