package tree

import (
	"strings"

	"github.com/roach88/jafar/internal/bind"
)

// Node is a Suite or a Test.
type Node interface {
	// NodeName returns the display name of the node.
	NodeName() string
	isNode()
}

// Hook is a before or after fixture function owned by a Suite. Before hooks
// may return a Context to merge for the child about to run.
type Hook struct {
	Fn *bind.Callable
}

// Suite is a named group of tests and nested suites with its own hooks.
// A Suite is only modified while it is the top of a Builder stack.
type Suite struct {
	Name     string
	Before   []Hook
	After    []Hook
	Children []Node

	// File and Line locate the describe call; set for root suites.
	File string
	Line int
}

// Test is a single named behavior check.
type Test struct {
	Name string
	Body *bind.Callable
}

func (s *Suite) NodeName() string { return s.Name }
func (s *Suite) isNode()          {}

func (t *Test) NodeName() string { return t.Name }
func (t *Test) isNode()          {}

// CountTests returns the number of tests in the suite's subtree.
func (s *Suite) CountTests() int {
	return countTests(s.Children)
}

func countTests(nodes []Node) int {
	n := 0
	for _, child := range nodes {
		switch c := child.(type) {
		case *Test:
			n++
		case *Suite:
			n += c.CountTests()
		}
	}
	return n
}

// Stack is the ordered list of ancestors from a root suite to the node just
// entered or exited.
type Stack []Node

// Push returns a new stack with n on top. s is left unchanged.
func (s Stack) Push(n Node) Stack {
	next := make(Stack, len(s), len(s)+1)
	copy(next, s)
	return append(next, n)
}

// Top returns the innermost node, or nil for an empty stack.
func (s Stack) Top() Node {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// Depth returns the number of ancestors above the top node.
func (s Stack) Depth() int {
	if len(s) == 0 {
		return 0
	}
	return len(s) - 1
}

// Path joins the node names with sep.
func (s Stack) Path(sep string) string {
	names := make([]string, len(s))
	for i, n := range s {
		names[i] = n.NodeName()
	}
	return strings.Join(names, sep)
}
