package tree

import (
	"github.com/roach88/jafar/internal/bind"
	"github.com/roach88/jafar/internal/failure"
)

// Builder assembles suites from nested declarations. It keeps its own stack
// of open suites; the top of the stack is the suite that It, Before and After
// add to. A completed root suite is handed to the Builder's Registry.
//
// A Builder is used by one goroutine during tree construction only.
type Builder struct {
	registry *Registry
	stack    []*Suite
}

// NewBuilder returns a Builder that registers completed roots with r.
// r may be nil, in which case roots are only returned from Describe.
func NewBuilder(r *Registry) *Builder {
	return &Builder{registry: r}
}

// Describe opens a suite, runs body to populate it, and closes it again.
// The stack is popped even when body panics; the panic then propagates and
// the partial suite is not registered.
func (b *Builder) Describe(name string, body func()) *Suite {
	return b.DescribeAt(name, "", 0, body)
}

// DescribeAt is Describe recording where the suite was declared.
func (b *Builder) DescribeAt(name, file string, line int, body func()) *Suite {
	s := &Suite{Name: name, File: file, Line: line}
	if top := b.Current(); top != nil {
		top.Children = append(top.Children, s)
	}
	b.stack = append(b.stack, s)

	completed := false
	defer func() {
		b.stack = b.stack[:len(b.stack)-1]
		if completed && len(b.stack) == 0 && b.registry != nil {
			b.registry.Add(s)
		}
	}()

	if body != nil {
		body()
	}
	completed = true
	return s
}

// Current returns the open suite on top of the stack, or nil.
func (b *Builder) Current() *Suite {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

// Depth returns the number of open suites.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// It adds a test to the current suite.
func (b *Builder) It(name string, body *bind.Callable) error {
	s, err := b.require("it")
	if err != nil {
		return err
	}
	if body == nil {
		return failure.Configf("it(%q) needs a body", name)
	}
	s.Children = append(s.Children, &Test{Name: name, Body: body})
	return nil
}

// Before adds a hook run before each child of the current suite.
func (b *Builder) Before(fn *bind.Callable) error {
	s, err := b.require("before")
	if err != nil {
		return err
	}
	if fn == nil {
		return failure.Configf("before() needs a function")
	}
	s.Before = append(s.Before, Hook{Fn: fn})
	return nil
}

// After adds a hook run after each child of the current suite.
func (b *Builder) After(fn *bind.Callable) error {
	s, err := b.require("after")
	if err != nil {
		return err
	}
	if fn == nil {
		return failure.Configf("after() needs a function")
	}
	s.After = append(s.After, Hook{Fn: fn})
	return nil
}

func (b *Builder) require(what string) (*Suite, error) {
	s := b.Current()
	if s == nil {
		return nil, failure.Configf("%s() is only valid inside a describe().", what)
	}
	return s, nil
}
