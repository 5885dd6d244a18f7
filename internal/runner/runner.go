package runner

import (
	"io"
	"log/slog"

	"github.com/roach88/jafar/internal/bind"
	"github.com/roach88/jafar/internal/failure"
	"github.com/roach88/jafar/internal/tree"
)

// Listener is notified on entry to and exit from every node. Calls are always
// paired, including for suites aborted by a hook failure.
type Listener interface {
	Before(stack tree.Stack)
	After(stack tree.Stack, err error)
}

// Runnable is the uniform entry point for executing a node.
type Runnable interface {
	Run(stack tree.Stack, ctx bind.Context, l Listener)
}

// Runner executes trees, logging node transitions at debug level.
type Runner struct {
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes each root suite in order with an empty stack and Context.
func (r *Runner) Run(roots []*tree.Suite, l Listener) {
	for _, s := range roots {
		r.For(s).Run(nil, bind.Context{}, l)
	}
}

// For returns the Runnable for n.
func (r *Runner) For(n tree.Node) Runnable {
	switch node := n.(type) {
	case *tree.Suite:
		return &suiteRun{runner: r, suite: node}
	case *tree.Test:
		return &testRun{runner: r, test: node}
	default:
		panic(failure.Configf("runner: unknown node type %T", n))
	}
}

type testRun struct {
	runner *Runner
	test   *tree.Test
}

// Run invokes the test body and reports its outcome. It never panics on
// behalf of the body.
func (t *testRun) Run(stack tree.Stack, ctx bind.Context, l Listener) {
	stack = stack.Push(t.test)
	l.Before(stack)

	err := failure.Guard(func() error {
		_, err := t.test.Body.Apply(ctx)
		return err
	})

	t.runner.logger.Debug("test finished",
		"path", stack.Path(" > "),
		"outcome", failure.Classify(err).String(),
	)
	l.After(stack, err)
}

type suiteRun struct {
	runner *Runner
	suite  *tree.Suite
}

// Run executes each child between the suite's hooks. A hook failure ends the
// iteration and becomes the suite's reported error.
func (s *suiteRun) Run(stack tree.Stack, ctx bind.Context, l Listener) {
	stack = stack.Push(s.suite)
	l.Before(stack)
	s.runner.logger.Debug("suite entered", "path", stack.Path(" > "), "children", len(s.suite.Children))

	var err error
	for i, child := range s.suite.Children {
		var childCtx bind.Context
		childCtx, err = s.before(ctx)
		if err != nil {
			s.aborted(stack, "before", len(s.suite.Children)-i, err)
			break
		}

		s.runner.For(child).Run(stack, childCtx, l)

		if err = s.after(childCtx); err != nil {
			s.aborted(stack, "after", len(s.suite.Children)-i-1, err)
			break
		}
	}

	l.After(stack, err)
}

// before runs each before hook in a guarded region, merging what they return
// on top of ctx. Each hook sees the merged result of the hooks before it.
func (s *suiteRun) before(ctx bind.Context) (bind.Context, error) {
	merged := ctx.Merge()
	for _, h := range s.suite.Before {
		var out bind.Context
		err := failure.Guard(func() error {
			var err error
			out, err = h.Fn.Apply(merged)
			return err
		})
		if err != nil {
			return nil, err
		}
		merged = merged.Merge(out)
	}
	return merged, nil
}

// after runs each after hook in a guarded region with the child's context.
func (s *suiteRun) after(ctx bind.Context) error {
	for _, h := range s.suite.After {
		err := failure.Guard(func() error {
			_, err := h.Fn.Apply(ctx)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *suiteRun) aborted(stack tree.Stack, hook string, skipped int, err error) {
	s.runner.logger.Debug("suite aborted by hook",
		"path", stack.Path(" > "),
		"hook", hook,
		"skipped", skipped,
		"error", err,
	)
}
