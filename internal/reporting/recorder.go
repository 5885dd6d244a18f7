package reporting

import (
	"github.com/roach88/jafar/internal/failure"
	"github.com/roach88/jafar/internal/store"
	"github.com/roach88/jafar/internal/tree"
)

// PathSeparator joins node names in recorded paths.
const PathSeparator = " > "

// Recorder keeps one store.Result per finished node, numbered in the order
// nodes finish. Suites that finished cleanly are recorded as passed.
type Recorder struct {
	results []store.Result
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Results returns the recorded rows.
func (r *Recorder) Results() []store.Result {
	return r.results
}

// Before implements Listener; nothing is recorded on entry.
func (r *Recorder) Before(tree.Stack) {}

// After implements Listener.
func (r *Recorder) After(stack tree.Stack, err error) {
	res := store.Result{
		Seq:  int64(len(r.results) + 1),
		Path: stack.Path(PathSeparator),
		Kind: store.KindTest,
	}
	if _, ok := stack.Top().(*tree.Suite); ok {
		res.Kind = store.KindSuite
	}

	switch failure.Classify(err) {
	case failure.KindNone:
		res.Status = store.StatusPassed
	case failure.KindFailure:
		res.Status = store.StatusFailed
	default:
		res.Status = store.StatusErrored
	}
	if err != nil {
		res.Message = err.Error()
	}

	r.results = append(r.results, res)
}
