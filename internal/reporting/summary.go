package reporting

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/roach88/jafar/internal/failure"
	"github.com/roach88/jafar/internal/tree"
)

// Counts totals the outcomes of a run.
type Counts struct {
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	Errored     int `json:"errored"`
	Skipped     int `json:"skipped"`
	SuiteErrors int `json:"suite_errors"`
}

// Total is the number of tests that ran or were skipped.
func (c Counts) Total() int {
	return c.Passed + c.Failed + c.Errored + c.Skipped
}

// OK reports whether every test that ran passed and no suite raised.
func (c Counts) OK() bool {
	return c.Failed == 0 && c.Errored == 0 && c.SuiteErrors == 0
}

// Summary counts test outcomes. Tests that never ran because a hook of an
// enclosing suite raised are counted as skipped.
type Summary struct {
	counts Counts
	// accounted holds, per open suite, the number of tests beneath it that
	// were entered or already counted as skipped by a nested suite.
	accounted []int
}

// NewSummary returns an empty Summary.
func NewSummary() *Summary {
	return &Summary{}
}

// Counts returns the totals so far.
func (s *Summary) Counts() Counts {
	return s.counts
}

// Before implements runner.Listener.
func (s *Summary) Before(stack tree.Stack) {
	switch stack.Top().(type) {
	case *tree.Suite:
		s.accounted = append(s.accounted, 0)
	case *tree.Test:
		s.account(1)
	}
}

// After implements runner.Listener.
func (s *Summary) After(stack tree.Stack, err error) {
	switch node := stack.Top().(type) {
	case *tree.Suite:
		accounted := 0
		if n := len(s.accounted); n > 0 {
			accounted = s.accounted[n-1]
			s.accounted = s.accounted[:n-1]
		}
		if err != nil {
			skipped := node.CountTests() - accounted
			s.counts.SuiteErrors++
			s.counts.Skipped += skipped
			s.account(skipped)
		}
	case *tree.Test:
		switch failure.Classify(err) {
		case failure.KindNone:
			s.counts.Passed++
		case failure.KindFailure:
			s.counts.Failed++
		default:
			s.counts.Errored++
		}
	}
}

// account adds n tests to every open suite.
func (s *Summary) account(n int) {
	for i := range s.accounted {
		s.accounted[i] += n
	}
}

// Render writes the totals as a table.
func (s *Summary) Render(w io.Writer) error {
	_, err := io.WriteString(w, s.Table())
	return err
}

// Table formats the totals as a table string ending in a newline.
func (s *Summary) Table() string {
	c := s.counts
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Tests", "Passed", "Failed", "Errors", "Skipped", "Hook errors", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Errors", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Hook errors", Align: text.AlignRight},
	})
	t.AppendRow(table.Row{c.Total(), c.Passed, c.Failed, c.Errored, c.Skipped, c.SuiteErrors, status(c)})
	t.SetStyle(table.StyleLight)
	t.Render()

	return buf.String()
}

func status(c Counts) string {
	if c.OK() {
		return "PASS"
	}
	return "FAIL"
}

// String renders the totals on one line.
func (c Counts) String() string {
	return fmt.Sprintf("%d tests: %d passed, %d failed, %d errors, %d skipped, %d hook errors",
		c.Total(), c.Passed, c.Failed, c.Errored, c.Skipped, c.SuiteErrors)
}
