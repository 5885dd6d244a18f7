package reporting

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/jafar/internal/failure"
	"github.com/roach88/jafar/internal/tree"
)

// Charset selects the markers the Terminal prints.
type Charset string

const (
	CharsetUTF8  Charset = "utf-8"
	CharsetASCII Charset = "ascii"
)

// ValidCharsets lists the accepted --charset values.
var ValidCharsets = []Charset{CharsetUTF8, CharsetASCII}

// ParseCharset validates s as a Charset. The empty string means utf-8.
func ParseCharset(s string) (Charset, error) {
	switch Charset(strings.ToLower(s)) {
	case "", CharsetUTF8, "utf8":
		return CharsetUTF8, nil
	case CharsetASCII:
		return CharsetASCII, nil
	}
	return "", fmt.Errorf("invalid charset %q: must be one of utf-8, ascii", s)
}

type outcome int

const (
	pass outcome = iota
	fail
	fault
)

var markers = map[Charset][3]string{
	CharsetUTF8:  {" ✔", " ✘", " [ERROR]"},
	CharsetASCII: {": ok", ": fail", ": ERROR"},
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[1;31m"
	colorYellow = "\033[1;33m"
	colorGreen  = "\033[32m"
)

// Terminal prints an indented outline of the run as it happens: one line per
// suite, one line per test ending in a pass/fail/error marker, and the
// message of anything that went wrong beneath it.
type Terminal struct {
	w       io.Writer
	charset Charset
	color   bool
	stacks  bool
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithCharset selects the marker set. ASCII output is also transliterated.
func WithCharset(c Charset) TerminalOption {
	return func(t *Terminal) { t.charset = c }
}

// WithColor enables ANSI colour codes.
func WithColor(on bool) TerminalOption {
	return func(t *Terminal) { t.color = on }
}

// WithStacks controls whether panic stack traces are printed. Default on.
func WithStacks(on bool) TerminalOption {
	return func(t *Terminal) { t.stacks = on }
}

// NewTerminal returns a Terminal writing to w.
func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{w: w, charset: CharsetUTF8, stacks: true}
	for _, opt := range opts {
		opt(t)
	}
	if _, ok := markers[t.charset]; !ok {
		t.charset = CharsetUTF8
	}
	return t
}

// Before prints the entered node's name at its depth.
func (t *Terminal) Before(stack tree.Stack) {
	top := stack.Top()
	fmt.Fprint(t.w, indent(stack.Depth())+t.text(top.NodeName()))
	if _, ok := top.(*tree.Suite); ok {
		fmt.Fprint(t.w, "\n")
	}
}

// After completes a test's line with its marker, or reports a suite's hook
// error. Suites that finished cleanly print nothing.
func (t *Terminal) After(stack tree.Stack, err error) {
	depth := stack.Depth() + 1

	if _, ok := stack.Top().(*tree.Suite); ok {
		if err != nil {
			t.line(depth, colorRed, "[hook error] "+describe(err))
			t.trace(depth, err)
		}
		return
	}

	switch failure.Classify(err) {
	case failure.KindNone:
		fmt.Fprint(t.w, t.paint(colorGreen, t.marker(pass))+"\n")
	case failure.KindFailure:
		fmt.Fprint(t.w, t.paint(colorYellow, t.marker(fail))+"\n")
		t.line(depth, colorYellow, err.Error())
	default:
		fmt.Fprint(t.w, t.paint(colorRed, t.marker(fault))+"\n")
		t.line(depth, colorRed, describe(err))
		t.trace(depth, err)
	}
}

func (t *Terminal) line(depth int, color, msg string) {
	for _, l := range strings.Split(t.text(msg), "\n") {
		fmt.Fprint(t.w, indent(depth)+t.paint(color, l)+"\n")
	}
}

func (t *Terminal) trace(depth int, err error) {
	if !t.stacks {
		return
	}
	var pe *failure.PanicError
	if !errors.As(err, &pe) || len(pe.Stack) == 0 {
		return
	}
	for _, l := range strings.Split(strings.TrimRight(string(pe.Stack), "\n"), "\n") {
		fmt.Fprint(t.w, indent(depth)+l+"\n")
	}
}

func (t *Terminal) marker(o outcome) string {
	return markers[t.charset][o]
}

func (t *Terminal) paint(color, s string) string {
	if !t.color {
		return s
	}
	return color + s + colorReset
}

func (t *Terminal) text(s string) string {
	if t.charset != CharsetASCII {
		return s
	}
	return ToASCII(s)
}

// describe names err by its type. A panicked error is named by the error it
// carries.
func describe(err error) string {
	var pe *failure.PanicError
	if errors.As(err, &pe) {
		if cause := pe.Unwrap(); cause != nil {
			return fmt.Sprintf("[%T]: %s", cause, pe.Error())
		}
	}
	return fmt.Sprintf("[%T]: %s", err, err.Error())
}

func indent(n int) string {
	return strings.Repeat("  ", n)
}

// ToASCII decomposes s, drops combining marks and replaces whatever is still
// outside ASCII with '?'.
func ToASCII(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return '?'
			}
			return r
		}),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
