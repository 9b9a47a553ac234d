// errors.go — error kinds and user-facing snippet rendering.
//
// The interpreter uses one programmatic error kind for both compile
// (parse.go) and evaluation (eval.go) failures: *RuntimeError, carrying a
// human-readable message. Internally those failures are raised by fail()/
// failf() as a lightweight panic signal and recovered exactly once at the
// public Interpreter entry points; nothing else in the engine recovers.
//
// Reader-side diagnostics (*LexError, *SyntaxError) carry source positions
// and can be rendered as a caret-annotated snippet:
//
//	SYNTAX ERROR at 3:12: unexpected ')'
//
//	   2 | (let ((x (1 2
//	   3 |              )
//	     |            ^
package scm

import (
	"fmt"
	"strings"
)

// RuntimeError is the single programmatic failure kind surfaced by Parse and
// Eval entry points. It covers malformed special forms, arity and type
// errors, unbound variables, and arithmetic faults alike; the driver treats
// them all identically.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return "runtime error: " + e.Msg }

// rtErr is the internal panic signal carrying an error message from the
// point of detection to the public API boundary.
type rtErr struct{ msg string }

func fail(msg string) { panic(rtErr{msg: msg}) }

func failf(format string, args ...interface{}) { panic(rtErr{msg: fmt.Sprintf(format, args...)}) }

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes reader diagnostics and
// leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		// Lexer/reader Col are 0-based; render as 1-based.
		return fmt.Errorf("%s", prettyErrorString(src, "LEX ERROR", e.Line, e.Col+1, e.Msg))
	case *SyntaxError:
		return fmt.Errorf("%s", prettyErrorString(src, "SYNTAX ERROR", e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// prettyErrorString builds a snippet with a header and a caret. It shows at
// most one previous and one next line when available. Coordinates are
// treated as 1-based and clamped to the source bounds.
func prettyErrorString(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
