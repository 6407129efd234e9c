package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/wfl-lang/wflpattern"
)

var (
	errorStyle    = color.New(color.FgHiRed, color.Bold)
	locationStyle = color.New(color.Bold)
	caretStyle    = color.New(color.FgHiRed)
)

// sourceError renders a syntax error with the offending source line and a
// caret under the reported column.
type sourceError struct {
	name string
	src  string
	err  error
}

func newSourceError(name, src string, err error) error {
	var se *wflpattern.SyntaxError
	if !errors.As(err, &se) {
		return fmt.Errorf("%s: %w", name, err)
	}
	return &sourceError{name: name, src: src, err: se}
}

func (e *sourceError) Unwrap() error {
	return e.err
}

func (e *sourceError) Error() string {
	var se *wflpattern.SyntaxError
	if !errors.As(e.err, &se) {
		return e.err.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", errorStyle.Sprint("error:"), se.Msg)
	fmt.Fprintf(&sb, "  %s %s\n", dimStyle.Sprint("-->"), locationStyle.Sprintf("%s:%d:%d", e.name, se.Pos.Line, se.Pos.Column))

	line, ok := sourceLine(e.src, se.Pos.Line)
	if !ok {
		return strings.TrimSuffix(sb.String(), "\n")
	}
	gutter := fmt.Sprintf("%d", se.Pos.Line)
	pad := strings.Repeat(" ", len(gutter))
	fmt.Fprintf(&sb, "%s |\n", pad)
	fmt.Fprintf(&sb, "%s | %s\n", gutter, line)
	fmt.Fprintf(&sb, "%s | %s%s", pad, caretPadding(line, se.Pos.Column), caretStyle.Sprint(caret(se.Token)))
	return sb.String()
}

// sourceLine returns the 1-based line n of src.
func sourceLine(src string, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	lines := strings.Split(src, "\n")
	if n > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[n-1], "\r"), true
}

// caretPadding is the blank run that puts a caret under the given 1-based
// rune column of line, respecting tabs and wide characters.
func caretPadding(line string, column int) string {
	var sb strings.Builder
	i := 1
	for _, r := range line {
		if i >= column {
			break
		}
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		i++
	}
	return sb.String()
}

// caret underlines the token, or a single column when it is unknown.
func caret(token string) string {
	if w := runewidth.StringWidth(token); w > 1 && !strings.Contains(token, "\n") {
		return strings.Repeat("^", w)
	}
	return "^"
}
