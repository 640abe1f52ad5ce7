// Package error decorates grammar and parse errors with their origin so the
// CLI can point at the offending source line.
package error

import (
	"fmt"
	"strings"
)

// SpecErrors aggregates the diagnostics of one grammar so a caller can
// report all of them at once.
type SpecErrors []*SpecError

func (e SpecErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%v", e[0])
	for _, err := range e[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}
	return b.String()
}

// SpecError wraps an error with the position it refers to. Source is the
// full text the position indexes into (a grammar definition or parsed
// input); SourceName labels that text, typically a file path or "stdin".
// Col is optional; when set, a caret marks the column below the quoted line.
type SpecError struct {
	Cause      error
	Source     string
	SourceName string
	Row        int
	Col        int
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row != 0 {
		if e.Col != 0 {
			fmt.Fprintf(&b, "%v:%v: ", e.Row, e.Col)
		} else {
			fmt.Fprintf(&b, "%v: ", e.Row)
		}
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)

	line := sourceLine(e.Source, e.Row)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
		if e.Col > 0 && e.Col <= len([]rune(line))+1 {
			fmt.Fprintf(&b, "\n    %v^", strings.Repeat(" ", e.Col-1))
		}
	}

	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}

func sourceLine(source string, row int) string {
	if source == "" || row <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if row > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[row-1], "\r")
}
