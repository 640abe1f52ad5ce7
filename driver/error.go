package driver

import (
	"fmt"
	"strings"
)

// ParseError reports a failed parse. Pos is the furthest byte offset the
// engine reached across all attempted alternatives, and Expected lists the
// terminals attempted at that offset, in attempt order. Row and Col are
// 1-based and derived from Pos.
type ParseError struct {
	Pos      int
	Row      int
	Col      int
	Expected []string
}

func (e *ParseError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("parse failed at %v:%v", e.Row, e.Col)
	}
	return fmt.Sprintf("parse failed at %v:%v: expected %v", e.Row, e.Col, strings.Join(e.Expected, ", "))
}

// RecursionLimitError means rule expansion exceeded the configured depth,
// which is how a left-recursive grammar surfaces at parse time.
type RecursionLimitError struct {
	Limit int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("recursion limit exceeded: rule expansion deeper than %v levels; the grammar is probably left-recursive", e.Limit)
}

func positionOf(input string, pos int) (int, int) {
	row := 1
	col := 1
	for _, c := range input[:pos] {
		if c == '\n' {
			row++
			col = 1
		} else {
			col++
		}
	}
	return row, col
}
