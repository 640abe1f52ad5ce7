package spec

import "fmt"

// SyntaxError represents a malformed grammar definition. It carries the
// position of the offending token so callers can point at the source line.
type SyntaxError struct {
	Row     int
	Col     int
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return e.message
}

func (e *SyntaxError) at(pos Position) *SyntaxError {
	return &SyntaxError{
		Row:     pos.Row,
		Col:     pos.Col,
		message: e.message,
	}
}

func (e *SyntaxError) withDetail(detail string) *SyntaxError {
	return &SyntaxError{
		Row:     e.Row,
		Col:     e.Col,
		message: fmt.Sprintf("%v: %v", e.message, detail),
	}
}

var (
	// lexical errors
	synErrInvalidChar      = newSyntaxError("invalid character")
	synErrUnclosedPattern  = newSyntaxError("unclosed pattern; a terminal pattern must be closed by '")
	synErrEmptyPattern     = newSyntaxError("a pattern must include at least one character")
	synErrIncompleteArrow  = newSyntaxError("incomplete arrow; -> is expected")
	synErrIncompleteEscSeq = newSyntaxError("incomplete escape sequence; unexpected EOF following a backslash")

	// syntax errors
	synErrNoRule          = newSyntaxError("a grammar must include at least one rule")
	synErrNoRuleName      = newSyntaxError("a rule name is missing")
	synErrNoArrow         = newSyntaxError("an arrow must follow a rule name")
	synErrNoRuleBody      = newSyntaxError("a rule body is missing after the arrow")
	synErrNoPattern       = newSyntaxError("a terminal rule needs a pattern")
	synErrNoSemicolon     = newSyntaxError("the semicolon is missing at the end of a rule")
	synErrEmptyGroup      = newSyntaxError("a group must include at least one element")
	synErrUnclosedGroup   = newSyntaxError("a group must be closed by )")
	synErrEmptyAlt        = newSyntaxError("an alternative must include at least one element")
	synErrStrayOperator   = newSyntaxError("a repetition operator must follow a group")
	synErrPatternInBody   = newSyntaxError("a pattern cannot appear in a rule body; define a terminal rule instead")
	synErrTermMarkerInRHS = newSyntaxError("the terminal marker > can appear only at the beginning of a rule")
)
