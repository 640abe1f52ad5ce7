package grammar

import "regexp"

// Expression is a rule body. The concrete types form a closed set so the
// driver's dispatch over them is exhaustive.
type Expression interface {
	expression()
}

// Reference refers to another rule by name. It is resolved lazily at parse
// time, which permits forward and mutually recursive references.
type Reference struct {
	Name string
}

// Sequence matches all items consecutively. It does not introduce a node of
// its own; its items contribute directly to the enclosing rule's children.
type Sequence struct {
	Items []Expression
}

// Choice tries its alternatives in declared order. The first one that
// matches wins, even when a later one would consume more input.
type Choice struct {
	Alternatives []Expression
}

// Repetition matches Inner greedily. Min is 0 for `( X )*` and 1 for
// `( X )+`.
type Repetition struct {
	Inner Expression
	Min   int
}

// Optional matches Inner if it matches and succeeds consuming nothing
// otherwise (`( X )?`).
type Optional struct {
	Inner Expression
}

// Terminal matches a prefix of the remaining input with a regular
// expression. Source is the pattern text as written in the grammar; Pattern
// is compiled during validation.
type Terminal struct {
	Name    string
	Source  string
	Pattern *regexp.Regexp
}

func (*Reference) expression()  {}
func (*Sequence) expression()   {}
func (*Choice) expression()     {}
func (*Repetition) expression() {}
func (*Optional) expression()   {}
func (*Terminal) expression()   {}
