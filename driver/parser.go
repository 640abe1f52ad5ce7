package driver

import (
	"fmt"

	"github.com/JonasBak/gtp/grammar"
)

// DefaultMaxDepth bounds rule expansion. The guard exists to fail
// left-recursive grammars instead of overflowing the stack, so the default
// is far deeper than any reasonable grammar nests.
const DefaultMaxDepth = 512

type ParserOption func(p *Parser) error

// StartRule makes the parser start from the named rule instead of the
// grammar's start rule.
func StartRule(name string) ParserOption {
	return func(p *Parser) error {
		p.start = name
		return nil
	}
}

// MaxDepth overrides the rule expansion limit.
func MaxDepth(n int) ParserOption {
	return func(p *Parser) error {
		if n <= 0 {
			return fmt.Errorf("max depth must be positive: %v", n)
		}
		p.maxDepth = n
		return nil
	}
}

// IgnoreWhitespace skips spaces and tabs between terminal matches.
func IgnoreWhitespace() ParserOption {
	return func(p *Parser) error {
		p.ignoreWhitespace = true
		return nil
	}
}

// IgnoreNewline skips newlines between terminal matches.
func IgnoreNewline() ParserOption {
	return func(p *Parser) error {
		p.ignoreNewline = true
		return nil
	}
}

// WithBubble collapses internal nodes with exactly one child into that child
// before a tree is returned.
func WithBubble() ParserOption {
	return func(p *Parser) error {
		p.bubble = true
		return nil
	}
}

// Parser executes a validated grammar against input text. It holds no
// per-parse state, so one Parser can serve concurrent Parse calls.
type Parser struct {
	gram             *grammar.Grammar
	start            string
	maxDepth         int
	ignoreWhitespace bool
	ignoreNewline    bool
	bubble           bool
}

func NewParser(gram *grammar.Grammar, opts ...ParserOption) (*Parser, error) {
	if !gram.Validated() {
		return nil, fmt.Errorf("the grammar must be validated before parsing")
	}

	p := &Parser{
		gram:     gram,
		start:    gram.Start(),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	_, isRule := gram.Rule(p.start)
	_, isTerm := gram.Terminal(p.start)
	if !isRule && !isTerm {
		return nil, &grammar.MissingStartRuleError{
			Start: p.start,
		}
	}

	return p, nil
}

// Parse matches the start rule against a prefix of the input. Trailing
// unconsumed input is not an error; use ParsePrefix when the final cursor
// matters.
func (p *Parser) Parse(input string) (*Node, error) {
	node, _, err := p.ParsePrefix(input)
	return node, err
}

// ParsePrefix matches the start rule against a prefix of the input and
// returns the root node together with the byte offset one past the consumed
// prefix. On failure the returned error is a *ParseError carrying the
// furthest position reached, or a *RecursionLimitError.
func (p *Parser) ParsePrefix(input string) (node *Node, end int, retErr error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		limitErr, ok := v.(*RecursionLimitError)
		if !ok {
			panic(v)
		}
		node = nil
		end = 0
		retErr = limitErr
	}()

	s := &matchState{
		p:     p,
		input: input,
	}
	root, next, ok := s.matchRule(p.start, 0)
	if !ok {
		row, col := positionOf(input, s.furthest)
		return nil, 0, &ParseError{
			Pos:      s.furthest,
			Row:      row,
			Col:      col,
			Expected: s.expected,
		}
	}
	if p.bubble {
		root = Bubble(root)
	}
	return root, next, nil
}

// Rest returns the input remaining after end, with characters the parser is
// configured to ignore stripped from the front. Callers that require the
// whole input to be consumed check that Rest is empty.
func (p *Parser) Rest(input string, end int) string {
	return input[p.skipIgnored(input, end):]
}

func (p *Parser) skipIgnored(input string, pos int) int {
	for pos < len(input) {
		c := input[pos]
		switch {
		case p.ignoreWhitespace && (c == ' ' || c == '\t'):
			pos++
		case p.ignoreNewline && (c == '\n' || c == '\r'):
			pos++
		default:
			return pos
		}
	}
	return pos
}

// matchState is the per-parse working set: the recursion depth and the
// furthest-failure diagnostic. The cursor itself is a plain offset passed
// by value, so backtracking is discarding a local.
type matchState struct {
	p        *Parser
	input    string
	depth    int
	furthest int
	expected []string
}

func (s *matchState) matchRule(name string, pos int) (*Node, int, bool) {
	if term, ok := s.p.gram.Terminal(name); ok {
		return s.matchTerminal(term, pos)
	}

	body, _ := s.p.gram.Rule(name)

	s.depth++
	if s.depth > s.p.maxDepth {
		panic(&RecursionLimitError{
			Limit: s.p.maxDepth,
		})
	}
	children, next, ok := s.match(body, pos)
	s.depth--
	if !ok {
		return nil, 0, false
	}
	return newNode(name, children), next, true
}

// match applies an expression at pos and returns the produced nodes and the
// new cursor. A false return is local control flow consumed by the
// enclosing choice, repetition, or optional; only the top level turns it
// into an error.
func (s *matchState) match(expr grammar.Expression, pos int) ([]*Node, int, bool) {
	switch e := expr.(type) {
	case *grammar.Reference:
		node, next, ok := s.matchRule(e.Name, pos)
		if !ok {
			return nil, 0, false
		}
		return []*Node{node}, next, true
	case *grammar.Sequence:
		var children []*Node
		cur := pos
		for _, item := range e.Items {
			nodes, next, ok := s.match(item, cur)
			if !ok {
				// The whole sequence fails; the caller keeps its own
				// cursor, so no partial consumption is observable.
				return nil, 0, false
			}
			children = append(children, nodes...)
			cur = next
		}
		return children, cur, true
	case *grammar.Choice:
		for _, alt := range e.Alternatives {
			nodes, next, ok := s.match(alt, pos)
			if ok {
				return nodes, next, true
			}
		}
		return nil, 0, false
	case *grammar.Repetition:
		var children []*Node
		cur := pos
		n := 0
		for {
			nodes, next, ok := s.match(e.Inner, cur)
			if !ok {
				break
			}
			children = append(children, nodes...)
			n++
			if next == cur {
				// The iteration consumed nothing; repeating it would loop
				// forever.
				break
			}
			cur = next
		}
		if n < e.Min {
			return nil, 0, false
		}
		return children, cur, true
	case *grammar.Optional:
		nodes, next, ok := s.match(e.Inner, pos)
		if !ok {
			return nil, pos, true
		}
		return nodes, next, true
	case *grammar.Terminal:
		node, next, ok := s.matchTerminal(e, pos)
		if !ok {
			return nil, 0, false
		}
		return []*Node{node}, next, true
	}
	return nil, 0, false
}

func (s *matchState) matchTerminal(term *grammar.Terminal, pos int) (*Node, int, bool) {
	start := s.p.skipIgnored(s.input, pos)
	loc := term.Pattern.FindStringIndex(s.input[start:])
	if loc == nil {
		s.recordFailure(start, term.Name)
		return nil, 0, false
	}
	return newLeaf(term.Name, s.input[start:start+loc[1]]), start + loc[1], true
}

func (s *matchState) recordFailure(pos int, terminal string) {
	if pos < s.furthest {
		return
	}
	if pos > s.furthest {
		s.furthest = pos
		s.expected = s.expected[:0]
	}
	for _, t := range s.expected {
		if t == terminal {
			return
		}
	}
	s.expected = append(s.expected, terminal)
}
