package spec

import (
	"io"
)

// RootNode is the parse tree of a whole grammar definition. Rules appear in
// declaration order; duplicate names are kept as separate entries and merged
// into an ordered choice by the grammar builder.
type RootNode struct {
	Rules []*RuleNode
}

// RuleNode is a single `NAME -> ...;` declaration. A terminal rule
// (`>name -> 'pattern';`) carries Pattern instead of RHS.
type RuleNode struct {
	Name     string
	Terminal bool
	Pattern  string
	RHS      []*AlternativeNode
	Pos      Position
}

type AlternativeNode struct {
	Elements []*ElementNode
}

// ElementNode is either a bare reference (ID) or a parenthesized group.
type ElementNode struct {
	ID    string
	Group *GroupNode
	Pos   Position
}

type RepeatOp int

const (
	RepeatNone RepeatOp = iota
	RepeatZeroOrMore
	RepeatOneOrMore
	RepeatOptional
)

type GroupNode struct {
	Alternatives []*AlternativeNode
	Op           RepeatOp
}

func raiseSyntaxError(synErr *SyntaxError, pos Position) {
	panic(synErr.at(pos))
}

// Parse reads a grammar definition and returns its parse tree. On malformed
// input it returns a *SyntaxError; no partial tree is ever returned.
func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	return p.parse()
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			retErr = err.(error)
			return
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	rule := p.parseRule()
	if rule == nil {
		raiseSyntaxError(synErrNoRule, p.pos())
	}
	root := &RootNode{
		Rules: []*RuleNode{rule},
	}
	for {
		rule := p.parseRule()
		if rule == nil {
			break
		}
		root.Rules = append(root.Rules, rule)
	}
	return root
}

func (p *parser) parseRule() *RuleNode {
	if p.consume(tokenKindEOF) {
		return nil
	}
	terminal := p.consume(tokenKindTermMarker)
	if !p.consume(tokenKindID) {
		raiseSyntaxError(synErrNoRuleName, p.pos())
	}
	name := p.lastTok.text
	pos := p.lastTok.pos
	if !p.consume(tokenKindArrow) {
		raiseSyntaxError(synErrNoArrow, p.pos())
	}
	if terminal {
		if !p.consume(tokenKindPattern) {
			raiseSyntaxError(synErrNoPattern, p.pos())
		}
		pat := p.lastTok.text
		if !p.consume(tokenKindSemicolon) {
			raiseSyntaxError(synErrNoSemicolon, p.pos())
		}
		return &RuleNode{
			Name:     name,
			Terminal: true,
			Pattern:  pat,
			Pos:      pos,
		}
	}
	if p.peek().kind == tokenKindSemicolon || p.peek().kind == tokenKindEOF {
		raiseSyntaxError(synErrNoRuleBody, p.pos())
	}
	rhs := p.parseAlternatives()
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(synErrNoSemicolon, p.pos())
	}
	return &RuleNode{
		Name: name,
		RHS:  rhs,
		Pos:  pos,
	}
}

func (p *parser) parseAlternatives() []*AlternativeNode {
	alt := p.parseAlternative()
	alts := []*AlternativeNode{alt}
	for {
		if !p.consume(tokenKindOr) {
			break
		}
		alt := p.parseAlternative()
		alts = append(alts, alt)
	}
	return alts
}

func (p *parser) parseAlternative() *AlternativeNode {
	elem := p.parseElement()
	if elem == nil {
		raiseSyntaxError(synErrEmptyAlt, p.pos())
	}
	elems := []*ElementNode{elem}
	for {
		elem := p.parseElement()
		if elem == nil {
			break
		}
		elems = append(elems, elem)
	}
	return &AlternativeNode{
		Elements: elems,
	}
}

func (p *parser) parseElement() *ElementNode {
	switch {
	case p.consume(tokenKindID):
		return &ElementNode{
			ID:  p.lastTok.text,
			Pos: p.lastTok.pos,
		}
	case p.consume(tokenKindLParen):
		pos := p.lastTok.pos
		if p.consume(tokenKindRParen) {
			raiseSyntaxError(synErrEmptyGroup, pos)
		}
		alts := p.parseAlternatives()
		if !p.consume(tokenKindRParen) {
			raiseSyntaxError(synErrUnclosedGroup, p.pos())
		}
		op := RepeatNone
		switch {
		case p.consume(tokenKindStar):
			op = RepeatZeroOrMore
		case p.consume(tokenKindPlus):
			op = RepeatOneOrMore
		case p.consume(tokenKindQuestion):
			op = RepeatOptional
		}
		return &ElementNode{
			Group: &GroupNode{
				Alternatives: alts,
				Op:           op,
			},
			Pos: pos,
		}
	case p.consume(tokenKindPattern):
		raiseSyntaxError(synErrPatternInBody, p.lastTok.pos)
	case p.consume(tokenKindTermMarker):
		raiseSyntaxError(synErrTermMarkerInRHS, p.lastTok.pos)
	case p.consume(tokenKindStar), p.consume(tokenKindPlus), p.consume(tokenKindQuestion):
		raiseSyntaxError(synErrStrayOperator, p.lastTok.pos)
	}
	return nil
}

func (p *parser) pos() Position {
	return p.peek().pos
}

func (p *parser) peek() *token {
	if p.peekedTok == nil {
		tok, err := p.lex.next()
		if err != nil {
			panic(err)
		}
		p.peekedTok = tok
	}
	return p.peekedTok
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.peek()
	if tok.kind != expected {
		return false
	}
	p.peekedTok = nil
	p.lastTok = tok
	return true
}
