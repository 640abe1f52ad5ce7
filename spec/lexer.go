package spec

import (
	"io"
	"strings"
	"unicode"
)

type tokenKind string

const (
	tokenKindID         = tokenKind("id")
	tokenKindTermMarker = tokenKind(">")
	tokenKindArrow      = tokenKind("->")
	tokenKindPattern    = tokenKind("pattern")
	tokenKindOr         = tokenKind("|")
	tokenKindLParen     = tokenKind("(")
	tokenKindRParen     = tokenKind(")")
	tokenKindStar       = tokenKind("*")
	tokenKindPlus       = tokenKind("+")
	tokenKindQuestion   = tokenKind("?")
	tokenKindSemicolon  = tokenKind(";")
	tokenKindEOF        = tokenKind("eof")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newIDToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindID,
		text: text,
		pos:  pos,
	}
}

func newPatternToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindPattern,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

type lexer struct {
	src []rune
	idx int
	row int
	col int
}

func newLexer(src io.Reader) (*lexer, error) {
	var b strings.Builder
	_, err := io.Copy(&b, src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		src: []rune(b.String()),
		row: 1,
		col: 1,
	}, nil
}

func (l *lexer) next() (*token, error) {
	l.skipInsignificant()
	pos := newPosition(l.row, l.col)
	c, eof := l.peekChar()
	if eof {
		return newEOFToken(pos), nil
	}
	switch {
	case c == '>':
		l.readChar()
		return newSymbolToken(tokenKindTermMarker, pos), nil
	case c == '|':
		l.readChar()
		return newSymbolToken(tokenKindOr, pos), nil
	case c == '(':
		l.readChar()
		return newSymbolToken(tokenKindLParen, pos), nil
	case c == ')':
		l.readChar()
		return newSymbolToken(tokenKindRParen, pos), nil
	case c == '*':
		l.readChar()
		return newSymbolToken(tokenKindStar, pos), nil
	case c == '+':
		l.readChar()
		return newSymbolToken(tokenKindPlus, pos), nil
	case c == '?':
		l.readChar()
		return newSymbolToken(tokenKindQuestion, pos), nil
	case c == ';':
		l.readChar()
		return newSymbolToken(tokenKindSemicolon, pos), nil
	case c == '-':
		l.readChar()
		c, eof := l.peekChar()
		if eof || c != '>' {
			return nil, synErrIncompleteArrow.at(pos)
		}
		l.readChar()
		return newSymbolToken(tokenKindArrow, pos), nil
	case c == '\'':
		l.readChar()
		return l.lexPattern(pos)
	case isIDChar(c):
		return l.lexID(pos), nil
	}
	return nil, synErrInvalidChar.withDetail(string(c)).at(pos)
}

// lexPattern reads the characters between the ' delimiters verbatim. The
// only escape sequence interpreted here is \', which stands for a quote
// inside a pattern; all other backslashes belong to the regular expression
// and are passed through untouched.
func (l *lexer) lexPattern(pos Position) (*token, error) {
	var b strings.Builder
	for {
		c, eof := l.readChar()
		if eof {
			return nil, synErrUnclosedPattern.at(pos)
		}
		switch c {
		case '\'':
			if b.Len() == 0 {
				return nil, synErrEmptyPattern.at(pos)
			}
			return newPatternToken(b.String(), pos), nil
		case '\\':
			cc, eof := l.peekChar()
			if eof {
				return nil, synErrIncompleteEscSeq.at(pos)
			}
			if cc == '\'' {
				l.readChar()
				b.WriteRune('\'')
			} else {
				b.WriteRune('\\')
			}
		default:
			b.WriteRune(c)
		}
	}
}

func (l *lexer) lexID(pos Position) *token {
	var b strings.Builder
	for {
		c, eof := l.peekChar()
		if eof || !isIDChar(c) {
			break
		}
		l.readChar()
		b.WriteRune(c)
	}
	return newIDToken(b.String(), pos)
}

func (l *lexer) skipInsignificant() {
	for {
		c, eof := l.peekChar()
		if eof {
			return
		}
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.readChar()
		case c == '/' && l.peekCharAt(1) == '/':
			for {
				c, eof := l.readChar()
				if eof || c == '\n' {
					break
				}
			}
		default:
			return
		}
	}
}

func (l *lexer) peekChar() (rune, bool) {
	if l.idx >= len(l.src) {
		return 0, true
	}
	return l.src[l.idx], false
}

func (l *lexer) peekCharAt(offset int) rune {
	if l.idx+offset >= len(l.src) {
		return 0
	}
	return l.src[l.idx+offset]
}

func (l *lexer) readChar() (rune, bool) {
	c, eof := l.peekChar()
	if eof {
		return 0, true
	}
	l.idx++
	if c == '\n' {
		l.row++
		l.col = 1
	} else {
		l.col++
	}
	return c, false
}

func isIDChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}
