package tester

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Tree is the shape a test case expects a parse to produce. A kind of "_"
// matches any node type.
type Tree struct {
	Parent    *Tree
	Offset    int
	Kind      string
	Lexeme    string
	HasLexeme bool
	Children  []*Tree
}

func NewTree(kind string, children ...*Tree) *Tree {
	return &Tree{
		Kind:     kind,
		Children: children,
	}
}

func NewLeaf(kind string, lexeme string) *Tree {
	return &Tree{
		Kind:      kind,
		Lexeme:    lexeme,
		HasLexeme: true,
	}
}

// Fill links parent pointers and child offsets so paths can be reported in
// diffs.
func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.Parent = t
		c.Offset = i
		c.Fill()
	}
	return t
}

func (t *Tree) path() string {
	if t.Parent == nil {
		return t.Kind
	}
	return fmt.Sprintf("%v.[%v]%v", t.Parent.path(), t.Offset, t.Kind)
}

// Format writes the tree back in test-case syntax.
func (t *Tree) Format() []byte {
	var b bytes.Buffer
	t.format(&b, 0)
	return b.Bytes()
}

func (t *Tree) format(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("    ")
	}
	buf.WriteString("(")
	buf.WriteString(t.Kind)
	if t.HasLexeme {
		buf.WriteString(" '")
		buf.WriteString(strings.ReplaceAll(strings.ReplaceAll(t.Lexeme, `\`, `\\`), `'`, `\'`))
		buf.WriteString("'")
	}
	if len(t.Children) > 0 {
		buf.WriteString("\n")
		for i, c := range t.Children {
			c.format(buf, depth+1)
			if i < len(t.Children)-1 {
				buf.WriteString("\n")
			}
		}
	}
	buf.WriteString(")")
}

type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(expected, actual *Tree, message string) *TreeDiff {
	return &TreeDiff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

// DiffTree compares an actual tree against an expected one and returns
// every mismatch.
func DiffTree(expected, actual *Tree) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	if expected.Kind != "_" && actual.Kind != expected.Kind {
		msg := fmt.Sprintf("unexpected kind: expected '%v' but got '%v'", expected.Kind, actual.Kind)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if expected.HasLexeme && expected.Lexeme != actual.Lexeme {
		msg := fmt.Sprintf("unexpected lexeme: expected '%v' but got '%v'", expected.Lexeme, actual.Lexeme)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		if ds := DiffTree(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}

// TestCase is one tree test: a description, input text, and the tree the
// parse must produce, separated by --- lines.
type TestCase struct {
	Description string
	Source      []byte
	Output      *Tree
}

func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("a test case consists of just three parts separated by ---: %v parts found", len(parts))
	}

	tree, err := parseTree(bytes.NewReader(parts[2]))
	if err != nil {
		return nil, err
	}

	return &TestCase{
		Description: string(parts[0]),
		Source:      parts[1],
		Output:      tree.Fill(),
	}, nil
}

func splitIntoParts(r io.Reader) ([][]byte, error) {
	var bufs [][]byte
	s := bufio.NewScanner(r)
	for {
		buf, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, buf)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, error) {
	if !s.Scan() {
		return nil, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// Return an empty slice because (*bytes.Buffer).Bytes() returns nil
		// if we have never written data.
		return []byte{}, nil
	}
	_, err := buf.Write(line)
	if err != nil {
		return nil, err
	}
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), nil
		}
		_, err := buf.Write([]byte("\n"))
		if err != nil {
			return nil, err
		}
		_, err = buf.Write(line)
		if err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// The expected tree is written in a small s-expression form: (KIND child...)
// for internal nodes and (kind 'lexeme') for leaves. \' and \\ are the only
// escape sequences inside a lexeme.

type treeSyntaxError struct {
	message string
}

func (e *treeSyntaxError) Error() string {
	return fmt.Sprintf("invalid tree syntax: %v", e.message)
}

func parseTree(src io.Reader) (*Tree, error) {
	var b strings.Builder
	_, err := io.Copy(&b, src)
	if err != nil {
		return nil, err
	}
	p := &treeParser{
		src: []rune(b.String()),
	}
	tree, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	p.skipSpaces()
	if p.idx < len(p.src) {
		return nil, &treeSyntaxError{"unexpected text after the root node"}
	}
	return tree, nil
}

type treeParser struct {
	src []rune
	idx int
}

func (p *treeParser) parseNode() (*Tree, error) {
	p.skipSpaces()
	if !p.consume('(') {
		return nil, &treeSyntaxError{"a node must start with ("}
	}
	p.skipSpaces()
	kind := p.readSymbol()
	if kind == "" {
		return nil, &treeSyntaxError{"a node needs a kind"}
	}
	node := NewTree(kind)
	p.skipSpaces()
	if p.peek() == '\'' {
		lexeme, err := p.readLexeme()
		if err != nil {
			return nil, err
		}
		node.Lexeme = lexeme
		node.HasLexeme = true
		p.skipSpaces()
	}
	for p.peek() == '(' {
		child, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
		p.skipSpaces()
	}
	if !p.consume(')') {
		return nil, &treeSyntaxError{"a node must be closed by )"}
	}
	return node, nil
}

func (p *treeParser) readSymbol() string {
	var b strings.Builder
	for {
		c := p.peek()
		if c == 0 || c == '(' || c == ')' || c == '\'' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		b.WriteRune(c)
		p.idx++
	}
	return b.String()
}

func (p *treeParser) readLexeme() (string, error) {
	p.idx++ // opening quote
	var b strings.Builder
	for {
		if p.idx >= len(p.src) {
			return "", &treeSyntaxError{"unclosed lexeme"}
		}
		c := p.src[p.idx]
		p.idx++
		switch c {
		case '\'':
			return b.String(), nil
		case '\\':
			if p.idx >= len(p.src) {
				return "", &treeSyntaxError{"incomplete escape sequence"}
			}
			cc := p.src[p.idx]
			p.idx++
			switch cc {
			case '\'', '\\':
				b.WriteRune(cc)
			default:
				b.WriteRune('\\')
				b.WriteRune(cc)
			}
		default:
			b.WriteRune(c)
		}
	}
}

func (p *treeParser) skipSpaces() {
	for p.idx < len(p.src) {
		c := p.src[p.idx]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return
		}
		p.idx++
	}
}

func (p *treeParser) peek() rune {
	if p.idx >= len(p.src) {
		return 0
	}
	return p.src[p.idx]
}

func (p *treeParser) consume(c rune) bool {
	if p.peek() != c {
		return false
	}
	p.idx++
	return true
}
