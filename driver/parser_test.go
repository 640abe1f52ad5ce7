package driver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonasBak/gtp/grammar"
	"github.com/JonasBak/gtp/spec"
)

const arithSrc = `SUM     -> PRODUCT (OPA PRODUCT)*;
PRODUCT -> NUMBER (OPB NUMBER)*;
NUMBER  -> num;
NUMBER  -> minus num;
OPA     -> pluss | minus;
OPB     -> multiply | divide;

>pluss    -> '\+';
>minus    -> '-';
>multiply -> 'x';
>divide   -> '/';
>num      -> '\d+';`

func compile(t *testing.T, src string) *grammar.Grammar {
	t.Helper()
	tree, err := spec.Parse(strings.NewReader(src))
	require.NoError(t, err)
	g := grammar.NewGrammar(tree)
	require.Empty(t, g.Validate())
	return g
}

func leaf(typ, raw string) *Node {
	return newLeaf(typ, raw)
}

func node(typ string, children ...*Node) *Node {
	return newNode(typ, children)
}

func TestParser_Parse_Arithmetic(t *testing.T) {
	p, err := NewParser(compile(t, arithSrc))
	require.NoError(t, err)

	root, end, err := p.ParsePrefix("4+3x5")
	require.NoError(t, err)
	assert.Equal(t, len("4+3x5"), end)

	want := node("SUM",
		node("PRODUCT",
			node("NUMBER", leaf("num", "4")),
		),
		node("OPA", leaf("pluss", "+")),
		node("PRODUCT",
			node("NUMBER", leaf("num", "3")),
			node("OPB", leaf("multiply", "x")),
			node("NUMBER", leaf("num", "5")),
		),
	)
	assert.Equal(t, want, root)

	// The leaves under any node concatenate to the input it consumed.
	assert.Equal(t, "4+3x5", root.Text())
	assert.Equal(t, "4", root.Children[0].Text())
	assert.Equal(t, "3x5", root.Children[2].Text())
}

func TestParser_Parse_OrderedChoicePicksFirstMatch(t *testing.T) {
	// Alternative 1 matches a strict prefix of what alternative 2 would
	// match; the first match must still win.
	p, err := NewParser(compile(t, `WORD -> short | long;
>short -> 'ab';
>long  -> 'abc';`))
	require.NoError(t, err)

	root, end, err := p.ParsePrefix("abc")
	require.NoError(t, err)
	assert.Equal(t, node("WORD", leaf("short", "ab")), root)
	assert.Equal(t, 2, end)
}

func TestParser_Parse_DuplicateDeclarationsTryInOrder(t *testing.T) {
	p, err := NewParser(compile(t, `NUMBER -> num;
NUMBER -> minus num;
>minus -> '-';
>num   -> '\d+';`))
	require.NoError(t, err)

	root, err := p.Parse("-5")
	require.NoError(t, err)
	assert.Equal(t, node("NUMBER", leaf("minus", "-"), leaf("num", "5")), root)

	// Both alternatives were attempted at the failure position, first first.
	_, err = p.Parse("q")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 0, parseErr.Pos)
	assert.Equal(t, []string{"num", "minus"}, parseErr.Expected)
}

func TestParser_Parse_Repetition(t *testing.T) {
	tests := []struct {
		caption  string
		src      string
		input    string
		children int
		fails    bool
	}{
		{
			caption:  "zero-or-more never fails and may produce zero children",
			src:      "LIST -> (item)*;\n>item -> 'a';",
			input:    "",
			children: 0,
		},
		{
			caption:  "zero-or-more is greedy",
			src:      "LIST -> (item)*;\n>item -> 'a';",
			input:    "aaa",
			children: 3,
		},
		{
			caption: "one-or-more fails on zero iterations",
			src:     "LIST -> (item)+;\n>item -> 'a';",
			input:   "",
			fails:   true,
		},
		{
			caption:  "one-or-more succeeds with a single iteration",
			src:      "LIST -> (item)+;\n>item -> 'a';",
			input:    "a",
			children: 1,
		},
		{
			caption:  "an iteration that consumes nothing is not repeated",
			src:      "LIST -> (item)*;\n>item -> 'a*';",
			input:    "bbb",
			children: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			p, err := NewParser(compile(t, tt.src))
			require.NoError(t, err)
			root, err := p.Parse(tt.input)
			if tt.fails {
				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, root.Children, tt.children)
		})
	}
}

func TestParser_Parse_Optional(t *testing.T) {
	p, err := NewParser(compile(t, `FLOAT -> num (dot num)?;
>dot -> '\.';
>num -> '\d+';`))
	require.NoError(t, err)

	root, err := p.Parse("12.34")
	require.NoError(t, err)
	assert.Equal(t, node("FLOAT", leaf("num", "12"), leaf("dot", "."), leaf("num", "34")), root)

	root, end, err := p.ParsePrefix("12")
	require.NoError(t, err)
	assert.Equal(t, node("FLOAT", leaf("num", "12")), root)
	assert.Equal(t, 2, end)

	// "12." matches with the optional part absent; the dot is left over.
	_, end, err = p.ParsePrefix("12.")
	require.NoError(t, err)
	assert.Equal(t, 2, end)
}

func TestParser_Parse_PrefixMatchIsSuccess(t *testing.T) {
	p, err := NewParser(compile(t, `NUMBER -> num;
>num -> '\d+';`))
	require.NoError(t, err)

	root, end, err := p.ParsePrefix("42 and change")
	require.NoError(t, err)
	assert.Equal(t, node("NUMBER", leaf("num", "42")), root)
	assert.Equal(t, 2, end)
	assert.Equal(t, " and change", p.Rest("42 and change", end))
}

func TestParser_Parse_IgnoreOptions(t *testing.T) {
	src := arithSrc
	input := "4 + 3 x 5\n"

	// Without ignore options the parse stops at the first space.
	p, err := NewParser(compile(t, src))
	require.NoError(t, err)
	_, end, err := p.ParsePrefix(input)
	require.NoError(t, err)
	assert.Equal(t, 1, end)

	p, err = NewParser(compile(t, src), IgnoreWhitespace(), IgnoreNewline())
	require.NoError(t, err)
	root, end, err := p.ParsePrefix(input)
	require.NoError(t, err)
	assert.Equal(t, "4+3x5", root.Text())
	assert.Empty(t, p.Rest(input, end))
}

func TestParser_Parse_FurthestFailureWins(t *testing.T) {
	p, err := NewParser(compile(t, `PAIR -> lparen SUM rparen;
SUM -> NUMBER (pluss NUMBER)*;
NUMBER -> num;
>lparen -> '\(';
>rparen -> '\)';
>pluss  -> '\+';
>num    -> '\d+';`))
	require.NoError(t, err)

	// The closing paren fails at offset 4, but the dangling + led the
	// engine one character further; the deepest attempt is what's reported.
	_, err = p.Parse("(4+3+")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 5, parseErr.Pos)
	assert.Equal(t, []string{"num"}, parseErr.Expected)
}

func TestParser_Parse_ParseErrorPosition(t *testing.T) {
	p, err := NewParser(compile(t, `PAIR -> lparen num rparen;
>lparen -> '\(';
>rparen -> '\)';
>num    -> '\d+';`))
	require.NoError(t, err)

	_, err = p.Parse("(42")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Pos)
	assert.Equal(t, 1, parseErr.Row)
	assert.Equal(t, 4, parseErr.Col)
	assert.Equal(t, []string{"rparen"}, parseErr.Expected)
	assert.Equal(t, "parse failed at 1:4: expected rparen", parseErr.Error())
}

func TestParser_Parse_RecursionLimit(t *testing.T) {
	p, err := NewParser(compile(t, `E -> E pluss | num;
>pluss -> '\+';
>num   -> '\d+';`), MaxDepth(50))
	require.NoError(t, err)

	_, err = p.Parse("1+2")
	var limitErr *RecursionLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 50, limitErr.Limit)
}

func TestParser_Parse_MutualRecursion(t *testing.T) {
	// Forward and mutually recursive references resolve lazily.
	p, err := NewParser(compile(t, `ITEM -> LIST | num;
LIST -> lbrack (ITEM)* rbrack;
>lbrack -> '\[';
>rbrack -> '\]';
>num    -> '\d+';`))
	require.NoError(t, err)

	root, err := p.Parse("[[7][]]")
	require.NoError(t, err)
	assert.Equal(t, "[[7][]]", root.Text())
}

func TestParser_Parse_Bubble(t *testing.T) {
	p, err := NewParser(compile(t, arithSrc), WithBubble())
	require.NoError(t, err)

	root, err := p.Parse("4")
	require.NoError(t, err)
	// SUM -> PRODUCT -> NUMBER -> num all collapse to the leaf.
	assert.Equal(t, leaf("num", "4"), root)
}

func TestParser_Parse_StartRule(t *testing.T) {
	g := compile(t, arithSrc)

	p, err := NewParser(g, StartRule("NUMBER"))
	require.NoError(t, err)
	root, err := p.Parse("-5")
	require.NoError(t, err)
	assert.Equal(t, "NUMBER", root.Type)

	_, err = NewParser(g, StartRule("EXPR"))
	var startErr *grammar.MissingStartRuleError
	require.ErrorAs(t, err, &startErr)
	assert.Equal(t, "EXPR", startErr.Start)
}

func TestNewParser_RequiresValidatedGrammar(t *testing.T) {
	tree, err := spec.Parse(strings.NewReader(`NUMBER -> num;
>num -> '\d+';`))
	require.NoError(t, err)
	g := grammar.NewGrammar(tree)

	_, err = NewParser(g)
	require.Error(t, err)
}

func TestParser_Parse_Concurrent(t *testing.T) {
	p, err := NewParser(compile(t, arithSrc))
	require.NoError(t, err)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				root, err := p.Parse("4+3x5")
				assert.NoError(t, err)
				assert.Equal(t, "4+3x5", root.Text())
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
