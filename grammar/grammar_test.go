package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonasBak/gtp/spec"
)

func parseSrc(t *testing.T, src string) *spec.RootNode {
	t.Helper()
	tree, err := spec.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return tree
}

func TestNewGrammar(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		start   string
		rule    string
		body    Expression
	}{
		{
			caption: "a bare reference stays a reference",
			src: `NUMBER -> num;
>num -> '\d+';`,
			start: "NUMBER",
			rule:  "NUMBER",
			body:  &Reference{Name: "num"},
		},
		{
			caption: "juxtaposition builds a sequence, | builds an ordered choice",
			src: `OP -> pluss num | minus;
>pluss -> '\+';
>minus -> '-';
>num -> '\d+';`,
			start: "OP",
			rule:  "OP",
			body: &Choice{
				Alternatives: []Expression{
					&Sequence{Items: []Expression{
						&Reference{Name: "pluss"},
						&Reference{Name: "num"},
					}},
					&Reference{Name: "minus"},
				},
			},
		},
		{
			caption: "group operators build repetition and optional",
			src: `SUM -> NUMBER (op NUMBER)* (op)+ (op)?;
NUMBER -> num;
>op -> '[+-]';
>num -> '\d+';`,
			start: "SUM",
			rule:  "SUM",
			body: &Sequence{
				Items: []Expression{
					&Reference{Name: "NUMBER"},
					&Repetition{
						Inner: &Sequence{Items: []Expression{
							&Reference{Name: "op"},
							&Reference{Name: "NUMBER"},
						}},
						Min: 0,
					},
					&Repetition{
						Inner: &Reference{Name: "op"},
						Min:   1,
					},
					&Optional{
						Inner: &Reference{Name: "op"},
					},
				},
			},
		},
		{
			caption: "duplicate declarations accumulate into one ordered choice in declaration order",
			src: `NUMBER -> num;
NUMBER -> minus num;
>minus -> '-';
>num -> '\d+';`,
			start: "NUMBER",
			rule:  "NUMBER",
			body: &Choice{
				Alternatives: []Expression{
					&Reference{Name: "num"},
					&Sequence{Items: []Expression{
						&Reference{Name: "minus"},
						&Reference{Name: "num"},
					}},
				},
			},
		},
		{
			caption: "a rule named START takes precedence over the first declared rule",
			src: `SUM -> num;
START -> SUM;
>num -> '\d+';`,
			start: "START",
			rule:  "START",
			body:  &Reference{Name: "SUM"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := NewGrammar(parseSrc(t, tt.src))
			require.Empty(t, g.Validate())
			assert.True(t, g.Validated())
			assert.Equal(t, tt.start, g.Start())
			body, ok := g.Rule(tt.rule)
			require.True(t, ok)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestGrammar_Validate(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		check   func(t *testing.T, errs []error)
	}{
		{
			caption: "a reference to an undeclared name is reported with the rule that contains it",
			src: `SUM -> NUMBER op NUMBER;
>op -> '[+-]';`,
			check: func(t *testing.T, errs []error) {
				require.Len(t, errs, 1)
				var undefErr *UndefinedRuleError
				require.ErrorAs(t, errs[0], &undefErr)
				assert.Equal(t, "NUMBER", undefErr.Rule)
				assert.Equal(t, "SUM", undefErr.Referrer)
				assert.Equal(t, 1, undefErr.Row)
			},
		},
		{
			caption: "a terminal pattern that does not compile is reported with the terminal name",
			src: `NUMBER -> num;
>num -> '[\d';`,
			check: func(t *testing.T, errs []error) {
				require.Len(t, errs, 1)
				var patErr *InvalidPatternError
				require.ErrorAs(t, errs[0], &patErr)
				assert.Equal(t, "num", patErr.Terminal)
				assert.Equal(t, `[\d`, patErr.Pattern)
				assert.Error(t, patErr.Cause)
			},
		},
		{
			caption: "a grammar with only terminals has no start rule",
			src:     `>num -> '\d+';`,
			check: func(t *testing.T, errs []error) {
				require.Len(t, errs, 1)
				var startErr *MissingStartRuleError
				require.ErrorAs(t, errs[0], &startErr)
			},
		},
		{
			caption: "a name cannot be declared as both a rule and a terminal",
			src: `num -> digit;
>num -> '\d+';
>digit -> '\d';`,
			check: func(t *testing.T, errs []error) {
				require.Len(t, errs, 1)
				var dupErr *DuplicateNameError
				require.ErrorAs(t, errs[0], &dupErr)
				assert.Equal(t, "num", dupErr.Name)
			},
		},
		{
			caption: "all violations are collected in one pass",
			src: `SUM -> NUMBER op;
>op -> '[+-';`,
			check: func(t *testing.T, errs []error) {
				require.Len(t, errs, 2)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			g := NewGrammar(parseSrc(t, tt.src))
			errs := g.Validate()
			require.NotEmpty(t, errs)
			assert.False(t, g.Validated())
			tt.check(t, errs)
		})
	}
}

func TestGrammar_Validate_CompilesAnchoredPatterns(t *testing.T) {
	g := NewGrammar(parseSrc(t, `NUMBER -> num;
>num -> '\d+';`))
	require.Empty(t, g.Validate())
	term, ok := g.Terminal("num")
	require.True(t, ok)
	require.NotNil(t, term.Pattern)
	// Anchored at the cursor: a match not at the start is no match.
	assert.Nil(t, term.Pattern.FindStringIndex("abc123"))
	assert.Equal(t, []int{0, 3}, term.Pattern.FindStringIndex("123abc"))
}

func TestGrammar_Description(t *testing.T) {
	src := `SUM     -> PRODUCT (OPA PRODUCT)*;
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
	g := NewGrammar(parseSrc(t, src))
	require.Empty(t, g.Validate())

	want := `SUM       -> PRODUCT ( OPA PRODUCT )*;
PRODUCT   -> NUMBER ( OPB NUMBER )*;
NUMBER    -> num | minus num;
OPA       -> pluss | minus;
OPB       -> multiply | divide;

>pluss    -> '\+';
>minus    -> '-';
>multiply -> 'x';
>divide   -> '/';
>num      -> '\d+';
`
	assert.Equal(t, want, g.Description())
}
