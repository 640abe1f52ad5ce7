package spec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_Run(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		tokens  []*token
		err     *SyntaxError
	}{
		{
			caption: "the lexer can recognize all kinds of tokens",
			src:     `>NAME->'\d+'|()*+?;`,
			tokens: []*token{
				newSymbolToken(tokenKindTermMarker, newPosition(1, 1)),
				newIDToken("NAME", newPosition(1, 2)),
				newSymbolToken(tokenKindArrow, newPosition(1, 6)),
				newPatternToken(`\d+`, newPosition(1, 8)),
				newSymbolToken(tokenKindOr, newPosition(1, 13)),
				newSymbolToken(tokenKindLParen, newPosition(1, 14)),
				newSymbolToken(tokenKindRParen, newPosition(1, 15)),
				newSymbolToken(tokenKindStar, newPosition(1, 16)),
				newSymbolToken(tokenKindPlus, newPosition(1, 17)),
				newSymbolToken(tokenKindQuestion, newPosition(1, 18)),
				newSymbolToken(tokenKindSemicolon, newPosition(1, 19)),
				newEOFToken(newPosition(1, 20)),
			},
		},
		{
			caption: "whitespace, newlines, and line comments are insignificant",
			src: `
// a comment
SUM -> PRODUCT; // a trailing comment
`,
			tokens: []*token{
				newIDToken("SUM", newPosition(3, 1)),
				newSymbolToken(tokenKindArrow, newPosition(3, 5)),
				newIDToken("PRODUCT", newPosition(3, 8)),
				newSymbolToken(tokenKindSemicolon, newPosition(3, 15)),
				newEOFToken(newPosition(4, 1)),
			},
		},
		{
			caption: "an escaped quote stands for a quote inside a pattern, other backslashes pass through",
			src:     `'\'\d\n'`,
			tokens: []*token{
				newPatternToken(`'\d\n`, newPosition(1, 1)),
				newEOFToken(newPosition(1, 9)),
			},
		},
		{
			caption: "an unclosed pattern is a lexical error",
			src:     `'\d+`,
			err:     synErrUnclosedPattern,
		},
		{
			caption: "an empty pattern is a lexical error",
			src:     `''`,
			err:     synErrEmptyPattern,
		},
		{
			caption: "a backslash at EOF is a lexical error",
			src:     `'\`,
			err:     synErrIncompleteEscSeq,
		},
		{
			caption: "a lone minus is a lexical error",
			src:     `A - B`,
			err:     synErrIncompleteArrow,
		},
		{
			caption: "an unknown character is a lexical error",
			src:     `A -> @`,
			err:     synErrInvalidChar,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			l, err := newLexer(strings.NewReader(tt.src))
			require.NoError(t, err)
			for _, want := range tt.tokens {
				got, err := l.next()
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
			if tt.err != nil {
				for {
					tok, err := l.next()
					if err != nil {
						var synErr *SyntaxError
						require.ErrorAs(t, err, &synErr)
						assert.Equal(t, tt.err.Error(), synErr.Error()[:len(tt.err.Error())])
						break
					}
					require.NotEqual(t, tokenKindEOF, tok.kind, "expected an error before EOF")
				}
			}
		})
	}
}
