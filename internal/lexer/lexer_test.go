package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/funvibe/symres/internal/token"
)

func TestNextToken(t *testing.T) {
	input := "lang::Dict<String, List of Integer>"

	tests := []struct {
		expectedType   token.TokenType
		expectedLexeme string
		expectedColumn int
	}{
		{token.IDENT, "lang", 1},
		{token.SCOPE, "::", 5},
		{token.IDENT, "Dict", 7},
		{token.LT, "<", 11},
		{token.IDENT, "String", 12},
		{token.COMMA, ",", 18},
		{token.IDENT, "List", 20},
		{token.OF, "of", 25},
		{token.IDENT, "Integer", 28},
		{token.GT, ">", 35},
		{token.EOF, "", 36},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		assert.Equal(t, tt.expectedType, tok.Type, "tests[%d] type", i)
		assert.Equal(t, tt.expectedLexeme, tok.Lexeme, "tests[%d] lexeme", i)
		assert.Equal(t, tt.expectedColumn, tok.Column, "tests[%d] column", i)
	}
}

func TestIllegalCharacters(t *testing.T) {
	tests := []struct {
		input  string
		lexeme string
	}{
		{"a:b", ":"},
		{"Box[T]", "["},
		{"9Lives", "9"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var illegal []string
			for _, tok := range New(tt.input).Tokens() {
				if tok.Type == token.ILLEGAL {
					illegal = append(illegal, tok.Lexeme)
				}
			}
			assert.Contains(t, illegal, tt.lexeme)
		})
	}
}

func TestTokensEndWithEOF(t *testing.T) {
	toks := New("  Pair ( Int , Int ) ").Tokens()
	assert.Equal(t, token.EOF, toks[len(toks)-1].Type)
	assert.Len(t, toks, 7)
}
