package token

import "fmt"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	IDENT  TokenType = "IDENT"
	SCOPE  TokenType = "::"
	COMMA  TokenType = ","
	LT     TokenType = "<"
	GT     TokenType = ">"
	LPAREN TokenType = "("
	RPAREN TokenType = ")"
	OF     TokenType = "OF"

	// DECL marks a token synthesized for a declaration read from a unit file
	// rather than lexed from a type reference.
	DECL TokenType = "DECL"
)

var keywords = map[string]TokenType{
	"of": OF,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token is a located lexeme. Symbols keep the token of their declaration so
// diagnostics can point back at it.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	File    string
	Line    int
	Column  int
}

// At builds a declaration token for name at file:line.
func At(file string, line int, name string) Token {
	return Token{Type: DECL, Lexeme: name, Literal: name, File: file, Line: line, Column: 1}
}

func (t Token) String() string {
	if t.File == "" {
		return fmt.Sprintf("%d:%d", t.Line, t.Column)
	}
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}
