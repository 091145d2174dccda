package parser

import (
	"fmt"

	"github.com/funvibe/symres/internal/ast"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/lexer"
	"github.com/funvibe/symres/internal/token"
)

// Parser reads type references:
//
//	Type     ::= Name [ "<" TypeList ">" | "of" ( Type | "(" TypeList ")" ) ]
//	Name     ::= IDENT [ "::" IDENT ]
//	TypeList ::= Type { "," Type }
type Parser struct {
	l      *lexer.Lexer
	origin token.Token

	curToken  token.Token
	peekToken token.Token

	errors []*diagnostics.DiagnosticError
}

// New creates a parser whose token positions are reported relative to
// origin, the location the reference text was read from.
func New(l *lexer.Lexer, origin token.Token) *Parser {
	p := &Parser{l: l, origin: origin}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []*diagnostics.DiagnosticError {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.locate(p.l.NextToken())
}

func (p *Parser) locate(tok token.Token) token.Token {
	tok.File = p.origin.File
	if p.origin.Line > 0 {
		if tok.Line == 1 && p.origin.Column > 1 {
			tok.Column += p.origin.Column - 1
		}
		tok.Line += p.origin.Line - 1
	}
	return tok
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken, "expected %s, got %s", t, describe(p.peekToken))
	return false
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrL002, tok, fmt.Sprintf(format, args...)))
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ILLEGAL:
		return fmt.Sprintf("illegal character %q", tok.Lexeme)
	}
	return fmt.Sprintf("%q", tok.Lexeme)
}

// ParseType parses one complete type reference. Anything after it is an
// error.
func (p *Parser) ParseType() *ast.TypeRef {
	t := p.parseType()
	if t == nil {
		return nil
	}
	if !p.peekTokenIs(token.EOF) {
		p.errorf(p.peekToken, "unexpected %s after type reference", describe(p.peekToken))
		return nil
	}
	return t
}

func (p *Parser) parseType() *ast.TypeRef {
	if !p.curTokenIs(token.IDENT) {
		p.errorf(p.curToken, "expected type name, got %s", describe(p.curToken))
		return nil
	}
	t := &ast.TypeRef{Token: p.curToken, Name: p.curToken.Lexeme}

	if p.peekTokenIs(token.SCOPE) {
		p.nextToken() // '::'
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		t.Module = t.Name
		t.Name = p.curToken.Lexeme
	}

	switch {
	case p.peekTokenIs(token.LT):
		p.nextToken()
		args := p.parseTypeList(token.GT)
		if args == nil {
			return nil
		}
		t.Args = args
	case p.peekTokenIs(token.OF):
		p.nextToken() // 'of'
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			args := p.parseTypeList(token.RPAREN)
			if args == nil {
				return nil
			}
			t.Args = args
		} else {
			p.nextToken()
			arg := p.parseType()
			if arg == nil {
				return nil
			}
			t.Args = []*ast.TypeRef{arg}
		}
	}

	t.Raw = t.String()
	return t
}

// parseTypeList parses the list after an opening token and consumes the
// matching end token.
func (p *Parser) parseTypeList(end token.TokenType) []*ast.TypeRef {
	var args []*ast.TypeRef
	p.nextToken()
	for {
		arg := p.parseType()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken() // ','
		p.nextToken()
	}
	if !p.expectPeek(end) {
		return nil
	}
	return args
}

// ParseTypeRef parses raw as a type reference read at origin.
func ParseTypeRef(raw string, origin token.Token) (*ast.TypeRef, *diagnostics.DiagnosticError) {
	p := New(lexer.New(raw), origin)
	t := p.ParseType()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs[0]
	}
	t.Raw = raw
	return t, nil
}

// Fill parses ref.Raw in place, keeping the reference's own token.
func Fill(ref *ast.TypeRef) *diagnostics.DiagnosticError {
	parsed, d := ParseTypeRef(ref.Raw, ref.Token)
	if d != nil {
		return d
	}
	ref.Module = parsed.Module
	ref.Name = parsed.Name
	ref.Args = parsed.Args
	return nil
}
