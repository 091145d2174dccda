package ast

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/symres/internal/config"
	"github.com/funvibe/symres/internal/token"
)

// TypeRef is a reference to a type such as Integer, lang::Integer or
// Dict<String, List<Integer>>. It is read as a raw string from the unit and
// filled in by the parser.
type TypeRef struct {
	Token token.Token
	Raw   string

	Module string
	Name   string
	Args   []*TypeRef
}

func (t *TypeRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &yaml.TypeError{Errors: []string{"type reference must be a string"}}
	}
	t.Raw = node.Value
	t.Token = token.Token{
		Type:    token.DECL,
		Lexeme:  node.Value,
		Literal: node.Value,
		Line:    node.Line,
		Column:  node.Column,
	}
	return nil
}

func (t *TypeRef) TokenLiteral() string { return t.Raw }
func (t *TypeRef) GetToken() token.Token {
	if t == nil {
		return token.Token{}
	}
	return t.Token
}

// IsParsed reports whether the parser has filled in the reference.
func (t *TypeRef) IsParsed() bool {
	return t != nil && t.Name != ""
}

// QualifiedName is module::Name, or Name when unqualified.
func (t *TypeRef) QualifiedName() string {
	if t.Module == "" {
		return t.Name
	}
	return t.Module + config.ModuleSeparator + t.Name
}

// String renders the reference in its canonical angle-bracket form.
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	if !t.IsParsed() {
		return t.Raw
	}
	if len(t.Args) == 0 {
		return t.QualifiedName()
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.QualifiedName() + "<" + strings.Join(args, ", ") + ">"
}
