package ast

import (
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/symres/internal/token"
)

// TokenProvider is an interface for any declaration node that can provide its
// primary token. This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all declaration nodes.
type Node interface {
	TokenProvider
	TokenLiteral() string
	Accept(v Visitor)
}

// Visitor is implemented by the passes that walk a unit. Accept only
// dispatches; visitors decide whether to descend.
type Visitor interface {
	VisitUnit(u *Unit)
	VisitDeclaration(d *Declaration)
	VisitField(f *FieldDecl)
	VisitMethod(m *MethodDecl)
	VisitParam(p *ParamDecl)
	VisitCall(c *CallDecl)
	VisitCoercion(c *Coercion)
}

// Unit is one declaration file: the tree an earlier phase hands over for a
// single translation unit.
type Unit struct {
	ID   uuid.UUID `yaml:"-"`
	File string    `yaml:"-"`

	Module       string         `yaml:"module"`
	Declarations []*Declaration `yaml:"declarations"`
	Coercions    []*Coercion    `yaml:"coercions"`
}

func (u *Unit) Accept(v Visitor)     { v.VisitUnit(u) }
func (u *Unit) TokenLiteral() string { return u.Module }
func (u *Unit) GetToken() token.Token {
	if u == nil {
		return token.Token{}
	}
	return token.At(u.File, 1, u.Module)
}

// Kind is the construct a declaration introduces.
type Kind string

const (
	KindType            Kind = "type"
	KindClass           Kind = "class"
	KindTrait           Kind = "trait"
	KindRecord          Kind = "record"
	KindComponent       Kind = "component"
	KindGenericType     Kind = "generic-type"
	KindFunction        Kind = "function"
	KindGenericFunction Kind = "generic-function"
)

// IsKnown reports whether k is one of the declaration kinds.
func (k Kind) IsKnown() bool {
	switch k {
	case KindType, KindClass, KindTrait, KindRecord, KindComponent,
		KindGenericType, KindFunction, KindGenericFunction:
		return true
	}
	return false
}

func (k Kind) IsFunction() bool {
	return k == KindFunction || k == KindGenericFunction
}

// Declaration is a top level type or function.
type Declaration struct {
	File string `yaml:"-"`

	Kind     Kind   `yaml:"kind"`
	Name     string `yaml:"name"`
	Line     int    `yaml:"line"`
	Access   string `yaml:"access"`
	Abstract bool   `yaml:"abstract"`
	Pure     bool   `yaml:"pure"`

	// Parameters names the conceptual type parameters of a generic.
	Parameters []string `yaml:"parameters"`

	Super   *TypeRef   `yaml:"super"`
	Traits  []*TypeRef `yaml:"traits"`
	Depends []*TypeRef `yaml:"depends"`

	Fields  []*FieldDecl  `yaml:"fields"`
	Methods []*MethodDecl `yaml:"methods"`

	// Functions only.
	Params  []*ParamDecl `yaml:"params"`
	Returns *TypeRef     `yaml:"returns"`
	Locals  []*ParamDecl `yaml:"locals"`
	Calls   []*CallDecl  `yaml:"calls"`
}

func (d *Declaration) UnmarshalYAML(node *yaml.Node) error {
	type plain Declaration
	if err := node.Decode((*plain)(d)); err != nil {
		return err
	}
	if d.Line == 0 {
		d.Line = node.Line
	}
	return nil
}

func (d *Declaration) Accept(v Visitor)     { v.VisitDeclaration(d) }
func (d *Declaration) TokenLiteral() string { return d.Name }
func (d *Declaration) GetToken() token.Token {
	if d == nil {
		return token.Token{}
	}
	return token.At(d.File, d.Line, d.Name)
}

// IsGeneric reports whether the declaration introduces conceptual parameters.
func (d *Declaration) IsGeneric() bool {
	return len(d.Parameters) > 0 || d.Kind == KindGenericType || d.Kind == KindGenericFunction
}

// FieldDecl is a property of an aggregate.
type FieldDecl struct {
	File string `yaml:"-"`

	Name   string   `yaml:"name"`
	Type   *TypeRef `yaml:"type"`
	Line   int      `yaml:"line"`
	Access string   `yaml:"access"`
}

func (f *FieldDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain FieldDecl
	if err := node.Decode((*plain)(f)); err != nil {
		return err
	}
	if f.Line == 0 {
		f.Line = node.Line
	}
	return nil
}

func (f *FieldDecl) Accept(v Visitor)     { v.VisitField(f) }
func (f *FieldDecl) TokenLiteral() string { return f.Name }
func (f *FieldDecl) GetToken() token.Token {
	if f == nil {
		return token.Token{}
	}
	return token.At(f.File, f.Line, f.Name)
}

// MethodDecl is a method of an aggregate. Locals and calls stand in for the
// body: the variables it declares and the calls it makes.
type MethodDecl struct {
	File string `yaml:"-"`

	Name     string       `yaml:"name"`
	Line     int          `yaml:"line"`
	Access   string       `yaml:"access"`
	Override bool         `yaml:"override"`
	Abstract bool         `yaml:"abstract"`
	Pure     bool         `yaml:"pure"`
	Operator bool         `yaml:"operator"`
	Params   []*ParamDecl `yaml:"params"`
	Returns  *TypeRef     `yaml:"returns"`
	Locals   []*ParamDecl `yaml:"locals"`
	Calls    []*CallDecl  `yaml:"calls"`
}

func (m *MethodDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain MethodDecl
	if err := node.Decode((*plain)(m)); err != nil {
		return err
	}
	if m.Line == 0 {
		m.Line = node.Line
	}
	return nil
}

func (m *MethodDecl) Accept(v Visitor)     { v.VisitMethod(m) }
func (m *MethodDecl) TokenLiteral() string { return m.Name }
func (m *MethodDecl) GetToken() token.Token {
	if m == nil {
		return token.Token{}
	}
	return token.At(m.File, m.Line, m.Name)
}

// ParamDecl is a call parameter or a local variable.
type ParamDecl struct {
	File string `yaml:"-"`

	Name string   `yaml:"name"`
	Type *TypeRef `yaml:"type"`
	Line int      `yaml:"line"`
}

func (p *ParamDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain ParamDecl
	if err := node.Decode((*plain)(p)); err != nil {
		return err
	}
	if p.Line == 0 {
		p.Line = node.Line
	}
	return nil
}

func (p *ParamDecl) Accept(v Visitor)     { v.VisitParam(p) }
func (p *ParamDecl) TokenLiteral() string { return p.Name }
func (p *ParamDecl) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return token.At(p.File, p.Line, p.Name)
}

// CallDecl is a call made from a method or function body. On names the
// receiver: a variable, a type, or empty for the enclosing aggregate or a
// free function.
type CallDecl struct {
	File string `yaml:"-"`

	Line   int        `yaml:"line"`
	On     string     `yaml:"on"`
	Method string     `yaml:"method"`
	Args   []*TypeRef `yaml:"args"`
	Expect *TypeRef   `yaml:"expect"`
}

func (c *CallDecl) UnmarshalYAML(node *yaml.Node) error {
	type plain CallDecl
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}
	if c.Line == 0 {
		c.Line = node.Line
	}
	return nil
}

func (c *CallDecl) Accept(v Visitor)     { v.VisitCall(c) }
func (c *CallDecl) TokenLiteral() string { return c.Method }
func (c *CallDecl) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return token.At(c.File, c.Line, c.Method)
}

// Coercion declares that From can be promoted to To in a single step.
type Coercion struct {
	File string `yaml:"-"`

	From *TypeRef `yaml:"from"`
	To   *TypeRef `yaml:"to"`
	Line int      `yaml:"line"`
}

func (c *Coercion) UnmarshalYAML(node *yaml.Node) error {
	type plain Coercion
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}
	if c.Line == 0 {
		c.Line = node.Line
	}
	return nil
}

func (c *Coercion) Accept(v Visitor)     { v.VisitCoercion(c) }
func (c *Coercion) TokenLiteral() string { return "coercion" }
func (c *Coercion) GetToken() token.Token {
	if c == nil {
		return token.Token{}
	}
	return token.At(c.File, c.Line, "coercion")
}
