package parser

import (
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/symres/internal/ast"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/token"
	"github.com/funvibe/symres/internal/utils"
)

var yamlLine = regexp.MustCompile(`line (\d+)`)

// ParseUnit decodes a declaration unit and parses every type reference in
// it. A unit that cannot be decoded yields a single L001; malformed
// references are reported as L002 and left unparsed.
func ParseUnit(source []byte, file string) (*ast.Unit, []*diagnostics.DiagnosticError) {
	unit := &ast.Unit{File: file}
	if err := yaml.Unmarshal(source, unit); err != nil {
		line := 1
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
		return nil, []*diagnostics.DiagnosticError{
			diagnostics.Errorf(diagnostics.ErrL001, token.At(file, line, ""), "cannot load declarations: %v", err),
		}
	}
	if unit.Module == "" && file != "" {
		unit.Module = utils.UnitModuleName(file)
	}

	b := &binder{file: file}
	if unit.Module == "" {
		b.errorf(unit.GetToken(), "unit declares no module")
	}
	unit.Accept(b)
	return unit, b.errors
}

// binder stamps the unit file on every node, checks required fields and
// parses type references.
type binder struct {
	file   string
	errors []*diagnostics.DiagnosticError
}

func (b *binder) errorf(tok token.Token, format string, args ...interface{}) {
	b.errors = append(b.errors, diagnostics.Errorf(diagnostics.ErrL001, tok, format, args...))
}

func (b *binder) fill(ref *ast.TypeRef) {
	if ref == nil {
		return
	}
	ref.Token.File = b.file
	if d := Fill(ref); d != nil {
		b.errors = append(b.errors, d)
	}
}

func (b *binder) required(ref *ast.TypeRef, tok token.Token, what string) {
	if ref == nil {
		b.errorf(tok, "%s has no type", what)
		return
	}
	b.fill(ref)
}

func (b *binder) VisitUnit(u *ast.Unit) {
	for _, d := range u.Declarations {
		d.Accept(b)
	}
	for _, c := range u.Coercions {
		c.Accept(b)
	}
}

func (b *binder) VisitDeclaration(d *ast.Declaration) {
	d.File = b.file
	if d.Name == "" {
		b.errorf(d.GetToken(), "declaration has no name")
	}
	if !d.Kind.IsKnown() {
		b.errorf(d.GetToken(), "unknown declaration kind %q", d.Kind)
	}
	if (d.Kind == ast.KindGenericType || d.Kind == ast.KindGenericFunction) && len(d.Parameters) == 0 {
		b.errorf(d.GetToken(), "generic %s has no type parameters", d.Name)
	}

	b.fill(d.Super)
	for _, t := range d.Traits {
		b.fill(t)
	}
	for _, t := range d.Depends {
		b.fill(t)
	}
	b.fill(d.Returns)

	for _, f := range d.Fields {
		f.Accept(b)
	}
	for _, m := range d.Methods {
		m.Accept(b)
	}
	for _, p := range d.Params {
		p.Accept(b)
	}
	for _, p := range d.Locals {
		p.Accept(b)
	}
	for _, c := range d.Calls {
		c.Accept(b)
	}
}

func (b *binder) VisitField(f *ast.FieldDecl) {
	f.File = b.file
	if f.Name == "" {
		b.errorf(f.GetToken(), "field has no name")
	}
	b.required(f.Type, f.GetToken(), "field "+f.Name)
}

func (b *binder) VisitMethod(m *ast.MethodDecl) {
	m.File = b.file
	if m.Name == "" {
		b.errorf(m.GetToken(), "method has no name")
	}
	b.fill(m.Returns)
	for _, p := range m.Params {
		p.Accept(b)
	}
	for _, p := range m.Locals {
		p.Accept(b)
	}
	for _, c := range m.Calls {
		c.Accept(b)
	}
}

func (b *binder) VisitParam(p *ast.ParamDecl) {
	p.File = b.file
	if p.Name == "" {
		b.errorf(p.GetToken(), "parameter has no name")
	}
	b.required(p.Type, p.GetToken(), "parameter "+p.Name)
}

func (b *binder) VisitCall(c *ast.CallDecl) {
	c.File = b.file
	if c.Method == "" {
		b.errorf(c.GetToken(), "call has no method name")
	}
	for _, a := range c.Args {
		b.fill(a)
	}
	b.fill(c.Expect)
}

func (b *binder) VisitCoercion(c *ast.Coercion) {
	c.File = b.file
	b.required(c.From, c.GetToken(), "coercion source")
	b.required(c.To, c.GetToken(), "coercion target")
}
