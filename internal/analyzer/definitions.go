package analyzer

import (
	"github.com/funvibe/symres/internal/ast"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/pipeline"
	"github.com/funvibe/symres/internal/symbols"
)

// DefinitionPass defines the top level declarations of a unit in its module
// scope, together with the conceptual parameters of generics.
type DefinitionPass struct {
	a *Analyzer
}

func (dp *DefinitionPass) String() string { return "definitions" }

func (dp *DefinitionPass) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Unit == nil {
		return ctx
	}
	scope := ctx.Program.ModuleScope(ctx.Unit.Module)
	for _, d := range ctx.Unit.Declarations {
		sym := newDeclarationSymbol(d, ctx.AddError)
		if sym == nil {
			continue
		}
		for _, name := range d.Parameters {
			if err := sym.AddTypeParameter(symbols.NewConceptualParameter(name, d.GetToken())); err != nil {
				ctx.AddError(asDiagnostic(err, d.GetToken()))
			}
		}
		if err := scope.Define(sym); err != nil {
			ctx.AddError(asDiagnostic(err, d.GetToken()))
			continue
		}
		dp.a.bind(d, sym)
	}
	return ctx
}

func genusOf(k ast.Kind) (symbols.Genus, bool) {
	switch k {
	case ast.KindType, ast.KindClass, ast.KindGenericType:
		return symbols.GenusClass, true
	case ast.KindTrait:
		return symbols.GenusTrait, true
	case ast.KindRecord:
		return symbols.GenusRecord, true
	case ast.KindComponent:
		return symbols.GenusComponent, true
	case ast.KindFunction, ast.KindGenericFunction:
		return symbols.GenusNone, false
	}
	return symbols.GenusNone, false
}

func newDeclarationSymbol(d *ast.Declaration, report reportFunc) *symbols.Symbol {
	loc := d.GetToken()
	genus, aggregate := genusOf(d.Kind)

	var sym *symbols.Symbol
	switch {
	case d.Kind == ast.KindType && !d.IsGeneric():
		sym = symbols.NewSimpleType(d.Name, loc)
	case aggregate && d.IsGeneric():
		sym = symbols.NewTemplateType(d.Name, genus, loc)
	case aggregate:
		sym = symbols.NewAggregate(d.Name, genus, loc)
	case d.Kind.IsFunction() && d.IsGeneric():
		sym = symbols.NewTemplateFunction(d.Name, nil, loc)
	case d.Kind.IsFunction():
		sym = symbols.NewFunction(d.Name, nil, loc)
	default:
		return nil
	}

	sym.Access = accessOf(d.Access, d, report)
	sym.IsAbstract = d.Abstract
	sym.IsPure = d.Pure
	return sym
}

func accessOf(s string, at ast.TokenProvider, report reportFunc) symbols.AccessModifier {
	access, ok := symbols.ParseAccessModifier(s)
	if !ok {
		report(diagnostics.Errorf(diagnostics.ErrL001, at.GetToken(), "unknown access modifier %q", s))
	}
	return access
}
