package analyzer

import (
	"github.com/funvibe/symres/internal/ast"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/pipeline"
	"github.com/funvibe/symres/internal/symbols"
)

// ReferencePass resolves the member types of a unit's non-generic
// declarations and defines the members. Generic declarations were already
// completed in dependency order.
type ReferencePass struct {
	a *Analyzer
}

func (rp *ReferencePass) String() string { return "references" }

func (rp *ReferencePass) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Unit == nil {
		return ctx
	}
	for _, d := range ctx.Unit.Declarations {
		sym, ok := rp.a.SymbolFor(d)
		if !ok || sym.IsGenericDeclaration() {
			continue
		}
		rp.a.defineMembers(d, sym, ctx.AddError)
	}
	return ctx
}

// resolveType resolves ref as written inside owner, which may be nil. The
// conceptual parameters of owner shadow everything else; other names are
// looked up from the module scope. References with arguments are
// parameterized.
func (a *Analyzer) resolveType(owner *symbols.Symbol, module string, ref *ast.TypeRef) (*symbols.Symbol, *diagnostics.DiagnosticError) {
	if !ref.IsParsed() {
		// Already reported by the parser.
		return nil, nil
	}

	var base *symbols.Symbol
	if ref.Module == "" && owner != nil {
		for _, p := range owner.TypeParameters() {
			if p.Name == ref.Name {
				base = p
				break
			}
		}
	}
	if base != nil && len(ref.Args) > 0 {
		return nil, diagnostics.Errorf(diagnostics.ErrR006, ref.Token, "type parameter '%s' takes no type arguments", ref.Name)
	}
	if base == nil {
		scope := a.program.ModuleScope(module)
		sym, ok := a.program.Resolve(scope, symbols.NewTypeSearch(ref.QualifiedName()))
		if !ok {
			return nil, diagnostics.Errorf(diagnostics.ErrR001, ref.Token, "type '%s' could not be resolved", ref.QualifiedName())
		}
		base = sym
	}

	if len(ref.Args) == 0 {
		if base.IsGenericDeclaration() && base != owner {
			return nil, diagnostics.Errorf(diagnostics.ErrR006, ref.Token,
				"generic '%s' needs %d type arguments", base.FriendlyName(), len(base.TypeParameters()))
		}
		return base, nil
	}

	args := make([]*symbols.Symbol, len(ref.Args))
	for i, arg := range ref.Args {
		t, d := a.resolveType(owner, module, arg)
		if d != nil || t == nil {
			return nil, d
		}
		args[i] = t
	}
	sym, err := a.program.Parameterize(base, args, ref.Token)
	if err != nil {
		return nil, asDiagnostic(err, ref.Token)
	}
	return sym, nil
}

// ResolveType resolves a type reference written at the top level of module,
// parameterizing it when it has arguments.
func (a *Analyzer) ResolveType(module string, ref *ast.TypeRef) (*symbols.Symbol, *diagnostics.DiagnosticError) {
	return a.resolveType(nil, module, ref)
}

// memberType resolves a type used by a member of owner. Parameterizations
// that stay generic inside a generic owner become its dependents. A nil ref
// and an unresolvable one both give nil.
func (a *Analyzer) memberType(owner *symbols.Symbol, ref *ast.TypeRef, report reportFunc) *symbols.Symbol {
	if ref == nil {
		return nil
	}
	t, d := a.resolveType(owner, owner.Module(), ref)
	if d != nil {
		report(d)
		return nil
	}
	if t != nil && owner.IsGenericDeclaration() && t.IsParameterized() && t.IsGenericInNature() {
		owner.AddDependent(t)
	}
	return t
}

// linkHierarchy resolves and records the super and traits of an aggregate.
func (a *Analyzer) linkHierarchy(d *ast.Declaration, sym *symbols.Symbol, report reportFunc) {
	if !sym.IsAggregate() {
		return
	}
	if d.Super != nil {
		if super := a.memberType(sym, d.Super, report); super != nil {
			switch {
			case !super.IsAggregate() || super.IsConceptual:
				report(diagnostics.Errorf(diagnostics.ErrR001, d.Super.Token, "'%s' cannot be extended", super.FriendlyName()))
			case super.IsTrait() && !sym.IsTrait():
				report(diagnostics.Errorf(diagnostics.ErrR001, d.Super.Token, "'%s' is a trait; list it under traits", super.FriendlyName()))
			default:
				if err := sym.SetSuperAggregate(super); err != nil {
					report(asDiagnostic(err, d.Super.Token))
				}
			}
		}
	}
	for _, ref := range d.Traits {
		trait := a.memberType(sym, ref, report)
		if trait == nil {
			continue
		}
		if !trait.IsTrait() {
			report(diagnostics.Errorf(diagnostics.ErrR001, ref.Token, "'%s' is not a trait", trait.FriendlyName()))
			continue
		}
		if err := sym.AddTrait(trait); err != nil {
			report(asDiagnostic(err, ref.Token))
		}
	}
}

// defineMembers defines the fields, methods, parameters and locals of a
// declaration.
func (a *Analyzer) defineMembers(d *ast.Declaration, sym *symbols.Symbol, report reportFunc) {
	for _, ref := range d.Depends {
		a.memberType(sym, ref, report)
	}

	members, ok := sym.Members()
	if !ok {
		return
	}

	if d.Kind.IsFunction() {
		for _, p := range d.Params {
			param := symbols.NewVariable(p.Name, a.memberType(sym, p.Type, report), p.GetToken())
			if err := sym.AddParam(param); err != nil {
				report(asDiagnostic(err, p.GetToken()))
			}
		}
		if ret := a.memberType(sym, d.Returns, report); ret != nil {
			if err := sym.SetDeclaredType(ret); err != nil {
				report(asDiagnostic(err, d.Returns.Token))
			}
		}
		a.defineLocals(sym, members, d.Locals, report)
		return
	}

	for _, f := range d.Fields {
		field := symbols.NewVariable(f.Name, a.memberType(sym, f.Type, report), f.GetToken())
		field.Access = accessOf(f.Access, f, report)
		if err := members.Define(field); err != nil {
			report(asDiagnostic(err, f.GetToken()))
		}
	}

	for _, m := range d.Methods {
		method := symbols.NewMethod(m.Name, a.memberType(sym, m.Returns, report), m.GetToken())
		method.Access = accessOf(m.Access, m, report)
		method.IsOverride = m.Override
		method.IsAbstract = m.Abstract
		method.IsPure = m.Pure
		method.IsOperator = m.Operator
		for _, p := range m.Params {
			param := symbols.NewVariable(p.Name, a.memberType(sym, p.Type, report), p.GetToken())
			if err := method.AddParam(param); err != nil {
				report(asDiagnostic(err, p.GetToken()))
			}
		}
		if err := members.Define(method); err != nil {
			report(asDiagnostic(err, m.GetToken()))
			continue
		}
		if scope, ok := method.Members(); ok {
			a.defineLocals(sym, scope, m.Locals, report)
		}
		a.bindMethod(m, method)
	}
}

func (a *Analyzer) defineLocals(owner *symbols.Symbol, scope *symbols.Scope, locals []*ast.ParamDecl, report reportFunc) {
	for _, l := range locals {
		local := symbols.NewVariable(l.Name, a.memberType(owner, l.Type, report), l.GetToken())
		if err := scope.Define(local); err != nil {
			report(asDiagnostic(err, l.GetToken()))
		}
	}
}

// applyCoercions registers the single-step promotions a unit declares.
func (a *Analyzer) applyCoercions(u *ast.Unit, report reportFunc) {
	for _, c := range u.Coercions {
		if c.From == nil || c.To == nil {
			continue
		}
		from, d := a.resolveType(nil, u.Module, c.From)
		if d != nil {
			report(d)
			continue
		}
		to, d := a.resolveType(nil, u.Module, c.To)
		if d != nil {
			report(d)
			continue
		}
		if from != nil && to != nil {
			from.AddPromotion(to)
		}
	}
}

// genericOrder sorts generic declarations so that every generic comes after
// the generics its own declaration refers to. Mutually referring generics
// keep their unit order.
func (a *Analyzer) genericOrder(generics []*ast.Declaration) []*ast.Declaration {
	bySymbol := make(map[*symbols.Symbol]*ast.Declaration, len(generics))
	for _, d := range generics {
		sym, _ := a.SymbolFor(d)
		bySymbol[sym] = d
	}

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[*ast.Declaration]int, len(generics))
	order := make([]*ast.Declaration, 0, len(generics))

	var visit func(d *ast.Declaration)
	visit = func(d *ast.Declaration) {
		if state[d] != 0 {
			return
		}
		state[d] = visiting
		sym, _ := a.SymbolFor(d)
		for _, dep := range a.genericDependencies(d, sym) {
			if next, ok := bySymbol[dep]; ok {
				visit(next)
			}
		}
		state[d] = done
		order = append(order, d)
	}
	for _, d := range generics {
		visit(d)
	}
	return order
}

// genericDependencies lists the generic declarations named anywhere in d's
// hierarchy or members, without parameterizing anything.
func (a *Analyzer) genericDependencies(d *ast.Declaration, sym *symbols.Symbol) []*symbols.Symbol {
	var refs []*ast.TypeRef
	refs = append(refs, d.Super, d.Returns)
	refs = append(refs, d.Traits...)
	refs = append(refs, d.Depends...)
	for _, f := range d.Fields {
		refs = append(refs, f.Type)
	}
	for _, p := range append(append([]*ast.ParamDecl(nil), d.Params...), d.Locals...) {
		refs = append(refs, p.Type)
	}
	for _, m := range d.Methods {
		refs = append(refs, m.Returns)
		for _, p := range append(append([]*ast.ParamDecl(nil), m.Params...), m.Locals...) {
			refs = append(refs, p.Type)
		}
	}

	seen := make(map[*symbols.Symbol]bool)
	var out []*symbols.Symbol
	var walk func(ref *ast.TypeRef)
	walk = func(ref *ast.TypeRef) {
		if !ref.IsParsed() {
			return
		}
		for _, arg := range ref.Args {
			walk(arg)
		}
		scope := a.program.ModuleScope(sym.Module())
		dep, ok := a.program.Resolve(scope, symbols.NewTypeSearch(ref.QualifiedName()))
		if ok && dep != sym && dep.IsGenericDeclaration() && !seen[dep] {
			seen[dep] = true
			out = append(out, dep)
		}
	}
	for _, ref := range refs {
		walk(ref)
	}
	return out
}
