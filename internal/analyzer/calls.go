package analyzer

import (
	"context"

	slogctx "github.com/veqryn/slog-context"

	"github.com/funvibe/symres/internal/ast"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/pipeline"
	"github.com/funvibe/symres/internal/symbols"
)

// CallCheck resolves the calls listed in method and function bodies.
type CallCheck struct {
	a *Analyzer
}

func (cc *CallCheck) String() string { return "calls" }

func (cc *CallCheck) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Unit == nil {
		return ctx
	}
	for _, d := range ctx.Unit.Declarations {
		owner, ok := cc.a.SymbolFor(d)
		if !ok {
			continue
		}
		if d.Kind.IsFunction() {
			if scope, ok := owner.Members(); ok {
				for _, c := range d.Calls {
					cc.checkCall(ctx.Context, owner, scope, c, ctx.AddError)
				}
			}
			continue
		}
		for _, m := range d.Methods {
			method, ok := cc.a.MethodFor(m)
			if !ok {
				continue
			}
			scope, _ := method.Members()
			for _, c := range m.Calls {
				cc.checkCall(ctx.Context, owner, scope, c, ctx.AddError)
			}
		}
	}
	return ctx
}

// Resolve finds the symbol a call refers to from scope, the body it is made
// in. owner is the declaration the body belongs to.
func (cc *CallCheck) Resolve(owner *symbols.Symbol, scope *symbols.Scope, c *ast.CallDecl) (*symbols.Symbol, *diagnostics.DiagnosticError) {
	p := cc.a.program
	args := make([]*symbols.Symbol, len(c.Args))
	for i, ref := range c.Args {
		t, d := cc.a.resolveType(owner, owner.Module(), ref)
		if d != nil {
			return nil, d
		}
		if t == nil {
			return nil, diagnostics.Errorf(diagnostics.ErrR001, ref.Token, "argument type '%s' could not be resolved", ref.Raw)
		}
		args[i] = t
	}
	search := symbols.NewMethodSearch(c.Method, args...)
	if c.Expect != nil {
		expect, d := cc.a.resolveType(owner, owner.Module(), c.Expect)
		if d != nil {
			return nil, d
		}
		if expect != nil {
			search = search.WithOfTypeOrReturn(expect)
		}
	}

	if c.On == "" || c.On == "this" {
		if owner.IsAggregate() {
			m, err := p.ResolveMethod(scope, search, c.GetToken())
			if err != nil {
				return nil, asDiagnostic(err, c.GetToken())
			}
			return m, nil
		}
		return cc.resolveFunction(scope, search, c)
	}

	receiver, ok := cc.receiverType(scope, c.On)
	if !ok {
		return nil, diagnostics.Errorf(diagnostics.ErrR001, c.GetToken(), "receiver '%s' could not be resolved", c.On)
	}
	members, ok := receiver.Members()
	if !ok {
		return nil, diagnostics.Errorf(diagnostics.ErrR001, c.GetToken(), "'%s' has no methods", receiver.FriendlyName())
	}
	m, err := p.ResolveMethod(members, search, c.GetToken())
	if err != nil {
		return nil, asDiagnostic(err, c.GetToken())
	}
	return m, nil
}

func (cc *CallCheck) checkCall(ctx context.Context, owner *symbols.Symbol, scope *symbols.Scope, c *ast.CallDecl, report reportFunc) {
	target, d := cc.Resolve(owner, scope, c)
	if d != nil {
		report(d)
		return
	}
	slogctx.Debug(ctx, "call resolved", "line", c.Line, "call", c.Method, "target", target.String())
}

// receiverType is the declared type of a variable named on, or the type
// named on for calls on the type itself.
func (cc *CallCheck) receiverType(scope *symbols.Scope, on string) (*symbols.Symbol, bool) {
	p := cc.a.program
	if v, ok := p.Resolve(scope, symbols.NewVariableSearch(on)); ok {
		return v.DeclaredType()
	}
	return p.Resolve(scope, symbols.NewTypeSearch(on))
}

// resolveFunction handles calls without a receiver in a function body. A
// conceptual parameter type accepts any argument.
func (cc *CallCheck) resolveFunction(scope *symbols.Scope, search symbols.SymbolSearch, c *ast.CallDecl) (*symbols.Symbol, *diagnostics.DiagnosticError) {
	p := cc.a.program
	fn, ok := p.Resolve(scope, symbols.NewSymbolSearch(c.Method, symbols.FunctionCategory))
	if !ok {
		fn, ok = p.Resolve(scope, symbols.NewSymbolSearch(c.Method, symbols.TemplateFunctionCategory))
	}
	if !ok {
		return nil, diagnostics.Errorf(diagnostics.ErrR001, c.GetToken(), "function '%s' could not be resolved", c.Method)
	}

	args := search.TypeParameters()
	params := fn.ParamTypes()
	if len(args) != len(params) {
		return nil, diagnostics.Errorf(diagnostics.ErrR001, c.GetToken(), "'%s' does not accept '%s'", fn, search)
	}
	for i, param := range params {
		if param != nil && param.IsConceptual {
			continue
		}
		if !symbols.IsAssignable(args[i], param) {
			return nil, diagnostics.Errorf(diagnostics.ErrR001, c.GetToken(), "'%s' does not accept '%s'", fn, search)
		}
	}
	return fn, nil
}
