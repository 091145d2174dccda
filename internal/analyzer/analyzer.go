package analyzer

import (
	"context"
	"sync"

	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/symres/internal/ast"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/pipeline"
	"github.com/funvibe/symres/internal/program"
	"github.com/funvibe/symres/internal/symbols"
	"github.com/funvibe/symres/internal/token"
)

// Analyzer turns declaration units into symbols of one program and checks
// them. Work is split into phases; every phase sees the complete result of
// the one before it:
//
//  1. headers: every top level declaration is defined (units in parallel)
//  2. generics: hierarchies and members of generic declarations, in
//     dependency order, so that parameterizing one never sees it half built
//  3. coercions
//  4. hierarchies of the remaining declarations
//  5. bodies: members of the remaining declarations (units in parallel)
//  6. checks: overrides, inherited ambiguity and calls (units in parallel)
type Analyzer struct {
	program *program.Program

	mu      sync.Mutex
	decls   map[*ast.Declaration]*symbols.Symbol
	methods map[*ast.MethodDecl]*symbols.Symbol
}

func New(p *program.Program) *Analyzer {
	return &Analyzer{
		program: p,
		decls:   make(map[*ast.Declaration]*symbols.Symbol),
		methods: make(map[*ast.MethodDecl]*symbols.Symbol),
	}
}

func (a *Analyzer) Program() *program.Program {
	return a.program
}

// Analyze runs every phase over units and returns the batched diagnostics.
// The error is only set when ctx is cancelled.
func (a *Analyzer) Analyze(ctx context.Context, units []*ast.Unit) (*diagnostics.List, error) {
	diags := diagnostics.NewList()

	if err := a.forEachUnit(ctx, units, diags, &DefinitionPass{a: a}); err != nil {
		return diags, err
	}

	generics, others := a.partition(units)
	for _, d := range a.genericOrder(generics) {
		sym, _ := a.SymbolFor(d)
		a.linkHierarchy(d, sym, diags.Add)
		a.defineMembers(d, sym, diags.Add)
	}

	for _, u := range units {
		a.applyCoercions(u, diags.Add)
	}

	for _, d := range others {
		sym, _ := a.SymbolFor(d)
		a.linkHierarchy(d, sym, diags.Add)
	}
	if err := ctx.Err(); err != nil {
		return diags, err
	}

	if err := a.forEachUnit(ctx, units, diags, &ReferencePass{a: a}); err != nil {
		return diags, err
	}
	if err := a.forEachUnit(ctx, units, diags, &OverrideCheck{a: a}, &CallCheck{a: a}); err != nil {
		return diags, err
	}

	hits, defs := a.program.Registry().Stats()
	slogctx.Info(ctx, "analysis complete",
		"units", len(units),
		"diagnostics", diags.Len(),
		"parameterized", defs,
		"registry_hits", hits)
	return diags, nil
}

// forEachUnit runs processors over every unit, at most Settings.Workers at
// a time.
func (a *Analyzer) forEachUnit(ctx context.Context, units []*ast.Unit, diags *diagnostics.List, processors ...pipeline.Processor) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.program.Settings().Workers)
	p := pipeline.New(processors...)
	for _, unit := range units {
		unit := unit
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pctx := p.Run(pipeline.NewUnitContext(slogctx.With(gctx, "unit", unit.ID.String(), "file", unit.File), unit, a.program))
			diags.Add(pctx.Errors...)
			return nil
		})
	}
	return g.Wait()
}

func (a *Analyzer) bind(d *ast.Declaration, sym *symbols.Symbol) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.decls[d] = sym
}

func (a *Analyzer) bindMethod(m *ast.MethodDecl, sym *symbols.Symbol) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.methods[m] = sym
}

// SymbolFor returns the symbol a declaration defined, if it was defined.
func (a *Analyzer) SymbolFor(d *ast.Declaration) (*symbols.Symbol, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sym, ok := a.decls[d]
	return sym, ok
}

// MethodFor returns the symbol a method declaration defined.
func (a *Analyzer) MethodFor(m *ast.MethodDecl) (*symbols.Symbol, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sym, ok := a.methods[m]
	return sym, ok
}

// partition splits the defined declarations into generic ones and the rest,
// both in unit order.
func (a *Analyzer) partition(units []*ast.Unit) (generics, others []*ast.Declaration) {
	for _, u := range units {
		for _, d := range u.Declarations {
			sym, ok := a.SymbolFor(d)
			if !ok {
				continue
			}
			if sym.IsGenericDeclaration() {
				generics = append(generics, d)
			} else {
				others = append(others, d)
			}
		}
	}
	return generics, others
}

type reportFunc func(...*diagnostics.DiagnosticError)

// asDiagnostic keeps diagnostics produced by the symbol layer and wraps
// anything else as unresolved at tok.
func asDiagnostic(err error, tok token.Token) *diagnostics.DiagnosticError {
	var d *diagnostics.DiagnosticError
	if errors.As(err, &d) {
		return d
	}
	return diagnostics.Errorf(diagnostics.ErrR001, tok, "%v", err)
}
