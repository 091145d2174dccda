package program

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/symres/internal/config"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/symbols"
	"github.com/funvibe/symres/internal/token"
)

func loc(line int) token.Token {
	return token.At("program.decl.yaml", line, "")
}

func define(t *testing.T, scope *symbols.Scope, sym *symbols.Symbol) *symbols.Symbol {
	t.Helper()
	require.NoError(t, scope.Define(sym))
	return sym
}

func members(t *testing.T, s *symbols.Symbol) *symbols.Scope {
	t.Helper()
	m, ok := s.Members()
	require.True(t, ok)
	return m
}

func TestModuleScopesAreShared(t *testing.T) {
	p := New(config.Defaults())
	a := p.ModuleScope("app")
	assert.Same(t, a, p.ModuleScope("app"))
	p.ModuleScope("lang")
	p.ModuleScope("util")
	assert.Equal(t, []string{"app", "lang", "util"}, p.Modules())

	_, ok := p.LookupModule("missing")
	assert.False(t, ok)
}

func TestResolveImplicitAndQualified(t *testing.T) {
	p := New(config.Defaults())
	lang := p.ModuleScope("lang")
	app := p.ModuleScope("app")
	util := p.ModuleScope("util")

	integer := define(t, lang, symbols.NewAggregate("Integer", symbols.GenusClass, loc(1)))
	helper := define(t, util, symbols.NewAggregate("Helper", symbols.GenusClass, loc(2)))
	own := define(t, app, symbols.NewAggregate("Main", symbols.GenusClass, loc(3)))

	got, ok := p.Resolve(members(t, own), symbols.NewTypeSearch("Integer"))
	require.True(t, ok)
	assert.Same(t, integer, got)

	_, ok = p.Resolve(app, symbols.NewTypeSearch("Helper"))
	assert.False(t, ok, "other modules need qualification")

	got, ok = p.Resolve(app, symbols.NewTypeSearch("util::Helper"))
	require.True(t, ok)
	assert.Same(t, helper, got)

	_, ok = p.Resolve(app, symbols.NewTypeSearch("nowhere::Helper"))
	assert.False(t, ok)

	_, err := p.ResolveMandatory(app, symbols.NewTypeSearch("Missing"), loc(9))
	var diag *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, diagnostics.ErrR001, diag.Code)
	assert.Equal(t, 9, diag.Token.Line)
}

func TestResolveMethodReportsTiedSet(t *testing.T) {
	p := New(config.Defaults())
	app := p.ModuleScope("app")
	a := define(t, app, symbols.NewAggregate("A", symbols.GenusTrait, loc(1)))
	b := define(t, app, symbols.NewAggregate("B", symbols.GenusTrait, loc(2)))
	c := define(t, app, symbols.NewAggregate("C", symbols.GenusClass, loc(3)))
	boolean := define(t, app, symbols.NewAggregate("Boolean", symbols.GenusClass, loc(4)))
	define(t, members(t, a), symbols.NewMethod("f", boolean, loc(10)))
	define(t, members(t, b), symbols.NewMethod("f", boolean, loc(20)))
	require.NoError(t, c.AddTrait(a))
	require.NoError(t, c.AddTrait(b))

	result := p.ResolveMatchingMethods(members(t, c), symbols.NewMethodSearch("f"))
	assert.True(t, result.IsAmbiguous())
	assert.Len(t, result.AmbiguousMethodParameters(), 2)

	_, err := p.ResolveMethod(members(t, c), symbols.NewMethodSearch("f"), loc(30))
	var diag *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, diagnostics.ErrR002, diag.Code)
	assert.Len(t, diag.Related, 2)

	_, err = p.ResolveMethod(members(t, c), symbols.NewMethodSearch("g"), loc(31))
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, diagnostics.ErrR001, diag.Code)
}

func TestTieToleranceFromSettings(t *testing.T) {
	build := func(t *testing.T, tolerance float64) (*Program, *symbols.Symbol, *symbols.Symbol) {
		settings := config.Defaults()
		settings.TieTolerance = tolerance
		p := New(settings)
		app := p.ModuleScope("app")
		number := define(t, app, symbols.NewAggregate("Number", symbols.GenusTrait, loc(1)))
		integer := define(t, app, symbols.NewAggregate("Integer", symbols.GenusClass, loc(2)))
		require.NoError(t, integer.AddTrait(number))
		base := define(t, app, symbols.NewAggregate("Base", symbols.GenusClass, loc(3)))
		helper := define(t, app, symbols.NewAggregate("Helper", symbols.GenusTrait, loc(4)))
		mid := define(t, app, symbols.NewAggregate("Mid", symbols.GenusClass, loc(5)))
		leaf := define(t, app, symbols.NewAggregate("Leaf", symbols.GenusClass, loc(6)))
		require.NoError(t, mid.SetSuperAggregate(base))
		require.NoError(t, leaf.SetSuperAggregate(mid))
		require.NoError(t, leaf.AddTrait(helper))
		for _, owner := range []*symbols.Symbol{base, helper} {
			m := symbols.NewMethod("k", nil, loc(10))
			require.NoError(t, m.AddParam(symbols.NewVariable("n", number, loc(10))))
			define(t, members(t, owner), m)
		}
		return p, leaf, integer
	}

	p, leaf, integer := build(t, config.DefaultTieTolerance)
	r := p.ResolveMatchingMethods(members(t, leaf), symbols.NewMethodSearch("k", integer))
	assert.True(t, r.IsSingleBestMatchPresent())

	p, leaf, integer = build(t, 0.05)
	r = p.ResolveMatchingMethods(members(t, leaf), symbols.NewMethodSearch("k", integer))
	assert.True(t, r.IsAmbiguous())
}

func TestParameterizeConcurrentlyWithDefinitions(t *testing.T) {
	p := New(config.Defaults())
	app := p.ModuleScope("app")
	integer := define(t, app, symbols.NewAggregate("Int", symbols.GenusClass, loc(1)))
	box := define(t, app, symbols.NewTemplateType("Box", symbols.GenusClass, loc(2)))
	boxT := symbols.NewConceptualParameter("T", loc(2))
	require.NoError(t, box.AddTypeParameter(boxT))
	define(t, members(t, box), symbols.NewVariable("value", boxT, loc(3)))

	const workers = 16
	results := make([]*symbols.Symbol, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			sym, err := p.Parameterize(box, []*symbols.Symbol{integer}, loc(100+i))
			assert.NoError(t, err)
			results[i] = sym
		}(i)
		go func(i int) {
			defer wg.Done()
			err := app.Define(symbols.NewAggregate(fmt.Sprintf("Unit%d", i), symbols.GenusClass, loc(200+i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i])
	}
	hits, defs := p.Registry().Stats()
	assert.Equal(t, int64(1), defs)
	assert.Equal(t, int64(workers-1), hits)
	assert.Len(t, app.Symbols(), 2+1+workers)
}
