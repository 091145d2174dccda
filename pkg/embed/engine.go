package symres

import (
	"context"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/funvibe/symres/internal/analyzer"
	"github.com/funvibe/symres/internal/config"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/modules"
	"github.com/funvibe/symres/internal/parser"
	"github.com/funvibe/symres/internal/program"
	"github.com/funvibe/symres/internal/symbols"
	"github.com/funvibe/symres/internal/token"
)

// ErrChecked is returned when units are added after Check.
var ErrChecked = errors.Base("units cannot be loaded after check")

// queryFile locates type references that come from queries rather than
// declaration units.
const queryFile = "<query>"

// Engine wraps the loader, analyzer and program behind a high-level API for
// host programs: load declaration units, check them once, then ask
// resolution questions against the result.
type Engine struct {
	settings config.Settings
	program  *program.Program
	loader   *modules.Loader
	analyzer *analyzer.Analyzer

	diags *diagnostics.List
}

// New creates an engine with settings. Use config.Defaults for the usual
// behaviour.
func New(settings config.Settings) *Engine {
	p := program.New(settings)
	return &Engine{
		settings: settings,
		program:  p,
		loader:   modules.NewLoader(),
		analyzer: analyzer.New(p),
	}
}

func (e *Engine) Settings() config.Settings {
	return e.settings
}

func (e *Engine) Program() *program.Program {
	return e.program
}

// Modules lists the loaded declaration modules.
func (e *Engine) Modules() []*modules.Module {
	return e.loader.Modules()
}

// LoadFiles reads unit files and directories of unit files. Problems with
// individual files are reported by Check; the error is for cancellation and
// loading after Check.
func (e *Engine) LoadFiles(ctx context.Context, paths ...string) error {
	if e.diags != nil {
		return errors.WithStack(ErrChecked)
	}
	return e.loader.Load(ctx, paths...)
}

// LoadIncludes loads the include paths of the settings, relative to baseDir.
func (e *Engine) LoadIncludes(ctx context.Context, baseDir string) error {
	if e.diags != nil {
		return errors.WithStack(ErrChecked)
	}
	return e.loader.LoadIncludes(ctx, baseDir, e.settings.Include)
}

// LoadSource adds an in-memory unit named name.
func (e *Engine) LoadSource(ctx context.Context, name string, source []byte) error {
	if e.diags != nil {
		return errors.WithStack(ErrChecked)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.loader.LoadSource(ctx, name, source)
	return nil
}

// Check analyzes every loaded unit. Analysis happens once: later calls
// return the first result.
func (e *Engine) Check(ctx context.Context) (*diagnostics.List, error) {
	if e.diags != nil {
		return e.diags, nil
	}
	diags, err := e.analyzer.Analyze(ctx, e.loader.Units())
	diags.Add(e.loader.Errors()...)
	e.diags = diags
	return diags, err
}

// Scope finds a scope by path. Accepted forms are "module",
// "module::Name", "module::Name.member" and, without a module,
// "Name[.member]" looked up in every module in name order. Name is an
// aggregate or a function; member is a method, and the first overload
// defined is used.
func (e *Engine) Scope(path string) (*symbols.Scope, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("empty scope path")
	}

	names := e.program.Modules()
	rest := path
	if module, tail, ok := strings.Cut(path, config.ModuleSeparator); ok {
		if _, found := e.program.LookupModule(module); !found {
			return nil, errors.Errorf("unknown module %q", module)
		}
		names, rest = []string{module}, tail
	} else if scope, found := e.program.LookupModule(path); found {
		return scope, nil
	}
	if rest == "" {
		scope, _ := e.program.LookupModule(names[0])
		return scope, nil
	}

	name, member, _ := strings.Cut(rest, ".")
	for _, module := range names {
		scope, _ := e.program.LookupModule(module)
		sym, ok := scope.ResolveInThisScopeOnly(symbols.NewTypeSearch(name))
		if !ok {
			continue
		}
		members, ok := sym.Members()
		if !ok {
			return nil, errors.Errorf("%q has no scope", sym.FriendlyName())
		}
		if member == "" {
			return members, nil
		}
		for _, m := range members.Symbols() {
			if m.Name != member || m.Category != symbols.MethodCategory {
				continue
			}
			if inner, ok := m.Members(); ok {
				return inner, nil
			}
		}
		return nil, errors.Errorf("%q has no method %q", sym.FriendlyName(), member)
	}
	return nil, errors.Errorf("no scope %q", path)
}

// Type resolves a type reference such as "Box<Integer>" as written in the
// module of scope. References with arguments are parameterized.
func (e *Engine) Type(scope *symbols.Scope, raw string) (*symbols.Symbol, error) {
	ref, d := parser.ParseTypeRef(raw, token.At(queryFile, 1, raw))
	if d != nil {
		return nil, d
	}
	sym, d := e.analyzer.ResolveType(scope.ModuleName(), ref)
	if d != nil {
		return nil, d
	}
	if sym == nil {
		return nil, errors.Errorf("type %q could not be resolved", raw)
	}
	return sym, nil
}

// Parameterize instantiates the generic named generic with the types args,
// both resolved in the module of scope.
func (e *Engine) Parameterize(scope *symbols.Scope, generic string, args ...string) (*symbols.Symbol, error) {
	g, ok := e.program.Resolve(scope, symbols.NewTypeSearch(generic))
	if !ok {
		return nil, diagnostics.Errorf(diagnostics.ErrR001, token.At(queryFile, 1, generic), "type '%s' could not be resolved", generic)
	}
	resolved := make([]*symbols.Symbol, len(args))
	for i, a := range args {
		t, err := e.Type(scope, a)
		if err != nil {
			return nil, err
		}
		resolved[i] = t
	}
	return e.program.Parameterize(g, resolved, token.At(queryFile, 1, generic))
}

// Resolve looks q up from scope.
func (e *Engine) Resolve(scope *symbols.Scope, q Query) (*symbols.Symbol, bool, error) {
	search, err := q.search(e, scope)
	if err != nil {
		return nil, false, err
	}
	if c, ok := search.Category(); ok && c == symbols.MethodCategory {
		sym, ok := e.ResolveMatchingMethodsFor(scope, search).SingleBestMatch()
		return sym, ok, nil
	}
	sym, ok := e.program.Resolve(scope, search)
	return sym, ok, nil
}

// ResolveMatchingMethods ranks every method q could call from scope.
func (e *Engine) ResolveMatchingMethods(scope *symbols.Scope, q Query) (*symbols.MethodSymbolSearchResult, error) {
	q.Category = symbols.MethodCategory.String()
	search, err := q.search(e, scope)
	if err != nil {
		return nil, err
	}
	return e.ResolveMatchingMethodsFor(scope, search), nil
}

// ResolveMatchingMethodsFor is ResolveMatchingMethods for a prepared search.
func (e *Engine) ResolveMatchingMethodsFor(scope *symbols.Scope, search symbols.SymbolSearch) *symbols.MethodSymbolSearchResult {
	return e.program.ResolveMatchingMethods(scope, search)
}
