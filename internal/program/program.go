package program

import (
	"sort"

	"github.com/funvibe/symres/internal/config"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/symbols"
	"github.com/funvibe/symres/internal/token"
	"github.com/funvibe/symres/internal/typesystem"
	"github.com/funvibe/symres/internal/utils"
)

// Program is the state shared by every translation unit: the module scopes
// and the parameterization registry. Both are guarded by one reentrant lock.
type Program struct {
	lock     *utils.ReentrantMutex
	modules  map[string]*symbols.Scope
	engine   *typesystem.Engine
	settings config.Settings
}

func New(settings config.Settings) *Program {
	lock := &utils.ReentrantMutex{}
	return &Program{
		lock:     lock,
		modules:  make(map[string]*symbols.Scope),
		engine:   typesystem.NewEngine(lock),
		settings: settings,
	}
}

func (p *Program) Settings() config.Settings {
	return p.settings
}

// ModuleScope returns the scope of module name, creating it on first use.
// Units declaring into the same module share it.
func (p *Program) ModuleScope(name string) *symbols.Scope {
	p.lock.Lock()
	defer p.lock.Unlock()
	if s, ok := p.modules[name]; ok {
		return s
	}
	s := symbols.NewModuleScope(name)
	s.SetGuard(p.lock)
	p.modules[name] = s
	return s
}

// LookupModule returns an existing module scope.
func (p *Program) LookupModule(name string) (*symbols.Scope, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	s, ok := p.modules[name]
	return s, ok
}

// Modules lists module names in sorted order.
func (p *Program) Modules() []string {
	p.lock.Lock()
	defer p.lock.Unlock()
	names := make([]string, 0, len(p.modules))
	for n := range p.modules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Search applies program-wide settings to a search.
func (p *Program) Search(search symbols.SymbolSearch) symbols.SymbolSearch {
	return search.WithTieTolerance(p.settings.TieTolerance)
}

// Resolve looks search up from scope. Qualified names go straight to the
// module they name; unqualified names that no lexical scope knows fall back
// to the implicit modules.
func (p *Program) Resolve(scope *symbols.Scope, search symbols.SymbolSearch) (*symbols.Symbol, bool) {
	search = p.Search(search)
	if symbols.IsQualifiedName(search.Name()) {
		module, _ := symbols.SplitQualifiedName(search.Name())
		m, ok := p.LookupModule(module)
		if !ok {
			return nil, false
		}
		return m.Resolve(search)
	}
	if sym, ok := scope.Resolve(search); ok {
		return sym, true
	}
	if search.LimitToBlocks() {
		return nil, false
	}
	current := scope.ModuleName()
	for _, name := range p.settings.ImplicitModules {
		if name == current {
			continue
		}
		if m, ok := p.LookupModule(name); ok {
			if sym, found := m.ResolveInThisScopeOnly(search); found {
				return sym, true
			}
		}
	}
	return nil, false
}

// ResolveMatchingMethods gathers and ranks every method the search could
// call from scope.
func (p *Program) ResolveMatchingMethods(scope *symbols.Scope, search symbols.SymbolSearch) *symbols.MethodSymbolSearchResult {
	return scope.ResolveMatchingMethods(p.Search(search))
}

// ResolveMandatory is Resolve for references that must resolve: a miss is
// an UnresolvedSymbol diagnostic at loc.
func (p *Program) ResolveMandatory(scope *symbols.Scope, search symbols.SymbolSearch, loc token.Token) (*symbols.Symbol, error) {
	if sym, ok := p.Resolve(scope, search); ok {
		return sym, nil
	}
	return nil, diagnostics.Errorf(diagnostics.ErrR001, loc, "'%s' could not be resolved", search)
}

// ResolveMethod picks the single best method for a call, reporting an
// AmbiguousResolution with every tied candidate when there is none.
func (p *Program) ResolveMethod(scope *symbols.Scope, search symbols.SymbolSearch, loc token.Token) (*symbols.Symbol, error) {
	result := p.ResolveMatchingMethods(scope, search)
	if m, ok := result.SingleBestMatch(); ok {
		return m, nil
	}
	if result.IsAmbiguous() {
		d := diagnostics.Errorf(diagnostics.ErrR002, loc, "call '%s' is ambiguous", search)
		for _, c := range result.AmbiguousMethodParameters() {
			d.WithRelated(c.String())
		}
		return nil, d
	}
	return nil, diagnostics.Errorf(diagnostics.ErrR001, loc, "no method matches '%s'", search)
}

// Parameterize instantiates generic with args. The lock is held for the
// whole resolve-or-define and population.
func (p *Program) Parameterize(generic *symbols.Symbol, args []*symbols.Symbol, loc token.Token) (*symbols.Symbol, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.engine.Parameterize(generic, args, loc)
}

// Registry exposes the parameterization registry for lookups and stats.
func (p *Program) Registry() *typesystem.Registry {
	return p.engine.Registry()
}
