package typesystem

import (
	"sync"

	"github.com/funvibe/symres/internal/symbols"
	"github.com/funvibe/symres/internal/token"
	"github.com/funvibe/symres/internal/utils"
)

// Engine instantiates generic declarations. All work happens under one
// reentrant lock so that a symbol is never observed half populated.
type Engine struct {
	lock     sync.Locker
	registry *Registry
}

// NewEngine shares lock with the registry; nil gets a private reentrant lock.
func NewEngine(lock sync.Locker) *Engine {
	if lock == nil {
		lock = &utils.ReentrantMutex{}
	}
	return &Engine{lock: lock, registry: NewRegistry(lock)}
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

// Parameterize substitutes args for the conceptual positions of sym, which is
// either a generic declaration or a partially parameterized symbol.
// Parameterizing with the symbol's own conceptual parameters returns sym.
func (e *Engine) Parameterize(sym *symbols.Symbol, args []*symbols.Symbol, loc token.Token) (*symbols.Symbol, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if len(args) == 0 && !sym.IsGenericInNature() {
		return sym, nil
	}
	m, err := BuildMapping(sym, args, loc)
	if err != nil {
		return nil, err
	}
	if m.IsIdentity() {
		return sym, nil
	}
	rootArgs, err := e.substituteAll(m.RootArguments, m.Subst, loc)
	if err != nil {
		return nil, err
	}
	return e.parameterizeRoot(m.Generic, rootArgs, loc)
}

// parameterizeRoot resolves or defines generic<args> and populates it the
// first time it is seen. The symbol is marked before population so that a
// generic reaching itself through its members finds the outline.
func (e *Engine) parameterizeRoot(generic *symbols.Symbol, args []*symbols.Symbol, loc token.Token) (*symbols.Symbol, error) {
	if sameSymbols(generic.TypeParameters(), args) {
		return generic, nil
	}
	candidate := symbols.NewParameterized(generic, args, CanonicalName(generic, args), loc)
	final, _, err := e.registry.ResolveOrDefine(candidate)
	if err != nil {
		return nil, err
	}
	if final.MarkSubstituted() {
		if err := e.populate(final, generic, args, loc); err != nil {
			return nil, err
		}
	}
	return final, nil
}

func (e *Engine) populate(target, generic *symbols.Symbol, args []*symbols.Symbol, loc token.Token) error {
	s := make(Subst, len(args))
	for i, p := range generic.TypeParameters() {
		s[p.FullyQualifiedName()] = args[i]
	}

	if super, ok := generic.SuperAggregate(); ok {
		t, err := e.Substitute(super, s, loc)
		if err != nil {
			return err
		}
		if err := target.SetSuperAggregate(t); err != nil {
			return err
		}
	}
	for _, trait := range generic.Traits() {
		t, err := e.Substitute(trait, s, loc)
		if err != nil {
			return err
		}
		if err := target.AddTrait(t); err != nil {
			return err
		}
	}

	for _, dep := range generic.Dependents() {
		t, err := e.Substitute(dep, s, loc)
		if err != nil {
			return err
		}
		if t.IsGenericInNature() {
			target.AddDependent(t)
		}
	}

	if ret, ok := generic.DeclaredType(); ok {
		t, err := e.Substitute(ret, s, loc)
		if err != nil {
			return err
		}
		if err := target.SetDeclaredType(t); err != nil {
			return err
		}
	}
	if err := e.populateParams(target, generic, s, loc); err != nil {
		return err
	}

	members, ok := generic.Members()
	if !ok {
		return nil
	}
	targetMembers, ok := target.Members()
	if !ok {
		return nil
	}
	for _, m := range members.Symbols() {
		if m.IsConceptual || isParam(generic, m) {
			continue
		}
		clone, err := e.cloneMember(m, s, loc)
		if err != nil {
			return err
		}
		if clone == nil {
			continue
		}
		if err := targetMembers.Define(clone); err != nil {
			return err
		}
	}
	return nil
}

// cloneMember copies a field or method of a generic with s applied to its
// types. Other member kinds are not carried over.
func (e *Engine) cloneMember(m *symbols.Symbol, s Subst, loc token.Token) (*symbols.Symbol, error) {
	switch m.Category {
	case symbols.VariableCategory:
		clone := m.CloneOutline()
		if t, ok := m.DeclaredType(); ok {
			st, err := e.Substitute(t, s, loc)
			if err != nil {
				return nil, err
			}
			if err := clone.SetDeclaredType(st); err != nil {
				return nil, err
			}
		}
		return clone, nil
	case symbols.MethodCategory:
		clone := m.CloneOutline()
		if t, ok := m.DeclaredType(); ok {
			st, err := e.Substitute(t, s, loc)
			if err != nil {
				return nil, err
			}
			if err := clone.SetDeclaredType(st); err != nil {
				return nil, err
			}
		}
		if err := e.populateParams(clone, m, s, loc); err != nil {
			return nil, err
		}
		return clone, nil
	case symbols.TypeCategory, symbols.TemplateTypeCategory, symbols.FunctionCategory,
		symbols.TemplateFunctionCategory, symbols.ControlCategory:
		return nil, nil
	}
	return nil, nil
}

func (e *Engine) populateParams(target, source *symbols.Symbol, s Subst, loc token.Token) error {
	for _, p := range source.Params() {
		clone := p.CloneOutline()
		if t, ok := p.DeclaredType(); ok {
			st, err := e.Substitute(t, s, loc)
			if err != nil {
				return err
			}
			if err := clone.SetDeclaredType(st); err != nil {
				return err
			}
		}
		if err := target.AddParam(clone); err != nil {
			return err
		}
	}
	return nil
}

// isParam reports whether m is one of generic's call parameters, which
// populateParams has already copied.
func isParam(generic, m *symbols.Symbol) bool {
	for _, p := range generic.Params() {
		if p == m {
			return true
		}
	}
	return false
}

func sameSymbols(a, b []*symbols.Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].IsExactSameType(b[i]) {
			return false
		}
	}
	return true
}
