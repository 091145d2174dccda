package typesystem

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/funvibe/symres/internal/symbols"
	"github.com/funvibe/symres/internal/utils"
)

// Registry makes parameterization idempotent: every request for the same
// generic and arguments ends at one symbol, defined in the generic's module
// scope under its canonical name.
type Registry struct {
	lock sync.Locker

	hits        atomic.Int64
	definitions atomic.Int64
}

// NewRegistry uses lock for the check-and-define critical section; it must
// be reentrant because definition re-enters the guarded module scope. A nil
// lock gets a private one.
func NewRegistry(lock sync.Locker) *Registry {
	if lock == nil {
		lock = &utils.ReentrantMutex{}
	}
	return &Registry{lock: lock}
}

// ResolveOrDefine returns the symbol already registered under candidate's
// canonical name, or defines candidate. The boolean is true when candidate
// itself was defined.
func (r *Registry) ResolveOrDefine(candidate *symbols.Symbol) (*symbols.Symbol, bool, error) {
	generic, ok := candidate.GenericType()
	if !ok {
		return nil, false, fmt.Errorf("typesystem: %s is not a parameterized symbol", candidate.Name)
	}
	scope, err := homeScope(generic)
	if err != nil {
		return nil, false, err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if existing, found := scope.ResolveInThisScopeOnly(symbols.NewTypeSearch(candidate.Name)); found {
		r.hits.Add(1)
		return existing, false, nil
	}
	if err := scope.Define(candidate); err != nil {
		return nil, false, err
	}
	r.definitions.Add(1)
	return candidate, true, nil
}

// Lookup finds an existing parameterization without defining anything.
func (r *Registry) Lookup(generic *symbols.Symbol, args []*symbols.Symbol) (*symbols.Symbol, bool) {
	scope, err := homeScope(generic)
	if err != nil {
		return nil, false
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return scope.ResolveInThisScopeOnly(symbols.NewTypeSearch(CanonicalName(generic, args)))
}

// Stats returns how many requests were served from the registry and how
// many new parameterizations were defined.
func (r *Registry) Stats() (hits, definitions int64) {
	return r.hits.Load(), r.definitions.Load()
}

func homeScope(generic *symbols.Symbol) (*symbols.Scope, error) {
	enclosing, ok := generic.Enclosing()
	if !ok {
		return nil, fmt.Errorf("typesystem: generic %s is not defined in any scope", generic.FriendlyName())
	}
	module, ok := enclosing.ModuleScope()
	if !ok {
		return nil, fmt.Errorf("typesystem: generic %s has no module scope", generic.FriendlyName())
	}
	return module, nil
}
