package symbols

import (
	"sync"

	"github.com/funvibe/symres/internal/diagnostics"
)

type ScopeType int

const (
	ScopeModule    ScopeType = iota // Shared by every unit declaring into the module
	ScopeAggregate                  // Members of a class, trait, record or component
	ScopeFunction
	ScopeMethod
	ScopeBlock
)

func (t ScopeType) String() string {
	switch t {
	case ScopeModule:
		return "module"
	case ScopeAggregate:
		return "aggregate"
	case ScopeFunction:
		return "function"
	case ScopeMethod:
		return "method"
	case ScopeBlock:
		return "block"
	}
	return "unknown"
}

// isBlockLike reports whether a LimitToBlocks walk may continue into the scope.
func (t ScopeType) isBlockLike() bool {
	return t == ScopeBlock || t == ScopeMethod || t == ScopeFunction
}

// Scope is a lexical region holding symbols, split by category so that a
// variable and a type of the same name do not collide.
type Scope struct {
	name      string
	scopeType ScopeType
	enclosing *Scope
	owner     *Symbol

	split   map[Category]map[string][]*Symbol
	ordered []*Symbol

	// guard is only installed on module scopes, which are shared between
	// concurrently processed units.
	guard sync.Locker
}

func newScope(name string, t ScopeType, enclosing *Scope) *Scope {
	return &Scope{
		name:      name,
		scopeType: t,
		enclosing: enclosing,
		split:     make(map[Category]map[string][]*Symbol),
	}
}

func newOwnedScope(name string, t ScopeType, owner *Symbol) *Scope {
	s := newScope(name, t, nil)
	s.owner = owner
	return s
}

// NewModuleScope creates the top level scope of a module.
func NewModuleScope(name string) *Scope {
	return newScope(name, ScopeModule, nil)
}

// NewBlockScope creates an anonymous block nested in enclosing.
func NewBlockScope(enclosing *Scope) *Scope {
	return newScope("block", ScopeBlock, enclosing)
}

// SetGuard installs the lock protecting a shared scope.
func (s *Scope) SetGuard(l sync.Locker) {
	s.guard = l
}

func (s *Scope) lock() {
	if s.guard != nil {
		s.guard.Lock()
	}
}

func (s *Scope) unlock() {
	if s.guard != nil {
		s.guard.Unlock()
	}
}

func (s *Scope) Name() string {
	return s.name
}

func (s *Scope) Type() ScopeType {
	return s.scopeType
}

// Outer returns the enclosing lexical scope.
func (s *Scope) Outer() (*Scope, bool) {
	return s.enclosing, s.enclosing != nil
}

// Owner is the symbol whose members this scope holds.
func (s *Scope) Owner() (*Symbol, bool) {
	return s.owner, s.owner != nil
}

func (s *Scope) IsModuleScope() bool {
	return s.scopeType == ScopeModule
}

// ModuleScope walks outwards to the module scope, if any.
func (s *Scope) ModuleScope() (*Scope, bool) {
	for sc := s; sc != nil; sc = sc.enclosing {
		if sc.scopeType == ScopeModule {
			return sc, true
		}
	}
	return nil, false
}

// ModuleName is the name of the enclosing module, or "" for detached scopes.
func (s *Scope) ModuleName() string {
	if m, ok := s.ModuleScope(); ok {
		return m.name
	}
	return ""
}

// Define adds sym to this scope. Methods overload by parameter types; any
// other symbol collides with an existing one of the same name and category.
func (s *Scope) Define(sym *Symbol) error {
	s.lock()
	defer s.unlock()

	if existing := s.collision(sym); existing != nil {
		return diagnostics.Errorf(diagnostics.ErrR007, sym.Location,
			"%s '%s' already defined in %s at line %d", sym.Category, sym.FriendlyName(), s.name, existing.Location.Line).
			WithRelated(existing.Location.String())
	}

	sym.enclosing = s
	if sym.module == "" {
		sym.module = s.ModuleName()
	}
	if sym.members != nil && sym.members.enclosing == nil && sym.members != s {
		sym.members.enclosing = s
	}

	byName, ok := s.split[sym.Category]
	if !ok {
		byName = make(map[string][]*Symbol)
		s.split[sym.Category] = byName
	}
	byName[sym.Name] = append(byName[sym.Name], sym)
	s.ordered = append(s.ordered, sym)
	return nil
}

func (s *Scope) collision(sym *Symbol) *Symbol {
	for _, existing := range s.split[sym.Category][sym.Name] {
		if sym.Category != MethodCategory || existing.IsExactSignatureMatch(sym) {
			return existing
		}
	}
	if sym.Category == MethodCategory {
		return nil
	}
	// A type and a function of the same name would make type lookups ambiguous.
	for _, c := range AllCategories {
		if c == sym.Category || c == MethodCategory || c == ControlCategory {
			continue
		}
		if c == VariableCategory || sym.Category == VariableCategory {
			continue
		}
		if list := s.split[c][sym.Name]; len(list) > 0 {
			return list[0]
		}
	}
	return nil
}

// Symbols returns every symbol of this scope in definition order.
func (s *Scope) Symbols() []*Symbol {
	s.lock()
	defer s.unlock()
	out := make([]*Symbol, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// IsDefinedLocally reports whether any symbol named name lives in this scope.
func (s *Scope) IsDefinedLocally(name string) bool {
	s.lock()
	defer s.unlock()
	for _, byName := range s.split {
		if len(byName[name]) > 0 {
			return true
		}
	}
	return false
}

func (s *Scope) named(c Category, name string) []*Symbol {
	list := s.split[c][name]
	out := make([]*Symbol, len(list))
	copy(out, list)
	return out
}
