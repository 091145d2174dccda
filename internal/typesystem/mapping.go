package typesystem

import (
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/symbols"
	"github.com/funvibe/symres/internal/token"
)

// ConceptualParameters returns the positions of sym that can still be
// parameterized. For a generic declaration these are its own type
// parameters; for a partially parameterized symbol they are the distinct
// conceptual types among its arguments (nested ones included), in order of
// first appearance.
func ConceptualParameters(sym *symbols.Symbol) []*symbols.Symbol {
	if sym.IsGenericDeclaration() {
		return sym.TypeParameters()
	}
	if !sym.IsParameterized() {
		return nil
	}
	var out []*symbols.Symbol
	seen := map[string]bool{}
	var collect func(args []*symbols.Symbol)
	collect = func(args []*symbols.Symbol) {
		for _, a := range args {
			switch {
			case a.IsConceptual:
				if fqn := a.FullyQualifiedName(); !seen[fqn] {
					seen[fqn] = true
					out = append(out, a)
				}
			case a.IsParameterized():
				collect(a.TypeArguments())
			}
		}
	}
	collect(sym.TypeArguments())
	return out
}

// Mapping is the result of matching type arguments against the conceptual
// positions of a generic or partially parameterized symbol.
type Mapping struct {
	// Generic is the root declaration every parameterization points back to.
	Generic *symbols.Symbol
	// RootArguments are the arguments of Generic before substitution: its
	// own type parameters, or the arguments of the partial parameterization.
	RootArguments []*symbols.Symbol
	Subst         Subst
}

// BuildMapping pairs args positionally with the conceptual parameters of sym.
func BuildMapping(sym *symbols.Symbol, args []*symbols.Symbol, loc token.Token) (Mapping, error) {
	params := ConceptualParameters(sym)
	if len(params) != len(args) {
		return Mapping{}, diagnostics.Errorf(diagnostics.ErrR006, loc,
			"'%s' expects %d type argument(s) but %d were given", sym.FriendlyName(), len(params), len(args)).
			WithRelated(sym.Location.String())
	}
	for i, a := range args {
		if a == nil {
			return Mapping{}, diagnostics.Errorf(diagnostics.ErrR001, loc,
				"type argument %d of '%s' is unresolved", i+1, sym.FriendlyName())
		}
	}

	m := Mapping{Subst: make(Subst, len(params))}
	for i, p := range params {
		m.Subst[p.FullyQualifiedName()] = args[i]
	}
	if g, ok := sym.GenericType(); ok {
		m.Generic = g
		m.RootArguments = sym.TypeArguments()
	} else {
		m.Generic = sym
		m.RootArguments = sym.TypeParameters()
	}
	return m, nil
}

// IsIdentity reports whether the mapping sends every parameter to itself.
func (m Mapping) IsIdentity() bool {
	for fqn, a := range m.Subst {
		if !a.IsConceptual || a.FullyQualifiedName() != fqn {
			return false
		}
	}
	return true
}
