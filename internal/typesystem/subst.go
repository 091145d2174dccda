package typesystem

import (
	"github.com/funvibe/symres/internal/symbols"
	"github.com/funvibe/symres/internal/token"
)

// Subst maps conceptual type parameters, by fully qualified name, to their
// replacements.
type Subst map[string]*symbols.Symbol

// Lookup returns the replacement for a conceptual type.
func (s Subst) Lookup(t *symbols.Symbol) (*symbols.Symbol, bool) {
	if t == nil || !t.IsConceptual {
		return nil, false
	}
	r, ok := s[t.FullyQualifiedName()]
	return r, ok
}

// Substitute applies s to t. Conceptual types are replaced; generic
// references whose arguments mention a replaced parameter are parameterized
// again, depth first. Everything else is returned unchanged.
func (e *Engine) Substitute(t *symbols.Symbol, s Subst, loc token.Token) (*symbols.Symbol, error) {
	if t == nil {
		return nil, nil
	}
	if r, ok := s.Lookup(t); ok {
		return r, nil
	}

	var generic *symbols.Symbol
	var args []*symbols.Symbol
	switch {
	case t.IsParameterized() && t.IsGenericInNature():
		generic, _ = t.GenericType()
		args = t.TypeArguments()
	case t.IsGenericDeclaration():
		// A generic referring to itself with its own parameters.
		generic = t
		args = t.TypeParameters()
	default:
		return t, nil
	}

	changed := false
	newArgs := make([]*symbols.Symbol, len(args))
	for i, a := range args {
		r, err := e.Substitute(a, s, loc)
		if err != nil {
			return nil, err
		}
		newArgs[i] = r
		changed = changed || r != a
	}
	if !changed {
		return t, nil
	}
	return e.parameterizeRoot(generic, newArgs, loc)
}

// substituteAll applies s to each of ts.
func (e *Engine) substituteAll(ts []*symbols.Symbol, s Subst, loc token.Token) ([]*symbols.Symbol, error) {
	out := make([]*symbols.Symbol, len(ts))
	for i, t := range ts {
		r, err := e.Substitute(t, s, loc)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
