package symbols

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/symres/internal/token"
)

func loc(line int) token.Token {
	return token.At("test.decl.yaml", line, "")
}

// world is a small module with a Number trait implemented by Integer and
// Float, and a promotion from Integer to Float.
type world struct {
	module  *Scope
	number  *Symbol
	integer *Symbol
	float   *Symbol
	str     *Symbol
}

func newWorld(t *testing.T) *world {
	t.Helper()
	w := &world{module: NewModuleScope("app")}
	w.number = w.aggregate(t, "Number", GenusTrait)
	w.integer = w.aggregate(t, "Integer", GenusClass)
	w.float = w.aggregate(t, "Float", GenusClass)
	w.str = w.aggregate(t, "String", GenusClass)
	require.NoError(t, w.integer.AddTrait(w.number))
	require.NoError(t, w.float.AddTrait(w.number))
	w.integer.AddPromotion(w.float)
	return w
}

func (w *world) aggregate(t *testing.T, name string, genus Genus) *Symbol {
	t.Helper()
	s := NewAggregate(name, genus, loc(len(w.module.ordered)+1))
	require.NoError(t, w.module.Define(s))
	return s
}

func method(t *testing.T, owner *Symbol, name string, ret *Symbol, line int, params ...*Symbol) *Symbol {
	t.Helper()
	m := NewMethod(name, ret, loc(line))
	for i, p := range params {
		require.NoError(t, m.AddParam(NewVariable(fmt.Sprintf("p%d", i), p, loc(line))))
	}
	members, ok := owner.Members()
	require.True(t, ok)
	require.NoError(t, members.Define(m))
	return m
}
