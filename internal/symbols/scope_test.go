package symbols

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/symres/internal/diagnostics"
)

func TestDefineSetsModuleAndEnclosing(t *testing.T) {
	w := newWorld(t)

	assert.Equal(t, "app", w.integer.Module())
	assert.Equal(t, "app::Integer", w.integer.FullyQualifiedName())

	enclosing, ok := w.integer.Enclosing()
	require.True(t, ok)
	assert.Same(t, w.module, enclosing)

	members, ok := w.integer.Members()
	require.True(t, ok)
	outer, ok := members.Outer()
	require.True(t, ok)
	assert.Same(t, w.module, outer)
	assert.Equal(t, "app", members.ModuleName())
}

func TestDefineDuplicate(t *testing.T) {
	w := newWorld(t)

	err := w.module.Define(NewAggregate("Integer", GenusClass, loc(40)))
	require.Error(t, err)
	var diag *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, diagnostics.ErrR007, diag.Code)
	assert.Equal(t, 40, diag.Token.Line)

	// A function shares the type namespace.
	err = w.module.Define(NewFunction("Float", nil, loc(41)))
	require.Error(t, err)

	// A variable does not.
	require.NoError(t, w.module.Define(NewVariable("Float", w.float, loc(42))))
}

func TestMethodsOverloadByParameters(t *testing.T) {
	w := newWorld(t)
	calc := w.aggregate(t, "Calc", GenusClass)

	method(t, calc, "add", w.integer, 10, w.integer)
	method(t, calc, "add", w.float, 11, w.float)
	method(t, calc, "add", w.integer, 12, w.integer, w.integer)

	dup := NewMethod("add", w.float, loc(13))
	require.NoError(t, dup.AddParam(NewVariable("x", w.integer, loc(13))))
	members, _ := calc.Members()
	err := members.Define(dup)
	require.Error(t, err)
	var diag *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, diagnostics.ErrR007, diag.Code)

	assert.Len(t, members.Symbols(), 3)
	assert.True(t, members.IsDefinedLocally("add"))
	assert.False(t, members.IsDefinedLocally("sub"))
}

func TestSetDeclaredTypeOnce(t *testing.T) {
	w := newWorld(t)
	v := NewVariable("x", nil, loc(1))

	_, ok := v.DeclaredType()
	assert.False(t, ok)

	require.NoError(t, v.SetDeclaredType(w.integer))
	require.NoError(t, v.SetDeclaredType(w.integer))
	assert.Error(t, v.SetDeclaredType(w.float))

	got, ok := v.DeclaredType()
	require.True(t, ok)
	assert.Same(t, w.integer, got)
}

func TestCircularHierarchyRejected(t *testing.T) {
	w := newWorld(t)
	a := w.aggregate(t, "A", GenusClass)
	b := w.aggregate(t, "B", GenusClass)
	c := w.aggregate(t, "C", GenusTrait)

	require.NoError(t, b.SetSuperAggregate(a))
	require.NoError(t, a.AddTrait(c))

	err := a.SetSuperAggregate(b)
	require.Error(t, err)
	var diag *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, diagnostics.ErrR003, diag.Code)

	assert.Error(t, c.AddTrait(b))
	assert.Error(t, a.SetSuperAggregate(a))
	assert.NoError(t, CheckHierarchy(b))
}

func TestCheckHierarchyFindsCycle(t *testing.T) {
	w := newWorld(t)
	a := w.aggregate(t, "A", GenusClass)
	b := w.aggregate(t, "B", GenusClass)
	a.superAggregate = b
	b.superAggregate = a

	err := CheckHierarchy(a)
	require.Error(t, err)
	var diag *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, diagnostics.ErrR003, diag.Code)
}

func TestHierarchyDistance(t *testing.T) {
	w := newWorld(t)
	base := w.aggregate(t, "Base", GenusClass)
	mid := w.aggregate(t, "Mid", GenusClass)
	leaf := w.aggregate(t, "Leaf", GenusClass)
	require.NoError(t, mid.SetSuperAggregate(base))
	require.NoError(t, leaf.SetSuperAggregate(mid))
	require.NoError(t, leaf.AddTrait(w.number))
	require.NoError(t, base.AddTrait(w.number))

	d, ok := HierarchyDistance(leaf, base)
	require.True(t, ok)
	assert.Equal(t, 2, d)

	// Shortest of the two routes to Number.
	d, ok = HierarchyDistance(leaf, w.number)
	require.True(t, ok)
	assert.Equal(t, 1, d)

	_, ok = HierarchyDistance(base, leaf)
	assert.False(t, ok)
}
