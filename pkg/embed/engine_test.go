package symres_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/funvibe/symres/internal/config"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/logging"
	symres "github.com/funvibe/symres/pkg/embed"
)

const lang = `
module: lang
declarations:
  - {kind: trait, name: Number}
  - {kind: type, name: Integer, traits: [Number]}
  - {kind: type, name: Float, traits: [Number]}
coercions:
  - {from: Integer, to: Float}
`

const app = `
module: app
declarations:
  - kind: generic-type
    name: Box
    parameters: [T]
    methods:
      - {name: get, returns: T}
  - kind: class
    name: Calc
    methods:
      - name: add
        params: [{name: x, type: Integer}]
        returns: Integer
      - name: add
        params: [{name: x, type: Number}]
        returns: Number
      - name: add
        params: [{name: x, type: Float}]
        returns: Float
      - name: run
  - kind: trait
    name: Left
    methods:
      - name: k
        params: [{name: n, type: Number}]
  - kind: trait
    name: Right
    methods:
      - name: k
        params: [{name: n, type: Number}]
  - {kind: class, name: Both, abstract: true, traits: [Left, Right]}
`

func checked(t *testing.T) (context.Context, *symres.Engine) {
	t.Helper()
	ctx := logging.Discard(context.Background())
	e := symres.New(config.Defaults())
	require.NoError(t, e.LoadSource(ctx, "lang.decl.yaml", []byte(lang)))
	require.NoError(t, e.LoadSource(ctx, "app.decl.yaml", []byte(app)))
	diags, err := e.Check(ctx)
	require.NoError(t, err)
	require.Empty(t, diags.Items())
	return ctx, e
}

func TestEngineResolvesMethods(t *testing.T) {
	_, e := checked(t)
	scope, err := e.Scope("app::Calc.run")
	require.NoError(t, err)

	sym, ok, err := e.Resolve(scope, symres.Query{Name: "add", Args: []string{"Integer"}})
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, sym.ParamTypes(), 1)
	assert.Equal(t, "Integer", sym.ParamTypes()[0].Name)

	result, err := e.ResolveMatchingMethods(scope, symres.Query{Name: "add", Args: []string{"Integer"}})
	require.NoError(t, err)
	require.Equal(t, 3, result.Len())
	assert.InDelta(t, 100.0, result.Results()[0].Quality, 1e-9)
	assert.False(t, result.IsAmbiguous())

	sym, ok, err = e.Resolve(scope, symres.Query{Name: "add", Args: []string{"Integer"}, Expect: "Float"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Float", sym.ParamTypes()[0].Name)

	_, ok, err = e.Resolve(scope, symres.Query{Name: "add", Args: []string{"Calc"}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngineReportsAmbiguity(t *testing.T) {
	_, e := checked(t)
	scope, err := e.Scope("Both")
	require.NoError(t, err)

	result, err := e.ResolveMatchingMethods(scope, symres.Query{Name: "k", Args: []string{"Integer"}})
	require.NoError(t, err)
	assert.True(t, result.IsAmbiguous())
	assert.Len(t, result.AmbiguousMethodParameters(), 2)

	_, ok, err := e.Resolve(scope, symres.Query{Name: "k", Category: "method", Args: []string{"Integer"}})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngineResolvesTypes(t *testing.T) {
	_, e := checked(t)
	scope, err := e.Scope("app")
	require.NoError(t, err)

	sym, ok, err := e.Resolve(scope, symres.Query{Name: "Integer"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "lang::Integer", sym.FullyQualifiedName())

	_, _, err = e.Resolve(scope, symres.Query{Name: "Integer", Category: "nonsense"})
	assert.Error(t, err)
}

func TestEngineParameterize(t *testing.T) {
	_, e := checked(t)
	scope, err := e.Scope("app")
	require.NoError(t, err)

	box, err := e.Parameterize(scope, "Box", "Integer")
	require.NoError(t, err)
	assert.Equal(t, "Box<Integer>", box.FriendlyName())

	again, err := e.Type(scope, "Box<Integer>")
	require.NoError(t, err)
	assert.Same(t, box, again)

	_, err = e.Parameterize(scope, "Box", "Integer", "Integer")
	var d *diagnostics.DiagnosticError
	require.True(t, errors.As(err, &d))
	assert.Equal(t, diagnostics.ErrR006, d.Code)

	_, err = e.Type(scope, "Box<")
	require.True(t, errors.As(err, &d))
	assert.Equal(t, diagnostics.ErrL002, d.Code)
}

func TestEngineScopeErrors(t *testing.T) {
	_, e := checked(t)
	for _, path := range []string{"", "nope::Calc", "app::Missing", "app::Calc.missing", "Missing"} {
		_, err := e.Scope(path)
		assert.Error(t, err, path)
	}
}

func TestEngineLoadAfterCheck(t *testing.T) {
	ctx, e := checked(t)
	err := e.LoadSource(ctx, "late.decl.yaml", []byte(lang))
	assert.ErrorIs(t, err, symres.ErrChecked)

	diags, err := e.Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, diags.Items())
}

func TestEngineLoadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lang.decl.yaml"), []byte(lang), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.decl.yaml"), []byte("declarations: ["), 0o644))

	ctx := logging.Discard(context.Background())
	e := symres.New(config.Defaults())
	require.NoError(t, e.LoadFiles(ctx, dir))
	require.Len(t, e.Modules(), 1)

	diags, err := e.Check(ctx)
	require.NoError(t, err)
	assert.Len(t, diags.WithCode(diagnostics.ErrL001), 1)
	assert.True(t, diags.HasErrors())
}
