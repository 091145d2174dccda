package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/symres/internal/ast"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/pipeline"
	"github.com/funvibe/symres/internal/token"
)

func TestParseTypeRef(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Integer", "Integer"},
		{"lang::Integer", "lang::Integer"},
		{"Box<Int>", "Box<Int>"},
		{"Dict<String, List<Integer>>", "Dict<String, List<Integer>>"},
		{"List of Integer", "List<Integer>"},
		{"Dict of (String, Integer)", "Dict<String, Integer>"},
		{"List of Dict of (String, util::Money)", "List<Dict<String, util::Money>>"},
		{"Pair<List of Int, Int>", "Pair<List<Int>, Int>"},
		{"  Box < Int >  ", "Box<Int>"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, d := ParseTypeRef(tt.input, token.Token{})
			require.Nil(t, d)
			assert.Equal(t, tt.expected, ref.String())
			assert.Equal(t, tt.input, ref.Raw)
		})
	}
}

func TestParseTypeRefStructure(t *testing.T) {
	ref, d := ParseTypeRef("util::Pair<Int, Box<T>>", token.Token{})
	require.Nil(t, d)
	assert.Equal(t, "util", ref.Module)
	assert.Equal(t, "Pair", ref.Name)
	assert.Equal(t, "util::Pair", ref.QualifiedName())
	require.Len(t, ref.Args, 2)
	assert.Equal(t, "Int", ref.Args[0].Name)
	assert.Empty(t, ref.Args[0].Args)
	require.Len(t, ref.Args[1].Args, 1)
	assert.Equal(t, "T", ref.Args[1].Args[0].Name)
}

func TestParseTypeRefErrors(t *testing.T) {
	tests := []struct {
		input  string
		column int
	}{
		{"", 1},
		{"Box<>", 5},
		{"Box<Int", 8},
		{"Box<Int>>", 9},
		{"a::", 4},
		{"a::b::C", 5},
		{"Dict of (String Integer)", 17},
		{"Box[Int]", 4},
		{"List of", 8},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, d := ParseTypeRef(tt.input, token.Token{})
			require.NotNil(t, d)
			assert.Equal(t, diagnostics.ErrL002, d.Code)
			assert.Equal(t, tt.column, d.Token.Column)
		})
	}
}

func TestParseTypeRefReportsAtOrigin(t *testing.T) {
	_, d := ParseTypeRef("Box<>", token.Token{File: "a.decl.yaml", Line: 7, Column: 11})
	require.NotNil(t, d)
	assert.Equal(t, "a.decl.yaml", d.File)
	assert.Equal(t, 7, d.Token.Line)
	assert.Equal(t, 15, d.Token.Column)
}

const shapes = `
module: shapes
declarations:
  - kind: trait
    name: Shape
    methods:
      - name: area
        returns: Float
  - kind: class
    name: Circle
    traits: [Shape]
    fields:
      - name: radius
        type: Float
    methods:
      - name: area
        override: true
        returns: Float
        calls:
          - on: radius
            method: mul
            args: [Float]
  - kind: generic-type
    name: Box
    parameters: [T]
    fields:
      - {name: value, type: T}
coercions:
  - {from: Integer, to: Float}
`

func TestParseUnit(t *testing.T) {
	unit, errs := ParseUnit([]byte(shapes), "shapes.decl.yaml")
	require.Empty(t, errs)
	assert.Equal(t, "shapes", unit.Module)
	require.Len(t, unit.Declarations, 3)

	shape := unit.Declarations[0]
	assert.Equal(t, ast.KindTrait, shape.Kind)
	assert.Equal(t, 4, shape.Line, "line taken from the YAML node")
	assert.Equal(t, "shapes.decl.yaml", shape.File)

	circle := unit.Declarations[1]
	require.Len(t, circle.Traits, 1)
	assert.Equal(t, "Shape", circle.Traits[0].Name)
	assert.Equal(t, 11, circle.Traits[0].Token.Line)
	require.Len(t, circle.Methods, 1)
	area := circle.Methods[0]
	assert.True(t, area.Override)
	assert.Equal(t, "Float", area.Returns.Name)
	require.Len(t, area.Calls, 1)
	assert.Equal(t, "radius", area.Calls[0].On)
	assert.Equal(t, "Float", area.Calls[0].Args[0].Name)

	box := unit.Declarations[2]
	assert.True(t, box.IsGeneric())
	assert.Equal(t, []string{"T"}, box.Parameters)

	require.Len(t, unit.Coercions, 1)
	assert.Equal(t, "Integer", unit.Coercions[0].From.Name)
	assert.Equal(t, "Float", unit.Coercions[0].To.Name)
}

func TestParseUnitModuleFromFileName(t *testing.T) {
	unit, errs := ParseUnit([]byte("declarations: []\n"), "/src/geometry.decl.yaml")
	require.Empty(t, errs)
	assert.Equal(t, "geometry", unit.Module)

	_, errs = ParseUnit([]byte("declarations: []\n"), "")
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.ErrL001, errs[0].Code)
}

func TestParseUnitErrors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		codes []diagnostics.Code
	}{
		{"bad yaml", "module: [\n", []diagnostics.Code{diagnostics.ErrL001}},
		{"unknown kind", "module: m\ndeclarations:\n  - {kind: enum, name: E}\n", []diagnostics.Code{diagnostics.ErrL001}},
		{"generic without parameters", "module: m\ndeclarations:\n  - {kind: generic-type, name: G}\n", []diagnostics.Code{diagnostics.ErrL001}},
		{"field without type", "module: m\ndeclarations:\n  - kind: class\n    name: C\n    fields: [{name: f}]\n", []diagnostics.Code{diagnostics.ErrL001}},
		{"type reference not a string", "module: m\ndeclarations:\n  - kind: class\n    name: C\n    super: {name: B}\n", []diagnostics.Code{diagnostics.ErrL001}},
		{
			"malformed references",
			"module: m\ndeclarations:\n  - kind: class\n    name: C\n    super: Box<\n    traits: [\"A B\"]\n",
			[]diagnostics.Code{diagnostics.ErrL002, diagnostics.ErrL002},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ParseUnit([]byte(tt.yaml), "m.decl.yaml")
			var codes []diagnostics.Code
			for _, e := range errs {
				codes = append(codes, e.Code)
				assert.Equal(t, "m.decl.yaml", e.File)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestParserProcessor(t *testing.T) {
	ctx := pipeline.NewPipelineContext(context.Background(), "shapes.decl.yaml", []byte(shapes))
	ctx = pipeline.New(&ParserProcessor{}).Run(ctx)
	require.NotNil(t, ctx.Unit)
	assert.Empty(t, ctx.Errors)

	missing := pipeline.New(&ParserProcessor{}).Run(pipeline.NewPipelineContext(context.Background(), "gone.decl.yaml", nil))
	require.Len(t, missing.Errors, 1)
	assert.Equal(t, diagnostics.ErrL001, missing.Errors[0].Code)
	assert.Equal(t, "gone.decl.yaml", missing.Errors[0].File)
}
