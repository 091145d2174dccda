package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/symres/internal/ast"
	"github.com/funvibe/symres/internal/config"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/program"
	"github.com/funvibe/symres/internal/token"
)

func record(name string, order *[]string, fail bool) Processor {
	return ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
		*order = append(*order, name)
		if fail {
			ctx.AddError(diagnostics.NewError(diagnostics.ErrR001, token.At("", 1, name), name+" failed"))
		}
		return ctx
	})
}

func TestRunContinuesOnErrors(t *testing.T) {
	var order []string
	p := New(record("parse", &order, true), record("define", &order, false), record("check", &order, true))
	ctx := p.Run(NewPipelineContext(context.Background(), "a.decl.yaml", nil))

	assert.Equal(t, []string{"parse", "define", "check"}, order)
	require.Len(t, ctx.Errors, 2)
	assert.True(t, ctx.HasErrors())
	for _, err := range ctx.Errors {
		assert.Equal(t, "a.decl.yaml", err.File)
	}
}

func TestRunStopsWhenCancelled(t *testing.T) {
	var order []string
	c, cancel := context.WithCancel(context.Background())
	stop := ProcessorFunc(func(ctx *PipelineContext) *PipelineContext {
		order = append(order, "stop")
		cancel()
		return ctx
	})
	ctx := New(record("first", &order, false), stop, record("never", &order, false)).
		Run(NewPipelineContext(c, "a.decl.yaml", nil))

	assert.Equal(t, []string{"first", "stop"}, order)
	assert.True(t, ctx.Cancelled())
}

func TestAddError(t *testing.T) {
	ctx := NewPipelineContext(nil, "unit.decl.yaml", nil)
	assert.False(t, ctx.Cancelled())

	own := diagnostics.NewError(diagnostics.ErrL002, token.At("other.decl.yaml", 3, "x"), "bad")
	warn := diagnostics.NewWarning(diagnostics.ErrR005, token.At("", 4, "f"), "unmarked")
	ctx.AddError(nil, own, warn)

	require.Len(t, ctx.Errors, 2)
	assert.Equal(t, "other.decl.yaml", ctx.Errors[0].File)
	assert.Equal(t, "unit.decl.yaml", ctx.Errors[1].File)
	assert.True(t, ctx.HasErrors())

	only := NewPipelineContext(nil, "w.decl.yaml", nil)
	only.AddError(warn)
	assert.False(t, only.HasErrors())
}

type namedStage struct{}

func (namedStage) String() string { return "named" }

func (namedStage) Process(ctx *PipelineContext) *PipelineContext { return ctx }

func TestStageName(t *testing.T) {
	assert.Equal(t, "named", StageName(namedStage{}))
	assert.Equal(t, "pipeline.ProcessorFunc", StageName(ProcessorFunc(func(ctx *PipelineContext) *PipelineContext { return ctx })))
}

func TestNewUnitContext(t *testing.T) {
	unit := &ast.Unit{File: "shapes.decl.yaml", Module: "shapes"}
	prog := program.New(config.Defaults())
	ctx := NewUnitContext(context.Background(), unit, prog)

	assert.Equal(t, "shapes.decl.yaml", ctx.FilePath)
	assert.Same(t, unit, ctx.Unit)
	assert.Same(t, prog, ctx.Program)

	ctx.AddError(diagnostics.NewWarning(diagnostics.ErrR005, token.At("", 2, "area"), "unmarked"))
	assert.Equal(t, "shapes.decl.yaml", ctx.Errors[0].File)
}
