package pipeline

import (
	"context"

	"github.com/funvibe/symres/internal/ast"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/program"
)

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext {
	return f(ctx)
}

// PipelineContext carries one translation unit through the stages.
type PipelineContext struct {
	Context  context.Context
	FilePath string
	Source   []byte
	Unit     *ast.Unit
	Program  *program.Program
	Errors   []*diagnostics.DiagnosticError
}

func NewPipelineContext(ctx context.Context, filePath string, source []byte) *PipelineContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &PipelineContext{Context: ctx, FilePath: filePath, Source: source}
}

// NewUnitContext starts a parsed unit through the analysis stages of prog.
func NewUnitContext(ctx context.Context, unit *ast.Unit, prog *program.Program) *PipelineContext {
	c := NewPipelineContext(ctx, unit.File, nil)
	c.Unit = unit
	c.Program = prog
	return c
}

// AddError records diagnostics, stamping the unit file on those without one.
func (c *PipelineContext) AddError(errs ...*diagnostics.DiagnosticError) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if err.File == "" {
			err.File = c.FilePath
		}
		c.Errors = append(c.Errors, err)
	}
}

func (c *PipelineContext) HasErrors() bool {
	for _, err := range c.Errors {
		if !err.IsWarning() {
			return true
		}
	}
	return false
}

// Cancelled reports whether the surrounding context is done.
func (c *PipelineContext) Cancelled() bool {
	return c.Context != nil && c.Context.Err() != nil
}
