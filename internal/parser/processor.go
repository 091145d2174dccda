package parser

import (
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/pipeline"
	"github.com/funvibe/symres/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) String() string { return "parse" }

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Unit != nil {
		return ctx
	}
	if ctx.Source == nil {
		ctx.AddError(diagnostics.NewError(diagnostics.ErrL001, token.At(ctx.FilePath, 1, ""), "no declarations to parse"))
		return ctx
	}

	unit, errs := ParseUnit(ctx.Source, ctx.FilePath)
	ctx.Unit = unit
	ctx.AddError(errs...)
	return ctx
}
