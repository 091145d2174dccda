package pipeline

import (
	"fmt"

	slogctx "github.com/veqryn/slog-context"
)

// Pipeline runs a fixed list of stages over one translation unit. A stage
// that reports diagnostics does not stop the stages after it; cancellation
// of the unit's context does.
type Pipeline struct {
	stages []Processor
}

func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run passes ctx through every stage in order and returns what the last
// stage returned.
func (p *Pipeline) Run(ctx *PipelineContext) *PipelineContext {
	for _, stage := range p.stages {
		if ctx.Cancelled() {
			slogctx.Debug(ctx.Context, "unit cancelled", "file", ctx.FilePath, "stage", StageName(stage))
			break
		}
		before := len(ctx.Errors)
		ctx = stage.Process(ctx)
		if added := len(ctx.Errors) - before; added > 0 {
			slogctx.Debug(ctx.Context, "stage reported", "stage", StageName(stage), "diagnostics", added)
		}
	}
	return ctx
}

// StageName is the String of a stage when it has one, its type otherwise.
func StageName(stage Processor) string {
	if s, ok := stage.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", stage)
}
