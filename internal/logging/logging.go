package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
)

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, errors.Errorf("unknown log level %q: %w", name, err)
	}
	return level, nil
}

// NewLogger writes human readable records to w. Colour is used only when w
// is a terminal.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !color,
	})
	return slog.New(slogctx.NewHandler(handler, &slogctx.HandlerOptions{}))
}

// Setup installs a logger for levelName as the default and returns ctx
// carrying it.
func Setup(ctx context.Context, w io.Writer, levelName string) (context.Context, error) {
	level, err := ParseLevel(levelName)
	if err != nil {
		return ctx, err
	}
	logger := NewLogger(w, level)
	slog.SetDefault(logger)
	return slogctx.NewCtx(ctx, logger), nil
}

// Discard returns ctx with a logger that drops everything; library callers
// that never configure logging get this.
func Discard(ctx context.Context) context.Context {
	return slogctx.NewCtx(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
