package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"

	"github.com/funvibe/symres/internal/config"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/logging"
	symres "github.com/funvibe/symres/pkg/embed"
)

// ErrFailed is returned after the command already printed why it failed;
// callers only need to set the exit status.
var ErrFailed = errors.Base("symres: failed")

// RootOptions holds the flags shared by every subcommand.
type RootOptions struct {
	Config   string
	Strict   bool
	LogLevel string

	settings config.Settings
	baseDir  string
}

// NewRootCmd creates the top-level symres command.
func NewRootCmd(version string) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "symres",
		Short: "Symbol resolution and generic instantiation for declaration units",
		Long: "symres loads declaration units, defines their symbols, resolves every " +
			"reference and method call, and instantiates generic types.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(args); err != nil {
				return err
			}
			ctx, err := logging.Setup(cmd.Context(), cmd.ErrOrStderr(), opts.settings.LogLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.Version = version

	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "settings file (default: "+config.SettingsFileName+" next to the first path)")
	cmd.PersistentFlags().BoolVar(&opts.Strict, "strict", false, "report missing override markers as errors")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error (overrides the settings file)")

	cmd.AddCommand(
		NewCheckCmd(opts),
		NewResolveCmd(opts),
		NewParameterizeCmd(opts),
		NewDumpCmd(opts),
	)
	return cmd
}

// load reads the settings file and applies the flags on top of it.
func (o *RootOptions) load(args []string) error {
	path := o.Config
	if path == "" {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
			if info, err := os.Stat(dir); err == nil && !info.IsDir() {
				dir = filepath.Dir(dir)
			}
		}
		path = filepath.Join(dir, config.SettingsFileName)
	}
	s, err := config.Load(path)
	if err != nil {
		return err
	}
	if o.Strict {
		s.Strict = true
	}
	if o.LogLevel != "" {
		s.LogLevel = o.LogLevel
	}
	o.settings = s
	o.baseDir = filepath.Dir(path)
	return nil
}

// engine loads the settings includes and paths, then checks everything.
// No paths means the current directory.
func (o *RootOptions) engine(ctx context.Context, paths []string) (*symres.Engine, *diagnostics.List, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	e := symres.New(o.settings)
	if err := e.LoadIncludes(ctx, o.baseDir); err != nil {
		return nil, nil, err
	}
	if err := e.LoadFiles(ctx, paths...); err != nil {
		return nil, nil, err
	}
	diags, err := e.Check(ctx)
	if err != nil {
		return nil, nil, err
	}
	slogctx.Debug(ctx, "units checked", "modules", len(e.Modules()), "diagnostics", diags.Len())
	return e, diags, nil
}
