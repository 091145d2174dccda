package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/funvibe/symres/internal/diagnostics"
	symres "github.com/funvibe/symres/pkg/embed"
)

// NewCheckCmd creates the "check" command.
func NewCheckCmd(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check declaration units",
		Long: "Load declaration units, define and resolve every symbol, check overrides " +
			"and calls, and print the diagnostics. Exits non-zero when any is an error.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, diags, err := root.engine(cmd.Context(), args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printDiagnostics(out, diags)
			printSummary(out, e, diags)
			if diags.HasErrors() {
				return errors.WithStack(ErrFailed)
			}
			return nil
		},
	}
}

func printDiagnostics(w io.Writer, diags *diagnostics.List) {
	for _, d := range diags.Items() {
		fmt.Fprintln(w, d.Error())
	}
}

func printSummary(w io.Writer, e *symres.Engine, diags *diagnostics.List) {
	units := 0
	for _, m := range e.Modules() {
		units += len(m.Units)
	}
	errs := 0
	for _, d := range diags.Items() {
		if !d.IsWarning() {
			errs++
		}
	}
	hits, defs := e.Program().Registry().Stats()
	fmt.Fprintf(w, "%s in %s: %s, %s; %s parameterized, %s reused\n",
		english.Plural(units, "unit", ""),
		english.Plural(len(e.Modules()), "module", ""),
		english.Plural(errs, "error", ""),
		english.Plural(diags.Len()-errs, "warning", ""),
		humanize.Comma(defs),
		humanize.Comma(hits))
}
