package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/funvibe/symres/internal/symbols"
)

// ParameterizeOptions holds the parsed flags for "parameterize".
type ParameterizeOptions struct {
	Scope   string
	Generic string
	Args    string
}

// NewParameterizeCmd creates the "parameterize" command.
func NewParameterizeCmd(root *RootOptions) *cobra.Command {
	var opts ParameterizeOptions

	cmd := &cobra.Command{
		Use:   "parameterize [paths...]",
		Short: "Instantiate a generic type",
		Long: "Check the declaration units, then instantiate --generic with --args and " +
			"print the resulting type and its canonical name.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Scope == "" {
				if !symbols.IsQualifiedName(opts.Generic) {
					return errors.New("--scope is required for an unqualified --generic")
				}
				opts.Scope, _ = symbols.SplitQualifiedName(opts.Generic)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, diags, err := root.engine(cmd.Context(), args)
			if err != nil {
				return err
			}
			if diags.HasErrors() {
				printDiagnostics(cmd.ErrOrStderr(), diags)
			}
			scope, err := e.Scope(opts.Scope)
			if err != nil {
				return err
			}
			sym, err := e.Parameterize(scope, opts.Generic, splitTypeList(opts.Args)...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", sym.FriendlyName(), sym.FullyQualifiedName())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Scope, "scope", "", "scope the names are written in (default: the module of --generic)")
	cmd.Flags().StringVar(&opts.Generic, "generic", "", "generic type to instantiate (required)")
	cmd.Flags().StringVar(&opts.Args, "args", "", "comma separated type arguments (required)")

	cmd.MarkFlagRequired("generic")
	cmd.MarkFlagRequired("args")

	return cmd
}
