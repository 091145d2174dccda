package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/funvibe/symres/internal/symbols"
	symres "github.com/funvibe/symres/pkg/embed"
)

// ResolveOptions holds the parsed flags for "resolve".
type ResolveOptions struct {
	Scope    string
	Name     string
	Args     string
	Category string
	Expect   string
	All      bool
}

// NewResolveCmd creates the "resolve" command.
func NewResolveCmd(root *RootOptions) *cobra.Command {
	var opts ResolveOptions

	cmd := &cobra.Command{
		Use:   "resolve [paths...]",
		Short: "Resolve a name from a scope",
		Long: "Check the declaration units, then resolve --name from --scope. Method " +
			"lookups print the single best match, or every tied candidate when the call " +
			"is ambiguous. Exits non-zero unless the result is unique.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, diags, err := root.engine(cmd.Context(), args)
			if err != nil {
				return err
			}
			if diags.HasErrors() {
				printDiagnostics(cmd.ErrOrStderr(), diags)
			}
			return runResolve(cmd, e, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Scope, "scope", "", "scope to resolve from: module, [module::]Name or [module::]Name.method (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "name to resolve (required)")
	cmd.Flags().StringVar(&opts.Args, "args", "", "comma separated argument types, e.g. Integer,List<Float>")
	cmd.Flags().StringVar(&opts.Category, "category", "", "type, template-type, function, template-function, method or variable")
	cmd.Flags().StringVar(&opts.Expect, "expect", "", "expected variable or return type")
	cmd.Flags().BoolVar(&opts.All, "all", false, "print every ranked method candidate")

	cmd.MarkFlagRequired("scope")
	cmd.MarkFlagRequired("name")

	return cmd
}

func runResolve(cmd *cobra.Command, e *symres.Engine, opts ResolveOptions) error {
	out := cmd.OutOrStdout()
	scope, err := e.Scope(opts.Scope)
	if err != nil {
		return err
	}
	q := symres.Query{
		Name:     opts.Name,
		Category: opts.Category,
		Args:     splitTypeList(opts.Args),
		Expect:   opts.Expect,
	}

	method := opts.Category == "" && (len(q.Args) > 0 || q.Expect != "")
	if c, ok := symbols.ParseCategory(opts.Category); ok && c == symbols.MethodCategory {
		method = true
	}
	if !method {
		sym, ok, err := e.Resolve(scope, q)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(out, "unresolved: %s\n", opts.Name)
			return errors.WithStack(ErrFailed)
		}
		fmt.Fprintf(out, "unique: %s (%s)\n", sym.FullyQualifiedName(), sym.Category)
		return nil
	}

	result, err := e.ResolveMatchingMethods(scope, q)
	if err != nil {
		return err
	}
	if opts.All {
		for _, r := range result.Results() {
			fmt.Fprintf(out, "  %s\n", r)
		}
	}
	if m, ok := result.SingleBestMatch(); ok {
		fmt.Fprintf(out, "unique: %s\n", m)
		return nil
	}
	if result.IsAmbiguous() {
		fmt.Fprintln(out, "ambiguous:")
		for _, c := range result.AmbiguousMethodParameters() {
			fmt.Fprintf(out, "  %s\n", c)
		}
		return errors.WithStack(ErrFailed)
	}
	fmt.Fprintf(out, "unresolved: %s\n", opts.Name)
	return errors.WithStack(ErrFailed)
}

// splitTypeList splits a comma separated list of type references, leaving
// commas inside angle brackets alone.
func splitTypeList(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '<', '(':
			depth++
		case '>', ')':
			depth--
		case ',':
			if depth == 0 {
				out = appendTrimmed(out, s[start:i])
				start = i + 1
			}
		}
	}
	return appendTrimmed(out, s[start:])
}

func appendTrimmed(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}
