package cli

import (
	"fmt"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/funvibe/symres/internal/symbols"
	symres "github.com/funvibe/symres/pkg/embed"
)

// ScopeDump is the printable form of a module scope.
type ScopeDump struct {
	Module  string
	Symbols []SymbolDump
}

// SymbolDump is the printable form of one symbol and its members.
type SymbolDump struct {
	Name     string
	Category string
	Access   string
	Type     string
	Params   []string
	Super    string
	Traits   []string
	Members  []SymbolDump
}

// NewDumpCmd creates the "dump" command.
func NewDumpCmd(root *RootOptions) *cobra.Command {
	var module string

	cmd := &cobra.Command{
		Use:   "dump [paths...]",
		Short: "Print module scopes",
		Long:  "Check the declaration units, then pretty print every module scope with its symbols, members and parameterized types.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, diags, err := root.engine(cmd.Context(), args)
			if err != nil {
				return err
			}
			if diags.HasErrors() {
				printDiagnostics(cmd.ErrOrStderr(), diags)
			}

			p := pp.New()
			p.SetExportedOnly(true)
			p.SetColoringEnabled(isTerminal(cmd.OutOrStdout()))
			for _, d := range DumpScopes(e, module) {
				fmt.Fprintln(cmd.OutOrStdout(), p.Sprint(d))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&module, "module", "", "only print this module")
	return cmd
}

// DumpScopes converts the module scopes of e, or only module when it is not
// empty, into their printable form.
func DumpScopes(e *symres.Engine, module string) []ScopeDump {
	var out []ScopeDump
	for _, name := range e.Program().Modules() {
		if module != "" && name != module {
			continue
		}
		scope, _ := e.Program().LookupModule(name)
		out = append(out, ScopeDump{Module: name, Symbols: dumpSymbols(scope)})
	}
	return out
}

func dumpSymbols(scope *symbols.Scope) []SymbolDump {
	var out []SymbolDump
	for _, s := range scope.Symbols() {
		out = append(out, dumpSymbol(s))
	}
	return out
}

func dumpSymbol(s *symbols.Symbol) SymbolDump {
	d := SymbolDump{
		Name:     s.FriendlyName(),
		Category: s.Category.String(),
	}
	if s.Access != symbols.Public {
		d.Access = s.Access.String()
	}
	if t, ok := s.DeclaredType(); ok {
		d.Type = t.FriendlyName()
	}
	for _, p := range s.ParamTypes() {
		if p == nil {
			d.Params = append(d.Params, "?")
			continue
		}
		d.Params = append(d.Params, p.FriendlyName())
	}
	if super, ok := s.SuperAggregate(); ok {
		d.Super = super.FriendlyName()
	}
	for _, t := range s.Traits() {
		d.Traits = append(d.Traits, t.FriendlyName())
	}
	if s.IsAggregate() {
		if members, ok := s.Members(); ok {
			d.Members = dumpSymbols(members)
		}
	}
	return d
}

func isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
