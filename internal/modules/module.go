package modules

import (
	"sort"

	"github.com/funvibe/symres/internal/ast"
)

// Module groups the units that declare into the same module scope. Units of
// one module may live in different files and directories.
type Module struct {
	Name  string
	Dir   string
	Units []*ast.Unit
}

func (m *Module) GetName() string {
	return m.Name
}

// Files lists the unit files of the module in sorted order.
func (m *Module) Files() []string {
	files := make([]string, len(m.Units))
	for i, u := range m.Units {
		files[i] = u.File
	}
	sort.Strings(files)
	return files
}

// DeclarationCount is the number of top level declarations across units.
func (m *Module) DeclarationCount() int {
	n := 0
	for _, u := range m.Units {
		n += len(u.Declarations)
	}
	return n
}
