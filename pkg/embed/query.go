package symres

import (
	"gitlab.com/tozd/go/errors"

	"github.com/funvibe/symres/internal/symbols"
)

// Query is a lookup written with type references as text.
type Query struct {
	Name string
	// Category is one of the names symbols.ParseCategory accepts. Empty
	// means a method when Args or Expect are set and any type otherwise.
	Category string
	Args     []string
	// Expect is the variable type or return type the result must produce.
	Expect string
}

func (q Query) search(e *Engine, scope *symbols.Scope) (symbols.SymbolSearch, error) {
	if q.Name == "" {
		return symbols.SymbolSearch{}, errors.New("query needs a name")
	}

	args := make([]*symbols.Symbol, len(q.Args))
	for i, a := range q.Args {
		t, err := e.Type(scope, a)
		if err != nil {
			return symbols.SymbolSearch{}, err
		}
		args[i] = t
	}

	var search symbols.SymbolSearch
	switch {
	case q.Category != "":
		c, ok := symbols.ParseCategory(q.Category)
		if !ok {
			return symbols.SymbolSearch{}, errors.Errorf("unknown category %q", q.Category)
		}
		search = symbols.NewSymbolSearch(q.Name, c).WithTypeParameters(args...)
	case len(args) > 0 || q.Expect != "":
		search = symbols.NewMethodSearch(q.Name, args...)
	default:
		search = symbols.NewTypeSearch(q.Name)
	}

	if q.Expect != "" {
		t, err := e.Type(scope, q.Expect)
		if err != nil {
			return symbols.SymbolSearch{}, err
		}
		search = search.WithOfTypeOrReturn(t)
	}
	return e.program.Search(search), nil
}
