package symbols

import (
	"strings"

	"github.com/funvibe/symres/internal/config"
)

// SymbolSearch describes what a lookup is after. It is a value: the With
// builders return modified copies and never touch the receiver.
type SymbolSearch struct {
	name           string
	category       Category
	hasCategory    bool
	vetoes         []Category
	typeParameters []*Symbol
	ofTypeOrReturn *Symbol
	limitToBlocks  bool
	tieTolerance   float64
}

// NewSymbolSearch looks for name in a single category.
func NewSymbolSearch(name string, category Category) SymbolSearch {
	return SymbolSearch{name: name, category: category, hasCategory: true}
}

// NewVariableSearch is the default kind of lookup for a bare identifier.
func NewVariableSearch(name string) SymbolSearch {
	return NewSymbolSearch(name, VariableCategory)
}

// NewAnySearch accepts every category except the vetoed ones.
func NewAnySearch(name string, vetoes ...Category) SymbolSearch {
	return SymbolSearch{name: name, vetoes: append([]Category(nil), vetoes...)}
}

// NewTypeSearch accepts anything usable as a type: types, template types,
// functions and template functions.
func NewTypeSearch(name string) SymbolSearch {
	return NewAnySearch(name, MethodCategory, VariableCategory, ControlCategory)
}

// NewMethodSearch looks for a method callable with the given argument types.
func NewMethodSearch(name string, argTypes ...*Symbol) SymbolSearch {
	return NewSymbolSearch(name, MethodCategory).WithTypeParameters(argTypes...)
}

func (s SymbolSearch) Name() string {
	return s.name
}

// Category returns the fixed category, if the search has one.
func (s SymbolSearch) Category() (Category, bool) {
	return s.category, s.hasCategory
}

func (s SymbolSearch) Vetoes() []Category {
	return append([]Category(nil), s.vetoes...)
}

// TypeParameters are the argument types of a call, or the type arguments of
// a generic reference.
func (s SymbolSearch) TypeParameters() []*Symbol {
	return append([]*Symbol(nil), s.typeParameters...)
}

// OfTypeOrReturn is the expected variable type or method return type.
func (s SymbolSearch) OfTypeOrReturn() (*Symbol, bool) {
	return s.ofTypeOrReturn, s.ofTypeOrReturn != nil
}

func (s SymbolSearch) LimitToBlocks() bool {
	return s.limitToBlocks
}

// TieTolerance is the distance under which method match qualities are equal.
func (s SymbolSearch) TieTolerance() float64 {
	if s.tieTolerance <= 0 {
		return config.DefaultTieTolerance
	}
	return s.tieTolerance
}

func (s SymbolSearch) WithName(name string) SymbolSearch {
	s.name = name
	s.copySlices()
	return s
}

// WithCategory fixes the category and clears any vetoes.
func (s SymbolSearch) WithCategory(c Category) SymbolSearch {
	s.copySlices()
	s.category = c
	s.hasCategory = true
	s.vetoes = nil
	return s
}

// WithVetoes switches to an any-category search minus the vetoes.
func (s SymbolSearch) WithVetoes(vetoes ...Category) SymbolSearch {
	s.copySlices()
	s.hasCategory = false
	s.vetoes = append([]Category(nil), vetoes...)
	return s
}

func (s SymbolSearch) WithTypeParameters(types ...*Symbol) SymbolSearch {
	s.copySlices()
	s.typeParameters = append([]*Symbol(nil), types...)
	return s
}

func (s SymbolSearch) WithOfTypeOrReturn(t *Symbol) SymbolSearch {
	s.copySlices()
	s.ofTypeOrReturn = t
	return s
}

func (s SymbolSearch) WithLimitToBlocks(limit bool) SymbolSearch {
	s.copySlices()
	s.limitToBlocks = limit
	return s
}

func (s SymbolSearch) WithTieTolerance(tolerance float64) SymbolSearch {
	s.copySlices()
	s.tieTolerance = tolerance
	return s
}

// copySlices detaches a copy from the slices shared with its source.
func (s *SymbolSearch) copySlices() {
	s.vetoes = append([]Category(nil), s.vetoes...)
	s.typeParameters = append([]*Symbol(nil), s.typeParameters...)
}

// IsCategoryAcceptable checks c against the fixed category or the vetoes.
func (s SymbolSearch) IsCategoryAcceptable(c Category) bool {
	if s.hasCategory {
		return s.category == c
	}
	for _, v := range s.vetoes {
		if v == c {
			return false
		}
	}
	return true
}

// ValidCategories lists the acceptable categories in declaration order.
func (s SymbolSearch) ValidCategories() []Category {
	var out []Category
	for _, c := range AllCategories {
		if s.IsCategoryAcceptable(c) {
			out = append(out, c)
		}
	}
	return out
}

// IsAnyValidTypeSearch reports the shape produced by NewTypeSearch.
func (s SymbolSearch) IsAnyValidTypeSearch() bool {
	if s.hasCategory {
		return false
	}
	for _, c := range AllCategories {
		if s.IsCategoryAcceptable(c) != c.IsTypeLike() {
			return false
		}
	}
	return true
}

// String renders the search the way a call or reference reads in messages,
// e.g. "Float <- add(Int, Int)".
func (s SymbolSearch) String() string {
	var b strings.Builder
	if s.ofTypeOrReturn != nil {
		b.WriteString(s.ofTypeOrReturn.FriendlyName())
		b.WriteString(" <- ")
	}
	b.WriteString(s.name)
	if len(s.typeParameters) == 0 && !(s.hasCategory && s.category == MethodCategory) {
		return b.String()
	}
	open, closeBr := "(", ")"
	if !s.hasCategory || s.category != MethodCategory && s.category != FunctionCategory {
		open, closeBr = "<", ">"
	}
	b.WriteString(open)
	for i, t := range s.typeParameters {
		if i > 0 {
			b.WriteString(", ")
		}
		if t == nil {
			b.WriteString("?")
			continue
		}
		b.WriteString(t.FriendlyName())
	}
	b.WriteString(closeBr)
	return b.String()
}
