package symbols

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/funvibe/symres/internal/config"
)

// PercentageMethodSymbolMatch pairs a candidate method with its quality, at
// most 100. Very heavy matches fall below 0 and print as 0.
type PercentageMethodSymbolMatch struct {
	Method  *Symbol
	Quality float64
}

func (m PercentageMethodSymbolMatch) String() string {
	return fmt.Sprintf("%.3f%% %s", math.Max(m.Quality, 0), m.Method)
}

// MethodSymbolSearchResult is an ordered set of candidate methods. Entries
// are kept in descending quality on every insertion; the two flags only ever
// go from false to true.
//
// Among entries tied with the best quality, one declared in a subtype of
// the aggregates declaring all the others is moved first and wins. Tied
// entries from unrelated aggregates stay ambiguous whatever their distance
// from the searched type.
type MethodSymbolSearchResult struct {
	results   []PercentageMethodSymbolMatch
	tolerance float64

	accessModifierIncompatible  bool
	methodNotMarkedWithOverride bool
}

func NewMethodSymbolSearchResult() *MethodSymbolSearchResult {
	return &MethodSymbolSearchResult{tolerance: config.DefaultTieTolerance}
}

// NewMethodSymbolSearchResultWithTolerance uses a non-default tie tolerance.
func NewMethodSymbolSearchResultWithTolerance(tolerance float64) *MethodSymbolSearchResult {
	if tolerance <= 0 {
		tolerance = config.DefaultTieTolerance
	}
	return &MethodSymbolSearchResult{tolerance: tolerance}
}

func (r *MethodSymbolSearchResult) Tolerance() float64 {
	return r.tolerance
}

func (r *MethodSymbolSearchResult) newEmpty() *MethodSymbolSearchResult {
	return NewMethodSymbolSearchResultWithTolerance(r.tolerance)
}

// Copy returns an independent result with the same entries and flags.
func (r *MethodSymbolSearchResult) Copy() *MethodSymbolSearchResult {
	c := r.newEmpty()
	c.results = append(c.results, r.results...)
	c.accessModifierIncompatible = r.accessModifierIncompatible
	c.methodNotMarkedWithOverride = r.methodNotMarkedWithOverride
	return c
}

func (r *MethodSymbolSearchResult) IsAccessModifierIncompatible() bool {
	return r.accessModifierIncompatible
}

// SetAccessModifierIncompatible ORs v into the flag.
func (r *MethodSymbolSearchResult) SetAccessModifierIncompatible(v bool) {
	r.accessModifierIncompatible = r.accessModifierIncompatible || v
}

func (r *MethodSymbolSearchResult) IsMethodNotMarkedWithOverride() bool {
	return r.methodNotMarkedWithOverride
}

// SetMethodNotMarkedWithOverride ORs v into the flag.
func (r *MethodSymbolSearchResult) SetMethodNotMarkedWithOverride(v bool) {
	r.methodNotMarkedWithOverride = r.methodNotMarkedWithOverride || v
}

// Add inserts matches and restores descending order. A method already
// present keeps the better of its two qualities.
func (r *MethodSymbolSearchResult) Add(matches ...PercentageMethodSymbolMatch) *MethodSymbolSearchResult {
	for _, m := range matches {
		if m.Method == nil {
			continue
		}
		dup := false
		for i := range r.results {
			if r.results[i].Method == m.Method {
				dup = true
				if m.Quality > r.results[i].Quality {
					r.results[i].Quality = m.Quality
				}
				break
			}
		}
		if !dup {
			r.results = append(r.results, m)
		}
	}
	sort.SliceStable(r.results, func(i, j int) bool {
		return r.results[i].Quality > r.results[j].Quality
	})
	if i := r.mostDerived(); i > 0 {
		best := r.results[i]
		copy(r.results[1:i+1], r.results[:i])
		r.results[0] = best
	}
	return r
}

// topTied counts the entries tied with the first one.
func (r *MethodSymbolSearchResult) topTied() int {
	n := 0
	for n < len(r.results) && r.tied(r.results[0].Quality, r.results[n].Quality) {
		n++
	}
	return n
}

// mostDerived returns the index of the tied entry that outranks every other
// tied entry, or -1.
func (r *MethodSymbolSearchResult) mostDerived() int {
	n := r.topTied()
	if n < 2 {
		return -1
	}
	for i := 0; i < n; i++ {
		wins := true
		for j := 0; j < n && wins; j++ {
			wins = i == j || outranks(r.results[i].Method, r.results[j].Method)
		}
		if wins {
			return i
		}
	}
	return -1
}

// outranks reports whether a is declared in a strict subtype of the
// aggregate declaring b.
func outranks(a, b *Symbol) bool {
	da, db := declaringAggregate(a), declaringAggregate(b)
	return da != nil && db != nil && da != db && da.IsSubtypeOf(db)
}

func declaringAggregate(m *Symbol) *Symbol {
	if m.enclosing == nil {
		return nil
	}
	return m.enclosing.owner
}

func (r *MethodSymbolSearchResult) IsEmpty() bool {
	return len(r.results) == 0
}

func (r *MethodSymbolSearchResult) Len() int {
	return len(r.results)
}

// Results returns the entries in descending quality.
func (r *MethodSymbolSearchResult) Results() []PercentageMethodSymbolMatch {
	return append([]PercentageMethodSymbolMatch(nil), r.results...)
}

// Symbols returns the candidate methods in descending quality.
func (r *MethodSymbolSearchResult) Symbols() []*Symbol {
	out := make([]*Symbol, len(r.results))
	for i, m := range r.results {
		out[i] = m.Method
	}
	return out
}

// MergePeerToNewResult unions two results from unrelated routes, such as
// two traits implemented by the same aggregate. Neither input changes.
func (r *MethodSymbolSearchResult) MergePeerToNewResult(with *MethodSymbolSearchResult) *MethodSymbolSearchResult {
	out := r.Copy()
	out.SetAccessModifierIncompatible(with.accessModifierIncompatible)
	out.SetMethodNotMarkedWithOverride(with.methodNotMarkedWithOverride)
	out.Add(with.results...)
	return out
}

// OverrideToNewResult lets derived results supersede the receiver's. Every
// derived entry is kept. A base entry with the same signature as a derived
// one is dropped, unless their access modifiers differ, in which case both
// stay and the access flag is raised. Dropping a non-private base through a
// derived method without the override mark raises the override flag.
func (r *MethodSymbolSearchResult) OverrideToNewResult(derived *MethodSymbolSearchResult) *MethodSymbolSearchResult {
	out := derived.Copy()
	out.SetAccessModifierIncompatible(r.accessModifierIncompatible)
	out.SetMethodNotMarkedWithOverride(r.methodNotMarkedWithOverride)

	for _, base := range r.results {
		keep := true
		for _, d := range derived.results {
			if d.Method == base.Method || d.Method.Name != base.Method.Name || !d.Method.IsExactSignatureMatch(base.Method) {
				continue
			}
			if d.Method.Access != base.Method.Access {
				out.SetAccessModifierIncompatible(true)
				continue
			}
			if d.Method.Access != Private && !d.Method.IsOverride {
				out.SetMethodNotMarkedWithOverride(true)
			}
			keep = false
		}
		if keep {
			out.Add(base)
		}
	}
	return out
}

func (r *MethodSymbolSearchResult) tied(a, b float64) bool {
	return math.Abs(a-b) < r.tolerance
}

// IsSingleBestMatchPresent is true with exactly one entry, when the top two
// qualities differ by at least the tolerance, or when the first entry is
// the most derived of those tied with it.
func (r *MethodSymbolSearchResult) IsSingleBestMatchPresent() bool {
	switch len(r.results) {
	case 0:
		return false
	case 1:
		return true
	}
	return r.topTied() == 1 || r.mostDerived() == 0
}

func (r *MethodSymbolSearchResult) IsAmbiguous() bool {
	return !r.IsEmpty() && !r.IsSingleBestMatchPresent()
}

func (r *MethodSymbolSearchResult) SingleBestMatch() (*Symbol, bool) {
	if !r.IsSingleBestMatchPresent() {
		return nil, false
	}
	return r.results[0].Method, true
}

// AmbiguousCandidate names one of the tied methods and where it is declared.
type AmbiguousCandidate struct {
	Method *Symbol
	Line   int
}

func (c AmbiguousCandidate) String() string {
	return fmt.Sprintf("%s line %d", c.Method, c.Line)
}

// AmbiguousMethodParameters lists every entry tied with the best one. It is
// empty unless the result is ambiguous.
func (r *MethodSymbolSearchResult) AmbiguousMethodParameters() []AmbiguousCandidate {
	if !r.IsAmbiguous() {
		return nil
	}
	top := r.results[0].Quality
	var out []AmbiguousCandidate
	for _, m := range r.results {
		if !r.tied(top, m.Quality) {
			break
		}
		out = append(out, AmbiguousCandidate{Method: m.Method, Line: m.Method.Location.Line})
	}
	return out
}

// AmbiguousDescription joins AmbiguousMethodParameters for a diagnostic.
func (r *MethodSymbolSearchResult) AmbiguousDescription() string {
	tied := r.AmbiguousMethodParameters()
	parts := make([]string, len(tied))
	for i, c := range tied {
		parts[i] = c.String()
	}
	return strings.Join(parts, " , ")
}

func (r *MethodSymbolSearchResult) String() string {
	parts := make([]string, len(r.results))
	for i, m := range r.results {
		parts[i] = m.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
