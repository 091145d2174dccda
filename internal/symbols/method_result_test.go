package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTieTolerance(t *testing.T) {
	w := newWorld(t)
	calc := w.aggregate(t, "Calc", GenusClass)
	m1 := method(t, calc, "f", nil, 10, w.integer)
	m2 := method(t, calc, "f", nil, 11, w.float)

	tests := []struct {
		name      string
		q1, q2    float64
		ambiguous bool
	}{
		{"within tolerance", 87.000, 87.0005, true},
		{"identical", 87.0, 87.0, true},
		{"outside tolerance", 87.000, 86.998, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewMethodSymbolSearchResult()
			r.Add(PercentageMethodSymbolMatch{Method: m1, Quality: tt.q1})
			r.Add(PercentageMethodSymbolMatch{Method: m2, Quality: tt.q2})

			assert.Equal(t, tt.ambiguous, r.IsAmbiguous())
			assert.Equal(t, !tt.ambiguous, r.IsSingleBestMatchPresent())
			if tt.ambiguous {
				assert.Len(t, r.AmbiguousMethodParameters(), 2)
				_, ok := r.SingleBestMatch()
				assert.False(t, ok)
			} else {
				best, ok := r.SingleBestMatch()
				require.True(t, ok)
				assert.Same(t, m1, best)
				assert.Empty(t, r.AmbiguousMethodParameters())
			}
		})
	}
}

func TestResultSortedOnInsert(t *testing.T) {
	w := newWorld(t)
	calc := w.aggregate(t, "Calc", GenusClass)
	low := method(t, calc, "f", nil, 10, w.integer)
	high := method(t, calc, "f", nil, 11, w.float)
	mid := method(t, calc, "f", nil, 12, w.str)

	r := NewMethodSymbolSearchResult()
	r.Add(PercentageMethodSymbolMatch{Method: low, Quality: 10})
	r.Add(PercentageMethodSymbolMatch{Method: high, Quality: 90}, PercentageMethodSymbolMatch{Method: mid, Quality: 50})
	assert.Equal(t, []*Symbol{high, mid, low}, r.Symbols())

	// Re-adding keeps the better quality and a single entry.
	r.Add(PercentageMethodSymbolMatch{Method: low, Quality: 95})
	assert.Equal(t, []*Symbol{low, high, mid}, r.Symbols())
	assert.Equal(t, 3, r.Len())

	assert.True(t, NewMethodSymbolSearchResult().IsEmpty())
	assert.False(t, NewMethodSymbolSearchResult().IsAmbiguous())
	assert.False(t, NewMethodSymbolSearchResult().IsSingleBestMatchPresent())
}

func TestFlagsAreSticky(t *testing.T) {
	r := NewMethodSymbolSearchResult()
	r.SetAccessModifierIncompatible(true)
	r.SetAccessModifierIncompatible(false)
	assert.True(t, r.IsAccessModifierIncompatible())

	r.SetMethodNotMarkedWithOverride(true)
	r.SetMethodNotMarkedWithOverride(false)
	assert.True(t, r.IsMethodNotMarkedWithOverride())

	empty := NewMethodSymbolSearchResult()
	merged := empty.MergePeerToNewResult(r)
	assert.True(t, merged.IsAccessModifierIncompatible())
	assert.True(t, merged.IsMethodNotMarkedWithOverride())

	overridden := r.OverrideToNewResult(empty)
	assert.True(t, overridden.IsAccessModifierIncompatible())
	assert.True(t, overridden.IsMethodNotMarkedWithOverride())

	assert.False(t, empty.IsAccessModifierIncompatible(), "inputs are not modified")
}

func TestMergePeerIsUnion(t *testing.T) {
	w := newWorld(t)
	a := w.aggregate(t, "A", GenusTrait)
	b := w.aggregate(t, "B", GenusTrait)
	fa := method(t, a, "f", nil, 10)
	fb := method(t, b, "f", nil, 20)

	ra := NewMethodSymbolSearchResult().Add(PercentageMethodSymbolMatch{Method: fa, Quality: 99.99})
	rb := NewMethodSymbolSearchResult().Add(PercentageMethodSymbolMatch{Method: fb, Quality: 99.99})

	merged := ra.MergePeerToNewResult(rb)
	assert.Equal(t, 2, merged.Len())
	assert.True(t, merged.IsAmbiguous())
	assert.Equal(t, 1, ra.Len())
	assert.Equal(t, 1, rb.Len())

	tied := merged.AmbiguousMethodParameters()
	require.Len(t, tied, 2)
	assert.Equal(t, 10, tied[0].Line)
	assert.Equal(t, 20, tied[1].Line)
	assert.Contains(t, merged.AmbiguousDescription(), "line 10")
	assert.Contains(t, merged.AmbiguousDescription(), "line 20")
}

func TestOverrideToNewResult(t *testing.T) {
	tests := []struct {
		name            string
		baseAccess      AccessModifier
		derivedAccess   AccessModifier
		derivedOverride bool
		wantLen         int
		wantAccessFlag  bool
		wantMissingFlag bool
	}{
		{"marked override supersedes", Public, Public, true, 1, false, false},
		{"unmarked override supersedes and flags", Public, Public, false, 1, false, true},
		{"private redefinition needs no mark", Private, Private, false, 1, false, false},
		{"access change keeps both", Public, Private, true, 2, true, false},
		{"protected to public keeps both", Protected, Public, true, 2, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t)
			base := w.aggregate(t, "Base", GenusClass)
			derived := w.aggregate(t, "Derived", GenusClass)
			require.NoError(t, derived.SetSuperAggregate(base))

			bm := method(t, base, "f", nil, 10, w.integer)
			bm.Access = tt.baseAccess
			dm := method(t, derived, "f", nil, 20, w.integer)
			dm.Access = tt.derivedAccess
			dm.IsOverride = tt.derivedOverride
			other := method(t, base, "g", nil, 11)

			baseResult := NewMethodSymbolSearchResult().Add(
				PercentageMethodSymbolMatch{Method: bm, Quality: 99.99},
				PercentageMethodSymbolMatch{Method: other, Quality: 50},
			)
			derivedResult := NewMethodSymbolSearchResult().Add(PercentageMethodSymbolMatch{Method: dm, Quality: 100})

			out := baseResult.OverrideToNewResult(derivedResult)
			assert.Equal(t, tt.wantLen+1, out.Len(), "unrelated base entries are kept")
			assert.Equal(t, tt.wantAccessFlag, out.IsAccessModifierIncompatible())
			assert.Equal(t, tt.wantMissingFlag, out.IsMethodNotMarkedWithOverride())
			assert.Same(t, dm, out.Symbols()[0])
		})
	}
}
