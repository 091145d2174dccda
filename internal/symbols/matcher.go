package symbols

import "github.com/funvibe/symres/internal/config"

// UncoercedWeight is the cost of using from where to is expected without any
// conversion: 0 for the same type, one hop weight per super or trait step,
// NotAssignable otherwise.
func UncoercedWeight(from, to *Symbol) float64 {
	if from == nil || to == nil {
		return config.NotAssignable
	}
	if from.IsExactSameType(to) {
		return config.ExactWeight
	}
	hops, ok := HierarchyDistance(from, to)
	if !ok {
		return config.NotAssignable
	}
	return float64(hops) * config.HierarchyHop
}

// AssignableWeight extends UncoercedWeight with single-step promotions.
func AssignableWeight(from, to *Symbol) float64 {
	w := UncoercedWeight(from, to)
	if w < 0 && from != nil && from.CanPromoteTo(to) {
		return config.CoercionWeight
	}
	return w
}

func IsAssignable(from, to *Symbol) bool {
	return AssignableWeight(from, to) >= 0
}

// IsSubtypeOrSame is assignability without promotions; expected types of
// variables and returns are checked this way.
func IsSubtypeOrSame(from, to *Symbol) bool {
	return UncoercedWeight(from, to) >= 0
}

// ParameterWeight sums the per-argument weights of a call against the
// declared parameter types. Arity mismatch or any unassignable argument
// yields NotAssignable.
func ParameterWeight(args, params []*Symbol) float64 {
	if len(args) != len(params) {
		return config.NotAssignable
	}
	total := 0.0
	for i, arg := range args {
		w := AssignableWeight(arg, params[i])
		if w < 0 {
			return config.NotAssignable
		}
		total += w
	}
	return total
}

// MatchQuality turns a total parameter weight into a percentage. It is not
// clamped below, so heavier weights always rank lower.
func MatchQuality(weight float64) float64 {
	return config.MaxMatchQuality - weight*config.WeightScale
}

// MatchMethod scores one candidate against a search. The candidate is not
// produced on arity mismatch, on an unassignable argument, or when its
// return type cannot satisfy the expected one.
func MatchMethod(search SymbolSearch, method *Symbol) (PercentageMethodSymbolMatch, bool) {
	w := ParameterWeight(search.typeParameters, method.ParamTypes())
	if w < 0 {
		return PercentageMethodSymbolMatch{}, false
	}
	if expected, ok := search.OfTypeOrReturn(); ok {
		ret, hasRet := method.DeclaredType()
		if !hasRet || !IsSubtypeOrSame(ret, expected) {
			return PercentageMethodSymbolMatch{}, false
		}
	}
	return PercentageMethodSymbolMatch{Method: method, Quality: MatchQuality(w)}, true
}

// CheckCovariantReturn reports whether an overriding method's return type is
// legal against the one it overrides: the same type or a narrower one.
func CheckCovariantReturn(derived, base *Symbol) bool {
	baseRet, baseHas := base.DeclaredType()
	derivedRet, derivedHas := derived.DeclaredType()
	switch {
	case !baseHas && !derivedHas:
		return true
	case !baseHas || !derivedHas:
		return false
	}
	return IsSubtypeOrSame(derivedRet, baseRet)
}
