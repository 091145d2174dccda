package symbols

// matchMethods scores the same-named methods of one scope. Callers hold the
// scope lock when the scope has one.
func (s *Scope) matchMethods(search SymbolSearch, candidates []*Symbol) *MethodSymbolSearchResult {
	result := NewMethodSymbolSearchResultWithTolerance(search.TieTolerance())
	for _, m := range candidates {
		if match, ok := MatchMethod(search, m); ok {
			result.Add(match)
		}
	}
	return result
}

// matchingMethodsInThisScopeOnly scores every method named by the search that
// is declared directly in this scope.
func (s *Scope) matchingMethodsInThisScopeOnly(search SymbolSearch) *MethodSymbolSearchResult {
	name, ok := s.localName(search.name)
	if !ok {
		return NewMethodSymbolSearchResultWithTolerance(search.TieTolerance())
	}
	s.lock()
	defer s.unlock()
	return s.matchMethods(search, s.split[MethodCategory][name])
}

// ResolveMatchingMethods walks outwards to the nearest aggregate and
// collects its matching methods across the whole hierarchy. Outside any
// aggregate only this scope's own methods are considered.
func (s *Scope) ResolveMatchingMethods(search SymbolSearch) *MethodSymbolSearchResult {
	for sc := s; sc != nil; sc = sc.enclosing {
		if sc.scopeType == ScopeAggregate && sc.owner != nil {
			return sc.owner.ResolveMatchingMethods(search)
		}
	}
	return s.matchingMethodsInThisScopeOnly(search)
}

// ResolveMatchingMethods collects the candidate methods of an aggregate:
// the super type and traits are peers of each other, and the aggregate's own
// methods override what they provide. How far up a candidate is declared
// does not affect its quality; see MethodSymbolSearchResult for the tie
// break between subtypes.
func (s *Symbol) ResolveMatchingMethods(search SymbolSearch) *MethodSymbolSearchResult {
	return s.matchingMethodsInHierarchy(search, map[*Symbol]bool{})
}

func (s *Symbol) matchingMethodsInHierarchy(search SymbolSearch, onPath map[*Symbol]bool) *MethodSymbolSearchResult {
	inherited := NewMethodSymbolSearchResultWithTolerance(search.TieTolerance())
	if onPath[s] {
		// Cyclic graphs are rejected when built; a malformed one yields nothing.
		return inherited
	}
	onPath[s] = true
	defer delete(onPath, s)

	for _, sup := range s.supers() {
		inherited = inherited.MergePeerToNewResult(sup.matchingMethodsInHierarchy(search, onPath))
	}
	if s.members == nil {
		return inherited
	}
	own := s.members.matchingMethodsInThisScopeOnly(search)
	return inherited.OverrideToNewResult(own)
}
