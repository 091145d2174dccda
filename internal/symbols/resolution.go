package symbols

// Resolve finds the single symbol a search denotes: this scope first, then,
// for aggregates, the super type and traits in declaration order, then the
// enclosing lexical scopes. An empty result is not an error here.
func (s *Scope) Resolve(search SymbolSearch) (*Symbol, bool) {
	visited := map[*Scope]bool{}
	for sc := s; sc != nil; sc = sc.enclosing {
		if visited[sc] {
			return nil, false
		}
		visited[sc] = true

		if sym, ok := sc.resolveMember(search, map[*Symbol]bool{}); ok {
			return sym, true
		}
		if search.limitToBlocks && sc.enclosing != nil && !sc.enclosing.scopeType.isBlockLike() {
			return nil, false
		}
	}
	return nil, false
}

// resolveMember looks in this scope and, for aggregate scopes, in the member
// scopes of supers and traits. It never follows their lexical parents.
func (s *Scope) resolveMember(search SymbolSearch, visited map[*Symbol]bool) (*Symbol, bool) {
	if search.IsCategoryAcceptable(MethodCategory) && s.scopeType == ScopeAggregate && s.owner != nil {
		if m, ok := s.owner.ResolveMatchingMethods(search).SingleBestMatch(); ok {
			return m, true
		}
		if search.hasCategory {
			return nil, false
		}
		rest := search.WithVetoes(append(search.Vetoes(), MethodCategory)...)
		return s.resolveNonMethodMember(rest, visited)
	}
	return s.resolveNonMethodMember(search, visited)
}

func (s *Scope) resolveNonMethodMember(search SymbolSearch, visited map[*Symbol]bool) (*Symbol, bool) {
	if sym, ok := s.ResolveInThisScopeOnly(search); ok {
		return sym, true
	}
	if s.scopeType != ScopeAggregate || s.owner == nil {
		return nil, false
	}
	if visited[s.owner] {
		return nil, false
	}
	visited[s.owner] = true
	for _, sup := range s.owner.supers() {
		if sup.members == nil {
			continue
		}
		if sym, ok := sup.members.resolveNonMethodMember(search, visited); ok {
			return sym, true
		}
	}
	return nil, false
}

// ResolveInThisScopeOnly looks only at symbols defined directly here.
// Qualified names are answered only by the module scope they name.
func (s *Scope) ResolveInThisScopeOnly(search SymbolSearch) (*Symbol, bool) {
	name, ok := s.localName(search.name)
	if !ok {
		return nil, false
	}

	s.lock()
	defer s.unlock()

	for _, c := range search.ValidCategories() {
		list := s.split[c][name]
		if len(list) == 0 {
			continue
		}
		switch c {
		case MethodCategory:
			if m, ok := s.matchMethods(search, list).SingleBestMatch(); ok {
				return m, true
			}
		case VariableCategory:
			v := list[0]
			if expected, ok := search.OfTypeOrReturn(); ok {
				if t, has := v.DeclaredType(); has && !IsSubtypeOrSame(t, expected) {
					continue
				}
			}
			return v, true
		case TypeCategory, TemplateTypeCategory, FunctionCategory, TemplateFunctionCategory:
			return list[0], true
		case ControlCategory:
			// Control constructs own scopes but are never referenced by name.
		}
	}
	return nil, false
}

// localName strips a module qualifier when it names this scope.
func (s *Scope) localName(name string) (string, bool) {
	if !IsQualifiedName(name) {
		return name, true
	}
	module, unqualified := SplitQualifiedName(name)
	if s.scopeType != ScopeModule || s.name != module {
		return "", false
	}
	return unqualified, true
}

// ResolveAllMatching collects every acceptable symbol the search could
// denote, nearest first. Methods are returned best match first.
func (s *Scope) ResolveAllMatching(search SymbolSearch) []*Symbol {
	var out []*Symbol
	seen := map[*Symbol]bool{}
	add := func(syms ...*Symbol) {
		for _, sym := range syms {
			if !seen[sym] {
				seen[sym] = true
				out = append(out, sym)
			}
		}
	}

	if search.IsCategoryAcceptable(MethodCategory) {
		add(s.ResolveMatchingMethods(search).Symbols()...)
	}

	visitedScopes := map[*Scope]bool{}
	for sc := s; sc != nil; sc = sc.enclosing {
		if visitedScopes[sc] {
			break
		}
		visitedScopes[sc] = true
		add(sc.allInMember(search, map[*Symbol]bool{})...)
		if search.limitToBlocks && (sc.enclosing == nil || !sc.enclosing.scopeType.isBlockLike()) {
			break
		}
	}
	return out
}

func (s *Scope) allInMember(search SymbolSearch, visited map[*Symbol]bool) []*Symbol {
	var out []*Symbol
	if name, ok := s.localName(search.name); ok {
		s.lock()
		for _, c := range search.ValidCategories() {
			if c == MethodCategory || c == ControlCategory {
				continue
			}
			out = append(out, s.split[c][name]...)
		}
		s.unlock()
	}
	if s.scopeType != ScopeAggregate || s.owner == nil || visited[s.owner] {
		return out
	}
	visited[s.owner] = true
	for _, sup := range s.owner.supers() {
		if sup.members != nil {
			out = append(out, sup.members.allInMember(search, visited)...)
		}
	}
	return out
}
