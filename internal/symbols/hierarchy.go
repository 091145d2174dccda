package symbols

import "github.com/funvibe/symres/internal/diagnostics"

// SetSuperAggregate records the single super type. A super that already
// reaches s through its own hierarchy is rejected.
func (s *Symbol) SetSuperAggregate(super *Symbol) error {
	if super == nil {
		s.superAggregate = nil
		return nil
	}
	if super == s || super.reaches(s) {
		return circular(s, super)
	}
	s.superAggregate = super
	return nil
}

// AddTrait appends a directly implemented trait, keeping declaration order.
func (s *Symbol) AddTrait(trait *Symbol) error {
	if trait == s || trait.reaches(s) {
		return circular(s, trait)
	}
	for _, t := range s.traits {
		if t == trait {
			return nil
		}
	}
	s.traits = append(s.traits, trait)
	return nil
}

func circular(s, via *Symbol) error {
	return diagnostics.Errorf(diagnostics.ErrR003, s.Location,
		"circular hierarchy: '%s' cannot extend '%s'", s.FriendlyName(), via.FriendlyName()).
		WithRelated(via.Location.String())
}

// supers lists the direct super type followed by traits.
func (s *Symbol) supers() []*Symbol {
	out := make([]*Symbol, 0, len(s.traits)+1)
	if s.superAggregate != nil {
		out = append(out, s.superAggregate)
	}
	return append(out, s.traits...)
}

// reaches reports whether target is s or one of its (transitive) supers.
func (s *Symbol) reaches(target *Symbol) bool {
	_, ok := HierarchyDistance(s, target)
	return ok
}

// HierarchyDistance is the minimum number of super/trait hops from s to
// target; 0 when they are the same type.
func HierarchyDistance(from, target *Symbol) (int, bool) {
	if from == nil || target == nil {
		return 0, false
	}
	type step struct {
		sym  *Symbol
		hops int
	}
	seen := map[*Symbol]bool{from: true}
	queue := []step{{from, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.sym.IsExactSameType(target) {
			return cur.hops, true
		}
		for _, sup := range cur.sym.supers() {
			if !seen[sup] {
				seen[sup] = true
				queue = append(queue, step{sup, cur.hops + 1})
			}
		}
	}
	return 0, false
}

// CheckHierarchy validates a hierarchy built without the guarded setters.
// Traversal is bounded by the number of distinct aggregates seen.
func CheckHierarchy(s *Symbol) error {
	state := map[*Symbol]int{} // 1 on path, 2 done
	var visit func(sym *Symbol) *Symbol
	visit = func(sym *Symbol) *Symbol {
		state[sym] = 1
		for _, sup := range sym.supers() {
			switch state[sup] {
			case 1:
				return sup
			case 0:
				if found := visit(sup); found != nil {
					return found
				}
			}
		}
		state[sym] = 2
		return nil
	}
	if via := visit(s); via != nil {
		return circular(s, via)
	}
	return nil
}

// IsSubtypeOf reports whether s is target or inherits from it.
func (s *Symbol) IsSubtypeOf(target *Symbol) bool {
	return s.reaches(target)
}
