package analyzer

import (
	"sort"
	"strings"

	"github.com/funvibe/symres/internal/config"
	"github.com/funvibe/symres/internal/diagnostics"
	"github.com/funvibe/symres/internal/pipeline"
	"github.com/funvibe/symres/internal/symbols"
)

// OverrideCheck validates every method against the one it overrides and
// reports concrete classes that inherit the same method along two routes
// without resolving it.
type OverrideCheck struct {
	a *Analyzer
}

func (oc *OverrideCheck) String() string { return "overrides" }

func (oc *OverrideCheck) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Unit == nil {
		return ctx
	}
	for _, d := range ctx.Unit.Declarations {
		sym, ok := oc.a.SymbolFor(d)
		if !ok || !sym.IsAggregate() {
			continue
		}
		for _, m := range d.Methods {
			if method, ok := oc.a.MethodFor(m); ok {
				oc.checkOverride(sym, method, ctx.AddError)
			}
		}
		if sym.Genus == symbols.GenusClass && !sym.IsAbstract && !sym.IsGenericDeclaration() {
			oc.checkInheritedAmbiguity(sym, ctx.AddError)
		}
	}
	return ctx
}

// overridden finds the visible method of owner's supers that method
// replaces: same name and exactly the same parameter types.
func (oc *OverrideCheck) overridden(owner, method *symbols.Symbol) (*symbols.Symbol, bool) {
	search := oc.a.program.Search(symbols.NewMethodSearch(method.Name, method.ParamTypes()...))
	var supers []*symbols.Symbol
	if super, ok := owner.SuperAggregate(); ok {
		supers = append(supers, super)
	}
	supers = append(supers, owner.Traits()...)
	for _, sup := range supers {
		for _, candidate := range sup.ResolveMatchingMethods(search).Symbols() {
			if candidate.Access == symbols.Private {
				continue
			}
			if candidate.Name == method.Name && candidate.IsExactSignatureMatch(method) {
				return candidate, true
			}
		}
	}
	return nil, false
}

func (oc *OverrideCheck) checkOverride(owner, method *symbols.Symbol, report reportFunc) {
	settings := oc.a.program.Settings()
	base, ok := oc.overridden(owner, method)
	if !ok {
		if method.IsOverride {
			report(diagnostics.Errorf(diagnostics.ErrR001, method.Location,
				"'%s' is marked override but there is no method to override", method))
		}
		return
	}

	if method.Access != base.Access {
		d := diagnostics.Errorf(diagnostics.ErrR004, method.Location,
			"'%s' is %s but overrides %s '%s'", method, method.Access, base.Access, base).
			WithRelated(base.Location.String())
		if settings.AccessModifierPolicy != config.PolicyError {
			d.Severity = diagnostics.SeverityWarning
		}
		report(d)
	}

	if !method.IsOverride && method.Access != symbols.Private {
		d := diagnostics.Errorf(diagnostics.ErrR005, method.Location,
			"'%s' overrides '%s' but is not marked override", method, base).
			WithRelated(base.Location.String())
		if !settings.Strict {
			d.Severity = diagnostics.SeverityWarning
		}
		report(d)
	}

	if !symbols.CheckCovariantReturn(method, base) {
		report(diagnostics.Errorf(diagnostics.ErrR008, method.Location,
			"return type of '%s' is not compatible with '%s'", method, base).
			WithRelated(base.Location.String()))
	}
}

// checkInheritedAmbiguity asks, for every distinct inherited signature,
// whether a call with exactly those parameter types has a single best
// method.
func (oc *OverrideCheck) checkInheritedAmbiguity(owner *symbols.Symbol, report reportFunc) {
	for _, m := range inheritedSignatures(owner) {
		search := oc.a.program.Search(symbols.NewMethodSearch(m.Name, m.ParamTypes()...))
		result := owner.ResolveMatchingMethods(search)
		if !result.IsAmbiguous() {
			continue
		}
		d := diagnostics.Errorf(diagnostics.ErrR002, owner.Location,
			"'%s' inherits more than one '%s'; override it to choose", owner.FriendlyName(), search)
		for _, c := range result.AmbiguousMethodParameters() {
			d.WithRelated(c.String())
		}
		report(d)
	}
}

// inheritedSignatures returns one method per distinct name and signature
// found in the supers of owner, ordered by that signature.
func inheritedSignatures(owner *symbols.Symbol) []*symbols.Symbol {
	byKey := make(map[string]*symbols.Symbol)
	seen := map[*symbols.Symbol]bool{owner: true}
	var walk func(s *symbols.Symbol)
	walk = func(s *symbols.Symbol) {
		var supers []*symbols.Symbol
		if super, ok := s.SuperAggregate(); ok {
			supers = append(supers, super)
		}
		supers = append(supers, s.Traits()...)
		for _, sup := range supers {
			if seen[sup] {
				continue
			}
			seen[sup] = true
			if members, ok := sup.Members(); ok {
				for _, m := range members.Symbols() {
					if m.Category != symbols.MethodCategory || m.Access == symbols.Private {
						continue
					}
					key := signatureKey(m)
					if _, ok := byKey[key]; !ok {
						byKey[key] = m
					}
				}
			}
			walk(sup)
		}
	}
	walk(owner)

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*symbols.Symbol, len(keys))
	for i, k := range keys {
		out[i] = byKey[k]
	}
	return out
}

func signatureKey(m *symbols.Symbol) string {
	parts := make([]string, 0, len(m.Params()))
	for _, t := range m.ParamTypes() {
		if t == nil {
			parts = append(parts, "?")
			continue
		}
		parts = append(parts, t.FullyQualifiedName())
	}
	return m.Name + "(" + strings.Join(parts, ",") + ")"
}

