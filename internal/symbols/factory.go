package symbols

import "github.com/funvibe/symres/internal/token"

// NewAggregate creates a concrete aggregate type (class, trait, record or
// component) with its own member scope.
func NewAggregate(name string, genus Genus, loc token.Token) *Symbol {
	s := &Symbol{Name: name, Category: TypeCategory, Genus: genus, Location: loc}
	s.members = newOwnedScope(name, ScopeAggregate, s)
	return s
}

// NewTemplateType creates a generic aggregate declaration. Conceptual
// parameters are added with AddTypeParameter.
func NewTemplateType(name string, genus Genus, loc token.Token) *Symbol {
	s := NewAggregate(name, genus, loc)
	s.Category = TemplateTypeCategory
	return s
}

// NewSimpleType creates a built-in style type with no members of interest,
// e.g. Integer or Boolean.
func NewSimpleType(name string, loc token.Token) *Symbol {
	return NewAggregate(name, GenusClass, loc)
}

// NewConceptualParameter creates a type parameter such as T.
func NewConceptualParameter(name string, loc token.Token) *Symbol {
	return &Symbol{Name: name, Category: TypeCategory, IsConceptual: true, Location: loc}
}

func NewFunction(name string, returnType *Symbol, loc token.Token) *Symbol {
	s := &Symbol{Name: name, Category: FunctionCategory, Location: loc, declaredType: returnType}
	s.members = newOwnedScope(name, ScopeFunction, s)
	return s
}

func NewTemplateFunction(name string, returnType *Symbol, loc token.Token) *Symbol {
	s := NewFunction(name, returnType, loc)
	s.Category = TemplateFunctionCategory
	return s
}

// NewMethod creates a method; returnType may be nil for methods returning nothing.
func NewMethod(name string, returnType *Symbol, loc token.Token) *Symbol {
	s := &Symbol{Name: name, Category: MethodCategory, Location: loc, declaredType: returnType}
	s.members = newOwnedScope(name, ScopeMethod, s)
	return s
}

// NewVariable creates a variable, field or parameter; varType may be nil
// while not yet inferred.
func NewVariable(name string, varType *Symbol, loc token.Token) *Symbol {
	return &Symbol{Name: name, Category: VariableCategory, Location: loc, declaredType: varType}
}

// NewControl creates a value-producing control construct (if, switch, try)
// that owns a block scope.
func NewControl(name string, loc token.Token) *Symbol {
	s := &Symbol{Name: name, Category: ControlCategory, Location: loc}
	s.members = newOwnedScope(name, ScopeBlock, s)
	return s
}

// NewParameterized creates the outline of a parameterization of generic with
// args under the given canonical name. The outline has no members until
// substitution populates it.
func NewParameterized(generic *Symbol, args []*Symbol, canonicalName string, loc token.Token) *Symbol {
	s := &Symbol{
		Name:          canonicalName,
		Category:      generic.Category,
		Genus:         generic.Genus,
		Access:        generic.Access,
		IsPure:        generic.IsPure,
		Location:      loc,
		module:        generic.module,
		genericType:   generic,
		typeArguments: append([]*Symbol(nil), args...),
	}
	stillGeneric := s.IsGenericInNature()
	switch generic.Category {
	case TemplateTypeCategory, TypeCategory:
		s.Category = TypeCategory
		if stillGeneric {
			s.Category = TemplateTypeCategory
		}
		s.members = newOwnedScope(canonicalName, ScopeAggregate, s)
	case TemplateFunctionCategory, FunctionCategory:
		s.Category = FunctionCategory
		if stillGeneric {
			s.Category = TemplateFunctionCategory
		}
		s.members = newOwnedScope(canonicalName, ScopeFunction, s)
	case MethodCategory, VariableCategory, ControlCategory:
	}
	return s
}

// CloneOutline copies the identity and flags of s without its parameters,
// members or declared type. Substitution fills those in on the copy.
func (s *Symbol) CloneOutline() *Symbol {
	c := &Symbol{
		Name:         s.Name,
		Category:     s.Category,
		Genus:        s.Genus,
		Access:       s.Access,
		IsOverride:   s.IsOverride,
		IsAbstract:   s.IsAbstract,
		IsPure:       s.IsPure,
		IsOperator:   s.IsOperator,
		IsConceptual: s.IsConceptual,
		Location:     s.Location,
		module:       s.module,
	}
	if s.members != nil {
		c.members = newOwnedScope(s.members.name, s.members.scopeType, c)
	}
	return c
}
