package symbols

import (
	"fmt"
	"strings"

	"github.com/funvibe/symres/internal/config"
	"github.com/funvibe/symres/internal/token"
)

// Category is the closed set of symbol kinds. Every consumer switches over it
// exhaustively.
type Category int

const (
	TypeCategory Category = iota
	TemplateTypeCategory
	FunctionCategory
	TemplateFunctionCategory
	MethodCategory
	VariableCategory
	ControlCategory
)

// AllCategories lists every category in declaration order.
var AllCategories = []Category{
	TypeCategory,
	TemplateTypeCategory,
	FunctionCategory,
	TemplateFunctionCategory,
	MethodCategory,
	VariableCategory,
	ControlCategory,
}

func (c Category) String() string {
	switch c {
	case TypeCategory:
		return "type"
	case TemplateTypeCategory:
		return "template type"
	case FunctionCategory:
		return "function"
	case TemplateFunctionCategory:
		return "template function"
	case MethodCategory:
		return "method"
	case VariableCategory:
		return "variable"
	case ControlCategory:
		return "control"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory accepts the names produced by String, plus a few short forms.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "type":
		return TypeCategory, true
	case "template type", "template-type", "generic-type":
		return TemplateTypeCategory, true
	case "function":
		return FunctionCategory, true
	case "template function", "template-function", "generic-function":
		return TemplateFunctionCategory, true
	case "method":
		return MethodCategory, true
	case "variable":
		return VariableCategory, true
	case "control":
		return ControlCategory, true
	}
	return 0, false
}

// IsTypeLike reports whether symbols of this category can be used as a type.
func (c Category) IsTypeLike() bool {
	switch c {
	case TypeCategory, TemplateTypeCategory, FunctionCategory, TemplateFunctionCategory:
		return true
	case MethodCategory, VariableCategory, ControlCategory:
		return false
	}
	return false
}

// IsTemplate reports whether the category denotes something still generic.
func (c Category) IsTemplate() bool {
	switch c {
	case TemplateTypeCategory, TemplateFunctionCategory:
		return true
	case TypeCategory, FunctionCategory, MethodCategory, VariableCategory, ControlCategory:
		return false
	}
	return false
}

// Genus refines the type categories into the aggregate constructs.
type Genus int

const (
	GenusNone Genus = iota
	GenusClass
	GenusTrait
	GenusRecord
	GenusComponent
)

func (g Genus) String() string {
	switch g {
	case GenusClass:
		return "class"
	case GenusTrait:
		return "trait"
	case GenusRecord:
		return "record"
	case GenusComponent:
		return "component"
	}
	return "none"
}

type AccessModifier int

const (
	Public AccessModifier = iota
	Protected
	Private
)

func (a AccessModifier) String() string {
	switch a {
	case Protected:
		return "protected"
	case Private:
		return "private"
	}
	return "public"
}

func ParseAccessModifier(s string) (AccessModifier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "public":
		return Public, true
	case "protected":
		return Protected, true
	case "private":
		return Private, true
	}
	return Public, false
}

// Symbol is a named entity. Its name and category never change once created;
// its declared type may be filled in once, later.
type Symbol struct {
	Name     string
	Category Category
	Genus    Genus
	Access   AccessModifier

	IsOverride   bool
	IsAbstract   bool
	IsPure       bool
	IsOperator   bool
	IsConceptual bool // a type parameter such as T, only valid inside its generic declaration

	Location token.Token

	module       string
	declaredType *Symbol
	enclosing    *Scope
	members      *Scope

	superAggregate *Symbol
	traits         []*Symbol

	params     []*Symbol
	promotions []*Symbol

	typeParameters []*Symbol
	dependents     []*Symbol

	genericType   *Symbol
	typeArguments []*Symbol
	substituted   bool
}

// Module returns the name of the module the symbol was defined in.
func (s *Symbol) Module() string {
	return s.module
}

// SetModule fixes the module of a symbol created outside any scope.
func (s *Symbol) SetModule(module string) {
	s.module = module
}

// FullyQualifiedName is module::name; conceptual parameters are qualified by
// the declaration that introduces them so that T of one generic never
// equals T of another.
func (s *Symbol) FullyQualifiedName() string {
	if s.IsConceptual && s.enclosing != nil && s.enclosing.owner != nil {
		return s.enclosing.owner.FullyQualifiedName() + config.ModuleSeparator + s.Name
	}
	if s.module == "" || IsQualifiedName(s.Name) {
		return s.Name
	}
	return MakeFullyQualifiedName(s.module, s.Name)
}

// FriendlyName renders parameterized symbols as Name<Arg, ...> for messages.
func (s *Symbol) FriendlyName() string {
	if s.genericType == nil {
		if len(s.typeParameters) == 0 {
			return s.Name
		}
		return s.Name + "<" + friendlyList(s.typeParameters) + ">"
	}
	return s.genericType.Name + "<" + friendlyList(s.typeArguments) + ">"
}

func friendlyList(syms []*Symbol) string {
	names := make([]string, len(syms))
	for i, a := range syms {
		names[i] = a.FriendlyName()
	}
	return strings.Join(names, ", ")
}

func (s *Symbol) String() string {
	switch s.Category {
	case MethodCategory, FunctionCategory, TemplateFunctionCategory:
		var b strings.Builder
		if rt, ok := s.DeclaredType(); ok {
			b.WriteString(rt.FriendlyName())
			b.WriteString(" <- ")
		}
		if s.enclosing != nil && s.enclosing.owner != nil && s.Category == MethodCategory {
			b.WriteString(s.enclosing.owner.FriendlyName())
			b.WriteString(".")
		}
		b.WriteString(s.FriendlyName())
		b.WriteString("(")
		for i, p := range s.params {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Name)
			if t, ok := p.DeclaredType(); ok {
				b.WriteString(" as ")
				b.WriteString(t.FriendlyName())
			}
		}
		b.WriteString(")")
		return b.String()
	case VariableCategory:
		if t, ok := s.DeclaredType(); ok {
			return s.Name + " as " + t.FriendlyName()
		}
		return s.Name + " as ?"
	case TypeCategory, TemplateTypeCategory, ControlCategory:
		return s.FriendlyName()
	}
	return s.Name
}

// DeclaredType is the type of a variable, the return type of a method or
// function, or absent when not yet inferred.
func (s *Symbol) DeclaredType() (*Symbol, bool) {
	return s.declaredType, s.declaredType != nil
}

// SetDeclaredType records the declared type. It may be set once; setting the
// same type again is a no-op, a different type is an error.
func (s *Symbol) SetDeclaredType(t *Symbol) error {
	if t == nil {
		return fmt.Errorf("symbols: nil declared type for %s", s.Name)
	}
	if s.declaredType != nil && s.declaredType != t {
		return fmt.Errorf("symbols: declared type of %s already resolved to %s", s.Name, s.declaredType.FriendlyName())
	}
	s.declaredType = t
	return nil
}

// Enclosing is the scope the symbol was defined in.
func (s *Symbol) Enclosing() (*Scope, bool) {
	return s.enclosing, s.enclosing != nil
}

// Members is the scope a scoped symbol (aggregate, function, method) owns.
func (s *Symbol) Members() (*Scope, bool) {
	return s.members, s.members != nil
}

func (s *Symbol) IsAggregate() bool {
	return s.Genus != GenusNone && s.Category.IsTypeLike()
}

func (s *Symbol) IsTrait() bool {
	return s.Genus == GenusTrait
}

// SuperAggregate returns the single super type of an aggregate.
func (s *Symbol) SuperAggregate() (*Symbol, bool) {
	return s.superAggregate, s.superAggregate != nil
}

// Traits returns the directly implemented traits in declaration order.
func (s *Symbol) Traits() []*Symbol {
	out := make([]*Symbol, len(s.traits))
	copy(out, s.traits)
	return out
}

// Params returns the call parameters of a method or function.
func (s *Symbol) Params() []*Symbol {
	out := make([]*Symbol, len(s.params))
	copy(out, s.params)
	return out
}

// ParamTypes returns the declared parameter types; absent types are nil.
func (s *Symbol) ParamTypes() []*Symbol {
	out := make([]*Symbol, len(s.params))
	for i, p := range s.params {
		out[i] = p.declaredType
	}
	return out
}

// AddParam appends a call parameter and defines it in the member scope.
func (s *Symbol) AddParam(param *Symbol) error {
	if s.members != nil {
		if err := s.members.Define(param); err != nil {
			return err
		}
	}
	s.params = append(s.params, param)
	return nil
}

// AddPromotion registers a single-step conversion from s to target, used
// when scoring call arguments that are neither the same type nor a subtype.
func (s *Symbol) AddPromotion(target *Symbol) {
	for _, p := range s.promotions {
		if p == target {
			return
		}
	}
	s.promotions = append(s.promotions, target)
}

// CanPromoteTo reports whether a single registered conversion reaches target.
func (s *Symbol) CanPromoteTo(target *Symbol) bool {
	for _, p := range s.promotions {
		if p.IsExactSameType(target) {
			return true
		}
	}
	return false
}

// TypeParameters returns the conceptual parameters of a generic declaration.
func (s *Symbol) TypeParameters() []*Symbol {
	out := make([]*Symbol, len(s.typeParameters))
	copy(out, s.typeParameters)
	return out
}

// AddTypeParameter declares a conceptual parameter inside the generic's own
// scope, so it is not visible from anywhere else.
func (s *Symbol) AddTypeParameter(param *Symbol) error {
	param.IsConceptual = true
	if s.members != nil {
		if err := s.members.Define(param); err != nil {
			return err
		}
	}
	s.typeParameters = append(s.typeParameters, param)
	return nil
}

// Dependents are parameterized generic references used inside a generic
// declaration; they are instantiated whenever the declaration is.
func (s *Symbol) Dependents() []*Symbol {
	out := make([]*Symbol, len(s.dependents))
	copy(out, s.dependents)
	return out
}

func (s *Symbol) AddDependent(dep *Symbol) {
	for _, d := range s.dependents {
		if d == dep {
			return
		}
	}
	s.dependents = append(s.dependents, dep)
}

// GenericType is the declaration a parameterized symbol was produced from.
func (s *Symbol) GenericType() (*Symbol, bool) {
	return s.genericType, s.genericType != nil
}

// TypeArguments are the ordered arguments of a parameterized symbol.
func (s *Symbol) TypeArguments() []*Symbol {
	out := make([]*Symbol, len(s.typeArguments))
	copy(out, s.typeArguments)
	return out
}

func (s *Symbol) IsGenericDeclaration() bool {
	return s.genericType == nil && len(s.typeParameters) > 0
}

func (s *Symbol) IsParameterized() bool {
	return s.genericType != nil
}

// IsGenericInNature reports whether the symbol still has conceptual positions
// that can be parameterized further.
func (s *Symbol) IsGenericInNature() bool {
	if s.IsGenericDeclaration() {
		return true
	}
	for _, a := range s.typeArguments {
		if a.IsConceptual || a.IsGenericInNature() {
			return true
		}
	}
	return false
}

func (s *Symbol) IsSubstituted() bool {
	return s.substituted
}

// MarkSubstituted records that the members of a parameterized symbol have
// been (or are being) populated. It returns false if it was already marked.
func (s *Symbol) MarkSubstituted() bool {
	if s.substituted {
		return false
	}
	s.substituted = true
	return true
}

// IsExactSameType compares type identity: same category and fully
// qualified name.
func (s *Symbol) IsExactSameType(other *Symbol) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return s.Category == other.Category && s.FullyQualifiedName() == other.FullyQualifiedName()
}

// IsExactSignatureMatch compares parameter types only: same arity and each
// parameter of exactly the same type.
func (s *Symbol) IsExactSignatureMatch(other *Symbol) bool {
	if len(s.params) != len(other.params) {
		return false
	}
	for i, p := range s.params {
		if !p.declaredType.IsExactSameType(other.params[i].declaredType) {
			return false
		}
	}
	return true
}

func IsQualifiedName(name string) bool {
	return strings.Contains(name, config.ModuleSeparator)
}

func MakeFullyQualifiedName(module, name string) string {
	return module + config.ModuleSeparator + name
}

// SplitQualifiedName separates module::name; unqualified names have no module.
func SplitQualifiedName(name string) (module, unqualified string) {
	idx := strings.Index(name, config.ModuleSeparator)
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+len(config.ModuleSeparator):]
}
