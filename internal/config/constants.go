package config

import "strings"

// SourceFileExtensions are the recognized declaration unit extensions.
var SourceFileExtensions = []string{".decl.yaml", ".decl.yml", ".yaml", ".yml"}

// SettingsFileName is looked up next to the declaration units when no
// explicit --config is given.
const SettingsFileName = "symres.yaml"

// ModuleSeparator joins a module name and a symbol name.
const ModuleSeparator = "::"

// ImplicitModuleName is the built-in module consulted for unqualified names
// that no lexical scope resolves.
const ImplicitModuleName = "lang"

// Method matching weights. A weight of 0 is an exact parameter match.
const (
	ExactWeight     = 0.0
	HierarchyHop    = 0.05
	CoercionWeight  = 0.5
	NotAssignable   = -1000000.0
	WeightScale     = 10.0
	MaxMatchQuality = 100.0
)

// CanonicalPrefix starts every parameterized symbol's internal name.
const CanonicalPrefix = "_"

// DefaultTieTolerance is the distance under which two match qualities are
// treated as equal.
const DefaultTieTolerance = 0.001

// DefaultWorkers bounds the number of translation units processed at once.
const DefaultWorkers = 4

// HasSourceExt reports whether path carries a declaration unit extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// TrimSourceExt strips the longest matching declaration unit extension.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
