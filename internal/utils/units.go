package utils

import (
	"path/filepath"

	"github.com/funvibe/symres/internal/config"
)

// IncludeDir places an include entry of a settings file. Relative entries
// are taken from the directory holding the settings; absolute ones and
// entries read without a directory are only cleaned.
func IncludeDir(settingsDir, include string) string {
	if filepath.IsAbs(include) || settingsDir == "" || settingsDir == "." {
		return filepath.Clean(include)
	}
	return filepath.Join(settingsDir, include)
}

// UnitModuleName is the module a unit belongs to when it does not name one:
// its file name without the declaration extension.
func UnitModuleName(file string) string {
	return config.TrimSourceExt(filepath.Base(file))
}

// UnitDir is the directory of a unit file, or path itself when it is a
// directory of units.
func UnitDir(path string) string {
	if config.HasSourceExt(path) {
		return filepath.Dir(path)
	}
	return path
}
