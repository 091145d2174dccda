package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncludeDir(t *testing.T) {
	tests := []struct {
		dir, include, want string
	}{
		{"project", "../shared", "shared"},
		{"project", "./lib", filepath.Join("project", "lib")},
		{"project", "lib", filepath.Join("project", "lib")},
		{"", "lib/", "lib"},
		{".", "./lib", "lib"},
		{"project", "/opt/decls", "/opt/decls"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IncludeDir(tt.dir, tt.include), "%s + %s", tt.dir, tt.include)
	}
}

func TestUnitNames(t *testing.T) {
	assert.Equal(t, "shapes", UnitModuleName("/src/shapes.decl.yaml"))
	assert.Equal(t, "shapes", UnitModuleName("shapes.yml"))
	assert.Equal(t, "/src", UnitDir("/src/shapes.decl.yaml"))
	assert.Equal(t, "/src/lib", UnitDir("/src/lib"))
}
