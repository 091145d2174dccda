package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettings(t *testing.T) {
	s, err := Parse([]byte("strict: true\ntie_tolerance: 0.01\nworkers: 2\n"))
	require.NoError(t, err)
	assert.True(t, s.Strict)
	assert.Equal(t, 0.01, s.TieTolerance)
	assert.Equal(t, 2, s.Workers)
	assert.Equal(t, PolicyError, s.AccessModifierPolicy, "unset fields keep their defaults")
	assert.Equal(t, []string{ImplicitModuleName}, s.ImplicitModules)
}

func TestParseSettingsRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"policy", "access_modifier_policy: maybe\n"},
		{"tolerance", "tie_tolerance: 0\n"},
		{"workers", "workers: 0\n"},
		{"syntax", "workers: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), SettingsFileName))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("access_modifier_policy: warning\n"), 0o644))
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, PolicyWarning, s.AccessModifierPolicy)
}

func TestSourceExtensions(t *testing.T) {
	assert.True(t, HasSourceExt("shapes.decl.yaml"))
	assert.False(t, HasSourceExt("shapes.go"))
	assert.Equal(t, "shapes", TrimSourceExt("shapes.decl.yaml"))
	assert.Equal(t, "shapes", TrimSourceExt("shapes.yml"))
}
