package config

import (
	"os"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Policy decides how a finding that is not always fatal is reported.
type Policy string

const (
	PolicyWarning Policy = "warning"
	PolicyError   Policy = "error"
)

// Settings is the symres.yaml configuration.
type Settings struct {
	// Strict upgrades missing override markers from warnings to errors.
	Strict bool `yaml:"strict"`

	// AccessModifierPolicy reports overrides that change visibility.
	AccessModifierPolicy Policy `yaml:"access_modifier_policy"`

	// TieTolerance is the quality distance treated as a tie between methods.
	TieTolerance float64 `yaml:"tie_tolerance"`

	// Workers bounds parallel processing of translation units.
	Workers int `yaml:"workers"`

	// ImplicitModules are consulted, in order, for unqualified names.
	ImplicitModules []string `yaml:"implicit_modules"`

	// Include lists further unit files or directories, relative to the
	// settings file when they start with a dot.
	Include []string `yaml:"include"`

	LogLevel string `yaml:"log_level"`
}

// Defaults returns the settings used when no configuration file exists.
func Defaults() Settings {
	return Settings{
		AccessModifierPolicy: PolicyError,
		TieTolerance:         DefaultTieTolerance,
		Workers:              DefaultWorkers,
		ImplicitModules:      []string{ImplicitModuleName},
		LogLevel:             "info",
	}
}

// Load reads settings from path. A missing file yields Defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Settings{}, errors.Errorf("reading settings %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes settings from YAML, filling unset fields with defaults.
func Parse(data []byte) (Settings, error) {
	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.Errorf("parsing settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	switch s.AccessModifierPolicy {
	case PolicyWarning, PolicyError:
	default:
		return errors.Errorf("access_modifier_policy must be %q or %q, got %q", PolicyWarning, PolicyError, s.AccessModifierPolicy)
	}
	if s.TieTolerance <= 0 {
		return errors.Errorf("tie_tolerance must be positive, got %v", s.TieTolerance)
	}
	if s.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	return nil
}
