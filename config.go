package goconflict

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the file form of the session options.
//
//	configuration: runtimeClasspath
//	failOnVersionConflict: true
//	autoUpgradeCapabilities: true
//	selectHighestCapability: false
//	maxRestarts: 16
//	replacements:
//	  org:old: org:new
type Config struct {
	Configuration           string            `yaml:"configuration,omitempty"`
	FailOnVersionConflict   bool              `yaml:"failOnVersionConflict,omitempty"`
	AutoUpgradeCapabilities bool              `yaml:"autoUpgradeCapabilities,omitempty"`
	SelectHighestCapability bool              `yaml:"selectHighestCapability,omitempty"`
	MaxRestarts             int               `yaml:"maxRestarts,omitempty"`
	Replacements            map[string]string `yaml:"replacements,omitempty"`
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig parses YAML configuration. Unknown keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var c Config
	if err := yaml.UnmarshalWithOptions(data, &c, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.MaxRestarts < 0 {
		return nil, fmt.Errorf("%w: maxRestarts must not be negative", ErrInvalidConfig)
	}
	return &c, nil
}

// Options converts the configuration to session options. Unset fields leave
// the session defaults in place.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Configuration != "" {
		opts = append(opts, WithConfigurationName(c.Configuration))
	}
	if c.FailOnVersionConflict {
		opts = append(opts, WithFailOnVersionConflict(true))
	}
	if c.AutoUpgradeCapabilities {
		opts = append(opts, WithAutoUpgradeCapabilities(true))
	}
	if c.SelectHighestCapability {
		opts = append(opts, WithSelectHighestCapability(true))
	}
	if c.MaxRestarts > 0 {
		opts = append(opts, WithMaxRestarts(c.MaxRestarts))
	}
	if len(c.Replacements) > 0 {
		opts = append(opts, WithReplacements(c.Replacements))
	}
	return opts
}
