package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/pelletier/go-toml/v2"
)

// defaultConfigTmpl contains the embedded default configuration template.
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// defaultConfigValues holds the values rendered into the default config
// template. Kept in one place so the template and DefaultConfig() can never
// drift apart.
type defaultConfigValues struct {
	MaxDependencies int
	MaxDependents   int
	GitMonths       int
}

func newDefaultConfigValues() defaultConfigValues {
	return defaultConfigValues{
		MaxDependencies: DefaultMaxDependencies,
		MaxDependents:   DefaultMaxDependents,
		GitMonths:       6,
	}
}

// GenerateDefaultConfigTOML renders the default config template.
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}

// LoadDefaultConfigFromTOML parses the embedded default config and returns
// the full Config struct, useful for verifying the template stays valid.
func LoadDefaultConfigFromTOML() (*Config, error) {
	configTOML, err := GenerateDefaultConfigTOML()
	if err != nil {
		return nil, err
	}

	var tomlCfg CouplingTomlConfig
	if err := toml.Unmarshal([]byte(configTOML), &tomlCfg); err != nil {
		return nil, err
	}

	return CouplingTomlConfigToConfig(&tomlCfg), nil
}

// LoadDefaultConfigTOMLString returns the rendered default config as a
// string (the same text `coupling init` writes via GenerateDefaultConfigTOML).
func LoadDefaultConfigTOMLString() (string, error) {
	return GenerateDefaultConfigTOML()
}
