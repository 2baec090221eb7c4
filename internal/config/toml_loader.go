package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// CouplingTomlConfig mirrors the structure of .coupling.toml / coupling.toml.
type CouplingTomlConfig struct {
	Analysis   AnalysisTomlConfig   `toml:"analysis"`
	Volatility VolatilityTomlConfig `toml:"volatility"`
	Thresholds ThresholdsTomlConfig `toml:"thresholds"`
	Output     OutputTomlConfig     `toml:"output"`
	Git        GitTomlConfig        `toml:"git"`
}

// AnalysisTomlConfig represents the [analysis] section.
type AnalysisTomlConfig struct {
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Recursive       *bool    `toml:"recursive"`
	FollowSymlinks  *bool    `toml:"follow_symlinks"`
	Jobs            *int     `toml:"jobs"`
}

// VolatilityTomlConfig represents the [volatility] section: glob overrides
// that take precedence over the git-log-derived churn bucket.
type VolatilityTomlConfig struct {
	High   []string `toml:"high"`
	Medium []string `toml:"medium"`
	Low    []string `toml:"low"`
	Ignore []string `toml:"ignore"`
}

// ThresholdsTomlConfig represents the [thresholds] section.
type ThresholdsTomlConfig struct {
	MaxDependencies *int `toml:"max_dependencies"`
	MaxDependents   *int `toml:"max_dependents"`
}

// OutputTomlConfig represents the [output] section.
type OutputTomlConfig struct {
	Format    string `toml:"format"`
	Directory string `toml:"directory"`
}

// GitTomlConfig represents the [git] section.
type GitTomlConfig struct {
	Months *int  `toml:"months"`
	NoGit  *bool `toml:"no_git"`
}

// TomlConfigLoader loads and resolves .coupling.toml / coupling.toml files.
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML config loader.
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration from the given file or directory path.
func (l *TomlConfigLoader) LoadConfig(path string) (*CouplingTomlConfig, error) {
	if path != "" {
		if info, err := os.Stat(path); err == nil {
			if !info.IsDir() {
				return l.loadFromFile(path)
			}
		} else if isLikelyConfigFilePath(path) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	}

	startDir := path
	if startDir == "" {
		startDir = "."
	}

	configPath, err := l.findConfigFile(startDir)
	if err != nil {
		return &CouplingTomlConfig{}, nil
	}
	return l.loadFromFile(configPath)
}

func (l *TomlConfigLoader) loadFromFile(filePath string) (*CouplingTomlConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var parsed CouplingTomlConfig
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// findConfigFile walks up the directory tree looking for .coupling.toml
// then coupling.toml, matching original_source/src/config.rs's
// find_config_file precedence.
func (l *TomlConfigLoader) findConfigFile(startDir string) (string, error) {
	dir, err := normalizeSearchDir(startDir)
	if err != nil {
		return "", err
	}

	for _, name := range l.GetSupportedConfigFiles() {
		current := dir
		for {
			candidate := filepath.Join(current, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}

	return "", os.ErrNotExist
}

// ResolveConfigPath resolves the effective configuration file path once so
// that every analysis phase reads the same config source.
func (l *TomlConfigLoader) ResolveConfigPath(configPath string, targetPath string) (string, error) {
	if configPath != "" {
		info, err := os.Stat(configPath)
		if err != nil {
			return "", fmt.Errorf("config file not found: %s", configPath)
		}
		if !info.IsDir() {
			return configPath, nil
		}
		found, _ := l.findConfigFile(configPath)
		return found, nil
	}

	searchPath := targetPath
	if searchPath == "" {
		searchPath = "."
	}

	found, _ := l.findConfigFile(searchPath)
	return found, nil
}

// GetSupportedConfigFiles returns the supported config file names, in order
// of precedence: .coupling.toml (dedicated, hidden) before coupling.toml.
func (l *TomlConfigLoader) GetSupportedConfigFiles() []string {
	return []string{".coupling.toml", "coupling.toml"}
}

func isLikelyConfigFilePath(path string) bool {
	base := filepath.Base(path)
	if base == ".coupling.toml" || base == "coupling.toml" {
		return true
	}
	return strings.HasSuffix(base, ".toml")
}

func normalizeSearchDir(path string) (string, error) {
	if path == "" {
		path = "."
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(absPath)
	if err == nil && !info.IsDir() {
		return filepath.Dir(absPath), nil
	}

	return absPath, nil
}

// CouplingTomlConfigToConfig merges a parsed CouplingTomlConfig onto
// DefaultConfig(), using pointer fields to distinguish "unset" from
// explicit zero values.
func CouplingTomlConfigToConfig(toml *CouplingTomlConfig) *Config {
	cfg := DefaultConfig()
	if toml == nil {
		return cfg
	}

	if len(toml.Analysis.IncludePatterns) > 0 {
		cfg.Analysis.IncludePatterns = toml.Analysis.IncludePatterns
	}
	if len(toml.Analysis.ExcludePatterns) > 0 {
		cfg.Analysis.ExcludePatterns = toml.Analysis.ExcludePatterns
	}
	if toml.Analysis.Recursive != nil {
		cfg.Analysis.Recursive = *toml.Analysis.Recursive
	}
	if toml.Analysis.FollowSymlinks != nil {
		cfg.Analysis.FollowSymlinks = *toml.Analysis.FollowSymlinks
	}
	if toml.Analysis.Jobs != nil {
		cfg.Analysis.Jobs = *toml.Analysis.Jobs
	}

	if len(toml.Volatility.High) > 0 {
		cfg.Volatility.High = toml.Volatility.High
	}
	if len(toml.Volatility.Medium) > 0 {
		cfg.Volatility.Medium = toml.Volatility.Medium
	}
	if len(toml.Volatility.Low) > 0 {
		cfg.Volatility.Low = toml.Volatility.Low
	}
	if len(toml.Volatility.Ignore) > 0 {
		cfg.Volatility.Ignore = toml.Volatility.Ignore
	}

	if toml.Thresholds.MaxDependencies != nil {
		cfg.Thresholds.MaxDependencies = *toml.Thresholds.MaxDependencies
	}
	if toml.Thresholds.MaxDependents != nil {
		cfg.Thresholds.MaxDependents = *toml.Thresholds.MaxDependents
	}

	if toml.Output.Format != "" {
		cfg.Output.Format = toml.Output.Format
	}
	if toml.Output.Directory != "" {
		cfg.Output.Directory = toml.Output.Directory
	}

	if toml.Git.Months != nil {
		cfg.Git.Months = *toml.Git.Months
	}
	if toml.Git.NoGit != nil {
		cfg.Git.NoGit = *toml.Git.NoGit
	}

	return cfg
}

// ConfigToCouplingTomlConfig converts a resolved Config back to its TOML
// serialization shape, for SaveConfig.
func ConfigToCouplingTomlConfig(cfg *Config) *CouplingTomlConfig {
	return &CouplingTomlConfig{
		Analysis: AnalysisTomlConfig{
			IncludePatterns: cfg.Analysis.IncludePatterns,
			ExcludePatterns: cfg.Analysis.ExcludePatterns,
			Recursive:       &cfg.Analysis.Recursive,
			FollowSymlinks:  &cfg.Analysis.FollowSymlinks,
			Jobs:            &cfg.Analysis.Jobs,
		},
		Volatility: VolatilityTomlConfig{
			High:   cfg.Volatility.High,
			Medium: cfg.Volatility.Medium,
			Low:    cfg.Volatility.Low,
			Ignore: cfg.Volatility.Ignore,
		},
		Thresholds: ThresholdsTomlConfig{
			MaxDependencies: &cfg.Thresholds.MaxDependencies,
			MaxDependents:   &cfg.Thresholds.MaxDependents,
		},
		Output: OutputTomlConfig{
			Format:    cfg.Output.Format,
			Directory: cfg.Output.Directory,
		},
		Git: GitTomlConfig{
			Months: &cfg.Git.Months,
			NoGit:  &cfg.Git.NoGit,
		},
	}
}
