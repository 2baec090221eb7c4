package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Default thresholds. These are the config-file defaults and also the
// effective CLI default when no flag and no config file is given. They
// differ from domain.DefaultIssueThresholds (20/30), the bare engine default
// used when a request carries no thresholds at all.
const (
	DefaultMaxDependencies = 15
	DefaultMaxDependents   = 20
)

// Config is the root of a resolved .coupling.toml / coupling.toml file.
type Config struct {
	Analysis   AnalysisConfig   `mapstructure:"analysis" yaml:"analysis"`
	Volatility VolatilityConfig `mapstructure:"volatility" yaml:"volatility"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds" yaml:"thresholds"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Git        GitConfig        `mapstructure:"git" yaml:"git"`
}

// AnalysisConfig controls source discovery.
type AnalysisConfig struct {
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive"`
	FollowSymlinks  bool     `mapstructure:"follow_symlinks" yaml:"follow_symlinks"`
	// Jobs is the worker-pool size for parallel extraction. 0 means use
	// runtime.NumCPU().
	Jobs int `mapstructure:"jobs" yaml:"jobs"`
}

// VolatilityConfig holds the [volatility] glob lists read from the config
// file. The analysis pipeline does not turn them into a
// domain.VolatilityOverrides: service.CouplingServiceImpl passes nil
// overrides to aggregator.FoldVolatility, so these lists do not change the
// computed volatility.
type VolatilityConfig struct {
	High   []string `mapstructure:"high" yaml:"high"`
	Medium []string `mapstructure:"medium" yaml:"medium"`
	Low    []string `mapstructure:"low" yaml:"low"`
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`
}

// ThresholdsConfig holds the two knobs that the original CLI also exposes
// directly (--max-deps, --max-dependents); everything else in
// domain.IssueThresholds keeps its library default.
type ThresholdsConfig struct {
	MaxDependencies int `mapstructure:"max_dependencies" yaml:"max_dependencies"`
	MaxDependents   int `mapstructure:"max_dependents" yaml:"max_dependents"`
}

// OutputConfig holds default report formatting options.
type OutputConfig struct {
	Format    string `mapstructure:"format" yaml:"format"`
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// GitConfig holds the volatility git-log lookback window.
type GitConfig struct {
	Months int  `mapstructure:"months" yaml:"months"`
	NoGit  bool `mapstructure:"no_git" yaml:"no_git"`
}

// DefaultConfig returns the configuration used when no config file is
// present and no CLI flags override it.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.rs"},
			ExcludePatterns: []string{"**/target/**", "**/.git/**"},
			Recursive:       true,
			FollowSymlinks:  false,
			Jobs:            0,
		},
		Volatility: VolatilityConfig{
			High:   []string{},
			Medium: []string{},
			Low:    []string{},
			Ignore: []string{},
		},
		Thresholds: ThresholdsConfig{
			MaxDependencies: DefaultMaxDependencies,
			MaxDependents:   DefaultMaxDependents,
		},
		Output: OutputConfig{
			Format:    "text",
			Directory: "",
		},
		Git: GitConfig{
			Months: 6,
			NoGit:  false,
		},
	}
}

// ResolvedJobs returns the effective worker count, defaulting to
// runtime.NumCPU() when unset.
func (c *AnalysisConfig) ResolvedJobs() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return runtime.NumCPU()
}

// LoadConfig loads configuration from file, or returns DefaultConfig if
// configPath is empty and none is discovered.
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration starting the search from
// targetPath when configPath is not explicitly given.
func LoadConfigWithTarget(configPath, targetPath string) (*Config, error) {
	loader := NewTomlConfigLoader()

	resolved, err := loader.ResolveConfigPath(configPath, targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configuration: %w", err)
	}

	var cfg *Config
	if resolved == "" {
		cfg = DefaultConfig()
	} else {
		tomlCfg, err := loader.LoadConfig(resolved)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = CouplingTomlConfigToConfig(tomlCfg)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides lets a handful of GOCOUPLING_* environment variables
// override the file/default config, taking precedence below explicit CLI
// flags but above coupling.toml. CI and containerized runs set these instead
// of mounting a config file.
func applyEnvOverrides(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix("GOCOUPLING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.IsSet("git.months") {
		cfg.Git.Months = v.GetInt("git.months")
	}
	if v.IsSet("git.no_git") {
		cfg.Git.NoGit = v.GetBool("git.no_git")
	}
	if v.IsSet("thresholds.max_dependencies") {
		cfg.Thresholds.MaxDependencies = v.GetInt("thresholds.max_dependencies")
	}
	if v.IsSet("thresholds.max_dependents") {
		cfg.Thresholds.MaxDependents = v.GetInt("thresholds.max_dependents")
	}
	if v.IsSet("output.format") {
		cfg.Output.Format = v.GetString("output.format")
	}
	if v.IsSet("analysis.jobs") {
		cfg.Analysis.Jobs = v.GetInt("analysis.jobs")
	}
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}
	if c.Thresholds.MaxDependencies < 1 {
		return fmt.Errorf("thresholds.max_dependencies must be >= 1, got %d", c.Thresholds.MaxDependencies)
	}
	if c.Thresholds.MaxDependents < 1 {
		return fmt.Errorf("thresholds.max_dependents must be >= 1, got %d", c.Thresholds.MaxDependents)
	}

	validFormats := map[string]bool{
		"text": true, "json": true, "yaml": true, "markdown": true,
		"ai": true, "dot": true, "html": true,
	}
	if c.Output.Format != "" && !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format %q, must be one of: text, json, yaml, markdown, ai, dot, html", c.Output.Format)
	}

	if c.Git.Months < 0 {
		return fmt.Errorf("git.months must be >= 0, got %d", c.Git.Months)
	}

	return nil
}

// SaveConfig writes cfg to path as TOML, creating parent directories.
func SaveConfig(cfg *Config, path string) error {
	tomlCfg := ConfigToCouplingTomlConfig(cfg)

	data, err := toml.Marshal(tomlCfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}
