package service

import (
	"os"

	"github.com/ludo-technologies/gocoupling/domain"
	"github.com/ludo-technologies/gocoupling/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path.
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.CouplingRequest, error) {
	tomlLoader := config.NewTomlConfigLoader()
	resolved, err := tomlLoader.ResolveConfigPath(path, "")
	if err != nil {
		return nil, domain.NewConfigError("failed to resolve configuration file", err)
	}

	var cfg *config.Config
	if resolved == "" {
		cfg = config.DefaultConfig()
	} else {
		tomlCfg, err := tomlLoader.LoadConfig(resolved)
		if err != nil {
			return nil, domain.NewConfigError("failed to load configuration file", err)
		}
		cfg = config.CouplingTomlConfigToConfig(tomlCfg)
	}

	return c.convertToCouplingRequest(cfg), nil
}

// LoadDefaultConfig loads the default configuration, first checking for
// .coupling.toml / coupling.toml in the current directory.
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.CouplingRequest {
	configFile := c.FindDefaultConfigFile()
	if configFile != "" {
		if req, err := c.LoadConfig(configFile); err == nil {
			return req
		}
	}

	return c.convertToCouplingRequest(config.DefaultConfig())
}

// MergeConfig merges CLI flags with configuration file.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.CouplingRequest, override *domain.CouplingRequest) *domain.CouplingRequest {
	merged := *base

	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.OutputFormat != domain.OutputFormatText {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	merged.NoOpen = override.NoOpen
	merged.Summary = merged.Summary || override.Summary
	merged.AI = merged.AI || override.AI

	if override.GitMonths != 0 {
		merged.GitMonths = override.GitMonths
	}
	merged.NoGit = merged.NoGit || override.NoGit

	if override.ConfigFile != "" {
		merged.ConfigFile = override.ConfigFile
	}
	if override.Jobs != 0 {
		merged.Jobs = override.Jobs
	}
	if override.Thresholds != nil {
		merged.Thresholds = override.Thresholds
	}

	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}

	if override.Web {
		merged.Web = override.Web
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}

	return &merged
}

// convertToCouplingRequest converts an internal config to a domain request.
func (c *ConfigurationLoaderImpl) convertToCouplingRequest(cfg *config.Config) *domain.CouplingRequest {
	var outputFormat domain.OutputFormat
	switch cfg.Output.Format {
	case "json":
		outputFormat = domain.OutputFormatJSON
	case "yaml":
		outputFormat = domain.OutputFormatYAML
	case "markdown":
		outputFormat = domain.OutputFormatMarkdown
	case "ai":
		outputFormat = domain.OutputFormatAI
	case "dot":
		outputFormat = domain.OutputFormatDOT
	case "html":
		outputFormat = domain.OutputFormatHTML
	default:
		outputFormat = domain.OutputFormatText
	}

	return &domain.CouplingRequest{
		OutputFormat:    outputFormat,
		OutputWriter:    os.Stdout,
		Recursive:       cfg.Analysis.Recursive,
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
		Jobs:            cfg.Analysis.ResolvedJobs(),
		GitMonths:       cfg.Git.Months,
		NoGit:           cfg.Git.NoGit,
		Thresholds: &domain.IssueThresholds{
			MaxDependencies: cfg.Thresholds.MaxDependencies,
			MaxDependents:   cfg.Thresholds.MaxDependents,
			MaxFunctions:    domain.DefaultIssueThresholds().MaxFunctions,
			MaxTypes:        domain.DefaultIssueThresholds().MaxTypes,
			MaxImpls:        domain.DefaultIssueThresholds().MaxImpls,
		},
	}
}

// ValidateConfig validates a configuration request.
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.CouplingRequest) error {
	if req.Thresholds != nil {
		if req.Thresholds.MaxDependencies < 1 {
			return domain.NewConfigError("max dependencies threshold must be positive", nil)
		}
		if req.Thresholds.MaxDependents < 1 {
			return domain.NewConfigError("max dependents threshold must be positive", nil)
		}
	}
	if req.GitMonths < 0 {
		return domain.NewConfigError("git months lookback cannot be negative", nil)
	}
	return nil
}

// GetDefaultThresholds returns the default coupling thresholds.
func (c *ConfigurationLoaderImpl) GetDefaultThresholds() (maxDependencies, maxDependents int) {
	return config.DefaultMaxDependencies, config.DefaultMaxDependents
}

// CreateConfigTemplate creates a template configuration file.
func (c *ConfigurationLoaderImpl) CreateConfigTemplate(path string) error {
	cfg := config.DefaultConfig()
	return config.SaveConfig(cfg, path)
}

// FindDefaultConfigFile looks for TOML config files in the current directory.
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile() string {
	tomlLoader := config.NewTomlConfigLoader()
	for _, filename := range tomlLoader.GetSupportedConfigFiles() {
		if _, err := os.Stat(filename); err == nil {
			return filename
		}
	}
	return ""
}
