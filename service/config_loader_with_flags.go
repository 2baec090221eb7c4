package service

import (
	"github.com/ludo-technologies/gocoupling/domain"
	"github.com/ludo-technologies/gocoupling/internal/config"
)

// ConfigurationLoaderWithFlags wraps configuration loading with explicit flag tracking
type ConfigurationLoaderWithFlags struct {
	loader      *ConfigurationLoaderImpl
	flagTracker *config.FlagTracker
}

// NewConfigurationLoaderWithFlags creates a new configuration loader that tracks explicit flags
func NewConfigurationLoaderWithFlags(explicitFlags map[string]bool) *ConfigurationLoaderWithFlags {
	return &ConfigurationLoaderWithFlags{
		loader:      NewConfigurationLoader(),
		flagTracker: config.NewFlagTrackerWithFlags(explicitFlags),
	}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderWithFlags) LoadConfig(path string) (*domain.CouplingRequest, error) {
	return c.loader.LoadConfig(path)
}

// LoadDefaultConfig loads the default configuration
func (c *ConfigurationLoaderWithFlags) LoadDefaultConfig() *domain.CouplingRequest {
	return c.loader.LoadDefaultConfig()
}

// MergeConfig merges CLI flags with configuration file, respecting explicit flags
func (c *ConfigurationLoaderWithFlags) MergeConfig(base *domain.CouplingRequest, override *domain.CouplingRequest) *domain.CouplingRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	if override.OutputFormat != domain.OutputFormatText {
		merged.OutputFormat = override.OutputFormat
	} else if c.flagTracker.WasSet("html") || c.flagTracker.WasSet("json") ||
		c.flagTracker.WasSet("yaml") || c.flagTracker.WasSet("markdown") ||
		c.flagTracker.WasSet("ai") || c.flagTracker.WasSet("dot") {
		merged.OutputFormat = override.OutputFormat
	}

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}

	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}
	merged.NoOpen = override.NoOpen

	merged.Summary = c.flagTracker.MergeBool(merged.Summary, override.Summary, "summary")
	merged.AI = c.flagTracker.MergeBool(merged.AI, override.AI, "ai")
	merged.NoGit = c.flagTracker.MergeBool(merged.NoGit, override.NoGit, "no-git")
	merged.GitMonths = c.flagTracker.MergeInt(merged.GitMonths, override.GitMonths, "git-months")
	merged.Jobs = c.flagTracker.MergeInt(merged.Jobs, override.Jobs, "jobs")

	if override.ConfigFile != "" {
		merged.ConfigFile = override.ConfigFile
	}

	merged.Recursive = c.flagTracker.MergeBool(merged.Recursive, override.Recursive, "recursive")

	merged.IncludePatterns = c.flagTracker.MergeStringSlice(merged.IncludePatterns, override.IncludePatterns, "include")
	merged.ExcludePatterns = c.flagTracker.MergeStringSlice(merged.ExcludePatterns, override.ExcludePatterns, "exclude")

	if override.Thresholds != nil && (c.flagTracker.WasSet("max-deps") || c.flagTracker.WasSet("max-dependents")) {
		t := domain.DefaultIssueThresholds()
		if merged.Thresholds != nil {
			t = *merged.Thresholds
		}
		if c.flagTracker.WasSet("max-deps") {
			t.MaxDependencies = override.Thresholds.MaxDependencies
		}
		if c.flagTracker.WasSet("max-dependents") {
			t.MaxDependents = override.Thresholds.MaxDependents
		}
		merged.Thresholds = &t
	}

	merged.Web = c.flagTracker.MergeBool(merged.Web, override.Web, "web")
	merged.Port = c.flagTracker.MergeInt(merged.Port, override.Port, "port")

	return &merged
}

// ValidateConfig validates a configuration request
func (c *ConfigurationLoaderWithFlags) ValidateConfig(req *domain.CouplingRequest) error {
	return c.loader.ValidateConfig(req)
}

// GetDefaultThresholds returns the default coupling thresholds
func (c *ConfigurationLoaderWithFlags) GetDefaultThresholds() (maxDependencies, maxDependents int) {
	return c.loader.GetDefaultThresholds()
}

// CreateConfigTemplate creates a template configuration file
func (c *ConfigurationLoaderWithFlags) CreateConfigTemplate(path string) error {
	return c.loader.CreateConfigTemplate(path)
}

// FindDefaultConfigFile looks for .coupling.toml / coupling.toml in the current directory
func (c *ConfigurationLoaderWithFlags) FindDefaultConfigFile() string {
	return c.loader.FindDefaultConfigFile()
}
