package domain

import (
	"context"
	"io"
)

// OutputFormat selects a report serialization.
type OutputFormat int

const (
	OutputFormatText OutputFormat = iota
	OutputFormatMarkdown
	OutputFormatJSON
	OutputFormatYAML
	OutputFormatAI
	OutputFormatDOT
	OutputFormatHTML
)

func (f OutputFormat) String() string {
	switch f {
	case OutputFormatMarkdown:
		return "markdown"
	case OutputFormatJSON:
		return "json"
	case OutputFormatYAML:
		return "yaml"
	case OutputFormatAI:
		return "ai"
	case OutputFormatDOT:
		return "dot"
	case OutputFormatHTML:
		return "html"
	default:
		return "text"
	}
}

// CouplingRequest is the input to the coupling analysis service.
type CouplingRequest struct {
	Paths           []string
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
	NoOpen       bool

	Summary bool
	AI      bool

	GitMonths int
	NoGit     bool

	ConfigFile string
	Jobs       int

	Thresholds *IssueThresholds

	// Web view server options.
	Web         bool
	Port        int
	APIEndpoint string
}

// CouplingResponse is the aggregated, classified result of one analysis run.
type CouplingResponse struct {
	Metrics     *ProjectMetrics        `json:"-"`
	Report      ProjectBalanceReport   `json:"report"`
	Cycles      CircularDependencySummary `json:"cycles"`
	GeneratedAt string                 `json:"generated_at"`
	Version     string                 `json:"version"`
	Warnings    []string               `json:"warnings,omitempty"`
	Errors      []string               `json:"errors,omitempty"`
}

// CouplingService is the primary domain interface: run the full pipeline
// (discover, extract, aggregate, classify) and return the result.
type CouplingService interface {
	Analyze(ctx context.Context, req CouplingRequest) (*CouplingResponse, error)
}

// CouplingFormatter renders a CouplingResponse to one of the OutputFormats.
type CouplingFormatter interface {
	Format(resp *CouplingResponse, format OutputFormat) (string, error)
}

// CouplingConfigurationLoader loads and merges coupling.toml configuration
// with CLI-flag overrides.
type CouplingConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path.
	LoadConfig(path string) (*CouplingRequest, error)

	// LoadDefaultConfig loads the default configuration.
	LoadDefaultConfig() *CouplingRequest

	// MergeConfig merges CLI flags with configuration file, respecting
	// explicitly-set flags.
	MergeConfig(base *CouplingRequest, override *CouplingRequest) *CouplingRequest
}

// WorkspaceManifest describes an optional multi-crate workspace layout.
type WorkspaceManifest struct {
	Root    string
	Members []string
	// MemberRoots maps a member name to its source root path.
	MemberRoots map[string]string
}

// VolatilityOverrides are the compiled [volatility] config-file glob lists.
type VolatilityOverrides struct {
	HighPatterns   []string
	MediumPatterns []string
	LowPatterns    []string
	IgnorePatterns []string
}
