package mcp

import (
	"context"

	"github.com/ludo-technologies/gocoupling/domain"
	"github.com/ludo-technologies/gocoupling/internal/config"
	"github.com/ludo-technologies/gocoupling/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader domain.FileReader
	config     *config.Config
	configPath string
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Dependencies{
		fileReader: service.NewFileReader(),
		config:     cfg,
		configPath: configPath,
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// Analyze runs the full coupling pipeline over paths using this
// Dependencies' loaded configuration for include/exclude patterns, job
// count, and git volatility settings.
func (d *Dependencies) Analyze(ctx context.Context, paths []string) (*domain.CouplingResponse, error) {
	svc := service.NewCouplingService(d.fileReader, service.NewNoOpProgressReporter())
	return svc.Analyze(ctx, domain.CouplingRequest{
		Paths:           paths,
		Recursive:       d.config.Analysis.Recursive,
		IncludePatterns: d.config.Analysis.IncludePatterns,
		ExcludePatterns: d.config.Analysis.ExcludePatterns,
		Jobs:            d.config.Analysis.ResolvedJobs(),
		GitMonths:       d.config.Git.Months,
		NoGit:           d.config.Git.NoGit,
	})
}
