package mcp

import (
	"github.com/ludo-technologies/gocoupling/domain"
	"github.com/ludo-technologies/gocoupling/internal/config"
)

// NewTestDependencies builds a Dependencies with explicit, test-controlled
// fields, bypassing the config-discovery NewDependencies does.
func NewTestDependencies(fr domain.FileReader, cfg *config.Config, path string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Dependencies{
		fileReader: fr,
		config:     cfg,
		configPath: path,
	}
}
