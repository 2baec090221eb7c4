package config

import (
	"os"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidate_RejectsEmptyIncludePatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analysis.IncludePatterns = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty include patterns")
	}
}

func TestValidate_RejectsBadThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds.MaxDependencies = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_dependencies < 1")
	}

	cfg = DefaultConfig()
	cfg.Thresholds.MaxDependents = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for max_dependents < 1")
	}
}

func TestValidate_RejectsUnknownOutputFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "protobuf"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}

func TestValidate_RejectsNegativeGitMonths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Git.Months = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative git.months")
	}
}

func TestResolvedJobs_DefaultsToNumCPU(t *testing.T) {
	a := AnalysisConfig{Jobs: 0}
	if a.ResolvedJobs() < 1 {
		t.Fatalf("expected positive resolved job count, got %d", a.ResolvedJobs())
	}
	a.Jobs = 4
	if a.ResolvedJobs() != 4 {
		t.Fatalf("expected explicit job count to pass through, got %d", a.ResolvedJobs())
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("GOCOUPLING_GIT_MONTHS", "12")
	t.Setenv("GOCOUPLING_OUTPUT_FORMAT", "json")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Git.Months != 12 {
		t.Fatalf("expected git.months overridden to 12, got %d", cfg.Git.Months)
	}
	if cfg.Output.Format != "json" {
		t.Fatalf("expected output.format overridden to json, got %s", cfg.Output.Format)
	}
}

func TestLoadConfig_NoFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	old, _ := os.Getwd()
	defer os.Chdir(old)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Thresholds.MaxDependencies != DefaultMaxDependencies {
		t.Fatalf("expected default thresholds when no config file present")
	}
}
