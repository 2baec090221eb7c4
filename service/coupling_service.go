package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/ludo-technologies/gocoupling/domain"
	"github.com/ludo-technologies/gocoupling/internal/aggregator"
	"github.com/ludo-technologies/gocoupling/internal/classify"
	"github.com/ludo-technologies/gocoupling/internal/version"
	"github.com/ludo-technologies/gocoupling/internal/volatility"
	"github.com/ludo-technologies/gocoupling/internal/workspace"
)

// CouplingServiceImpl implements domain.CouplingService: it resolves the
// requested paths to files, extracts and aggregates them, folds volatility,
// classifies the result, and returns the response.
type CouplingServiceImpl struct {
	fileReader       domain.FileReader
	progressReporter domain.ProgressReporter
}

// NewCouplingService creates a CouplingServiceImpl.
func NewCouplingService(fileReader domain.FileReader, progressReporter domain.ProgressReporter) *CouplingServiceImpl {
	if progressReporter == nil {
		progressReporter = NewNoOpProgressReporter()
	}
	return &CouplingServiceImpl{fileReader: fileReader, progressReporter: progressReporter}
}

// Analyze runs the full discover -> extract -> aggregate -> classify pipeline.
func (s *CouplingServiceImpl) Analyze(ctx context.Context, req domain.CouplingRequest) (*domain.CouplingResponse, error) {
	files, err := s.fileReader.CollectRustFiles(req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, domain.NewAnalysisError("failed to collect source files", err)
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no Rust source files found under the given paths", nil)
	}

	root := commonRoot(req.Paths)
	manifest, err := workspace.Load(root)
	if err != nil {
		manifest = nil
	}

	var warnings []string
	s.progressReporter.StartProgress(len(files))

	readFile := func(path string) ([]byte, error) {
		return os.ReadFile(path)
	}

	jobs := req.Jobs
	if jobs < 1 {
		jobs = 1
	}

	processed := 0
	modules := make(map[string]*domain.Module)
	results := aggregator.ExtractParallel(ctx, readFile, files, jobs, func(r aggregator.ExtractResult) {
		s.progressReporter.UpdateProgress(r.Path, processed, len(files))
		processed++
	})
	s.progressReporter.FinishProgress()

	for _, r := range results {
		if r.Err != nil {
			warnings = append(warnings, "skipped "+r.Path+": "+r.Err.Error())
			continue
		}
		modules[r.Module.Name] = r.Module
	}

	agg := aggregator.New(manifest)
	metrics := agg.Merge(modules)

	if !req.NoGit {
		gitReader := volatility.NewGitLogReader(root)
		if volatility.IsGitRepository(ctx, root) {
			counts, err := gitReader.CommitCounts(ctx, req.GitMonths)
			if err == nil {
				metrics.CommitCounts = counts
			}
		}
	}
	aggregator.FoldVolatility(metrics, nil)

	cycles := aggregator.DetectCycles(metrics)

	thresholds := domain.DefaultIssueThresholds()
	if req.Thresholds != nil {
		thresholds = *req.Thresholds
	}
	report := classify.New(thresholds).Classify(metrics, cycles)

	cycleSummary := domain.CircularDependencySummary{
		CycleCount: len(cycles),
		Cycles:     cycles,
	}
	seenModules := make(map[string]bool)
	for _, cycle := range cycles {
		for _, m := range cycle {
			if !seenModules[m] {
				seenModules[m] = true
				cycleSummary.ModulesInCycles = append(cycleSummary.ModulesInCycles, m)
			}
		}
	}

	return &domain.CouplingResponse{
		Metrics:     metrics,
		Report:      report,
		Cycles:      cycleSummary,
		GeneratedAt: nowFormatted(),
		Version:     version.Version,
		Warnings:    warnings,
	}, nil
}

func commonRoot(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	abs, err := filepath.Abs(paths[0])
	if err != nil {
		return paths[0]
	}
	info, err := os.Stat(abs)
	if err == nil && !info.IsDir() {
		return filepath.Dir(abs)
	}
	return abs
}

func nowFormatted() string {
	return time.Now().UTC().Format(time.RFC3339)
}
