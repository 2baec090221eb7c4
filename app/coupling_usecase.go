package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/gocoupling/domain"
	svc "github.com/ludo-technologies/gocoupling/service"
)

// CouplingUseCase orchestrates the coupling analysis workflow: load and
// merge configuration, collect source files, run the analysis service, and
// write formatted output.
type CouplingUseCase struct {
	service      domain.CouplingService
	fileReader   domain.FileReader
	formatter    domain.CouplingFormatter
	configLoader domain.CouplingConfigurationLoader
	output       domain.ReportWriter
}

// NewCouplingUseCase creates a new coupling analysis use case.
func NewCouplingUseCase(service domain.CouplingService, fileReader domain.FileReader, formatter domain.CouplingFormatter, configLoader domain.CouplingConfigurationLoader) *CouplingUseCase {
	return &CouplingUseCase{
		service:      service,
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
		output:       svc.NewFileOutputWriter(nil),
	}
}

// prepareAnalysis validates the request, merges it with any coupling.toml
// configuration, and resolves its paths to a concrete file list.
func (uc *CouplingUseCase) prepareAnalysis(req domain.CouplingRequest) (domain.CouplingRequest, error) {
	if err := uc.validateRequest(req); err != nil {
		return req, domain.NewInvalidInputError("invalid request", err)
	}

	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return req, domain.NewConfigError("failed to load configuration", err)
	}

	files, err := uc.fileReader.CollectRustFiles(finalReq.Paths, finalReq.Recursive, finalReq.IncludePatterns, finalReq.ExcludePatterns)
	if err != nil {
		return req, domain.NewFileNotFoundError("failed to collect files", err)
	}
	if len(files) == 0 {
		return req, domain.NewInvalidInputError("no Rust files found in the specified paths", nil)
	}
	finalReq.Paths = files
	return finalReq, nil
}

// Execute performs coupling analysis and writes formatted output.
func (uc *CouplingUseCase) Execute(ctx context.Context, req domain.CouplingRequest) error {
	finalReq, err := uc.prepareAnalysis(req)
	if err != nil {
		return err
	}

	response, err := uc.service.Analyze(ctx, finalReq)
	if err != nil {
		return domain.NewAnalysisError("coupling analysis failed", err)
	}

	var out io.Writer
	if finalReq.OutputPath == "" {
		out = finalReq.OutputWriter
	}
	if err := uc.output.Write(out, finalReq.OutputPath, finalReq.OutputFormat, finalReq.NoOpen, func(w io.Writer) error {
		if finalReq.Summary {
			r := response.Report
			_, err := fmt.Fprintf(w, "Grade: %s\nIssues: %d critical, %d high, %d medium, %d low\n",
				r.Grade, r.CriticalCount, r.HighCount, r.MediumCount, r.LowCount)
			return err
		}
		formatted, err := uc.formatter.Format(response, finalReq.OutputFormat)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, formatted)
		return err
	}); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// ExecuteGraph runs analysis and serves the interactive graph view instead
// of writing a formatted report, blocking until ctx is cancelled.
func (uc *CouplingUseCase) ExecuteGraph(ctx context.Context, req domain.CouplingRequest, serve func(*domain.CouplingResponse) error) error {
	finalReq, err := uc.prepareAnalysis(req)
	if err != nil {
		return err
	}

	response, err := uc.service.Analyze(ctx, finalReq)
	if err != nil {
		return domain.NewAnalysisError("coupling analysis failed", err)
	}
	return serve(response)
}

func (uc *CouplingUseCase) validateRequest(req domain.CouplingRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}
	if req.Web {
		return nil
	}
	if req.OutputWriter == nil && req.OutputPath == "" {
		return fmt.Errorf("output writer or output path is required")
	}
	return nil
}

// loadAndMergeConfig loads coupling.toml (explicit path, or discovered
// default) and merges it under the CLI-flag request, which takes precedence.
func (uc *CouplingUseCase) loadAndMergeConfig(req domain.CouplingRequest) (domain.CouplingRequest, error) {
	if uc.configLoader == nil {
		return req, nil
	}

	var configReq *domain.CouplingRequest
	var err error

	if req.ConfigFile != "" {
		configReq, err = uc.configLoader.LoadConfig(req.ConfigFile)
		if err != nil {
			return req, fmt.Errorf("failed to load config from %s: %w", req.ConfigFile, err)
		}
	} else {
		configReq = uc.configLoader.LoadDefaultConfig()
	}

	if configReq != nil {
		merged := uc.configLoader.MergeConfig(configReq, &req)
		return *merged, nil
	}
	return req, nil
}

// CouplingUseCaseBuilder provides a fluent builder for CouplingUseCase.
type CouplingUseCaseBuilder struct {
	service      domain.CouplingService
	fileReader   domain.FileReader
	formatter    domain.CouplingFormatter
	configLoader domain.CouplingConfigurationLoader
	output       domain.ReportWriter
}

func NewCouplingUseCaseBuilder() *CouplingUseCaseBuilder { return &CouplingUseCaseBuilder{} }

func (b *CouplingUseCaseBuilder) WithService(s domain.CouplingService) *CouplingUseCaseBuilder {
	b.service = s
	return b
}
func (b *CouplingUseCaseBuilder) WithFileReader(fr domain.FileReader) *CouplingUseCaseBuilder {
	b.fileReader = fr
	return b
}
func (b *CouplingUseCaseBuilder) WithFormatter(f domain.CouplingFormatter) *CouplingUseCaseBuilder {
	b.formatter = f
	return b
}
func (b *CouplingUseCaseBuilder) WithConfigLoader(cl domain.CouplingConfigurationLoader) *CouplingUseCaseBuilder {
	b.configLoader = cl
	return b
}
func (b *CouplingUseCaseBuilder) WithOutputWriter(w domain.ReportWriter) *CouplingUseCaseBuilder {
	b.output = w
	return b
}

func (b *CouplingUseCaseBuilder) Build() (*CouplingUseCase, error) {
	if b.service == nil || b.fileReader == nil || b.formatter == nil {
		return nil, fmt.Errorf("missing required dependencies")
	}
	uc := &CouplingUseCase{
		service:      b.service,
		fileReader:   b.fileReader,
		formatter:    b.formatter,
		configLoader: b.configLoader,
		output:       b.output,
	}
	if uc.output == nil {
		uc.output = svc.NewFileOutputWriter(nil)
	}
	return uc, nil
}
