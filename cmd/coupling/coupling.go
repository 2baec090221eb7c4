package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/gocoupling/app"
	"github.com/ludo-technologies/gocoupling/domain"
	"github.com/ludo-technologies/gocoupling/service"
	"github.com/spf13/cobra"
)

// CouplingCommand represents the coupling analysis command.
type CouplingCommand struct {
	json            bool
	yaml            bool
	dot             bool
	html            bool
	ai              bool
	noOpen          bool
	summary         bool
	configFile      string
	maxDependencies int
	maxDependents   int
	gitMonths       int
	noGit           bool
	jobs            int
	web             bool
	port            int
}

func NewCouplingCommand() *CouplingCommand { return &CouplingCommand{} }

func NewAnalyzeCmd() *cobra.Command {
	c := NewCouplingCommand()

	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Analyze Rust module coupling and classify its balance",
		Long: `Extract the dependency graph from Rust source, measure strength, distance,
and volatility for each module pair, and classify the result against
Khononov's well-designed/loosely-coupled taxonomy.

Examples:
  coupling analyze src/
  coupling analyze --html src/
  coupling analyze --dot src/ > coupling.dot
  coupling analyze --json src/ | jq .
  coupling analyze --web src/`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}

	cmd.Flags().BoolVar(&c.json, "json", false, "Generate JSON report file")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Generate YAML report file")
	cmd.Flags().BoolVar(&c.dot, "dot", false, "Generate DOT graph file")
	cmd.Flags().BoolVar(&c.html, "html", false, "Generate HTML report file")
	cmd.Flags().BoolVar(&c.ai, "ai", false, "Generate terse AI-oriented report file")
	cmd.Flags().BoolVar(&c.noOpen, "no-open", false, "Don't auto-open HTML in browser")
	cmd.Flags().BoolVar(&c.summary, "summary", false, "Print only the health grade and issue counts")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path (coupling.toml)")
	cmd.Flags().IntVar(&c.maxDependencies, "max-deps", 0, "Override max efferent coupling threshold")
	cmd.Flags().IntVar(&c.maxDependents, "max-dependents", 0, "Override max afferent coupling threshold")
	cmd.Flags().IntVar(&c.gitMonths, "git-months", 0, "Git history lookback window in months for volatility")
	cmd.Flags().BoolVar(&c.noGit, "no-git", false, "Skip git history volatility folding")
	cmd.Flags().IntVarP(&c.jobs, "jobs", "j", 0, "Parallel extraction worker count (0 = NumCPU)")
	cmd.Flags().BoolVar(&c.web, "web", false, "Serve the interactive graph view instead of printing a report")
	cmd.Flags().IntVar(&c.port, "port", 8787, "Port for --web")

	return cmd
}

func (c *CouplingCommand) run(cmd *cobra.Command, args []string) error {
	paths, err := expandAndValidatePaths(args)
	if err != nil {
		return err
	}

	explicit := GetExplicitFlags(cmd)

	req := domain.CouplingRequest{
		Paths:        paths,
		OutputWriter: cmd.OutOrStdout(),
		OutputFormat: domain.OutputFormatText,
		Summary:      c.summary,
		ConfigFile:   c.configFile,
		GitMonths:    c.gitMonths,
		NoGit:        c.noGit,
		Jobs:         c.jobs,
	}
	if explicit["max-deps"] || explicit["max-dependents"] {
		t := domain.DefaultIssueThresholds()
		t.MaxDependencies = c.maxDependencies
		t.MaxDependents = c.maxDependents
		req.Thresholds = &t
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if c.web {
		return c.runWeb(ctx, req)
	}

	formatCount := 0
	for _, v := range []bool{c.json, c.yaml, c.dot, c.html, c.ai} {
		if v {
			formatCount++
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("only one of --json, --yaml, --dot, --html, --ai can be specified")
	}

	useCase, err := c.createUseCase(cmd, explicit)
	if err != nil {
		return err
	}

	if formatCount == 0 {
		return useCase.Execute(ctx, req)
	}

	targetPath := getTargetPathFromArgs(args)
	switch {
	case c.json:
		req.OutputFormat = domain.OutputFormatJSON
		if req.OutputPath, err = generateOutputFilePath("coupling", "json", targetPath); err != nil {
			return err
		}
	case c.yaml:
		req.OutputFormat = domain.OutputFormatYAML
		if req.OutputPath, err = generateOutputFilePath("coupling", "yaml", targetPath); err != nil {
			return err
		}
	case c.dot:
		req.OutputFormat = domain.OutputFormatDOT
		if req.OutputPath, err = generateOutputFilePath("coupling", "dot", targetPath); err != nil {
			return err
		}
	case c.ai:
		req.OutputFormat = domain.OutputFormatAI
		if req.OutputPath, err = generateOutputFilePath("coupling", "txt", targetPath); err != nil {
			return err
		}
	case c.html:
		req.OutputFormat = domain.OutputFormatHTML
		req.NoOpen = c.noOpen
		if req.OutputPath, err = generateOutputFilePath("coupling", "html", targetPath); err != nil {
			return err
		}
	}
	return useCase.Execute(ctx, req)
}

func (c *CouplingCommand) runWeb(ctx context.Context, req domain.CouplingRequest) error {
	req.Web = true
	req.Port = c.port

	fileReader := service.NewFileReader()
	svc := service.NewCouplingService(fileReader, service.NewNoOpProgressReporter())
	explicit := map[string]bool{"web": true, "port": true}
	uc, err := app.NewCouplingUseCaseBuilder().
		WithService(svc).
		WithFileReader(fileReader).
		WithFormatter(service.NewCouplingFormatter()).
		WithConfigLoader(service.NewConfigurationLoaderWithFlags(explicit)).
		Build()
	if err != nil {
		return err
	}
	return uc.ExecuteGraph(ctx, req, func(resp *domain.CouplingResponse) error {
		return serveGraph(ctx, resp, c.port)
	})
}

func (c *CouplingCommand) createUseCase(cmd *cobra.Command, explicit map[string]bool) (*app.CouplingUseCase, error) {
	fileReader := service.NewFileReader()
	formatter := service.NewCouplingFormatter()
	progress := service.NewProgressBarReporter(cmd.ErrOrStderr(), isInteractiveEnvironment(), 40)
	svc := service.NewCouplingService(fileReader, progress)
	return app.NewCouplingUseCaseBuilder().
		WithService(svc).
		WithFileReader(fileReader).
		WithFormatter(formatter).
		WithConfigLoader(service.NewConfigurationLoaderWithFlags(explicit)).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
}

func expandAndValidatePaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		expanded, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", arg, err)
		}
		if _, err := os.Stat(expanded); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path does not exist: %s", arg)
			}
			return nil, fmt.Errorf("cannot access path %s: %w", arg, err)
		}
		paths = append(paths, expanded)
	}
	return paths, nil
}
