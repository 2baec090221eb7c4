package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ludo-technologies/gocoupling/domain"
	"github.com/ludo-technologies/gocoupling/internal/config"
	"github.com/ludo-technologies/gocoupling/internal/queries"
	"github.com/ludo-technologies/gocoupling/service"
	"github.com/spf13/cobra"
)

// runAnalysis runs the full pipeline for the query subcommands (hotspots,
// impact, trace), which all need a classified project but don't print the
// standard report.
func runAnalysis(ctx context.Context, configFile string, paths []string) (*domain.CouplingResponse, error) {
	cfg, err := config.LoadConfigWithTarget(configFile, paths[0])
	if err != nil {
		return nil, err
	}

	fileReader := service.NewFileReader()
	svc := service.NewCouplingService(fileReader, service.NewNoOpProgressReporter())
	return svc.Analyze(ctx, domain.CouplingRequest{
		Paths:           paths,
		Recursive:       cfg.Analysis.Recursive,
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
		Jobs:            cfg.Analysis.ResolvedJobs(),
		GitMonths:       cfg.Git.Months,
		NoGit:           cfg.Git.NoGit,
	})
}

func NewHotspotsCmd() *cobra.Command {
	var configFile string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "hotspots [paths...]",
		Short: "Rank modules by refactoring priority",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandAndValidatePaths(args)
			if err != nil {
				return err
			}
			resp, err := runAnalysis(cmd.Context(), configFile, paths)
			if err != nil {
				return err
			}
			hotspots := queries.New(resp.Metrics, resp.Report).Hotspots(limit)

			if asJSON {
				data, err := json.MarshalIndent(hotspots, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			for i, h := range hotspots {
				cycleMark := ""
				if h.InCycle {
					cycleMark = " [cycle]"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %-30s score=%.1f issues=%d edges=%d%s\n",
					i+1, h.Module, h.Score, h.IssueCount, h.EdgeCount, cycleMark)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of modules to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func NewImpactCmd() *cobra.Command {
	var configFile string
	var module string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "impact [paths...]",
		Short: "Show the blast radius of changing one module",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if module == "" {
				return fmt.Errorf("--module is required")
			}
			paths, err := expandAndValidatePaths(args)
			if err != nil {
				return err
			}
			resp, err := runAnalysis(cmd.Context(), configFile, paths)
			if err != nil {
				return err
			}
			result, err := queries.New(resp.Metrics, resp.Report).Impact(module)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Impact of changing %s: band=%s risk=%d in_cycle=%v\n", result.Module, result.Band, result.RiskScore, result.InCycle)
			fmt.Fprintf(out, "Direct dependents (%d):\n", len(result.DirectIncoming))
			for _, d := range result.DirectIncoming {
				fmt.Fprintf(out, "  - %s (x%d)\n", d.Module, d.Count)
			}
			fmt.Fprintf(out, "Direct dependencies (%d):\n", len(result.DirectOutgoing))
			for _, d := range result.DirectOutgoing {
				fmt.Fprintf(out, "  - %s (x%d)\n", d.Module, d.Count)
			}
			if len(result.SecondOrder) > 0 {
				fmt.Fprintf(out, "Second-order dependents (%d): %v\n", len(result.SecondOrder), result.SecondOrder)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVarP(&module, "module", "m", "", "Module to analyze (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func NewTraceCmd() *cobra.Command {
	var configFile string
	var identifier string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "trace [paths...]",
		Short: "Trace an item's coupling to other functions and types",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if identifier == "" {
				return fmt.Errorf("--item is required")
			}
			paths, err := expandAndValidatePaths(args)
			if err != nil {
				return err
			}
			resp, err := runAnalysis(cmd.Context(), configFile, paths)
			if err != nil {
				return err
			}
			result, err := queries.New(resp.Metrics, resp.Report).Trace(identifier)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Trace of %s (match=%s)\n", result.Identifier, result.MatchTier)
			fmt.Fprintf(out, "Incoming (%d):\n", len(result.Incoming))
			for _, e := range result.Incoming {
				fmt.Fprintf(out, "  %s -[%s]-> %s\n", e.Counterpart, e.DepType, result.Identifier)
			}
			fmt.Fprintf(out, "Outgoing (%d):\n", len(result.Outgoing))
			for _, e := range result.Outgoing {
				fmt.Fprintf(out, "  %s -[%s]-> %s\n", result.Identifier, e.DepType, e.Counterpart)
			}
			fmt.Fprintf(out, "\n%s\n", result.Recommendation)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVarP(&identifier, "item", "i", "", "Function, method, or type name to trace (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
