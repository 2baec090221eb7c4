package main

import (
	"os"

	"github.com/ludo-technologies/gocoupling/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coupling",
	Short: "A coupling-balance analyzer for Rust crates",
	Long: `coupling extracts the dependency graph from Rust source using a tree-sitter
parser, measures each module coupling's strength, distance, and volatility,
and classifies the result against Khononov's well-designed/loosely-coupled
taxonomy.

Features:
  • Tree-sitter based Rust extraction (structs, enums, traits, impls, fns)
  • Strength/distance/volatility balance scoring per module pair
  • Cycle detection and a project-wide issue ruleset
  • Hotspot, impact, and item-level trace queries
  • Interactive graph view served over HTTP`,
	Version: version.Short(),
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewHotspotsCmd())
	rootCmd.AddCommand(NewImpactCmd())
	rootCmd.AddCommand(NewTraceCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
