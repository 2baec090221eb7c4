// Package reporter renders a CouplingResponse into each supported
// domain.OutputFormat.
package reporter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/gocoupling/domain"
)

// Reporter implements domain.CouplingFormatter.
type Reporter struct{}

// New creates a Reporter.
func New() *Reporter {
	return &Reporter{}
}

// Format renders resp in the requested format. OutputFormatHTML is rendered
// with the same plain-text layout as OutputFormatText; no HTML markup is
// produced.
func (r *Reporter) Format(resp *domain.CouplingResponse, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatJSON:
		return formatJSON(resp)
	case domain.OutputFormatYAML:
		return formatYAML(resp)
	case domain.OutputFormatMarkdown:
		return formatMarkdown(resp), nil
	case domain.OutputFormatAI:
		return formatAI(resp), nil
	case domain.OutputFormatDOT:
		return formatDOT(resp), nil
	case domain.OutputFormatText, domain.OutputFormatHTML:
		return formatText(resp), nil
	default:
		return "", domain.NewUnsupportedFormatError(format.String())
	}
}

func formatJSON(resp *domain.CouplingResponse) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", domain.NewOutputError("failed to marshal JSON report", err)
	}
	return string(data), nil
}

func formatYAML(resp *domain.CouplingResponse) (string, error) {
	data, err := yaml.Marshal(resp)
	if err != nil {
		return "", domain.NewOutputError("failed to marshal YAML report", err)
	}
	return string(data), nil
}

// formatText renders the plain-terminal summary: grade, issue counts, then
// the worst issues in order.
func formatText(resp *domain.CouplingResponse) string {
	var b strings.Builder
	report := resp.Report

	fmt.Fprintf(&b, "Coupling Analysis Report (%s)\n", resp.GeneratedAt)
	fmt.Fprintf(&b, "Modules: %d  Couplings: %d  Average Balance: %.2f  Grade: %s\n\n",
		report.ModuleCount, report.CouplingCount, report.AverageBalance, report.Grade)

	fmt.Fprintf(&b, "Issues: %d critical, %d high, %d medium, %d low\n",
		report.CriticalCount, report.HighCount, report.MediumCount, report.LowCount)

	if len(report.Cycles) > 0 {
		fmt.Fprintf(&b, "\nCircular dependencies (%d):\n", len(report.Cycles))
		for _, cycle := range report.Cycles {
			fmt.Fprintf(&b, "  - %s\n", strings.Join(cycle, " -> "))
		}
	}

	if len(report.Issues) > 0 {
		b.WriteString("\nTop issues:\n")
		for i, issue := range report.Issues {
			if i >= 20 {
				fmt.Fprintf(&b, "  ... and %d more\n", len(report.Issues)-20)
				break
			}
			fmt.Fprintf(&b, "  [%s] %s: %s\n", issue.Severity, issue.Type, issue.Description)
		}
	}

	if len(resp.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range resp.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	return b.String()
}

// formatMarkdown renders the same content as formatText, structured as a
// Markdown document with headings and tables.
func formatMarkdown(resp *domain.CouplingResponse) string {
	var b strings.Builder
	report := resp.Report

	fmt.Fprintf(&b, "# Coupling Analysis Report\n\n")
	fmt.Fprintf(&b, "Generated: %s  \nVersion: %s\n\n", resp.GeneratedAt, resp.Version)

	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Modules | %d |\n", report.ModuleCount)
	fmt.Fprintf(&b, "| Couplings | %d |\n", report.CouplingCount)
	fmt.Fprintf(&b, "| Average Balance | %.2f |\n", report.AverageBalance)
	fmt.Fprintf(&b, "| Grade | %s |\n", report.Grade)
	fmt.Fprintf(&b, "| Critical / High / Medium / Low | %d / %d / %d / %d |\n\n",
		report.CriticalCount, report.HighCount, report.MediumCount, report.LowCount)

	if len(report.Cycles) > 0 {
		b.WriteString("## Circular Dependencies\n\n")
		for _, cycle := range report.Cycles {
			fmt.Fprintf(&b, "- `%s`\n", strings.Join(cycle, " -> "))
		}
		b.WriteString("\n")
	}

	if len(report.Issues) > 0 {
		b.WriteString("## Issues\n\n| Severity | Type | Module | Description |\n|---|---|---|---|\n")
		for _, issue := range report.Issues {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", issue.Severity, issue.Type, issue.Module, issue.Description)
		}
	}

	return b.String()
}

// formatAI renders a terse, line-oriented format meant to minimize tokens
// when piped into an LLM tool call: one issue per line, no tables or
// alignment padding.
func formatAI(resp *domain.CouplingResponse) string {
	var b strings.Builder
	report := resp.Report

	fmt.Fprintf(&b, "grade=%s modules=%d couplings=%d avg_balance=%.2f critical=%d high=%d medium=%d low=%d cycles=%d\n",
		report.Grade, report.ModuleCount, report.CouplingCount, report.AverageBalance,
		report.CriticalCount, report.HighCount, report.MediumCount, report.LowCount, len(report.Cycles))

	for _, cycle := range report.Cycles {
		fmt.Fprintf(&b, "cycle: %s\n", strings.Join(cycle, ">"))
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(&b, "issue type=%s severity=%s module=%s target=%s balance=%.2f :: %s\n",
			issue.Type, issue.Severity, issue.Module, issue.TargetModule, issue.Balance, issue.Description)
	}
	return b.String()
}

// formatDOT renders the module coupling graph as Graphviz DOT, edges colored
// by balance interpretation.
func formatDOT(resp *domain.CouplingResponse) string {
	var b strings.Builder
	b.WriteString("digraph coupling {\n  rankdir=LR;\n  node [shape=box];\n")

	if resp.Metrics != nil {
		var modules []string
		for name := range resp.Metrics.Modules {
			modules = append(modules, name)
		}
		sort.Strings(modules)
		for _, name := range modules {
			fmt.Fprintf(&b, "  %q;\n", name)
		}

		for _, c := range resp.Metrics.Couplings {
			score := domain.ComputeBalance(c.Strength, c.Distance, c.Volatility)
			color := dotColor(score.Interpretation)
			fmt.Fprintf(&b, "  %q -> %q [label=%q, color=%q];\n", c.SourceModule, c.TargetModule, c.Usage.String(), color)
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func dotColor(interp domain.BalanceInterpretation) string {
	switch interp {
	case domain.InterpretationBalanced:
		return "green"
	case domain.InterpretationAcceptable:
		return "yellowgreen"
	case domain.InterpretationNeedsReview:
		return "orange"
	case domain.InterpretationNeedsRefactoring:
		return "orangered"
	default:
		return "red"
	}
}
