// Package classify turns a set of classified couplings into named
// anti-pattern issues and a project-level health grade. The balance/Khononov
// math itself lives in domain.ComputeBalance; this package owns the issue
// ruleset and grade cascade that sit on top of it.
package classify

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/gocoupling/domain"
)

// Classifier runs the issue ruleset against an aggregated project.
type Classifier struct {
	thresholds domain.IssueThresholds
}

// New creates a Classifier with the given thresholds.
func New(thresholds domain.IssueThresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// moduleStats accumulates the per-module counters the ruleset consults.
type moduleStats struct {
	efferent  int // outgoing couplings (dependencies)
	afferent  int // incoming couplings (dependents)
	functions int
	types     int
	impls     int
}

// Classify computes a BalanceScore for every coupling, runs the issue
// ruleset over the aggregated module graph, and folds cycle membership into
// CircularDependency issues.
func (c *Classifier) Classify(metrics *domain.ProjectMetrics, cycles [][]string) domain.ProjectBalanceReport {
	report := domain.ProjectBalanceReport{
		ModuleCount:   metrics.ModuleCount(),
		CouplingCount: metrics.CouplingCount(),
		Cycles:        cycles,
	}

	stats := make(map[string]*moduleStats)
	statsFor := func(name string) *moduleStats {
		s, ok := stats[name]
		if !ok {
			s = &moduleStats{}
			stats[name] = s
		}
		return s
	}

	var balanceSum float64
	for _, coupling := range metrics.Couplings {
		// External-crate edges are skipped entirely before the issue rules
		// fire (SPEC_FULL.md §4.2); they still count toward the average
		// balance that ships in the report, just not toward any module's
		// efferent/afferent counters or a named issue.
		score := domain.ComputeBalance(coupling.Strength, coupling.Distance, coupling.Volatility)
		balanceSum += score.Value

		if coupling.Distance == domain.DistanceDifferentCrate {
			continue
		}

		statsFor(coupling.SourceModule).efferent++
		statsFor(coupling.TargetModule).afferent++

		intrusive := coupling.Strength == domain.StrengthIntrusive
		differentModule := coupling.Distance == domain.DistanceDifferentModule

		globalComplexity := intrusive && differentModule
		if globalComplexity {
			report.Issues = append(report.Issues, domain.CouplingIssue{
				Type:         domain.IssueGlobalComplexity,
				Severity:     domain.SeverityMedium,
				Module:       coupling.SourceModule,
				TargetModule: coupling.TargetModule,
				Description: fmt.Sprintf("%s -> %s is an intrusive coupling across modules",
					coupling.SourceModule, coupling.TargetModule),
				Action:   domain.RefactoringAction{Description: "introduce a trait abstraction for the target"},
				Balance:  score.Value,
				Location: coupling.Location,
			})
		}

		if intrusive && coupling.Volatility == domain.VolatilityHigh {
			report.Issues = append(report.Issues, domain.CouplingIssue{
				Type:         domain.IssueCascadingChangeRisk,
				Severity:     domain.SeverityHigh,
				Module:       coupling.SourceModule,
				TargetModule: coupling.TargetModule,
				Description: fmt.Sprintf("%s -> %s is intrusive on a frequently-changing target (balance %.2f)",
					coupling.SourceModule, coupling.TargetModule, score.Value),
				Action:   domain.RefactoringAction{Description: "stabilize an interface on the volatile target"},
				Balance:  score.Value,
				Location: coupling.Location,
			})
		}

		if intrusive && differentModule && score.Value < 0.5 && !globalComplexity {
			report.Issues = append(report.Issues, domain.CouplingIssue{
				Type:         domain.IssueInappropriateIntimacy,
				Severity:     domain.SeverityMedium,
				Module:       coupling.SourceModule,
				TargetModule: coupling.TargetModule,
				Description:  fmt.Sprintf("%s reaches %s::%s beyond its declared visibility (balance %.2f)", coupling.SourceModule, coupling.TargetModule, coupling.TargetIdent, score.Value),
				Action:       domain.RefactoringAction{Description: "widen the target's visibility deliberately, or route the access through a narrower public API"},
				Balance:      score.Value,
				Location:     coupling.Location,
			})
		}
	}

	for name, module := range metrics.Modules {
		s := statsFor(name)
		s.functions = len(module.Functions)
		s.types = len(module.Types)
		s.impls = module.TraitImplCount + module.InherentImplCount
	}

	for name, s := range stats {
		if s.efferent > c.thresholds.MaxDependencies {
			report.Issues = append(report.Issues, domain.CouplingIssue{
				Type:        domain.IssueHighEfferentCoupling,
				Severity:    severityForOverage(s.efferent, c.thresholds.MaxDependencies),
				Module:      name,
				Description: fmt.Sprintf("%s depends on %d other modules (limit %d)", name, s.efferent, c.thresholds.MaxDependencies),
				Action:      domain.RefactoringAction{Description: "split responsibilities or introduce a facade to reduce the module's fan-out"},
			})
		}
		if s.afferent > c.thresholds.MaxDependents {
			report.Issues = append(report.Issues, domain.CouplingIssue{
				Type:        domain.IssueHighAfferentCoupling,
				Severity:    severityForOverage(s.afferent, c.thresholds.MaxDependents),
				Module:      name,
				Description: fmt.Sprintf("%s is depended on by %d other modules (limit %d)", name, s.afferent, c.thresholds.MaxDependents),
				Action:      domain.RefactoringAction{Description: "extract a stable interface so dependents couple to an abstraction, not the implementation"},
			})
		}

		if s.functions > c.thresholds.MaxFunctions || s.types > c.thresholds.MaxTypes || s.impls > c.thresholds.MaxImpls {
			severity := domain.SeverityMedium
			if s.functions > 2*c.thresholds.MaxFunctions || s.types > 2*c.thresholds.MaxTypes {
				severity = domain.SeverityHigh
			}
			report.Issues = append(report.Issues, domain.CouplingIssue{
				Type:     domain.IssueGodModule,
				Severity: severity,
				Module:   name,
				Description: fmt.Sprintf("%s declares %d functions, %d types, %d impls -- exceeds at least one of the limits (%d/%d/%d)",
					name, s.functions, s.types, s.impls, c.thresholds.MaxFunctions, c.thresholds.MaxTypes, c.thresholds.MaxImpls),
				Action: domain.RefactoringAction{Description: "split this module along its distinct responsibilities"},
			})
		}

		mod := metrics.Modules[name]
		if mod == nil {
			continue
		}

		for _, t := range mod.Types {
			if t.IsTrait || t.PublicFieldCount < 1 {
				continue
			}
			report.Issues = append(report.Issues, domain.CouplingIssue{
				Type:        domain.IssuePublicFieldExposure,
				Severity:    domain.SeverityLow,
				Module:      name,
				Description: fmt.Sprintf("%s::%s exposes %d/%d struct fields as public", name, t.Name, t.PublicFieldCount, t.TotalFieldCount),
				Action:      domain.RefactoringAction{Description: "encapsulate state behind accessor methods instead of public fields"},
			})
		}

		for _, fn := range mod.Functions {
			if fn.ParamCount < 3 || fn.PrimitiveRatio() < 0.6 {
				continue
			}
			report.Issues = append(report.Issues, domain.CouplingIssue{
				Type:        domain.IssuePrimitiveObsession,
				Severity:    domain.SeverityLow,
				Module:      name,
				Description: fmt.Sprintf("%s::%s takes %d parameters, %.0f%% primitive", name, fn.Name, fn.ParamCount, fn.PrimitiveRatio()*100),
				Action:      domain.RefactoringAction{Description: "introduce small domain newtypes instead of passing bare primitives around"},
			})
		}
	}

	modulesInCycles := make(map[string]bool)
	for _, cycle := range cycles {
		for _, m := range cycle {
			modulesInCycles[m] = true
		}
		report.Issues = append(report.Issues, domain.CouplingIssue{
			Type:        domain.IssueCircularDependency,
			Severity:    domain.SeverityCritical,
			Module:      cycle[0],
			Description: fmt.Sprintf("circular dependency: %s", cycleString(cycle)),
			Action:      domain.RefactoringAction{Description: "break the cycle by extracting the shared contract into a module neither side owns"},
		})
	}

	sort.SliceStable(report.Issues, func(i, j int) bool {
		return report.Issues[i].Severity > report.Issues[j].Severity
	})

	for _, issue := range report.Issues {
		switch issue.Severity {
		case domain.SeverityCritical:
			report.CriticalCount++
		case domain.SeverityHigh:
			report.HighCount++
		case domain.SeverityMedium:
			report.MediumCount++
		case domain.SeverityLow:
			report.LowCount++
		}
	}

	if report.CouplingCount > 0 {
		report.AverageBalance = balanceSum / float64(report.CouplingCount)
	}
	report.Grade = GradeFor(report, len(metrics.InternalCouplings()))

	return report
}

// GradeFor implements the health-grade threshold cascade from SPEC_FULL.md
// §4.2, over C/H/M (critical/high/medium issue counts) and N (internal
// coupling count). Divisions are guarded by the N==0 check up front.
func GradeFor(report domain.ProjectBalanceReport, internalCouplingCount int) domain.HealthGrade {
	c := float64(report.CriticalCount)
	h := float64(report.HighCount)
	m := float64(report.MediumCount)
	n := float64(internalCouplingCount)

	if internalCouplingCount == 0 {
		return domain.GradeB
	}

	switch {
	case c > 3:
		return domain.GradeF
	case c > 0 || h/n > 0.05:
		return domain.GradeD
	case h > 0 || m/n > 0.25:
		return domain.GradeC
	case m/n > 0.05 || (c+h+m)/n > 0.10:
		return domain.GradeB
	case h == 0 && m/n <= 0.05 && n >= 10:
		return domain.GradeA
	default:
		return domain.GradeB
	}
}

// severityForOverage is High iff actual exceeds 2x limit, Medium otherwise
// (used by HighEfferentCoupling and HighAfferentCoupling; GodModule applies
// its own 2x check to functions and types only; there is no Critical tier
// for these per-module issues).
func severityForOverage(actual, limit int) domain.Severity {
	if limit <= 0 {
		return domain.SeverityMedium
	}
	if float64(actual) > 2*float64(limit) {
		return domain.SeverityHigh
	}
	return domain.SeverityMedium
}

func cycleString(cycle []string) string {
	out := ""
	for i, m := range cycle {
		if i > 0 {
			out += " -> "
		}
		out += m
	}
	out += " -> " + cycle[0]
	return out
}
