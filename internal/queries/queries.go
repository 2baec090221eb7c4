// Package queries implements the derived, read-only views over an analyzed
// project: refactoring hotspots, blast-radius impact, item-level trace, and
// the project's top-priority issues.
package queries

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ludo-technologies/gocoupling/domain"
)

// Engine answers derived queries against one classified project.
type Engine struct {
	Metrics *domain.ProjectMetrics
	Report  domain.ProjectBalanceReport
}

// New creates a query Engine over an already-merged and classified project.
func New(metrics *domain.ProjectMetrics, report domain.ProjectBalanceReport) *Engine {
	return &Engine{Metrics: metrics, Report: report}
}

// Hotspots ranks modules by refactoring priority: the score is the sum of the
// module's issue severity weights, plus 40 if it is in a cycle, plus 2 for
// every internal (non-DifferentCrate) coupling it sends or receives.
func (e *Engine) Hotspots(limit int) []domain.Hotspot {
	inCycle := e.modulesInCycles()

	type acc struct {
		score      float64
		issueCount int
		edgeCount  int
		issueTypes map[domain.IssueType]bool
	}
	byModule := make(map[string]*acc)
	ensure := func(name string) *acc {
		a, ok := byModule[name]
		if !ok {
			a = &acc{issueTypes: make(map[domain.IssueType]bool)}
			byModule[name] = a
		}
		return a
	}

	for _, issue := range e.Report.Issues {
		if issue.Module == "" {
			continue
		}
		a := ensure(issue.Module)
		a.score += float64(issue.Severity.Weight())
		a.issueCount++
		a.issueTypes[issue.Type] = true
	}

	for _, c := range e.Metrics.Couplings {
		if c.Distance == domain.DistanceDifferentCrate {
			continue
		}
		ensure(c.SourceModule).edgeCount++
		ensure(c.TargetModule).edgeCount++
	}

	for name := range e.Metrics.Modules {
		ensure(name)
	}

	var hotspots []domain.Hotspot
	for name, a := range byModule {
		score := a.score + 2*float64(a.edgeCount)
		if inCycle[name] {
			score += 40
		}
		var types []domain.IssueType
		for t := range a.issueTypes {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

		hotspots = append(hotspots, domain.Hotspot{
			Module:        name,
			Score:         score,
			InCycle:       inCycle[name],
			IssueCount:    a.issueCount,
			EdgeCount:     a.edgeCount,
			TopIssueTypes: types,
		})
	}

	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].Score != hotspots[j].Score {
			return hotspots[i].Score > hotspots[j].Score
		}
		return hotspots[i].Module < hotspots[j].Module
	})

	if limit > 0 && len(hotspots) > limit {
		hotspots = hotspots[:limit]
	}
	return hotspots
}

func (e *Engine) modulesInCycles() map[string]bool {
	result := make(map[string]bool)
	for _, cycle := range e.Report.Cycles {
		for _, m := range cycle {
			result[m] = true
		}
	}
	return result
}

// Impact computes the forward blast radius of changing one module: its
// direct dependents (who breaks), direct dependencies (what it relies on),
// and the second-order dependents reachable through its direct dependents.
func (e *Engine) Impact(module string) (domain.ImpactResult, error) {
	if _, ok := e.Metrics.Modules[module]; !ok {
		qualified, suffixed := "", ""
		for name := range e.Metrics.Modules {
			if strings.HasSuffix(name, "::"+module) && (qualified == "" || name < qualified) {
				qualified = name
			} else if strings.HasSuffix(name, module) && (suffixed == "" || name < suffixed) {
				suffixed = name
			}
		}
		if qualified == "" {
			qualified = suffixed
		}
		if qualified == "" {
			return domain.ImpactResult{}, domain.NewInvalidInputError(fmt.Sprintf("unknown module: %s", module), nil)
		}
		module = qualified
	}

	outgoing := make(map[string]*domain.ImpactDependency)
	incoming := make(map[string]*domain.ImpactDependency)

	track := func(set map[string]*domain.ImpactDependency, counterpart string, c domain.Coupling) {
		d, ok := set[counterpart]
		if !ok {
			d = &domain.ImpactDependency{Module: counterpart, StrengthCounts: make(map[string]int)}
			set[counterpart] = d
		}
		d.Count++
		d.StrengthCounts[c.Strength.String()]++
		if c.Volatility > d.MaxVolatility {
			d.MaxVolatility = c.Volatility
		}
	}

	directDependents := make(map[string]bool)
	for _, c := range e.Metrics.Couplings {
		if c.SourceModule == module {
			track(outgoing, c.TargetModule, c)
		}
		if c.TargetModule == module {
			track(incoming, c.SourceModule, c)
			directDependents[c.SourceModule] = true
		}
	}

	secondOrderSet := make(map[string]bool)
	for _, c := range e.Metrics.Couplings {
		if directDependents[c.TargetModule] && c.SourceModule != module && !directDependents[c.SourceModule] {
			secondOrderSet[c.SourceModule] = true
		}
	}

	result := domain.ImpactResult{
		Module:         module,
		DirectOutgoing: flattenImpact(outgoing),
		DirectIncoming: flattenImpact(incoming),
		SecondOrder:    sortedKeys(secondOrderSet),
		InCycle:        e.modulesInCycles()[module],
	}

	maxIncomingVolatility := domain.VolatilityLow
	for _, d := range incoming {
		if d.MaxVolatility > maxIncomingVolatility {
			maxIncomingVolatility = d.MaxVolatility
		}
	}
	volatilityTerm := 0
	switch {
	case len(incoming) > 0 && maxIncomingVolatility == domain.VolatilityHigh:
		volatilityTerm = 20
	case len(incoming) > 0 && maxIncomingVolatility == domain.VolatilityMedium:
		volatilityTerm = 10
	}

	riskScore := len(directDependents)*10 + len(secondOrderSet)*5 + volatilityTerm
	if result.InCycle {
		riskScore += 30
	}
	if riskScore > 100 {
		riskScore = 100
	}
	result.RiskScore = riskScore

	switch {
	case riskScore >= 70:
		result.Band = domain.ImpactHigh
	case riskScore >= 40:
		result.Band = domain.ImpactMedium
	default:
		result.Band = domain.ImpactLow
	}

	return result, nil
}

func flattenImpact(set map[string]*domain.ImpactDependency) []domain.ImpactDependency {
	out := make([]domain.ImpactDependency, 0, len(set))
	for _, d := range set {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Module < out[j].Module
	})
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Trace resolves an identifier (a function, method, or type name) to its
// item-level dependencies, trying progressively looser match strategies:
// exact name, then "Type::method" suffix match, then substring match.
func (e *Engine) Trace(identifier string) (domain.TraceResult, error) {
	tier, matched := e.resolveTraceTarget(identifier)
	if len(matched) == 0 {
		return domain.TraceResult{}, domain.NewInvalidInputError(fmt.Sprintf("no item matches %q", identifier), nil)
	}

	result := domain.TraceResult{Identifier: identifier, MatchTier: tier}
	intrusiveIn, intrusiveOut := 0, 0

	for _, m := range e.Metrics.Modules {
		for _, dep := range m.ItemDeps {
			intrusive := dep.DepType.ToUsageContext().ToStrength() == domain.StrengthIntrusive
			if matched[dep.SourceName] {
				result.Outgoing = append(result.Outgoing, domain.TraceEdge{
					Counterpart: dep.Target,
					DepType:     dep.DepType,
					Strength:    dep.DepType.ToUsageContext().ToStrength(),
					Location:    dep.Location,
				})
				if intrusive {
					intrusiveOut++
				}
			}
			if matched[dep.Target] {
				result.Incoming = append(result.Incoming, domain.TraceEdge{
					Counterpart: dep.SourceName,
					DepType:     dep.DepType,
					Strength:    dep.DepType.ToUsageContext().ToStrength(),
					Location:    dep.Location,
				})
				if intrusive {
					intrusiveIn++
				}
			}
		}
	}

	sort.Slice(result.Outgoing, func(i, j int) bool { return result.Outgoing[i].Counterpart < result.Outgoing[j].Counterpart })
	sort.Slice(result.Incoming, func(i, j int) bool { return result.Incoming[i].Counterpart < result.Incoming[j].Counterpart })

	result.Recommendation = recommendationFor(len(result.Incoming), len(result.Outgoing), intrusiveIn, intrusiveOut)
	return result, nil
}

func (e *Engine) resolveTraceTarget(identifier string) (domain.TraceMatchTier, map[string]bool) {
	exact := make(map[string]bool)
	suffix := make(map[string]bool)
	substring := make(map[string]bool)

	for _, m := range e.Metrics.Modules {
		for name := range m.Functions {
			if name == identifier {
				exact[name] = true
			}
			if strings.HasSuffix(name, "::"+identifier) {
				suffix[name] = true
			}
			if strings.Contains(name, identifier) {
				substring[name] = true
			}
		}
		for name := range m.Types {
			if name == identifier {
				exact[name] = true
			}
			if strings.Contains(name, identifier) {
				substring[name] = true
			}
		}
	}

	if len(exact) > 0 {
		return domain.TraceMatchExact, exact
	}
	if len(suffix) > 0 {
		return domain.TraceMatchModuleQualifiedSuffix, suffix
	}
	return domain.TraceMatchSubstring, substring
}

func recommendationFor(incoming, outgoing, intrusiveIn, intrusiveOut int) string {
	switch {
	case incoming == 0 && outgoing == 0:
		return "no tracked coupling to this item"
	case intrusiveOut > 3:
		return "many intrusive outgoing dependencies: this item reaches into other items' internals; depend on their public methods or traits instead"
	case intrusiveIn > 5:
		return "many intrusive incoming dependencies: other items reach into this item's internals; hide them behind methods or a trait"
	case outgoing > 10:
		return "high fan-out: this item depends on a lot; consider narrowing its responsibilities"
	case incoming > 10:
		return "high fan-in: changing this item's contract will ripple widely; prefer additive changes"
	default:
		return "coupling is within normal range for this item"
	}
}

// TopPriorities returns the project's worst issues by severity weight,
// paired with the balance score of the coupling that produced each one
// (0 for module-level issues that have no single associated edge).
func (e *Engine) TopPriorities(limit int) []domain.TopPriority {
	sorted := make([]domain.CouplingIssue, len(e.Report.Issues))
	copy(sorted, e.Report.Issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Severity != sorted[j].Severity {
			return sorted[i].Severity > sorted[j].Severity
		}
		return sorted[i].Balance < sorted[j].Balance
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]domain.TopPriority, 0, len(sorted))
	for _, issue := range sorted {
		out = append(out, domain.TopPriority{Issue: issue, Balance: issue.Balance})
	}
	return out
}
