// Package graphview assembles the interactive graph view's JSON document
// and serves it over HTTP via an embedded gin router.
package graphview

import (
	"sort"

	"github.com/ludo-technologies/gocoupling/domain"
)

// Build assembles the full Graph document from a classified project.
func Build(metrics *domain.ProjectMetrics, report domain.ProjectBalanceReport) domain.Graph {
	inCycle := make(map[string]bool)
	for _, cycle := range report.Cycles {
		for _, m := range cycle {
			inCycle[m] = true
		}
	}

	issuesByModule := make(map[string][]domain.CouplingIssue)
	for _, issue := range report.Issues {
		if issue.Module != "" {
			issuesByModule[issue.Module] = append(issuesByModule[issue.Module], issue)
		}
	}

	type nodeAcc struct {
		outgoing, incoming int
		balanceSum         float64
		strengthSum        float64
		edgeCount          int
		maxVolatility      domain.Volatility
	}
	accs := make(map[string]*nodeAcc)
	ensure := func(name string) *nodeAcc {
		a, ok := accs[name]
		if !ok {
			a = &nodeAcc{}
			accs[name] = a
		}
		return a
	}

	var edges []domain.GraphEdge
	for _, c := range metrics.Couplings {
		score := domain.ComputeBalance(c.Strength, c.Distance, c.Volatility)

		sourceAcc := ensure(c.SourceModule)
		sourceAcc.outgoing++
		sourceAcc.balanceSum += score.Value
		sourceAcc.strengthSum += c.Strength.Value()
		sourceAcc.edgeCount++
		if c.Volatility > sourceAcc.maxVolatility {
			sourceAcc.maxVolatility = c.Volatility
		}
		ensure(c.TargetModule).incoming++

		loc := c.Location
		edges = append(edges, domain.GraphEdge{
			Source:         c.SourceModule,
			Target:         c.TargetModule,
			Strength:       c.Strength,
			Distance:       c.Distance,
			Volatility:     c.Volatility,
			Balance:        score.Value,
			Interpretation: score.Interpretation,
			Khononov:       score.Khononov,
			InCycle:        inCycle[c.SourceModule] && inCycle[c.TargetModule],
			Issues:         issueSummaryFor(c.SourceModule, c.TargetModule, report.Issues),
			Location:       &loc,
		})
	}

	var nodes []domain.GraphNode
	for name, module := range metrics.Modules {
		a := ensure(name)
		avgBalance, avgStrength := 0.0, 0.0
		if a.edgeCount > 0 {
			avgBalance = a.balanceSum / float64(a.edgeCount)
			avgStrength = a.strengthSum / float64(a.edgeCount)
		}

		var types []domain.TypeDefinition
		for _, t := range module.Types {
			types = append(types, *t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })

		var fns []domain.FunctionDefinition
		for _, f := range module.Functions {
			fns = append(fns, *f)
		}
		sort.Slice(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })

		nodes = append(nodes, domain.GraphNode{
			ID:              name,
			Name:            name,
			OutgoingCount:   a.outgoing,
			IncomingCount:   a.incoming,
			AverageBalance:  avgBalance,
			AverageStrength: avgStrength,
			HealthBucket:    healthBucket(len(issuesByModule[name])),
			Volatility:      a.maxVolatility,
			InCycle:         inCycle[name],
			Types:           types,
			Functions:       fns,
			ItemDeps:        module.ItemDeps,
		})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	histogram := make(map[string]int)
	for _, issue := range report.Issues {
		histogram[issue.Type.String()]++
	}

	internal, external := 0, 0
	for _, c := range metrics.Couplings {
		if c.Distance == domain.DistanceDifferentCrate {
			external++
		} else {
			internal++
		}
	}

	return domain.Graph{
		Nodes: nodes,
		Edges: edges,
		Summary: domain.GraphSummary{
			Grade:            report.Grade,
			Score:            report.AverageBalance,
			ModuleCount:      report.ModuleCount,
			InternalCoupling: internal,
			ExternalCoupling: external,
			IssueHistogram:   histogram,
		},
	}
}

func issueSummaryFor(source, target string, issues []domain.CouplingIssue) *domain.GraphIssueSummary {
	var matched []domain.CouplingIssue
	for _, issue := range issues {
		if issue.Module == source && (issue.TargetModule == target || issue.TargetModule == "") {
			matched = append(matched, issue)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	summary := &domain.GraphIssueSummary{Count: len(matched)}
	typeSet := make(map[domain.IssueType]bool)
	for _, issue := range matched {
		if issue.Severity > summary.TopSeverity {
			summary.TopSeverity = issue.Severity
		}
		typeSet[issue.Type] = true
	}
	for t := range typeSet {
		summary.Types = append(summary.Types, t)
	}
	sort.Slice(summary.Types, func(i, j int) bool { return summary.Types[i] < summary.Types[j] })
	return summary
}

func healthBucket(issueCount int) string {
	switch {
	case issueCount == 0:
		return "healthy"
	case issueCount <= 2:
		return "watch"
	default:
		return "hot"
	}
}
