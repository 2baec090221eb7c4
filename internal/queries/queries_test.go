package queries

import (
	"testing"

	"github.com/ludo-technologies/gocoupling/domain"
)

func newMetricsWithModules(names ...string) *domain.ProjectMetrics {
	metrics := domain.NewProjectMetrics()
	for _, n := range names {
		metrics.Modules[n] = domain.NewModule(n, n+".rs")
	}
	return metrics
}

func TestImpact_RiskScoreCapsAtOneHundred(t *testing.T) {
	metrics := newMetricsWithModules("target")
	for i := 0; i < 20; i++ {
		src := string(rune('a' + i))
		metrics.Modules[src] = domain.NewModule(src, src+".rs")
		metrics.Couplings = append(metrics.Couplings, domain.Coupling{
			SourceModule: src, TargetModule: "target",
			Strength: domain.StrengthIntrusive, Volatility: domain.VolatilityHigh,
		})
	}

	e := New(metrics, domain.ProjectBalanceReport{})
	result, err := e.Impact("target")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RiskScore > 100 {
		t.Fatalf("expected risk score capped at 100, got %d", result.RiskScore)
	}
	if result.Band != domain.ImpactHigh {
		t.Fatalf("expected High band at max risk, got %v", result.Band)
	}
}

func TestImpact_VolatilityTermAddedForHighVolatileIncoming(t *testing.T) {
	metrics := newMetricsWithModules("target", "src")
	metrics.Couplings = []domain.Coupling{
		{SourceModule: "src", TargetModule: "target", Strength: domain.StrengthModel, Volatility: domain.VolatilityHigh},
	}

	e := New(metrics, domain.ProjectBalanceReport{})
	result, err := e.Impact("target")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One direct incoming dependent (10) plus the High-volatility term (20).
	if result.RiskScore != 30 {
		t.Fatalf("expected risk score 30 (10 incoming + 20 volatility), got %d", result.RiskScore)
	}
}

func TestImpact_UnknownModuleErrors(t *testing.T) {
	metrics := newMetricsWithModules("a")
	e := New(metrics, domain.ProjectBalanceReport{})
	if _, err := e.Impact("missing"); err == nil {
		t.Fatal("expected error for unknown module")
	}
}

func TestImpact_BandThresholds(t *testing.T) {
	metrics := newMetricsWithModules("target")
	for i := 0; i < 4; i++ {
		src := string(rune('a' + i))
		metrics.Modules[src] = domain.NewModule(src, src+".rs")
		metrics.Couplings = append(metrics.Couplings, domain.Coupling{
			SourceModule: src, TargetModule: "target",
			Strength: domain.StrengthModel, Volatility: domain.VolatilityLow,
		})
	}
	e := New(metrics, domain.ProjectBalanceReport{})
	result, err := e.Impact("target")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 4 direct incoming * 10 = 40, which lands exactly on the Medium boundary.
	if result.RiskScore != 40 {
		t.Fatalf("expected risk score 40, got %d", result.RiskScore)
	}
	if result.Band != domain.ImpactMedium {
		t.Fatalf("expected Medium band at the >=40 boundary, got %v", result.Band)
	}
}
