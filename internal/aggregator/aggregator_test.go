package aggregator

import (
	"testing"

	"github.com/ludo-technologies/gocoupling/domain"
)

func TestIsValidDependencyPath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"", false},
		{"Self", false},
		{"Self::Foo", false},
		{"item", false},           // short, all-lowercase, in allow-list
		{"ok", false},             // short, all-lowercase single segment
		{"foo::foo", false},       // last two segments identical
		{"request", false},        // local-variable allow-list, single segment
		{"a::request", false},     // local-variable allow-list, 2 segments
		{"a::b::request", true},   // allow-list only rejects paths <=2 segments
		{"b::do_something", true},
		{"crate::balance::ComputeBalance", true},
		{"LongPascalCaseName", true},
	}
	for _, c := range cases {
		if got := isValidDependencyPath(c.path); got != c.want {
			t.Errorf("isValidDependencyPath(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestModuleHeadFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"b::do_something", "b"},
		{"crate::balance::compute", "balance"},
		{"self::util::parse", "util"},
		{"super::thing", ""},
		{"self::only", ""},
		{"bare", ""},
	}
	for _, c := range cases {
		if got := moduleHeadFromPath(c.path); got != c.want {
			t.Errorf("moduleHeadFromPath(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestMerge_ResolvesQualifiedFunctionCallAcrossModules(t *testing.T) {
	a := domain.NewModule("a", "a.rs")
	a.ItemDeps = append(a.ItemDeps, domain.ItemDependency{
		SourceName: "run",
		SourceKind: domain.ItemFunction,
		Target:     "b::do_something",
		DepType:    domain.DepFunctionCall,
	})
	b := domain.NewModule("b", "b.rs")

	agg := New(nil)
	metrics := agg.Merge(map[string]*domain.Module{"a": a, "b": b})

	if len(metrics.Couplings) != 1 {
		t.Fatalf("expected one resolved coupling, got %d", len(metrics.Couplings))
	}
	c := metrics.Couplings[0]
	if c.TargetModule != "b" {
		t.Fatalf("expected target module 'b', got %q", c.TargetModule)
	}
	if c.TargetIdent != "do_something" {
		t.Fatalf("expected target ident 'do_something', got %q", c.TargetIdent)
	}
}

func TestMerge_DropsInvalidDependencyPaths(t *testing.T) {
	a := domain.NewModule("a", "a.rs")
	a.ItemDeps = append(a.ItemDeps, domain.ItemDependency{
		SourceName: "run",
		SourceKind: domain.ItemFunction,
		Target:     "result",
		DepType:    domain.DepFunctionCall,
	})

	agg := New(nil)
	metrics := agg.Merge(map[string]*domain.Module{"a": a})

	if len(metrics.Couplings) != 0 {
		t.Fatalf("expected local-variable-like target to be dropped, got %d couplings", len(metrics.Couplings))
	}
}

func TestFoldVolatility_TargetsTargetModuleNotSource(t *testing.T) {
	metrics := domain.NewProjectMetrics()
	metrics.Couplings = []domain.Coupling{
		{SourceModule: "consumer", TargetModule: "balance", TargetCrate: ""},
	}
	metrics.CommitCounts["src/balance.rs"] = 12

	FoldVolatility(metrics, nil)

	if metrics.Couplings[0].Volatility != domain.VolatilityHigh {
		t.Fatalf("expected target-module commit history to drive volatility, got %v", metrics.Couplings[0].Volatility)
	}
	if metrics.Couplings[0].VolatilityMatchRule != "a" {
		t.Fatalf("expected match rule 'a', got %q", metrics.Couplings[0].VolatilityMatchRule)
	}
}

func TestFoldVolatility_IgnorePatternsFilterBeforeFold(t *testing.T) {
	metrics := domain.NewProjectMetrics()
	metrics.Couplings = []domain.Coupling{
		{SourceModule: "consumer", TargetModule: "balance"},
	}
	metrics.CommitCounts["src/balance.rs"] = 12

	overrides := &domain.VolatilityOverrides{IgnorePatterns: []string{"src/balance.rs"}}
	FoldVolatility(metrics, overrides)

	if metrics.Couplings[0].Volatility != domain.VolatilityLow {
		t.Fatalf("expected ignored commit history to fold away to Low, got %v", metrics.Couplings[0].Volatility)
	}
	if metrics.Couplings[0].VolatilityMatchRule != "none" {
		t.Fatalf("expected match rule 'none', got %q", metrics.Couplings[0].VolatilityMatchRule)
	}
}

func TestFoldVolatility_ConfigOverrideWinsOverGitHistory(t *testing.T) {
	metrics := domain.NewProjectMetrics()
	metrics.Couplings = []domain.Coupling{
		{SourceModule: "consumer", TargetModule: "balance"},
	}
	metrics.CommitCounts["src/balance.rs"] = 1 // would otherwise fold to Low

	overrides := &domain.VolatilityOverrides{HighPatterns: []string{"balance"}}
	FoldVolatility(metrics, overrides)

	if metrics.Couplings[0].Volatility != domain.VolatilityHigh {
		t.Fatalf("expected config override to win, got %v", metrics.Couplings[0].Volatility)
	}
	if metrics.Couplings[0].VolatilityMatchRule != "override" {
		t.Fatalf("expected match rule 'override', got %q", metrics.Couplings[0].VolatilityMatchRule)
	}
}

func TestDetectCycles_FindsSimpleCycle(t *testing.T) {
	metrics := domain.NewProjectMetrics()
	metrics.Modules["a"] = domain.NewModule("a", "a.rs")
	metrics.Modules["b"] = domain.NewModule("b", "b.rs")
	metrics.Couplings = []domain.Coupling{
		{SourceModule: "a", TargetModule: "b"},
		{SourceModule: "b", TargetModule: "a"},
	}

	cycles := DetectCycles(metrics)
	if len(cycles) != 1 {
		t.Fatalf("expected exactly one cycle, got %d", len(cycles))
	}
}
