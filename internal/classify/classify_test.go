package classify

import (
	"testing"

	"github.com/ludo-technologies/gocoupling/domain"
)

func issueCount(issues []domain.CouplingIssue, t domain.IssueType) int {
	n := 0
	for _, i := range issues {
		if i.Type == t {
			n++
		}
	}
	return n
}

func TestClassify_CascadingChangeRisk_RequiresIntrusiveAndHighVolatility(t *testing.T) {
	metrics := domain.NewProjectMetrics()
	metrics.Modules["a"] = domain.NewModule("a", "a.rs")
	metrics.Modules["b"] = domain.NewModule("b", "b.rs")
	metrics.Couplings = []domain.Coupling{
		{
			SourceModule: "a", TargetModule: "b",
			Strength: domain.StrengthIntrusive, Distance: domain.DistanceDifferentModule,
			Volatility: domain.VolatilityHigh,
		},
	}

	c := New(domain.DefaultIssueThresholds())
	report := c.Classify(metrics, nil)

	if issueCount(report.Issues, domain.IssueCascadingChangeRisk) != 1 {
		t.Fatalf("expected one CascadingChangeRisk issue, got %d", issueCount(report.Issues, domain.IssueCascadingChangeRisk))
	}
}

func TestClassify_CascadingChangeRisk_NotRaisedWhenVolatilityLow(t *testing.T) {
	metrics := domain.NewProjectMetrics()
	metrics.Modules["a"] = domain.NewModule("a", "a.rs")
	metrics.Modules["b"] = domain.NewModule("b", "b.rs")
	metrics.Couplings = []domain.Coupling{
		{
			SourceModule: "a", TargetModule: "b",
			Strength: domain.StrengthIntrusive, Distance: domain.DistanceDifferentModule,
			Volatility: domain.VolatilityLow,
		},
	}

	c := New(domain.DefaultIssueThresholds())
	report := c.Classify(metrics, nil)

	if n := issueCount(report.Issues, domain.IssueCascadingChangeRisk); n != 0 {
		t.Fatalf("expected no CascadingChangeRisk issue for low volatility, got %d", n)
	}
}

func TestClassify_InappropriateIntimacySuppressedByGlobalComplexity(t *testing.T) {
	// Intrusive + DifferentModule always fires GlobalComplexity, and per spec
	// suppresses InappropriateIntimacy on the same edge even when balance < 0.5.
	metrics := domain.NewProjectMetrics()
	metrics.Modules["a"] = domain.NewModule("a", "a.rs")
	metrics.Modules["b"] = domain.NewModule("b", "b.rs")
	metrics.Couplings = []domain.Coupling{
		{
			SourceModule: "a", TargetModule: "b",
			Strength: domain.StrengthIntrusive, Distance: domain.DistanceDifferentModule,
			Volatility: domain.VolatilityLow,
		},
	}

	c := New(domain.DefaultIssueThresholds())
	report := c.Classify(metrics, nil)

	if n := issueCount(report.Issues, domain.IssueGlobalComplexity); n != 1 {
		t.Fatalf("expected one GlobalComplexity issue, got %d", n)
	}
	if n := issueCount(report.Issues, domain.IssueInappropriateIntimacy); n != 0 {
		t.Fatalf("expected InappropriateIntimacy suppressed when GlobalComplexity fires, got %d", n)
	}
}

func TestClassify_ExternalCrateEdgeSkipsIssuesButCountsBalance(t *testing.T) {
	metrics := domain.NewProjectMetrics()
	metrics.Modules["a"] = domain.NewModule("a", "a.rs")
	metrics.Couplings = []domain.Coupling{
		{
			SourceModule: "a", TargetModule: "serde",
			Strength: domain.StrengthModel, Distance: domain.DistanceDifferentCrate,
			Volatility: domain.VolatilityLow,
		},
	}

	c := New(domain.DefaultIssueThresholds())
	report := c.Classify(metrics, nil)

	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues for an external-crate edge, got %d", len(report.Issues))
	}
	if report.AverageBalance == 0 {
		t.Fatal("expected external-crate edge to still count toward average balance")
	}
}

func TestClassify_PublicFieldExposure_PerTypeNotModule(t *testing.T) {
	metrics := domain.NewProjectMetrics()
	mod := domain.NewModule("a", "a.rs")
	mod.Types["Foo"] = &domain.TypeDefinition{Name: "Foo", Visibility: domain.VisibilityPublic, PublicFieldCount: 2, TotalFieldCount: 2}
	mod.Types["Bar"] = &domain.TypeDefinition{Name: "Bar", Visibility: domain.VisibilityPublic, PublicFieldCount: 0, TotalFieldCount: 1}
	mod.Types["Trait"] = &domain.TypeDefinition{Name: "Trait", Visibility: domain.VisibilityPublic, IsTrait: true, PublicFieldCount: 1}
	metrics.Modules["a"] = mod

	c := New(domain.DefaultIssueThresholds())
	report := c.Classify(metrics, nil)

	if n := issueCount(report.Issues, domain.IssuePublicFieldExposure); n != 1 {
		t.Fatalf("expected exactly one PublicFieldExposure issue (Foo only), got %d", n)
	}
}

func TestClassify_PrimitiveObsession_ScenarioS6(t *testing.T) {
	// S6: a function with 3 parameters, all primitive (ratio 1.0), should
	// raise exactly one PrimitiveObsession issue regardless of how many other
	// functions the module declares.
	metrics := domain.NewProjectMetrics()
	mod := domain.NewModule("a", "a.rs")
	mod.Functions["noisy"] = &domain.FunctionDefinition{Name: "noisy", ParamCount: 3, PrimitiveParamCount: 3}
	mod.Functions["quiet"] = &domain.FunctionDefinition{Name: "quiet", ParamCount: 2, PrimitiveParamCount: 0}
	metrics.Modules["a"] = mod

	c := New(domain.DefaultIssueThresholds())
	report := c.Classify(metrics, nil)

	if n := issueCount(report.Issues, domain.IssuePrimitiveObsession); n != 1 {
		t.Fatalf("expected exactly one PrimitiveObsession issue, got %d", n)
	}
}

func TestClassify_GodModule_HighSeverityRequiresDoubleLimit(t *testing.T) {
	thresholds := domain.IssueThresholds{MaxDependencies: 20, MaxDependents: 30, MaxFunctions: 10, MaxTypes: 10, MaxImpls: 10}
	metrics := domain.NewProjectMetrics()
	mod := domain.NewModule("a", "a.rs")
	for i := 0; i < 15; i++ {
		mod.Functions[string(rune('a'+i))] = &domain.FunctionDefinition{Name: string(rune('a' + i))}
	}
	metrics.Modules["a"] = mod

	c := New(thresholds)
	report := c.Classify(metrics, nil)

	var got *domain.CouplingIssue
	for i := range report.Issues {
		if report.Issues[i].Type == domain.IssueGodModule {
			got = &report.Issues[i]
		}
	}
	if got == nil {
		t.Fatal("expected a GodModule issue")
	}
	if got.Severity != domain.SeverityMedium {
		t.Fatalf("expected Medium severity at 1.5x the limit, got %v", got.Severity)
	}

	mod2 := domain.NewModule("b", "b.rs")
	for i := 0; i < 25; i++ {
		mod2.Functions[string(rune('a'+i))] = &domain.FunctionDefinition{Name: string(rune('a' + i))}
	}
	metrics2 := domain.NewProjectMetrics()
	metrics2.Modules["b"] = mod2
	report2 := c.Classify(metrics2, nil)
	for i := range report2.Issues {
		if report2.Issues[i].Type == domain.IssueGodModule && report2.Issues[i].Severity != domain.SeverityHigh {
			t.Fatalf("expected High severity at 2.5x the limit, got %v", report2.Issues[i].Severity)
		}
	}
}

func TestGradeFor_NoInternalCouplingsGradesB(t *testing.T) {
	report := domain.ProjectBalanceReport{}
	if g := GradeFor(report, 0); g != domain.GradeB {
		t.Fatalf("expected GradeB when N=0, got %v", g)
	}
}

func TestGradeFor_ScenarioS5_CleanProjectGradesA(t *testing.T) {
	report := domain.ProjectBalanceReport{CriticalCount: 0, HighCount: 0, MediumCount: 0}
	if g := GradeFor(report, 20); g != domain.GradeA {
		t.Fatalf("expected GradeA for a clean project with 20 internal couplings, got %v", g)
	}
}

func TestGradeFor_MoreThanThreeCriticalIsF(t *testing.T) {
	report := domain.ProjectBalanceReport{CriticalCount: 4}
	if g := GradeFor(report, 10); g != domain.GradeF {
		t.Fatalf("expected GradeF when C>3, got %v", g)
	}
	report.CriticalCount = 3
	if g := GradeFor(report, 10); g == domain.GradeF {
		t.Fatal("expected C==3 to not trigger GradeF (boundary is C>3, not C>=3)")
	}
}

func TestGradeFor_AnyCriticalIsD(t *testing.T) {
	report := domain.ProjectBalanceReport{CriticalCount: 1}
	if g := GradeFor(report, 10); g != domain.GradeD {
		t.Fatalf("expected GradeD when C>0, got %v", g)
	}
}

func TestGradeFor_HighRatioIsC(t *testing.T) {
	// H>0 alone only yields GradeC once H/N is small enough to clear the D
	// cascade's h/n>0.05 check.
	report := domain.ProjectBalanceReport{HighCount: 1}
	if g := GradeFor(report, 100); g != domain.GradeC {
		t.Fatalf("expected GradeC when H>0 and H/N<=0.05, got %v", g)
	}
}

func TestGradeFor_HighRatioAboveFivePercentIsD(t *testing.T) {
	report := domain.ProjectBalanceReport{HighCount: 1}
	if g := GradeFor(report, 10); g != domain.GradeD {
		t.Fatalf("expected GradeD when H/N>0.05, got %v", g)
	}
}
