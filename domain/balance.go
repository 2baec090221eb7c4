package domain

// BalanceInterpretation is the categorical reading of a balance score.
type BalanceInterpretation int

const (
	InterpretationBalanced BalanceInterpretation = iota
	InterpretationAcceptable
	InterpretationNeedsReview
	InterpretationNeedsRefactoring
	InterpretationCritical
)

func (b BalanceInterpretation) String() string {
	switch b {
	case InterpretationBalanced:
		return "Balanced"
	case InterpretationAcceptable:
		return "Acceptable"
	case InterpretationNeedsReview:
		return "NeedsReview"
	case InterpretationNeedsRefactoring:
		return "NeedsRefactoring"
	case InterpretationCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// IsBalanced reports whether the interpretation is one of the first two bands.
func (b BalanceInterpretation) IsBalanced() bool {
	return b == InterpretationBalanced || b == InterpretationAcceptable
}

// NeedsRefactoring reports whether the interpretation is one of the last two bands.
func (b BalanceInterpretation) NeedsRefactoring() bool {
	return b == InterpretationNeedsRefactoring || b == InterpretationCritical
}

// InterpretBalance maps a balance score in [0,1] to its band.
func InterpretBalance(score float64) BalanceInterpretation {
	switch {
	case score >= 0.80:
		return InterpretationBalanced
	case score >= 0.60:
		return InterpretationAcceptable
	case score >= 0.40:
		return InterpretationNeedsReview
	case score >= 0.20:
		return InterpretationNeedsRefactoring
	default:
		return InterpretationCritical
	}
}

// KhononovClass is the categorical reading of the (strength, distance,
// volatility) triple per Vlad Khononov's coupling model.
type KhononovClass int

const (
	KhononovHighCohesion KhononovClass = iota
	KhononovLooseCoupling
	KhononovLocalComplexity
	KhononovAcceptable
	KhononovPain
)

func (k KhononovClass) String() string {
	switch k {
	case KhononovHighCohesion:
		return "HighCohesion"
	case KhononovLooseCoupling:
		return "LooseCoupling"
	case KhononovLocalComplexity:
		return "LocalComplexity"
	case KhononovAcceptable:
		return "Acceptable"
	case KhononovPain:
		return "Pain"
	default:
		return "Unknown"
	}
}

// BalanceScore is the computed balance value, interpretation, and Khononov
// classification for one coupling.
type BalanceScore struct {
	Alignment      float64               `json:"alignment"`
	Stability      float64               `json:"stability"`
	Value          float64               `json:"value"`
	Interpretation BalanceInterpretation `json:"interpretation"`
	Khononov       KhononovClass         `json:"khononov"`
}

// ComputeBalance implements SPEC_FULL.md §4.2: alignment = 1 - |s - (1-d)|,
// stability = 1 - v*s, balance = alignment * stability.
func ComputeBalance(strength Strength, distance Distance, volatility Volatility) BalanceScore {
	s := strength.Value()
	d := distance.Value()
	v := volatility.Value()

	alignment := 1 - absFloat(s-(1-d))
	stability := 1 - v*s
	value := alignment * stability

	strong := s >= 0.5
	far := d >= 0.5
	volatile := volatility == VolatilityHigh

	var class KhononovClass
	switch {
	case strong && !far:
		class = KhononovHighCohesion
	case !strong && far:
		class = KhononovLooseCoupling
	case !strong && !far:
		class = KhononovLocalComplexity
	case strong && far && !volatile:
		class = KhononovAcceptable
	default:
		class = KhononovPain
	}

	return BalanceScore{
		Alignment:      alignment,
		Stability:      stability,
		Value:          value,
		Interpretation: InterpretBalance(value),
		Khononov:       class,
	}
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Severity ranks a CouplingIssue for sorting and health-grade weighting.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	case SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// Weight returns the hotspot-scoring weight for this severity.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 50
	case SeverityHigh:
		return 30
	case SeverityMedium:
		return 15
	case SeverityLow:
		return 5
	default:
		return 0
	}
}

// IssueType is a named coupling anti-pattern.
type IssueType int

const (
	IssueGlobalComplexity IssueType = iota
	IssueCascadingChangeRisk
	IssueInappropriateIntimacy
	IssueHighEfferentCoupling
	IssueHighAfferentCoupling
	IssueGodModule
	IssuePublicFieldExposure
	IssuePrimitiveObsession
	IssueCircularDependency
)

func (i IssueType) String() string {
	switch i {
	case IssueGlobalComplexity:
		return "GlobalComplexity"
	case IssueCascadingChangeRisk:
		return "CascadingChangeRisk"
	case IssueInappropriateIntimacy:
		return "InappropriateIntimacy"
	case IssueHighEfferentCoupling:
		return "HighEfferentCoupling"
	case IssueHighAfferentCoupling:
		return "HighAfferentCoupling"
	case IssueGodModule:
		return "GodModule"
	case IssuePublicFieldExposure:
		return "PublicFieldExposure"
	case IssuePrimitiveObsession:
		return "PrimitiveObsession"
	case IssueCircularDependency:
		return "CircularDependency"
	default:
		return "Unknown"
	}
}

// RefactoringAction is a concrete suggestion attached to a CouplingIssue.
type RefactoringAction struct {
	Description string `json:"description"`
}

// CouplingIssue is one detected anti-pattern instance.
type CouplingIssue struct {
	Type        IssueType         `json:"type"`
	Severity    Severity          `json:"severity"`
	Module      string            `json:"module,omitempty"`
	TargetModule string           `json:"target_module,omitempty"`
	Description string            `json:"description"`
	Action      RefactoringAction `json:"action"`
	Balance     float64           `json:"balance,omitempty"`
	Location    Location          `json:"location,omitempty"`
}

// IssueThresholds configures the issue ruleset's numeric cutoffs.
//
// Default() intentionally mirrors the underlying engine's bare convenience
// default (20/30); the CLI and config layer build an explicit IssueThresholds
// from the resolved config file (whose own default is 15/20) before falling
// back to Default() -- see SPEC_FULL.md §4.2 for the full precedence chain.
type IssueThresholds struct {
	MaxDependencies int
	MaxDependents   int
	MaxFunctions    int
	MaxTypes        int
	MaxImpls        int
}

// DefaultIssueThresholds returns the engine's bare convenience default.
func DefaultIssueThresholds() IssueThresholds {
	return IssueThresholds{
		MaxDependencies: 20,
		MaxDependents:   30,
		MaxFunctions:    30,
		MaxTypes:        15,
		MaxImpls:        20,
	}
}

// HealthGrade is the project-level letter grade derived from issue density.
type HealthGrade int

const (
	GradeA HealthGrade = iota
	GradeB
	GradeC
	GradeD
	GradeF
)

func (g HealthGrade) String() string {
	switch g {
	case GradeA:
		return "A"
	case GradeB:
		return "B"
	case GradeC:
		return "C"
	case GradeD:
		return "D"
	case GradeF:
		return "F"
	default:
		return "?"
	}
}

// ProjectBalanceReport is the top-level output of the classification pass.
type ProjectBalanceReport struct {
	ModuleCount    int             `json:"module_count"`
	CouplingCount  int             `json:"coupling_count"`
	AverageBalance float64         `json:"average_balance"`
	Grade          HealthGrade     `json:"grade"`
	Issues         []CouplingIssue `json:"issues"`
	Cycles         [][]string      `json:"cycles"`
	CriticalCount  int             `json:"critical_count"`
	HighCount      int             `json:"high_count"`
	MediumCount    int             `json:"medium_count"`
	LowCount       int             `json:"low_count"`
}
