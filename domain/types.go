package domain

// Strength is the Integration Strength dimension of a coupling: how much
// internal knowledge a dependency shares with its target.
type Strength int

const (
	StrengthContract Strength = iota
	StrengthModel
	StrengthFunctional
	StrengthIntrusive
)

// Value returns the [0,1] weight used in the balance equation.
func (s Strength) Value() float64 {
	switch s {
	case StrengthContract:
		return 0.25
	case StrengthModel:
		return 0.50
	case StrengthFunctional:
		return 0.75
	case StrengthIntrusive:
		return 1.00
	default:
		return 0.50
	}
}

func (s Strength) String() string {
	switch s {
	case StrengthContract:
		return "Contract"
	case StrengthModel:
		return "Model"
	case StrengthFunctional:
		return "Functional"
	case StrengthIntrusive:
		return "Intrusive"
	default:
		return "Unknown"
	}
}

// Upgrade returns the next strength level, capping at Intrusive.
func (s Strength) Upgrade() Strength {
	if s >= StrengthIntrusive {
		return StrengthIntrusive
	}
	return s + 1
}

// Distance is the module-hierarchy separation between coupled parties.
type Distance int

const (
	DistanceSameFunction Distance = iota
	DistanceSameModule
	DistanceDifferentModule
	DistanceDifferentCrate
)

func (d Distance) Value() float64 {
	switch d {
	case DistanceSameFunction:
		return 0.00
	case DistanceSameModule:
		return 0.25
	case DistanceDifferentModule:
		return 0.50
	case DistanceDifferentCrate:
		return 1.00
	default:
		return 0.50
	}
}

func (d Distance) String() string {
	switch d {
	case DistanceSameFunction:
		return "SameFunction"
	case DistanceSameModule:
		return "SameModule"
	case DistanceDifferentModule:
		return "DifferentModule"
	case DistanceDifferentCrate:
		return "DifferentCrate"
	default:
		return "Unknown"
	}
}

// Volatility buckets recent commit-frequency into three levels.
type Volatility int

const (
	VolatilityLow Volatility = iota
	VolatilityMedium
	VolatilityHigh
)

func (v Volatility) Value() float64 {
	switch v {
	case VolatilityLow:
		return 0.0
	case VolatilityMedium:
		return 0.5
	case VolatilityHigh:
		return 1.0
	default:
		return 0.0
	}
}

func (v Volatility) String() string {
	switch v {
	case VolatilityLow:
		return "Low"
	case VolatilityMedium:
		return "Medium"
	case VolatilityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// VolatilityFromCount buckets a commit count into a Volatility level:
// 0-2 Low, 3-10 Medium, 11+ High.
func VolatilityFromCount(count int) Volatility {
	switch {
	case count <= 2:
		return VolatilityLow
	case count <= 10:
		return VolatilityMedium
	default:
		return VolatilityHigh
	}
}

// Visibility is the declared accessibility of a type or item.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityPubCrate
	VisibilityPubSuper
	VisibilityPubIn
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "Public"
	case VisibilityPubCrate:
		return "PubCrate"
	case VisibilityPubSuper:
		return "PubSuper"
	case VisibilityPubIn:
		return "PubIn"
	case VisibilityPrivate:
		return "Private"
	default:
		return "Unknown"
	}
}

// IsIntrusiveFrom reports whether reaching a type with this visibility from
// the given call-site relationship (sameCrate, sameModule) amounts to
// reaching further than the visibility declares as acceptable.
func (v Visibility) IsIntrusiveFrom(sameCrate, sameModule bool) bool {
	switch v {
	case VisibilityPublic:
		return false
	case VisibilityPubCrate:
		return !sameCrate
	case VisibilityPubSuper, VisibilityPubIn:
		return !sameModule
	case VisibilityPrivate:
		return !sameModule
	default:
		return false
	}
}

// IntrusivePenalty is an informational 0..0.3 score used only for display,
// never folded into the balance equation.
func (v Visibility) IntrusivePenalty() float64 {
	switch v {
	case VisibilityPublic:
		return 0.0
	case VisibilityPubCrate:
		return 0.1
	case VisibilityPubSuper, VisibilityPubIn:
		return 0.2
	case VisibilityPrivate:
		return 0.3
	default:
		return 0.0
	}
}

// UsageContext is the syntactic role a reference plays at its use site.
type UsageContext int

const (
	UsageImport UsageContext = iota
	UsageTraitBound
	UsageFieldAccess
	UsageMethodCall
	UsageFunctionCall
	UsageStructConstruction
	UsageTypeParameter
	UsageFunctionParameter
	UsageReturnType
	UsageInherentImplBlock
)

func (u UsageContext) String() string {
	switch u {
	case UsageImport:
		return "Import"
	case UsageTraitBound:
		return "TraitBound"
	case UsageFieldAccess:
		return "FieldAccess"
	case UsageMethodCall:
		return "MethodCall"
	case UsageFunctionCall:
		return "FunctionCall"
	case UsageStructConstruction:
		return "StructConstruction"
	case UsageTypeParameter:
		return "TypeParameter"
	case UsageFunctionParameter:
		return "FunctionParameter"
	case UsageReturnType:
		return "ReturnType"
	case UsageInherentImplBlock:
		return "InherentImplBlock"
	default:
		return "Unknown"
	}
}

// ToStrength maps a usage context to its fixed Integration Strength per the
// table: FieldAccess/StructConstruction/InherentImplBlock -> Intrusive;
// MethodCall/FunctionCall/FunctionParameter/ReturnType -> Functional;
// TypeParameter/Import -> Model; TraitBound -> Contract.
func (u UsageContext) ToStrength() Strength {
	switch u {
	case UsageFieldAccess, UsageStructConstruction, UsageInherentImplBlock:
		return StrengthIntrusive
	case UsageMethodCall, UsageFunctionCall, UsageFunctionParameter, UsageReturnType:
		return StrengthFunctional
	case UsageTypeParameter, UsageImport:
		return StrengthModel
	case UsageTraitBound:
		return StrengthContract
	default:
		return StrengthModel
	}
}

// ItemKind is the syntactic kind of a declared item.
type ItemKind int

const (
	ItemFunction ItemKind = iota
	ItemMethod
	ItemStruct
	ItemEnum
	ItemTrait
	ItemImpl
	ItemModule
)

func (k ItemKind) String() string {
	switch k {
	case ItemFunction:
		return "Function"
	case ItemMethod:
		return "Method"
	case ItemStruct:
		return "Struct"
	case ItemEnum:
		return "Enum"
	case ItemTrait:
		return "Trait"
	case ItemImpl:
		return "Impl"
	case ItemModule:
		return "Module"
	default:
		return "Unknown"
	}
}

// ItemDepType is the kind of an item-level dependency edge.
type ItemDepType int

const (
	DepFunctionCall ItemDepType = iota
	DepMethodCall
	DepTypeUsage
	DepFieldAccess
	DepStructConstruction
	DepTraitImpl
	DepTraitBound
	DepImport
	DepFunctionParam
	DepReturnType
	DepInherentImpl
)

func (d ItemDepType) String() string {
	switch d {
	case DepFunctionCall:
		return "FunctionCall"
	case DepMethodCall:
		return "MethodCall"
	case DepTypeUsage:
		return "TypeUsage"
	case DepFieldAccess:
		return "FieldAccess"
	case DepStructConstruction:
		return "StructConstruction"
	case DepTraitImpl:
		return "TraitImpl"
	case DepTraitBound:
		return "TraitBound"
	case DepImport:
		return "Import"
	case DepFunctionParam:
		return "FunctionParam"
	case DepReturnType:
		return "ReturnType"
	case DepInherentImpl:
		return "InherentImpl"
	default:
		return "Unknown"
	}
}

// ToUsageContext maps an item-level dependency kind to the usage context the
// classification engine keys its strength table on.
func (d ItemDepType) ToUsageContext() UsageContext {
	switch d {
	case DepFunctionCall:
		return UsageFunctionCall
	case DepMethodCall:
		return UsageMethodCall
	case DepTypeUsage:
		return UsageTypeParameter
	case DepFieldAccess:
		return UsageFieldAccess
	case DepStructConstruction:
		return UsageStructConstruction
	case DepTraitImpl:
		return UsageTraitBound
	case DepTraitBound:
		return UsageTraitBound
	case DepImport:
		return UsageImport
	case DepFunctionParam:
		return UsageFunctionParameter
	case DepReturnType:
		return UsageReturnType
	case DepInherentImpl:
		return UsageInherentImplBlock
	default:
		return UsageTypeParameter
	}
}

// CrateStability classifies a coupling target's crate for rule softening.
// Supplemented from the original tool's stability hints (see DESIGN.md);
// not present in the distilled spec.
type CrateStability int

const (
	CrateStabilityNormal CrateStability = iota
	CrateStabilityFundamental
	CrateStabilityStable
	CrateStabilityInfrastructure
)

func (c CrateStability) String() string {
	switch c {
	case CrateStabilityFundamental:
		return "Fundamental"
	case CrateStabilityStable:
		return "Stable"
	case CrateStabilityInfrastructure:
		return "Infrastructure"
	default:
		return "Normal"
	}
}

var fundamentalCrates = map[string]bool{
	"std": true, "core": true, "alloc": true,
}

var stableCrates = map[string]bool{
	"serde": true, "log": true, "tracing": true, "anyhow": true, "thiserror": true,
}

// ClassifyCrateStability classifies a crate/module root name, optionally
// checking it against a set of prelude/infrastructure glob matches supplied
// by the caller (a pre-computed bool avoids pulling a glob dependency into
// domain).
func ClassifyCrateStability(name string, isPrelude bool) CrateStability {
	if fundamentalCrates[name] {
		return CrateStabilityFundamental
	}
	if stableCrates[name] {
		return CrateStabilityStable
	}
	if isPrelude {
		return CrateStabilityInfrastructure
	}
	return CrateStabilityNormal
}
