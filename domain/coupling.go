package domain

// Location pinpoints a position in a source file.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// TypeDefinition describes one declared struct, enum, or trait.
type TypeDefinition struct {
	Name              string     `json:"name"`
	Visibility        Visibility `json:"visibility"`
	IsTrait           bool       `json:"is_trait"`
	IsNewtype         bool       `json:"is_newtype"`
	NewtypeInner      string     `json:"newtype_inner,omitempty"`
	HasSerdeDerive    bool       `json:"has_serde_derive"`
	TotalFieldCount   int        `json:"total_field_count"`
	PublicFieldCount  int        `json:"public_field_count"`
}

// primitiveParamAllowList is the fixed set of parameter-type spellings that
// count as "primitive or common generic" for FunctionDefinition and for the
// PrimitiveObsession rule.
var primitiveParamAllowList = map[string]bool{
	"bool": true, "char": true, "str": true, "&str": true,
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
	"f32": true, "f64": true,
	"String": true, "Self": true, "()": true,
	"Option": true, "Result": true, "Vec": true, "Box": true,
	"Rc": true, "Arc": true, "RefCell": true, "Cell": true, "Mutex": true, "RwLock": true,
}

// IsPrimitiveParamType reports whether a textual parameter type matches the
// fixed primitive/common-generic allow-list. Generic wrappers are matched by
// their outer type name (e.g. "Option<T>" matches via "Option").
func IsPrimitiveParamType(typeText string) bool {
	base := typeText
	if idx := indexByte(base, '<'); idx >= 0 {
		base = base[:idx]
	}
	base = trimAmpersand(base)
	return primitiveParamAllowList[base]
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func trimAmpersand(s string) string {
	for len(s) > 0 && (s[0] == '&' || s[0] == ' ') {
		s = s[1:]
	}
	return s
}

// FunctionDefinition describes one declared function or method signature.
type FunctionDefinition struct {
	Name                string     `json:"name"`
	Visibility          Visibility `json:"visibility"`
	ParamCount          int        `json:"param_count"`
	PrimitiveParamCount int        `json:"primitive_param_count"`
	ParamTypes          []string   `json:"param_types"`
}

// PrimitiveRatio returns the fraction of parameters that are primitive, 0 if
// there are no parameters.
func (f FunctionDefinition) PrimitiveRatio() float64 {
	if f.ParamCount == 0 {
		return 0
	}
	return float64(f.PrimitiveParamCount) / float64(f.ParamCount)
}

// ItemDependency is a single call-site-level reference from one declared
// item to another identifier. Unlike Coupling edges these are never
// deduplicated.
type ItemDependency struct {
	SourceName   string      `json:"source_name"`
	SourceKind   ItemKind    `json:"source_kind"`
	Target       string      `json:"target"`
	TargetModule string      `json:"target_module,omitempty"`
	DepType      ItemDepType `json:"dep_type"`
	Location     Location    `json:"location"`
	Expression   string      `json:"expression,omitempty"`
}

// Coupling is one classified edge of the coupling graph.
type Coupling struct {
	SourceModule     string     `json:"source_module"`
	TargetModule     string     `json:"target_module"`
	TargetIdent      string     `json:"target_ident"`
	Usage            UsageContext `json:"usage"`
	Strength         Strength   `json:"strength"`
	Distance         Distance   `json:"distance"`
	Volatility       Volatility `json:"volatility"`
	TargetVisibility Visibility `json:"target_visibility"`
	SourceCrate      string     `json:"source_crate,omitempty"`
	TargetCrate      string     `json:"target_crate,omitempty"`
	Location         Location   `json:"location"`

	// VolatilityMatchRule records which of the four volatility-fold match
	// rules (a-d, §4.3) produced the commit count, "" if none matched.
	VolatilityMatchRule string `json:"volatility_match_rule,omitempty"`
}

// EffectiveStrength upgrades the nominal Strength by one level when the
// target's visibility indicates the access reaches further than it should
// (supplemented feature; see SPEC_FULL.md §4.3 and §12).
func (c Coupling) EffectiveStrength(sameCrate, sameModule bool) Strength {
	if c.TargetVisibility.IsIntrusiveFrom(sameCrate, sameModule) {
		return c.Strength.Upgrade()
	}
	return c.Strength
}

// Module is one analyzed source file's worth of extracted metrics.
type Module struct {
	Name             string `json:"name"`
	SourcePath       string `json:"source_path"`
	TraitImplCount   int    `json:"trait_impl_count"`
	InherentImplCount int   `json:"inherent_impl_count"`
	TypeUseCount     int    `json:"type_use_count"`

	InternalDeps []string `json:"internal_deps"`
	ExternalDeps []string `json:"external_deps"`

	Types     map[string]*TypeDefinition     `json:"types"`
	Functions map[string]*FunctionDefinition `json:"functions"`
	ItemDeps  []ItemDependency               `json:"item_deps"`
}

// NewModule creates an empty Module ready for the extractor to populate.
func NewModule(name, sourcePath string) *Module {
	return &Module{
		Name:       name,
		SourcePath: sourcePath,
		Types:      make(map[string]*TypeDefinition),
		Functions:  make(map[string]*FunctionDefinition),
	}
}

// PublicTypeCount returns the number of types declared in this module whose
// visibility is Public.
func (m *Module) PublicTypeCount() int {
	n := 0
	for _, t := range m.Types {
		if t.Visibility == VisibilityPublic {
			n++
		}
	}
	return n
}

func (m *Module) PrivateTypeCount() int {
	return len(m.Types) - m.PublicTypeCount()
}

// TypeRegistryEntry records the module that first declared a type name and
// its visibility, plus whether a later conflicting declaration was seen.
type TypeRegistryEntry struct {
	Module     string     `json:"module"`
	Visibility Visibility `json:"visibility"`
	Conflicted bool       `json:"conflicted"`
}

// CircularDependencySummary is a human-oriented digest of detected cycles.
type CircularDependencySummary struct {
	CycleCount       int        `json:"cycle_count"`
	ModulesInCycles  []string   `json:"modules_in_cycles"`
	Cycles           [][]string `json:"cycles"`
}

// ProjectMetrics is the aggregator's owned, read-only-after-close view of an
// entire analyzed project.
type ProjectMetrics struct {
	Modules map[string]*Module `json:"modules"`
	Couplings []Coupling       `json:"couplings"`

	WorkspaceName    string              `json:"workspace_name,omitempty"`
	WorkspaceMembers []string            `json:"workspace_members,omitempty"`
	CrateDeps        map[string][]string `json:"crate_deps,omitempty"`

	CommitCounts map[string]int `json:"-"`

	TypeRegistry map[string]TypeRegistryEntry `json:"-"`

	TotalFiles int `json:"total_files"`
}

// NewProjectMetrics creates an empty ProjectMetrics ready for merge.
func NewProjectMetrics() *ProjectMetrics {
	return &ProjectMetrics{
		Modules:      make(map[string]*Module),
		CrateDeps:    make(map[string][]string),
		CommitCounts: make(map[string]int),
		TypeRegistry: make(map[string]TypeRegistryEntry),
	}
}

func (p *ProjectMetrics) ModuleCount() int { return len(p.Modules) }

func (p *ProjectMetrics) CouplingCount() int { return len(p.Couplings) }

// InternalCouplings returns couplings whose Distance is not DifferentCrate.
func (p *ProjectMetrics) InternalCouplings() []Coupling {
	out := make([]Coupling, 0, len(p.Couplings))
	for _, c := range p.Couplings {
		if c.Distance != DistanceDifferentCrate {
			out = append(out, c)
		}
	}
	return out
}

// GetTypeVisibility looks up a type's visibility in the global registry,
// defaulting to Public when unknown (the only place in the system that
// defaults a nullable visibility lookup, per SPEC_FULL.md §9).
func (p *ProjectMetrics) GetTypeVisibility(typeName string) Visibility {
	if entry, ok := p.TypeRegistry[typeName]; ok {
		return entry.Visibility
	}
	return VisibilityPublic
}

// GetTypeModule returns the module that first declared typeName, if any.
func (p *ProjectMetrics) GetTypeModule(typeName string) (string, bool) {
	entry, ok := p.TypeRegistry[typeName]
	if !ok {
		return "", false
	}
	return entry.Module, true
}

// RegisterType applies the write-once registry rule: the first writer for a
// type name wins; subsequent writers are recorded as conflicts rather than
// overwriting (SPEC_FULL.md §9, a deliberate strengthening over the original
// tool's overwrite-on-conflict behavior).
func (p *ProjectMetrics) RegisterType(name, module string, vis Visibility) {
	if existing, ok := p.TypeRegistry[name]; ok {
		if existing.Module != module {
			existing.Conflicted = true
			p.TypeRegistry[name] = existing
		}
		return
	}
	p.TypeRegistry[name] = TypeRegistryEntry{Module: module, Visibility: vis}
}
