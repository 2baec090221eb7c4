// Package aggregator merges per-file extraction results into one project
// graph: it resolves cross-file references against a global type registry,
// computes workspace-aware distance for every edge, folds commit-frequency
// data into per-edge volatility, and finds circular module dependencies.
package aggregator

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ludo-technologies/gocoupling/domain"
	"github.com/ludo-technologies/gocoupling/internal/extractor"
)

func match(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, path)
	return err == nil && ok
}

// FileTask is one file queued for extraction.
type FileTask struct {
	Path string
}

// ExtractResult is one file's extraction outcome.
type ExtractResult struct {
	Path   string
	Module *domain.Module
	Err    error
}

// ExtractParallel runs the extractor over every file using up to `jobs`
// concurrent workers (each with its own Extractor, since tree-sitter parsers
// are not safe for concurrent use), reporting each file's outcome through
// onResult as it completes.
func ExtractParallel(ctx context.Context, readFile func(string) ([]byte, error), files []string, jobs int, onResult func(ExtractResult)) []ExtractResult {
	if jobs < 1 {
		jobs = 1
	}

	taskCh := make(chan string)
	resultCh := make(chan ExtractResult)

	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ex := extractor.New()
			for path := range taskCh {
				select {
				case <-ctx.Done():
					resultCh <- ExtractResult{Path: path, Err: ctx.Err()}
					continue
				default:
				}

				source, err := readFile(path)
				if err != nil {
					resultCh <- ExtractResult{Path: path, Err: err}
					continue
				}
				module, err := ex.ExtractFile(ctx, path, source)
				resultCh <- ExtractResult{Path: path, Module: module, Err: err}
			}
		}()
	}

	go func() {
		defer close(taskCh)
		for _, f := range files {
			select {
			case taskCh <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]ExtractResult, 0, len(files))
	for r := range resultCh {
		if onResult != nil {
			onResult(r)
		}
		results = append(results, r)
	}
	return results
}

// Aggregator merges per-file Modules into a resolved ProjectMetrics.
type Aggregator struct {
	Workspace *domain.WorkspaceManifest
}

// New creates an Aggregator, optionally workspace-aware.
func New(workspace *domain.WorkspaceManifest) *Aggregator {
	return &Aggregator{Workspace: workspace}
}

// Merge runs the two-pass merge: pass one builds the global type registry
// from every module's declared types (write-once, conflicts recorded);
// pass two resolves every item dependency against that registry into a
// deduplicated Coupling edge.
func (a *Aggregator) Merge(modules map[string]*domain.Module) *domain.ProjectMetrics {
	metrics := domain.NewProjectMetrics()
	metrics.TotalFiles = len(modules)

	for _, m := range modules {
		metrics.Modules[m.Name] = m
		for name, t := range m.Types {
			metrics.RegisterType(name, m.Name, t.Visibility)
		}
	}

	if a.Workspace != nil {
		metrics.WorkspaceName = a.Workspace.Root
		metrics.WorkspaceMembers = append([]string{}, a.Workspace.Members...)
	}

	type edgeKey struct {
		source, target, ident string
		usage                 domain.UsageContext
	}
	seen := make(map[edgeKey]bool)

	for _, m := range modules {
		for _, dep := range m.ItemDeps {
			if !isValidDependencyPath(dep.Target) {
				continue
			}

			targetModule, targetIdent, targetVis, ok := resolveTarget(metrics, dep)
			if !ok || targetModule == "" || targetModule == m.Name {
				continue // unresolved or intra-module reference
			}

			usage := dep.DepType.ToUsageContext()
			key := edgeKey{source: m.Name, target: targetModule, ident: targetIdent, usage: usage}
			if seen[key] {
				continue
			}
			seen[key] = true

			distance := a.distanceFor(m.Name, targetModule)
			coupling := domain.Coupling{
				SourceModule:     m.Name,
				TargetModule:     targetModule,
				TargetIdent:      targetIdent,
				Usage:            usage,
				Strength:         usage.ToStrength(),
				Distance:         distance,
				Volatility:       domain.VolatilityLow,
				TargetVisibility: targetVis,
				SourceCrate:      a.crateOf(m.Name),
				TargetCrate:      a.crateOf(targetModule),
				Location:         dep.Location,
			}
			metrics.Couplings = append(metrics.Couplings, coupling)
		}
	}

	sort.Slice(metrics.Couplings, func(i, j int) bool {
		a, b := metrics.Couplings[i], metrics.Couplings[j]
		if a.SourceModule != b.SourceModule {
			return a.SourceModule < b.SourceModule
		}
		if a.TargetModule != b.TargetModule {
			return a.TargetModule < b.TargetModule
		}
		return a.TargetIdent < b.TargetIdent
	})

	return metrics
}

// localVarAllowList holds identifiers that only ever turn up as local
// variable/parameter names rather than module or type paths; a bare or
// near-bare path ending in one of these is almost always a false positive
// from the tree-sitter walk picking up a binding instead of a reference.
var localVarAllowList = map[string]bool{
	"request": true, "response": true, "result": true, "content": true,
	"config": true, "proto": true, "domain": true, "info": true,
	"data": true, "item": true, "value": true, "error": true,
	"message": true, "expected": true, "actual": true, "status": true,
	"state": true, "context": true, "params": true, "args": true,
	"options": true, "settings": true, "violation": true, "page_token": true,
}

// isValidDependencyPath applies the dependency-path validity filter from
// SPEC_FULL.md §3/§4.3: it rejects paths that can never denote a real
// cross-module reference worth recording as a Coupling edge.
func isValidDependencyPath(path string) bool {
	if path == "" {
		return false
	}
	if path == "Self" || strings.HasPrefix(path, "Self::") {
		return false
	}

	segments := strings.Split(path, "::")

	if len(segments) == 1 && len(path) <= 8 && isLowerOrUnderscore(path) {
		return false
	}

	if len(segments) >= 2 && segments[len(segments)-1] == segments[len(segments)-2] {
		return false
	}

	last := segments[len(segments)-1]
	if localVarAllowList[last] && len(segments) <= 2 {
		return false
	}

	return true
}

func isLowerOrUnderscore(s string) bool {
	for _, r := range s {
		if r == '_' {
			continue
		}
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// resolveTarget resolves an ItemDependency's target path to a module, first
// against the global type registry (struct/enum/trait names), then against
// the dependency's own recorded TargetModule (populated for `use` imports),
// and finally by peeling the leading crate/self/super qualifier off a
// qualified path so that cross-module function-call edges resolve too
// (SPEC_FULL.md §4.3): the head segment after that peel names the target
// module, and the path's last segment names the target identifier.
func resolveTarget(metrics *domain.ProjectMetrics, dep domain.ItemDependency) (targetModule, targetIdent string, targetVis domain.Visibility, ok bool) {
	targetIdent = dep.Target
	if mod, resolved := metrics.GetTypeModule(dep.Target); resolved {
		return mod, targetIdent, metrics.GetTypeVisibility(dep.Target), true
	}
	if dep.TargetModule != "" {
		return dep.TargetModule, targetIdent, domain.VisibilityPublic, true
	}
	if mod := moduleHeadFromPath(dep.Target); mod != "" {
		return mod, lastSegment(dep.Target), domain.VisibilityPublic, true
	}
	return "", targetIdent, domain.VisibilityPublic, false
}

// moduleHeadFromPath strips a leading crate/self/super qualifier from a
// qualified path and returns the next segment, which names the module the
// path's remainder is declared in. A path with fewer than two segments, or
// one with no qualifying prefix to resolve against, has no inferable module
// head and returns "".
func moduleHeadFromPath(path string) string {
	segments := strings.Split(path, "::")
	if len(segments) < 2 {
		return ""
	}
	switch segments[0] {
	case "crate", "self", "super":
		if len(segments) < 3 {
			return ""
		}
		return segments[1]
	default:
		return segments[0]
	}
}

func lastSegment(path string) string {
	path = strings.TrimPrefix(path, "&")
	if idx := strings.LastIndex(path, "::"); idx >= 0 {
		return path[idx+len("::"):]
	}
	return path
}

// distanceFor computes workspace-aware Distance between two module names.
func (a *Aggregator) distanceFor(source, target string) domain.Distance {
	if source == target {
		return domain.DistanceSameFunction
	}
	if a.crateOf(source) != a.crateOf(target) {
		return domain.DistanceDifferentCrate
	}
	sourceParent := parentModule(source)
	targetParent := parentModule(target)
	if sourceParent == targetParent {
		return domain.DistanceSameModule
	}
	return domain.DistanceDifferentModule
}

func parentModule(name string) string {
	idx := strings.LastIndex(name, "::")
	if idx < 0 {
		return ""
	}
	return name[:idx]
}

// crateOf resolves a module name to its workspace member (crate) name via
// the manifest's member roots, falling back to "" (single-crate project).
func (a *Aggregator) crateOf(moduleName string) string {
	if a.Workspace == nil || len(a.Workspace.MemberRoots) == 0 {
		return ""
	}
	for member, root := range a.Workspace.MemberRoots {
		prefix := filepath.ToSlash(root)
		if strings.HasPrefix(moduleName, prefix) {
			return member
		}
	}
	return ""
}

// DetectCycles finds circular dependencies among modules via depth-first
// search over internal (non-DifferentCrate) couplings, reporting each cycle
// closed by a back-edge during the search. Each cycle is canonicalized
// (rotated to start at its lexicographically smallest member) and rotations
// of the same cycle are de-duplicated; a cycle and its reversal are distinct.
func DetectCycles(metrics *domain.ProjectMetrics) [][]string {
	adjacency := make(map[string]map[string]bool)
	for _, c := range metrics.Couplings {
		if c.SourceModule == c.TargetModule || c.Distance == domain.DistanceDifferentCrate {
			continue
		}
		if adjacency[c.SourceModule] == nil {
			adjacency[c.SourceModule] = make(map[string]bool)
		}
		adjacency[c.SourceModule][c.TargetModule] = true
	}

	var nodes []string
	for n := range metrics.Modules {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	seenCycles := make(map[string]bool)
	var cycles [][]string

	var stack []string
	onStack := make(map[string]bool)
	visited := make(map[string]bool)

	var dfs func(node string)
	dfs = func(node string) {
		visited[node] = true
		onStack[node] = true
		stack = append(stack, node)

		var neighbors []string
		for n := range adjacency[node] {
			neighbors = append(neighbors, n)
		}
		sort.Strings(neighbors)

		for _, next := range neighbors {
			if onStack[next] {
				idx := indexOf(stack, next)
				if idx >= 0 {
					cycle := canonicalizeCycle(append([]string{}, stack[idx:]...))
					key := strings.Join(cycle, "->")
					if !seenCycles[key] {
						seenCycles[key] = true
						cycles = append(cycles, cycle)
					}
				}
				continue
			}
			if !visited[next] {
				dfs(next)
			}
		}

		stack = stack[:len(stack)-1]
		onStack[node] = false
	}

	for _, n := range nodes {
		if !visited[n] {
			dfs(n)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i], ",") < strings.Join(cycles[j], ",")
	})
	return cycles
}

func indexOf(s []string, target string) int {
	for i, v := range s {
		if v == target {
			return i
		}
	}
	return -1
}

// canonicalizeCycle rotates a cycle so it starts at its lexicographically
// smallest element, giving every rotation of the same cycle an identical
// representation for de-duplication.
func canonicalizeCycle(cycle []string) []string {
	if len(cycle) == 0 {
		return cycle
	}
	minIdx := 0
	for i, v := range cycle {
		if v < cycle[minIdx] {
			minIdx = i
		}
	}
	out := make([]string, len(cycle))
	for i := range cycle {
		out[i] = cycle[(minIdx+i)%len(cycle)]
	}
	return out
}

// FoldVolatility assigns a Volatility level to every coupling edge in place.
// A coupling is risky when the thing it depends on churns, so the lookup
// targets the *target* module's file, not the source's (SPEC_FULL.md §4.3,
// scenario S4). For each coupling, every file in the commit-count map is
// tested against the target path under four fuzzy segment-match rules,
// applied in order until one of them produces any match at all; the edge
// then takes the maximum commit count among that rule's matches:
//
//	(a) case-insensitive exact segment equality: a target path segment
//	    equals the file's stem
//	(b) crate-root case: the file stem is the workspace crate name, and the
//	    target path's second segment names that same crate
//	(c) the file stem matches a target segment modulo '-'/'_' substitution
//	(d) the target path textually contains the file stem
//
// A config-file [volatility] override (high/medium/low glob lists matched
// against the coupling's target module path, checked high > medium > low)
// takes precedence over the git-derived value. An `ignore` glob list removes
// matching paths from the commit-count map before the fold runs, rather than
// acting as a per-edge override.
//
// The rule that decided each edge is recorded on Coupling.VolatilityMatchRule
// ("override", "a".."d", or "none") so reports can show why a coupling
// landed where it did.
func FoldVolatility(metrics *domain.ProjectMetrics, overrides *domain.VolatilityOverrides) {
	commitCounts := metrics.CommitCounts
	if overrides != nil && len(overrides.IgnorePatterns) > 0 {
		commitCounts = make(map[string]int, len(metrics.CommitCounts))
		for path, count := range metrics.CommitCounts {
			if ignoredPath(path, overrides.IgnorePatterns) {
				continue
			}
			commitCounts[path] = count
		}
	}

	for i := range metrics.Couplings {
		c := &metrics.Couplings[i]

		if overrides != nil {
			if v, ok := matchOverride(c.TargetModule, overrides); ok {
				c.Volatility = v
				c.VolatilityMatchRule = "override"
				continue
			}
		}

		if count, rule, ok := maxCommitCountForTarget(commitCounts, c.TargetModule, c.TargetCrate); ok {
			c.Volatility = domain.VolatilityFromCount(count)
			c.VolatilityMatchRule = rule
			continue
		}

		c.Volatility = domain.VolatilityLow
		c.VolatilityMatchRule = "none"
	}
}

func ignoredPath(path string, patterns []string) bool {
	slash := filepath.ToSlash(path)
	for _, pat := range patterns {
		if match(pat, slash) {
			return true
		}
	}
	return false
}

// maxCommitCountForTarget implements the four fuzzy segment-match rules
// (a-d) of the volatility fold, trying each in turn against every file in
// commitCounts and returning the maximum count among the first rule that
// matches anything.
func maxCommitCountForTarget(commitCounts map[string]int, targetPath, targetCrate string) (int, string, bool) {
	segments := strings.Split(targetPath, "::")

	type ruleFn func(stem string) bool
	rules := []struct {
		label string
		match ruleFn
	}{
		{"a", func(stem string) bool {
			for _, seg := range segments {
				if strings.EqualFold(seg, stem) {
					return true
				}
			}
			return false
		}},
		{"b", func(stem string) bool {
			if targetCrate == "" || len(segments) < 2 {
				return false
			}
			return strings.EqualFold(stem, targetCrate) && strings.EqualFold(segments[1], targetCrate)
		}},
		{"c", func(stem string) bool {
			normStem := normalizeDashUnderscore(stem)
			for _, seg := range segments {
				if strings.EqualFold(normalizeDashUnderscore(seg), normStem) {
					return true
				}
			}
			return false
		}},
		{"d", func(stem string) bool {
			return stem != "" && strings.Contains(strings.ToLower(targetPath), strings.ToLower(stem))
		}},
	}

	for _, rule := range rules {
		best := 0
		found := false
		for filePath, count := range commitCounts {
			stem := fileStem(filePath)
			if stem == "" || !rule.match(stem) {
				continue
			}
			found = true
			if count > best {
				best = count
			}
		}
		if found {
			return best, rule.label, true
		}
	}
	return 0, "", false
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func normalizeDashUnderscore(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}

// matchOverride checks the target module path against the config's
// [volatility] high/medium/low glob lists, high > medium > low. The ignore
// list is handled upstream by filtering the commit-count map, not here.
func matchOverride(targetPath string, overrides *domain.VolatilityOverrides) (domain.Volatility, bool) {
	if targetPath == "" {
		return 0, false
	}
	slash := filepath.ToSlash(targetPath)
	for _, pat := range overrides.HighPatterns {
		if match(pat, slash) {
			return domain.VolatilityHigh, true
		}
	}
	for _, pat := range overrides.MediumPatterns {
		if match(pat, slash) {
			return domain.VolatilityMedium, true
		}
	}
	for _, pat := range overrides.LowPatterns {
		if match(pat, slash) {
			return domain.VolatilityLow, true
		}
	}
	return 0, false
}
