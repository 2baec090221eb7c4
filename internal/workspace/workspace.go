// Package workspace loads Cargo workspace manifests so the aggregator can
// compute crate-aware distance between modules living in different
// workspace members.
package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"

	"github.com/ludo-technologies/gocoupling/domain"
)

type cargoManifest struct {
	Package *struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Workspace *struct {
		Members         []string `toml:"members"`
		ExcludeMembers  []string `toml:"exclude"`
	} `toml:"workspace"`
}

// Load reads Cargo.toml at root and, if it declares a [workspace], resolves
// each member glob into a crate name -> source root mapping. A single-crate
// project (no [workspace] table) returns a WorkspaceManifest with one
// implicit member.
func Load(root string) (*domain.WorkspaceManifest, error) {
	data, err := os.ReadFile(filepath.Join(root, "Cargo.toml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.NewConfigError("failed to read Cargo.toml", err)
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, domain.NewConfigError("failed to parse Cargo.toml", err)
	}

	result := &domain.WorkspaceManifest{
		Root:        root,
		MemberRoots: make(map[string]string),
	}

	if manifest.Workspace == nil {
		name := filepath.Base(root)
		if manifest.Package != nil && manifest.Package.Name != "" {
			name = manifest.Package.Name
		}
		result.Members = []string{name}
		result.MemberRoots[name] = "src"
		return result, nil
	}

	excluded := make(map[string]bool)
	for _, e := range manifest.Workspace.ExcludeMembers {
		excluded[e] = true
	}

	for _, pattern := range manifest.Workspace.Members {
		matches, err := doublestar.Glob(os.DirFS(root), pattern)
		if err != nil {
			continue
		}
		for _, memberDir := range matches {
			if excluded[memberDir] {
				continue
			}
			memberManifestPath := filepath.Join(root, memberDir, "Cargo.toml")
			memberData, err := os.ReadFile(memberManifestPath)
			if err != nil {
				continue
			}
			var memberManifest cargoManifest
			if err := toml.Unmarshal(memberData, &memberManifest); err != nil {
				continue
			}
			name := filepath.Base(memberDir)
			if memberManifest.Package != nil && memberManifest.Package.Name != "" {
				name = memberManifest.Package.Name
			}
			result.Members = append(result.Members, name)
			result.MemberRoots[name] = strings.TrimSuffix(memberDir, "/") + "/src"
		}
	}

	return result, nil
}
