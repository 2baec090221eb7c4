package domain

import "os"

// FileReader defines the interface for discovering and reading Rust source
// files (SPEC_FULL.md §4.3's file-discovery step).
type FileReader interface {
	// CollectRustFiles walks the given paths, following symlinks, skipping
	// any path component equal to "target" or beginning with ".", and
	// returns the sorted list of matching *.rs files.
	CollectRustFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file.
	ReadFile(path string) ([]byte, error)

	// IsValidRustFile checks whether a path has the source extension.
	IsValidRustFile(path string) bool

	// FileExists checks if a file (not a directory) exists at path.
	FileExists(path string) (bool, error)

	// GetFileInfo returns os.FileInfo for a path.
	GetFileInfo(path string) (os.FileInfo, error)

	// ValidatePaths checks that every path exists and is accessible.
	ValidatePaths(paths []string) error
}
