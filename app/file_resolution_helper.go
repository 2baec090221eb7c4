package app

import "github.com/ludo-technologies/gocoupling/domain"

// ResolveFilePaths resolves file paths for analysis.
// If all paths are already files (not directories), returns them directly.
// Otherwise, collects Rust source files from the provided paths using the
// specified filters.
//
// Parameters:
//   - fileReader: The file reader abstraction for file operations
//   - paths: The input paths to resolve (can be files or directories)
//   - recursive: Whether to recursively collect files from subdirectories
//   - includePatterns: Glob patterns for files to include
//   - excludePatterns: Glob patterns for files to exclude
//   - validateRustFile: If true, also validates paths are Rust files (stricter check)
//
// Returns:
//   - []string: List of resolved Rust file paths
//   - error: Any error encountered during resolution
//
// When the caller already passes individual files, no directory walk is
// made.
func ResolveFilePaths(
	fileReader domain.FileReader,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
	validateRustFile bool,
) ([]string, error) {
	// Check if all paths are already files (not directories). This happens
	// when called with paths pre-collected by an earlier stage.
	allFiles := true
	for _, path := range paths {
		if validateRustFile && !fileReader.IsValidRustFile(path) {
			allFiles = false
			break
		}

		// FileExists returns true only for files, not directories.
		exists, err := fileReader.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	if allFiles {
		return paths, nil
	}

	files, err := fileReader.CollectRustFiles(
		paths,
		recursive,
		includePatterns,
		excludePatterns,
	)
	if err != nil {
		return nil, err
	}

	return files, nil
}
