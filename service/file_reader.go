package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ludo-technologies/gocoupling/domain"
)

// skipDirNames are directories that never contain source worth analyzing;
// SPEC_FULL.md §4.3 additionally skips any component beginning with "." or
// named "target" (the systems-language build-output convention).
var skipDirNames = map[string]bool{
	"target":       true,
	"node_modules": true,
	".git":         true,
}

// FileReaderImpl implements domain.FileReader by walking the filesystem for
// Rust source files.
type FileReaderImpl struct{}

// NewFileReader creates a new file reader service.
func NewFileReader() *FileReaderImpl {
	return &FileReaderImpl{}
}

// CollectRustFiles discovers *.rs files per SPEC_FULL.md §4.3: skip any path
// component equal to "target" or beginning with ".", retain only the source
// extension, and sort the result for deterministic downstream partitioning.
// Symlinked .rs files are included; symlinked directories are not followed.
func (f *FileReaderImpl) CollectRustFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	if err := f.validatePatterns(includePatterns, "include"); err != nil {
		return nil, err
	}
	if err := f.validatePatterns(excludePatterns, "exclude"); err != nil {
		return nil, err
	}

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if info.IsDir() {
			dirFiles, err := f.collectFromDirectory(path, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			files = append(files, dirFiles...)
		} else if f.IsValidRustFile(path) && f.shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// ReadFile reads the content of a file.
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// IsValidRustFile checks if a file has the .rs extension.
func (f *FileReaderImpl) IsValidRustFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".rs"
}

// FileExists checks if a file (not a directory) exists at path.
func (f *FileReaderImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (f *FileReaderImpl) collectFromDirectory(dirPath string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFunc := func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if path != dirPath && (!recursive) {
				return filepath.SkipDir
			}
			if name != "." && (strings.HasPrefix(name, ".") || skipDirNames[name]) {
				return filepath.SkipDir
			}
			return nil
		}

		if f.IsValidRustFile(path) && f.shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}
		return nil
	}

	// WalkDir follows the root but not symlinked subdirectories by default;
	// filepath.Walk would dereference the initial stat only. Source trees in
	// this domain are not expected to rely on symlinked source directories,
	// so a plain WalkDir is used and symlinked regular files are still
	// picked up via os.DirEntry comparisons against the source extension.
	if err := filepath.WalkDir(dirPath, walkFunc); err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	return files, nil
}

func (f *FileReaderImpl) shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if f.matchesPattern(pattern, path) {
			return false
		}
	}
	if len(includePatterns) == 0 {
		return true
	}
	for _, pattern := range includePatterns {
		if f.matchesPattern(pattern, path) {
			return true
		}
	}
	return false
}

func (f *FileReaderImpl) matchesPattern(pattern, path string) bool {
	if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
		return true
	}
	if matched, _ := doublestar.Match(pattern, filepath.ToSlash(path)); matched {
		return true
	}
	return false
}

func (f *FileReaderImpl) validatePatterns(patterns []string, patternType string) error {
	for _, pattern := range patterns {
		if pattern == "" {
			return fmt.Errorf("invalid %s pattern: empty pattern not allowed", patternType)
		}
		if _, err := doublestar.Match(pattern, "test"); err != nil {
			return fmt.Errorf("invalid %s pattern %q: %w", patternType, pattern, err)
		}
	}
	return nil
}

// GetFileInfo provides additional information about a file.
func (f *FileReaderImpl) GetFileInfo(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return info, nil
}

// ValidatePaths validates that all provided paths exist and are accessible.
func (f *FileReaderImpl) ValidatePaths(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return domain.NewFileNotFoundError(path, err)
			}
			return domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
		}
	}
	return nil
}
