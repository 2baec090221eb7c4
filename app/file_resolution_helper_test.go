package app

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFileReader is a mock implementation of domain.FileReader
type MockFileReader struct {
	mock.Mock
}

func (m *MockFileReader) FileExists(path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}

func (m *MockFileReader) IsValidRustFile(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

func (m *MockFileReader) CollectRustFiles(paths []string, recursive bool, includePatterns []string, excludePatterns []string) ([]string, error) {
	args := m.Called(paths, recursive, includePatterns, excludePatterns)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFileReader) ReadFile(path string) ([]byte, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFileReader) GetFileInfo(path string) (os.FileInfo, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(os.FileInfo), args.Error(1)
}

func (m *MockFileReader) ValidatePaths(paths []string) error {
	args := m.Called(paths)
	return args.Error(0)
}

func TestResolveFilePaths_AllPathsAreFiles(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"file1.rs", "file2.rs", "file3.rs"}

	for _, path := range paths {
		mockReader.On("FileExists", path).Return(true, nil)
	}

	result, err := ResolveFilePaths(
		mockReader,
		paths,
		false,
		[]string{"*.rs"},
		[]string{},
		false,
	)

	assert.NoError(t, err)
	assert.Equal(t, paths, result, "Should return paths directly when all are files")
	mockReader.AssertExpectations(t)
	mockReader.AssertNotCalled(t, "CollectRustFiles")
}

func TestResolveFilePaths_AllPathsAreFilesWithValidation(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"file1.rs", "file2.rs"}

	for _, path := range paths {
		mockReader.On("IsValidRustFile", path).Return(true)
		mockReader.On("FileExists", path).Return(true, nil)
	}

	result, err := ResolveFilePaths(
		mockReader,
		paths,
		false,
		[]string{"*.rs"},
		[]string{},
		true, // validateRustFile enabled
	)

	assert.NoError(t, err)
	assert.Equal(t, paths, result, "Should return paths directly when all are valid Rust files")
	mockReader.AssertExpectations(t)
	mockReader.AssertNotCalled(t, "CollectRustFiles")
}

func TestResolveFilePaths_InvalidRustFileWithValidation(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"file1.rs", "file2.txt"} // file2.txt is not a Rust file

	mockReader.On("IsValidRustFile", "file1.rs").Return(true)
	mockReader.On("FileExists", "file1.rs").Return(true, nil)
	mockReader.On("IsValidRustFile", "file2.txt").Return(false)

	collectedFiles := []string{"file1.rs"}
	mockReader.On("CollectRustFiles", paths, false, []string{"*.rs"}, []string{}).Return(collectedFiles, nil)

	result, err := ResolveFilePaths(
		mockReader,
		paths,
		false,
		[]string{"*.rs"},
		[]string{},
		true, // validateRustFile enabled
	)

	assert.NoError(t, err)
	assert.Equal(t, collectedFiles, result, "Should collect files when validation fails")
	mockReader.AssertExpectations(t)
}

func TestResolveFilePaths_MixedFilesAndDirectories(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"file1.rs", "directory"}

	mockReader.On("FileExists", "file1.rs").Return(true, nil)
	mockReader.On("FileExists", "directory").Return(false, nil)

	collectedFiles := []string{"file1.rs", "directory/file2.rs", "directory/file3.rs"}
	mockReader.On("CollectRustFiles", paths, true, []string{"*.rs"}, []string{"*_test.rs"}).Return(collectedFiles, nil)

	result, err := ResolveFilePaths(
		mockReader,
		paths,
		true,
		[]string{"*.rs"},
		[]string{"*_test.rs"},
		false,
	)

	assert.NoError(t, err)
	assert.Equal(t, collectedFiles, result, "Should collect files when paths include directories")
	mockReader.AssertExpectations(t)
}

func TestResolveFilePaths_FileExistsError(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"file1.rs", "file2.rs"}

	mockReader.On("FileExists", "file1.rs").Return(true, nil)
	mockReader.On("FileExists", "file2.rs").Return(false, errors.New("permission denied"))

	collectedFiles := []string{"file1.rs"}
	mockReader.On("CollectRustFiles", paths, false, []string{"*.rs"}, []string{}).Return(collectedFiles, nil)

	result, err := ResolveFilePaths(
		mockReader,
		paths,
		false,
		[]string{"*.rs"},
		[]string{},
		false,
	)

	assert.NoError(t, err)
	assert.Equal(t, collectedFiles, result, "Should collect files when FileExists returns error")
	mockReader.AssertExpectations(t)
}

func TestResolveFilePaths_CollectFilesError(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"directory"}

	mockReader.On("FileExists", "directory").Return(false, nil)

	collectError := errors.New("failed to collect files")
	mockReader.On("CollectRustFiles", paths, true, []string{"*.rs"}, []string{}).Return([]string(nil), collectError)

	result, err := ResolveFilePaths(
		mockReader,
		paths,
		true,
		[]string{"*.rs"},
		[]string{},
		false,
	)

	assert.Error(t, err)
	assert.Equal(t, collectError, err, "Should return the CollectRustFiles error")
	assert.Nil(t, result)
	mockReader.AssertExpectations(t)
}

func TestResolveFilePaths_EmptyPaths(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{}

	result, err := ResolveFilePaths(
		mockReader,
		paths,
		false,
		[]string{"*.rs"},
		[]string{},
		false,
	)

	assert.NoError(t, err)
	assert.Equal(t, []string{}, result, "Should return empty slice for empty paths")
}

func TestResolveFilePaths_RecursiveWithPatterns(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"src"}

	mockReader.On("FileExists", "src").Return(false, nil)

	includePatterns := []string{"**/*.rs"}
	excludePatterns := []string{"**/target/*.rs"}
	collectedFiles := []string{"src/main.rs", "src/util/helper.rs"}
	mockReader.On("CollectRustFiles", paths, true, includePatterns, excludePatterns).Return(collectedFiles, nil)

	result, err := ResolveFilePaths(
		mockReader,
		paths,
		true,
		includePatterns,
		excludePatterns,
		false,
	)

	assert.NoError(t, err)
	assert.Equal(t, collectedFiles, result)
	mockReader.AssertExpectations(t)
	mockReader.AssertCalled(t, "CollectRustFiles", paths, true, includePatterns, excludePatterns)
}

func TestResolveFilePaths_NoFilesCollected(t *testing.T) {
	mockReader := new(MockFileReader)
	paths := []string{"empty_directory"}

	mockReader.On("FileExists", "empty_directory").Return(false, nil)
	mockReader.On("CollectRustFiles", paths, false, []string{"*.rs"}, []string{}).Return([]string{}, nil)

	result, err := ResolveFilePaths(
		mockReader,
		paths,
		false,
		[]string{"*.rs"},
		[]string{},
		false,
	)

	assert.NoError(t, err)
	assert.Empty(t, result, "Should return empty slice when no files are collected")
	mockReader.AssertExpectations(t)
}
