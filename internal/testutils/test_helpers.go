package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// FileHelpers provides utilities for working with test files
type FileHelpers struct{}

// NewFileHelpers creates a new file helpers instance
func NewFileHelpers() *FileHelpers {
	return &FileHelpers{}
}

// CreateTempFile creates a temporary file with given content
func (f *FileHelpers) CreateTempFile(t *testing.T, filename, content string) string {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, filename)

	err := os.WriteFile(filePath, []byte(content), 0644)
	require.NoError(t, err, "Should create temp file successfully")

	return filePath
}

// CreateTempDir creates a temporary directory structure
func (f *FileHelpers) CreateTempDir(t *testing.T, files map[string]string) string {
	tmpDir := t.TempDir()

	for filename, content := range files {
		filePath := filepath.Join(tmpDir, filename)

		dir := filepath.Dir(filePath)
		if dir != tmpDir {
			err := os.MkdirAll(dir, 0755)
			require.NoError(t, err, "Should create directory %s", dir)
		}

		err := os.WriteFile(filePath, []byte(content), 0644)
		require.NoError(t, err, "Should create file %s", filename)
	}

	return tmpDir
}

// AssertFileContent asserts that path exists and holds exactly expected.
func (f *FileHelpers) AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err, "Should read %s", path)
	assert.Equal(t, expected, string(content))
}

// AssertMode asserts the permission bits of path.
func (f *FileHelpers) AssertMode(t *testing.T, path string, expected os.FileMode) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err, "Should stat %s", path)
	assert.Equal(t, expected, info.Mode().Perm())
}

// AssertNotExists asserts that nothing exists at path.
func (f *FileHelpers) AssertNotExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "%s should not exist", path)
}
