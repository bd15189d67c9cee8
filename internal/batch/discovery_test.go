package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStub(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o600))
}

func TestDiscoverPDFFiles_EmptyArgs(t *testing.T) {
	files, err := discoverPDFFiles([]string{}, false, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverPDFFiles_SingleFile(t *testing.T) {
	tempDir := t.TempDir()

	pdfFile := filepath.Join(tempDir, "script.pdf")
	txtFile := filepath.Join(tempDir, "notes.txt")
	writeStub(t, pdfFile)
	writeStub(t, txtFile)

	files, err := discoverPDFFiles([]string{pdfFile, txtFile}, false, []string{"*.pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{pdfFile}, files)
}

func TestDiscoverPDFFiles_Directory(t *testing.T) {
	tempDir := t.TempDir()

	writeStub(t, filepath.Join(tempDir, "ep01.pdf"))
	writeStub(t, filepath.Join(tempDir, "ep02.PDF")) // extension match is case-insensitive
	writeStub(t, filepath.Join(tempDir, "notes.txt"))

	files, err := discoverPDFFiles([]string{tempDir}, false, nil, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, files, filepath.Join(tempDir, "ep01.pdf"))
	assert.Contains(t, files, filepath.Join(tempDir, "ep02.PDF"))
}

func TestDiscoverPDFFiles_Recursive(t *testing.T) {
	tempDir := t.TempDir()
	subDir := filepath.Join(tempDir, "season2")
	require.NoError(t, os.MkdirAll(subDir, 0o750))

	writeStub(t, filepath.Join(tempDir, "ep01.pdf"))
	writeStub(t, filepath.Join(subDir, "ep02.pdf"))

	// Non-recursive only sees the top level
	files, err := discoverPDFFiles([]string{tempDir}, false, nil, nil)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	// Recursive descends into subdirectories
	files, err = discoverPDFFiles([]string{tempDir}, true, nil, nil)
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, files, filepath.Join(subDir, "ep02.pdf"))
}

func TestDiscoverPDFFiles_IncludePatterns(t *testing.T) {
	tempDir := t.TempDir()

	writeStub(t, filepath.Join(tempDir, "ep01.pdf"))
	writeStub(t, filepath.Join(tempDir, "draft.pdf"))

	files, err := discoverPDFFiles([]string{tempDir}, false, []string{"ep*.pdf"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tempDir, "ep01.pdf")}, files)
}

func TestDiscoverPDFFiles_ExcludePatterns(t *testing.T) {
	tempDir := t.TempDir()

	writeStub(t, filepath.Join(tempDir, "ep01.pdf"))
	writeStub(t, filepath.Join(tempDir, "draft_ep02.pdf"))

	files, err := discoverPDFFiles([]string{tempDir}, false, nil, []string{"draft_*"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(tempDir, "ep01.pdf")}, files)
}

func TestDiscoverPDFFiles_ExcludeWinsOverInclude(t *testing.T) {
	tempDir := t.TempDir()

	writeStub(t, filepath.Join(tempDir, "ep01.pdf"))

	files, err := discoverPDFFiles([]string{tempDir}, false, []string{"*.pdf"}, []string{"ep01*"})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverPDFFiles_NonExistentPath(t *testing.T) {
	_, err := discoverPDFFiles([]string{"/nonexistent/script.pdf"}, false, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot access")
}

func TestShouldIncludeFile(t *testing.T) {
	assert.True(t, shouldIncludeFile("/a/ep01.pdf", nil, nil))
	assert.True(t, shouldIncludeFile("/a/ep01.pdf", []string{"ep*.pdf"}, nil))
	assert.False(t, shouldIncludeFile("/a/ep01.pdf", []string{"other*.pdf"}, nil))
	assert.False(t, shouldIncludeFile("/a/ep01.pdf", nil, []string{"ep01.pdf"}))
}
