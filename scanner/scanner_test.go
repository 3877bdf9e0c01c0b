package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectScanner(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	files := map[string]string{
		"src/A.java":            "class A {}",
		"src/app/B.java":        "class B {}",
		"src/notes.txt":         "This is a text file",
		"build/Generated.java":  "class Generated {}",
		".git/objects/X.java":   "class X {}",
		"src/app/sub/C.java":    "class C {}",
		"module-info.java.orig": "module m {}",
	}

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}

	scannedFiles, err := New(tempDir, ".java").SkipDir("build").Scan()
	require.NoError(t, err)

	var paths []string
	for _, file := range scannedFiles {
		paths = append(paths, file.Path)
		assert.Greater(t, file.Size, int64(0), "File size should be greater than 0")
	}
	assert.Equal(t, []string{
		filepath.Join(tempDir, "src/A.java"),
		filepath.Join(tempDir, "src/app/B.java"),
		filepath.Join(tempDir, "src/app/sub/C.java"),
	}, paths)

	all, err := New(filepath.Join(tempDir, "src")).Scan()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestScanMissingRoot(t *testing.T) {
	t.Parallel()
	_, err := New(filepath.Join(t.TempDir(), "missing"), ".java").Scan()
	assert.Error(t, err)
}
