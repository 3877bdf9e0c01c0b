package cleanup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFiles creates files below dir from a path to content map.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(dir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
}

const shapeSource = `package app.shapes;

public class Shape {}
`

const userSource = `package app;

import app.shapes.*;

class User {
    void draw(Object o) {
        if (o instanceof Shape) {
            ((Shape) o).toString();
        }
    }
}
`
