package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/jcleanup/internal/edit"
	tt "github.com/gnolang/jcleanup/internal/types"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	t.Run("missing file yields defaults", func(t *testing.T) {
		config, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
		assert.Equal(t, edit.Atomic, config.Mode())
		assert.Greater(t, config.WorkerCount(), 0)
	})

	t.Run("full file", func(t *testing.T) {
		path := filepath.Join(dir, "full.yaml")
		writeFiles(t, dir, map[string]string{"full.yaml": `name: demo
rules:
  instanceof-pattern:
    severity: error
atomic: false
source: "17"
profile: cleanup.xml
cache_dir: .cache
workers: 3
ignore_paths:
  - generated
`})
		config, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "demo", config.Name)
		assert.Equal(t, tt.SeverityError, config.Rules["instanceof-pattern"].Severity)
		assert.Equal(t, edit.Permissive, config.Mode())
		assert.Equal(t, "17", config.Source)
		assert.Equal(t, "cleanup.xml", config.Profile)
		assert.Equal(t, ".cache", config.CacheDir)
		assert.Equal(t, 3, config.WorkerCount())
		assert.Equal(t, []string{"generated"}, config.IgnorePaths)
	})

	t.Run("empty file", func(t *testing.T) {
		writeFiles(t, dir, map[string]string{"empty.yaml": ""})
		config, err := LoadConfig(filepath.Join(dir, "empty.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("unknown field", func(t *testing.T) {
		writeFiles(t, dir, map[string]string{"bad.yaml": "colour: red\n"})
		_, err := LoadConfig(filepath.Join(dir, "bad.yaml"))
		assert.Error(t, err)
	})
}

func TestParseSourceLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"1.8", 8, false},
		{"11", 11, false},
		{" 17 ", 17, false},
		{"21.0.1", 21, false},
		{"latest", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		level, err := ParseSourceLevel(tc.input)
		if tc.wantErr {
			assert.Error(t, err, tc.input)
			continue
		}
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.expected, level, tc.input)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"src/app/shapes/Shape.java": shapeSource,
		"src/app/User.java":         userSource,
	})

	engine, config, err := New(context.Background(), nil, dir, filepath.Join(dir, DefaultConfigFile))
	require.NoError(t, err)
	assert.Equal(t, "jcleanup", config.Name)

	// the index lets Shape resolve through the wildcard import
	res, err := engine.Run(filepath.Join(dir, "src/app/User.java"))
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Contains(t, res.Updated, "if (o instanceof Shape shape) {")
}

func TestNewGating(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		config  string
		files   map[string]string
		changed bool
	}{
		{
			name:    "profile enables the rule",
			config:  "profile: cleanup.xml\n",
			files:   map[string]string{"cleanup.xml": `<profiles><profile><setting id="cleanup.instanceof" value="true"/></profile></profiles>`},
			changed: true,
		},
		{
			name:    "profile disables the rule",
			config:  "profile: cleanup.xml\n",
			files:   map[string]string{"cleanup.xml": `<profiles><profile><setting id="cleanup.instanceof" value="false"/></profile></profiles>`},
			changed: false,
		},
		{
			name:    "old source level",
			config:  "source: \"1.8\"\n",
			changed: false,
		},
		{
			name:    "recent source level",
			config:  "source: \"17\"\n",
			changed: true,
		},
		{
			name:    "severity off",
			config:  "rules:\n  instanceof-pattern:\n    severity: off\n",
			changed: false,
		},
		{
			name:    "ignored path",
			config:  "ignore_paths:\n  - src/app\n",
			changed: false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			files := map[string]string{
				"src/app/shapes/Shape.java": shapeSource,
				"src/app/User.java":         userSource,
				DefaultConfigFile:           tc.config,
			}
			for k, v := range tc.files {
				files[k] = v
			}
			writeFiles(t, dir, files)

			engine, _, err := New(context.Background(), nil, dir, filepath.Join(dir, DefaultConfigFile))
			require.NoError(t, err)

			// ignore patterns match paths as they are passed in
			res, err := engine.Run(filepath.Join("src", "app", "User.java"))
			if err != nil {
				res, err = engine.RunSource(filepath.Join("src", "app", "User.java"), []byte(userSource))
			}
			require.NoError(t, err)
			assert.Equal(t, tc.changed, res.Changed)
		})
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"unknown-rule.yaml": "rules:\n  no-such-rule:\n    severity: error\n",
		"bad-source.yaml":   "source: latest\n",
		"missing-prof.yaml": "profile: nowhere.xml\n",
		"broken-yaml.yaml":  "rules: [\n",
		"bad-severity.yaml": "rules:\n  instanceof-pattern:\n    severity: loud\n",
	})

	for _, name := range []string{"unknown-rule.yaml", "bad-source.yaml", "missing-prof.yaml", "broken-yaml.yaml", "bad-severity.yaml"} {
		_, _, err := New(context.Background(), nil, dir, filepath.Join(dir, name))
		assert.Error(t, err, name)
	}
}

func TestNewWithCache(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"src/app/shapes/Shape.java": shapeSource,
		"src/app/User.java":         userSource,
		DefaultConfigFile:           "cache_dir: .cache\n",
	})

	engine, _, err := New(context.Background(), nil, dir, filepath.Join(dir, DefaultConfigFile))
	require.NoError(t, err)
	_, err = engine.Run(filepath.Join(dir, "src/app/User.java"))
	require.NoError(t, err)
	require.NoError(t, engine.Close())

	_, err = os.Stat(filepath.Join(dir, ".cache"))
	assert.NoError(t, err)
}

func TestNewWithCacheProfileEdit(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"src/app/shapes/Shape.java": shapeSource,
		"src/app/User.java":         userSource,
		"cleanup.xml":               `<profiles><profile><setting id="cleanup.instanceof" value="true"/></profile></profiles>`,
		DefaultConfigFile:           "cache_dir: .cache\nprofile: cleanup.xml\n",
	})
	configPath := filepath.Join(dir, DefaultConfigFile)
	userPath := filepath.Join(dir, "src/app/User.java")

	engine, _, err := New(context.Background(), nil, dir, configPath)
	require.NoError(t, err)
	res, err := engine.Run(userPath)
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.NoError(t, engine.Close())

	writeFiles(t, dir, map[string]string{
		"cleanup.xml": `<profiles><profile><setting id="cleanup.instanceof" value="false"/></profile></profiles>`,
	})

	engine, _, err = New(context.Background(), nil, dir, configPath)
	require.NoError(t, err)
	res, err = engine.Run(userPath)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Empty(t, res.Issues)
	require.NoError(t, engine.Close())
}
