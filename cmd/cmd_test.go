package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/jcleanup/cleanup"
	"github.com/gnolang/jcleanup/internal"
	"github.com/gnolang/jcleanup/internal/fixer"
	tt "github.com/gnolang/jcleanup/internal/types"
)

const stringSource = `class Strings {
    int size(Object o) {
        if (o instanceof String) {
            return ((String) o).length();
        }
        return 0;
    }
}
`

const stringFixed = `class Strings {
    int size(Object o) {
        if (o instanceof String string) {
            return string.length();
        }
        return 0;
    }
}
`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func writeJava(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSplitList(t *testing.T) {
	t.Parallel()
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
}

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".jcleanup.yaml")

	require.NoError(t, initConfigurationFile(path, false))
	config, err := cleanup.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "jcleanup", config.Name)
	assert.Equal(t, "17", config.Source)
	require.NotNil(t, config.Atomic)
	assert.True(t, *config.Atomic)
	assert.Equal(t, tt.SeverityWarning, config.Rules["instanceof-pattern"].Severity)

	assert.Error(t, initConfigurationFile(path, false))
	assert.NoError(t, initConfigurationFile(path, true))
}

func TestPrintIssues(t *testing.T) {
	t.Parallel()
	engine, err := internal.NewEngine(nil)
	require.NoError(t, err)
	res, err := engine.RunSource("Strings.java", []byte(stringSource))
	require.NoError(t, err)
	clean := &internal.Result{Filename: "Clean.java"}
	results := []*internal.Result{clean, res}

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, printIssues(&out, results, false, ""))
		assert.Contains(t, out.String(), "instanceof-pattern")
		assert.Contains(t, out.String(), "Strings.java:3:13")
		assert.NotContains(t, out.String(), "Clean.java")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, printIssues(&out, results, true, ""))
		var decoded map[string][]tt.Issue
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		require.Len(t, decoded["Strings.java"], 1)
		assert.Equal(t, "instanceof-pattern", decoded["Strings.java"][0].Rule)
		assert.NotContains(t, decoded, "Clean.java")
	})

	t.Run("json file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "issues.json")
		var out bytes.Buffer
		require.NoError(t, printIssues(&out, results, true, path))
		assert.Empty(t, out.String())
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"Strings.java"`)
	})
}

func TestRunAutoFix(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := writeJava(t, dir, "src/Strings.java", stringSource)

	engine, err := internal.NewEngine(nil)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runAutoFix(context.Background(), engine, []string{dir}, cleanup.ProcessOptions{Workers: 1}, true, &out))
	assert.Contains(t, out.String(), "+        if (o instanceof String string) {")
	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, stringSource, string(content))

	out.Reset()
	require.NoError(t, runAutoFix(context.Background(), engine, []string{dir}, cleanup.ProcessOptions{Workers: 1}, false, &out))
	content, err = os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, stringFixed, string(content))
	assert.Contains(t, out.String(), "Strings.java")

	// a second pass finds nothing left to do
	out.Reset()
	require.NoError(t, runAutoFix(context.Background(), engine, []string{dir}, cleanup.ProcessOptions{Workers: 1}, false, &out))
	assert.Empty(t, out.String())
}

func TestApplyFixesStale(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := writeJava(t, dir, "Strings.java", stringSource)

	engine, err := internal.NewEngine(nil)
	require.NoError(t, err)
	res, err := engine.Run(file)
	require.NoError(t, err)

	writeJava(t, dir, "Strings.java", "class Strings {}\n")
	err = applyFixes(fixer.New(false, &bytes.Buffer{}), []*internal.Result{res})
	assert.Error(t, err)
}

func TestRunWatch(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	engine, err := internal.NewEngine(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, engine, []string{dir}, true) }()

	file := filepath.Join(dir, "Strings.java")
	assert.Eventually(t, func() bool {
		// rewrite until the watcher has picked the file up
		content, err := os.ReadFile(file)
		if err == nil && string(content) == stringFixed {
			return true
		}
		_ = os.WriteFile(file, []byte(stringSource), 0o644)
		return false
	}, 5*time.Second, 300*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

// TestLintCommand runs the command tree end to end. It shares the package
// level flag variables, so it must not run in parallel.
func TestLintCommand(t *testing.T) {
	dir := t.TempDir()
	writeJava(t, dir, "Strings.java", stringSource)
	jsonPath := filepath.Join(dir, "issues.json")
	configPath := filepath.Join(dir, "missing.yaml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"lint", "--config", configPath, "--json", "-o", jsonPath, dir})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		lintJsonOutput, outPath = false, ""
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.True(t, IsSilent(err))

	content, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Strings.java")

	out.Reset()
	rootCmd.SetArgs([]string{"rules"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "instanceof-pattern")
	assert.Contains(t, out.String(), "WARNING")
}
