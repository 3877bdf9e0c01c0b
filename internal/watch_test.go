package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWatchedEvent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		event    fsnotify.Event
		expected bool
	}{
		{fsnotify.Event{Name: "A.java", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "A.java", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "A.java", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "A.java", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "A.kt", Op: fsnotify.Write}, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, isWatchedEvent(tc.event), tc.event.String())
	}
}

func TestEngine_Watch(t *testing.T) {
	t.Parallel()
	dir := createTempDir(t, "watch_test")

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	results := make(chan *Result, 16)
	require.NoError(t, engine.StartWatching([]string{dir}, func(res *Result, err error) {
		if err == nil {
			results <- res
		}
	}))
	assert.Error(t, engine.StartWatching([]string{dir}, nil))

	filename := filepath.Join(dir, "A.java")
	require.NoError(t, os.WriteFile(filename, []byte(cachedSource), 0o644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case res := <-results:
			assert.Equal(t, filename, res.Filename)
			if !res.Changed {
				// the file was caught half written
				continue
			}
			assert.Len(t, res.Issues, 1)
		case <-timeout:
			t.Fatal("no result from watcher")
		}
		break
	}

	require.NoError(t, engine.StopWatching())
	assert.NoError(t, engine.StopWatching())
}

func TestIsSkippedDir(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		expected bool
	}{
		{"src", false},
		{".", false},
		{"..", false},
		{".git", true},
		{".idea", true},
		{"target", true},
		{"build", true},
		{"node_modules", true},
		{"builder", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, IsSkippedDir(tc.name), tc.name)
	}
}

func TestEngine_WatchDirectories(t *testing.T) {
	t.Parallel()
	dir := createTempDir(t, "watch_dirs_test")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "target", "classes"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	results := make(chan *Result, 64)
	require.NoError(t, engine.StartWatching([]string{dir}, func(res *Result, err error) {
		if err == nil {
			results <- res
		}
	}))
	defer func() { assert.NoError(t, engine.StopWatching()) }()

	skipped := []string{
		filepath.Join(dir, "target", "classes", "A.java"),
		filepath.Join(dir, ".git", "A.java"),
	}
	for _, f := range skipped {
		require.NoError(t, os.WriteFile(f, []byte(cachedSource), 0o644))
	}

	// a directory created after the watch started
	newDir := filepath.Join(dir, "src", "demo")
	require.NoError(t, os.MkdirAll(newDir, 0o755))
	created := filepath.Join(newDir, "A.java")
	require.NoError(t, os.WriteFile(created, []byte(cachedSource), 0o644))

	timeout := time.After(5 * time.Second)
	seen := false
	for !seen {
		select {
		case res := <-results:
			assert.NotContains(t, skipped, res.Filename)
			seen = res.Filename == created && res.Changed
		case <-timeout:
			t.Fatal("no result for the file in the new directory")
		}
	}

	drain := time.After(3 * watchDebounce)
	for {
		select {
		case res := <-results:
			assert.NotContains(t, skipped, res.Filename)
		case <-drain:
			return
		}
	}
}
