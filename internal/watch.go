package internal

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SkippedDirs are build output and tooling directories that hold no sources
// worth rewriting.
var SkippedDirs = []string{"build", "target", "out", "bin", "node_modules"}

// IsSkippedDir reports whether a directory of that base name is left out of
// scans: hidden directories and SkippedDirs.
func IsSkippedDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	for _, skipped := range SkippedDirs {
		if name == skipped {
			return true
		}
	}
	return false
}

// watchDebounce groups bursts of writes to one file into a single run.
const watchDebounce = 100 * time.Millisecond

// ResultHandler receives the outcome of every run triggered by the watcher.
type ResultHandler func(res *Result, err error)

// StartWatching runs the engine on every .java file written under dirs and
// passes the outcome to handle. It returns once the watcher is set up.
func (e *Engine) StartWatching(dirs []string, handle ResultHandler) error {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if e.isWatching {
		return fmt.Errorf("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range dirs {
		if _, err := addTree(watcher, dir, true); err != nil {
			watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.isWatching = true
	e.done = make(chan struct{})
	go e.watchLoop(watcher, e.done, handle)
	return nil
}

// StopWatching stops the watcher. Runs still waiting out the debounce are dropped.
func (e *Engine) StopWatching() error {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if !e.isWatching {
		e.log().Warn("not watching")
		return nil
	}

	e.isWatching = false
	close(e.done)
	return e.watcher.Close()
}

func (e *Engine) watchLoop(watcher *fsnotify.Watcher, done <-chan struct{}, handle ResultHandler) {
	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, timer := range pending {
			timer.Stop()
		}
		mu.Unlock()
	}()

	schedule := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		if timer, exists := pending[name]; exists {
			timer.Reset(watchDebounce)
			return
		}
		pending[name] = time.AfterFunc(watchDebounce, func() {
			mu.Lock()
			delete(pending, name)
			mu.Unlock()

			select {
			case <-done:
				return
			default:
			}
			e.handleFileEvent(name, handle)
		})
	}

	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				// files may land in the new directory before it is watched
				files, err := addTree(watcher, event.Name, false)
				if err != nil {
					e.log().Warn("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
				}
				for _, f := range files {
					schedule(f)
				}
				continue
			}
			if isWatchedEvent(event) {
				schedule(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.log().Error("watch error", zap.Error(err))
		}
	}
}

// addTree watches root and every directory below it, leaving out hidden and
// SkippedDirs directories. root itself is always watched when isRoot is set.
// It returns the .java files found on the way.
func addTree(watcher *fsnotify.Watcher, root string, isRoot bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			if filepath.Ext(path) == ".java" {
				files = append(files, path)
			}
			return nil
		}
		if (path != root || !isRoot) && IsSkippedDir(d.Name()) {
			return fs.SkipDir
		}
		return watcher.Add(path)
	})
	return files, err
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isWatchedEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	return filepath.Ext(event.Name) == ".java"
}

func (e *Engine) handleFileEvent(filename string, handle ResultHandler) {
	res, err := e.Run(filename)
	if err != nil {
		e.log().Error("error processing file", zap.String("file", filename), zap.Error(err))
	} else {
		e.reportIssues(res)
	}
	if handle != nil {
		handle(res, err)
	}
}

func (e *Engine) reportIssues(res *Result) {
	if len(res.Issues) == 0 {
		e.log().Info("no issues found", zap.String("file", res.Filename))
		return
	}

	e.log().Info("found issues", zap.String("file", res.Filename), zap.Int("count", len(res.Issues)))
	for _, issue := range res.Issues {
		e.log().Info("issue",
			zap.String("rule", issue.Rule),
			zap.String("position", issue.Start.String()),
			zap.String("message", issue.Message))
	}
}
