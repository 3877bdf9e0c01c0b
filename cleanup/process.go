package cleanup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/jcleanup/internal"
	"github.com/gnolang/jcleanup/scanner"
)

// ProcessOptions tunes ProcessFiles.
type ProcessOptions struct {
	// Workers bounds the files processed in parallel; 0 means one per CPU.
	Workers int

	// Progress receives a progress bar when set.
	Progress io.Writer
}

func (o ProcessOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// Processor runs an engine on one file.
type Processor func(Engine, string) (*internal.Result, error)

// ProcessFile runs the engine on a file.
func ProcessFile(engine Engine, filePath string) (*internal.Result, error) {
	return engine.Run(filePath)
}

// ProcessSource runs the engine on in-memory source.
func ProcessSource(engine Engine, filename string, source []byte) (*internal.Result, error) {
	return engine.RunSource(filename, source)
}

// ProcessPath processes a file or every Java file below a directory.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	path string,
	opts ProcessOptions,
	processor Processor,
) ([]*internal.Result, error) {
	return ProcessFiles(ctx, logger, engine, []string{path}, opts, processor)
}

// ProcessFiles processes every Java file named by paths, directories included.
// Files that fail are logged and left out. Results are sorted by filename; on
// cancellation the results gathered so far are returned with the context error.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine Engine,
	paths []string,
	opts ProcessOptions,
	processor Processor,
) ([]*internal.Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := collectFiles(paths)
	if err != nil {
		return nil, err
	}

	bar := newProgressBar(len(files), opts.Progress)

	var (
		mu      sync.Mutex
		results = make([]*internal.Result, 0, len(files))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for _, file := range files {
		file := file
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := processor(engine, file)
			if bar != nil {
				_ = bar.Add(1)
			}
			if err != nil {
				logger.Error("Error processing file", zap.String("file", file), zap.Error(err))
				return nil
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if bar != nil {
		_ = bar.Finish()
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Filename < results[j].Filename })

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	if w == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("rewriting"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// collectFiles expands paths into the Java files they name, without duplicates.
func collectFiles(paths []string) ([]string, error) {
	var (
		files []string
		seen  = make(map[string]bool)
	)
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", path, err)
		}

		if !info.IsDir() {
			if hasDesiredExtension(path) {
				add(path)
			}
			continue
		}

		scanned, err := scanner.New(path, ".java").SkipDir(internal.SkippedDirs...).Scan()
		if err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", path, err)
		}
		for _, f := range scanned {
			add(f.Path)
		}
	}
	return files, nil
}

func hasDesiredExtension(path string) bool {
	return filepath.Ext(path) == ".java"
}
