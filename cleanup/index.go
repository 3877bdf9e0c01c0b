package cleanup

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/jcleanup/internal/java"
)

// BuildIndex records the package and top-level types of every Java file under
// paths. Files that fail to parse are logged and left out.
func BuildIndex(ctx context.Context, logger *zap.Logger, paths []string, workers int) (*java.Index, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := collectFiles(paths)
	if err != nil {
		return nil, err
	}

	index := java.NewIndex()
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for _, file := range files {
		file := file
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("error reading %s: %w", file, err)
			}
			unit, err := java.Parse(source)
			if err != nil {
				logger.Warn("skipping unparsable file in index", zap.String("file", file), zap.Error(err))
				return nil
			}
			index.AddUnit(unit)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return index, nil
}
