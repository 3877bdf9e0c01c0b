package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/jcleanup/cleanup"
	"github.com/gnolang/jcleanup/internal"
	"github.com/gnolang/jcleanup/internal/fixer"
)

var dryRun bool

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Rewrite instanceof checks in place",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide file or directory paths")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		engine, config, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer closeEngine(engine)

		return runAutoFix(ctx, engine, args, processOptions(config), dryRun, cmd.OutOrStdout())
	},
}

func init() {
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run in dry-run mode (show fixes without applying them)")
	fixCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules to ignore")
	fixCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
}

// runAutoFix rewrites every file below paths. Files that cannot be written are
// logged; the first such error is returned once all files were handled.
func runAutoFix(ctx context.Context, engine cleanup.Engine, paths []string, opts cleanup.ProcessOptions, dryRun bool, out io.Writer) error {
	results, err := cleanup.ProcessFiles(ctx, logger, engine, paths, opts, cleanup.ProcessFile)
	if err != nil {
		return fmt.Errorf("error processing files: %w", err)
	}
	return applyFixes(fixer.New(dryRun, out), results)
}

func applyFixes(fix *fixer.Fixer, results []*internal.Result) error {
	var firstErr error
	for _, res := range results {
		if err := fix.Fix(res); err != nil {
			logger.Error("error fixing file", zap.String("file", res.Filename), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
