package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/jcleanup/internal"
	"github.com/gnolang/jcleanup/internal/fixer"
)

var watchFix bool

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Check Java files again whenever they are saved",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine, _, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer closeEngine(engine)

		return runWatch(ctx, engine, args, watchFix)
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchFix, "fix", false, "Rewrite files as they change")
	watchCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules to ignore")
	watchCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
}

// runWatch blocks until ctx is done.
func runWatch(ctx context.Context, engine *internal.Engine, dirs []string, fix bool) error {
	var handle internal.ResultHandler
	if fix {
		fx := fixer.New(false, nil)
		handle = func(res *internal.Result, err error) {
			if err != nil {
				return
			}
			if err := fx.Fix(res); err != nil {
				logger.Error("error fixing file", zap.String("file", res.Filename), zap.Error(err))
			}
		}
	}

	if err := engine.StartWatching(dirs, handle); err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}
	logger.Info("watching for changes", zap.Strings("dirs", dirs))

	<-ctx.Done()
	return engine.StopWatching()
}
