package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/jcleanup/cleanup"
	"github.com/gnolang/jcleanup/formatter"
	"github.com/gnolang/jcleanup/internal"
	tt "github.com/gnolang/jcleanup/internal/types"
)

var (
	ignoreRules    string
	ignorePaths    string
	lintJsonOutput bool
	outPath        string
	showProgress   bool
)

// errIssuesFound makes the process exit with status 1 without printing an error.
var errIssuesFound = errors.New("issues found")

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Report instanceof checks that can use pattern matching",
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

		results, err := cleanup.ProcessFiles(ctx, logger, engine, args, processOptions(config), cleanup.ProcessFile)
		if err != nil {
			return fmt.Errorf("error processing files: %w", err)
		}

		issues := collectIssues(results)
		if err := printIssues(cmd.OutOrStdout(), results, lintJsonOutput, outPath); err != nil {
			return err
		}
		if len(issues) > 0 {
			return errIssuesFound
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules to ignore")
	lintCmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	lintCmd.Flags().BoolVar(&lintJsonOutput, "json", false, "Output issues in JSON format")
	lintCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	lintCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar on stderr")
}

// newEngine builds the engine from the configuration file and the
// --ignore and --ignore-paths flags.
func newEngine(ctx context.Context) (*internal.Engine, cleanup.Config, error) {
	engine, config, err := cleanup.New(ctx, logger, ".", cfgFile)
	if err != nil {
		return nil, config, fmt.Errorf("failed to initialize engine: %w", err)
	}

	for _, rule := range splitList(ignoreRules) {
		engine.IgnoreRule(rule)
	}
	for _, path := range splitList(ignorePaths) {
		engine.IgnorePath(path)
	}
	return engine, config, nil
}

func closeEngine(engine *internal.Engine) {
	if err := engine.Close(); err != nil {
		logger.Warn("failed to save cache", zap.Error(err))
	}
}

func processOptions(config cleanup.Config) cleanup.ProcessOptions {
	opts := cleanup.ProcessOptions{Workers: config.WorkerCount()}
	if showProgress {
		opts.Progress = os.Stderr
	}
	return opts
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func collectIssues(results []*internal.Result) []tt.Issue {
	var issues []tt.Issue
	for _, res := range results {
		issues = append(issues, res.Issues...)
	}
	return issues
}

// printIssues writes the issues of results, already sorted by file, either as
// annotated snippets or as JSON keyed by file name.
func printIssues(w io.Writer, results []*internal.Result, isJson bool, jsonOutput string) error {
	if !isJson {
		for _, res := range results {
			if len(res.Issues) == 0 {
				continue
			}
			output := formatter.GenerateFormattedIssue(res.Issues, internal.NewSourceCode(res.Source))
			fmt.Fprintln(w, output)
		}
		return nil
	}

	issuesByFile := make(map[string][]tt.Issue)
	for _, res := range results {
		if len(res.Issues) > 0 {
			issuesByFile[res.Filename] = res.Issues
		}
	}
	d, err := json.Marshal(issuesByFile)
	if err != nil {
		return fmt.Errorf("error marshalling issues to JSON: %w", err)
	}
	if jsonOutput == "" {
		fmt.Fprintln(w, string(d))
		return nil
	}
	if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
		return fmt.Errorf("error writing JSON output file: %w", err)
	}
	return nil
}
