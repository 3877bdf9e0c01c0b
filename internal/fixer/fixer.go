package fixer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/gnolang/jcleanup/formatter"
	"github.com/gnolang/jcleanup/internal"
)

type Fixer struct {
	DryRun bool
	Out    io.Writer
}

func New(dryRun bool, out io.Writer) *Fixer {
	if out == nil {
		out = os.Stdout
	}
	return &Fixer{
		DryRun: dryRun,
		Out:    out,
	}
}

// Fix writes the rewritten source of res back to its file, keeping the file
// mode. In dry-run mode it prints a diff instead. Unchanged results are
// skipped. The file must still hold the source the result was computed from.
func (f *Fixer) Fix(res *internal.Result) error {
	if res == nil || !res.Changed {
		return nil
	}

	if f.DryRun {
		fmt.Fprint(f.Out, formatter.GenerateDiff(res.Filename, string(res.Source), res.Updated))
		return nil
	}

	info, err := os.Stat(res.Filename)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	current, err := os.ReadFile(res.Filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if !bytes.Equal(current, res.Source) {
		return fmt.Errorf("%s changed since it was processed", res.Filename)
	}

	if err := os.WriteFile(res.Filename, []byte(res.Updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Fprintln(f.Out, formatter.DiffSummary(res.Filename, string(res.Source), res.Updated))
	return nil
}
