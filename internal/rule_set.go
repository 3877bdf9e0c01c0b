package internal

import (
	"fmt"

	"github.com/gnolang/jcleanup/internal/edit"
	"github.com/gnolang/jcleanup/internal/java"
	"github.com/gnolang/jcleanup/internal/nolint"
	"github.com/gnolang/jcleanup/internal/rewrite"
	tt "github.com/gnolang/jcleanup/internal/types"
)

// SourceFile is a parsed and resolved Java file handed to the rules.
type SourceFile struct {
	Filename string
	Source   []byte
	Unit     *java.CompilationUnit
	Mode     edit.Mode
	Nolint   *nolint.Manager

	text string
}

func newSourceFile(filename string, source []byte, unit *java.CompilationUnit, mode edit.Mode) *SourceFile {
	return &SourceFile{
		Filename: filename,
		Source:   source,
		Unit:     unit,
		Mode:     mode,
		Nolint:   nolint.ParseComments(filename, source, unit),
		text:     string(source),
	}
}

// Position converts a byte offset of the source into a position.
func (f *SourceFile) Position(offset int) tt.Position {
	line, col := java.LineColumn(f.text, offset)
	return tt.Position{Filename: f.Filename, Offset: offset, Line: line, Column: col}
}

// LintRule defines the interface for all rewrite rules.
type LintRule interface {
	// Check runs the rule on the given file and returns the rewritten source
	// along with one issue per applied change.
	Check(f *SourceFile) (string, []tt.Issue, error)

	// Name returns the name of the rule.
	Name() string

	Severity() tt.Severity
	SetSeverity(tt.Severity)
}

// InstanceofPatternRule replaces "if (x instanceof T)" followed by casts of x
// with a pattern binding.
type InstanceofPatternRule struct {
	severity tt.Severity
}

func NewInstanceofPatternRule() LintRule {
	return &InstanceofPatternRule{severity: tt.SeverityWarning}
}

func (r *InstanceofPatternRule) Check(f *SourceFile) (string, []tt.Issue, error) {
	opts := rewrite.Options{
		Mode: f.Mode,
		Skip: func(c rewrite.Candidate) bool {
			return f.Nolint.IsNolint(f.Position(c.If.Pos()), r.Name())
		},
	}
	updated, _, applied := rewrite.Rewrite(f.Unit, f.Source, opts)

	issues := make([]tt.Issue, 0, len(applied))
	for _, c := range applied {
		issues = append(issues, tt.Issue{
			Rule:       r.Name(),
			Category:   "style",
			Filename:   f.Filename,
			Message:    fmt.Sprintf("instanceof test can bind %q instead of casting %s", c.Name, java.Text(f.Source, c.Operand)),
			Suggestion: c.Condition(f.Source),
			Note:       castNote(len(c.Casts)),
			Start:      f.Position(c.Test.Pos()),
			End:        f.Position(c.Test.End() - 1),
			Severity:   r.severity,
		})
	}
	return updated, issues, nil
}

func castNote(n int) string {
	if n == 1 {
		return "1 cast replaced by the binding"
	}
	return fmt.Sprintf("%d casts replaced by the binding", n)
}

func (r *InstanceofPatternRule) Name() string {
	return "instanceof-pattern"
}

func (r *InstanceofPatternRule) Severity() tt.Severity {
	return r.severity
}

func (r *InstanceofPatternRule) SetSeverity(severity tt.Severity) {
	r.severity = severity
}
