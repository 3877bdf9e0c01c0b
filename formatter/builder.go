package formatter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/gnolang/jcleanup/internal"
	tt "github.com/gnolang/jcleanup/internal/types"
)

const tabWidth = 8

// InstanceofPattern issues render the rewritten line as their suggestion.
const InstanceofPattern = "instanceof-pattern"

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	infoStyle       = color.New(color.FgHiCyan, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
	addedStyle      = color.New(color.FgGreen)
	removedStyle    = color.New(color.FgRed)
	noStyle         = color.New(color.FgWhite)
)

// GenerateFormattedIssue renders issues against the source they were found in.
func GenerateFormattedIssue(issues []tt.Issue, source *internal.SourceCode) string {
	var b strings.Builder
	for _, issue := range issues {
		newIssueView(issue, source.Lines).write(&b)
	}
	return b.String()
}

// issueView holds one issue together with the layout derived from the source.
type issueView struct {
	issue   tt.Issue
	lines   []string
	inRange bool
	width   int
	gutter  string
	indent  string
}

func newIssueView(issue tt.Issue, lines []string) *issueView {
	v := &issueView{
		issue:   issue,
		lines:   lines,
		inRange: isValidLineRange(issue.Start.Line, issue.End.Line, lines),
		width:   len(fmt.Sprint(issue.End.Line)),
	}
	v.gutter = strings.Repeat(" ", v.width+1)
	if v.inRange {
		v.indent = findCommonIndent(lines[issue.Start.Line-1 : issue.End.Line])
	}
	return v
}

func (v *issueView) write(b *strings.Builder) {
	v.writeHeader(b)
	v.writeSnippet(b)
	v.writeUnderline(b)

	suggested := v.issue.Suggestion
	if v.issue.Rule == InstanceofPattern {
		suggested = replacementLine(v.issue, v.lines, v.indent)
	}
	v.writeSuggestion(b, suggested)

	if v.issue.Note != "" {
		b.WriteString("\n" + suggestionStyle.Sprint("Note: ") + v.issue.Note + "\n")
	}
	b.WriteString("\n")
}

func (v *issueView) writeHeader(b *strings.Builder) {
	switch v.issue.Severity {
	case tt.SeverityError:
		b.WriteString(errorStyle.Sprint("error: "))
	case tt.SeverityWarning:
		b.WriteString(warningStyle.Sprint("warning: "))
	case tt.SeverityInfo:
		b.WriteString(infoStyle.Sprint("info: "))
	}
	b.WriteString(ruleStyle.Sprint(v.issue.Rule) + "\n")
	b.WriteString(lineStyle.Sprintf("%s--> ", strings.Repeat(" ", v.width)))
	b.WriteString(fileStyle.Sprintf("%s:%d:%d", v.issue.Filename, v.issue.Start.Line, v.issue.Start.Column) + "\n")
}

func (v *issueView) writeSnippet(b *strings.Builder) {
	b.WriteString(lineStyle.Sprintf("%s|", v.gutter) + "\n")
	if !v.inRange {
		return
	}
	for n := v.issue.Start.Line; n <= v.issue.End.Line; n++ {
		v.writeNumbered(b, n, noStyle.Sprint(strings.TrimPrefix(v.lines[n-1], v.indent)))
	}
}

func (v *issueView) writeUnderline(b *strings.Builder) {
	b.WriteString(lineStyle.Sprintf("%s| ", v.gutter))
	if !v.inRange {
		b.WriteString(messageStyle.Sprint(v.issue.Message) + "\n")
		return
	}

	shift := calculateVisualColumn(v.indent, len(v.indent)+1)
	from := calculateVisualColumn(v.lines[v.issue.Start.Line-1], v.issue.Start.Column) - shift
	if from < 0 {
		from = 0
	}
	to := calculateVisualColumn(v.lines[v.issue.End.Line-1], v.issue.End.Column) - shift
	length := to - from + 1
	if length < 1 {
		length = 1
	}

	b.WriteString(strings.Repeat(" ", from) + messageStyle.Sprint(strings.Repeat("~", length)) + "\n")
	b.WriteString(lineStyle.Sprintf("%s= ", v.gutter) + messageStyle.Sprint(v.issue.Message) + "\n")
}

func (v *issueView) writeSuggestion(b *strings.Builder, text string) {
	if text == "" {
		return
	}
	b.WriteString("\n" + suggestionStyle.Sprint("Suggestion:") + "\n")
	b.WriteString(lineStyle.Sprintf("%s|", v.gutter) + "\n")
	for i, line := range strings.Split(text, "\n") {
		v.writeNumbered(b, v.issue.Start.Line+i, line)
	}
	b.WriteString(lineStyle.Sprintf("%s|", v.gutter) + "\n")
}

func (v *issueView) writeNumbered(b *strings.Builder, n int, text string) {
	b.WriteString(lineStyle.Sprintf("%*d | ", v.width, n) + text + "\n")
}

// replacementLine returns the issue line with the flagged range replaced by
// the suggestion, or the bare suggestion when the issue spans several lines.
func replacementLine(issue tt.Issue, lines []string, commonIndent string) string {
	if issue.Suggestion == "" || issue.Start.Line != issue.End.Line || !isValidLineRange(issue.Start.Line, issue.End.Line, lines) {
		return issue.Suggestion
	}
	line := lines[issue.Start.Line-1]
	start, end := issue.Start.Column-1, issue.End.Column
	if start < 0 || end > len(line) || start > end {
		return issue.Suggestion
	}
	return strings.TrimPrefix(line[:start]+issue.Suggestion+line[end:], commonIndent)
}

func isValidLineRange(startLine, endLine int, lines []string) bool {
	return startLine > 0 && startLine <= endLine && endLine <= len(lines)
}

// calculateVisualColumn returns the 0-based display column of the 1-based
// byte column, expanding tabs.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visual := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visual += tabWidth - visual%tabWidth
		} else {
			visual++
		}
	}
	return visual
}

// findCommonIndent returns the leading whitespace shared by all non-blank lines.
func findCommonIndent(lines []string) string {
	indent, seen := "", false
	for _, line := range lines {
		body := strings.TrimLeft(line, " \t")
		if body == "" {
			continue
		}
		lead := line[:len(line)-len(body)]
		if !seen {
			indent, seen = lead, true
			continue
		}
		n := 0
		for n < len(indent) && n < len(lead) && indent[n] == lead[n] {
			n++
		}
		indent = indent[:n]
	}
	return indent
}
