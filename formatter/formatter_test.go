package formatter

import (
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/gnolang/jcleanup/internal"
	tt "github.com/gnolang/jcleanup/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestGenerateFormattedIssue(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"package demo;",
			"",
			"class A {",
			"    void run(Object o) {",
			"        if (o instanceof Foo) {",
			"            ((Foo) o).go();",
			"        }",
			"    }",
			"}",
		},
	}

	issues := []tt.Issue{
		{
			Rule:       "instanceof-pattern",
			Filename:   "A.java",
			Start:      tt.Position{Line: 5, Column: 13},
			End:        tt.Position{Line: 5, Column: 28},
			Message:    `instanceof test can bind "foo" instead of casting o`,
			Suggestion: "o instanceof Foo foo",
			Note:       "1 cast replaced by the binding",
			Severity:   tt.SeverityWarning,
		},
		{
			Rule:     "other-rule",
			Filename: "A.java",
			Start:    tt.Position{Line: 4, Column: 5},
			End:      tt.Position{Line: 4, Column: 8},
			Message:  "plain issue",
			Severity: tt.SeverityError,
		},
	}

	expected := `warning: instanceof-pattern
 --> A.java:5:13
  |
5 | if (o instanceof Foo) {
  |     ~~~~~~~~~~~~~~~~
  = instanceof test can bind "foo" instead of casting o

Suggestion:
  |
5 | if (o instanceof Foo foo) {
  |

Note: 1 cast replaced by the binding

error: other-rule
 --> A.java:4:5
  |
4 | void run(Object o) {
  | ~~~~
  = plain issue

`

	result := GenerateFormattedIssue(issues, code)
	assert.Equal(t, expected, result)
}

func TestGenerateFormattedIssue_MultipleDigitsLineNumbers(t *testing.T) {
	t.Parallel()
	lines := make([]string, 12)
	lines[10] = "\tif (x instanceof Bar) {"
	code := &internal.SourceCode{Lines: lines}

	issues := []tt.Issue{{
		Rule:     "example",
		Filename: "B.java",
		Start:    tt.Position{Line: 11, Column: 6},
		End:      tt.Position{Line: 11, Column: 21},
		Message:  "example issue",
		Severity: tt.SeverityInfo,
	}}

	expected := `info: example
  --> B.java:11:6
   |
11 | if (x instanceof Bar) {
   |     ~~~~~~~~~~~~~~~~
   = example issue

`
	assert.Equal(t, expected, GenerateFormattedIssue(issues, code))
}

func TestGenerateFormattedIssue_OutOfRange(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{Lines: []string{"class A {}"}}
	issues := []tt.Issue{{
		Rule:     "example",
		Filename: "C.java",
		Start:    tt.Position{Line: 7, Column: 1},
		End:      tt.Position{Line: 7, Column: 2},
		Message:  "stale issue",
		Severity: tt.SeverityError,
	}}

	expected := `error: example
 --> C.java:7:1
  |
  | stale issue

`
	assert.Equal(t, expected, GenerateFormattedIssue(issues, code))
}

func TestReplacementLine(t *testing.T) {
	t.Parallel()
	lines := []string{"    if (o instanceof Foo) {"}
	issue := tt.Issue{
		Start:      tt.Position{Line: 1, Column: 9},
		End:        tt.Position{Line: 1, Column: 24},
		Suggestion: "o instanceof Foo foo",
	}
	assert.Equal(t, "if (o instanceof Foo foo) {", replacementLine(issue, lines, "    "))

	issue.End.Line = 2
	assert.Equal(t, "o instanceof Foo foo", replacementLine(issue, lines, "    "))

	issue.Suggestion = ""
	assert.Equal(t, "", replacementLine(issue, lines, "    "))
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, calculateVisualColumn("abc", 1))
	assert.Equal(t, 2, calculateVisualColumn("abc", 3))
	assert.Equal(t, 8, calculateVisualColumn("\tx", 2))
	assert.Equal(t, 9, calculateVisualColumn("ab\tcd", 5))
	assert.Equal(t, 0, calculateVisualColumn("abc", -1))
}

func TestFindCommonIndent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		expected string
		lines    []string
	}{
		{
			name: "whitespace indent",
			lines: []string{
				"    if (foo) {",
				"        run();",
				"    }",
			},
			expected: "    ",
		},
		{
			name: "tab indent",
			lines: []string{
				"\tif (foo) {",
				"\t\trun();",
				"\t}",
			},
			expected: "\t",
		},
		{
			name: "mixed indent (space and tab)",
			lines: []string{
				"\t    if (foo) {",
				"\t    \trun();",
				"\t    }",
			},
			expected: "\t    ",
		},
		{
			name: "no indent",
			lines: []string{
				"if (foo) {",
				"run();",
				"}",
			},
			expected: "",
		},
		{
			name: "empty line",
			lines: []string{
				"    if (foo) {",
				"",
				"        run();",
				"    }",
			},
			expected: "    ",
		},
		{
			name:     "empty input",
			lines:    []string{},
			expected: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, findCommonIndent(tc.lines))
		})
	}
}

func TestGenerateFormattedIssue_MultiLine(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"    if (o instanceof Foo",
			"            && ready) {",
		},
	}
	issues := []tt.Issue{{
		Rule:       "other-rule",
		Filename:   "D.java",
		Start:      tt.Position{Line: 1, Column: 9},
		End:        tt.Position{Line: 2, Column: 20},
		Message:    "spans lines",
		Suggestion: "o instanceof Foo foo",
		Severity:   tt.SeverityWarning,
	}}

	expected := `warning: other-rule
 --> D.java:1:9
  |
1 | if (o instanceof Foo
2 |         && ready) {
  |     ~~~~~~~~~~~~
  = spans lines

Suggestion:
  |
1 | o instanceof Foo foo
  |

`
	assert.Equal(t, expected, GenerateFormattedIssue(issues, code))
}
