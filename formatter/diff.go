package formatter

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around a change.
const diffContext = 2

type diffLine struct {
	op    diffmatchpatch.Operation
	text  string
	oldNo int
	newNo int
}

// GenerateDiff renders a line diff between before and after, with a few
// lines of context around each change. It returns "" when the texts are equal.
func GenerateDiff(filename, before, after string) string {
	if before == after {
		return ""
	}

	lines := diffLines(before, after)

	var builder strings.Builder
	builder.WriteString(fileStyle.Sprintf("--- %s", filename) + "\n")
	builder.WriteString(fileStyle.Sprintf("+++ %s", filename) + "\n")

	for _, h := range hunks(lines) {
		first := lines[h[0]]
		builder.WriteString(lineStyle.Sprintf("@@ -%d +%d @@", first.oldNo, first.newNo) + "\n")
		for _, l := range lines[h[0]:h[1]] {
			switch l.op {
			case diffmatchpatch.DiffDelete:
				builder.WriteString(removedStyle.Sprint("-"+l.text) + "\n")
			case diffmatchpatch.DiffInsert:
				builder.WriteString(addedStyle.Sprint("+"+l.text) + "\n")
			default:
				builder.WriteString(noStyle.Sprint(" "+l.text) + "\n")
			}
		}
	}
	return builder.String()
}

// diffLines computes a line-level diff. Line numbers are 1-based; a deleted
// line carries the number of the next new line and vice versa.
func diffLines(before, after string) []diffLine {
	var enc lineEncoder
	a, b := enc.encode(before), enc.encode(after)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(a, b, false)

	var (
		lines        []diffLine
		oldNo, newNo = 1, 1
	)
	for _, d := range diffs {
		for _, r := range d.Text {
			lines = append(lines, diffLine{op: d.Type, text: enc.decode(r), oldNo: oldNo, newNo: newNo})
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				oldNo++
			case diffmatchpatch.DiffInsert:
				newNo++
			default:
				oldNo++
				newNo++
			}
		}
	}
	return lines
}

// lineEncoder maps each distinct line to one rune so that a rune diff is a
// line diff. Runes skip the surrogate range to survive string conversion.
type lineEncoder struct {
	lines []string
	index map[string]rune
}

const (
	surrogateMin = 0xD800
	surrogateLen = 0x800
)

func (e *lineEncoder) encode(text string) []rune {
	if e.index == nil {
		e.index = make(map[string]rune)
	}
	var runes []rune
	for _, line := range splitLines(text) {
		r, ok := e.index[line]
		if !ok {
			r = rune(len(e.lines))
			if r >= surrogateMin {
				r += surrogateLen
			}
			e.index[line] = r
			e.lines = append(e.lines, line)
		}
		runes = append(runes, r)
	}
	return runes
}

func (e *lineEncoder) decode(r rune) string {
	if r >= surrogateMin+surrogateLen {
		r -= surrogateLen
	}
	return e.lines[r]
}

// splitLines splits text into lines without their terminators. A missing
// final newline leaves no trace.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// hunks returns the [start, end) ranges of lines to print.
func hunks(lines []diffLine) [][2]int {
	var ranges [][2]int
	for i, l := range lines {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		start := max(i-diffContext, 0)
		end := min(i+diffContext+1, len(lines))
		if n := len(ranges); n > 0 && start <= ranges[n-1][1] {
			ranges[n-1][1] = max(ranges[n-1][1], end)
			continue
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// DiffStats counts the changed lines between before and after.
func DiffStats(before, after string) (added, removed int) {
	for _, l := range diffLines(before, after) {
		switch l.op {
		case diffmatchpatch.DiffInsert:
			added++
		case diffmatchpatch.DiffDelete:
			removed++
		}
	}
	return added, removed
}

// DiffSummary renders DiffStats for a file.
func DiffSummary(filename, before, after string) string {
	added, removed := DiffStats(before, after)
	return fmt.Sprintf("%s: %s %s", fileStyle.Sprint(filename),
		addedStyle.Sprintf("+%d", added), removedStyle.Sprintf("-%d", removed))
}
