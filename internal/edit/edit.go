// Package edit applies byte-range replacements to a source buffer.
package edit

import (
	"sort"
	"strings"
)

// Replacement substitutes Text for the half-open byte range [Start, Start+Length).
type Replacement struct {
	Start  int
	Length int
	Text   string

	// Group ties together the replacements of one rewrite. Replacements of
	// the same group are accepted or rejected together in Atomic mode.
	Group int
}

// End returns the offset one past the replaced range.
func (r Replacement) End() int { return r.Start + r.Length }

// Mode controls how a rejected replacement affects the rest of its group.
type Mode int

const (
	// Atomic drops every replacement of a group as soon as one of them
	// overlaps an accepted replacement.
	Atomic Mode = iota
	// Permissive rejects overlapping replacements one by one, which may leave
	// a group partially applied.
	Permissive
)

func (m Mode) String() string {
	switch m {
	case Atomic:
		return "atomic"
	case Permissive:
		return "permissive"
	default:
		return "unknown"
	}
}

// Apply splices the acceptable replacements into src and returns the new text
// together with the accepted replacements, ordered by descending start.
//
// Replacements are considered from the highest start offset down; ties keep
// the order of reps. A replacement is accepted when it ends at or before the
// start of the previously accepted one, so accepted ranges never intersect.
func Apply(src string, reps []Replacement, mode Mode) (string, []Replacement) {
	if len(reps) == 0 {
		return src, nil
	}

	sorted := make([]Replacement, len(reps))
	copy(sorted, reps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	accepted, rejected := selectNonOverlapping(sorted, nil)
	if mode == Atomic {
		// drop the group of the first rejection and retry, so groups that
		// only clashed with a dropped group get another chance
		dropped := make(map[int]bool)
		for len(rejected) > 0 {
			dropped[rejected[0].Group] = true
			accepted, rejected = selectNonOverlapping(sorted, dropped)
		}
	}

	return splice(src, accepted), accepted
}

// selectNonOverlapping runs the watermark pass over replacements sorted by
// descending start, skipping the groups in dropped.
func selectNonOverlapping(sorted []Replacement, dropped map[int]bool) (accepted, rejected []Replacement) {
	watermark := -1 // no bound yet
	for _, r := range sorted {
		if dropped[r.Group] {
			continue
		}
		if watermark >= 0 && r.End() > watermark {
			rejected = append(rejected, r)
			continue
		}
		accepted = append(accepted, r)
		watermark = r.Start
	}
	return accepted, rejected
}

// splice builds a new buffer from src and replacements sorted by descending,
// non-overlapping ranges.
func splice(src string, reps []Replacement) string {
	if len(reps) == 0 {
		return src
	}

	var b strings.Builder
	b.Grow(len(src))

	prev := 0
	for i := len(reps) - 1; i >= 0; i-- {
		r := reps[i]
		b.WriteString(src[prev:r.Start])
		b.WriteString(r.Text)
		prev = r.End()
	}
	b.WriteString(src[prev:])
	return b.String()
}

// Overlaps reports whether any two replacements in reps intersect.
// Empty ranges at the same offset do not count as intersecting.
func Overlaps(reps []Replacement) bool {
	sorted := make([]Replacement, len(reps))
	copy(sorted, reps)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End() < sorted[j].End()
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End() {
			return true
		}
	}
	return false
}
