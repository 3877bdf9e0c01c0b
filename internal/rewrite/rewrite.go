// Package rewrite turns "if (x instanceof T) { ... (T) x ... }" into
// "if (x instanceof T t) { ... t ... }".
//
// The pipeline for one compilation unit is Detect, Plan and edit.Apply. It
// keeps no state between calls and never fails: statements that cannot be
// rewritten safely are left alone.
package rewrite

import (
	"github.com/gnolang/jcleanup/internal/edit"
	"github.com/gnolang/jcleanup/internal/java"
)

// Options tunes a rewrite.
type Options struct {
	// Mode decides whether overlapping edits drop whole candidates.
	Mode edit.Mode

	// Skip, when set, excludes candidates before planning.
	Skip func(Candidate) bool
}

// Rewrite applies every rewrite found in unit to src. It returns the new text,
// whether it differs from src, and the candidates whose edits were applied.
// When nothing changes the returned text is src itself.
func Rewrite(unit *java.CompilationUnit, src []byte, opts Options) (string, bool, []Candidate) {
	var cands []Candidate
	for _, c := range Detect(unit) {
		if opts.Skip != nil && opts.Skip(c) {
			continue
		}
		cands = append(cands, c)
	}
	if len(cands) == 0 {
		return string(src), false, nil
	}

	updated, accepted := edit.Apply(string(src), Plan(src, cands), opts.Mode)

	groups := make(map[int]bool, len(accepted))
	for _, r := range accepted {
		groups[r.Group] = true
	}
	var applied []Candidate
	for i, c := range cands {
		if groups[i] {
			applied = append(applied, c)
		}
	}

	return updated, updated != string(src), applied
}
