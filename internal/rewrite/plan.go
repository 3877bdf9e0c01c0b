package rewrite

import (
	"github.com/gnolang/jcleanup/internal/edit"
	"github.com/gnolang/jcleanup/internal/java"
)

// Condition returns the pattern-matching form of the candidate's test, reusing
// the original text of the operand and of the type.
func (c Candidate) Condition(src []byte) string {
	return java.Text(src, c.Operand) + " instanceof " + java.Text(src, c.Type) + " " + c.Name
}

// Plan turns candidates into a flat list of replacements: for each candidate
// one for the instanceof test, then one per cast. The group of each
// replacement is the index of its candidate.
func Plan(src []byte, cands []Candidate) []edit.Replacement {
	var reps []edit.Replacement
	for i, c := range cands {
		reps = append(reps, edit.Replacement{
			Start:  c.Test.Pos(),
			Length: java.Len(c.Test),
			Text:   c.Condition(src),
			Group:  i,
		})
		for _, cast := range c.Casts {
			reps = append(reps, edit.Replacement{
				Start:  cast.Target.Pos(),
				Length: java.Len(cast.Target),
				Text:   c.Name,
				Group:  i,
			})
		}
	}
	return reps
}
