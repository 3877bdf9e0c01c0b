package nolint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gnolang/jcleanup/internal/java"
	tt "github.com/gnolang/jcleanup/internal/types"
)

const nolintPrefix = "nolint"

// Manager manages nolint scopes and checks if a position is nolinted.
type Manager struct {
	// scopes maps filename to a slice of nolint scopes.
	scopes map[string][]nolintScope
}

// nolintScope is an inclusive line range where nolint applies.
type nolintScope struct {
	rules map[string]struct{}
	start int
	end   int
}

// ParseComments parses the nolint comments of a parsed Java file and returns a Manager.
func ParseComments(filename string, src []byte, unit *java.CompilationUnit) *Manager {
	manager := Manager{
		scopes: make(map[string][]nolintScope, len(unit.Comments)),
	}
	lines := newLineIndex(src)
	stmtMap := indexStatementsByLine(unit, lines)
	declMap := indexDeclarationsByLine(unit, lines)

	packageLine := 0
	if unit.Package != nil {
		packageLine = lines.line(unit.Package.Pos())
	}

	for _, c := range unit.Comments {
		ns, err := parseComment(c, lines, stmtMap, declMap, packageLine)
		if err != nil {
			// ignore invalid nolint comments
			continue
		}
		manager.scopes[filename] = append(manager.scopes[filename], ns)
	}
	return &manager
}

// parseComment parses a single nolint comment and determines its scope.
func parseComment(
	c java.Comment,
	lines lineIndex,
	stmtMap map[int]java.Stmt,
	declMap map[int]java.Decl,
	packageLine int,
) (nolintScope, error) {
	var ns nolintScope

	text, ok := commentBody(c.Text)
	if !ok || !strings.HasPrefix(text, nolintPrefix) {
		return ns, fmt.Errorf("invalid nolint comment")
	}

	// A nolint comment can either have a list of rules after a colon (:)
	// or if no rules are specified, it applies to all rules
	rest := strings.TrimRight(text[len(nolintPrefix):], " \t")
	if len(rest) > 0 && rest[0] != ':' {
		return ns, fmt.Errorf("invalid nolint comment format")
	}
	if len(rest) > 0 {
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return ns, fmt.Errorf("invalid nolint comment: no rules specified after colon")
		}
	}
	ns.rules = parseIgnoreRuleNames(rest)
	line := lines.line(c.Pos)

	// a comment before the package declaration covers the entire file
	if packageLine > 0 && line < packageLine {
		ns.start = 1
		ns.end = lines.count()
		return ns, nil
	}

	// inline comments cover the statement they trail
	if stmt, exists := stmtMap[line]; exists && c.Pos > stmt.Pos() {
		ns.start = line
		ns.end = lines.line(stmt.End())
		return ns, nil
	}

	// standalone comments cover the statement or declaration on the next line
	if stmt, exists := stmtMap[line+1]; exists {
		ns.start = line
		ns.end = lines.line(stmt.End())
		return ns, nil
	}
	if decl, exists := declMap[line+1]; exists {
		ns.start = line
		ns.end = lines.line(decl.End())
		return ns, nil
	}

	ns.start = line
	ns.end = line
	return ns, nil
}

// commentBody strips the comment markers and surrounding blanks.
func commentBody(text string) (string, bool) {
	switch {
	case strings.HasPrefix(text, "//"):
		return strings.TrimSpace(text[2:]), true
	case strings.HasPrefix(text, "/*") && !strings.HasPrefix(text, "/**"):
		return strings.TrimSpace(strings.TrimSuffix(text[2:], "*/")), true
	}
	return "", false
}

// parseIgnoreRuleNames parses the rule list from the nolint comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// indexStatementsByLine maps each line to the first statement starting on it.
func indexStatementsByLine(unit *java.CompilationUnit, lines lineIndex) map[int]java.Stmt {
	stmtMap := make(map[int]java.Stmt)
	java.Inspect(unit, func(n java.Node) bool {
		if stmt, ok := n.(java.Stmt); ok {
			line := lines.line(stmt.Pos())
			if _, exists := stmtMap[line]; !exists {
				stmtMap[line] = stmt
			}
		}
		return true
	})
	return stmtMap
}

// indexDeclarationsByLine maps each line to the first type, method or field
// declaration starting on it.
func indexDeclarationsByLine(unit *java.CompilationUnit, lines lineIndex) map[int]java.Decl {
	declMap := make(map[int]java.Decl)
	java.Inspect(unit, func(n java.Node) bool {
		switch d := n.(type) {
		case *java.TypeDecl, *java.MethodDecl, *java.FieldDecl, *java.Initializer:
			line := lines.line(d.Pos())
			if _, exists := declMap[line]; !exists {
				declMap[line] = d.(java.Decl)
			}
		}
		return true
	})
	return declMap
}

// IsNolint checks if a given position and rule are nolinted.
func (m *Manager) IsNolint(pos tt.Position, ruleName string) bool {
	if m == nil {
		return false
	}
	scopes, exists := m.scopes[pos.Filename]
	if !exists {
		return false
	}
	for _, ns := range scopes {
		if pos.Line < ns.start || pos.Line > ns.end {
			continue
		}
		// If the rules list is empty, nolint applies to all rules
		if len(ns.rules) == 0 {
			return true
		}
		if _, exists := ns.rules[ruleName]; exists {
			return true
		}
	}
	return false
}

// lineIndex holds the offset of the first byte of every line.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	starts := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// line returns the 1-based line holding offset.
func (li lineIndex) line(offset int) int {
	return sort.Search(len(li), func(i int) bool { return li[i] > offset })
}

func (li lineIndex) count() int { return len(li) }
