package rewrite

import "github.com/gnolang/jcleanup/internal/java"

// Cast is a cast expression that can be replaced by the pattern binding.
type Cast struct {
	Expr *java.CastExpr

	// Target is the node whose text is replaced: the cast itself, or the
	// parenthesized expression when the cast is its only content.
	Target java.Node
}

// Candidate is an if statement whose instanceof test can bind a variable
// replacing the casts of the tested operand in its then-block.
type Candidate struct {
	If      *java.IfStmt
	Test    *java.InstanceOfExpr
	Operand java.Expr
	Type    *java.TypeRef
	Casts   []Cast
	Name    string
}

// Detect finds every rewrite candidate in unit, in source order. The unit must
// have been resolved; type references without a binding never match.
func Detect(unit *java.CompilationUnit) []Candidate {
	var (
		cands []Candidate
		// then-blocks of earlier candidates, to keep nested bindings apart
		claimed []claim
	)

	java.InspectWithStack(unit, func(n java.Node, stack []java.Node) bool {
		stmt, ok := n.(*java.IfStmt)
		if !ok {
			return true
		}
		cand, ok := detectIf(stmt)
		if !ok {
			return true
		}

		used := UsedIdentifiers(cand.thenBlock())
		if body := enclosingExecutable(stack); body != nil {
			for name := range UsedIdentifiers(body) {
				used[name] = struct{}{}
			}
		}
		for _, c := range claimed {
			if overlaps(c.scope, cand.thenBlock()) {
				used[c.name] = struct{}{}
			}
		}

		cand.Name = AllocateName(Seed(cand.Type.Binding.Name), used)
		claimed = append(claimed, claim{scope: cand.thenBlock(), name: cand.Name})
		cands = append(cands, cand)
		return true
	})

	return cands
}

type claim struct {
	scope java.Node
	name  string
}

func (c Candidate) thenBlock() *java.Block { return c.If.Then.(*java.Block) }

// detectIf checks a single if statement; the binding name is left empty.
func detectIf(stmt *java.IfStmt) (Candidate, bool) {
	test, ok := stmt.Cond.(*java.InstanceOfExpr)
	if !ok || test.Binding != nil || test.Record != nil {
		return Candidate{}, false
	}
	then, ok := stmt.Then.(*java.Block)
	if !ok {
		return Candidate{}, false
	}
	if test.Type.Binding == nil {
		return Candidate{}, false
	}
	if !IsPure(test.X) {
		return Candidate{}, false
	}
	if rebinds(then, test.X) {
		return Candidate{}, false
	}

	casts := matchingCasts(then, test.X, test.Type.Binding)
	if len(casts) == 0 {
		return Candidate{}, false
	}

	return Candidate{
		If:      stmt,
		Test:    test,
		Operand: test.X,
		Type:    test.Type,
		Casts:   casts,
	}, true
}

// matchingCasts returns, in source order, the casts in block to the type key
// of binding whose operand is structurally equal to operand.
func matchingCasts(block *java.Block, operand java.Expr, binding *java.Binding) []Cast {
	var casts []Cast
	java.InspectWithStack(block, func(n java.Node, stack []java.Node) bool {
		cast, ok := n.(*java.CastExpr)
		if !ok {
			return true
		}
		if cast.Type.Binding == nil || cast.Type.Binding.Key != binding.Key || len(cast.Bounds) > 0 {
			return true
		}
		if !java.Equal(cast.X, operand) {
			return true
		}

		var target java.Node = cast
		if len(stack) > 0 {
			if paren, ok := stack[len(stack)-1].(*java.ParenExpr); ok && paren.X == java.Expr(cast) {
				target = paren
			}
		}
		casts = append(casts, Cast{Expr: cast, Target: target})
		// the operand of a matching cast holds no further casts of itself
		return false
	})
	return casts
}

// enclosingExecutable returns the outermost method, constructor, initializer,
// field or enum constant containing the top of stack. Every local variable
// visible at that point is declared inside it.
func enclosingExecutable(stack []java.Node) java.Node {
	for _, n := range stack {
		switch n.(type) {
		case *java.MethodDecl, *java.Initializer, *java.FieldDecl, *java.EnumConstant:
			return n
		}
	}
	return nil
}

// rebinds reports whether block assigns to, increments or redeclares a name
// the operand reads. Replacing a cast after such a statement would refer to
// the value tested by the condition instead of the current one.
func rebinds(block *java.Block, operand java.Expr) bool {
	names := make(map[string]bool)
	java.Inspect(operand, func(n java.Node) bool {
		if id, ok := n.(*java.Ident); ok {
			names[id.Name] = true
		}
		return true
	})

	found := false
	java.Inspect(block, func(n java.Node) bool {
		if found {
			return false
		}
		switch n := n.(type) {
		case *java.AssignExpr:
			found = names[writtenName(n.Lhs)]
		case *java.UnaryExpr:
			if n.Op == "++" || n.Op == "--" {
				found = names[writtenName(n.X)]
			}
		case *java.VarDeclarator:
			found = names[n.Name.Name]
		case *java.Param:
			found = names[n.Name.Name]
		case *java.CatchClause:
			found = names[n.Name.Name]
		case *java.TypePattern:
			found = names[n.Name.Name]
		case *java.InstanceOfExpr:
			found = n.Binding != nil && names[n.Binding.Name]
		}
		return !found
	})
	return found
}

// writtenName returns the variable or field name an assignment target writes.
func writtenName(target java.Expr) string {
	switch t := target.(type) {
	case *java.Ident:
		return t.Name
	case *java.FieldAccess:
		return t.Name.Name
	case *java.IndexExpr:
		return writtenName(t.X)
	case *java.ParenExpr:
		return writtenName(t.X)
	}
	return ""
}

func overlaps(a, b java.Node) bool {
	return a.Pos() < b.End() && b.Pos() < a.End()
}
