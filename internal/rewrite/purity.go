package rewrite

import "github.com/gnolang/jcleanup/internal/java"

// IsPure reports whether evaluating e has no side effect, so that referring to
// its value again yields the same result in the same state. The check is
// purely syntactic: calls, instance and array creation, assignments,
// increments, lambdas, method references and switch expressions are impure.
func IsPure(e java.Expr) bool {
	switch e := e.(type) {
	case nil:
		return false
	case *java.Ident, *java.Literal, *java.ClassLit:
		return true
	case *java.ThisExpr:
		return e.Qualifier == nil || IsPure(e.Qualifier)
	case *java.SuperExpr:
		return e.Qualifier == nil || IsPure(e.Qualifier)
	case *java.FieldAccess:
		return IsPure(e.X)
	case *java.ParenExpr:
		return IsPure(e.X)
	case *java.CastExpr:
		return IsPure(e.X)
	case *java.InstanceOfExpr:
		return e.Binding == nil && e.Record == nil && IsPure(e.X)
	case *java.UnaryExpr:
		if e.Op == "++" || e.Op == "--" {
			return false
		}
		return IsPure(e.X)
	case *java.BinaryExpr:
		return IsPure(e.X) && IsPure(e.Y)
	case *java.CondExpr:
		return IsPure(e.Cond) && IsPure(e.Then) && IsPure(e.Else)
	case *java.IndexExpr:
		return IsPure(e.X) && IsPure(e.Index)
	case *java.AssignExpr, *java.CallExpr, *java.NewExpr, *java.NewArrayExpr,
		*java.ArrayInit, *java.LambdaExpr, *java.MethodRef, *java.SwitchExpr,
		*java.Annotation:
		return false
	default:
		panic("rewrite: unexpected expression type")
	}
}
