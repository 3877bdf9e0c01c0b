package java

// Equal reports whether a and b are structurally identical sub-trees: same node
// kinds, operators, names and literal values, regardless of position or formatting.
// Expressions embedding statements (lambdas with block bodies, anonymous class
// bodies, switch expressions) only match themselves.
func Equal(a, b Node) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	if a == b {
		return true
	}

	switch x := a.(type) {
	case *Ident:
		y, ok := b.(*Ident)
		return ok && x.Name == y.Name
	case *FieldAccess:
		y, ok := b.(*FieldAccess)
		return ok && Equal(x.X, y.X) && Equal(x.Name, y.Name)
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.Kind == y.Kind && x.Value == y.Value
	case *ThisExpr:
		y, ok := b.(*ThisExpr)
		return ok && Equal(x.Qualifier, y.Qualifier)
	case *SuperExpr:
		y, ok := b.(*SuperExpr)
		return ok && Equal(x.Qualifier, y.Qualifier)
	case *ParenExpr:
		y, ok := b.(*ParenExpr)
		return ok && Equal(x.X, y.X)
	case *CastExpr:
		y, ok := b.(*CastExpr)
		return ok && Equal(x.Type, y.Type) && equalTypes(x.Bounds, y.Bounds) && Equal(x.X, y.X)
	case *InstanceOfExpr:
		y, ok := b.(*InstanceOfExpr)
		return ok && Equal(x.X, y.X) && Equal(x.Type, y.Type) && x.Final == y.Final &&
			Equal(x.Binding, y.Binding) && Equal(x.Record, y.Record)
	case *UnaryExpr:
		y, ok := b.(*UnaryExpr)
		return ok && x.Op == y.Op && x.Postfix == y.Postfix && Equal(x.X, y.X)
	case *BinaryExpr:
		y, ok := b.(*BinaryExpr)
		return ok && x.Op == y.Op && Equal(x.X, y.X) && Equal(x.Y, y.Y)
	case *AssignExpr:
		y, ok := b.(*AssignExpr)
		return ok && x.Op == y.Op && Equal(x.Lhs, y.Lhs) && Equal(x.Rhs, y.Rhs)
	case *CondExpr:
		y, ok := b.(*CondExpr)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	case *CallExpr:
		y, ok := b.(*CallExpr)
		return ok && Equal(x.X, y.X) && equalTypes(x.TypeArgs, y.TypeArgs) &&
			Equal(x.Name, y.Name) && equalExprs(x.Args, y.Args)
	case *NewExpr:
		y, ok := b.(*NewExpr)
		return ok && x.Body == nil && y.Body == nil && Equal(x.Outer, y.Outer) &&
			equalTypes(x.TypeArgs, y.TypeArgs) && Equal(x.Type, y.Type) && equalExprs(x.Args, y.Args)
	case *NewArrayExpr:
		y, ok := b.(*NewArrayExpr)
		return ok && Equal(x.Type, y.Type) && equalExprs(x.Dims, y.Dims) &&
			x.ExtraDims == y.ExtraDims && Equal(x.Init, y.Init)
	case *ArrayInit:
		y, ok := b.(*ArrayInit)
		return ok && equalExprs(x.Elems, y.Elems)
	case *IndexExpr:
		y, ok := b.(*IndexExpr)
		return ok && Equal(x.X, y.X) && Equal(x.Index, y.Index)
	case *LambdaExpr:
		y, ok := b.(*LambdaExpr)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}
		bx, okx := x.Body.(Expr)
		by, oky := y.Body.(Expr)
		return okx && oky && Equal(bx, by)
	case *MethodRef:
		y, ok := b.(*MethodRef)
		return ok && Equal(x.X, y.X) && equalTypes(x.TypeArgs, y.TypeArgs) && Equal(x.Name, y.Name)
	case *ClassLit:
		y, ok := b.(*ClassLit)
		return ok && Equal(x.Type, y.Type)
	case *Annotation:
		y, ok := b.(*Annotation)
		return ok && Equal(x.Type, y.Type) && equalExprs(x.Args, y.Args)

	case *TypeRef:
		y, ok := b.(*TypeRef)
		if !ok || x.Dims != y.Dims || x.Wildcard != y.Wildcard || x.Super != y.Super ||
			len(x.Parts) != len(y.Parts) || !Equal(x.Bound, y.Bound) {
			return false
		}
		for i := range x.Parts {
			px, py := x.Parts[i], y.Parts[i]
			if px.Name.Name != py.Name.Name || px.Diamond != py.Diamond || !equalTypes(px.Args, py.Args) {
				return false
			}
		}
		return true
	case *TypePattern:
		y, ok := b.(*TypePattern)
		return ok && x.Final == y.Final && Equal(x.Type, y.Type) && Equal(x.Name, y.Name)
	case *RecordPattern:
		y, ok := b.(*RecordPattern)
		if !ok || !Equal(x.Type, y.Type) || len(x.Components) != len(y.Components) {
			return false
		}
		for i := range x.Components {
			if !Equal(x.Components[i], y.Components[i]) {
				return false
			}
		}
		return true
	case *Param:
		y, ok := b.(*Param)
		return ok && x.Varargs == y.Varargs && x.Dims == y.Dims && Equal(x.Type, y.Type) && Equal(x.Name, y.Name)
	}

	// statements, declarations and switch expressions
	return false
}

func equalExprs(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalTypes(a, b []*TypeRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
