package java

import "fmt"

// Inspect traverses the tree rooted at n in depth-first source order, calling f
// for every node. If f returns false the children of that node are skipped.
// Identifiers inside type references are visited as well.
func Inspect(n Node, f func(Node) bool) {
	if isNil(n) || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// InspectWithStack is like Inspect but also passes the chain of ancestors of
// the current node, outermost first. The stack must not be retained.
func InspectWithStack(n Node, f func(n Node, stack []Node) bool) {
	var stack []Node
	var visit func(Node)
	visit = func(n Node) {
		if isNil(n) || !f(n, stack) {
			return
		}
		stack = append(stack, n)
		for _, c := range Children(n) {
			visit(c)
		}
		stack = stack[:len(stack)-1]
	}
	visit(n)
}

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Ident, *Literal, *EmptyStmt, *PackageDecl, *ImportDecl:
		// leaves

	case *TypeRef:
		for _, p := range n.Parts {
			add(asNode(p.Name))
			for _, a := range p.Args {
				add(asNode(a))
			}
		}
		add(asNode(n.Bound))
	case *TypeParam:
		add(asNode(n.Name))
		addTypes(add, n.Bounds)

	case *FieldAccess:
		add(n.X, asNode(n.Name))
	case *ThisExpr:
		add(n.Qualifier)
	case *SuperExpr:
		add(n.Qualifier)
	case *ParenExpr:
		add(n.X)
	case *CastExpr:
		add(asNode(n.Type))
		addTypes(add, n.Bounds)
		add(n.X)
	case *InstanceOfExpr:
		add(n.X)
		if n.Record != nil {
			add(n.Record)
		} else {
			add(asNode(n.Type), asNode(n.Binding))
		}
	case *UnaryExpr:
		add(n.X)
	case *BinaryExpr:
		add(n.X, n.Y)
	case *AssignExpr:
		add(n.Lhs, n.Rhs)
	case *CondExpr:
		add(n.Cond, n.Then, n.Else)
	case *CallExpr:
		add(n.X)
		addTypes(add, n.TypeArgs)
		add(asNode(n.Name))
		addExprs(add, n.Args)
	case *NewExpr:
		add(n.Outer)
		addTypes(add, n.TypeArgs)
		add(asNode(n.Type))
		addExprs(add, n.Args)
		add(asNode(n.Body))
	case *NewArrayExpr:
		add(asNode(n.Type))
		addExprs(add, n.Dims)
		add(asNode(n.Init))
	case *ArrayInit:
		addExprs(add, n.Elems)
	case *IndexExpr:
		add(n.X, n.Index)
	case *LambdaExpr:
		for _, p := range n.Params {
			add(asNode(p))
		}
		add(n.Body)
	case *MethodRef:
		add(n.X)
		addTypes(add, n.TypeArgs)
		add(asNode(n.Name))
	case *ClassLit:
		add(asNode(n.Type))
	case *SwitchExpr:
		add(n.Tag)
		for _, c := range n.Cases {
			add(asNode(c))
		}
	case *Annotation:
		add(asNode(n.Type))
		addExprs(add, n.Args)

	case *TypePattern:
		add(asNode(n.Type), asNode(n.Name))
	case *RecordPattern:
		add(asNode(n.Type))
		add(n.Components...)

	case *Block:
		addStmts(add, n.Stmts)
	case *VarDeclarator:
		add(asNode(n.Name), n.Init)
	case *LocalVarDecl:
		add(asNode(n.Mods), asNode(n.Type))
		for _, v := range n.Vars {
			add(asNode(v))
		}
	case *LocalClassDecl:
		add(asNode(n.Decl))
	case *ExprStmt:
		add(n.X)
	case *IfStmt:
		add(n.Cond, n.Then, n.Else)
	case *WhileStmt:
		add(n.Cond, n.Body)
	case *DoStmt:
		add(n.Body, n.Cond)
	case *ForStmt:
		addStmts(add, n.Init)
		add(n.Cond)
		addExprs(add, n.Update)
		add(n.Body)
	case *ForEachStmt:
		add(asNode(n.Var), n.Iterable, n.Body)
	case *ReturnStmt:
		add(n.X)
	case *ThrowStmt:
		add(n.X)
	case *YieldStmt:
		add(n.X)
	case *BranchStmt:
		add(asNode(n.Label))
	case *TryStmt:
		add(n.Resources...)
		add(asNode(n.Body))
		for _, c := range n.Catches {
			add(asNode(c))
		}
		add(asNode(n.Finally))
	case *CatchClause:
		add(asNode(n.Mods))
		addTypes(add, n.Types)
		add(asNode(n.Name), asNode(n.Body))
	case *SwitchStmt:
		add(n.Tag)
		for _, c := range n.Cases {
			add(asNode(c))
		}
	case *SwitchCase:
		add(n.Labels...)
		add(n.Guard)
		addStmts(add, n.Body)
	case *SyncStmt:
		add(n.Lock, asNode(n.Body))
	case *LabeledStmt:
		add(asNode(n.Label), n.Stmt)
	case *AssertStmt:
		add(n.Cond, n.Msg)

	case *Modifiers:
		for _, a := range n.Annotations {
			add(asNode(a))
		}
	case *Param:
		add(asNode(n.Mods), asNode(n.Type), asNode(n.Name))
	case *ClassBody:
		for _, m := range n.Members {
			add(m)
		}
	case *TypeDecl:
		add(asNode(n.Mods), asNode(n.Name))
		for _, tp := range n.TypeParams {
			add(asNode(tp))
		}
		for _, c := range n.Components {
			add(asNode(c))
		}
		addTypes(add, n.Extends)
		addTypes(add, n.Implements)
		addTypes(add, n.Permits)
		for _, c := range n.EnumConstants {
			add(asNode(c))
		}
		for _, m := range n.Members {
			add(m)
		}
	case *FieldDecl:
		add(asNode(n.Mods), asNode(n.Type))
		for _, v := range n.Vars {
			add(asNode(v))
		}
	case *MethodDecl:
		add(asNode(n.Mods))
		for _, tp := range n.TypeParams {
			add(asNode(tp))
		}
		add(asNode(n.Result), asNode(n.Name))
		for _, p := range n.Params {
			add(asNode(p))
		}
		addTypes(add, n.Throws)
		add(asNode(n.Body), n.Default)
	case *Initializer:
		add(asNode(n.Body))
	case *EnumConstant:
		add(asNode(n.Mods), asNode(n.Name))
		addExprs(add, n.Args)
		add(asNode(n.Body))
	case *CompilationUnit:
		add(asNode(n.Package))
		for _, i := range n.Imports {
			add(asNode(i))
		}
		for _, t := range n.Types {
			add(asNode(t))
		}

	default:
		panic(fmt.Sprintf("java.Children: unexpected node type %T", n))
	}
	return out
}

// asNode converts a typed pointer to a Node, keeping nil pointers detectable by isNil.
func asNode[T Node](n T) Node { return n }

func addTypes(add func(...Node), types []*TypeRef) {
	for _, t := range types {
		add(t)
	}
}

func addExprs(add func(...Node), exprs []Expr) {
	for _, e := range exprs {
		add(e)
	}
}

func addStmts(add func(...Node), stmts []Stmt) {
	for _, s := range stmts {
		add(s)
	}
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Ident:
		return v == nil
	case *TypeRef:
		return v == nil
	case *Block:
		return v == nil
	case *Modifiers:
		return v == nil
	case *ClassBody:
		return v == nil
	case *ArrayInit:
		return v == nil
	case *VarDeclarator:
		return v == nil
	case *LocalVarDecl:
		return v == nil
	case *TypeDecl:
		return v == nil
	case *PackageDecl:
		return v == nil
	case *Annotation:
		return v == nil
	case *RecordPattern:
		return v == nil
	case *Param:
		return v == nil
	case *CatchClause:
		return v == nil
	case *SwitchCase:
		return v == nil
	case *TypeParam:
		return v == nil
	case *ImportDecl:
		return v == nil
	case *EnumConstant:
		return v == nil
	}
	return false
}
