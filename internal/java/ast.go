package java

// Node is any element of the syntax tree. The set of implementations is closed:
// every node type lives in this package and carries the unexported marker.
type Node interface {
	Pos() int // offset of the first byte
	End() int // offset one past the last byte
	node()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is a member of a type body (or a type declaration itself).
type Decl interface {
	Node
	declNode()
}

// Span is the half-open byte range [From, To) a node covers in the original source.
type Span struct {
	From int
	To   int
}

func (s Span) Pos() int { return s.From }
func (s Span) End() int { return s.To }
func (Span) node()      {}

// Len returns the length of the span in bytes.
func Len(n Node) int { return n.End() - n.Pos() }

// Text returns the source text covered by n.
func Text(src []byte, n Node) string { return string(src[n.Pos():n.End()]) }

/***** Types *****/

// Binding is the resolved identity of a type reference.
// Two references denote the same type iff their keys are equal.
type Binding struct {
	Key  string // e.g. "java.util.List<java.lang.String>"
	Name string // simple display name, e.g. "List<String>"
}

// TypePart is one segment of a possibly qualified, possibly parameterized type name.
type TypePart struct {
	Name    *Ident
	Args    []*TypeRef
	Diamond bool // "<>"
}

// TypeRef is a type as written in source.
type TypeRef struct {
	Span
	Parts    []*TypePart
	Dims     int
	Wildcard bool     // "?"
	Bound    *TypeRef // bound of a wildcard
	Super    bool     // bound is "? super"
	Binding  *Binding // nil until resolved, and when resolution fails
}

// SimpleName returns the last segment of the type name.
func (t *TypeRef) SimpleName() string {
	if t.Wildcard || len(t.Parts) == 0 {
		return "?"
	}
	return t.Parts[len(t.Parts)-1].Name.Name
}

// IsPrimitive reports whether t is a primitive (or void) type without dimensions.
func (t *TypeRef) IsPrimitive() bool {
	return !t.Wildcard && len(t.Parts) == 1 && (primitives[t.Parts[0].Name.Name] || t.Parts[0].Name.Name == "void")
}

// TypeParam is a declared type variable.
type TypeParam struct {
	Span
	Name   *Ident
	Bounds []*TypeRef
}

/***** Expressions *****/

type (
	// Ident is a simple name.
	Ident struct {
		Span
		Name string
	}

	// FieldAccess is "X.Name"; it also represents qualified names.
	FieldAccess struct {
		Span
		X    Expr
		Name *Ident
	}

	// Literal is a number, char, string, text block, boolean or null literal.
	Literal struct {
		Span
		Kind  TokenType
		Value string
	}

	// ThisExpr is "this" or "Outer.this".
	ThisExpr struct {
		Span
		Qualifier Expr
	}

	// SuperExpr is "super" or "Outer.super", only valid as a receiver.
	SuperExpr struct {
		Span
		Qualifier Expr
	}

	ParenExpr struct {
		Span
		X Expr
	}

	// CastExpr is "(Type & Bounds...) X".
	CastExpr struct {
		Span
		Type   *TypeRef
		Bounds []*TypeRef
		X      Expr
	}

	// InstanceOfExpr is "X instanceof Type", optionally with a binding
	// ("X instanceof final Type name") or a record pattern.
	InstanceOfExpr struct {
		Span
		X       Expr
		Type    *TypeRef
		Final   bool
		Binding *Ident
		Record  *RecordPattern
	}

	UnaryExpr struct {
		Span
		Op      string
		X       Expr
		Postfix bool
	}

	BinaryExpr struct {
		Span
		Op string
		X  Expr
		Y  Expr
	}

	AssignExpr struct {
		Span
		Op  string
		Lhs Expr
		Rhs Expr
	}

	CondExpr struct {
		Span
		Cond Expr
		Then Expr
		Else Expr
	}

	// CallExpr is a method invocation. Explicit constructor calls have a
	// ThisExpr or SuperExpr receiver and no name.
	CallExpr struct {
		Span
		X        Expr
		TypeArgs []*TypeRef
		Name     *Ident
		Args     []Expr
	}

	// NewExpr is a class instance creation, possibly anonymous.
	NewExpr struct {
		Span
		Outer    Expr
		TypeArgs []*TypeRef
		Type     *TypeRef
		Args     []Expr
		Body     *ClassBody
	}

	// NewArrayExpr is "new T[d1][d2][]..." or "new T[]{...}".
	NewArrayExpr struct {
		Span
		Type      *TypeRef
		Dims      []Expr
		ExtraDims int
		Init      *ArrayInit
	}

	ArrayInit struct {
		Span
		Elems []Expr
	}

	IndexExpr struct {
		Span
		X     Expr
		Index Expr
	}

	// LambdaExpr has either an expression or a *Block body.
	LambdaExpr struct {
		Span
		Params []*Param
		Body   Node
	}

	// MethodRef is "X::name" or "Type::new"; X is an Expr or a *TypeRef.
	MethodRef struct {
		Span
		X        Node
		TypeArgs []*TypeRef
		Name     *Ident
	}

	// ClassLit is "Type.class".
	ClassLit struct {
		Span
		Type *TypeRef
	}

	SwitchExpr struct {
		Span
		Tag   Expr
		Cases []*SwitchCase
	}

	// Annotation appears in modifiers and as an annotation element value.
	Annotation struct {
		Span
		Type *TypeRef
		Args []Expr
	}
)

/***** Patterns *****/

type (
	// TypePattern is "final Type name" inside record patterns and case labels.
	TypePattern struct {
		Span
		Final bool
		Type  *TypeRef
		Name  *Ident
	}

	// RecordPattern is "Type(p1, p2, ...)".
	RecordPattern struct {
		Span
		Type       *TypeRef
		Components []Node
	}
)

/***** Statements *****/

type (
	Block struct {
		Span
		Stmts []Stmt
	}

	VarDeclarator struct {
		Span
		Name *Ident
		Dims int
		Init Expr
	}

	LocalVarDecl struct {
		Span
		Mods *Modifiers
		Type *TypeRef
		Vars []*VarDeclarator
	}

	LocalClassDecl struct {
		Span
		Decl *TypeDecl
	}

	ExprStmt struct {
		Span
		X Expr
	}

	IfStmt struct {
		Span
		Cond Expr
		Then Stmt
		Else Stmt
	}

	WhileStmt struct {
		Span
		Cond Expr
		Body Stmt
	}

	DoStmt struct {
		Span
		Body Stmt
		Cond Expr
	}

	ForStmt struct {
		Span
		Init   []Stmt
		Cond   Expr
		Update []Expr
		Body   Stmt
	}

	ForEachStmt struct {
		Span
		Var      *LocalVarDecl
		Iterable Expr
		Body     Stmt
	}

	ReturnStmt struct {
		Span
		X Expr
	}

	ThrowStmt struct {
		Span
		X Expr
	}

	YieldStmt struct {
		Span
		X Expr
	}

	// BranchStmt is "break" or "continue" with an optional label.
	BranchStmt struct {
		Span
		Tok   string
		Label *Ident
	}

	// TryStmt resources are *LocalVarDecl or Expr.
	TryStmt struct {
		Span
		Resources []Node
		Body      *Block
		Catches   []*CatchClause
		Finally   *Block
	}

	CatchClause struct {
		Span
		Mods  *Modifiers
		Types []*TypeRef
		Name  *Ident
		Body  *Block
	}

	SwitchStmt struct {
		Span
		Tag   Expr
		Cases []*SwitchCase
	}

	// SwitchCase is one "case ...:" group or "case ... ->" rule. Labels are
	// Exprs or patterns; a default case has Default set.
	SwitchCase struct {
		Span
		Labels  []Node
		Default bool
		Guard   Expr
		Arrow   bool
		Body    []Stmt
	}

	SyncStmt struct {
		Span
		Lock Expr
		Body *Block
	}

	LabeledStmt struct {
		Span
		Label *Ident
		Stmt  Stmt
	}

	AssertStmt struct {
		Span
		Cond Expr
		Msg  Expr
	}

	EmptyStmt struct {
		Span
	}
)

/***** Declarations *****/

// TypeKind distinguishes type declarations.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
	KindRecord
	KindAnnotation
)

type (
	Modifiers struct {
		Span
		Keywords    []string
		Annotations []*Annotation
	}

	// Param is a method, constructor, lambda or record component parameter.
	// Type is nil for implicitly typed lambda parameters.
	Param struct {
		Span
		Mods    *Modifiers
		Type    *TypeRef
		Varargs bool
		Name    *Ident
		Dims    int
	}

	ClassBody struct {
		Span
		Members []Decl
	}

	TypeDecl struct {
		Span
		Mods          *Modifiers
		Kind          TypeKind
		Name          *Ident
		TypeParams    []*TypeParam
		Extends       []*TypeRef
		Implements    []*TypeRef
		Permits       []*TypeRef
		Components    []*Param
		EnumConstants []*EnumConstant
		Members       []Decl
	}

	FieldDecl struct {
		Span
		Mods *Modifiers
		Type *TypeRef
		Vars []*VarDeclarator
	}

	// MethodDecl also covers constructors (Ctor set, Result nil) and
	// annotation elements (Default set).
	MethodDecl struct {
		Span
		Mods       *Modifiers
		TypeParams []*TypeParam
		Result     *TypeRef
		Name       *Ident
		Params     []*Param
		Throws     []*TypeRef
		Body       *Block
		Ctor       bool
		Default    Expr
	}

	Initializer struct {
		Span
		Static bool
		Body   *Block
	}

	EnumConstant struct {
		Span
		Mods *Modifiers
		Name *Ident
		Args []Expr
		Body *ClassBody
	}

	PackageDecl struct {
		Span
		Name string
	}

	ImportDecl struct {
		Span
		Static   bool
		Name     string
		OnDemand bool
	}

	// CompilationUnit is the root of a parsed source file.
	CompilationUnit struct {
		Span
		Package  *PackageDecl
		Imports  []*ImportDecl
		Types    []*TypeDecl
		Comments []Comment
	}
)

// PackageName returns the declared package, or "" for the default package.
func (u *CompilationUnit) PackageName() string {
	if u.Package == nil {
		return ""
	}
	return u.Package.Name
}

func (*Ident) exprNode()          {}
func (*FieldAccess) exprNode()    {}
func (*Literal) exprNode()        {}
func (*ThisExpr) exprNode()       {}
func (*SuperExpr) exprNode()      {}
func (*ParenExpr) exprNode()      {}
func (*CastExpr) exprNode()       {}
func (*InstanceOfExpr) exprNode() {}
func (*UnaryExpr) exprNode()      {}
func (*BinaryExpr) exprNode()     {}
func (*AssignExpr) exprNode()     {}
func (*CondExpr) exprNode()       {}
func (*CallExpr) exprNode()       {}
func (*NewExpr) exprNode()        {}
func (*NewArrayExpr) exprNode()   {}
func (*ArrayInit) exprNode()      {}
func (*IndexExpr) exprNode()      {}
func (*LambdaExpr) exprNode()     {}
func (*MethodRef) exprNode()      {}
func (*ClassLit) exprNode()       {}
func (*SwitchExpr) exprNode()     {}
func (*Annotation) exprNode()     {}

func (*Block) stmtNode()          {}
func (*LocalVarDecl) stmtNode()   {}
func (*LocalClassDecl) stmtNode() {}
func (*ExprStmt) stmtNode()       {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*DoStmt) stmtNode()         {}
func (*ForStmt) stmtNode()        {}
func (*ForEachStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()     {}
func (*ThrowStmt) stmtNode()      {}
func (*YieldStmt) stmtNode()      {}
func (*BranchStmt) stmtNode()     {}
func (*TryStmt) stmtNode()        {}
func (*SwitchStmt) stmtNode()     {}
func (*SyncStmt) stmtNode()       {}
func (*LabeledStmt) stmtNode()    {}
func (*AssertStmt) stmtNode()     {}
func (*EmptyStmt) stmtNode()      {}

func (*TypeDecl) declNode()     {}
func (*FieldDecl) declNode()    {}
func (*MethodDecl) declNode()   {}
func (*Initializer) declNode()  {}
func (*EnumConstant) declNode() {}
