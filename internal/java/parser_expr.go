package java

// binary operator precedence, higher binds tighter
var binaryPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7, "instanceof": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true, ">>>=": true,
}

// operator returns the operator at the current position, gluing adjacent
// '>' and '=' tokens that the lexer keeps apart, and the number of tokens it spans.
func (p *parser) operator() (string, int) {
	t := p.tok()
	if t.Type == TokenKeyword && t.Value == "instanceof" {
		return t.Value, 1
	}
	if t.Type != TokenOperator {
		return "", 0
	}
	if t.Value != ">" {
		return t.Value, 1
	}

	op, n, end := ">", 1, t.End
	for n < 3 {
		next := p.peek(n)
		if next.Pos != end || !next.is(">") {
			break
		}
		op += ">"
		end = next.End
		n++
	}
	if next := p.peek(n); next.Pos == end && next.is("=") {
		op += "="
		n++
	}
	if op == ">>>>" {
		return ">", 1
	}
	return op, n
}

func (p *parser) consume(n int) {
	for i := 0; i < n; i++ {
		p.next()
	}
}

func (p *parser) parseExpr() Expr {
	if lambda := p.tryLambda(); lambda != nil {
		return lambda
	}

	from := p.start()
	lhs := p.parseTernary()
	if op, n := p.operator(); assignOps[op] {
		p.consume(n)
		rhs := p.parseExpr()
		return &AssignExpr{Span: p.span(from), Op: op, Lhs: lhs, Rhs: rhs}
	}
	return lhs
}

func (p *parser) parseTernary() Expr {
	from := p.start()
	cond := p.parseBinary(1)
	if !p.is("?") {
		return cond
	}
	p.next()
	then := p.parseExpr()
	p.expect(":")
	var els Expr
	if lambda := p.tryLambda(); lambda != nil {
		els = lambda
	} else {
		els = p.parseTernary()
	}
	return &CondExpr{Span: p.span(from), Cond: cond, Then: then, Else: els}
}

func (p *parser) parseBinary(minPrec int) Expr {
	from := p.start()
	x := p.parseUnary()
	for {
		op, n := p.operator()
		prec, ok := binaryPrec[op]
		if !ok || prec < minPrec {
			return x
		}
		p.consume(n)

		if op == "instanceof" {
			x = p.parseInstanceOfRest(from, x)
			continue
		}

		y := p.parseBinary(prec + 1)
		x = &BinaryExpr{Span: p.span(from), Op: op, X: x, Y: y}
	}
}

func (p *parser) parseInstanceOfRest(from int, x Expr) Expr {
	e := &InstanceOfExpr{X: x}
	for p.is("final") || p.is("@") {
		if p.accept("final") {
			e.Final = true
			continue
		}
		p.parseAnnotation()
	}

	typeFrom := p.start()
	e.Type = p.parseType()
	switch {
	case p.is("("):
		e.Record = p.parseRecordPatternRest(typeFrom, e.Type)
	case p.tok().Type == TokenIdent && !p.isIdent("when"):
		e.Binding = p.parseIdent()
	}
	e.Span = p.span(from)
	return e
}

func (p *parser) parseUnary() Expr {
	from := p.start()
	t := p.tok()

	if t.Type == TokenOperator {
		switch t.Value {
		case "++", "--", "+", "-", "!", "~":
			p.next()
			x := p.parseUnary()
			return &UnaryExpr{Span: p.span(from), Op: t.Value, X: x}
		case "(":
			if cast := p.tryCast(); cast != nil {
				return cast
			}
		}
	}

	return p.parsePostfix(from, p.parsePrimary())
}

// tryCast parses "(Type) operand" when the parenthesized tokens form a type
// and the following token can start a cast operand.
func (p *parser) tryCast() Expr {
	from := p.start()
	var cast *CastExpr
	ok := p.try(func() {
		p.expect("(")
		c := &CastExpr{Type: p.parseType()}
		for p.accept("&") {
			c.Bounds = append(c.Bounds, p.parseType())
		}
		p.expect(")")

		if c.Type.IsPrimitive() && c.Type.Dims == 0 && len(c.Bounds) == 0 {
			if !p.startsOperand(true) {
				p.errorf("not a cast")
			}
		} else if !p.startsOperand(false) {
			p.errorf("not a cast")
		}
		cast = c
	})
	if !ok {
		return nil
	}

	if lambda := p.tryLambda(); lambda != nil {
		cast.X = lambda
	} else {
		cast.X = p.parseUnary()
	}
	cast.Span = p.span(from)
	return cast
}

// startsOperand reports whether the current token can begin the operand of a
// cast. Reference casts exclude '+' and '-' to keep "(a) - b" a subtraction.
func (p *parser) startsOperand(primitive bool) bool {
	t := p.tok()
	switch t.Type {
	case TokenIdent, TokenInt, TokenFloat, TokenChar, TokenString, TokenTextBlock:
		return true
	case TokenKeyword:
		switch t.Value {
		case "this", "super", "new", "true", "false", "null", "switch":
			return true
		}
		return primitives[t.Value]
	case TokenOperator:
		switch t.Value {
		case "(", "!", "~":
			return true
		case "+", "-", "++", "--":
			return primitive
		}
	}
	return false
}

// tryLambda parses a lambda expression if one starts at the current token.
func (p *parser) tryLambda() Expr {
	if p.noLambda {
		return nil
	}
	from := p.start()

	// x -> body
	if p.tok().Type == TokenIdent && p.peek(1).is("->") {
		name := p.parseIdent()
		p.expect("->")
		param := &Param{Span: name.Span, Name: name}
		return &LambdaExpr{Params: []*Param{param}, Body: p.parseLambdaBody(), Span: p.span(from)}
	}

	if !p.is("(") {
		return nil
	}
	closing := p.matchingParen(p.pos)
	if closing < 0 || !p.toks[closing+1].is("->") {
		return nil
	}

	p.expect("(")
	var params []*Param
	inferred := p.tok().Type == TokenIdent && (p.peek(1).is(",") || p.peek(1).is(")"))
	for !p.is(")") {
		if inferred {
			name := p.parseIdent()
			params = append(params, &Param{Span: name.Span, Name: name})
		} else {
			paramFrom := p.start()
			param := &Param{Mods: p.parseModifiers(false), Type: p.parseType()}
			if p.accept("...") {
				param.Varargs = true
			}
			param.Name = p.parseIdent()
			for p.is("[") && p.peek(1).is("]") {
				p.next()
				p.next()
				param.Dims++
			}
			param.Span = p.span(paramFrom)
			params = append(params, param)
		}
		if !p.accept(",") {
			break
		}
	}
	p.expect(")")
	p.expect("->")
	return &LambdaExpr{Params: params, Body: p.parseLambdaBody(), Span: p.span(from)}
}

func (p *parser) parseLambdaBody() Node {
	if p.is("{") {
		saved := p.noLambda
		p.noLambda = false
		defer func() { p.noLambda = saved }()
		return p.parseBlock()
	}
	return p.parseExpr()
}

// matchingParen returns the index of the ')' matching the '(' at index open.
func (p *parser) matchingParen(open int) int {
	depth := 0
	for i := open; i < len(p.toks); i++ {
		t := p.toks[i]
		switch {
		case t.Type == TokenEOF:
			return -1
		case t.is("("):
			depth++
		case t.is(")"):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (p *parser) parseArgs() []Expr {
	saved := p.noLambda
	p.noLambda = false
	defer func() { p.noLambda = saved }()

	p.expect("(")
	var args []Expr
	for !p.is(")") {
		args = append(args, p.parseExpr())
		if !p.accept(",") {
			break
		}
	}
	p.expect(")")
	return args
}

func (p *parser) parseArrayInit() *ArrayInit {
	from := p.start()
	p.expect("{")
	init := &ArrayInit{}
	for !p.is("}") {
		if p.is("{") {
			init.Elems = append(init.Elems, p.parseArrayInit())
		} else {
			init.Elems = append(init.Elems, p.parseExpr())
		}
		if !p.accept(",") {
			break
		}
	}
	p.expect("}")
	init.Span = p.span(from)
	return init
}

func (p *parser) parsePrimary() Expr {
	from := p.start()
	t := p.tok()

	switch t.Type {
	case TokenInt, TokenFloat, TokenChar, TokenString, TokenTextBlock:
		p.next()
		return &Literal{Span: p.span(from), Kind: t.Type, Value: t.Value}

	case TokenIdent:
		// array type literals: "String[].class", "String[]::new"
		if p.peek(1).is("[") && p.peek(2).is("]") {
			return p.parseTypeLiteral(from)
		}
		name := p.parseIdent()
		if p.is("(") {
			args := p.parseArgs()
			return &CallExpr{Span: p.span(from), Name: name, Args: args}
		}
		return name

	case TokenKeyword:
		switch t.Value {
		case "true", "false", "null":
			p.next()
			return &Literal{Span: p.span(from), Kind: TokenKeyword, Value: t.Value}
		case "this":
			p.next()
			this := &ThisExpr{Span: p.span(from)}
			if p.is("(") {
				args := p.parseArgs()
				return &CallExpr{Span: p.span(from), X: this, Args: args}
			}
			return this
		case "super":
			p.next()
			super := &SuperExpr{Span: p.span(from)}
			if p.is("(") {
				args := p.parseArgs()
				return &CallExpr{Span: p.span(from), X: super, Args: args}
			}
			if !p.is(".") && !p.is("::") {
				p.errorf("expected '.' or '::' after super")
			}
			return super
		case "new":
			return p.parseNew(from, nil)
		case "switch":
			p.next()
			s := &SwitchExpr{Tag: p.parseParenCond()}
			s.Cases = p.parseSwitchBody()
			s.Span = p.span(from)
			return s
		case "void":
			return p.parseTypeLiteral(from)
		}
		if primitives[t.Value] {
			return p.parseTypeLiteral(from)
		}

	case TokenOperator:
		if t.Value == "(" {
			p.next()
			x := p.parseNoLambdaOff(p.parseExpr)
			p.expect(")")
			return &ParenExpr{Span: p.span(from), X: x}
		}
	}

	p.errorf("unexpected %s in expression", p.describe())
	return nil
}

// parseTypeLiteral parses "T.class" or "T::new" where T is a primitive or array type.
func (p *parser) parseTypeLiteral(from int) Expr {
	typ := p.parseType()
	if p.accept("::") {
		ref := &MethodRef{X: typ}
		ref.Name = p.parseMethodRefName()
		ref.Span = p.span(from)
		return ref
	}
	p.expect(".")
	p.expect("class")
	return &ClassLit{Span: p.span(from), Type: typ}
}

func (p *parser) parseMethodRefName() *Ident {
	t := p.tok()
	if t.is("new") {
		p.next()
		return &Ident{Span: Span{From: t.Pos, To: t.End}, Name: "new"}
	}
	return p.parseIdent()
}

// parseNew parses "new ..." with an optional outer instance ("outer.new Inner()").
func (p *parser) parseNew(from int, outer Expr) Expr {
	p.expect("new")
	var typeArgs []*TypeRef
	if p.is("<") {
		typeArgs, _ = p.parseTypeArgs()
	}

	typeFrom := p.start()
	p.skipTypeAnnotations()
	var typ *TypeRef
	if t := p.tok(); t.Type == TokenKeyword && primitives[t.Value] {
		p.next()
		typ = &TypeRef{Parts: []*TypePart{{Name: &Ident{Span: Span{From: t.Pos, To: t.End}, Name: t.Value}}}}
	} else {
		typ = p.parseClassType(true)
	}
	typ.Span = p.span(typeFrom)

	if p.is("[") {
		arr := &NewArrayExpr{Type: typ}
		for p.is("[") {
			if p.peek(1).is("]") {
				p.next()
				p.next()
				arr.ExtraDims++
				continue
			}
			if arr.ExtraDims > 0 {
				p.errorf("array dimension after empty dimension")
			}
			p.next()
			arr.Dims = append(arr.Dims, p.parseExpr())
			p.expect("]")
		}
		if len(arr.Dims) == 0 {
			arr.Init = p.parseArrayInit()
		}
		arr.Span = p.span(from)
		return arr
	}

	n := &NewExpr{Outer: outer, TypeArgs: typeArgs, Type: typ}
	n.Args = p.parseArgs()
	if p.is("{") {
		n.Body = p.parseClassBody()
	}
	n.Span = p.span(from)
	return n
}

// parsePostfix applies selectors, indexing, method references and postfix operators.
func (p *parser) parsePostfix(from int, x Expr) Expr {
	for {
		switch {
		case p.is("."):
			p.next()
			switch {
			case p.is("new"):
				x = p.parseNew(from, x)
			case p.is("this"):
				p.next()
				x = &ThisExpr{Span: p.span(from), Qualifier: x}
			case p.is("super"):
				p.next()
				super := &SuperExpr{Span: p.span(from), Qualifier: x}
				if p.is("(") {
					args := p.parseArgs()
					x = &CallExpr{Span: p.span(from), X: super, Args: args}
				} else {
					x = super
				}
			case p.is("class"):
				p.next()
				typ := exprToType(x)
				if typ == nil {
					p.errorf("invalid class literal")
				}
				x = &ClassLit{Span: p.span(from), Type: typ}
			case p.is("<"):
				typeArgs, _ := p.parseTypeArgs()
				name := p.parseIdent()
				args := p.parseArgs()
				x = &CallExpr{Span: p.span(from), X: x, TypeArgs: typeArgs, Name: name, Args: args}
			default:
				name := p.parseIdent()
				if p.is("(") {
					args := p.parseArgs()
					x = &CallExpr{Span: p.span(from), X: x, Name: name, Args: args}
				} else {
					x = &FieldAccess{Span: p.span(from), X: x, Name: name}
				}
			}

		case p.is("["):
			p.next()
			index := p.parseExpr()
			p.expect("]")
			x = &IndexExpr{Span: p.span(from), X: x, Index: index}

		case p.is("::"):
			p.next()
			ref := &MethodRef{X: x}
			if p.is("<") {
				ref.TypeArgs, _ = p.parseTypeArgs()
			}
			ref.Name = p.parseMethodRefName()
			ref.Span = p.span(from)
			x = ref

		case p.is("++"), p.is("--"):
			op := p.next().Value
			x = &UnaryExpr{Span: p.span(from), Op: op, X: x, Postfix: true}

		default:
			return x
		}
	}
}

// exprToType converts a name expression ("a.b.C") to a type reference.
func exprToType(x Expr) *TypeRef {
	var parts []*TypePart
	var walk func(Expr) bool
	walk = func(e Expr) bool {
		switch e := e.(type) {
		case *Ident:
			parts = append(parts, &TypePart{Name: e})
			return true
		case *FieldAccess:
			if !walk(e.X) {
				return false
			}
			parts = append(parts, &TypePart{Name: e.Name})
			return true
		}
		return false
	}
	if !walk(x) {
		return nil
	}
	return &TypeRef{Span: Span{From: x.Pos(), To: x.End()}, Parts: parts}
}
