package java

func (p *parser) parseBlock() *Block {
	from := p.start()
	p.expect("{")
	block := &Block{}
	for !p.is("}") {
		if p.tok().Type == TokenEOF {
			p.errorf("unexpected end of file in block")
		}
		block.Stmts = append(block.Stmts, p.parseBlockStmt())
	}
	p.expect("}")
	block.Span = p.span(from)
	return block
}

// parseBlockStmt parses a statement, a local variable declaration or a local class.
func (p *parser) parseBlockStmt() Stmt {
	from := p.start()

	if p.is("final") || p.is("abstract") || p.is("static") || p.is("strictfp") ||
		(p.is("@") && !p.peek(1).is("interface")) || p.isTypeDeclStart() ||
		(p.isIdent("sealed") && p.startsDeclaration(1)) {
		mods := p.parseModifiers(false)
		if p.isTypeDeclStart() {
			decl := p.parseTypeDecl(from, mods)
			return &LocalClassDecl{Span: p.span(from), Decl: decl}
		}
		decl := p.parseLocalVarRest(from, mods, p.parseType())
		p.expect(";")
		decl.Span = p.span(from)
		return decl
	}

	if decl, ok := p.tryLocalVarDecl(from); ok {
		p.expect(";")
		decl.Span = p.span(from)
		return decl
	}
	return p.parseStmt()
}

// tryLocalVarDecl speculatively parses "Type name ..." without modifiers.
func (p *parser) tryLocalVarDecl(from int) (*LocalVarDecl, bool) {
	t := p.tok()
	if t.Type != TokenIdent && !(t.Type == TokenKeyword && primitives[t.Value]) {
		return nil, false
	}

	var decl *LocalVarDecl
	ok := p.try(func() {
		typ := p.parseType()
		if p.tok().Type != TokenIdent {
			p.errorf("not a declaration")
		}
		switch next := p.peek(1); {
		case next.is("="), next.is(";"), next.is(","), next.is("["), next.is(":"):
		default:
			p.errorf("not a declaration")
		}
		decl = p.parseLocalVarRest(from, &Modifiers{Span: Span{From: from, To: from}}, typ)
	})
	return decl, ok
}

func (p *parser) parseLocalVarRest(from int, mods *Modifiers, typ *TypeRef) *LocalVarDecl {
	decl := &LocalVarDecl{Mods: mods, Type: typ}
	decl.Vars = p.parseDeclarators(p.parseIdent())
	decl.Span = p.span(from)
	return decl
}

func (p *parser) parseStmt() Stmt {
	from := p.start()
	t := p.tok()

	switch {
	case t.is("{"):
		return p.parseBlock()

	case t.is(";"):
		p.next()
		return &EmptyStmt{Span: p.span(from)}

	case t.is("if"):
		p.next()
		s := &IfStmt{Cond: p.parseParenCond()}
		s.Then = p.parseStmt()
		if p.accept("else") {
			s.Else = p.parseStmt()
		}
		s.Span = p.span(from)
		return s

	case t.is("while"):
		p.next()
		s := &WhileStmt{Cond: p.parseParenCond()}
		s.Body = p.parseStmt()
		s.Span = p.span(from)
		return s

	case t.is("do"):
		p.next()
		s := &DoStmt{Body: p.parseStmt()}
		p.expect("while")
		s.Cond = p.parseParenCond()
		p.expect(";")
		s.Span = p.span(from)
		return s

	case t.is("for"):
		return p.parseFor()

	case t.is("try"):
		return p.parseTry()

	case t.is("switch"):
		p.next()
		s := &SwitchStmt{Tag: p.parseParenCond()}
		s.Cases = p.parseSwitchBody()
		s.Span = p.span(from)
		return s

	case t.is("return"):
		p.next()
		s := &ReturnStmt{}
		if !p.is(";") {
			s.X = p.parseExpr()
		}
		p.expect(";")
		s.Span = p.span(from)
		return s

	case t.is("throw"):
		p.next()
		s := &ThrowStmt{X: p.parseExpr()}
		p.expect(";")
		s.Span = p.span(from)
		return s

	case t.is("break"), t.is("continue"):
		p.next()
		s := &BranchStmt{Tok: t.Value}
		if p.tok().Type == TokenIdent {
			s.Label = p.parseIdent()
		}
		p.expect(";")
		s.Span = p.span(from)
		return s

	case t.is("synchronized"):
		p.next()
		s := &SyncStmt{Lock: p.parseParenCond()}
		s.Body = p.parseBlock()
		s.Span = p.span(from)
		return s

	case t.is("assert"):
		p.next()
		s := &AssertStmt{Cond: p.parseExpr()}
		if p.accept(":") {
			s.Msg = p.parseExpr()
		}
		p.expect(";")
		s.Span = p.span(from)
		return s

	case t.Type == TokenIdent && t.Value == "yield" && p.isYield():
		p.next()
		s := &YieldStmt{X: p.parseExpr()}
		p.expect(";")
		s.Span = p.span(from)
		return s

	case t.Type == TokenIdent && p.peek(1).is(":"):
		label := p.parseIdent()
		p.expect(":")
		s := &LabeledStmt{Label: label, Stmt: p.parseStmt()}
		s.Span = p.span(from)
		return s
	}

	s := &ExprStmt{X: p.parseExpr()}
	p.expect(";")
	s.Span = p.span(from)
	return s
}

// isYield distinguishes "yield expr;" from uses of a variable named yield.
func (p *parser) isYield() bool {
	next := p.peek(1)
	switch {
	case next.is("="), next.is("."), next.is("["), next.is("++"), next.is("--"),
		next.is(";"), next.is("+="), next.is("-="), next.is("*="), next.is("/="):
		return false
	}
	return true
}

// parseParenCond parses "( expr )" as used by if/while/switch; the parentheses
// belong to the statement and do not produce a ParenExpr.
func (p *parser) parseParenCond() Expr {
	p.expect("(")
	x := p.parseExpr()
	p.expect(")")
	return x
}

func (p *parser) parseFor() Stmt {
	from := p.start()
	p.expect("for")
	p.expect("(")

	// enhanced for: "for (mods Type name : expr)"
	var each *ForEachStmt
	if p.try(func() {
		varFrom := p.start()
		mods := p.parseModifiers(false)
		typ := p.parseType()
		name := p.parseIdent()
		p.expect(":")
		v := &VarDeclarator{Span: Span{From: name.From, To: name.To}, Name: name}
		each = &ForEachStmt{Var: &LocalVarDecl{Span: Span{From: varFrom, To: name.To}, Mods: mods, Type: typ, Vars: []*VarDeclarator{v}}}
	}) {
		each.Iterable = p.parseExpr()
		p.expect(")")
		each.Body = p.parseStmt()
		each.Span = p.span(from)
		return each
	}

	s := &ForStmt{}
	if !p.is(";") {
		initFrom := p.start()
		if p.is("final") || p.is("@") {
			mods := p.parseModifiers(false)
			s.Init = append(s.Init, p.parseLocalVarRest(initFrom, mods, p.parseType()))
		} else if decl, ok := p.tryLocalVarDecl(initFrom); ok {
			s.Init = append(s.Init, decl)
		} else {
			for {
				exprFrom := p.start()
				x := p.parseExpr()
				s.Init = append(s.Init, &ExprStmt{Span: p.span(exprFrom), X: x})
				if !p.accept(",") {
					break
				}
			}
		}
	}
	p.expect(";")
	if !p.is(";") {
		s.Cond = p.parseExpr()
	}
	p.expect(";")
	for !p.is(")") {
		s.Update = append(s.Update, p.parseExpr())
		if !p.accept(",") {
			break
		}
	}
	p.expect(")")
	s.Body = p.parseStmt()
	s.Span = p.span(from)
	return s
}

func (p *parser) parseTry() Stmt {
	from := p.start()
	p.expect("try")
	s := &TryStmt{}

	if p.accept("(") {
		for !p.is(")") {
			resFrom := p.start()
			if p.is("final") || p.is("@") {
				mods := p.parseModifiers(false)
				decl := p.parseLocalVarRest(resFrom, mods, p.parseType())
				s.Resources = append(s.Resources, decl)
			} else if decl, ok := p.tryLocalVarDecl(resFrom); ok {
				s.Resources = append(s.Resources, decl)
			} else {
				s.Resources = append(s.Resources, p.parseExpr())
			}
			if !p.accept(";") {
				break
			}
		}
		p.expect(")")
	}

	s.Body = p.parseBlock()
	for p.is("catch") {
		catchFrom := p.start()
		p.next()
		p.expect("(")
		c := &CatchClause{Mods: p.parseModifiers(false)}
		for {
			c.Types = append(c.Types, p.parseType())
			if !p.accept("|") {
				break
			}
		}
		c.Name = p.parseIdent()
		p.expect(")")
		c.Body = p.parseBlock()
		c.Span = p.span(catchFrom)
		s.Catches = append(s.Catches, c)
	}
	if p.accept("finally") {
		s.Finally = p.parseBlock()
	}
	if len(s.Catches) == 0 && s.Finally == nil && len(s.Resources) == 0 {
		p.errorf("try without catch, finally or resources")
	}
	s.Span = p.span(from)
	return s
}

// parseSwitchBody parses "{ cases }" for both switch statements and expressions.
func (p *parser) parseSwitchBody() []*SwitchCase {
	p.expect("{")
	var cases []*SwitchCase
	for !p.is("}") {
		from := p.start()
		c := &SwitchCase{}
		if p.accept("default") {
			c.Default = true
		} else {
			p.expect("case")
			for {
				if p.accept("default") {
					c.Default = true
				} else {
					c.Labels = append(c.Labels, p.parseCaseLabel())
				}
				if !p.accept(",") {
					break
				}
			}
			if p.isIdent("when") {
				p.next()
				c.Guard = p.parseNoLambda(p.parseExpr)
			}
		}

		if p.accept("->") {
			c.Arrow = true
			switch {
			case p.is("{"):
				c.Body = []Stmt{p.parseBlock()}
			case p.is("throw"):
				c.Body = []Stmt{p.parseStmt()}
			default:
				exprFrom := p.start()
				x := p.parseExpr()
				p.expect(";")
				c.Body = []Stmt{&ExprStmt{Span: p.span(exprFrom), X: x}}
			}
		} else {
			p.expect(":")
			for !p.is("case") && !p.is("default") && !p.is("}") {
				if p.tok().Type == TokenEOF {
					p.errorf("unexpected end of file in switch")
				}
				c.Body = append(c.Body, p.parseBlockStmt())
			}
		}
		c.Span = p.span(from)
		cases = append(cases, c)
	}
	p.expect("}")
	return cases
}

func (p *parser) parseCaseLabel() Node {
	var pattern Node
	if p.try(func() { pattern = p.parsePattern() }) {
		return pattern
	}
	return p.parseNoLambda(p.parseTernary)
}

func (p *parser) parseNoLambda(f func() Expr) Expr {
	saved := p.noLambda
	p.noLambda = true
	defer func() { p.noLambda = saved }()
	return f()
}

// parseNoLambdaOff re-enables lambdas inside nested delimiters.
func (p *parser) parseNoLambdaOff(f func() Expr) Expr {
	saved := p.noLambda
	p.noLambda = false
	defer func() { p.noLambda = saved }()
	return f()
}

// parsePattern parses a type pattern "final Type name" or a record pattern "Type(...)".
func (p *parser) parsePattern() Node {
	from := p.start()
	final := false
	for p.is("final") || p.is("@") {
		if p.accept("final") {
			final = true
			continue
		}
		p.parseAnnotation()
	}
	typ := p.parseType()
	if p.is("(") {
		return p.parseRecordPatternRest(from, typ)
	}
	name := p.parseIdent()
	return &TypePattern{Span: p.span(from), Final: final, Type: typ, Name: name}
}

func (p *parser) parseRecordPatternRest(from int, typ *TypeRef) *RecordPattern {
	p.expect("(")
	rp := &RecordPattern{Type: typ}
	for !p.is(")") {
		rp.Components = append(rp.Components, p.parsePattern())
		if !p.accept(",") {
			break
		}
	}
	p.expect(")")
	rp.Span = p.span(from)
	return rp
}
