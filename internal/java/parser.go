package java

import (
	"fmt"
	"strings"
)

// Parse parses a Java compilation unit. The returned tree is unresolved;
// call Resolve to attach type bindings.
func Parse(src []byte) (unit *CompilationUnit, err error) {
	tokens, comments, err := NewLexer(string(src)).Tokenize()
	if err != nil {
		return nil, err
	}

	p := &parser{src: string(src), toks: tokens}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			unit, err = nil, p.err
		}
	}()

	unit = p.parseCompilationUnit()
	unit.Comments = comments
	return unit, nil
}

// ParseExpr parses a single expression; mostly useful in tests.
func ParseExpr(src string) (expr Expr, err error) {
	tokens, _, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}

	p := &parser{src: src, toks: tokens}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			expr, err = nil, p.err
		}
	}()

	expr = p.parseExpr()
	if p.tok().Type != TokenEOF {
		p.errorf("unexpected %s after expression", p.describe())
	}
	return expr, nil
}

// bailout is the panic value used to unwind the parser on the first error.
type bailout struct{}

type parser struct {
	src  string
	toks []Token
	pos  int
	err  *SyntaxError

	// noLambda disables "x ->" lambda detection, used for case labels.
	noLambda bool
}

/***** token helpers *****/

func (p *parser) tok() Token { return p.toks[p.pos] }

func (p *parser) peek(n int) Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if t.Type != TokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) is(value string) bool { return p.tok().is(value) }

func (p *parser) isIdent(name string) bool {
	t := p.tok()
	return t.Type == TokenIdent && t.Value == name
}

func (p *parser) accept(value string) bool {
	if p.is(value) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(value string) Token {
	if !p.is(value) {
		p.errorf("expected %q, found %s", value, p.describe())
	}
	return p.next()
}

func (p *parser) start() int { return p.tok().Pos }

// prevEnd is the end offset of the last consumed token.
func (p *parser) prevEnd() int {
	if p.pos == 0 {
		return 0
	}
	return p.toks[p.pos-1].End
}

func (p *parser) span(from int) Span { return Span{From: from, To: p.prevEnd()} }

func (p *parser) describe() string {
	t := p.tok()
	if t.Type == TokenEOF {
		return "end of file"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Value)
}

func (p *parser) errorf(format string, args ...any) {
	offset := p.tok().Pos
	line, col := LineColumn(p.src, offset)
	p.err = &SyntaxError{Line: line, Column: col, Offset: offset, Msg: fmt.Sprintf(format, args...)}
	panic(bailout{})
}

// try runs f speculatively. On failure the token position is restored.
func (p *parser) try(f func()) (ok bool) {
	saved := p.pos
	savedLambda := p.noLambda
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			p.pos = saved
			p.noLambda = savedLambda
			p.err = nil
			ok = false
		}
	}()
	f()
	return true
}

func (p *parser) parseIdent() *Ident {
	t := p.tok()
	if t.Type != TokenIdent {
		p.errorf("expected identifier, found %s", p.describe())
	}
	p.next()
	return &Ident{Span: Span{From: t.Pos, To: t.End}, Name: t.Value}
}

func (p *parser) parseQualifiedName() string {
	var sb strings.Builder
	sb.WriteString(p.parseIdent().Name)
	for p.is(".") && p.peek(1).Type == TokenIdent {
		p.next()
		sb.WriteByte('.')
		sb.WriteString(p.parseIdent().Name)
	}
	return sb.String()
}

/***** compilation unit *****/

func (p *parser) parseCompilationUnit() *CompilationUnit {
	unit := &CompilationUnit{}

	// package annotations are parsed and dropped
	saved := p.pos
	mods := p.parseModifiers(false)
	if p.is("package") {
		from := p.start()
		if len(mods.Annotations) > 0 {
			from = mods.From
		}
		p.next()
		name := p.parseQualifiedName()
		p.expect(";")
		unit.Package = &PackageDecl{Span: p.span(from), Name: name}
	} else {
		p.pos = saved
	}

	for p.is("import") {
		from := p.start()
		p.next()
		imp := &ImportDecl{}
		if p.is("static") {
			p.next()
			imp.Static = true
		}
		imp.Name = p.parseQualifiedName()
		if p.accept(".") {
			p.expect("*")
			imp.OnDemand = true
		}
		p.expect(";")
		imp.Span = p.span(from)
		unit.Imports = append(unit.Imports, imp)
		for p.accept(";") {
		}
	}

	for p.tok().Type != TokenEOF {
		if p.accept(";") {
			continue
		}
		from := p.start()
		mods := p.parseModifiers(false)
		unit.Types = append(unit.Types, p.parseTypeDecl(from, mods))
	}

	unit.Span = Span{From: 0, To: len(p.src)}
	return unit
}

/***** modifiers and annotations *****/

var modifierKeywords = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true,
	"abstract": true, "final": true, "native": true, "synchronized": true,
	"transient": true, "volatile": true, "strictfp": true,
}

// parseModifiers parses annotations and modifier keywords. It always returns
// a non-nil Modifiers; its span is empty when nothing was consumed.
func (p *parser) parseModifiers(member bool) *Modifiers {
	mods := &Modifiers{Span: Span{From: p.start(), To: p.start()}}
	for {
		t := p.tok()
		switch {
		case t.is("@") && !p.peek(1).is("interface"):
			mods.Annotations = append(mods.Annotations, p.parseAnnotation())
		case t.Type == TokenKeyword && modifierKeywords[t.Value]:
			// "synchronized (" starts a statement, not a modifier
			if t.Value == "synchronized" && p.peek(1).is("(") {
				return mods
			}
			mods.Keywords = append(mods.Keywords, p.next().Value)
		case member && t.is("default") && !p.peek(1).is(":") && !p.peek(1).is("->"):
			mods.Keywords = append(mods.Keywords, p.next().Value)
		case t.Type == TokenIdent && t.Value == "sealed" && p.startsDeclaration(1):
			mods.Keywords = append(mods.Keywords, p.next().Value)
		case t.Type == TokenIdent && t.Value == "non" && p.peek(1).is("-") &&
			p.peek(2).Type == TokenIdent && p.peek(2).Value == "sealed":
			p.next()
			p.next()
			p.next()
			mods.Keywords = append(mods.Keywords, "non-sealed")
		default:
			if len(mods.Keywords) > 0 || len(mods.Annotations) > 0 {
				mods.To = p.prevEnd()
			}
			return mods
		}
	}
}

// startsDeclaration reports whether the token at offset n begins a type
// declaration or another modifier, which disambiguates contextual keywords.
func (p *parser) startsDeclaration(n int) bool {
	t := p.peek(n)
	if t.Type == TokenKeyword {
		return t.Value == "class" || t.Value == "interface" || t.Value == "enum" || modifierKeywords[t.Value]
	}
	if t.is("@") {
		return true
	}
	return t.Type == TokenIdent && (t.Value == "record" || t.Value == "sealed" || t.Value == "non")
}

func (p *parser) parseAnnotation() *Annotation {
	from := p.start()
	p.expect("@")
	ann := &Annotation{Type: p.parseClassType(false)}
	if p.accept("(") {
		for !p.is(")") {
			if p.tok().Type == TokenIdent && p.peek(1).is("=") {
				nameFrom := p.start()
				name := p.parseIdent()
				p.expect("=")
				value := p.parseElementValue()
				ann.Args = append(ann.Args, &AssignExpr{Span: p.span(nameFrom), Op: "=", Lhs: name, Rhs: value})
			} else {
				ann.Args = append(ann.Args, p.parseElementValue())
			}
			if !p.accept(",") {
				break
			}
		}
		p.expect(")")
	}
	ann.Span = p.span(from)
	return ann
}

func (p *parser) parseElementValue() Expr {
	switch {
	case p.is("@"):
		return p.parseAnnotation()
	case p.is("{"):
		from := p.start()
		p.next()
		init := &ArrayInit{}
		for !p.is("}") {
			init.Elems = append(init.Elems, p.parseElementValue())
			if !p.accept(",") {
				break
			}
		}
		p.expect("}")
		init.Span = p.span(from)
		return init
	default:
		return p.parseTernary()
	}
}

/***** types *****/

// parseType parses a type reference including array dimensions.
func (p *parser) parseType() *TypeRef {
	from := p.start()
	p.skipTypeAnnotations()

	var t *TypeRef
	tok := p.tok()
	switch {
	case tok.is("?"):
		p.next()
		t = &TypeRef{Wildcard: true}
		if p.accept("extends") {
			t.Bound = p.parseType()
		} else if p.accept("super") {
			t.Bound = p.parseType()
			t.Super = true
		}
		t.Span = p.span(from)
		return t
	case tok.Type == TokenKeyword && (primitives[tok.Value] || tok.Value == "void"):
		p.next()
		t = &TypeRef{Parts: []*TypePart{{Name: &Ident{Span: Span{From: tok.Pos, To: tok.End}, Name: tok.Value}}}}
	default:
		t = p.parseClassType(true)
	}

	p.parseDims(t)
	t.Span = p.span(from)
	return t
}

// parseDims consumes "[]" pairs (not "[expr]").
func (p *parser) parseDims(t *TypeRef) {
	for {
		saved := p.pos
		p.skipTypeAnnotations()
		if p.is("[") && p.peek(1).is("]") {
			p.next()
			p.next()
			t.Dims++
			continue
		}
		p.pos = saved
		return
	}
}

func (p *parser) skipTypeAnnotations() {
	for p.is("@") && !p.peek(1).is("interface") {
		p.parseAnnotation()
	}
}

// parseClassType parses "a.b.C<T>.D<U>". Type arguments are only parsed
// when withArgs is set.
func (p *parser) parseClassType(withArgs bool) *TypeRef {
	from := p.start()
	t := &TypeRef{}
	for {
		part := &TypePart{Name: p.parseIdent()}
		if withArgs && p.is("<") {
			part.Args, part.Diamond = p.parseTypeArgs()
		}
		t.Parts = append(t.Parts, part)
		if p.is(".") && p.peek(1).Type == TokenIdent {
			p.next()
			continue
		}
		if p.is(".") && p.peek(1).is("@") {
			p.next()
			p.skipTypeAnnotations()
			continue
		}
		break
	}
	t.Span = p.span(from)
	return t
}

func (p *parser) parseTypeArgs() (args []*TypeRef, diamond bool) {
	p.expect("<")
	if p.accept(">") {
		return nil, true
	}
	for {
		args = append(args, p.parseType())
		if !p.accept(",") {
			break
		}
	}
	p.expect(">")
	return args, false
}

func (p *parser) parseTypeList() []*TypeRef {
	var out []*TypeRef
	for {
		out = append(out, p.parseType())
		if !p.accept(",") {
			return out
		}
	}
}

func (p *parser) parseTypeParams() []*TypeParam {
	if !p.is("<") {
		return nil
	}
	p.next()
	var params []*TypeParam
	for {
		from := p.start()
		p.skipTypeAnnotations()
		tp := &TypeParam{Name: p.parseIdent()}
		if p.accept("extends") {
			for {
				tp.Bounds = append(tp.Bounds, p.parseType())
				if !p.accept("&") {
					break
				}
			}
		}
		tp.Span = p.span(from)
		params = append(params, tp)
		if !p.accept(",") {
			break
		}
	}
	p.expect(">")
	return params
}

/***** type declarations *****/

func (p *parser) isRecordStart() bool {
	return p.isIdent("record") && p.peek(1).Type == TokenIdent && (p.peek(2).is("(") || p.peek(2).is("<"))
}

func (p *parser) isTypeDeclStart() bool {
	return p.is("class") || p.is("interface") || p.is("enum") ||
		(p.is("@") && p.peek(1).is("interface")) || p.isRecordStart()
}

func (p *parser) parseTypeDecl(from int, mods *Modifiers) *TypeDecl {
	decl := &TypeDecl{Mods: mods}
	switch {
	case p.accept("class"):
		decl.Kind = KindClass
	case p.accept("interface"):
		decl.Kind = KindInterface
	case p.accept("enum"):
		decl.Kind = KindEnum
	case p.is("@") && p.peek(1).is("interface"):
		p.next()
		p.next()
		decl.Kind = KindAnnotation
	case p.isRecordStart():
		p.next()
		decl.Kind = KindRecord
	default:
		p.errorf("expected type declaration, found %s", p.describe())
	}

	decl.Name = p.parseIdent()
	decl.TypeParams = p.parseTypeParams()

	if decl.Kind == KindRecord {
		decl.Components = p.parseParams()
	}
	if p.accept("extends") {
		decl.Extends = p.parseTypeList()
	}
	if p.accept("implements") {
		decl.Implements = p.parseTypeList()
	}
	if p.isIdent("permits") {
		p.next()
		decl.Permits = p.parseTypeList()
	}

	p.expect("{")
	if decl.Kind == KindEnum {
		decl.EnumConstants = p.parseEnumConstants()
	}
	decl.Members = p.parseMembers(decl.Name.Name)
	p.expect("}")

	decl.Span = p.span(from)
	return decl
}

func (p *parser) parseEnumConstants() []*EnumConstant {
	var out []*EnumConstant
	for !p.is(";") && !p.is("}") {
		from := p.start()
		c := &EnumConstant{Mods: p.parseModifiers(false)}
		c.Name = p.parseIdent()
		if p.is("(") {
			c.Args = p.parseArgs()
		}
		if p.is("{") {
			c.Body = p.parseClassBody()
		}
		c.Span = p.span(from)
		out = append(out, c)
		if !p.accept(",") {
			break
		}
	}
	p.accept(";")
	return out
}

func (p *parser) parseClassBody() *ClassBody {
	from := p.start()
	p.expect("{")
	body := &ClassBody{Members: p.parseMembers("")}
	p.expect("}")
	body.Span = p.span(from)
	return body
}

// parseMembers parses type body members up to (not including) the closing brace.
func (p *parser) parseMembers(typeName string) []Decl {
	var members []Decl
	for !p.is("}") {
		if p.tok().Type == TokenEOF {
			p.errorf("unexpected end of file in type body")
		}
		if p.accept(";") {
			continue
		}
		members = append(members, p.parseMember(typeName))
	}
	return members
}

func (p *parser) parseMember(typeName string) Decl {
	from := p.start()

	if p.is("{") || (p.is("static") && p.peek(1).is("{")) {
		init := &Initializer{Static: p.accept("static")}
		init.Body = p.parseBlock()
		init.Span = p.span(from)
		return init
	}

	mods := p.parseModifiers(true)
	if p.isTypeDeclStart() {
		return p.parseTypeDecl(from, mods)
	}

	typeParams := p.parseTypeParams()

	// constructor, including the compact canonical form of records
	if p.tok().Type == TokenIdent && (p.peek(1).is("(") || (p.peek(1).is("{") && p.tok().Value == typeName)) {
		m := &MethodDecl{Mods: mods, TypeParams: typeParams, Ctor: true, Name: p.parseIdent()}
		if p.is("(") {
			m.Params = p.parseParams()
		}
		if p.accept("throws") {
			m.Throws = p.parseTypeList()
		}
		m.Body = p.parseBlock()
		m.Span = p.span(from)
		return m
	}

	typ := p.parseType()
	name := p.parseIdent()

	if p.is("(") {
		m := &MethodDecl{Mods: mods, TypeParams: typeParams, Result: typ, Name: name}
		m.Params = p.parseParams()
		p.parseDims(typ)
		if p.accept("throws") {
			m.Throws = p.parseTypeList()
		}
		if p.accept("default") {
			m.Default = p.parseElementValue()
		}
		if p.is("{") {
			m.Body = p.parseBlock()
		} else {
			p.expect(";")
		}
		m.Span = p.span(from)
		return m
	}

	field := &FieldDecl{Mods: mods, Type: typ, Vars: p.parseDeclarators(name)}
	p.expect(";")
	field.Span = p.span(from)
	return field
}

// parseDeclarators parses "name[] = init, other = init" given the first name.
func (p *parser) parseDeclarators(first *Ident) []*VarDeclarator {
	var vars []*VarDeclarator
	name := first
	for {
		v := &VarDeclarator{Name: name}
		for p.is("[") && p.peek(1).is("]") {
			p.next()
			p.next()
			v.Dims++
		}
		if p.accept("=") {
			if p.is("{") {
				v.Init = p.parseArrayInit()
			} else {
				v.Init = p.parseExpr()
			}
		}
		v.Span = p.span(name.From)
		vars = append(vars, v)
		if !p.accept(",") {
			return vars
		}
		name = p.parseIdent()
	}
}

func (p *parser) parseParams() []*Param {
	p.expect("(")
	var params []*Param
	for !p.is(")") {
		from := p.start()
		param := &Param{Mods: p.parseModifiers(false)}
		param.Type = p.parseType()
		if p.accept("...") {
			param.Varargs = true
		}
		// receiver parameter: "Type this" or "Type Outer.this"
		if p.is("this") || (p.tok().Type == TokenIdent && p.peek(1).is(".") && p.peek(2).is("this")) {
			for !p.is("this") {
				p.next()
			}
			t := p.next()
			param.Name = &Ident{Span: Span{From: t.Pos, To: t.End}, Name: "this"}
		} else {
			param.Name = p.parseIdent()
		}
		for p.is("[") && p.peek(1).is("]") {
			p.next()
			p.next()
			param.Dims++
		}
		param.Span = p.span(from)
		params = append(params, param)
		if !p.accept(",") {
			break
		}
	}
	p.expect(")")
	return params
}
