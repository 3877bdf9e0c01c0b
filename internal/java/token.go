package java

import "fmt"

// TokenType identifies the lexical class of a Token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenKeyword
	TokenInt
	TokenFloat
	TokenChar
	TokenString
	TokenTextBlock
	TokenOperator
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "identifier"
	case TokenKeyword:
		return "keyword"
	case TokenInt:
		return "int literal"
	case TokenFloat:
		return "float literal"
	case TokenChar:
		return "char literal"
	case TokenString:
		return "string literal"
	case TokenTextBlock:
		return "text block"
	case TokenOperator:
		return "operator"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token is a single lexical token. Pos and End are byte offsets into the source.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
	End   int
}

func (t Token) is(value string) bool {
	return (t.Type == TokenOperator || t.Type == TokenKeyword) && t.Value == value
}

// Comment is a line or block comment, kept for suppression handling.
type Comment struct {
	Text string
	Pos  int
	End  int
}

var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true,
}

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

// IsPrimitive reports whether name is a primitive type keyword.
func IsPrimitive(name string) bool { return primitives[name] }

// IsKeyword reports whether name is a reserved word (including literals).
func IsKeyword(name string) bool { return keywords[name] }

// operators sorted longest first so the lexer can match greedily.
// '>' is always emitted alone so that nested type arguments close correctly;
// the parser glues adjacent '>' and '=' tokens back into shift and compare operators.
var operators = []string{
	"<<=", "...", "->", "::", "++", "--", "&&", "||",
	"==", "!=", "<=", "+=", "-=", "*=", "/=", "&=", "|=", "^=", "%=", "<<",
	"(", ")", "{", "}", "[", "]", ";", ",", ".", "@", "=", ">", "<", "!",
	"~", "?", ":", "+", "-", "*", "/", "&", "|", "^", "%",
}
