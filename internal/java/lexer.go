package java

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer turns Java source text into tokens. Comments are collected separately.
type Lexer struct {
	input    string
	position int
	tokens   []Token
	comments []Comment
}

// NewLexer returns a new Lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0, len(input)/4),
	}
}

// Tokenize scans the whole input. The returned slice always ends with TokenEOF.
func (l *Lexer) Tokenize() ([]Token, []Comment, error) {
	for l.position < len(l.input) {
		c := l.input[l.position]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			l.position++

		case c == '/' && l.peek(1) == '/':
			l.lexLineComment()

		case c == '/' && l.peek(1) == '*':
			if err := l.lexBlockComment(); err != nil {
				return nil, nil, err
			}

		case c == '"':
			if err := l.lexString(); err != nil {
				return nil, nil, err
			}

		case c == '\'':
			if err := l.lexChar(); err != nil {
				return nil, nil, err
			}

		case isDigit(c) || (c == '.' && isDigit(l.peek(1))):
			l.lexNumber()

		case isIdentStartByte(l.input, l.position):
			l.lexIdent()

		default:
			if !l.lexOperator() {
				r, _ := utf8.DecodeRuneInString(l.input[l.position:])
				return nil, nil, l.errorf(l.position, "unexpected character %q", r)
			}
		}
	}

	l.tokens = append(l.tokens, Token{Type: TokenEOF, Pos: len(l.input), End: len(l.input)})
	return l.tokens, l.comments, nil
}

func (l *Lexer) peek(n int) byte {
	if l.position+n < len(l.input) {
		return l.input[l.position+n]
	}
	return 0
}

func (l *Lexer) add(typ TokenType, start int) {
	l.tokens = append(l.tokens, Token{
		Type:  typ,
		Value: l.input[start:l.position],
		Pos:   start,
		End:   l.position,
	})
}

func (l *Lexer) lexLineComment() {
	start := l.position
	for l.position < len(l.input) && l.input[l.position] != '\n' {
		l.position++
	}
	l.comments = append(l.comments, Comment{Text: l.input[start:l.position], Pos: start, End: l.position})
}

func (l *Lexer) lexBlockComment() error {
	start := l.position
	end := strings.Index(l.input[start+2:], "*/")
	if end < 0 {
		return l.errorf(start, "comment not terminated")
	}
	l.position = start + 2 + end + 2
	l.comments = append(l.comments, Comment{Text: l.input[start:l.position], Pos: start, End: l.position})
	return nil
}

func (l *Lexer) lexString() error {
	start := l.position
	if strings.HasPrefix(l.input[start:], `"""`) {
		end := strings.Index(l.input[start+3:], `"""`)
		for end >= 0 && isEscaped(l.input, start+3+end) {
			next := strings.Index(l.input[start+3+end+1:], `"""`)
			if next < 0 {
				end = -1
				break
			}
			end += next + 1
		}
		if end < 0 {
			return l.errorf(start, "text block not terminated")
		}
		l.position = start + 3 + end + 3
		l.add(TokenTextBlock, start)
		return nil
	}

	l.position++
	for l.position < len(l.input) {
		switch l.input[l.position] {
		case '\\':
			l.position += 2
			continue
		case '\n':
			return l.errorf(start, "string literal not terminated")
		case '"':
			l.position++
			l.add(TokenString, start)
			return nil
		}
		l.position++
	}
	return l.errorf(start, "string literal not terminated")
}

func (l *Lexer) lexChar() error {
	start := l.position
	l.position++
	for l.position < len(l.input) {
		switch l.input[l.position] {
		case '\\':
			l.position += 2
			continue
		case '\n':
			return l.errorf(start, "char literal not terminated")
		case '\'':
			l.position++
			l.add(TokenChar, start)
			return nil
		}
		l.position++
	}
	return l.errorf(start, "char literal not terminated")
}

func (l *Lexer) lexNumber() {
	start := l.position
	typ := TokenInt

	if l.input[start] == '0' && (l.peek(1) == 'x' || l.peek(1) == 'X') {
		l.position += 2
		for l.position < len(l.input) && (isHexDigit(l.input[l.position]) || l.input[l.position] == '_') {
			l.position++
		}
		if l.position < len(l.input) && l.input[l.position] == '.' {
			typ = TokenFloat
			l.position++
			for l.position < len(l.input) && (isHexDigit(l.input[l.position]) || l.input[l.position] == '_') {
				l.position++
			}
		}
		if l.position < len(l.input) && (l.input[l.position] == 'p' || l.input[l.position] == 'P') {
			typ = TokenFloat
			l.lexExponent()
		}
	} else if l.input[start] == '0' && (l.peek(1) == 'b' || l.peek(1) == 'B') {
		l.position += 2
		for l.position < len(l.input) && (l.input[l.position] == '0' || l.input[l.position] == '1' || l.input[l.position] == '_') {
			l.position++
		}
	} else {
		l.skipDigits()
		if l.position < len(l.input) && l.input[l.position] == '.' && isDigitOrEnd(l.peek(1)) {
			typ = TokenFloat
			l.position++
			l.skipDigits()
		}
		if l.position < len(l.input) && (l.input[l.position] == 'e' || l.input[l.position] == 'E') {
			typ = TokenFloat
			l.lexExponent()
		}
	}

	if l.position < len(l.input) {
		switch l.input[l.position] {
		case 'l', 'L':
			l.position++
		case 'f', 'F', 'd', 'D':
			typ = TokenFloat
			l.position++
		}
	}
	l.add(typ, start)
}

// isDigitOrEnd accepts "1." followed by a non-identifier, e.g. "1.;" or "1.e3".
func isDigitOrEnd(c byte) bool {
	return isDigit(c) || c == 'e' || c == 'E' || c == 'f' || c == 'F' || c == 'd' || c == 'D' ||
		!(c == '_' || c == '$' || unicode.IsLetter(rune(c)))
}

func (l *Lexer) lexExponent() {
	l.position++
	if l.position < len(l.input) && (l.input[l.position] == '+' || l.input[l.position] == '-') {
		l.position++
	}
	l.skipDigits()
}

func (l *Lexer) skipDigits() {
	for l.position < len(l.input) && (isDigit(l.input[l.position]) || l.input[l.position] == '_') {
		l.position++
	}
}

func (l *Lexer) lexIdent() {
	start := l.position
	for l.position < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if !isIdentPart(r) {
			break
		}
		l.position += size
	}
	typ := TokenIdent
	if keywords[l.input[start:l.position]] {
		typ = TokenKeyword
	}
	l.add(typ, start)
}

func (l *Lexer) lexOperator() bool {
	for _, op := range operators {
		if strings.HasPrefix(l.input[l.position:], op) {
			start := l.position
			l.position += len(op)
			l.add(TokenOperator, start)
			return true
		}
	}
	return false
}

func (l *Lexer) errorf(offset int, format string, args ...any) error {
	line, col := LineColumn(l.input, offset)
	return &SyntaxError{Line: line, Column: col, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// SyntaxError reports a lexing or parsing failure.
type SyntaxError struct {
	Line   int
	Column int
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// LineColumn converts a byte offset into 1-based line and column numbers.
func LineColumn(src string, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}
	line := 1 + strings.Count(src[:offset], "\n")
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	return line, offset - lineStart + 1
}

func isEscaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }

func isIdentStartByte(s string, i int) bool {
	r, _ := utf8.DecodeRuneInString(s[i:])
	return IsIdentStart(r)
}

// IsIdentStart reports whether r may start a Java identifier.
func IsIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Sc, r)
}

func isIdentPart(r rune) bool {
	return IsIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}
