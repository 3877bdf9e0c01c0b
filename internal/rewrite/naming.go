package rewrite

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/gnolang/jcleanup/internal/java"
)

// fallbackName is used when a type name leaves nothing usable after sanitizing.
const fallbackName = "value"

// Sanitize turns a type display name such as "List<String>" or "Foo[]" into a
// lower camel case identifier seed. It returns "" when no letter, digit or
// underscore remains.
func Sanitize(typeName string) string {
	var b strings.Builder
	for _, r := range typeName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		return ""
	}

	first := []rune(name)[0]
	if !java.IsIdentStart(first) {
		name = "v" + name
	}

	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// Seed returns the sanitized seed for typeName, or the fallback name.
func Seed(typeName string) string {
	if s := Sanitize(typeName); s != "" && !java.IsKeyword(s) {
		return s
	}
	return fallbackName
}

// UsedIdentifiers collects every identifier appearing anywhere in the given
// nodes: variables, type names, member and method names, labels.
func UsedIdentifiers(nodes ...java.Node) map[string]struct{} {
	used := make(map[string]struct{})
	for _, n := range nodes {
		java.Inspect(n, func(n java.Node) bool {
			if id, ok := n.(*java.Ident); ok {
				used[id.Name] = struct{}{}
			}
			return true
		})
	}
	return used
}

// AllocateName returns seed if it is not in used, otherwise the first of
// seed2, seed3, ... that is not.
func AllocateName(seed string, used map[string]struct{}) string {
	if seed == "" {
		seed = fallbackName
	}
	if _, taken := used[seed]; !taken {
		return seed
	}
	for i := 2; ; i++ {
		name := seed + strconv.Itoa(i)
		if _, taken := used[name]; !taken {
			return name
		}
	}
}
