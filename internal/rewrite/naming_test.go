package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/jcleanup/internal/java"
)

func TestSanitize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected string
	}{
		{"Foo", "foo"},
		{"HttpClient", "httpClient"},
		{"URL", "uRL"},
		{"List<String>", "listString"},
		{"Map<String,Integer>", "mapStringInteger"},
		{"Foo[]", "foo"},
		{"Foo$Bar", "fooBar"},
		{"_Internal", "_Internal"},
		{"2D", "v2D"},
		{"Ünïcode", "ünïcode"},
		{"?", ""},
		{"<>[]", ""},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestSeed(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "foo", Seed("Foo"))
	assert.Equal(t, "value", Seed("[]"))
	assert.Equal(t, "value", Seed("Class"), "keywords are not usable names")
	assert.Equal(t, "value", Seed("Int"))
}

func TestAllocateName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		seed     string
		used     []string
		expected string
	}{
		{"free seed", "foo", []string{"bar"}, "foo"},
		{"taken seed", "foo", []string{"foo"}, "foo2"},
		{"taken suffixes", "foo", []string{"foo", "foo2", "foo3"}, "foo4"},
		{"gap in suffixes", "foo", []string{"foo", "foo3"}, "foo2"},
		{"empty seed", "", nil, "value"},
		{"empty seed taken", "", []string{"value"}, "value2"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			used := make(map[string]struct{})
			for _, u := range tt.used {
				used[u] = struct{}{}
			}
			got := AllocateName(tt.seed, used)
			assert.Equal(t, tt.expected, got)
			assert.NotContains(t, used, got)
		})
	}
}

func TestUsedIdentifiers(t *testing.T) {
	t.Parallel()
	src := `class A {
    void m() {
        Foo foo = (Foo) obj;
        System.out.println(foo.bar);
        outer:
        for (int i = 0; i < n; i++) { break outer; }
    }
}`
	unit, err := java.Parse([]byte(src))
	require.NoError(t, err)

	body := unit.Types[0].Members[0].(*java.MethodDecl).Body
	used := UsedIdentifiers(body)

	for _, name := range []string{"Foo", "foo", "obj", "System", "out", "println", "bar", "outer", "i", "n"} {
		assert.Contains(t, used, name)
	}
	assert.NotContains(t, used, "m", "the method name is outside the body")
}
