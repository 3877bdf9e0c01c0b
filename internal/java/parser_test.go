package java

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleUnit = `package com.example.shapes;

import java.util.List;
import java.util.Map;
import static java.util.Objects.requireNonNull;

/** Shapes. */
@SuppressWarnings("unchecked")
public final class Shapes<T extends Comparable<T>> implements Iterable<T> {
    private final List<Map<String, List<T>>> nested = null;
    private int[] counts = new int[] {1, 2, 3};

    public Shapes(List<T> items) {
        super();
        this.items = requireNonNull(items);
    }

    @Override
    public java.util.Iterator<T> iterator() {
        return items.iterator();
    }

    static <R> R first(List<? extends R> values) throws Exception {
        for (R value : values) {
            return value;
        }
        int total = 0;
        for (int i = 0, j = 10; i < j; i++, j--) {
            total += i >>> 1;
            total >>= 2;
        }
        label:
        while (total > 0) {
            if (total >> 1 > 3) break label;
            total--;
        }
        try (var in = open(); Reader r = reader()) {
            in.read();
        } catch (IOException | RuntimeException e) {
            throw new IllegalStateException(e);
        } finally {
            close();
        }
        Runnable r = () -> System.out.println("run");
        java.util.function.Function<String, Integer> f = String::length;
        String text = """
            multi "line"
            """;
        char c = '\'';
        return null;
    }

    enum Color { RED, GREEN { void paint() {} }, BLUE; }

    record Point(int x, int y) {
        Point {
            assert x >= 0 : "negative";
        }
    }

    interface Visitor<R> {
        default R visit(Object node) { return null; }
    }

    @interface Marker {
        String value() default "";
    }

    Object describe(Object shape) {
        var local = new Object() { int hidden; };
        class Local {}
        synchronized (this) {
            do { shape = next(shape); } while (shape != null);
        }
        return switch (shape) {
            case Point(int x, int y) when x > y -> "wide";
            case Point p -> "point";
            case String s -> {
                yield s.isEmpty() ? "empty" : s;
            }
            case null, default -> "other";
        };
    }

    int classic(int day) {
        switch (day) {
            case 1:
            case 2:
                return 1;
            default:
                return 0;
        }
    }
}
`

func TestParseUnit(t *testing.T) {
	t.Parallel()
	unit, err := Parse([]byte(sampleUnit))
	require.NoError(t, err)

	assert.Equal(t, "com.example.shapes", unit.PackageName())
	require.Len(t, unit.Imports, 3)
	assert.Equal(t, "java.util.List", unit.Imports[0].Name)
	assert.True(t, unit.Imports[2].Static)

	require.Len(t, unit.Types, 1)
	shapes := unit.Types[0]
	assert.Equal(t, "Shapes", shapes.Name.Name)
	assert.Equal(t, KindClass, shapes.Kind)
	require.Len(t, shapes.TypeParams, 1)
	assert.Equal(t, "T", shapes.TypeParams[0].Name.Name)

	kinds := make(map[string]TypeKind)
	for _, m := range shapes.Members {
		if decl, ok := m.(*TypeDecl); ok {
			kinds[decl.Name.Name] = decl.Kind
		}
	}
	assert.Equal(t, map[string]TypeKind{
		"Color":   KindEnum,
		"Point":   KindRecord,
		"Visitor": KindInterface,
		"Marker":  KindAnnotation,
	}, kinds)

	assert.NotEmpty(t, unit.Comments)
	assert.Equal(t, "/** Shapes. */", unit.Comments[0].Text)
}

func TestParsePositions(t *testing.T) {
	t.Parallel()
	src := []byte(sampleUnit)
	unit, err := Parse(src)
	require.NoError(t, err)

	// every node's span lies within its parent's span
	InspectWithStack(unit, func(n Node, stack []Node) bool {
		assert.LessOrEqual(t, n.Pos(), n.End())
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			assert.GreaterOrEqual(t, n.Pos(), parent.Pos(), "%T inside %T", n, parent)
			assert.LessOrEqual(t, n.End(), parent.End(), "%T inside %T", n, parent)
		}
		return true
	})

	texts := make(map[string]bool)
	Inspect(unit, func(n Node) bool {
		switch n.(type) {
		case *LambdaExpr, *MethodRef, *SwitchExpr, *IfStmt, *Literal:
			texts[Text(src, n)] = true
		}
		return true
	})
	assert.True(t, texts[`() -> System.out.println("run")`])
	assert.True(t, texts["String::length"])
	assert.True(t, texts["if (total >> 1 > 3) break label;"])
	assert.True(t, texts["'\\''"])
	assert.True(t, texts["\"\"\"\n            multi \"line\"\n            \"\"\""])
}

func TestParseExprShapes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src   string
		check func(t *testing.T, e Expr)
	}{
		{"(Foo) x", func(t *testing.T, e Expr) {
			c := e.(*CastExpr)
			assert.Equal(t, "Foo", c.Type.SimpleName())
			assert.IsType(t, &Ident{}, c.X)
		}},
		{"(a) - b", func(t *testing.T, e Expr) {
			b := e.(*BinaryExpr)
			assert.Equal(t, "-", b.Op)
			assert.IsType(t, &ParenExpr{}, b.X)
		}},
		{"(int) -x", func(t *testing.T, e Expr) {
			c := e.(*CastExpr)
			assert.True(t, c.Type.IsPrimitive())
			assert.IsType(t, &UnaryExpr{}, c.X)
		}},
		{"((Foo) x).run()", func(t *testing.T, e Expr) {
			call := e.(*CallExpr)
			paren := call.X.(*ParenExpr)
			assert.IsType(t, &CastExpr{}, paren.X)
		}},
		{"(Foo & Bar) x", func(t *testing.T, e Expr) {
			c := e.(*CastExpr)
			assert.Len(t, c.Bounds, 1)
		}},
		{"(List<String>) x", func(t *testing.T, e Expr) {
			c := e.(*CastExpr)
			require.Len(t, c.Type.Parts, 1)
			assert.Len(t, c.Type.Parts[0].Args, 1)
		}},
		{"(Map<String, List<Integer>>) x", func(t *testing.T, e Expr) {
			c := e.(*CastExpr)
			inner := c.Type.Parts[0].Args[1]
			assert.Equal(t, "List", inner.SimpleName())
		}},
		{"a < b", func(t *testing.T, e Expr) {
			assert.Equal(t, "<", e.(*BinaryExpr).Op)
		}},
		{"a >> 2 >>> 1", func(t *testing.T, e Expr) {
			b := e.(*BinaryExpr)
			assert.Equal(t, ">>>", b.Op)
			assert.Equal(t, ">>", b.X.(*BinaryExpr).Op)
		}},
		{"x >>>= 3", func(t *testing.T, e Expr) {
			assert.Equal(t, ">>>=", e.(*AssignExpr).Op)
		}},
		{"a > b == c >= d", func(t *testing.T, e Expr) {
			b := e.(*BinaryExpr)
			assert.Equal(t, "==", b.Op)
			assert.Equal(t, ">=", b.Y.(*BinaryExpr).Op)
		}},
		{"x instanceof Foo && y", func(t *testing.T, e Expr) {
			b := e.(*BinaryExpr)
			assert.Equal(t, "&&", b.Op)
			assert.IsType(t, &InstanceOfExpr{}, b.X)
		}},
		{"x instanceof final Foo f", func(t *testing.T, e Expr) {
			i := e.(*InstanceOfExpr)
			assert.True(t, i.Final)
			assert.Equal(t, "f", i.Binding.Name)
		}},
		{"o instanceof Point(int x, var y)", func(t *testing.T, e Expr) {
			i := e.(*InstanceOfExpr)
			require.NotNil(t, i.Record)
			assert.Len(t, i.Record.Components, 2)
		}},
		{"a ? b : c ? d : e", func(t *testing.T, e Expr) {
			c := e.(*CondExpr)
			assert.IsType(t, &CondExpr{}, c.Else)
		}},
		{"(a, b) -> a + b", func(t *testing.T, e Expr) {
			l := e.(*LambdaExpr)
			assert.Len(t, l.Params, 2)
			assert.IsType(t, &BinaryExpr{}, l.Body)
		}},
		{"(String s) -> { return s; }", func(t *testing.T, e Expr) {
			l := e.(*LambdaExpr)
			assert.NotNil(t, l.Params[0].Type)
			assert.IsType(t, &Block{}, l.Body)
		}},
		{"outer.new Inner()", func(t *testing.T, e Expr) {
			n := e.(*NewExpr)
			assert.NotNil(t, n.Outer)
		}},
		{"new int[3][]", func(t *testing.T, e Expr) {
			n := e.(*NewArrayExpr)
			assert.Len(t, n.Dims, 1)
			assert.Equal(t, 1, n.ExtraDims)
		}},
		{"String[].class", func(t *testing.T, e Expr) {
			assert.Equal(t, 1, e.(*ClassLit).Type.Dims)
		}},
		{"Collections.<String>emptyList()", func(t *testing.T, e Expr) {
			assert.Len(t, e.(*CallExpr).TypeArgs, 1)
		}},
		{"items[i].name", func(t *testing.T, e Expr) {
			f := e.(*FieldAccess)
			assert.IsType(t, &IndexExpr{}, f.X)
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			e, err := ParseExpr(tt.src)
			require.NoError(t, err)
			assert.Equal(t, 0, e.Pos())
			assert.Equal(t, len(tt.src), e.End())
			tt.check(t, e)
		})
	}
}

func TestParseIfCondition(t *testing.T) {
	t.Parallel()
	src := []byte(`class A { void m() { if (x instanceof Foo) { ((Foo) x).go(); } } }`)
	unit, err := Parse(src)
	require.NoError(t, err)

	var stmt *IfStmt
	Inspect(unit, func(n Node) bool {
		if s, ok := n.(*IfStmt); ok {
			stmt = s
		}
		return true
	})
	require.NotNil(t, stmt)

	test, ok := stmt.Cond.(*InstanceOfExpr)
	require.True(t, ok, "the condition parentheses belong to the statement")
	assert.Equal(t, "x instanceof Foo", Text(src, test))
	assert.Equal(t, "x", Text(src, test.X))
	assert.Equal(t, "Foo", Text(src, test.Type))
	assert.IsType(t, &Block{}, stmt.Then)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"missing semicolon", "class A {\n  int x = 1\n}", 3},
		{"unterminated string", "class A {\n  String s = \"abc;\n}", 2},
		{"unterminated comment", "class A {} /* open", 1},
		{"stray token", "class A { void m() { ) } }", 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tt.line, syntaxErr.Line)
		})
	}
}

func TestLineColumn(t *testing.T) {
	t.Parallel()
	src := "ab\ncd\n"
	line, col := LineColumn(src, 0)
	assert.Equal(t, []int{1, 1}, []int{line, col})
	line, col = LineColumn(src, 4)
	assert.Equal(t, []int{2, 2}, []int{line, col})
	line, col = LineColumn(src, 100)
	assert.Equal(t, []int{3, 1}, []int{line, col})
}
