package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "integer comparison",
			node: Compare("age", Greater, IntLiteral(30)),
			want: "Comparison(age, >, 30)",
		},
		{
			name: "string comparison",
			node: Compare("name", Equal, StringLiteral("AND OR")),
			want: `Comparison(name, =, "AND OR")`,
		},
		{
			name: "string with quote characters",
			node: Compare("q", Equal, StringLiteral(`say "hi"`)),
			want: `Comparison(q, =, "say \"hi\"")`,
		},
		{
			name: "logical",
			node: Or(Compare("a", Less, IntLiteral(1)), And(Compare("b", GreaterEqual, IntLiteral(2)), Compare("c", LessEqual, IntLiteral(3)))),
			want: "Or(Comparison(a, <, 1), And(Comparison(b, >=, 2), Comparison(c, <=, 3)))",
		},
		{
			name: "non identifier attribute is quoted",
			node: Compare("a, =, 1), And(x", Equal, IntLiteral(1)),
			want: `Comparison("a, =, 1), And(x", =, 1)`,
		},
		{
			name: "empty attribute is quoted",
			node: Compare("", Equal, IntLiteral(1)),
			want: `Comparison("", =, 1)`,
		},
		{
			name: "nil",
			node: nil,
			want: "<nil>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.node))
		})
	}
}

func TestRender_Stable(t *testing.T) {
	text := "(a = '1' OR b > 2) AND c = 'x'"
	first := mustParse(t, text)
	second := mustParse(t, text)

	assert.Equal(t, Render(first), Render(first))
	assert.Equal(t, Render(first), Render(second))
	assert.Equal(t, Render(first), first.String())
}

func TestRender_DistinguishesStructure(t *testing.T) {
	distinct := []Node{
		Compare("age", Equal, IntLiteral(30)),
		Compare("age", Equal, StringLiteral("30")),
		Compare("age", Greater, IntLiteral(30)),
		mustParse(t, "a = 1 OR b = 2 AND c = 3"),
		mustParse(t, "(a = 1 OR b = 2) AND c = 3"),
		mustParse(t, "a = 1 AND (b = 2 AND c = 3)"),
		mustParse(t, "a = 1 AND b = 2 AND c = 3"),
	}

	seen := make(map[string]int)
	for i, n := range distinct {
		r := Render(n)
		if j, dup := seen[r]; dup {
			t.Errorf("trees %d and %d both render as %q", j, i, r)
		}
		seen[r] = i
	}
}

func TestComparatorAndOperator_String(t *testing.T) {
	assert.Equal(t, ">", Greater.String())
	assert.Equal(t, "=", Equal.String())
	assert.Equal(t, "?", Comparator(42).String())
	assert.Equal(t, "And", OpAnd.String())
	assert.Equal(t, "Or", OpOr.String())
	assert.Equal(t, "?", Operator(7).String())
}

func TestLiteral(t *testing.T) {
	n, ok := IntLiteral(7).Int()
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, IntKind, IntLiteral(7).Kind())
	assert.Equal(t, "7", IntLiteral(7).Text())

	_, ok = StringLiteral("7").Int()
	assert.False(t, ok)
	assert.Equal(t, StringKind, StringLiteral("7").Kind())
	assert.Equal(t, "7", StringLiteral("7").Text())
	assert.Equal(t, `"7"`, StringLiteral("7").String())
}
