package expr

import "strconv"

// Node is an expression tree node. It is implemented by Comparison and
// Logical only. Nodes are immutable values and may be shared freely between
// goroutines.
type Node interface {
	node() // marker method

	// String renders the subtree; see Render.
	String() string
}

// Comparator is the relation a Comparison tests.
type Comparator int

const (
	Greater Comparator = iota
	Equal
	Less
	GreaterEqual
	LessEqual
)

var comparatorSymbols = map[Comparator]string{
	Greater:      ">",
	Equal:        "=",
	Less:         "<",
	GreaterEqual: ">=",
	LessEqual:    "<=",
}

// String returns the comparator's symbol.
func (c Comparator) String() string {
	if s, ok := comparatorSymbols[c]; ok {
		return s
	}
	return "?"
}

// ordered reports whether the comparator needs integer ordering.
func (c Comparator) ordered() bool {
	return c != Equal
}

// comparatorFor maps a comparator token's symbol to its Comparator.
func comparatorFor(symbol string) (Comparator, bool) {
	for c, s := range comparatorSymbols {
		if s == symbol {
			return c, true
		}
	}
	return 0, false
}

// Operator joins the two children of a Logical node.
type Operator int

const (
	OpAnd Operator = iota
	OpOr
)

// String returns "And" or "Or".
func (o Operator) String() string {
	switch o {
	case OpAnd:
		return "And"
	case OpOr:
		return "Or"
	default:
		return "?"
	}
}

// LiteralKind tells whether a Literal holds an integer or a string.
type LiteralKind int

const (
	IntKind LiteralKind = iota
	StringKind
)

// Literal is the right-hand side of a comparison. Its kind is fixed when the
// rule is lexed: digits produce an integer, quotes produce a string.
type Literal struct {
	kind LiteralKind
	i    int64
	s    string
}

// IntLiteral returns an integer literal.
func IntLiteral(n int64) Literal {
	return Literal{kind: IntKind, i: n}
}

// StringLiteral returns a string literal. s excludes the quotes.
func StringLiteral(s string) Literal {
	return Literal{kind: StringKind, s: s}
}

// Kind returns the literal's kind.
func (l Literal) Kind() LiteralKind { return l.kind }

// Int returns the integer value and true for integer literals.
func (l Literal) Int() (int64, bool) {
	return l.i, l.kind == IntKind
}

// Text returns the literal's natural textual form: decimal digits for
// integers, the unquoted contents for strings.
func (l Literal) Text() string {
	if l.kind == IntKind {
		return strconv.FormatInt(l.i, 10)
	}
	return l.s
}

// String renders integers bare and strings double-quoted with escapes, so
// IntLiteral(30) and StringLiteral("30") never render the same.
func (l Literal) String() string {
	if l.kind == IntKind {
		return strconv.FormatInt(l.i, 10)
	}
	return strconv.Quote(l.s)
}

// Comparison is a leaf testing one attribute against one literal.
type Comparison struct {
	attr string
	cmp  Comparator
	lit  Literal
}

func (Comparison) node() {}

// Compare builds a comparison node.
func Compare(attr string, cmp Comparator, lit Literal) Comparison {
	return Comparison{attr: attr, cmp: cmp, lit: lit}
}

// Attribute returns the attribute name looked up in the record.
func (c Comparison) Attribute() string { return c.attr }

// Comparator returns the comparison's relation.
func (c Comparison) Comparator() Comparator { return c.cmp }

// Literal returns the value the attribute is compared with.
func (c Comparison) Literal() Literal { return c.lit }

// String implements Node.
func (c Comparison) String() string { return Render(c) }

// Logical is an internal node joining two subtrees with AND or OR.
type Logical struct {
	op          Operator
	left, right Node
}

func (Logical) node() {}

// And joins left and right with AND. It panics if either child is nil.
func And(left, right Node) Logical {
	return newLogical(OpAnd, left, right)
}

// Or joins left and right with OR. It panics if either child is nil.
func Or(left, right Node) Logical {
	return newLogical(OpOr, left, right)
}

func newLogical(op Operator, left, right Node) Logical {
	if left == nil || right == nil {
		panic("expr: logical node requires two children")
	}
	return Logical{op: op, left: left, right: right}
}

// Operator returns OpAnd or OpOr.
func (l Logical) Operator() Operator { return l.op }

// Left returns the left child.
func (l Logical) Left() Node { return l.left }

// Right returns the right child.
func (l Logical) Right() Node { return l.right }

// String implements Node.
func (l Logical) String() string { return Render(l) }
