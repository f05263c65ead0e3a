package expr

import "sort"

// Evaluate reports whether the record satisfies the tree.
//
// Evaluate never fails. A comparison whose attribute is missing, whose value
// cannot be compared, or whose literal is not an integer under an ordering
// comparator is simply false. Both children of a logical node are always
// evaluated; there is no short-circuiting.
func Evaluate(n Node, record Record) bool {
	switch n := n.(type) {
	case Comparison:
		return evalComparison(n, record)
	case Logical:
		left := Evaluate(n.left, record)
		right := Evaluate(n.right, record)
		switch n.op {
		case OpAnd:
			return left && right
		case OpOr:
			return left || right
		}
	}
	return false
}

func evalComparison(c Comparison, record Record) bool {
	value, ok := record[c.attr]
	if !ok || value == nil {
		return false
	}

	if !c.cmp.ordered() {
		text, ok := textOf(value)
		return ok && text == c.lit.Text()
	}

	want, ok := c.lit.Int()
	if !ok {
		return false
	}
	got, ok := toInt64(value)
	if !ok {
		return false
	}

	switch c.cmp {
	case Greater:
		return got > want
	case Less:
		return got < want
	case GreaterEqual:
		return got >= want
	case LessEqual:
		return got <= want
	default:
		return false
	}
}

// Attributes returns the distinct attribute names referenced by the tree,
// sorted.
func Attributes(n Node) []string {
	seen := make(map[string]struct{})
	collectAttributes(n, seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectAttributes(n Node, seen map[string]struct{}) {
	switch n := n.(type) {
	case Comparison:
		seen[n.attr] = struct{}{}
	case Logical:
		collectAttributes(n.left, seen)
		collectAttributes(n.right, seen)
	}
}
