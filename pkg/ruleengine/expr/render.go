package expr

import (
	"strconv"
	"strings"
)

// Render returns the canonical text of a tree, for example
//
//	And(Comparison(age, >, 30), Comparison(department, =, "Sales"))
//
// Structurally equal trees render identically and different trees render
// differently. A nil node renders as "<nil>".
func Render(n Node) string {
	var sb strings.Builder
	render(&sb, n)
	return sb.String()
}

func render(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case Comparison:
		sb.WriteString("Comparison(")
		sb.WriteString(renderAttribute(n.attr))
		sb.WriteString(", ")
		sb.WriteString(n.cmp.String())
		sb.WriteString(", ")
		sb.WriteString(n.lit.String())
		sb.WriteByte(')')
	case Logical:
		sb.WriteString(n.op.String())
		sb.WriteByte('(')
		render(sb, n.left)
		sb.WriteString(", ")
		render(sb, n.right)
		sb.WriteByte(')')
	default:
		sb.WriteString("<nil>")
	}
}

// renderAttribute leaves identifiers bare and quotes anything else, so a
// hand-built attribute name cannot imitate the surrounding syntax.
func renderAttribute(attr string) string {
	if attr == "" {
		return strconv.Quote(attr)
	}
	for _, r := range attr {
		if !isWordRune(r) {
			return strconv.Quote(attr)
		}
	}
	return attr
}
