package expr

import "fmt"

// Combine parses each rule and joins them with AND, left to right, so
// Combine("a = '1'", "b = '2'", "c = '3'") is the same tree as parsing
// "a = '1' AND b = '2' AND c = '3'".
//
// It returns ErrEmptyInput when no rules are given. A rule that fails to
// parse aborts the combination; the error names the rule's index and wraps
// its *ParseError.
func Combine(rules ...string) (Node, error) {
	if len(rules) == 0 {
		return nil, ErrEmptyInput
	}
	nodes := make([]Node, 0, len(rules))
	for i, rule := range rules {
		node, err := Parse(rule)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		nodes = append(nodes, node)
	}
	return CombineNodes(nodes...)
}

// CombineNodes joins already parsed trees with AND, left to right.
// The inputs are not modified; the result shares them as read-only subtrees.
func CombineNodes(nodes ...Node) (Node, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyInput
	}
	for i, n := range nodes {
		if n == nil {
			return nil, fmt.Errorf("rule %d: %w", i, ErrNilNode)
		}
	}

	result := nodes[0]
	for _, n := range nodes[1:] {
		result = And(result, n)
	}
	return result, nil
}
