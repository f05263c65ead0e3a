// Package registry provides a generic thread-safe registry for values
// indexed by key, with lazy, fallible construction.
//
// The rule service uses it to keep parsed expression trees keyed by the
// fingerprint of their rule text, so a stored rule is parsed once no matter
// how often it is evaluated:
//
//	trees := registry.New[uint64, expr.Node](1024)
//	tree, err := trees.GetOrCreate(store.Fingerprint(text), func() (expr.Node, error) {
//	    return expr.Parse(text)
//	})
//
// # Capacity
//
// A registry created with a positive capacity evicts an arbitrary entry
// when a new key would exceed it. A capacity of zero or less is unbounded.
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. GetOrCreate calls the
// factory at most once per key at a time; a factory error is returned to the
// caller and nothing is stored.
package registry
