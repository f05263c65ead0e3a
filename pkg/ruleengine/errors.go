package ruleengine

import (
	"errors"

	"github.com/randalmurphal/ruleengine/pkg/ruleengine/expr"
)

// Sentinel errors for rule service requests.
var (
	// ErrRuleRequired indicates a request supplied neither rule text nor a rule name.
	ErrRuleRequired = errors.New("rule string or rule name is required")

	// ErrDataRequired indicates an evaluation request without a record.
	ErrDataRequired = errors.New("data is required")

	// ErrRuleNotFound indicates no stored rule has the requested name.
	ErrRuleNotFound = errors.New("rule not found")
)

// Category classifies an error for the caller.
type Category int

const (
	// CategoryInternal indicates a failure the caller cannot fix (storage, I/O).
	CategoryInternal Category = iota

	// CategoryInvalid indicates a malformed request or rule text.
	CategoryInvalid

	// CategoryNotFound indicates a reference to a rule that does not exist.
	CategoryNotFound
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryInternal:
		return "internal"
	case CategoryInvalid:
		return "invalid"
	case CategoryNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Categorize determines the category of err.
// Lexer and parser errors, empty combinations and missing request fields are
// invalid; unknown rule names are not found; everything else is internal.
func Categorize(err error) Category {
	var (
		lexErr   *expr.LexError
		parseErr *expr.ParseError
	)
	switch {
	case errors.Is(err, ErrRuleNotFound):
		return CategoryNotFound
	case errors.As(err, &parseErr), errors.As(err, &lexErr):
		return CategoryInvalid
	case errors.Is(err, expr.ErrEmptyInput),
		errors.Is(err, ErrRuleRequired),
		errors.Is(err, ErrDataRequired):
		return CategoryInvalid
	default:
		return CategoryInternal
	}
}
