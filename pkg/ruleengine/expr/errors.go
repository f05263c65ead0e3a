package expr

import (
	"errors"
	"fmt"
)

// Sentinel errors for combining rules.
var (
	// ErrEmptyInput indicates Combine or CombineNodes was called with no rules.
	ErrEmptyInput = errors.New("no rules to combine")

	// ErrNilNode indicates a nil tree was passed to CombineNodes.
	ErrNilNode = errors.New("nil expression tree")
)

// LexError reports rule text that cannot be split into tokens.
type LexError struct {
	// Pos is the byte offset of the offending character.
	Pos int
	// Reason describes the problem.
	Reason string
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at position %d: %s", e.Pos, e.Reason)
}

// ParseError reports a token sequence that does not form a valid rule.
type ParseError struct {
	// Pos is the byte offset of the offending token, or the length of the
	// rule text when the input ended too early.
	Pos int
	// Reason describes the problem.
	Reason string
	// Err is the underlying lexer error, if tokenizing failed.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error: %v", e.Err)
	}
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Reason)
}

// Unwrap returns the underlying lexer error for errors.Is/As support.
func (e *ParseError) Unwrap() error {
	return e.Err
}
