package expr

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenIdent TokenKind = iota
	TokenComparator
	TokenInt
	TokenString
	TokenAnd
	TokenOr
	TokenLParen
	TokenRParen
)

// String returns a readable name for the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenIdent:
		return "identifier"
	case TokenComparator:
		return "comparator"
	case TokenInt:
		return "integer"
	case TokenString:
		return "string"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	default:
		return "unknown"
	}
}

// Token is a single lexical token.
//
// Text holds the identifier, the comparator symbol, the keyword, or the
// unquoted contents of a string literal. Int is set only for TokenInt.
// Pos is the byte offset of the token's first character in the rule text.
type Token struct {
	Kind TokenKind
	Text string
	Int  int64
	Pos  int
}

// String returns the token as it would appear in diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case TokenString:
		return "'" + t.Text + "'"
	case TokenInt:
		return fmt.Sprintf("%d", t.Int)
	default:
		return t.Text
	}
}

// isOperator reports whether the token joins two sub-expressions.
func (t Token) isOperator() bool {
	return t.Kind == TokenAnd || t.Kind == TokenOr
}
