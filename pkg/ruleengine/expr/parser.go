package expr

import "fmt"

// Parse tokenizes and parses rule text into an expression tree.
//
// The grammar, lowest precedence first:
//
//	Expr       := OrExpr
//	OrExpr     := AndExpr ('OR' AndExpr)*
//	AndExpr    := Primary ('AND' Primary)*
//	Primary    := '(' Expr ')' | Comparison
//	Comparison := Identifier Comparator Literal
//
// AND and OR are both left-associative. Every failure is a *ParseError; a
// lexing failure is wrapped in one, so errors.As also finds the *LexError.
func Parse(text string) (Node, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		pe := &ParseError{Err: err}
		if le, ok := err.(*LexError); ok {
			pe.Pos = le.Pos
			pe.Reason = le.Reason
		}
		return nil, pe
	}
	p := &parser{tokens: tokens, end: len(text)}
	return p.parse()
}

// ParseTokens parses an already tokenized rule.
func ParseTokens(tokens []Token) (Node, error) {
	p := &parser{tokens: tokens, end: endOf(tokens)}
	return p.parse()
}

// endOf estimates the offset just past the last token, used to position
// errors about premature end of input.
func endOf(tokens []Token) int {
	if len(tokens) == 0 {
		return 0
	}
	last := tokens[len(tokens)-1]
	if last.Kind == TokenString {
		return last.Pos + len(last.Text) + 2
	}
	return last.Pos + len(last.Text)
}

// parser is a recursive-descent parser over a token slice.
type parser struct {
	tokens []Token
	pos    int
	end    int
}

func (p *parser) parse() (Node, error) {
	if len(p.tokens) == 0 {
		return nil, &ParseError{Pos: 0, Reason: "empty expression"}
	}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok {
		if tok.Kind == TokenRParen {
			return nil, p.errorAt(tok, "unbalanced ')'")
		}
		return nil, p.errorAt(tok, fmt.Sprintf("unexpected %s after complete expression", tok))
	}
	return node, nil
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) advance() {
	p.pos++
}

func (p *parser) errorAt(tok Token, reason string) *ParseError {
	return &ParseError{Pos: tok.Pos, Reason: reason}
}

func (p *parser) errorAtEnd(reason string) *ParseError {
	return &ParseError{Pos: p.end, Reason: reason}
}

// parseOr handles OR expressions (lowest precedence).
func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != TokenOr {
			return left, nil
		}
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or(left, right)
	}
}

// parseAnd handles AND expressions.
func (p *parser) parseAnd() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != TokenAnd {
			return left, nil
		}
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = And(left, right)
	}
}

// parsePrimary handles a parenthesized expression or a comparison.
func (p *parser) parsePrimary() (Node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.errorAtEnd("unexpected end of input, expected comparison or '('")
	}

	switch tok.Kind {
	case TokenLParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing, ok := p.peek()
		if !ok {
			return nil, p.errorAtEnd(fmt.Sprintf("missing ')' for '(' at position %d", tok.Pos))
		}
		if closing.Kind != TokenRParen {
			return nil, p.errorAt(closing, fmt.Sprintf("expected ')' but got %s", closing))
		}
		p.advance()
		return inner, nil

	case TokenIdent:
		return p.parseComparison()

	case TokenAnd, TokenOr:
		return nil, p.errorAt(tok, fmt.Sprintf("operator %s is missing its left operand", tok))

	case TokenRParen:
		return nil, p.errorAt(tok, "unexpected ')', expected comparison or '('")

	default:
		return nil, p.errorAt(tok, fmt.Sprintf("expected attribute name but got %s %s", tok.Kind, tok))
	}
}

// parseComparison handles Identifier Comparator Literal.
func (p *parser) parseComparison() (Node, error) {
	attr, _ := p.peek()
	p.advance()

	op, ok := p.peek()
	if !ok {
		return nil, p.errorAtEnd(fmt.Sprintf("expected comparator after %q", attr.Text))
	}
	if op.Kind != TokenComparator {
		return nil, p.errorAt(op, fmt.Sprintf("expected comparator after %q but got %s", attr.Text, op))
	}
	cmp, known := comparatorFor(op.Text)
	if !known {
		return nil, p.errorAt(op, fmt.Sprintf("unknown comparator %q", op.Text))
	}
	p.advance()

	lit, ok := p.peek()
	if !ok {
		return nil, p.errorAtEnd(fmt.Sprintf("expected literal after %q", attr.Text+" "+op.Text))
	}
	switch lit.Kind {
	case TokenInt:
		p.advance()
		return Compare(attr.Text, cmp, IntLiteral(lit.Int)), nil
	case TokenString:
		p.advance()
		return Compare(attr.Text, cmp, StringLiteral(lit.Text)), nil
	default:
		return nil, p.errorAt(lit, fmt.Sprintf("expected literal after %q but got %s", attr.Text+" "+op.Text, lit))
	}
}
