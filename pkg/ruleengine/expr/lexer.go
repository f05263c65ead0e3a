package expr

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits rule text into tokens.
//
// Whitespace separates tokens. AND and OR are keywords only when they form a
// whole word; quoted literals are taken verbatim, so keywords inside quotes
// stay part of the string. Tokenize returns a *LexError for an unterminated
// quote, an integer literal that does not fit in int64, or any character
// outside the token classes.
func Tokenize(text string) ([]Token, error) {
	l := &lexer{input: text}
	var tokens []Token
	for {
		tok, ok, err := l.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// lexer walks the input one token at a time.
type lexer struct {
	input string
	pos   int
}

// next returns the next token, or ok=false at end of input.
func (l *lexer) next() (Token, bool, error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{}, false, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch ch {
	case '(':
		l.pos++
		return Token{Kind: TokenLParen, Text: "(", Pos: start}, true, nil
	case ')':
		l.pos++
		return Token{Kind: TokenRParen, Text: ")", Pos: start}, true, nil
	case '=':
		l.pos++
		return Token{Kind: TokenComparator, Text: "=", Pos: start}, true, nil
	case '>', '<':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
		}
		return Token{Kind: TokenComparator, Text: l.input[start:l.pos], Pos: start}, true, nil
	case '\'':
		return l.readString()
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	if isWordRune(r) {
		return l.readWord()
	}
	return Token{}, false, &LexError{
		Pos:    start,
		Reason: fmt.Sprintf("unexpected character %q", r),
	}
}

func (l *lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
	}
}

// readString consumes a single-quoted literal. There are no escapes.
func (l *lexer) readString() (Token, bool, error) {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.input) && l.input[l.pos] != '\'' {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return Token{}, false, &LexError{Pos: start, Reason: "unterminated string literal"}
	}
	value := l.input[start+1 : l.pos]
	l.pos++ // closing quote
	return Token{Kind: TokenString, Text: value, Pos: start}, true, nil
}

// readWord consumes a run of letters, digits and underscores and classifies
// it as an integer literal, a keyword, or an identifier.
func (l *lexer) readWord() (Token, bool, error) {
	start := l.pos
	digitsOnly := true
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isWordRune(r) {
			break
		}
		if r < '0' || r > '9' {
			digitsOnly = false
		}
		l.pos += size
	}
	word := l.input[start:l.pos]

	if digitsOnly {
		n, err := strconv.ParseInt(word, 10, 64)
		if err != nil {
			return Token{}, false, &LexError{
				Pos:    start,
				Reason: fmt.Sprintf("integer literal %s out of range", word),
			}
		}
		return Token{Kind: TokenInt, Text: word, Int: n, Pos: start}, true, nil
	}

	switch word {
	case "AND":
		return Token{Kind: TokenAnd, Text: word, Pos: start}, true, nil
	case "OR":
		return Token{Kind: TokenOr, Text: word, Pos: start}, true, nil
	}
	return Token{Kind: TokenIdent, Text: word, Pos: start}, true, nil
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
