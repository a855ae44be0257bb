// Package token defines the lexical tokens produced by the lexer.
package token

import "strconv"

// Kind classifies a Token's lexical category.
type Kind string

const (
	Invalid    Kind = ""
	Keyword    Kind = "keyword"
	Identifier Kind = "identifier"
	Operator   Kind = "operator"
	String     Kind = "string"
	Integer    Kind = "integer"
	Punctuator Kind = "punctuator"
	Terminator Kind = "terminator"
)

// Token is a single lexeme together with its source line.
//
// Text holds the literal payload for Keyword, Identifier, String and
// Integer tokens. Operator and Punctuator tokens carry their single
// character in Text too, so callers never need to branch on Kind just to
// read the lexeme.
type Token struct {
	Kind Kind
	Text string
	Line int
}

// Is reports whether t is a Punctuator or Operator token with the given
// single-character text, or a Keyword/Identifier token with the given text.
func (t Token) Is(text string) bool {
	switch t.Kind {
	case Punctuator, Operator, Keyword, Identifier:
		return t.Text == text
	}
	return false
}

// IsKind reports whether t has the given Kind.
func (t Token) IsKind(k Kind) bool {
	return t.Kind == k
}

// Int parses an Integer token's text as a VM machine word (0..32767).
func (t Token) Int() (int, error) {
	n, err := strconv.Atoi(t.Text)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 32767 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// Keywords is the reserved word set of JL.
var Keywords = map[string]bool{
	"boolean": true, "char": true, "class": true, "constructor": true,
	"do": true, "else": true, "false": true, "field": true,
	"function": true, "if": true, "int": true, "let": true,
	"method": true, "null": true, "return": true, "static": true,
	"true": true, "this": true, "var": true, "void": true, "while": true,
}

// Operators is the single-character operator set.
const Operators = "+-*/&|~<>="

// Punctuators is the single-character punctuator set.
const Punctuators = "(){}[],.;"
