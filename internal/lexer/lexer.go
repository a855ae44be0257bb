// Package lexer implements a hand-written scanner for JL source files.
//
// It exposes Next, which consumes and returns the next token, and Peek,
// which returns the next token without consuming it. A single-slot cache
// backs Peek so that repeated calls are idempotent and Next never re-scans
// a byte of input (spec.md §9 prefers this over the rewind-the-stream
// approach the original C lexer used).
package lexer

import (
	"fmt"
	"strings"

	"github.com/aprice/jlc/internal/token"
)

// Lexer scans JL source text into a token stream.
type Lexer struct {
	src  []byte
	pos  int
	line int

	cached   bool
	cache    token.Token
	cacheErr error
}

// Error reports a lexical failure together with the offending line.
type Error struct {
	Message string
	Line    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (line %d)", e.Message, e.Line)
}

// New creates a Lexer over the given source text.
func New(src []byte) *Lexer {
	return &Lexer{src: src, line: 1}
}

// NewFromString creates a Lexer over the given source text.
func NewFromString(src string) *Lexer {
	return New([]byte(src))
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) cur() byte {
	if l.atEOF() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByte() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) advance() {
	if l.cur() == '\n' {
		l.line++
	}
	l.pos++
}

// skipWhitespaceAndComments consumes whitespace, "//" line comments and
// "/* */" block comments. An unterminated block comment silently stops at
// EOF, matching original_source/src/jlex.c's behavior (spec.md §4.1, §9).
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEOF() {
		c := l.cur()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekByte() == '/':
			for !l.atEOF() && l.cur() != '\n' {
				l.advance()
			}
		case c == '/' && l.peekByte() == '*':
			l.advance()
			l.advance()
			for !l.atEOF() {
				if l.cur() == '*' && l.peekByte() == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isSeparator(c byte) bool {
	return c == 0 || c == ' ' || c == '\t' || c == '\r' || c == '\n' ||
		strings.IndexByte(token.Operators, c) >= 0 ||
		strings.IndexByte(token.Punctuators, c) >= 0
}

// scan performs the actual token extraction without touching the cache.
func (l *Lexer) scan() (token.Token, error) {
	l.skipWhitespaceAndComments()

	line := l.line

	if l.atEOF() {
		return token.Token{Kind: token.Terminator, Line: line}, nil
	}

	c := l.cur()

	if strings.IndexByte(token.Operators, c) >= 0 {
		l.advance()
		return token.Token{Kind: token.Operator, Text: string(c), Line: line}, nil
	}
	if strings.IndexByte(token.Punctuators, c) >= 0 {
		l.advance()
		return token.Token{Kind: token.Punctuator, Text: string(c), Line: line}, nil
	}

	if isDigit(c) {
		start := l.pos
		for !l.atEOF() && isDigit(l.cur()) {
			l.advance()
		}
		text := string(l.src[start:l.pos])
		if !l.atEOF() && !isSeparator(l.cur()) {
			return token.Token{}, &Error{Message: "malformed integer constant", Line: line}
		}
		return token.Token{Kind: token.Integer, Text: text, Line: line}, nil
	}

	if c == '"' {
		l.advance()
		start := l.pos
		for {
			if l.atEOF() || l.cur() == '\n' {
				return token.Token{}, &Error{Message: "unterminated string literal", Line: line}
			}
			if l.cur() == '"' {
				break
			}
			l.advance()
		}
		text := string(l.src[start:l.pos])
		l.advance()
		return token.Token{Kind: token.String, Text: text, Line: line}, nil
	}

	if isIdentStart(c) {
		start := l.pos
		for !l.atEOF() && isIdentPart(l.cur()) {
			l.advance()
		}
		text := string(l.src[start:l.pos])
		if token.Keywords[text] {
			return token.Token{Kind: token.Keyword, Text: text, Line: line}, nil
		}
		return token.Token{Kind: token.Identifier, Text: text, Line: line}, nil
	}

	return token.Token{}, &Error{Message: fmt.Sprintf("unexpected character %q", c), Line: line}
}

// Peek returns the next token without consuming it. Calling Peek
// repeatedly returns the same token until Next is called.
func (l *Lexer) Peek() (token.Token, error) {
	if !l.cached {
		l.cache, l.cacheErr = l.scan()
		l.cached = true
	}
	return l.cache, l.cacheErr
}

// Next consumes and returns the next token, or a Terminator token at
// end of input.
func (l *Lexer) Next() (token.Token, error) {
	if l.cached {
		l.cached = false
		return l.cache, l.cacheErr
	}
	return l.scan()
}
