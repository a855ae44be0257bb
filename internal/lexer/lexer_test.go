package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aprice/jlc/internal/token"
)

func TestScansKeywordsIdentifiersAndPunctuation(t *testing.T) {
	input := `class Foo { field int x; }`

	tests := []struct {
		kind token.Kind
		text string
	}{
		{token.Keyword, "class"},
		{token.Identifier, "Foo"},
		{token.Punctuator, "{"},
		{token.Keyword, "field"},
		{token.Keyword, "int"},
		{token.Identifier, "x"},
		{token.Punctuator, ";"},
		{token.Punctuator, "}"},
		{token.Terminator, ""},
	}

	l := NewFromString(input)
	for i, tt := range tests {
		tok, err := l.Next()
		require.NoErrorf(t, err, "token %d", i)
		require.Equalf(t, tt.kind, tok.Kind, "token %d kind", i)
		require.Equalf(t, tt.text, tok.Text, "token %d text", i)
	}
}

func TestPeekIsIdempotentUntilNext(t *testing.T) {
	l := NewFromString("do foo();")

	peeked, err := l.Peek()
	require.NoError(t, err)
	require.Equal(t, "do", peeked.Text)

	peekedAgain, err := l.Peek()
	require.NoError(t, err)
	require.Equal(t, peeked, peekedAgain)

	consumed, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, peeked, consumed)

	next, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, "foo", next.Text)
}

func TestSkipsSingleAndMultiLineComments(t *testing.T) {
	input := "// a comment\nlet /* inline\nmultiline */ x = 1;"
	l := NewFromString(input)

	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, "let", tok.Text)

	tok, err = l.Next()
	require.NoError(t, err)
	require.Equal(t, "x", tok.Text)
	require.Equal(t, 3, tok.Line)
}

func TestUnterminatedBlockCommentHitsEOFSilently(t *testing.T) {
	l := NewFromString("let x = 1; /* never closed")

	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.Kind == token.Terminator {
			break
		}
	}
}

func TestStringLiteral(t *testing.T) {
	l := NewFromString(`"hello world"`)
	tok, err := l.Next()
	require.NoError(t, err)
	require.Equal(t, token.String, tok.Kind)
	require.Equal(t, "hello world", tok.Text)
}

func TestUnterminatedStringIsLexError(t *testing.T) {
	l := NewFromString("\"oops\nmore")
	_, err := l.Next()
	require.Error(t, err)
}

func TestMalformedIntegerSuffixIsLexError(t *testing.T) {
	l := NewFromString("123abc")
	_, err := l.Next()
	require.Error(t, err)
}

func TestLineNumbersAdvanceAcrossNewlines(t *testing.T) {
	l := NewFromString("let x\n= 1;\nreturn x;")

	var lines []int
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		if tok.Kind == token.Terminator {
			break
		}
		lines = append(lines, tok.Line)
	}
	require.Equal(t, []int{1, 1, 2, 2, 2, 3, 3, 3}, lines)
}
