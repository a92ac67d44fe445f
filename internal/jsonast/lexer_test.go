package jsonast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

func pt(line, column, offset int) m.Point {
	return m.Point{Line: line, Column: column, Offset: offset}
}

func pos(start, end m.Point) m.Position {
	return m.Position{Start: start, End: end}
}

func collect(t *testing.T, src string) []Token {
	t.Helper()

	lex := NewLexer([]byte(src))

	var tokens []Token

	for {
		tok, err := lex.Next()
		require.NoError(t, err)

		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func TestLexer_Tokens(t *testing.T) {
	tokens := collect(t, `{"a": [1, true]}`)

	want := []struct {
		typ   TokenType
		text  string
		start m.Point
	}{
		{TokenBeginObject, "{", pt(1, 1, 0)},
		{TokenString, `"a"`, pt(1, 2, 1)},
		{TokenColon, ":", pt(1, 5, 4)},
		{TokenBeginArray, "[", pt(1, 7, 6)},
		{TokenNumber, "1", pt(1, 8, 7)},
		{TokenComma, ",", pt(1, 9, 8)},
		{TokenBoolean, "true", pt(1, 11, 10)},
		{TokenEndArray, "]", pt(1, 15, 14)},
		{TokenEndObject, "}", pt(1, 16, 15)},
		{TokenEOF, "", pt(1, 17, 16)},
	}

	require.Len(t, tokens, len(want))

	for i, w := range want {
		assert.Equal(t, w.typ, tokens[i].Type, "token %d", i)
		assert.Equal(t, w.text, tokens[i].Text, "token %d", i)
		assert.Equal(t, w.start, tokens[i].Start, "token %d", i)
	}

	assert.Equal(t, pos(pt(1, 11, 10), pt(1, 15, 14)), tokens[6].Position())
}

func TestLexer_LinesAndRunes(t *testing.T) {
	tokens := collect(t, "{\n  \"é\": -1.5e3\n}")

	require.Len(t, tokens, 6)
	assert.Equal(t, pos(pt(2, 3, 4), pt(2, 6, 8)), tokens[1].Position())
	assert.Equal(t, TokenNumber, tokens[3].Type)
	assert.Equal(t, "-1.5e3", tokens[3].Text)
	assert.Equal(t, pt(2, 8, 10), tokens[3].Start)
	assert.Equal(t, pt(3, 1, 17), tokens[4].Start)
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantPos m.Point
		wantMsg string
	}{
		{"unexpected character", "  @", pt(1, 3, 2), "unexpected character"},
		{"bad literal", "tru", pt(1, 1, 0), "unexpected literal"},
		{"unterminated string", `"abc`, pt(1, 1, 0), "unterminated string"},
		{"invalid escape", `"\x"`, pt(1, 1, 0), "invalid escape"},
		{"invalid unicode escape", `"\u12G4"`, pt(1, 1, 0), "invalid unicode escape"},
		{"control character", "\"a\tb\"", pt(1, 1, 0), "control character in string"},
		{"lonely minus", "-", pt(1, 1, 0), "invalid number"},
		{"missing fraction", "1.", pt(1, 1, 0), "invalid number"},
		{"missing exponent", "1e+", pt(1, 1, 0), "invalid number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer([]byte(tt.src)).Next()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax))

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.wantPos, syntaxErr.Pos)
			assert.Equal(t, tt.wantMsg, syntaxErr.Message)
		})
	}
}

func TestLexer_DoneAndReset(t *testing.T) {
	lex := NewLexer([]byte(" 1 \n"))

	tok, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenNumber, tok.Type)
	require.NoError(t, lex.Done())

	lex.Reset()
	tok, err = lex.Next()
	require.NoError(t, err)
	assert.Equal(t, pt(1, 2, 1), tok.Start)

	lex = NewLexer([]byte("1 2"))
	_, err = lex.Next()
	require.NoError(t, err)

	err = lex.Done()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected end of document")
}
