package jsonast

import (
	"unicode/utf8"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

// TokenType identifies a JSON token.
type TokenType int

// Token types produced by the Lexer.
const (
	TokenEOF TokenType = iota
	TokenNull
	TokenBoolean
	TokenNumber
	TokenString
	TokenBeginObject
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenColon
	TokenComma
)

var tokenNames = [...]string{
	TokenEOF:         "end of document",
	TokenNull:        "null",
	TokenBoolean:     "boolean",
	TokenNumber:      "number",
	TokenString:      "string",
	TokenBeginObject: "{",
	TokenEndObject:   "}",
	TokenBeginArray:  "[",
	TokenEndArray:    "]",
	TokenColon:       ":",
	TokenComma:       ",",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}

	return "unknown"
}

// Token is a lexeme with its raw source text and start point. JSON tokens
// never span lines.
type Token struct {
	Type  TokenType
	Text  string
	Start m.Point
}

// Position returns the span of the token.
func (t Token) Position() m.Position {
	end := t.Start
	end.Column += utf8.RuneCountInString(t.Text)
	end.Offset += len(t.Text)

	return m.Position{Start: t.Start, End: end}
}

// Lexer splits strict JSON text into tokens. It is forward-only; Reset starts
// over from the beginning of the input.
type Lexer struct {
	src []byte
	pos m.Point
}

// NewLexer returns a lexer positioned at the start of src.
func NewLexer(src []byte) *Lexer {
	l := &Lexer{src: src}
	l.Reset()

	return l
}

// Reset rewinds the lexer to the first byte of its input.
func (l *Lexer) Reset() {
	l.pos = m.Point{Line: 1, Column: 1, Offset: 0}
}

// Next returns the next token. At the end of input it keeps returning a
// TokenEOF token.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	start := l.pos
	if start.Offset >= len(l.src) {
		return Token{Type: TokenEOF, Start: start}, nil
	}

	var (
		typ TokenType
		n   int
		err error
	)

	switch c := l.src[start.Offset]; {
	case c == '{':
		typ, n = TokenBeginObject, 1
	case c == '}':
		typ, n = TokenEndObject, 1
	case c == '[':
		typ, n = TokenBeginArray, 1
	case c == ']':
		typ, n = TokenEndArray, 1
	case c == ':':
		typ, n = TokenColon, 1
	case c == ',':
		typ, n = TokenComma, 1
	case c == '"':
		typ = TokenString
		n, err = l.scanString(start.Offset)
	case c == '-' || isDigit(c):
		typ = TokenNumber
		n, err = l.scanNumber(start.Offset)
	case c == 't' || c == 'f' || c == 'n':
		typ, n, err = l.scanLiteral(start.Offset)
	default:
		r, _ := utf8.DecodeRune(l.src[start.Offset:])
		err = l.errorf(start, string(r), "unexpected character")
	}

	if err != nil {
		return Token{}, err
	}

	tok := Token{Type: typ, Text: string(l.src[start.Offset : start.Offset+n]), Start: start}
	l.pos = tok.Position().End

	return tok, nil
}

// Done succeeds only when nothing but whitespace remains.
func (l *Lexer) Done() error {
	tok, err := l.Next()
	if err != nil {
		return err
	}

	if tok.Type != TokenEOF {
		return l.errorf(tok.Start, tok.Text, "expected end of document")
	}

	return nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos.Offset < len(l.src) {
		switch l.src[l.pos.Offset] {
		case ' ', '\t', '\r':
			l.pos.Column++
		case '\n':
			l.pos.Line++
			l.pos.Column = 1
		default:
			return
		}

		l.pos.Offset++
	}
}

func (l *Lexer) scanString(off int) (int, error) {
	start := l.pos
	i := off + 1

	for i < len(l.src) {
		c := l.src[i]

		switch {
		case c == '"':
			if !utf8.Valid(l.src[off : i+1]) {
				return 0, l.errorf(start, "", "invalid UTF-8 in string")
			}

			return i + 1 - off, nil
		case c == '\\':
			if i+1 >= len(l.src) {
				return 0, l.errorf(start, "", "unterminated string")
			}

			switch l.src[i+1] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				i += 2
			case 'u':
				if i+6 > len(l.src) || !isHex4(l.src[i+2:i+6]) {
					return 0, l.errorf(start, string(l.src[i:min(i+6, len(l.src))]), "invalid unicode escape")
				}

				i += 6
			default:
				return 0, l.errorf(start, string(l.src[i:i+2]), "invalid escape")
			}
		case c < 0x20:
			return 0, l.errorf(start, "", "control character in string")
		default:
			i++
		}
	}

	return 0, l.errorf(start, "", "unterminated string")
}

func (l *Lexer) scanNumber(off int) (int, error) {
	i := off
	if l.src[i] == '-' {
		i++
	}

	switch {
	case i < len(l.src) && l.src[i] == '0':
		i++
	case i < len(l.src) && isDigit(l.src[i]):
		i = l.digits(i)
	default:
		return 0, l.errorf(l.pos, string(l.src[off:min(i+1, len(l.src))]), "invalid number")
	}

	if i < len(l.src) && l.src[i] == '.' {
		if i+1 >= len(l.src) || !isDigit(l.src[i+1]) {
			return 0, l.errorf(l.pos, string(l.src[off:i+1]), "invalid number")
		}

		i = l.digits(i + 1)
	}

	if i < len(l.src) && (l.src[i] == 'e' || l.src[i] == 'E') {
		i++
		if i < len(l.src) && (l.src[i] == '+' || l.src[i] == '-') {
			i++
		}

		if i >= len(l.src) || !isDigit(l.src[i]) {
			return 0, l.errorf(l.pos, string(l.src[off:min(i, len(l.src))]), "invalid number")
		}

		i = l.digits(i)
	}

	return i - off, nil
}

func (l *Lexer) digits(i int) int {
	for i < len(l.src) && isDigit(l.src[i]) {
		i++
	}

	return i
}

func (l *Lexer) scanLiteral(off int) (TokenType, int, error) {
	for _, lit := range []struct {
		text string
		typ  TokenType
	}{
		{"true", TokenBoolean},
		{"false", TokenBoolean},
		{"null", TokenNull},
	} {
		end := off + len(lit.text)
		if end <= len(l.src) && string(l.src[off:end]) == lit.text {
			return lit.typ, len(lit.text), nil
		}
	}

	end := off
	for end < len(l.src) && isLetter(l.src[end]) {
		end++
	}

	return 0, 0, l.errorf(l.pos, string(l.src[off:end]), "unexpected literal")
}

func (l *Lexer) errorf(at m.Point, found, msg string) error {
	return &SyntaxError{Pos: at, Found: found, Message: msg}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func isHex4(b []byte) bool {
	for _, c := range b {
		if !isDigit(c) && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}

	return len(b) == 4
}
