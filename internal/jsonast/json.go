package jsonast

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

// ParseJSON parses strict JSON text into a positioned tree.
func ParseJSON(src []byte) (Value, error) {
	p := &jsonParser{lex: NewLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	root, err := p.parseValue("")
	if err != nil {
		return nil, err
	}

	if p.tok.Type != TokenEOF {
		return nil, p.unexpected("expected end of document")
	}

	return root, nil
}

type jsonParser struct {
	lex *Lexer
	tok Token
}

func (p *jsonParser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}

	p.tok = tok

	return nil
}

func (p *jsonParser) unexpected(msg string) error {
	return &SyntaxError{Pos: p.tok.Start, Found: p.tok.Text, Message: msg}
}

func (p *jsonParser) parseValue(pointer string) (Value, error) {
	switch p.tok.Type {
	case TokenNull, TokenBoolean, TokenNumber, TokenString:
		v, err := p.parseScalar(pointer)
		if err != nil {
			return nil, err
		}

		return v, p.advance()
	case TokenBeginArray:
		return p.parseArray(pointer)
	case TokenBeginObject:
		return p.parseObject(pointer)
	default:
		return nil, p.unexpected("expected a JSON value")
	}
}

func (p *jsonParser) parseScalar(pointer string) (Value, error) {
	s := span{pos: p.tok.Position(), pointer: pointer}

	switch p.tok.Type {
	case TokenNull:
		return &NullNode{span: s}, nil
	case TokenBoolean:
		return &BooleanNode{span: s, Value: p.tok.Text == "true"}, nil
	case TokenNumber:
		f, err := strconv.ParseFloat(p.tok.Text, 64)
		if err != nil && !isRangeError(err) {
			return nil, p.unexpected("invalid number")
		}

		return &NumberNode{span: s, Value: f, Raw: p.tok.Text}, nil
	default:
		str, err := decodeString(p.tok.Text)
		if err != nil {
			return nil, p.unexpected(err.Error())
		}

		return &StringNode{span: s, Value: str}, nil
	}
}

func (p *jsonParser) parseArray(pointer string) (Value, error) {
	arr := &ArrayNode{span: span{pointer: pointer}}
	start := p.tok.Start

	end, err := p.parseCommaSeparated(TokenEndArray, func(i int) error {
		item, err := p.parseValue(AppendPointer(pointer, strconv.Itoa(i)))
		if err != nil {
			return err
		}

		arr.Items = append(arr.Items, item)

		return nil
	})
	if err != nil {
		return nil, err
	}

	arr.pos = m.Position{Start: start, End: end}

	return arr, nil
}

func (p *jsonParser) parseObject(pointer string) (Value, error) {
	obj := &ObjectNode{span: span{pointer: pointer}}
	start := p.tok.Start

	end, err := p.parseCommaSeparated(TokenEndObject, func(int) error {
		prop, err := p.parseProperty(pointer)
		if err != nil {
			return err
		}

		obj.Properties = append(obj.Properties, prop)

		return nil
	})
	if err != nil {
		return nil, err
	}

	obj.pos = m.Position{Start: start, End: end}

	return obj, nil
}

func (p *jsonParser) parseProperty(pointer string) (*PropertyNode, error) {
	if p.tok.Type != TokenString {
		return nil, p.unexpected("expected a property")
	}

	name, err := decodeString(p.tok.Text)
	if err != nil {
		return nil, p.unexpected(err.Error())
	}

	namePos := p.tok.Position()

	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.tok.Type != TokenColon {
		return nil, p.unexpected("expected ':'")
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	value, err := p.parseValue(AppendPointer(pointer, name))
	if err != nil {
		return nil, err
	}

	return newProperty(name, namePos, value), nil
}

// parseCommaSeparated consumes an array or object body. The current token is
// the opening bracket. It returns the point after the closing bracket.
func (p *jsonParser) parseCommaSeparated(endType TokenType, parseChild func(i int) error) (m.Point, error) {
	if err := p.advance(); err != nil {
		return m.Point{}, err
	}

	for i := 0; p.tok.Type != endType || i > 0; i++ {
		if err := parseChild(i); err != nil {
			return m.Point{}, err
		}

		if p.tok.Type == endType {
			break
		}

		if p.tok.Type != TokenComma {
			return m.Point{}, p.unexpected(fmt.Sprintf("expected ',' or '%s'", endType))
		}

		if err := p.advance(); err != nil {
			return m.Point{}, err
		}
	}

	end := p.tok.Position().End

	return end, p.advance()
}

func decodeString(raw string) (string, error) {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return "", fmt.Errorf("invalid string: %w", err)
	}

	return s, nil
}

func isRangeError(err error) bool {
	var numErr *strconv.NumError

	return errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange)
}
