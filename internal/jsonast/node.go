// Package jsonast builds position-aware trees from JSON and YAML documents.
//
// Every node records where it starts and ends in the source text so that
// coverage entries can point back at the exact span of a schema keyword.
package jsonast

import (
	"encoding/json"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

// Kind enumerates the node variants of a document tree.
type Kind int

// Node kinds.
const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
	KindProperty
	KindPropertyName
)

var kindNames = [...]string{
	KindNull:         "null",
	KindBoolean:      "boolean",
	KindNumber:       "number",
	KindString:       "string",
	KindArray:        "array",
	KindObject:       "object",
	KindProperty:     "property",
	KindPropertyName: "property-name",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "unknown"
}

// Node is any element of a document tree.
type Node interface {
	Kind() Kind
	Pos() m.Position
}

// Value is a node that holds a JSON value. Pointer is the JSON pointer of the
// value relative to the document root.
type Value interface {
	Node
	Pointer() string
	base() *span
}

type span struct {
	pos     m.Position
	pointer string
}

func (s *span) Pos() m.Position { return s.pos }

func (s *span) Pointer() string { return s.pointer }

func (s *span) base() *span { return s }

// NullNode is a JSON null.
type NullNode struct{ span }

// Kind implements Node.
func (*NullNode) Kind() Kind { return KindNull }

// BooleanNode is a JSON true or false.
type BooleanNode struct {
	span
	Value bool
}

// Kind implements Node.
func (*BooleanNode) Kind() Kind { return KindBoolean }

// NumberNode is a JSON number. Raw is the number in JSON notation: the source
// text for JSON documents, so that integers beyond float64 precision are not
// lost, and a normalized form for YAML numbers such as 0x10.
type NumberNode struct {
	span
	Value float64
	Raw   string
}

// Kind implements Node.
func (*NumberNode) Kind() Kind { return KindNumber }

// StringNode is a JSON string with escapes decoded.
type StringNode struct {
	span
	Value string
}

// Kind implements Node.
func (*StringNode) Kind() Kind { return KindString }

// ArrayNode is a JSON array.
type ArrayNode struct {
	span
	Items []Value
}

// Kind implements Node.
func (*ArrayNode) Kind() Kind { return KindArray }

// ObjectNode is a JSON object. Properties keep source order, duplicates
// included.
type ObjectNode struct {
	span
	Properties []*PropertyNode
}

// Kind implements Node.
func (*ObjectNode) Kind() Kind { return KindObject }

// Lookup returns the first property called name.
func (o *ObjectNode) Lookup(name string) (*PropertyNode, bool) {
	for _, p := range o.Properties {
		if p.Name.Value == name {
			return p, true
		}
	}

	return nil, false
}

// PropertyNameNode is the key of an object member.
type PropertyNameNode struct {
	pos   m.Position
	Value string
}

// Kind implements Node.
func (*PropertyNameNode) Kind() Kind { return KindPropertyName }

// Pos implements Node.
func (n *PropertyNameNode) Pos() m.Position { return n.pos }

// PropertyNode is an object member. Its span runs from the start of the key to
// the end of the value.
type PropertyNode struct {
	Name  *PropertyNameNode
	Value Value
}

// Kind implements Node.
func (*PropertyNode) Kind() Kind { return KindProperty }

// Pos implements Node.
func (p *PropertyNode) Pos() m.Position {
	return m.Position{Start: p.Name.pos.Start, End: p.Value.Pos().End}
}

func newProperty(name string, namePos m.Position, value Value) *PropertyNode {
	return &PropertyNode{Name: &PropertyNameNode{pos: namePos, Value: name}, Value: value}
}

// Interface converts a tree into the value model of the schema validator:
// nil, bool, json.Number, string, []any and map[string]any. Duplicate keys
// keep the first member, the one Resolve selects.
func Interface(v Value) any {
	switch n := v.(type) {
	case *BooleanNode:
		return n.Value
	case *NumberNode:
		return json.Number(n.Raw)
	case *StringNode:
		return n.Value
	case *ArrayNode:
		out := make([]any, 0, len(n.Items))
		for _, item := range n.Items {
			out = append(out, Interface(item))
		}

		return out
	case *ObjectNode:
		out := make(map[string]any, len(n.Properties))
		for _, p := range n.Properties {
			if _, dup := out[p.Name.Value]; dup {
				continue
			}

			out[p.Name.Value] = Interface(p.Value)
		}

		return out
	}

	return nil
}
