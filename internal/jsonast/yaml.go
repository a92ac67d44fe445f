package jsonast

import (
	"math"
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

var yamlErrorLine = regexp.MustCompile(`line (\d+)`)

// ParseYAML parses the first YAML document of src into a positioned tree.
// Only the JSON data model is projected: tags other than the core scalars are
// kept as strings, anchors are expanded at their alias and merge keys (<<) are
// expanded into the mapping that holds them.
func ParseYAML(src []byte) (Value, error) {
	ix := newLineIndex(src)

	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, yamlSyntaxError(ix, err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, &SyntaxError{Pos: ix.point(0), Message: "empty document"}
	}

	p := &yamlProjector{ix: ix, visiting: map[*yaml.Node]bool{}}

	return p.project(doc.Content[0], "", -1, false)
}

func yamlSyntaxError(ix *lineIndex, err error) error {
	pos := ix.point(0)

	if match := yamlErrorLine.FindStringSubmatch(err.Error()); match != nil {
		if line, convErr := strconv.Atoi(match[1]); convErr == nil {
			pos = ix.point(ix.offset(line, 1))
		}
	}

	return &SyntaxError{Pos: pos, Message: err.Error()}
}

type yamlProjector struct {
	ix       *lineIndex
	visiting map[*yaml.Node]bool
}

// project converts n. indent is the column (0-based) of the enclosing block
// collection, -1 at the top level. flow reports whether any enclosing
// collection uses flow style.
func (p *yamlProjector) project(n *yaml.Node, pointer string, indent int, flow bool) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, &SyntaxError{Pos: p.ix.point(0), Message: "empty document"}
		}

		return p.project(n.Content[0], pointer, indent, flow)
	case yaml.AliasNode:
		return p.alias(n, pointer, indent, flow)
	case yaml.MappingNode:
		return p.mapping(n, pointer, flow)
	case yaml.SequenceNode:
		return p.sequence(n, pointer, flow)
	case yaml.ScalarNode:
		return p.scalar(n, pointer, indent, flow)
	}

	return nil, &SyntaxError{Pos: p.start(n), Message: "unsupported YAML node"}
}

func (p *yamlProjector) start(n *yaml.Node) m.Point {
	return p.ix.point(p.ix.offset(n.Line, n.Column))
}

func (p *yamlProjector) alias(n *yaml.Node, pointer string, indent int, flow bool) (Value, error) {
	if n.Alias == nil || p.visiting[n.Alias] {
		return nil, &SyntaxError{Pos: p.start(n), Found: "*" + n.Value, Message: "recursive or undefined alias"}
	}

	p.visiting[n.Alias] = true
	defer delete(p.visiting, n.Alias)

	v, err := p.project(n.Alias, pointer, indent, flow)
	if err != nil {
		return nil, err
	}

	start := p.ix.offset(n.Line, n.Column)
	v.base().pos = m.Position{Start: p.ix.point(start), End: p.ix.point(p.nameEnd(start + 1))}

	return v, nil
}

func (p *yamlProjector) mapping(n *yaml.Node, pointer string, flow bool) (Value, error) {
	p.visiting[n] = true
	defer delete(p.visiting, n)

	flow = flow || n.Style&yaml.FlowStyle != 0
	obj := &ObjectNode{span: span{pointer: pointer}}
	start := p.ix.offset(n.Line, n.Column)
	end := start

	// Explicit keys win over merged ones wherever they appear.
	taken := map[string]bool{}

	for i := 0; i+1 < len(n.Content); i += 2 {
		if key := scalarKey(n.Content[i]); key != nil && !isMergeKey(key) {
			taken[key.Value] = true
		}
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]

		keyNode := scalarKey(key)
		if keyNode == nil {
			return nil, &SyntaxError{Pos: p.start(key), Message: "mapping keys must be scalars"}
		}

		keyIndent := key.Column - 1
		keyPos := p.keyPosition(key, keyIndent, flow)

		if isMergeKey(keyNode) {
			merged, mergeEnd, err := p.merge(val, pointer, keyIndent, flow)
			if err != nil {
				return nil, err
			}

			for _, prop := range merged {
				if !taken[prop.Name.Value] {
					taken[prop.Name.Value] = true
					obj.Properties = append(obj.Properties, prop)
				}
			}

			end = max(end, keyPos.End.Offset, mergeEnd)

			continue
		}

		value, err := p.project(val, AppendPointer(pointer, keyNode.Value), keyIndent, flow)
		if err != nil {
			return nil, err
		}

		if isEmptyNull(val) {
			value.base().pos = m.PointPosition(p.ix.point(p.afterIndicator(keyPos.End.Offset, ':')))
		}

		obj.Properties = append(obj.Properties, newProperty(keyNode.Value, keyPos, value))
		end = max(end, keyPos.End.Offset, value.Pos().End.Offset)
	}

	if n.Style&yaml.FlowStyle != 0 {
		end = p.closing(p.collectionBody(start, end), '}')
	}

	obj.pos = m.Position{Start: p.ix.point(start), End: p.ix.point(end)}

	return obj, nil
}

// merge projects the value of a merge key into the members it contributes,
// and returns where that value ends. Members taken from an alias are placed at
// the alias, as a plain alias is. Earlier sources of a sequence win.
func (p *yamlProjector) merge(n *yaml.Node, pointer string, indent int, flow bool) ([]*PropertyNode, int, error) {
	switch n.Kind {
	case yaml.AliasNode:
		v, err := p.alias(n, pointer, indent, flow)
		if err != nil {
			return nil, 0, err
		}

		obj, ok := v.(*ObjectNode)
		if !ok {
			return nil, 0, &SyntaxError{Pos: p.start(n), Found: "*" + n.Value, Message: "merge value must be a mapping"}
		}

		at := obj.Pos()
		for _, prop := range obj.Properties {
			prop.Name.pos = at
			prop.Value.base().pos = at
		}

		return obj.Properties, at.End.Offset, nil
	case yaml.MappingNode:
		v, err := p.mapping(n, pointer, flow)
		if err != nil {
			return nil, 0, err
		}

		return v.(*ObjectNode).Properties, v.Pos().End.Offset, nil
	case yaml.SequenceNode:
		start := p.ix.offset(n.Line, n.Column)
		end := start
		seen := map[string]bool{}

		var props []*PropertyNode

		for _, item := range n.Content {
			if item.Kind == yaml.SequenceNode {
				return nil, 0, &SyntaxError{Pos: p.start(item), Message: "merge value must be a mapping"}
			}

			merged, itemEnd, err := p.merge(item, pointer, n.Column-1, flow || n.Style&yaml.FlowStyle != 0)
			if err != nil {
				return nil, 0, err
			}

			for _, prop := range merged {
				if !seen[prop.Name.Value] {
					seen[prop.Name.Value] = true
					props = append(props, prop)
				}
			}

			end = max(end, itemEnd)
		}

		if n.Style&yaml.FlowStyle != 0 {
			end = p.closing(p.collectionBody(start, end), ']')
		}

		return props, end, nil
	}

	return nil, 0, &SyntaxError{Pos: p.start(n), Found: n.Value, Message: "merge value must be a mapping"}
}

func scalarKey(key *yaml.Node) *yaml.Node {
	if key.Kind == yaml.AliasNode && key.Alias != nil {
		key = key.Alias
	}

	if key.Kind != yaml.ScalarNode {
		return nil
	}

	return key
}

func isMergeKey(key *yaml.Node) bool {
	return key.ShortTag() == "!!merge"
}

func (p *yamlProjector) sequence(n *yaml.Node, pointer string, flow bool) (Value, error) {
	p.visiting[n] = true
	defer delete(p.visiting, n)

	flow = flow || n.Style&yaml.FlowStyle != 0
	arr := &ArrayNode{span: span{pointer: pointer}}
	start := p.ix.offset(n.Line, n.Column)
	end := start

	for i, item := range n.Content {
		v, err := p.project(item, AppendPointer(pointer, strconv.Itoa(i)), n.Column-1, flow)
		if err != nil {
			return nil, err
		}

		arr.Items = append(arr.Items, v)
		end = max(end, v.Pos().End.Offset)
	}

	if n.Style&yaml.FlowStyle != 0 {
		end = p.closing(p.collectionBody(start, end), ']')
	}

	arr.pos = m.Position{Start: p.ix.point(start), End: p.ix.point(end)}

	return arr, nil
}

// collectionBody returns where the search for a closing bracket starts: after
// the last child, or just inside the opening bracket of an empty collection.
func (p *yamlProjector) collectionBody(start, lastChildEnd int) int {
	if lastChildEnd > start {
		return lastChildEnd
	}

	return p.skipProperties(start) + 1
}

func (p *yamlProjector) keyPosition(key *yaml.Node, indent int, flow bool) m.Position {
	start := p.ix.offset(key.Line, key.Column)
	if key.Kind == yaml.AliasNode {
		return m.Position{Start: p.ix.point(start), End: p.ix.point(p.nameEnd(start + 1))}
	}

	start = p.skipProperties(start)

	return m.Position{Start: p.ix.point(start), End: p.ix.point(p.scalarEnd(key, start, indent, flow))}
}

func (p *yamlProjector) scalar(n *yaml.Node, pointer string, indent int, flow bool) (Value, error) {
	start := p.skipProperties(p.ix.offset(n.Line, n.Column))
	end := start

	if !isEmptyNull(n) {
		end = p.scalarEnd(n, start, indent, flow)
	}

	s := span{pos: m.Position{Start: p.ix.point(start), End: p.ix.point(end)}, pointer: pointer}

	switch n.ShortTag() {
	case "!!null":
		return &NullNode{span: s}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, &SyntaxError{Pos: s.pos.Start, Found: n.Value, Message: "invalid boolean"}
		}

		return &BooleanNode{span: s, Value: b}, nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, &SyntaxError{Pos: s.pos.Start, Found: n.Value, Message: "invalid number"}
		}

		raw, ok := jsonNumber(n.Value, f)
		if !ok {
			return nil, &SyntaxError{Pos: s.pos.Start, Found: n.Value, Message: "number is not representable in JSON"}
		}

		return &NumberNode{span: s, Value: f, Raw: raw}, nil
	default:
		return &StringNode{span: s, Value: n.Value}, nil
	}
}

// jsonNumber returns text as a JSON number literal, reformatting YAML-only
// notations from their value.
func jsonNumber(text string, f float64) (string, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}

	l := NewLexer([]byte(text))
	if tok, err := l.Next(); err == nil && tok.Type == TokenNumber && l.Done() == nil {
		return text, true
	}

	return strconv.FormatFloat(f, 'g', -1, 64), true
}

func isEmptyNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Value == "" && n.Style == 0 && n.ShortTag() == "!!null"
}

func (p *yamlProjector) scalarEnd(n *yaml.Node, off, indent int, flow bool) int {
	switch {
	case n.Style&yaml.DoubleQuotedStyle != 0:
		return p.quotedEnd(off, '"')
	case n.Style&yaml.SingleQuotedStyle != 0:
		return p.quotedEnd(off, '\'')
	case n.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0:
		return p.blockScalarEnd(off, indent)
	default:
		return p.plainEnd(n.Value, off, flow)
	}
}

func (p *yamlProjector) quotedEnd(off int, quote byte) int {
	src := p.ix.src

	for i := off + 1; i < len(src); i++ {
		switch {
		case quote == '"' && src[i] == '\\':
			i++
		case src[i] == quote && quote == '\'' && i+1 < len(src) && src[i+1] == '\'':
			i++
		case src[i] == quote:
			return i + 1
		}
	}

	return len(src)
}

// blockScalarEnd returns the end of the last content line of a literal or
// folded scalar whose header starts at off.
func (p *yamlProjector) blockScalarEnd(off, indent int) int {
	src := p.ix.src
	end := p.trimRight(off, p.ix.lineEnd(off))

	for next := p.ix.lineEnd(off) + 1; next < len(src); {
		lineEnd := p.ix.lineEnd(next)
		lead := p.ix.indentAt(next)

		if p.trimRight(next, lineEnd) > next+lead {
			if lead <= indent {
				break
			}

			end = p.trimRight(next, lineEnd)
		}

		next = lineEnd + 1
	}

	return end
}

// plainEnd finds the end of a plain scalar. Folded continuation lines are
// consumed until every non-space character of value has been seen.
func (p *yamlProjector) plainEnd(value string, off int, flow bool) int {
	want := countVisible(value)
	end, seen := p.plainLineEnd(off, flow)

	for next := p.ix.lineEnd(off) + 1; seen < want && next < len(p.ix.src); next = p.ix.lineEnd(next) + 1 {
		lineStart := next + p.skipBlank(next)

		lineEnd, n := p.plainLineEnd(lineStart, flow)
		if n == 0 {
			continue
		}

		end, seen = lineEnd, seen+n
	}

	return end
}

func (p *yamlProjector) plainLineEnd(off int, flow bool) (int, int) {
	src := p.ix.src
	i := off

scan:
	for i < len(src) {
		c := src[i]

		switch {
		case c == '\n':
			break scan
		case c == '#' && i > off && (src[i-1] == ' ' || src[i-1] == '\t'):
			break scan
		case c == ':' && (i+1 >= len(src) || isYAMLSpace(src[i+1]) || flow && isFlowIndicator(src[i+1])):
			break scan
		case flow && isFlowIndicator(c):
			break scan
		}

		i++
	}

	end := p.trimRight(off, i)

	return end, countVisible(string(src[off:end]))
}

func (p *yamlProjector) trimRight(start, end int) int {
	for end > start && isYAMLSpace(p.ix.src[end-1]) {
		end--
	}

	return end
}

func (p *yamlProjector) skipBlank(off int) int {
	n := 0
	for off+n < len(p.ix.src) && (p.ix.src[off+n] == ' ' || p.ix.src[off+n] == '\t') {
		n++
	}

	return n
}

// skipProperties moves past anchors and tags written before a node.
func (p *yamlProjector) skipProperties(off int) int {
	src := p.ix.src

	for off < len(src) && (src[off] == '&' || src[off] == '!') {
		off = p.nameEnd(off + 1)
		for off < len(src) && isYAMLSpace(src[off]) {
			off++
		}
	}

	return off
}

// nameEnd returns the end of an anchor, alias or tag name starting at off.
func (p *yamlProjector) nameEnd(off int) int {
	src := p.ix.src
	for off < len(src) && !isYAMLSpace(src[off]) && !isFlowIndicator(src[off]) {
		off++
	}

	return off
}

// afterIndicator returns the offset just past the next c at or after off.
func (p *yamlProjector) afterIndicator(off int, c byte) int {
	src := p.ix.src
	for i := off; i < len(src); i++ {
		if src[i] == c {
			return i + 1
		}
	}

	return off
}

// closing finds the bracket that ends a flow collection, skipping separators
// and comments after the last child.
func (p *yamlProjector) closing(off int, bracket byte) int {
	src := p.ix.src

	for i := off; i < len(src); i++ {
		switch src[i] {
		case bracket:
			return i + 1
		case '#':
			i = p.ix.lineEnd(i)
		}
	}

	return len(src)
}

func isYAMLSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isFlowIndicator(c byte) bool {
	return c == ',' || c == '[' || c == ']' || c == '{' || c == '}'
}

func countVisible(s string) int {
	n := 0

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if !unicode.IsSpace(r) {
			n++
		}

		s = s[size:]
	}

	return n
}
