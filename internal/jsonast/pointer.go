package jsonast

import (
	"net/url"
	"strconv"
	"strings"
)

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// AppendPointer appends one reference token to a JSON pointer.
func AppendPointer(pointer, segment string) string {
	return pointer + "/" + pointerEscaper.Replace(segment)
}

// Segments splits a JSON pointer into unescaped reference tokens. The empty
// pointer has no segments.
func Segments(pointer string) ([]string, error) {
	if pointer == "" {
		return nil, nil
	}

	if !strings.HasPrefix(pointer, "/") {
		return nil, &PointerError{Pointer: pointer, Segment: pointer, Reason: "pointer must start with '/'"}
	}

	parts := strings.Split(pointer[1:], "/")
	for i, part := range parts {
		parts[i] = pointerUnescaper.Replace(part)
	}

	return parts, nil
}

// FragmentToPointer decodes the URI fragment form of a JSON pointer.
func FragmentToPointer(fragment string) (string, error) {
	segments := strings.Split(fragment, "/")
	for i, seg := range segments {
		dec, err := url.PathUnescape(seg)
		if err != nil {
			return "", &PointerError{Pointer: fragment, Segment: seg, Reason: err.Error()}
		}

		segments[i] = dec
	}

	return strings.Join(segments, "/"), nil
}

// PointerToFragment encodes a JSON pointer for use as a URI fragment.
func PointerToFragment(pointer string) string {
	segments := strings.Split(pointer, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	return strings.Join(segments, "/")
}

// Resolve applies pointer to root. Property wrappers are unwrapped before each
// step; when wantProperty is set and the final step selected an object member,
// the member itself is returned instead of its value. Duplicate keys resolve
// to the first member.
func Resolve(root Node, pointer string, wantProperty bool) (Node, error) {
	segments, err := Segments(pointer)
	if err != nil {
		return nil, err
	}

	node := root
	for _, seg := range segments {
		if prop, ok := node.(*PropertyNode); ok {
			node = prop.Value
		}

		switch n := node.(type) {
		case *ObjectNode:
			prop, ok := n.Lookup(seg)
			if !ok {
				return nil, &PointerError{Pointer: pointer, Segment: seg, Reason: "no such property"}
			}

			node = prop
		case *ArrayNode:
			idx, ok := parseIndex(seg)
			if !ok || idx >= len(n.Items) {
				return nil, &PointerError{Pointer: pointer, Segment: seg, Reason: "no such array index"}
			}

			node = n.Items[idx]
		default:
			return nil, &PointerError{Pointer: pointer, Segment: seg, Reason: "cannot step into " + node.Kind().String()}
		}
	}

	if prop, ok := node.(*PropertyNode); ok && !wantProperty {
		return prop.Value, nil
	}

	return node, nil
}

func parseIndex(seg string) (int, bool) {
	if seg == "" || (len(seg) > 1 && seg[0] == '0') {
		return 0, false
	}

	for i := 0; i < len(seg); i++ {
		if !isDigit(seg[i]) {
			return 0, false
		}
	}

	idx, err := strconv.Atoi(seg)
	if err != nil {
		return 0, false
	}

	return idx, true
}
