package jsonast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

const yamlSchema = `type: object
properties:
  name:
    type: string
  tags: [a, "b"]
`

func TestParseYAML_Positions(t *testing.T) {
	root, err := ParseYAML([]byte(yamlSchema))
	require.NoError(t, err)

	tests := []struct {
		pointer      string
		wantProperty bool
		want         m.Position
	}{
		{"", false, pos(pt(1, 1, 0), pt(5, 17, 66))},
		{"/type", false, pos(pt(1, 7, 6), pt(1, 13, 12))},
		{"/type", true, pos(pt(1, 1, 0), pt(1, 13, 12))},
		{"/properties", false, pos(pt(3, 3, 27), pt(5, 17, 66))},
		{"/properties/name", false, pos(pt(4, 5, 37), pt(4, 17, 49))},
		{"/properties/name/type", false, pos(pt(4, 11, 43), pt(4, 17, 49))},
		{"/properties/tags", false, pos(pt(5, 9, 58), pt(5, 17, 66))},
		{"/properties/tags/0", false, pos(pt(5, 10, 59), pt(5, 11, 60))},
		{"/properties/tags/1", false, pos(pt(5, 13, 62), pt(5, 16, 65))},
	}

	for _, tt := range tests {
		t.Run(tt.pointer, func(t *testing.T) {
			node, err := Resolve(root, tt.pointer, tt.wantProperty)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.Pos())
		})
	}

	name, err := Resolve(root, "/properties/name/type", false)
	require.NoError(t, err)
	assert.Equal(t, "/properties/name/type", name.(Value).Pointer())
}

func TestParseYAML_MatchesJSONModel(t *testing.T) {
	root, err := ParseYAML([]byte("n: 1.5\ni: 0x10\nb: true\nz: null\ns: '1'\nl: [1, {k: v}]\n"))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"n": json.Number("1.5"),
		"i": json.Number("16"),
		"b": true,
		"z": nil,
		"s": "1",
		"l": []any{json.Number("1"), map[string]any{"k": "v"}},
	}, Interface(root))
}

func TestParseYAML_NumbersInJSONNotation(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"v: 12", "12"},
		{"v: -1.5e3", "-1.5e3"},
		{"v: 0x1F", "31"},
		{"v: 0o17", "15"},
		{"v: +7", "7"},
		{"v: .5", "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			root, err := ParseYAML([]byte(tt.src))
			require.NoError(t, err)

			node, err := Resolve(root, "/v", false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.(*NumberNode).Raw)
		})
	}

	t.Run("infinity", func(t *testing.T) {
		_, err := ParseYAML([]byte("v: .inf"))
		require.ErrorIs(t, err, ErrSyntax)
		assert.Contains(t, err.Error(), "not representable in JSON")
	})
}

func TestParseYAML_Scalars(t *testing.T) {
	t.Run("literal block", func(t *testing.T) {
		root, err := ParseYAML([]byte("description: |\n  line one\n  line two\ntype: string\n"))
		require.NoError(t, err)

		node, err := Resolve(root, "/description", false)
		require.NoError(t, err)
		assert.Equal(t, "line one\nline two\n", node.(*StringNode).Value)
		assert.Equal(t, pos(pt(1, 14, 13), pt(3, 11, 36)), node.Pos())
	})

	t.Run("single quoted with escaped quote", func(t *testing.T) {
		root, err := ParseYAML([]byte("a: 'it''s'\n"))
		require.NoError(t, err)

		node, err := Resolve(root, "/a", false)
		require.NoError(t, err)
		assert.Equal(t, "it's", node.(*StringNode).Value)
		assert.Equal(t, pos(pt(1, 4, 3), pt(1, 11, 10)), node.Pos())
	})

	t.Run("plain scalar before comment", func(t *testing.T) {
		root, err := ParseYAML([]byte("a: hello world # note\n"))
		require.NoError(t, err)

		node, err := Resolve(root, "/a", false)
		require.NoError(t, err)
		assert.Equal(t, pos(pt(1, 4, 3), pt(1, 15, 14)), node.Pos())
	})

	t.Run("empty value", func(t *testing.T) {
		root, err := ParseYAML([]byte("a:\nb: 1\n"))
		require.NoError(t, err)

		node, err := Resolve(root, "/a", false)
		require.NoError(t, err)
		assert.Equal(t, KindNull, node.Kind())
		assert.Equal(t, pos(pt(1, 3, 2), pt(1, 3, 2)), node.Pos())
	})
}

func TestParseYAML_Alias(t *testing.T) {
	root, err := ParseYAML([]byte("a: &x 1\nb: *x\n"))
	require.NoError(t, err)

	a, err := Resolve(root, "/a", false)
	require.NoError(t, err)
	assert.Equal(t, pos(pt(1, 7, 6), pt(1, 8, 7)), a.Pos())

	b, err := Resolve(root, "/b", false)
	require.NoError(t, err)
	assert.Equal(t, 1.0, b.(*NumberNode).Value)
	assert.Equal(t, "/b", b.(Value).Pointer())
	assert.Equal(t, pos(pt(2, 4, 11), pt(2, 6, 13)), b.Pos())
}

func TestParseYAML_MergeKeys(t *testing.T) {
	src := "base: &b {type: string, minLength: 2}\nextra: &e {maxLength: 5}\nchild:\n  <<: [*b, *e]\n  minLength: 1\n"

	root, err := ParseYAML([]byte(src))
	require.NoError(t, err)

	child, err := Resolve(root, "/child", false)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"type":      "string",
		"minLength": json.Number("1"),
		"maxLength": json.Number("5"),
	}, Interface(child.(Value)))

	// Merged members sit where the alias was written.
	typ, err := Resolve(root, "/child/type", true)
	require.NoError(t, err)
	assert.Equal(t, pos(pt(4, 8, 77), pt(4, 10, 79)), typ.Pos())
	assert.Equal(t, "/child/type", typ.(*PropertyNode).Value.Pointer())

	_, err = Resolve(root, "/child/<<", false)
	require.Error(t, err)

	t.Run("explicit key wins regardless of order", func(t *testing.T) {
		root, err := ParseYAML([]byte("b: &b {type: string}\nc:\n  type: number\n  <<: *b\n"))
		require.NoError(t, err)

		c, err := Resolve(root, "/c", false)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"type": "number"}, Interface(c.(Value)))
	})

	t.Run("inline mapping", func(t *testing.T) {
		root, err := ParseYAML([]byte("c: {<<: {type: string}, minLength: 1}\n"))
		require.NoError(t, err)

		c, err := Resolve(root, "/c", false)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"type": "string", "minLength": json.Number("1")}, Interface(c.(Value)))
	})

	t.Run("scalar source", func(t *testing.T) {
		_, err := ParseYAML([]byte("a: &s foo\nb:\n  <<: *s\n"))
		require.ErrorIs(t, err, ErrSyntax)
		assert.Contains(t, err.Error(), "merge value must be a mapping")
	})
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty document", ""},
		{"comment only", "# nothing here\n"},
		{"unclosed flow sequence", "a: [1, 2\n"},
		{"bad indentation", "a: 1\n  b: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.src))
			require.Error(t, err)
			assert.True(t, IsSyntaxError(err))
		})
	}
}
