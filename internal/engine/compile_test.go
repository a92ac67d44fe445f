package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemacov.dev/pkg/schemacov/internal/jsonast"
)

const fileURI = "file:///schemas/subject.schema.json"

func compileJSON(t *testing.T, c *Compiler, src string) (*CompiledSchema, error) {
	t.Helper()

	tree, err := jsonast.ParseJSON([]byte(src))
	require.NoError(t, err)

	return c.Compile(context.Background(), fileURI, jsonast.Interface(tree))
}

func kw(name, location string) KeywordRef {
	return KeywordRef{ID: KeywordBase + name, Location: location}
}

func TestCompile_MinimalSchema(t *testing.T) {
	compiled, err := compileJSON(t, NewCompiler(), `{"$schema": "https://json-schema.org/draft/2020-12/schema"}`)
	require.NoError(t, err)

	assert.Equal(t, fileURI+"#", compiled.SchemaURI)
	assert.Equal(t, Draft2020, compiled.Dialect)
	assert.Equal(t, Graph{fileURI + "#": {Keywords: []KeywordRef{}}}, compiled.Graph)
	assert.Equal(t, map[string]string{fileURI: ""}, compiled.Resources)
}

func TestCompile_Keywords(t *testing.T) {
	compiled, err := compileJSON(t, NewCompiler(), `{
  "type": "object",
  "properties": {"foo": {"type": "string"}},
  "x-foo": 1,
  "items": false
}`)
	require.NoError(t, err)

	assert.Equal(t, []string{fileURI + "#", fileURI + "#/items", fileURI + "#/properties/foo"}, compiled.Graph.Locations())
	assert.Equal(t, []KeywordRef{
		kw("items", fileURI+"#/items"),
		kw("properties", fileURI+"#/properties"),
		kw("type", fileURI+"#/type"),
		{ID: UnknownKeywordID, Location: fileURI + "#/x-foo"},
	}, compiled.Graph[fileURI+"#"].Keywords)

	items := compiled.Graph[fileURI+"#/items"]
	require.NotNil(t, items.Boolean)
	assert.False(t, *items.Boolean)
	assert.Empty(t, items.Keywords)
}

func TestCompile_SelfIdentifyingSchema(t *testing.T) {
	compiled, err := compileJSON(t, NewCompiler(), `{"$id": "https://example.com/foo", "type": "string"}`)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/foo#", compiled.SchemaURI)
	assert.Equal(t, []KeywordRef{kw("type", "https://example.com/foo#/type")}, compiled.Graph["https://example.com/foo#"].Keywords)
	assert.Equal(t, map[string]string{"https://example.com/foo": ""}, compiled.Resources)
}

func TestCompile_EmbeddedResource(t *testing.T) {
	compiled, err := compileJSON(t, NewCompiler(), `{
  "$id": "https://example.com/main",
  "$ref": "foo",
  "$defs": {
    "foo": {"$id": "https://example.com/foo", "type": "string"}
  }
}`)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"https://example.com/main": "",
		"https://example.com/foo":  "/$defs/foo",
	}, compiled.Resources)
	assert.Equal(t, []string{"https://example.com/foo#", "https://example.com/main#"}, compiled.Graph.Locations())
	assert.Equal(t, []KeywordRef{
		kw("definitions", "https://example.com/main#/$defs"),
		kw("ref", "https://example.com/main#/$ref"),
	}, compiled.Graph["https://example.com/main#"].Keywords)
}

func TestCompile_Draft07RefHidesSiblings(t *testing.T) {
	compiled, err := compileJSON(t, NewCompiler(), `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {"a": {"type": "string"}},
  "$ref": "#/definitions/a",
  "type": "number"
}`)
	require.NoError(t, err)

	assert.Equal(t, Draft07, compiled.Dialect)
	assert.Equal(t, []KeywordRef{kw("draft-04/ref", fileURI+"#/$ref")}, compiled.Graph[fileURI+"#"].Keywords)
	assert.Contains(t, compiled.Graph, fileURI+"#/definitions/a")
}

func TestCompile_Errors(t *testing.T) {
	t.Run("invalid schema", func(t *testing.T) {
		_, err := compileJSON(t, NewCompiler(), `{"type": 5}`)
		require.ErrorIs(t, err, ErrSchema)
	})

	t.Run("relative uri", func(t *testing.T) {
		_, err := NewCompiler().Compile(context.Background(), "relative.json", map[string]any{})
		require.ErrorIs(t, err, ErrSchema)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewCompiler().Compile(ctx, fileURI, map[string]any{})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unregistered reference", func(t *testing.T) {
		_, err := compileJSON(t, NewCompiler(), `{"$ref": "https://example.com/string"}`)
		require.ErrorIs(t, err, ErrSchema)
	})
}

func TestCompiler_Register(t *testing.T) {
	c := NewCompiler()
	require.NoError(t, c.Register("https://example.com/string", map[string]any{"type": "string"}))

	doc, ok := c.Registered("https://example.com/string#")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"type": "string"}, doc)

	compiled, err := compileJSON(t, c, `{"$ref": "https://example.com/string"}`)
	require.NoError(t, err)
	assert.Len(t, compiled.Graph, 1)

	require.Error(t, c.Register("not/absolute", nil))
}

func TestCompiler_RegisterByDeclaredID(t *testing.T) {
	c := NewCompiler()
	require.NoError(t, c.Register("file:///other.schema.json", map[string]any{"$id": "https://example.com/other"}))

	_, ok := c.Registered("https://example.com/other")
	assert.True(t, ok)
}

func TestCompile_DuplicateKeysFollowFirstMember(t *testing.T) {
	compiled, err := compileJSON(t, NewCompiler(),
		`{"properties": {"a": {"type": "string"}}, "properties": {"a": {"minimum": 1}}}`)
	require.NoError(t, err)

	entry, ok := compiled.Graph[fileURI+"#/properties/a"]
	require.True(t, ok)
	assert.Equal(t, []KeywordRef{kw("type", fileURI+"#/properties/a/type")}, entry.Keywords)
}
