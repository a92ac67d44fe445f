package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSimpleApplicator(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"ref", true},
		{"draft-04/ref", true},
		{"dynamicRef", true},
		{"draft-2019-09/recursiveRef", true},
		{"allOf", true},
		{"properties", true},
		{"patternProperties", true},
		{"additionalProperties", true},
		{"propertyNames", true},
		{"items", true},
		{"draft-04/items", true},
		{"prefixItems", true},
		{"draft-04/additionalItems", true},
		{"then", true},
		{"else", true},
		{"dependentSchemas", true},
		{"unevaluatedProperties", true},
		{"unevaluatedItems", true},
		{"anyOf", false},
		{"oneOf", false},
		{"not", false},
		{"contains", false},
		{"if", false},
		{"type", false},
		{"unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSimpleApplicator(KeywordBase+tt.id))
		})
	}
}

func TestDialectFor(t *testing.T) {
	d, ok := DialectFor("http://json-schema.org/draft-07/schema#")
	require.True(t, ok)
	assert.Equal(t, "draft-07", d.Name)

	d, ok = DialectFor("https://json-schema.org/draft/2019-09/schema")
	require.True(t, ok)
	assert.Equal(t, Draft2019, d)

	_, ok = DialectFor("https://example.com/custom-meta")
	assert.False(t, ok)

	d, ok = DialectByName("draft-04")
	require.True(t, ok)
	assert.Equal(t, "id", d.IDKeyword)
	assert.False(t, d.BooleanSchemas)
}

func TestDialect_Keyword(t *testing.T) {
	assert.Equal(t, KeywordBase+"items", Draft2020.Keyword("items").ID)
	assert.Equal(t, KeywordBase+"draft-04/items", Draft2019.Keyword("items").ID)
	assert.Equal(t, UnknownKeywordID, Draft2020.Keyword("additionalItems").ID)
	assert.Equal(t, UnknownKeywordID, Draft04.Keyword("const").ID)
	assert.Equal(t, KeywordBase+"definitions", Draft2020.Keyword("$defs").ID)

	assert.True(t, Draft2020.IsDocumentKey("$anchor"))
	assert.True(t, Draft04.IsDocumentKey("id"))
	assert.False(t, Draft2020.IsDocumentKey("id"))
}
