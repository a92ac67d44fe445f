package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemacov.dev/pkg/schemacov/internal/adapter"
	m "schemacov.dev/pkg/schemacov/internal/model"
)

func TestRecorder_Counts(t *testing.T) {
	registry := NewRegistry()
	registry.AddMap(m.CoverageMap{"/a.schema.json": recordFor("/a.schema.json", "file:///a.schema.json", "type")})

	rec := NewRecorder(registry, nil, "")
	rec.BeforeSchema("file:///a.schema.json")
	rec.AfterSchema("file:///a.schema.json#")
	rec.AfterKeyword("file:///a.schema.json#/type", true)
	rec.AfterKeyword("file:///a.schema.json#/type", true)
	rec.AfterKeyword("file:///a.schema.json#/type", false)
	rec.AfterKeyword("file:///a.schema.json#/minimum", true)
	rec.AfterSchema("https://example.com/unknown#")

	got := rec.Snapshot()["/a.schema.json"]
	require.NotNil(t, got)

	assert.Equal(t, 1, got.S["file:///a.schema.json#"])
	assert.Equal(t, 1, got.F["file:///a.schema.json#"])
	assert.Equal(t, 3, got.S["file:///a.schema.json#/type"])
	assert.Equal(t, []int{1, 2}, got.B["file:///a.schema.json#/type"])
	assert.NotContains(t, got.S, "file:///a.schema.json#/minimum")
}

func TestRecorder_RestoresStoredMaps(t *testing.T) {
	dir := m.Path(t.TempDir())
	store := adapter.NewMapStore(adapter.NewLocalSourceFSAdapter())

	cm := m.CoverageMap{"/a.schema.json": recordFor("/a.schema.json", "file:///a.schema.json", "type")}
	require.NoError(t, store.Save(dir, "file:///a.schema.json#", cm))

	registry := NewRegistry()
	rec := NewRecorder(registry, store, dir)

	rec.AfterSchema("file:///a.schema.json#")
	assert.Empty(t, registry.Maps(), "counts before loading are dropped")

	rec.BeforeSchema("file:///a.schema.json")
	rec.AfterSchema("file:///a.schema.json#")
	rec.BeforeSchema("file:///missing.schema.json")

	got := rec.Snapshot()["/a.schema.json"]
	require.NotNil(t, got)
	assert.Equal(t, 1, got.F["file:///a.schema.json#"])
}
