package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

func recordFor(path m.Path, base string, keywords ...string) *m.FileCoverage {
	rec := m.NewFileCoverage(path)
	rec.AddStatement(base+"#", m.Range{})
	rec.AddFunction(base+"#", m.FunctionMapping{Name: base + "#"})

	for _, kw := range keywords {
		loc := base + "#/" + kw
		rec.AddStatement(loc, m.Range{})
		rec.AddBranch(loc, m.BranchMapping{Type: m.BranchType, Locations: []m.Range{{}, {}}})
	}

	return rec
}

func TestRegistry_Lookups(t *testing.T) {
	r := NewRegistry()
	r.AddMap(m.CoverageMap{"/a.schema.json": recordFor("/a.schema.json", "file:///a.schema.json", "type")})

	t.Run("map by identifier with and without fragment", func(t *testing.T) {
		for _, id := range []string{"file:///a.schema.json", "file:///a.schema.json#"} {
			cm, ok := r.MapFor(id)
			require.True(t, ok, id)
			assert.Contains(t, cm, m.Path("/a.schema.json"))
		}
	})

	t.Run("file path by location", func(t *testing.T) {
		for _, loc := range []string{
			"file:///a.schema.json",
			"file:///a.schema.json#",
			"file:///a.schema.json#/type",
		} {
			path, ok := r.FilePathFor(loc)
			require.True(t, ok, loc)
			assert.Equal(t, m.Path("/a.schema.json"), path)
		}
	})

	t.Run("unknown identifiers miss", func(t *testing.T) {
		_, ok := r.MapFor("file:///b.schema.json")
		assert.False(t, ok)

		_, ok = r.FilePathFor("file:///a.schema.json#/minimum")
		assert.False(t, ok)

		_, ok = r.Record("/b.schema.json")
		assert.False(t, ok)
	})
}

func TestRegistry_AddMapReplaces(t *testing.T) {
	r := NewRegistry()
	r.AddMap(m.CoverageMap{"/a.schema.json": recordFor("/a.schema.json", "file:///a.schema.json", "type", "minimum")})
	r.AddMap(m.CoverageMap{"/a.schema.json": recordFor("/a.schema.json", "file:///a.schema.json", "type")})

	rec, ok := r.Record("/a.schema.json")
	require.True(t, ok)
	assert.Len(t, rec.StatementMap, 2)

	_, ok = r.FilePathFor("file:///a.schema.json#/minimum")
	assert.False(t, ok, "stale keys are dropped")

	_, ok = r.FilePathFor("file:///a.schema.json#/type")
	assert.True(t, ok)
}

func TestRegistry_ReplaceKeepsKeysOwnedElsewhere(t *testing.T) {
	r := NewRegistry()
	r.AddMap(m.CoverageMap{"/a.schema.json": recordFor("/a.schema.json", "https://example.com/s", "type")})
	r.AddMap(m.CoverageMap{"/b.schema.json": recordFor("/b.schema.json", "https://example.com/s", "type")})
	r.AddMap(m.CoverageMap{"/a.schema.json": recordFor("/a.schema.json", "file:///a.schema.json")})

	path, ok := r.FilePathFor("https://example.com/s#/type")
	require.True(t, ok)
	assert.Equal(t, m.Path("/b.schema.json"), path)
}

func TestRegistry_SnapshotAndUpdate(t *testing.T) {
	r := NewRegistry()
	r.AddMap(m.CoverageMap{"/a.schema.json": recordFor("/a.schema.json", "file:///a.schema.json", "type")})

	snap := r.Snapshot()

	ok := r.Update("/a.schema.json", func(rec *m.FileCoverage) { rec.S["file:///a.schema.json#"]++ })
	require.True(t, ok)
	assert.False(t, r.Update("/missing.schema.json", func(*m.FileCoverage) {}))

	assert.Equal(t, 0, snap["/a.schema.json"].S["file:///a.schema.json#"])
	assert.Equal(t, 1, r.Maps()["/a.schema.json"].S["file:///a.schema.json#"])
}

func TestRegistry_ConcurrentAdds(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup

	for _, name := range []string{"a", "b", "c", "d"} {
		path := m.Path("/" + name + ".schema.json")
		base := "file:///" + name + ".schema.json"

		wg.Add(1)

		go func() {
			defer wg.Done()
			r.AddMap(m.CoverageMap{path: recordFor(path, base, "type")})
		}()
	}

	wg.Wait()

	assert.Len(t, r.Maps(), 4)
}
