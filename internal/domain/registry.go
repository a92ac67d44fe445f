package domain

import (
	"strings"
	"sync"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

// Registry indexes coverage records by file path and by every statement and
// function location they contain. It is safe for concurrent use; writes are
// serialized.
type Registry struct {
	mu      sync.RWMutex
	records map[m.Path]*m.FileCoverage
	index   map[string]m.Path
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		records: map[m.Path]*m.FileCoverage{},
		index:   map[string]m.Path{},
	}
}

// AddMap stores every record of cm. A record for a path that is already known
// replaces the previous one entirely.
func (r *Registry) AddMap(cm m.CoverageMap) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for path, rec := range cm {
		if old, ok := r.records[path]; ok {
			r.unindex(old, path)
		}

		r.records[path] = rec
		r.indexRecord(rec, path)
	}
}

func (r *Registry) indexRecord(rec *m.FileCoverage, path m.Path) {
	for key := range rec.StatementMap {
		r.index[key] = path
	}

	for key := range rec.FnMap {
		r.index[key] = path

		if base, ok := strings.CutSuffix(key, "#"); ok {
			r.index[base] = path
		}
	}
}

func (r *Registry) unindex(rec *m.FileCoverage, path m.Path) {
	drop := func(key string) {
		if r.index[key] == path {
			delete(r.index, key)
		}
	}

	for key := range rec.StatementMap {
		drop(key)
	}

	for key := range rec.FnMap {
		drop(key)

		if base, ok := strings.CutSuffix(key, "#"); ok {
			drop(base)
		}
	}
}

// MapFor returns a map holding the record that contains the schema
// identified by id. A missing trailing "#" is added.
func (r *Registry) MapFor(id string) (m.CoverageMap, bool) {
	if !strings.HasSuffix(id, "#") {
		id += "#"
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	path, ok := r.index[id]
	if !ok {
		return nil, false
	}

	return m.CoverageMap{path: r.records[path]}, true
}

// FilePathFor returns the file owning a schema or keyword location.
func (r *Registry) FilePathFor(location string) (m.Path, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if path, ok := r.index[location]; ok {
		return path, true
	}

	path, ok := r.index[location+"#"]

	return path, ok
}

// Record returns the record stored for path.
func (r *Registry) Record(path m.Path) (*m.FileCoverage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[path]

	return rec, ok
}

// Maps returns every stored record.
func (r *Registry) Maps() m.CoverageMap {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(m.CoverageMap, len(r.records))
	for path, rec := range r.records {
		out[path] = rec
	}

	return out
}

// Snapshot returns a deep copy of every stored record.
func (r *Registry) Snapshot() m.CoverageMap {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(m.CoverageMap, len(r.records))
	for path, rec := range r.records {
		out[path] = rec.Clone()
	}

	return out
}

// Update runs fn on the record of path while holding the write lock.
func (r *Registry) Update(path m.Path, fn func(*m.FileCoverage)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[path]
	if !ok {
		return false
	}

	fn(rec)

	return true
}
