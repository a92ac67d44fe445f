package domain

import (
	"log/slog"
	"strings"

	"schemacov.dev/pkg/schemacov/internal/adapter"
	m "schemacov.dev/pkg/schemacov/internal/model"
)

// Recorder bumps hit counts while instances are evaluated. Maps missing from
// the registry are restored from the store on first use. Locations that no
// map knows about are ignored.
//
// Recorder is the surface a validator run reports evaluation events to; no
// CLI command drives one, so within this module only tests construct it.
type Recorder struct {
	registry *Registry
	store    adapter.MapStore
	dir      m.Path
}

// NewRecorder returns a Recorder over registry. store may be nil, in which
// case only maps already in the registry are counted.
func NewRecorder(registry *Registry, store adapter.MapStore, dir m.Path) *Recorder {
	return &Recorder{registry: registry, store: store, dir: dir}
}

// BeforeSchema makes sure the map of the schema identified by uri is loaded.
func (r *Recorder) BeforeSchema(uri string) {
	if !strings.HasSuffix(uri, "#") {
		uri += "#"
	}

	if _, ok := r.registry.MapFor(uri); ok || r.store == nil {
		return
	}

	cm, err := r.store.Load(r.dir, uri)
	if err != nil {
		slog.Debug("no stored coverage map", "schema", uri, "error", err)
		return
	}

	r.registry.AddMap(cm)
}

// AfterKeyword counts one evaluation of the keyword at location. Failed
// evaluations hit branch slot 0, passing ones slot 1.
func (r *Recorder) AfterKeyword(location string, valid bool) {
	r.update(location, func(rec *m.FileCoverage) {
		if _, ok := rec.S[location]; ok {
			rec.S[location]++
		}

		if counts, ok := rec.B[location]; ok && len(counts) == 2 {
			if valid {
				counts[1]++
			} else {
				counts[0]++
			}
		}
	})
}

// AfterSchema counts one evaluation of the schema at location.
func (r *Recorder) AfterSchema(location string) {
	r.update(location, func(rec *m.FileCoverage) {
		if _, ok := rec.S[location]; ok {
			rec.S[location]++
		}

		if _, ok := rec.F[location]; ok {
			rec.F[location]++
		}
	})
}

// Snapshot returns a copy of the counts recorded so far.
func (r *Recorder) Snapshot() m.CoverageMap {
	return r.registry.Snapshot()
}

func (r *Recorder) update(location string, fn func(*m.FileCoverage)) {
	path, ok := r.registry.FilePathFor(location)
	if !ok {
		return
	}

	r.registry.Update(path, fn)
}
