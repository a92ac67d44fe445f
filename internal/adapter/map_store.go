package adapter

import (
	"crypto/md5" //nolint:gosec // file names only, not a security boundary
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

const (
	mapsDirName      = "maps"
	coverageFileName = "coverage-final.json"
)

// MapStore persists coverage maps, one file per schema identifier.
type MapStore interface {
	// Open prepares dir for a fresh build, dropping previously stored maps.
	Open(dir m.Path) error
	Save(dir m.Path, schemaURI string, cm m.CoverageMap) error
	Load(dir m.Path, schemaURI string) (m.CoverageMap, error)
	Remove(dir m.Path, schemaURI string) error
	// Restore reads every stored map of dir.
	Restore(dir m.Path) ([]m.CoverageMap, error)
	// WriteCoverage writes a merged coverage map in the istanbul JSON layout.
	WriteCoverage(path m.Path, cm m.CoverageMap) error
	// ReadCoverage reads every *.json coverage file directly inside dir.
	ReadCoverage(dir m.Path) ([]m.CoverageMap, error)
}

// MapFileName returns the file name used for the map of schemaURI.
func MapFileName(schemaURI string) string {
	sum := md5.Sum([]byte(schemaURI)) //nolint:gosec // see import

	return hex.EncodeToString(sum[:]) + ".json"
}

// CoverageFilePath returns where merged coverage is written inside dir.
func CoverageFilePath(dir m.Path) m.Path {
	return m.Path(filepath.Join(string(dir), coverageFileName))
}

type fileMapStore struct {
	fs SourceFSAdapter
}

// NewMapStore returns a MapStore writing JSON files through fsAdapter.
func NewMapStore(fsAdapter SourceFSAdapter) MapStore {
	return &fileMapStore{fs: fsAdapter}
}

func (s *fileMapStore) mapsDir(dir m.Path) m.Path {
	return s.fs.JoinPath(string(dir), mapsDirName)
}

func (s *fileMapStore) Open(dir m.Path) error {
	mapsDir := s.mapsDir(dir)

	if err := s.fs.RemoveAll(mapsDir); err != nil {
		slog.Error("failed to clear maps directory", "path", mapsDir, "error", err)
		return fmt.Errorf("clear %s: %w", mapsDir, err)
	}

	if err := s.fs.MkdirAll(mapsDir); err != nil {
		slog.Error("failed to create maps directory", "path", mapsDir, "error", err)
		return fmt.Errorf("create %s: %w", mapsDir, err)
	}

	return nil
}

func (s *fileMapStore) Save(dir m.Path, schemaURI string, cm m.CoverageMap) error {
	mapsDir := s.mapsDir(dir)
	if err := s.fs.MkdirAll(mapsDir); err != nil {
		return fmt.Errorf("create %s: %w", mapsDir, err)
	}

	data, err := json.Marshal(cm)
	if err != nil {
		return fmt.Errorf("encode map for %s: %w", schemaURI, err)
	}

	path := s.fs.JoinPath(string(mapsDir), MapFileName(schemaURI))
	if err := s.fs.WriteFile(path, data, 0o600); err != nil {
		slog.Error("failed to write coverage map", "path", path, "schema", schemaURI, "error", err)
		return fmt.Errorf("write %s: %w", path, err)
	}

	slog.Debug("saved coverage map", "path", path, "schema", schemaURI)

	return nil
}

func (s *fileMapStore) Load(dir m.Path, schemaURI string) (m.CoverageMap, error) {
	return s.readMap(s.fs.JoinPath(string(s.mapsDir(dir)), MapFileName(schemaURI)))
}

func (s *fileMapStore) Remove(dir m.Path, schemaURI string) error {
	path := s.fs.JoinPath(string(s.mapsDir(dir)), MapFileName(schemaURI))
	if err := os.Remove(string(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}

	return nil
}

func (s *fileMapStore) Restore(dir m.Path) ([]m.CoverageMap, error) {
	return s.readDir(s.mapsDir(dir))
}

func (s *fileMapStore) WriteCoverage(path m.Path, cm m.CoverageMap) error {
	if err := s.fs.MkdirAll(m.Path(filepath.Dir(string(path)))); err != nil {
		return fmt.Errorf("create parent of %s: %w", path, err)
	}

	data, err := json.MarshalIndent(cm, "", "  ")
	if err != nil {
		return fmt.Errorf("encode coverage: %w", err)
	}

	if err := s.fs.WriteFile(path, data, 0o600); err != nil {
		slog.Error("failed to write coverage", "path", path, "error", err)
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func (s *fileMapStore) ReadCoverage(dir m.Path) ([]m.CoverageMap, error) {
	return s.readDir(dir)
}

func (s *fileMapStore) readDir(dir m.Path) ([]m.CoverageMap, error) {
	var paths []string

	err := s.fs.Walk(dir, false, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(info.Name(), ".json") {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		slog.Error("failed to list coverage files", "path", dir, "error", err)
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	sort.Strings(paths)

	maps := make([]m.CoverageMap, 0, len(paths))

	for _, path := range paths {
		cm, err := s.readMap(m.Path(path))
		if err != nil {
			return nil, err
		}

		maps = append(maps, cm)
	}

	return maps, nil
}

func (s *fileMapStore) readMap(path m.Path) (m.CoverageMap, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cm m.CoverageMap
	if err := json.Unmarshal(data, &cm); err != nil {
		slog.Error("failed to decode coverage map", "path", path, "error", err)
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	for p, rec := range cm {
		if rec == nil {
			delete(cm, p)
			continue
		}

		normalize(rec)
	}

	return cm, nil
}

// normalize fills the maps a hand-written or foreign coverage file may omit.
func normalize(rec *m.FileCoverage) {
	if rec.StatementMap == nil {
		rec.StatementMap = map[string]m.Range{}
	}

	if rec.FnMap == nil {
		rec.FnMap = map[string]m.FunctionMapping{}
	}

	if rec.BranchMap == nil {
		rec.BranchMap = map[string]m.BranchMapping{}
	}

	if rec.S == nil {
		rec.S = map[string]int{}
	}

	if rec.F == nil {
		rec.F = map[string]int{}
	}

	if rec.B == nil {
		rec.B = map[string][]int{}
	}
}
