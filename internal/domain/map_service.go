package domain

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"schemacov.dev/pkg/schemacov/internal/adapter"
	"schemacov.dev/pkg/schemacov/internal/engine"
	"schemacov.dev/pkg/schemacov/internal/jsonast"
	m "schemacov.dev/pkg/schemacov/internal/model"
)

// MapService builds coverage maps for schema files and adds them to a
// registry.
type MapService struct {
	fs       adapter.SourceFSAdapter
	compiler *engine.Compiler
	builder  *Builder
	registry *Registry

	store  adapter.MapStore
	output m.Path
}

// MapServiceOption configures a MapService.
type MapServiceOption func(*MapService)

// WithPersistence saves every built map to store under output.
func WithPersistence(store adapter.MapStore, output m.Path) MapServiceOption {
	return func(s *MapService) {
		s.store = store
		s.output = output
	}
}

// NewMapService wires a MapService. The builder classifies keywords with the
// compiler's format assertion setting.
func NewMapService(
	fsAdapter adapter.SourceFSAdapter,
	compiler *engine.Compiler,
	registry *Registry,
	opts ...MapServiceOption,
) *MapService {
	s := &MapService{
		fs:       fsAdapter,
		compiler: compiler,
		builder:  NewBuilder(NewClassifier(compiler, compiler.AssertFormat())),
		registry: registry,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Registry returns the registry maps are added to.
func (s *MapService) Registry() *Registry { return s.registry }

// FileURI returns the file URL of an absolute path.
func FileURI(abs m.Path) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(string(abs))}).String()
}

// Register makes the schema at path resolvable by later compilations.
func (s *MapService) Register(path m.Path) error {
	abs, src, err := s.read(path)
	if err != nil {
		return err
	}

	tree, _, err := jsonast.ParseFile(abs, src)
	if err != nil {
		return fmt.Errorf("parse %s: %w", abs, err)
	}

	return s.compiler.Register(FileURI(abs), jsonast.Interface(tree))
}

// AddFromFile builds the coverage map of the schema at path, adds it to the
// registry and returns the schema identifier.
func (s *MapService) AddFromFile(ctx context.Context, path m.Path) (string, error) {
	cm, schemaURI, err := s.BuildFile(ctx, path)
	if err != nil {
		return "", err
	}

	s.registry.AddMap(cm)

	if s.store != nil {
		if err := s.store.Save(s.output, schemaURI, cm); err != nil {
			return schemaURI, fmt.Errorf("persist %s: %w", schemaURI, err)
		}
	}

	return schemaURI, nil
}

// BuildFile builds the coverage map of the schema at path without storing it.
func (s *MapService) BuildFile(ctx context.Context, path m.Path) (m.CoverageMap, string, error) {
	abs, src, err := s.read(path)
	if err != nil {
		return nil, "", err
	}

	tree, _, err := jsonast.ParseFile(abs, src)
	if err != nil {
		slog.Debug("failed to parse schema", "path", abs, "error", err)
		return nil, "", fmt.Errorf("parse %s: %w", abs, err)
	}

	// The engine reads the same tree, so its locations always resolve against
	// it, duplicate keys and merge keys included.
	compiled, err := s.compiler.Compile(ctx, FileURI(abs), jsonast.Interface(tree))
	if err != nil {
		return nil, "", err
	}

	docs := make(map[string]Document, len(compiled.Resources))

	for base, pointer := range compiled.Resources {
		root, err := jsonast.Resolve(tree, pointer, true)
		if err != nil {
			return nil, "", fmt.Errorf("resource %s: %w", base, err)
		}

		docs[base] = Document{Path: abs, Root: root}
	}

	cm, err := s.builder.Build(compiled.Graph, compiled.SchemaURI, docs)
	if err != nil {
		slog.Error("failed to build coverage map", "path", abs, "error", err)
		return nil, "", fmt.Errorf("build %s: %w", abs, err)
	}

	return cm, compiled.SchemaURI, nil
}

func (s *MapService) read(path m.Path) (m.Path, []byte, error) {
	abs, err := s.fs.Abs(path)
	if err != nil {
		return "", nil, fmt.Errorf("abs %s: %w", path, err)
	}

	src, err := s.fs.ReadFile(abs)
	if err != nil {
		return "", nil, fmt.Errorf("read %s: %w", abs, err)
	}

	return abs, src, nil
}
