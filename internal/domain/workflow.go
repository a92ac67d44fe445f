package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"

	"schemacov.dev/pkg/schemacov/internal/adapter"
	"schemacov.dev/pkg/schemacov/internal/controller"
	"schemacov.dev/pkg/schemacov/internal/engine"
	m "schemacov.dev/pkg/schemacov/internal/model"
)

// ErrBuildFailed is returned when at least one schema could not be built.
var ErrBuildFailed = errors.New("coverage map build failed")

// DefaultDebounce is how long Watch waits for file events to settle.
const DefaultDebounce = 300 * time.Millisecond

// BuildArgs contains the arguments for building coverage maps.
type BuildArgs struct {
	Paths    []m.Path
	Include  []string
	Exclude  []string
	Output   m.Path
	Parallel int

	// AssertFormat makes "format" an assertion, and therefore a branch.
	AssertFormat bool
	// DefaultDialect applies to schemas without "$schema"; nil means 2020-12.
	DefaultDialect *engine.Dialect
}

// WatchArgs contains the arguments for rebuilding coverage maps on change.
type WatchArgs struct {
	BuildArgs
	Debounce time.Duration
}

// ListArgs contains the arguments for listing stored coverage maps.
type ListArgs struct {
	Output m.Path
}

// MergeArgs contains the arguments for merging hit counts.
type MergeArgs struct {
	// Inputs are directories holding coverage JSON files with hit counts.
	Inputs []m.Path
	// Output holds the stored maps; the merged file is written there too.
	Output m.Path
}

// Workflow defines the coverage map operations exposed by the CLI.
type Workflow interface {
	Build(ctx context.Context, args BuildArgs) error
	Watch(ctx context.Context, args WatchArgs) error
	List(ctx context.Context, args ListArgs) error
	Merge(ctx context.Context, args MergeArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.MapStore
	controller.UI
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	mapStore adapter.MapStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		MapStore:        mapStore,
		UI:              ui,
	}
}

// session is the state shared by an initial build and its watch rebuilds.
type session struct {
	args    BuildArgs
	service *MapService
	files   map[m.Path]m.File
	schemas map[m.Path]string
}

func (w *workflow) Build(ctx context.Context, args BuildArgs) error {
	s, results, err := w.build(ctx, args)
	if err != nil {
		return err
	}

	if err := w.DisplayBuildResults(ctx, results); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return s.failure(results)
}

func (w *workflow) build(ctx context.Context, args BuildArgs) (*session, []m.BuildResult, error) {
	if args.Parallel < 1 {
		args.Parallel = runtime.NumCPU()
	}

	files, err := w.Get(ctx, args.Paths, args.Include, args.Exclude...)
	if err != nil {
		slog.Error("Failed to discover schemas", "error", err)
		return nil, nil, fmt.Errorf("get sources: %w", err)
	}

	if err := w.Open(args.Output); err != nil {
		return nil, nil, fmt.Errorf("open output: %w", err)
	}

	s := &session{
		args: args,
		service: NewMapService(
			w.SourceFSAdapter,
			engine.NewCompiler(
				engine.WithAssertFormat(args.AssertFormat),
				engine.WithDefaultDialect(args.DefaultDialect),
			),
			NewRegistry(),
			WithPersistence(w.MapStore, args.Output),
		),
		files:   map[m.Path]m.File{},
		schemas: map[m.Path]string{},
	}

	for _, f := range files {
		s.files[f.Path] = f
	}

	if err := s.registerAll(ctx, files); err != nil {
		return nil, nil, err
	}

	results := s.buildAll(ctx, files)

	return s, results, ctx.Err()
}

// registerAll makes every document resolvable before any of them is built, so
// that references across files compile. Documents that cannot be registered
// fail later, when they are built themselves.
func (s *session) registerAll(ctx context.Context, files []m.File) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.args.Parallel)

	for _, file := range files {
		currentFile := file

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			if err := s.service.Register(currentFile.Path); err != nil {
				slog.Debug("failed to register schema", "path", currentFile.Path, "error", err)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("register schemas: %w", err)
	}

	return nil
}

func (s *session) buildAll(ctx context.Context, files []m.File) []m.BuildResult {
	p := pool.NewWithResults[m.BuildResult]().WithMaxGoroutines(s.args.Parallel)

	for _, file := range files {
		currentFile := file

		p.Go(func() m.BuildResult {
			return s.buildOne(ctx, currentFile.Path)
		})
	}

	results := p.Wait()

	for _, r := range results {
		if r.Err == nil {
			s.schemas[r.Path] = r.SchemaURI
		}
	}

	return results
}

func (s *session) buildOne(ctx context.Context, path m.Path) m.BuildResult {
	result := m.BuildResult{Path: path}

	schemaURI, err := s.service.AddFromFile(ctx, path)
	if err != nil {
		slog.Debug("failed to build coverage map", "path", path, "error", err)
		result.Err = err

		return result
	}

	result.SchemaURI = schemaURI

	if cm, ok := s.service.Registry().MapFor(schemaURI); ok {
		for _, rec := range cm {
			result.Statements += len(rec.StatementMap)
			result.Functions += len(rec.FnMap)
			result.Branches += len(rec.BranchMap)
		}
	}

	return result
}

func (s *session) failure(results []m.BuildResult) error {
	failed := 0

	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d schema(s): %w", failed, len(results), ErrBuildFailed)
	}

	return nil
}

func (w *workflow) Watch(ctx context.Context, args WatchArgs) error {
	if args.Debounce <= 0 {
		args.Debounce = DefaultDebounce
	}

	s, results, err := w.build(ctx, args.BuildArgs)
	if err != nil {
		return err
	}

	if err := w.DisplayBuildResults(ctx, results); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	defer func() {
		_ = watcher.Close()
	}()

	for _, dir := range w.watchDirs(s) {
		if err := watcher.Add(string(dir)); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	w.DisplayMessage(ctx, "watching %d schema(s) for changes", len(s.files))

	flush := make(chan struct{}, 1)

	var debounceTimer *time.Timer

	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			slog.Debug("detected change", "path", event.Name, "op", event.Op.String())

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(args.Debounce, func() {
				select {
				case flush <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}

			slog.Error("watcher error", "error", err)
		case <-flush:
			if err := w.rebuild(ctx, s); err != nil {
				slog.Error("rebuild failed", "error", err)
				w.DisplayMessage(ctx, "rebuild failed: %v", err)
			}
		}
	}
}

// watchDirs returns the directories holding discovered schemas and the roots
// of the requested paths.
func (w *workflow) watchDirs(s *session) []m.Path {
	seen := map[m.Path]bool{}

	var dirs []m.Path

	add := func(dir m.Path) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for path := range s.files {
		add(m.Path(filepath.Dir(string(path))))
	}

	for _, p := range s.args.Paths {
		root := filepath.Clean(string(p))
		if filepath.Base(root) == "..." {
			root = filepath.Dir(root)
		}

		abs, err := w.Abs(m.Path(root))
		if err != nil {
			continue
		}

		if info, err := w.FileInfo(abs); err == nil && info.IsDir() {
			add(abs)
		}
	}

	return dirs
}

// rebuild rediscovers the schemas and rebuilds the ones whose content changed.
// Maps of schemas that disappeared are removed from the output.
func (w *workflow) rebuild(ctx context.Context, s *session) error {
	files, err := w.Get(ctx, s.args.Paths, s.args.Include, s.args.Exclude...)
	if err != nil {
		return fmt.Errorf("get sources: %w", err)
	}

	current := map[m.Path]m.File{}

	var changed []m.File

	for _, f := range files {
		current[f.Path] = f

		if prev, ok := s.files[f.Path]; !ok || prev.Hash != f.Hash {
			changed = append(changed, f)
		}
	}

	for path := range s.files {
		if _, ok := current[path]; ok {
			continue
		}

		if schemaURI, ok := s.schemas[path]; ok {
			if err := w.Remove(s.args.Output, schemaURI); err != nil {
				slog.Error("failed to remove coverage map", "path", path, "error", err)
			}

			delete(s.schemas, path)
		}

		w.DisplayMessage(ctx, "removed %s", path)
	}

	s.files = current

	if len(changed) == 0 {
		return nil
	}

	if err := s.registerAll(ctx, changed); err != nil {
		return err
	}

	for _, r := range s.buildAll(ctx, changed) {
		w.DisplayWatchEvent(ctx, r.Path, r.Err)
	}

	return nil
}

func (w *workflow) List(ctx context.Context, args ListArgs) error {
	maps, err := w.Restore(args.Output)
	if err != nil {
		return fmt.Errorf("restore maps: %w", err)
	}

	merged := m.CoverageMap{}
	for _, cm := range maps {
		merged.Merge(cm)
	}

	if err := w.DisplayCoverage(ctx, merged); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	maps, err := w.Restore(args.Output)
	if err != nil {
		return fmt.Errorf("restore maps: %w", err)
	}

	for _, dir := range args.Inputs {
		hits, err := w.ReadCoverage(dir)
		if err != nil {
			return fmt.Errorf("read coverage: %w", err)
		}

		maps = append(maps, hits...)
	}

	merged := m.CoverageMap{}
	for _, cm := range maps {
		merged.Merge(cm)
	}

	out := adapter.CoverageFilePath(args.Output)
	if err := w.WriteCoverage(out, merged); err != nil {
		return fmt.Errorf("write coverage: %w", err)
	}

	if err := w.DisplayCoverage(ctx, merged); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.DisplayMessage(ctx, "wrote %s", out)

	return nil
}
