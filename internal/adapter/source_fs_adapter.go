// Package adapter contains filesystem and persistence adapters for schemacov.
package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

// DefaultInclude matches the schema documents picked up by directory scans.
var DefaultInclude = []string{"*.schema.json", "*.schema.yaml", "*.schema.yml"}

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning user projects. It hides direct `os` access so the
// workflow logic can be tested without touching the disk.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Get resolves Go-style path patterns into schema files. Directories are
	// filtered by the include globs (matched against base names); every path
	// is filtered by the exclude regular expressions.
	Get(ctx context.Context, paths []m.Path, include []string, exclude ...string) ([]m.File, error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// HashFile returns a stable fingerprint (e.g. SHA-256) for the file at path.
	HashFile(path m.Path) (string, error)

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// Abs returns the absolute form of path.
	Abs(path m.Path) (m.Path, error)

	// MkdirAll creates a directory and its parents.
	MkdirAll(path m.Path) error

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

var skippedDirs = map[string]bool{".git": true, "node_modules": true, "vendor": true}

// Get expands path patterns into a sorted, de-duplicated list of files.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, paths []m.Path, include []string, exclude ...string) ([]m.File, error) {
	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	if len(include) == 0 {
		include = DefaultInclude
	}

	if len(paths) == 0 {
		paths = []m.Path{"./..."}
	}

	seen := map[m.Path]bool{}

	var files []m.File

	add := func(path string) error {
		if isExcluded(path, excludes) {
			return nil
		}

		abs, err := a.Abs(m.Path(path))
		if err != nil {
			return err
		}

		if seen[abs] {
			return nil
		}

		hash, err := a.HashFile(abs)
		if err != nil {
			return fmt.Errorf("hash %s: %w", abs, err)
		}

		seen[abs] = true
		files = append(files, m.File{Path: abs, Hash: hash})

		return nil
	}

	for _, pattern := range paths {
		root, recursive := splitPattern(string(pattern))

		info, err := os.Stat(root)
		if err != nil {
			slog.Error("failed to stat path", "path", root, "error", err)
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			if err := add(root); err != nil {
				return nil, err
			}

			continue
		}

		err = a.Walk(m.Path(root), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if info.IsDir() {
				if path != root && skippedDirs[info.Name()] {
					return filepath.SkipDir
				}

				return nil
			}

			if !matchesAny(info.Name(), include) {
				return nil
			}

			return add(path)
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return files, nil
}

func splitPattern(pattern string) (string, bool) {
	switch {
	case pattern == "..." || pattern == "./...":
		return ".", true
	case strings.HasSuffix(pattern, "/..."):
		return strings.TrimSuffix(pattern, "/..."), true
	}

	return pattern, false
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}

		out = append(out, re)
	}

	return out, nil
}

func isExcluded(path string, excludes []*regexp.Regexp) bool {
	slashed := filepath.ToSlash(path)
	for _, re := range excludes {
		if re.MatchString(slashed) {
			return true
		}
	}

	return false
}

func matchesAny(name string, globs []string) bool {
	for _, g := range globs {
		if ok, err := filepath.Match(g, name); err == nil && ok {
			return true
		}
	}

	return false
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && !recursive && path != rootStr {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(path m.Path) (string, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// Abs returns an absolute, cleaned path.
func (a *LocalSourceFSAdapter) Abs(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// MkdirAll creates path and any missing parents.
func (a *LocalSourceFSAdapter) MkdirAll(path m.Path) error {
	return os.MkdirAll(string(path), 0o750)
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
