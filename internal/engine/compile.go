package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"schemacov.dev/pkg/schemacov/internal/jsonast"
)

// ErrSchema is wrapped by every compile failure.
var ErrSchema = errors.New("invalid schema")

// SchemaError reports a document that could not be compiled.
type SchemaError struct {
	URI string
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.URI, e.Err)
}

// Unwrap returns both ErrSchema and the underlying cause.
func (e *SchemaError) Unwrap() []error { return []error{ErrSchema, e.Err} }

// Option configures a Compiler.
type Option func(*Compiler)

// WithAssertFormat makes "format" an assertion instead of an annotation.
func WithAssertFormat(on bool) Option {
	return func(c *Compiler) { c.assertFormat = on }
}

// WithDefaultDialect sets the dialect used by documents without "$schema".
func WithDefaultDialect(d *Dialect) Option {
	return func(c *Compiler) {
		if d != nil {
			c.defaultDialect = d
		}
	}
}

// Compiler validates schema documents and builds their location graphs.
// Registered documents are visible to every later compilation.
type Compiler struct {
	assertFormat   bool
	defaultDialect *Dialect

	mu       sync.RWMutex
	registry map[string]any
}

// NewCompiler returns a compiler defaulting to the 2020-12 dialect.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{defaultDialect: Draft2020, registry: map[string]any{}}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AssertFormat reports whether format assertion is enabled.
func (c *Compiler) AssertFormat() bool { return c.assertFormat }

// IsSimpleApplicator implements the classification query of the builder.
func (c *Compiler) IsSimpleApplicator(keywordID string) bool {
	return IsSimpleApplicator(keywordID)
}

// Register makes doc resolvable under uri and, when it declares one, under
// its own identifier.
func (c *Compiler) Register(uri string, doc any) error {
	base, err := baseURI(uri)
	if err != nil {
		return &SchemaError{URI: uri, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.registry[base] = doc

	if id, ok := c.declaredID(base, doc); ok && id != base {
		c.registry[id] = doc
	}

	return nil
}

// Registered returns the document registered under uri.
func (c *Compiler) Registered(uri string) (any, bool) {
	base, err := baseURI(uri)
	if err != nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.registry[base]

	return doc, ok
}

// Load implements jsonschema.URLLoader. Registered documents win over the
// file system; other schemes must be registered.
func (c *Compiler) Load(rawURL string) (any, error) {
	if doc, ok := c.Registered(rawURL); ok {
		return doc, nil
	}

	if strings.HasPrefix(rawURL, "file:") {
		return jsonschema.FileLoader{}.Load(rawURL)
	}

	return nil, fmt.Errorf("schema %s is not registered", rawURL)
}

// Compile validates doc, located at uri, and walks it into a graph.
func (c *Compiler) Compile(ctx context.Context, uri string, doc any) (*CompiledSchema, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := baseURI(uri)
	if err != nil {
		return nil, &SchemaError{URI: uri, Err: err}
	}

	if err := c.validate(base, doc); err != nil {
		slog.Debug("schema validation failed", "uri", base, "error", err)
		return nil, &SchemaError{URI: base, Err: err}
	}

	root := resource{base: base, dialect: c.dialectOf(doc, c.defaultDialect)}
	if id, ok := c.declaredID(base, doc); ok {
		root.base = id
	}

	w := &walker{graph: Graph{}, resources: map[string]string{root.base: ""}}
	w.schema(doc, root, "")

	return &CompiledSchema{
		SchemaURI: root.base + "#",
		Dialect:   root.dialect,
		Graph:     w.graph,
		Resources: w.resources,
	}, nil
}

func (c *Compiler) validate(base string, doc any) error {
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(c.defaultDialect.draft)
	compiler.UseLoader(c)

	if c.assertFormat {
		compiler.AssertFormat()
	}

	if err := compiler.AddResource(base, doc); err != nil {
		return fmt.Errorf("add resource: %w", err)
	}

	if _, err := compiler.Compile(base); err != nil {
		return err
	}

	return nil
}

func (c *Compiler) dialectOf(doc any, fallback *Dialect) *Dialect {
	obj, ok := doc.(map[string]any)
	if !ok {
		return fallback
	}

	uri, ok := obj["$schema"].(string)
	if !ok {
		return fallback
	}

	if d, ok := DialectFor(uri); ok {
		return d
	}

	return fallback
}

// declaredID returns the absolute base URI a document root declares for
// itself, resolved against base.
func (c *Compiler) declaredID(base string, doc any) (string, bool) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return "", false
	}

	d := c.dialectOf(doc, c.defaultDialect)

	id, ok := obj[d.IDKeyword].(string)
	if !ok || strings.HasPrefix(id, "#") {
		return "", false
	}

	resolved, err := resolveURI(base, id)
	if err != nil {
		return "", false
	}

	return resolved, true
}

type resource struct {
	base    string
	root    string // pointer of the resource root within the document
	dialect *Dialect
}

func (r resource) location(pointer string) string {
	return r.base + "#" + jsonast.PointerToFragment(strings.TrimPrefix(pointer, r.root))
}

type walker struct {
	graph     Graph
	resources map[string]string
}

func (w *walker) schema(v any, r resource, pointer string) {
	switch s := v.(type) {
	case bool:
		if !r.dialect.BooleanSchemas {
			return
		}

		b := s
		w.graph[r.location(pointer)] = Entry{Keywords: []KeywordRef{}, Boolean: &b}
	case map[string]any:
		r = w.enter(s, r, pointer)
		w.object(s, r, pointer)
	}
}

// enter switches to a new resource when a nested schema declares its own
// identifier.
func (w *walker) enter(s map[string]any, r resource, pointer string) resource {
	if pointer == r.root {
		return r
	}

	id, ok := s[r.dialect.IDKeyword].(string)
	if !ok || strings.HasPrefix(id, "#") {
		return r
	}

	base, err := resolveURI(r.base, id)
	if err != nil || base == r.base {
		return r
	}

	dialect := r.dialect
	if uri, ok := s["$schema"].(string); ok {
		if d, ok := DialectFor(uri); ok {
			dialect = d
		}
	}

	w.resources[base] = pointer

	return resource{base: base, root: pointer, dialect: dialect}
}

func (w *walker) object(s map[string]any, r resource, pointer string) {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}

	sort.Strings(names)

	_, hasRef := s["$ref"]
	entry := Entry{Keywords: []KeywordRef{}}

	for _, name := range names {
		if r.dialect.IsDocumentKey(name) {
			continue
		}

		kw := r.dialect.Keyword(name)
		child := jsonast.AppendPointer(pointer, name)

		if hasRef && r.dialect.RefOverrides && name != "$ref" {
			if kw.ID == KeywordBase+"definitions" {
				w.children(kw, s[name], r, child)
			}

			continue
		}

		entry.Keywords = append(entry.Keywords, KeywordRef{ID: kw.ID, Location: r.location(child)})
		w.children(kw, s[name], r, child)
	}

	w.graph[r.location(pointer)] = entry
}

func (w *walker) children(kw Keyword, v any, r resource, pointer string) {
	switch kw.Applies {
	case AppliesSchema:
		w.schema(v, r, pointer)
	case AppliesSchemaArray:
		w.array(v, r, pointer)
	case AppliesSchemaOrArray:
		if _, ok := v.([]any); ok {
			w.array(v, r, pointer)
			return
		}

		w.schema(v, r, pointer)
	case AppliesSchemaMap:
		w.members(v, r, pointer, func(any) bool { return true })
	case AppliesDependencies:
		w.members(v, r, pointer, func(dep any) bool {
			_, isList := dep.([]any)
			return !isList
		})
	}
}

func (w *walker) array(v any, r resource, pointer string) {
	items, ok := v.([]any)
	if !ok {
		return
	}

	for i, item := range items {
		w.schema(item, r, jsonast.AppendPointer(pointer, fmt.Sprint(i)))
	}
}

func (w *walker) members(v any, r resource, pointer string, isSchema func(any) bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		if isSchema(obj[k]) {
			w.schema(obj[k], r, jsonast.AppendPointer(pointer, k))
		}
	}
}

func baseURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}

	if !u.IsAbs() {
		return "", fmt.Errorf("%q is not an absolute URI", uri)
	}

	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), nil
}

func resolveURI(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}

	return baseURI(b.ResolveReference(r).String())
}
