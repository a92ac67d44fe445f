package domain

import (
	"fmt"
	"net/url"
	"strings"

	"schemacov.dev/pkg/schemacov/internal/engine"
	"schemacov.dev/pkg/schemacov/internal/jsonast"
	m "schemacov.dev/pkg/schemacov/internal/model"
)

// Document is a parsed schema resource: the file it lives in and the node at
// which the resource starts. Root is either the document root or the
// property holding an embedded resource.
type Document struct {
	Path m.Path
	Root jsonast.Node
}

// Builder turns a compiled location graph into a coverage map.
type Builder struct {
	classifier *Classifier
}

// NewBuilder returns a Builder using classifier for keyword locations.
func NewBuilder(classifier *Classifier) *Builder {
	return &Builder{classifier: classifier}
}

// Build creates the coverage map of the document identified by schemaURI.
// docs maps base URIs (without fragment) to parsed resources. Locations whose
// base has no document are dropped; locations that do not resolve in their
// document are reported as errors.
func (b *Builder) Build(graph engine.Graph, schemaURI string, docs map[string]Document) (m.CoverageMap, error) {
	rootBase, _ := splitLocation(schemaURI)

	root, ok := docs[rootBase]
	if !ok {
		return nil, fmt.Errorf("no document for %s", schemaURI)
	}

	cm := m.CoverageMap{root.Path: m.NewFileCoverage(root.Path)}

	record := func(path m.Path) *m.FileCoverage {
		rec, ok := cm[path]
		if !ok {
			rec = m.NewFileCoverage(path)
			cm[path] = rec
		}

		return rec
	}

	for _, location := range graph.Locations() {
		if !isAbsoluteLocation(location) {
			continue
		}

		doc, node, err := resolveLocation(docs, location)
		if err != nil {
			return nil, err
		}

		if doc == nil {
			continue
		}

		rec := record(doc.Path)
		decl, loc := declaration(node), m.RangeOf(node.Pos())

		rec.AddStatement(location, loc)
		rec.AddFunction(location, m.FunctionMapping{
			Name: location,
			Decl: decl,
			Loc:  loc,
			Line: decl.Start.Line,
		})

		for _, kw := range graph[location].Keywords {
			class := b.classifier.Classify(kw.ID)
			if class == ClassIgnored {
				continue
			}

			kwDoc, kwNode, err := resolveLocation(docs, kw.Location)
			if err != nil {
				return nil, err
			}

			if kwDoc == nil {
				continue
			}

			kwRec := record(kwDoc.Path)
			r := m.RangeOf(kwNode.Pos())
			kwRec.AddStatement(kw.Location, r)

			if class == ClassBranch {
				kwRec.AddBranch(kw.Location, m.BranchMapping{
					Line:      r.Start.Line,
					Type:      m.BranchType,
					Loc:       r,
					Locations: []m.Range{r, r},
				})
			}
		}
	}

	return cm, nil
}

// declaration is the key span of a property, or an empty range at the start
// of any other node.
func declaration(node jsonast.Node) m.Range {
	if prop, ok := node.(*jsonast.PropertyNode); ok {
		return m.RangeOf(prop.Name.Pos())
	}

	return m.RangeOf(m.PointPosition(node.Pos().Start))
}

func resolveLocation(docs map[string]Document, location string) (*Document, jsonast.Node, error) {
	base, fragment := splitLocation(location)

	doc, ok := docs[base]
	if !ok {
		return nil, nil, nil
	}

	pointer, err := jsonast.FragmentToPointer(fragment)
	if err != nil {
		return nil, nil, fmt.Errorf("location %s: %w", location, err)
	}

	node, err := jsonast.Resolve(doc.Root, pointer, true)
	if err != nil {
		return nil, nil, fmt.Errorf("location %s: %w", location, err)
	}

	return &doc, node, nil
}

func splitLocation(location string) (string, string) {
	base, fragment, _ := strings.Cut(location, "#")

	return base, fragment
}

func isAbsoluteLocation(location string) bool {
	u, err := url.Parse(location)

	return err == nil && u.IsAbs()
}
