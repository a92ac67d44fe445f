// Package engine turns schema documents into the location graph consumed by
// the coverage builder. Schemas are validated with jsonschema/v6 before they
// are walked.
package engine

import "sort"

// KeywordRef is one keyword application inside a schema location.
type KeywordRef struct {
	ID       string `json:"id"`
	Location string `json:"location"`
}

// Entry describes a schema location. Boolean schemas have no keywords and a
// non-nil Boolean.
type Entry struct {
	Keywords []KeywordRef `json:"keywords"`
	Boolean  *bool        `json:"boolean,omitempty"`
}

// Graph maps absolute schema locations ("<base>#<pointer>") to their entries.
type Graph map[string]Entry

// Locations returns the locations of g in sorted order.
func (g Graph) Locations() []string {
	locs := make([]string, 0, len(g))
	for loc := range g {
		locs = append(locs, loc)
	}

	sort.Strings(locs)

	return locs
}

// CompiledSchema is the result of compiling one document.
type CompiledSchema struct {
	// SchemaURI is the location of the document root, "<base>#".
	SchemaURI string
	Dialect   *Dialect
	Graph     Graph
	// Resources maps the base URI of every schema resource in the document,
	// the root included, to its JSON pointer within the document.
	Resources map[string]string
}
