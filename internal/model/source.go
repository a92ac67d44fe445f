// Package model defines the data structures shared by the coverage tooling.
package model

// Path represents a file system path.
type Path string

// File represents a schema document on disk.
type File struct {
	Path Path
	Hash string
}

// Format identifies the concrete syntax of a schema document.
type Format string

const (
	// FormatJSON is strict RFC 8259 JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML 1.2 limited to the JSON data model.
	FormatYAML Format = "yaml"
)
