package jsonast

import (
	"path/filepath"
	"strings"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

// Syntax parses one concrete document format into a positioned tree.
type Syntax interface {
	Format() m.Format
	Extensions() []string
	Parse(src []byte) (Value, error)
}

type syntaxFunc struct {
	format     m.Format
	extensions []string
	parse      func([]byte) (Value, error)
}

func (s syntaxFunc) Format() m.Format { return s.format }

func (s syntaxFunc) Extensions() []string { return s.extensions }

func (s syntaxFunc) Parse(src []byte) (Value, error) { return s.parse(src) }

var (
	// JSON is the strict JSON syntax.
	JSON Syntax = syntaxFunc{format: m.FormatJSON, extensions: []string{".json"}, parse: ParseJSON}
	// YAML is the YAML syntax.
	YAML Syntax = syntaxFunc{format: m.FormatYAML, extensions: []string{".yaml", ".yml"}, parse: ParseYAML}
)

var syntaxes = []Syntax{JSON, YAML}

// SyntaxFor selects the adapter for path by its extension.
func SyntaxFor(path m.Path) (Syntax, error) {
	ext := strings.ToLower(filepath.Ext(string(path)))

	for _, s := range syntaxes {
		for _, e := range s.Extensions() {
			if e == ext {
				return s, nil
			}
		}
	}

	return nil, &UnsupportedFormatError{Path: path, Extension: ext}
}

// ParseFile picks the adapter for path and parses src with it.
func ParseFile(path m.Path, src []byte) (Value, Syntax, error) {
	s, err := SyntaxFor(path)
	if err != nil {
		return nil, nil, err
	}

	root, err := s.Parse(src)
	if err != nil {
		return nil, s, err
	}

	return root, s, nil
}
