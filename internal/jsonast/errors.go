package jsonast

import (
	"errors"
	"fmt"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

var (
	// ErrSyntax is wrapped by every parse failure.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupportedFormat is returned for file extensions without a syntax adapter.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidPointer is returned when a JSON pointer cannot be applied to a tree.
	ErrInvalidPointer = errors.New("invalid pointer")
)

// SyntaxError reports malformed input at a source point.
type SyntaxError struct {
	Pos     m.Point
	Found   string
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}

	return fmt.Sprintf("line %d, column %d: %s, found %q", e.Pos.Line, e.Pos.Column, e.Message, e.Found)
}

// Unwrap lets errors.Is match ErrSyntax.
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// UnsupportedFormatError names the extension that no adapter handles.
type UnsupportedFormatError struct {
	Path      m.Path
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q for %s", e.Extension, e.Path)
}

// Unwrap lets errors.Is match ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// PointerError reports the pointer and the segment that failed to resolve.
type PointerError struct {
	Pointer string
	Segment string
	Reason  string
}

func (e *PointerError) Error() string {
	return fmt.Sprintf("invalid pointer %q at segment %q: %s", e.Pointer, e.Segment, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidPointer.
func (e *PointerError) Unwrap() error { return ErrInvalidPointer }

// IsSyntaxError reports whether err came from malformed input.
func IsSyntaxError(err error) bool {
	return errors.Is(err, ErrSyntax)
}
