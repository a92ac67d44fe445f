package jsonast

import (
	"sort"
	"unicode/utf8"

	m "schemacov.dev/pkg/schemacov/internal/model"
)

// lineIndex maps between byte offsets and line/column points.
type lineIndex struct {
	src    []byte
	starts []int // byte offset of the first character of each line
}

func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &lineIndex{src: src, starts: starts}
}

// offset converts a 1-based line and character column to a byte offset.
func (ix *lineIndex) offset(line, column int) int {
	if line < 1 {
		return 0
	}

	if line > len(ix.starts) {
		return len(ix.src)
	}

	off := ix.starts[line-1]
	for col := 1; col < column && off < len(ix.src) && ix.src[off] != '\n'; col++ {
		_, size := utf8.DecodeRune(ix.src[off:])
		off += size
	}

	return off
}

// point converts a byte offset to a full source point.
func (ix *lineIndex) point(off int) m.Point {
	off = max(0, min(off, len(ix.src)))
	line := sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > off })

	return m.Point{
		Line:   line,
		Column: utf8.RuneCount(ix.src[ix.starts[line-1]:off]) + 1,
		Offset: off,
	}
}

// lineEnd returns the offset of the newline ending the line that holds off,
// or the input length on the last line.
func (ix *lineIndex) lineEnd(off int) int {
	for off < len(ix.src) && ix.src[off] != '\n' {
		off++
	}

	return off
}

// indentAt counts the leading spaces of the line that starts at off.
func (ix *lineIndex) indentAt(off int) int {
	n := 0
	for off+n < len(ix.src) && ix.src[off+n] == ' ' {
		n++
	}

	return n
}
