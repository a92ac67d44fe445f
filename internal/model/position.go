package model

// Point is a single place in source text.
type Point struct {
	Line   int // 1-based
	Column int // 1-based, counted in characters
	Offset int // 0-based, counted in bytes
}

// Position is the source span of a document node. End is the point
// immediately after the last character of the node.
type Position struct {
	Start Point
	End   Point
}

// PointPosition returns a zero-width position at p.
func PointPosition(p Point) Position {
	return Position{Start: p, End: p}
}

// Location is a line and 0-based column as reported in coverage output.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is the coverage report form of a Position.
type Range struct {
	Start Location `json:"start"`
	End   Location `json:"end"`
}

// RangeOf converts a source position to a report range. Lines stay 1-based,
// columns become 0-based.
func RangeOf(pos Position) Range {
	return Range{
		Start: Location{Line: pos.Start.Line, Column: pos.Start.Column - 1},
		End:   Location{Line: pos.End.Line, Column: pos.End.Column - 1},
	}
}
