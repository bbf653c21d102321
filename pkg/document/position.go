package document

import (
	"fmt"
	"unicode/utf8"
)

// Position is a 1-based line and column in a document.
//
// Columns count characters (runes) from the start of the line; column 1 is
// the first character and column n+1 addresses the end of a line holding n
// characters. Column 0 is
// accepted and treated like column 1. Negative values are invalid.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"col"`
}

// IsValid returns true if the line is positive and the column is not negative.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column >= 0
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a start/end pair of positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsOrdered returns true if End does not come before Start.
func (r Range) IsOrdered() bool {
	return !r.End.Before(r.Start)
}

// IsValid returns true if the range is ordered and both positions are valid.
func (r Range) IsValid() bool {
	return r.IsOrdered() && r.Start.IsValid() && r.End.IsValid()
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// ToOffset converts a 1-based position to a byte offset. The result always
// falls on a rune boundary.
//
// It never rejects a position. When the line lies past the last line, or the
// column lies past the end of the line content, the result is the document
// length and inBounds is false; the caller decides whether that means
// clamping or rejection. Line terminators are never addressed by a column.
func (s *Snapshot) ToOffset(pos Position) (int, bool) {
	row := pos.Line - 1
	line, ok := s.Line(row)
	if !ok {
		return len(s.Content), false
	}

	offset := line.StartOffset
	for range max(pos.Column-1, 0) {
		if offset >= line.NewlineStart {
			return len(s.Content), false
		}
		_, size := utf8.DecodeRuneInString(s.Content[offset:line.NewlineStart])
		offset += size
	}

	return offset, true
}
