package document

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// BuildLines constructs line metadata from document content.
// LF and CRLF terminators are treated uniformly. Content that ends with a
// terminator has a trailing empty line, and empty content has exactly one
// empty line.
func BuildLines(content string) []LineInfo {
	lines := make([]LineInfo, 0, strings.Count(content, "\n")+1)
	lineStart := 0

	for idx := range len(content) {
		if content[idx] != '\n' {
			continue
		}

		newlineStart := idx
		if idx > lineStart && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}

		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// The last line never has a terminator.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineCount returns the number of lines in the document.
func (s *Snapshot) LineCount() int {
	return len(s.Lines)
}

// Line returns metadata for a zero-based row.
// Returns false if the row is out of range.
func (s *Snapshot) Line(row int) (LineInfo, bool) {
	if row < 0 || row >= len(s.Lines) {
		return LineInfo{}, false
	}
	return s.Lines[row], true
}

// LineContent returns the content of a zero-based row, excluding its terminator.
// Returns the empty string if the row is out of range.
func (s *Snapshot) LineContent(row int) string {
	line, ok := s.Line(row)
	if !ok {
		return ""
	}
	return s.Content[line.StartOffset:line.NewlineStart]
}

// Indentation returns the leading horizontal whitespace (spaces and tabs) of
// a zero-based row.
func (s *Snapshot) Indentation(row int) string {
	text := s.LineContent(row)
	end := 0
	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return text[:end]
}

// LineEnding returns the terminator used by a zero-based row. The last row
// has no terminator of its own, so it reports the terminator of the row
// before it. Single-line documents report "\n".
func (s *Snapshot) LineEnding(row int) string {
	line, ok := s.Line(row)
	if !ok {
		return "\n"
	}
	if line.Terminator() == 0 {
		prev, ok := s.Line(row - 1)
		if !ok || prev.Terminator() == 0 {
			return "\n"
		}
		line = prev
	}
	return s.Content[line.NewlineStart:line.EndOffset]
}

// LineAt converts a byte offset to a 1-based position, counting columns in
// runes like ToOffset. Offsets at or past the end of the content map to the
// end of the last line.
// Returns the zero Position for negative offsets.
func (s *Snapshot) LineAt(offset int) Position {
	if offset < 0 {
		return Position{}
	}
	if offset >= len(s.Content) {
		last := s.Lines[len(s.Lines)-1]
		return Position{Line: len(s.Lines), Column: utf8.RuneCountInString(s.Content[last.StartOffset:]) + 1}
	}

	// Binary search for the line containing the offset.
	row := sort.Search(len(s.Lines), func(i int) bool {
		return s.Lines[i].EndOffset > offset
	})
	if row >= len(s.Lines) {
		row = len(s.Lines) - 1
	}

	start := s.Lines[row].StartOffset
	return Position{Line: row + 1, Column: utf8.RuneCountInString(s.Content[start:offset]) + 1}
}
