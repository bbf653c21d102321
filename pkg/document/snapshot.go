// Package document provides the immutable text model that fixes and
// suppressions are computed against.
//
// A Snapshot captures the full text of a document together with its line
// index. All offset arithmetic for one fix or one suppression runs against a
// single Snapshot, so concurrent edits to the live buffer can never produce a
// torn read.
package document

// Snapshot is an immutable view of a document's text at a specific time.
type Snapshot struct {
	// Content is the full document text.
	Content string

	// Lines contains metadata for each line in the document.
	// There is always at least one line, even for empty content.
	Lines []LineInfo
}

// LineInfo holds metadata for a single line in a document.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where the line terminator begins.
	// For the last line (no terminator) this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the terminator (or end of content).
	EndOffset int
}

// Len returns the length of the line content, excluding its terminator.
func (l LineInfo) Len() int {
	return l.NewlineStart - l.StartOffset
}

// Terminator returns the width of the line terminator: 0, 1 (LF) or 2 (CRLF).
func (l LineInfo) Terminator() int {
	return l.EndOffset - l.NewlineStart
}

// NewSnapshot creates a Snapshot from content, building the line index once.
func NewSnapshot(content string) *Snapshot {
	return &Snapshot{
		Content: content,
		Lines:   BuildLines(content),
	}
}

// Len returns the total document length in bytes.
func (s *Snapshot) Len() int {
	return len(s.Content)
}
