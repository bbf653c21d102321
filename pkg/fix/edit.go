// Package fix validates and applies machine-generated fixes to a document.
//
// A Fix is a batch of line/column addressed edits produced by a remote
// analysis service that has no live view of the document. Every edit is
// resolved against one document.Snapshot, and the batch is applied all or
// nothing.
package fix

import (
	"strings"

	"github.com/yaklabco/quickfix/pkg/document"
)

// Operation identifies what an Edit does.
type Operation int

const (
	// OperationUnrecognized is any edit type this package does not know.
	// Such edits are dropped before validation and never reject a Fix.
	OperationUnrecognized Operation = iota

	// OperationAdd inserts Content at the start position.
	OperationAdd

	// OperationRemove deletes the text between start and end.
	OperationRemove

	// OperationUpdate replaces the text between start and end with Content.
	OperationUpdate
)

// ParseOperation maps a wire edit type to an Operation.
// Unknown values map to OperationUnrecognized.
func ParseOperation(s string) Operation {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add":
		return OperationAdd
	case "remove":
		return OperationRemove
	case "update":
		return OperationUpdate
	default:
		return OperationUnrecognized
	}
}

// String returns the wire name of the operation.
func (o Operation) String() string {
	switch o {
	case OperationAdd:
		return "add"
	case OperationRemove:
		return "remove"
	case OperationUpdate:
		return "update"
	default:
		return "unrecognized"
	}
}

// Edit is one positional edit of a Fix.
type Edit struct {
	// Content is the text to insert (Add) or the replacement text (Update).
	// It is ignored for Remove.
	Content string

	// Operation is the kind of edit.
	Operation Operation

	// Range addresses the edit in 1-based line/column coordinates.
	Range document.Range
}

// Fix is a named bundle of edits that resolves one violation.
type Fix struct {
	Description string
	Edits       []Edit
}

// TextEdit represents a single text replacement resolved to byte offsets.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// IsInsertion reports whether the edit has zero width.
func (e TextEdit) IsInsertion() bool {
	return e.StartOffset == e.EndOffset
}

// EditBuilder accumulates text edits for a document.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: offset,
		EndOffset:   offset,
		NewText:     text,
	})
}
