package fix

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yaklabco/quickfix/pkg/document"
)

// Sentinel errors for rejection categorization via errors.Is.
var (
	// ErrUnrecognizedOperation marks an edit whose operation is unknown.
	// Such edits are dropped, never rejected.
	ErrUnrecognizedOperation = errors.New("unrecognized operation")

	// ErrMalformedRange indicates an unordered range or a negative coordinate.
	ErrMalformedRange = errors.New("malformed range")

	// ErrUnanchorableEdit indicates a remove or update whose start cannot be
	// located in the document.
	ErrUnanchorableEdit = errors.New("edit start is out of bounds")

	// ErrOverlappingEdits indicates two resolved edits whose ranges intersect.
	ErrOverlappingEdits = errors.New("overlapping edits")
)

// ValidationError describes a rejected edit.
type ValidationError struct {
	// Index is the position of the edit in the Fix.
	Index int

	// Edit is the rejected edit.
	Edit Edit

	// Err is the sentinel describing the rejection.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("edit %d (%s %s): %v", e.Index, e.Edit.Operation, e.Edit.Range, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConflictError describes overlapping edits.
type ConflictError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

func (e *ConflictError) Unwrap() error {
	return ErrOverlappingEdits
}

// Resolution is the outcome of validating a single edit.
type Resolution struct {
	// Edit is the edit resolved to offsets in the original snapshot.
	Edit TextEdit

	// Clamped is true if a coordinate was replaced by the document end.
	Clamped bool
}

// Validate resolves an edit against a snapshot.
//
// Rules, in order:
//  1. Unrecognized operations return ErrUnrecognizedOperation.
//  2. Unordered ranges and negative coordinates return ErrMalformedRange.
//  3. An out-of-bounds start is clamped to the document end for Add and
//     returns ErrUnanchorableEdit for Remove and Update.
//  4. An out-of-bounds end is always clamped to the document end.
//
// Add resolves to a zero-width insertion at the start offset.
func Validate(snap *document.Snapshot, edit Edit) (Resolution, error) {
	if edit.Operation == OperationUnrecognized {
		return Resolution{}, ErrUnrecognizedOperation
	}

	if !edit.Range.IsValid() {
		return Resolution{}, ErrMalformedRange
	}

	start, startInBounds := snap.ToOffset(edit.Range.Start)
	if !startInBounds && edit.Operation != OperationAdd {
		return Resolution{}, ErrUnanchorableEdit
	}

	if edit.Operation == OperationAdd {
		return Resolution{
			Edit:    TextEdit{StartOffset: start, EndOffset: start, NewText: edit.Content},
			Clamped: !startInBounds,
		}, nil
	}

	end, endInBounds := snap.ToOffset(edit.Range.End)
	// Column 0 and column 1 share an offset, so an ordered range can still
	// resolve end before start only when both sit on that boundary.
	end = max(end, start)

	resolved := TextEdit{StartOffset: start, EndOffset: end}
	if edit.Operation == OperationUpdate {
		resolved.NewText = edit.Content
	}

	return Resolution{Edit: resolved, Clamped: !endInBounds}, nil
}

// ValidateEdits checks that all edits have valid ranges for the given content length.
// Returns nil if all edits are valid, or the first validation error encountered.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for idx, edit := range edits {
		if edit.StartOffset < 0 || edit.EndOffset < edit.StartOffset || edit.EndOffset > contentLen {
			return fmt.Errorf("edit %d [%d:%d] outside content length %d: %w",
				idx, edit.StartOffset, edit.EndOffset, contentLen, ErrMalformedRange)
		}
	}
	return nil
}

// SortEdits sorts edits by start offset, then by end offset.
// Edits with equal ranges keep their original relative order.
func SortEdits(edits []TextEdit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].StartOffset != edits[j].StartOffset {
			return edits[i].StartOffset < edits[j].StartOffset
		}
		return edits[i].EndOffset < edits[j].EndOffset
	})
}

// DetectConflicts checks for overlapping edits in a sorted slice.
// Returns nil if no conflicts, or the first conflict found.
// Edits must be sorted by SortEdits before calling.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		prev := edits[i-1]
		curr := edits[i]
		// Overlap if current starts before previous ends.
		if curr.StartOffset < prev.EndOffset {
			return &ConflictError{Edit1: prev, Edit2: curr}
		}
	}
	return nil
}

// canMerge checks if two overlapping edits can be safely merged.
// Only pure deletions (empty NewText) can be merged.
func canMerge(a, b TextEdit) bool {
	return a.NewText == "" && b.NewText == ""
}

// mergeEdits merges two overlapping deletion edits into one covering the
// union of both ranges.
func mergeEdits(a, b TextEdit) TextEdit {
	return TextEdit{
		StartOffset: min(a.StartOffset, b.StartOffset),
		EndOffset:   max(a.EndOffset, b.EndOffset),
		NewText:     "",
	}
}

// MergeDeletions merges overlapping pure deletions in a sorted slice and
// reports the first overlap that cannot be merged.
// Returns the merged edits and the number of merges performed.
// Edits must be sorted by SortEdits before calling.
func MergeDeletions(edits []TextEdit) ([]TextEdit, int, error) {
	if len(edits) == 0 {
		return nil, 0, nil
	}

	accepted := make([]TextEdit, 0, len(edits))
	merged := 0
	current := edits[0]

	for _, edit := range edits[1:] {
		if edit.StartOffset >= current.EndOffset {
			accepted = append(accepted, current)
			current = edit
			continue
		}
		if !canMerge(current, edit) {
			return nil, merged, &ConflictError{Edit1: current, Edit2: edit}
		}
		current = mergeEdits(current, edit)
		merged++
	}

	accepted = append(accepted, current)
	return accepted, merged, nil
}
