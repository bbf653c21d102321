package fix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/quickfix/pkg/document"
)

// ConflictPolicy controls how overlapping resolved edits are handled.
type ConflictPolicy string

const (
	// ConflictReject rejects the whole Fix when any two edits overlap.
	ConflictReject ConflictPolicy = "reject"

	// ConflictMergeDeletions merges overlapping pure deletions into their
	// union and rejects the Fix on any other overlap.
	ConflictMergeDeletions ConflictPolicy = "merge-deletions"
)

// IsValid returns true if the policy is known.
func (p ConflictPolicy) IsValid() bool {
	switch p {
	case ConflictReject, ConflictMergeDeletions:
		return true
	default:
		return false
	}
}

// Options controls how a Fix is resolved.
type Options struct {
	// Conflicts is the overlap policy. The zero value means ConflictReject.
	Conflicts ConflictPolicy
}

// Result describes how a Fix resolved against a snapshot.
type Result struct {
	// Edits are the resolved edits, sorted by start offset.
	Edits []TextEdit

	// Dropped counts edits skipped for having an unrecognized operation.
	Dropped int

	// Clamped counts edits with a coordinate clamped to the document end.
	Clamped int

	// Merged counts overlapping deletions folded into a neighbour.
	Merged int
}

// Resolve validates every edit of a Fix against a snapshot and returns the
// sorted, conflict-free edits ready for ApplyEdits.
//
// Unrecognized edits are dropped. Any other rejection rejects the whole Fix:
// the returned error is a *ValidationError or a *ConflictError.
func Resolve(snap *document.Snapshot, f Fix, opts Options) (*Result, error) {
	result := &Result{
		Edits: make([]TextEdit, 0, len(f.Edits)),
	}

	for idx, edit := range f.Edits {
		resolution, err := Validate(snap, edit)
		if errors.Is(err, ErrUnrecognizedOperation) {
			result.Dropped++
			continue
		}
		if err != nil {
			return nil, &ValidationError{Index: idx, Edit: edit, Err: err}
		}
		if resolution.Clamped {
			result.Clamped++
		}
		result.Edits = append(result.Edits, resolution.Edit)
	}

	if err := ValidateEdits(result.Edits, snap.Len()); err != nil {
		return nil, err
	}

	SortEdits(result.Edits)

	switch opts.Conflicts {
	case ConflictMergeDeletions:
		merged, count, err := MergeDeletions(result.Edits)
		if err != nil {
			return nil, err
		}
		result.Edits = merged
		result.Merged = count
	case ConflictReject, "":
		if err := DetectConflicts(result.Edits); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown conflict policy %q", opts.Conflicts)
	}

	return result, nil
}

// Apply resolves a Fix and applies it to the snapshot in one pass.
// On rejection the original content is returned together with the error.
func Apply(snap *document.Snapshot, f Fix, opts Options) (string, *Result, error) {
	result, err := Resolve(snap, f, opts)
	if err != nil {
		return snap.Content, nil, err
	}
	return ApplyEdits(snap.Content, result.Edits), result, nil
}

// ApplyEdits applies a sorted, validated slice of edits to content.
// All offsets refer to the original content, so edits never observe each
// other's effects.
func ApplyEdits(content string, edits []TextEdit) string {
	if len(edits) == 0 {
		return content
	}

	// Estimate result size.
	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	var out strings.Builder
	out.Grow(max(len(content)+delta, 0))

	cursor := 0
	for _, e := range edits {
		// Copy content before this edit.
		out.WriteString(content[cursor:e.StartOffset])
		// Write replacement text.
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	// Copy remaining content.
	out.WriteString(content[cursor:])

	return out.String()
}
