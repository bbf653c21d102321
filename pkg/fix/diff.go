package fix

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of context lines to show around changes.
const contextLines = 3

// Diff is a unified diff between the original and patched document text.
type Diff struct {
	// Path is the document path used in the diff headers.
	Path string

	// Text is the rendered unified diff, without a git header.
	Text string

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// GenerateDiff creates a unified diff between original and modified text.
// Returns nil if the texts are identical.
func GenerateDiff(path, original, modified string) (*Diff, error) {
	if original == modified {
		return nil, nil
	}

	origLines := difflib.SplitLines(original)
	modLines := difflib.SplitLines(modified)

	path = strings.TrimPrefix(path, "/")
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        origLines,
		B:        modLines,
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  contextLines,
	})
	if err != nil {
		return nil, fmt.Errorf("render diff: %w", err)
	}

	diff := &Diff{Path: path, Text: text}

	matcher := difflib.NewMatcher(origLines, modLines)
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'r':
			diff.Deletions += op.I2 - op.I1
			diff.Additions += op.J2 - op.J1
		case 'd':
			diff.Deletions += op.I2 - op.I1
		case 'i':
			diff.Additions += op.J2 - op.J1
		}
	}

	return diff, nil
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("diff --git a/%s b/%s", d.Path, d.Path)
}

// String returns the diff in unified diff format (without the git header).
func (d *Diff) String() string {
	if d == nil {
		return ""
	}
	return d.Text
}

// FullString returns the complete diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.Text
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && d.Text != ""
}
