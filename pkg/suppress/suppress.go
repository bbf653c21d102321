// Package suppress inserts suppression comments that silence a single
// violation in place.
//
// A suppression comment is a new line, placed immediately before the line
// of the violation and carrying that line's indentation, of the form
//
//	<indent><comment token> codiga-disable
package suppress

import (
	"errors"
	"fmt"

	"github.com/yaklabco/quickfix/pkg/document"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/language"
)

// DefaultMarker is the directive the analysis engine recognises.
const DefaultMarker = "codiga-disable"

// ErrRowOutOfRange indicates a violation that starts outside the document.
var ErrRowOutOfRange = errors.New("violation line is outside the document")

// Violation is a single flagged range in a document.
type Violation struct {
	// Range is where the violation was reported.
	Range document.Range

	// RuleIdentifier names the rule that fired. It is carried through for
	// logging and is not written into the comment.
	RuleIdentifier string

	// Language is the language of the document.
	Language language.Tag
}

// CommentLine builds the suppression line text, without a terminator.
func CommentLine(indent, token, marker string) string {
	return indent + token + " " + marker
}

// Insert returns the document text with a suppression comment inserted as a
// new line immediately before the line containing the violation start.
// No other line is modified.
func Insert(snap *document.Snapshot, v Violation, token string) (string, error) {
	return insert(snap, v, token, DefaultMarker)
}

func insert(snap *document.Snapshot, v Violation, token, marker string) (string, error) {
	row := v.Range.Start.Line - 1
	line, ok := snap.Line(row)
	if !ok {
		return snap.Content, fmt.Errorf("%w: line %d of %d", ErrRowOutOfRange, v.Range.Start.Line, snap.LineCount())
	}

	text := CommentLine(snap.Indentation(row), token, marker) + snap.LineEnding(row)

	builder := fix.NewEditBuilder()
	builder.Insert(line.StartOffset, text)

	return fix.ApplyEdits(snap.Content, builder.Edits), nil
}

// Inserter resolves comment tokens and inserts suppression comments.
type Inserter struct {
	resolver *language.Resolver
	marker   string
}

// NewInserter creates an Inserter. A nil resolver uses the built-in table and
// an empty marker uses DefaultMarker.
func NewInserter(resolver *language.Resolver, marker string) *Inserter {
	if resolver == nil {
		resolver = language.DefaultResolver()
	}
	if marker == "" {
		marker = DefaultMarker
	}
	return &Inserter{resolver: resolver, marker: marker}
}

// Marker returns the directive written after the comment token.
func (i *Inserter) Marker() string {
	return i.marker
}

// Apply inserts a suppression comment for v. When the language has no comment
// token the original text is returned with an error wrapping
// language.ErrUnsupported, so nothing malformed is ever written.
func (i *Inserter) Apply(snap *document.Snapshot, v Violation) (string, error) {
	token, err := i.resolver.CommentToken(v.Language)
	if err != nil {
		return snap.Content, err
	}
	return insert(snap, v, token, i.marker)
}
