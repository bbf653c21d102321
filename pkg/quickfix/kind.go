package quickfix

import (
	"errors"

	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/language"
	"github.com/yaklabco/quickfix/pkg/suppress"
)

// ErrHostMutation wraps any error returned by host.Document.ReplaceText.
var ErrHostMutation = errors.New("host mutation failed")

// Kind classifies why an operation did not apply.
type Kind int

const (
	// KindNone means no error.
	KindNone Kind = iota

	// KindMalformedRange is an edit with an unordered range or a negative
	// coordinate.
	KindMalformedRange

	// KindUnanchorableEdit is a remove or update that starts outside the
	// document.
	KindUnanchorableEdit

	// KindOverlappingEdits is a Fix whose resolved edits intersect.
	KindOverlappingEdits

	// KindUnsupportedLanguage is a suppression for a language without a
	// line comment token.
	KindUnsupportedLanguage

	// KindRowOutOfRange is a suppression whose line is outside the document.
	KindRowOutOfRange

	// KindHostMutationFailure is a rejected text replacement.
	KindHostMutationFailure

	// KindOther is any error not covered above, e.g. a cancelled context.
	KindOther
)

// String returns a short, stable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMalformedRange:
		return "malformed-range"
	case KindUnanchorableEdit:
		return "unanchorable-edit"
	case KindOverlappingEdits:
		return "overlapping-edits"
	case KindUnsupportedLanguage:
		return "unsupported-language"
	case KindRowOutOfRange:
		return "row-out-of-range"
	case KindHostMutationFailure:
		return "host-mutation-failure"
	default:
		return "other"
	}
}

// Classify maps an error returned by the engine to its Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrHostMutation):
		return KindHostMutationFailure
	case errors.Is(err, fix.ErrMalformedRange):
		return KindMalformedRange
	case errors.Is(err, fix.ErrUnanchorableEdit):
		return KindUnanchorableEdit
	case errors.Is(err, fix.ErrOverlappingEdits):
		return KindOverlappingEdits
	case errors.Is(err, language.ErrUnsupported):
		return KindUnsupportedLanguage
	case errors.Is(err, suppress.ErrRowOutOfRange):
		return KindRowOutOfRange
	default:
		return KindOther
	}
}
