// Package quickfix applies fixes and suppression comments to host documents.
//
// Every operation reads the document text once, computes the complete new
// text from that snapshot, and hands it back to the host in a single
// replacement. Rejections leave the document untouched and are reported in
// the Outcome, never as a panic.
package quickfix

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/document"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/host"
	"github.com/yaklabco/quickfix/pkg/language"
	"github.com/yaklabco/quickfix/pkg/suppress"
)

// Options configures an Engine.
type Options struct {
	// Resolver maps languages to comment tokens.
	// Nil uses language.DefaultResolver.
	Resolver *language.Resolver

	// Marker is the suppression directive. Empty uses suppress.DefaultMarker.
	Marker string

	// Conflicts is the policy for overlapping edits. Empty rejects them.
	Conflicts fix.ConflictPolicy
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Resolver:  language.DefaultResolver(),
		Marker:    suppress.DefaultMarker,
		Conflicts: fix.ConflictReject,
	}
}

// Engine applies fixes and suppressions. It holds no per-document state and
// is safe for concurrent use.
type Engine struct {
	inserter *suppress.Inserter
	fixOpts  fix.Options
}

// New creates an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Conflicts == "" {
		opts.Conflicts = fix.ConflictReject
	}
	if !opts.Conflicts.IsValid() {
		return nil, fmt.Errorf("unknown conflict policy %q", opts.Conflicts)
	}

	return &Engine{
		inserter: suppress.NewInserter(opts.Resolver, opts.Marker),
		fixOpts:  fix.Options{Conflicts: opts.Conflicts},
	}, nil
}

// Outcome reports what an operation did.
type Outcome struct {
	// Applied is true if the host accepted a new text.
	Applied bool

	// Original is the text the operation was computed from.
	Original string

	// Text is the computed text. It equals Original when nothing changed or
	// the operation was rejected.
	Text string

	// Result describes how a Fix resolved. Nil for suppressions and rejected
	// fixes.
	Result *fix.Result

	// Err is the rejection or host error, if any.
	Err error
}

// Kind classifies Err.
func (o Outcome) Kind() Kind {
	return Classify(o.Err)
}

// Changed reports whether the computed text differs from the original.
func (o Outcome) Changed() bool {
	return o.Err == nil && o.Text != o.Original
}

// PlanFix computes the result of applying f to text without mutating
// anything.
func (e *Engine) PlanFix(ctx context.Context, text string, f fix.Fix) Outcome {
	logger := logging.FromContext(ctx)

	snap := document.NewSnapshot(text)
	newText, result, err := fix.Apply(snap, f, e.fixOpts)
	if err != nil {
		keyvals := []any{
			logging.FieldDescription, f.Description,
			logging.FieldEdits, len(f.Edits),
			logging.FieldKind, Classify(err),
			logging.FieldError, err,
		}
		var conflict *fix.ConflictError
		if errors.As(err, &conflict) {
			keyvals = append(keyvals, logging.FieldRange, overlapSpan(snap, conflict))
		}
		logger.Debug("fix rejected", keyvals...)
		return Outcome{Original: text, Text: text, Err: err}
	}

	logger.Debug("fix resolved",
		logging.FieldDescription, f.Description,
		logging.FieldEdits, len(result.Edits),
		logging.FieldDropped, result.Dropped,
		logging.FieldClamped, result.Clamped,
		logging.FieldMerged, result.Merged)

	return Outcome{Original: text, Text: newText, Result: result}
}

// overlapSpan returns the region shared by two conflicting edits. The
// second edit never starts before the first.
func overlapSpan(snap *document.Snapshot, conflict *fix.ConflictError) document.Range {
	return document.Range{
		Start: snap.LineAt(conflict.Edit2.StartOffset),
		End:   snap.LineAt(min(conflict.Edit1.EndOffset, conflict.Edit2.EndOffset)),
	}
}

// ApplyFix applies f to doc. The host is called at most once, and only when
// the text changes.
func (e *Engine) ApplyFix(ctx context.Context, doc host.Document, f fix.Fix) Outcome {
	return e.commit(ctx, doc, e.PlanFix(ctx, doc.Text(), f))
}

// PlanSuppression computes the result of suppressing v in text without
// mutating anything.
func (e *Engine) PlanSuppression(ctx context.Context, text string, v suppress.Violation) Outcome {
	logger := logging.FromContext(ctx)

	snap := document.NewSnapshot(text)
	newText, err := e.inserter.Apply(snap, v)
	if err != nil {
		logger.Debug("suppression rejected",
			logging.FieldRule, v.RuleIdentifier,
			logging.FieldLanguage, v.Language,
			logging.FieldLine, v.Range.Start.Line,
			logging.FieldKind, Classify(err),
			logging.FieldError, err)
		return Outcome{Original: text, Text: text, Err: err}
	}

	logger.Debug("suppression resolved",
		logging.FieldRule, v.RuleIdentifier,
		logging.FieldLanguage, v.Language,
		logging.FieldLine, v.Range.Start.Line,
		logging.FieldMarker, e.inserter.Marker())

	return Outcome{Original: text, Text: newText}
}

// Suppress inserts a suppression comment for v into doc.
func (e *Engine) Suppress(ctx context.Context, doc host.Document, v suppress.Violation) Outcome {
	return e.commit(ctx, doc, e.PlanSuppression(ctx, doc.Text(), v))
}

func (e *Engine) commit(ctx context.Context, doc host.Document, out Outcome) Outcome {
	if !out.Changed() {
		return out
	}

	if err := doc.ReplaceText(ctx, out.Text); err != nil {
		logging.FromContext(ctx).Debug("host rejected replacement", logging.FieldError, err)
		out.Err = fmt.Errorf("%w: %w", ErrHostMutation, err)
		out.Text = out.Original
		return out
	}

	out.Applied = true
	return out
}
