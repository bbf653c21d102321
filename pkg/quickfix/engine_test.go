package quickfix_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/document"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/host"
	"github.com/yaklabco/quickfix/pkg/language"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/suppress"
)

const duck = "class Duck {\n" +
	"  private _size: number;\n" +
	"  constructor(size: number) {\n" +
	"    this._size = size;\n" +
	"  }\n" +
	"}\n" +
	"const x = 6;"

func rng(startLine, startCol, endLine, endCol int) document.Range {
	return document.Range{
		Start: document.Position{Line: startLine, Column: startCol},
		End:   document.Position{Line: endLine, Column: endCol},
	}
}

func newEngine(t *testing.T, opts quickfix.Options) *quickfix.Engine {
	t.Helper()
	engine, err := quickfix.New(opts)
	require.NoError(t, err)
	return engine
}

// recordingDocument counts replacements and can be made to fail.
type recordingDocument struct {
	mu    sync.Mutex
	text  string
	calls int
	err   error
}

func (d *recordingDocument) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

func (d *recordingDocument) ReplaceText(_ context.Context, newText string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.err != nil {
		return d.err
	}
	d.text = newText
	return nil
}

func TestEngine_ApplyFix(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, quickfix.DefaultOptions())
	doc := &recordingDocument{text: duck}

	out := engine.ApplyFix(context.Background(), doc, fix.Fix{
		Description: "remove modifier",
		Edits: []fix.Edit{
			{Operation: fix.OperationRemove, Range: rng(2, 3, 2, 11)},
			{Operation: fix.OperationUpdate, Content: "y", Range: rng(7, 7, 7, 8)},
		},
	})

	require.NoError(t, out.Err)
	assert.True(t, out.Applied)
	assert.Equal(t, quickfix.KindNone, out.Kind())
	assert.Equal(t, 1, doc.calls)
	assert.Equal(t, duck, out.Original)

	want := strings.Replace(duck, "  private _size", "  _size", 1)
	want = strings.Replace(want, "const x", "const y", 1)
	assert.Equal(t, want, doc.text)
	assert.Equal(t, want, out.Text)
	require.NotNil(t, out.Result)
	assert.Len(t, out.Result.Edits, 2)
}

func TestEngine_ApplyFix_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edits []fix.Edit
		kind  quickfix.Kind
	}{
		{
			name:  "unordered range",
			edits: []fix.Edit{{Operation: fix.OperationRemove, Range: rng(3, 1, 2, 1)}},
			kind:  quickfix.KindMalformedRange,
		},
		{
			name:  "negative column",
			edits: []fix.Edit{{Operation: fix.OperationUpdate, Content: "x", Range: rng(1, -1, 1, 3)}},
			kind:  quickfix.KindMalformedRange,
		},
		{
			name:  "remove past the end",
			edits: []fix.Edit{{Operation: fix.OperationRemove, Range: rng(40, 1, 41, 1)}},
			kind:  quickfix.KindUnanchorableEdit,
		},
		{
			name: "overlap",
			edits: []fix.Edit{
				{Operation: fix.OperationRemove, Range: rng(1, 1, 1, 8)},
				{Operation: fix.OperationUpdate, Content: "Goose", Range: rng(1, 7, 1, 11)},
			},
			kind: quickfix.KindOverlappingEdits,
		},
		{
			name: "one bad edit rejects the batch",
			edits: []fix.Edit{
				{Operation: fix.OperationAdd, Content: "// ok\n", Range: rng(1, 1, 1, 1)},
				{Operation: fix.OperationRemove, Range: rng(2, 5, 2, 2)},
			},
			kind: quickfix.KindMalformedRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engine := newEngine(t, quickfix.Options{})
			doc := &recordingDocument{text: duck}

			out := engine.ApplyFix(context.Background(), doc, fix.Fix{Edits: tt.edits})

			require.Error(t, out.Err)
			assert.Equal(t, tt.kind, out.Kind())
			assert.False(t, out.Applied)
			assert.Zero(t, doc.calls, "host must not be called on rejection")
			assert.Equal(t, duck, doc.text)
			assert.Equal(t, duck, out.Text)
			assert.Nil(t, out.Result)
		})
	}
}

func TestEngine_ApplyFix_NoChange(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, quickfix.Options{})

	tests := []struct {
		name  string
		edits []fix.Edit
	}{
		{name: "empty fix"},
		{
			name:  "only unrecognized edits",
			edits: []fix.Edit{{Operation: fix.OperationUnrecognized, Content: "x", Range: rng(1, 1, 1, 1)}},
		},
		{
			name:  "update with identical text",
			edits: []fix.Edit{{Operation: fix.OperationUpdate, Content: "Duck", Range: rng(1, 7, 1, 11)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := &recordingDocument{text: duck}
			out := engine.ApplyFix(context.Background(), doc, fix.Fix{Edits: tt.edits})

			require.NoError(t, out.Err)
			assert.False(t, out.Applied)
			assert.False(t, out.Changed())
			assert.Zero(t, doc.calls)
		})
	}
}

func TestEngine_HostMutationFailure(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, quickfix.Options{})
	hostErr := errors.New("buffer is read-only")
	doc := &recordingDocument{text: duck, err: hostErr}

	out := engine.ApplyFix(context.Background(), doc, fix.Fix{
		Edits: []fix.Edit{{Operation: fix.OperationAdd, Content: "// x\n", Range: rng(1, 1, 1, 1)}},
	})

	require.ErrorIs(t, out.Err, quickfix.ErrHostMutation)
	require.ErrorIs(t, out.Err, hostErr)
	assert.Equal(t, quickfix.KindHostMutationFailure, out.Kind())
	assert.False(t, out.Applied)
	assert.Equal(t, duck, out.Text)
	assert.Equal(t, 1, doc.calls, "no retry after a host failure")
}

func TestEngine_ClosedMemoryDocument(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, quickfix.Options{})
	doc := host.NewMemoryDocument("x = 1\n")
	doc.Close()

	out := engine.Suppress(context.Background(), doc, suppress.Violation{
		Range:    rng(1, 1, 1, 5),
		Language: language.TagPython,
	})

	require.ErrorIs(t, out.Err, host.ErrClosed)
	assert.Equal(t, quickfix.KindHostMutationFailure, out.Kind())
	assert.Equal(t, "x = 1\n", doc.Text())
}

func TestEngine_Suppress(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, quickfix.DefaultOptions())
	doc := host.NewMemoryDocument("def f():\n    eval(x)\n    return 1\n")

	out := engine.Suppress(context.Background(), doc, suppress.Violation{
		Range:          rng(2, 5, 2, 12),
		RuleIdentifier: "python-security/no-eval",
		Language:       language.TagPython,
	})

	require.NoError(t, out.Err)
	assert.True(t, out.Applied)
	assert.Equal(t, "def f():\n    # codiga-disable\n    eval(x)\n    return 1\n", doc.Text())
	assert.NotContains(t, doc.Text(), "no-eval")
	assert.Nil(t, out.Result)
	assert.Equal(t, 1, doc.Replacements())
}

func TestEngine_Suppress_Rejections(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, quickfix.Options{})

	tests := []struct {
		name string
		v    suppress.Violation
		kind quickfix.Kind
	}{
		{
			name: "unsupported language",
			v:    suppress.Violation{Range: rng(1, 1, 1, 2), Language: language.Tag("cobol")},
			kind: quickfix.KindUnsupportedLanguage,
		},
		{
			name: "unknown language",
			v:    suppress.Violation{Range: rng(1, 1, 1, 2)},
			kind: quickfix.KindUnsupportedLanguage,
		},
		{
			name: "line past the end",
			v:    suppress.Violation{Range: rng(9, 1, 9, 2), Language: language.TagGo},
			kind: quickfix.KindRowOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := &recordingDocument{text: "package main\n"}
			out := engine.Suppress(context.Background(), doc, tt.v)

			assert.Equal(t, tt.kind, out.Kind())
			assert.Zero(t, doc.calls)
			assert.Equal(t, "package main\n", doc.text)
		})
	}
}

func TestEngine_Options(t *testing.T) {
	t.Parallel()

	resolver, err := language.NewResolver(map[string]string{"sql": "#"})
	require.NoError(t, err)

	engine := newEngine(t, quickfix.Options{Resolver: resolver, Marker: "nolint"})
	out := engine.PlanSuppression(context.Background(), "select 1;\n", suppress.Violation{
		Range:    rng(1, 1, 1, 7),
		Language: language.TagSQL,
	})
	require.NoError(t, out.Err)
	assert.Equal(t, "# nolint\nselect 1;\n", out.Text)
	assert.False(t, out.Applied)

	_, err = quickfix.New(quickfix.Options{Conflicts: "last-wins"})
	require.Error(t, err)
}

func TestEngine_MergeDeletions(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, quickfix.Options{Conflicts: fix.ConflictMergeDeletions})
	out := engine.PlanFix(context.Background(), "abcdefgh", fix.Fix{Edits: []fix.Edit{
		{Operation: fix.OperationRemove, Range: rng(1, 2, 1, 5)},
		{Operation: fix.OperationRemove, Range: rng(1, 4, 1, 7)},
	}})

	require.NoError(t, out.Err)
	assert.Equal(t, "agh", out.Text)
	assert.Equal(t, 1, out.Result.Merged)
}

func TestEngine_DebugLogging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, "debug"))

	engine := newEngine(t, quickfix.Options{})
	engine.PlanFix(ctx, duck, fix.Fix{
		Description: "broken",
		Edits:       []fix.Edit{{Operation: fix.OperationRemove, Range: rng(2, 1, 1, 1)}},
	})

	assert.Contains(t, buf.String(), "fix rejected")
	assert.Contains(t, buf.String(), "malformed-range")
}

func TestEngine_DebugLogging_OverlapPosition(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), logging.NewWithWriter(&buf, "debug"))

	engine := newEngine(t, quickfix.Options{})
	out := engine.PlanFix(ctx, "héllo wörld\n", fix.Fix{Edits: []fix.Edit{
		{Operation: fix.OperationRemove, Range: rng(1, 2, 1, 6)},
		{Operation: fix.OperationUpdate, Range: rng(1, 4, 1, 9), Content: "x"},
	}})

	require.ErrorIs(t, out.Err, fix.ErrOverlappingEdits)
	assert.Contains(t, buf.String(), "fix rejected")
	assert.Contains(t, buf.String(), "1:4-1:6")
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.Equal(t, quickfix.KindNone, quickfix.Classify(nil))
	assert.Equal(t, quickfix.KindOther, quickfix.Classify(context.Canceled))
	assert.Equal(t, quickfix.KindOverlappingEdits, quickfix.Classify(&fix.ConflictError{}))
	assert.Equal(t, "host-mutation-failure", quickfix.KindHostMutationFailure.String())
}
