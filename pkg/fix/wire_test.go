package fix_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/document"
	"github.com/yaklabco/quickfix/pkg/fix"
)

func TestParseFix(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"description": "Use a constant",
		"edits": [
			{"content": "Text added", "editType": "add", "start": {"line": 1, "col": 5}, "end": {"line": 1, "col": 10}},
			{"content": "", "editType": "remove", "start": {"line": 2, "col": 1}, "end": {"line": 3, "col": 1}},
			{"content": "x", "editType": "rewrite", "start": {"line": 0, "col": -1}, "end": {"line": 0, "col": 0}}
		]
	}`)

	got, err := fix.ParseFix(data)
	require.NoError(t, err)

	assert.Equal(t, "Use a constant", got.Description)
	require.Len(t, got.Edits, 3)

	assert.Equal(t, fix.Edit{
		Content:   "Text added",
		Operation: fix.OperationAdd,
		Range:     document.Range{Start: pos(1, 5), End: pos(1, 10)},
	}, got.Edits[0])
	assert.Equal(t, fix.OperationRemove, got.Edits[1].Operation)
	assert.Equal(t, fix.OperationUnrecognized, got.Edits[2].Operation)
	assert.Equal(t, pos(0, -1), got.Edits[2].Range.Start)
}

func TestDecodeFix(t *testing.T) {
	t.Parallel()

	r := strings.NewReader(`{"description":"d","edits":[{"content":"Replacement","editType":"update","start":{"line":7,"col":1},"end":{"line":7,"col":50}}]}`)

	f, err := fix.DecodeFix(r)
	require.NoError(t, err)

	got, _, err := fix.Apply(document.NewSnapshot(duck), f, fix.Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, "}\nReplacement"))
}

func TestParseFix_Invalid(t *testing.T) {
	t.Parallel()

	_, err := fix.ParseFix([]byte(`{"edits": "nope"}`))
	assert.Error(t, err)
}
