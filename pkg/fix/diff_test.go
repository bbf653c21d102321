package fix_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/fix"
)

func TestGenerateDiff_NoChanges(t *testing.T) {
	t.Parallel()

	diff, err := fix.GenerateDiff("main.py", "x = 1\n", "x = 1\n")
	require.NoError(t, err)
	assert.Nil(t, diff)
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.FullString())
}

func TestGenerateDiff_InsertedLine(t *testing.T) {
	t.Parallel()

	original := "def f():\n    return 1\n"
	modified := "def f():\n    # codiga-disable\n    return 1\n"

	diff, err := fix.GenerateDiff("/src/main.py", original, modified)
	require.NoError(t, err)
	require.NotNil(t, diff)

	assert.True(t, diff.HasChanges())
	assert.Equal(t, "src/main.py", diff.Path)
	assert.Equal(t, 1, diff.Additions)
	assert.Equal(t, 0, diff.Deletions)
	assert.Contains(t, diff.String(), "--- a/src/main.py")
	assert.Contains(t, diff.String(), "+++ b/src/main.py")
	assert.Contains(t, diff.String(), "+    # codiga-disable\n")
	assert.True(t, strings.HasPrefix(diff.FullString(), "diff --git a/src/main.py b/src/main.py\n"))
}

func TestGenerateDiff_Replacement(t *testing.T) {
	t.Parallel()

	diff, err := fix.GenerateDiff("a.txt", "a\nb\nc\n", "a\nx\ny\nc\n")
	require.NoError(t, err)
	require.NotNil(t, diff)

	assert.Equal(t, 2, diff.Additions)
	assert.Equal(t, 1, diff.Deletions)
	assert.Contains(t, diff.String(), "-b\n")
	assert.Contains(t, diff.String(), "+x\n")
	assert.Contains(t, diff.String(), "+y\n")
}

func TestGenerateDiff_Deletion(t *testing.T) {
	t.Parallel()

	diff, err := fix.GenerateDiff("a.txt", "keep\ndrop\n", "keep\n")
	require.NoError(t, err)
	require.NotNil(t, diff)

	assert.Equal(t, 0, diff.Additions)
	assert.Equal(t, 1, diff.Deletions)
}
