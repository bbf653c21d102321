package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/quickfix/internal/ui/pretty"
	"github.com/yaklabco/quickfix/pkg/document"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/fsutil"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/runner"
	"github.com/yaklabco/quickfix/pkg/suppress"
)

func TestFormatOutcome(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	location := document.Position{Line: 3, Column: 7}

	tests := []struct {
		name     string
		outcome  runner.TaskOutcome
		contains []string
		excludes []string
	}{
		{
			name: "applied fix",
			outcome: runner.TaskOutcome{
				Location:    location,
				Action:      runner.ActionFix,
				Description: "use const",
				Diff:        &fix.Diff{Additions: 1},
				Written:     true,
			},
			contains: []string{"main.js:3:7", "applied", "fix", "use const"},
			excludes: []string{"Reason:"},
		},
		{
			name: "rejected suppression",
			outcome: runner.TaskOutcome{
				Location:    location,
				Action:      runner.ActionSuppress,
				Description: "js/no-eval",
				Outcome:     quickfix.Outcome{Err: suppress.ErrRowOutOfRange},
			},
			contains: []string{"rejected", "suppress", "js/no-eval", "(row-out-of-range)", "Reason: violation line"},
		},
		{
			name: "open error",
			outcome: runner.TaskOutcome{
				Action: runner.ActionFix,
				Error:  fsutil.ErrNotFound,
			},
			contains: []string{"  main.js  error", "Reason: file not found"},
			excludes: []string{"main.js:", "(other)"},
		},
		{
			name:     "planned without description",
			outcome:  runner.TaskOutcome{Location: location, Action: runner.ActionFix, Diff: &fix.Diff{}},
			contains: []string{"planned  fix  fix"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := styles.FormatOutcome(tt.outcome, "main.js")
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestFormatKind(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "(overlapping-edits)", styles.FormatKind(quickfix.KindOverlappingEdits))
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	assert.Equal(t, "a.py (1 task)", styles.FormatFileHeader("a.py", 1))
	assert.Equal(t, "a.py (2 tasks)", styles.FormatFileHeader("a.py", 2))
	assert.Equal(t, "a.py", styles.FormatFileHeader("a.py", 0))
}
