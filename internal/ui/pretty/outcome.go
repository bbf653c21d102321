package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/runner"
)

// FormatOutcome formats a single task outcome for terminal output.
// Path is the display path of the task's file.
func (s *Styles) FormatOutcome(outcome runner.TaskOutcome, path string) string {
	var builder strings.Builder

	// Location: path:line:col
	location := s.FilePath.Render(path)
	if outcome.Location.Line > 0 {
		location += s.Location.Render(fmt.Sprintf(":%d:%d", outcome.Location.Line, outcome.Location.Column))
	}

	description := outcome.Description
	if description == "" {
		description = string(outcome.Action)
	}

	// Main line: location  status  action  description  (kind)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s",
		location,
		s.FormatStatus(outcome.Status()),
		s.Action.Render(string(outcome.Action)),
		s.Message.Render(description),
	))
	if outcome.Error == nil && outcome.Outcome.Err != nil {
		builder.WriteString("  " + s.FormatKind(outcome.Outcome.Kind()))
	}
	builder.WriteString("\n")

	if err := outcome.Err(); err != nil {
		builder.WriteString("    " + s.Dim.Render("Reason:") + " " + s.Reason.Render(err.Error()) + "\n")
	}

	return builder.String()
}

// FormatStatus returns a styled status string.
func (s *Styles) FormatStatus(status runner.Status) string {
	switch status {
	case runner.StatusApplied:
		return s.Success.Render(string(status))
	case runner.StatusPlanned:
		return s.Info.Render(string(status))
	case runner.StatusRejected:
		return s.Warning.Render(string(status))
	case runner.StatusError:
		return s.Error.Render(string(status))
	default:
		return s.Dim.Render(string(status))
	}
}

// FormatKind returns a styled rejection kind, e.g. "(overlapping-edits)".
func (s *Styles) FormatKind(kind quickfix.Kind) string {
	return s.Kind.Render("(" + kind.String() + ")")
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, taskCount int) string {
	header := s.FilePath.Render(path)
	if taskCount > 0 {
		word := "tasks"
		if taskCount == 1 {
			word = "task"
		}
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", taskCount, word))
	}
	return header
}
