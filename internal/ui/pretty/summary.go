package pretty

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/quickfix/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 tasks: 2 applied in 2 files, 1 rejected (1 unanchorable-edit)".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.Tasks == 0 {
		return s.Success.Render("No tasks to apply") + "\n"
	}

	taskWord := "tasks"
	if stats.Tasks == 1 {
		taskWord = "task"
	}

	var parts []string

	if stats.Changed > 0 {
		if stats.DryRun {
			parts = append(parts, s.Info.Render(fmt.Sprintf("%d would apply", stats.Changed)))
		} else {
			fileWord := wordFiles
			if stats.FilesModified == 1 {
				fileWord = wordFile
			}
			parts = append(parts, s.Success.Render(
				fmt.Sprintf("%d applied in %d %s", stats.Changed, stats.FilesModified, fileWord)))
		}
	}

	if stats.Unchanged > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d unchanged", stats.Unchanged)))
	}

	if stats.Rejected > 0 {
		rejected := s.Warning.Render(fmt.Sprintf("%d rejected", stats.Rejected))
		if kinds := formatKindCounts(stats.RejectedByKind); kinds != "" {
			rejected += " (" + kinds + ")"
		}
		parts = append(parts, rejected)
	}

	if stats.Errored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.Errored)))
	}

	return fmt.Sprintf("%d %s: %s\n", stats.Tasks, taskWord, strings.Join(parts, ", "))
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Tasks:             " +
		s.SummaryValue.Render(strconv.Itoa(stats.Tasks)) + "\n")

	if stats.Changed > 0 {
		label := "  Applied:           "
		if stats.DryRun {
			label = "  Would apply:       "
		}
		builder.WriteString(label + s.Success.Render(strconv.Itoa(stats.Changed)) + "\n")
	}
	if stats.Unchanged > 0 {
		builder.WriteString("  Unchanged:         " +
			s.SummaryValue.Render(strconv.Itoa(stats.Unchanged)) + "\n")
	}
	if stats.Rejected > 0 {
		builder.WriteString("  Rejected:          " +
			s.Warning.Render(strconv.Itoa(stats.Rejected)) + "\n")
		for _, kind := range sortedKinds(stats.RejectedByKind) {
			builder.WriteString(fmt.Sprintf("    %-16s %s\n",
				kind+":", s.Warning.Render(strconv.Itoa(stats.RejectedByKind[kind]))))
		}
	}
	if stats.Errored > 0 {
		builder.WriteString("  Failed:            " +
			s.Error.Render(strconv.Itoa(stats.Errored)) + "\n")
	}

	builder.WriteString("\n")

	if stats.FilesModified > 0 {
		builder.WriteString("  Files modified:    " +
			s.Success.Render(strconv.Itoa(stats.FilesModified)) + "\n")
	}
	builder.WriteString("  Edits applied:     " +
		s.SummaryValue.Render(strconv.Itoa(stats.EditsApplied)) + "\n")
	if stats.EditsDropped > 0 {
		builder.WriteString("  Edits dropped:     " +
			s.Dim.Render(strconv.Itoa(stats.EditsDropped)) + "\n")
	}
	if stats.EditsClamped > 0 {
		builder.WriteString("  Edits clamped:     " +
			s.Dim.Render(strconv.Itoa(stats.EditsClamped)) + "\n")
	}
	builder.WriteString("  Lines:             " +
		s.DiffAdd.Render(fmt.Sprintf("+%d", stats.Additions)) + " " +
		s.DiffRemove.Render(fmt.Sprintf("-%d", stats.Deletions)) + "\n")

	builder.WriteString("\n")

	// Overall status
	switch {
	case stats.Errored > 0 || stats.Rejected > 0:
		builder.WriteString(s.Failure.Render("Some tasks were not applied"))
	case stats.DryRun:
		builder.WriteString(s.Info.Render("Dry run, no files written"))
	default:
		builder.WriteString(s.Success.Render("All tasks applied"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// formatKindCounts renders "2 malformed-range, 1 overlapping-edits", sorted by kind.
func formatKindCounts(counts map[string]int) string {
	kinds := sortedKinds(counts)
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", counts[kind], kind))
	}
	return strings.Join(parts, ", ")
}

func sortedKinds(counts map[string]int) []string {
	kinds := make([]string, 0, len(counts))
	for kind, n := range counts {
		if n > 0 {
			kinds = append(kinds, kind)
		}
	}
	slices.Sort(kinds)
	return kinds
}
