package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/quickfix/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding       = 2
	tableColumnCount   = 5 // FILE, LOC, ACTION, DESCRIPTION, STATUS
	minFileWidth       = 20
	minLocWidth        = 8
	actionColumnWidth  = 8
	minDescWidth       = 30
	statusColumnWidth  = 9
	heavySeparator     = "="
	lightSeparator     = "-"
	defaultTermWidth   = 100
	ellipsis           = "..."
	ellipsisWidth      = len(ellipsis)
	unknownLocationTxt = "-"
)

// TableRow represents a single row in the outcome table.
type TableRow struct {
	File        string
	Location    string
	Action      string
	Description string
	Status      runner.Status
}

// TableFormatter formats task outcomes as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// OutcomeToTableRow converts a task outcome to a table row.
func OutcomeToTableRow(path string, outcome runner.TaskOutcome) TableRow {
	location := unknownLocationTxt
	if outcome.Location.Line > 0 {
		location = fmt.Sprintf("%d:%d", outcome.Location.Line, outcome.Location.Column)
	}

	description := outcome.Description
	if outcome.Error == nil && outcome.Outcome.Err != nil {
		description = strings.TrimSpace(description + " (" + outcome.Outcome.Kind().String() + ")")
	}

	return TableRow{
		File:        path,
		Location:    location,
		Action:      string(outcome.Action),
		Description: description,
		Status:      outcome.Status(),
	}
}

// FormatTable formats rows grouped by file as a styled table.
// Rows of the same file must be adjacent.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")

	for idx, row := range rows {
		if idx > 0 && row.File != rows[idx-1].File {
			builder.WriteString(t.formatSeparator(widths, lightSeparator))
			builder.WriteString("\n")
		}
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths, heavySeparator))
	builder.WriteString("\n")

	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

type columnWidths struct {
	file int
	loc  int
	desc int
}

// calculateColumnWidths determines optimal column widths based on content.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		file: minFileWidth,
		loc:  minLocWidth,
		desc: minDescWidth,
	}

	for _, row := range rows {
		widths.file = max(widths.file, len(row.File))
		widths.loc = max(widths.loc, len(row.Location))
		widths.desc = max(widths.desc, len(row.Description))
	}

	// Constrain to terminal width
	totalWidth := t.calculateTotalWidth(widths)
	if totalWidth > t.termWidth {
		// Reduce description width first
		excess := totalWidth - t.termWidth
		widths.desc = max(minDescWidth, widths.desc-excess)

		// If still too wide, reduce file width
		totalWidth = t.calculateTotalWidth(widths)
		if totalWidth > t.termWidth {
			excess = totalWidth - t.termWidth
			widths.file = max(minFileWidth, widths.file-excess)
		}
	}

	return widths
}

// calculateTotalWidth calculates the total table width from column widths.
func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.file + widths.loc + actionColumnWidth + widths.desc + statusColumnWidth +
		(tablePadding * tableColumnCount)
}

// formatHeader formats the table header row.
func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %-*s ",
		widths.file, "FILE",
		widths.loc, "LOC",
		actionColumnWidth, "ACTION",
		widths.desc, "DESCRIPTION",
		statusColumnWidth, "STATUS",
	)
	return t.styles.TableHeader.Render(header)
}

// formatSeparator formats a separator line.
func (t *TableFormatter) formatSeparator(widths columnWidths, char string) string {
	sep := strings.Repeat(char, t.calculateTotalWidth(widths))
	return t.styles.TableSeparator.Render(sep)
}

// formatRow formats a single table row with status-based styling.
func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	content := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %-*s ",
		widths.file, truncateFilePath(row.File, widths.file),
		widths.loc, truncateString(row.Location, widths.loc),
		actionColumnWidth, truncateString(row.Action, actionColumnWidth),
		widths.desc, truncateString(row.Description, widths.desc),
		statusColumnWidth, string(row.Status),
	)

	return t.getRowStyle(row.Status).Render(content)
}

// getRowStyle returns the appropriate style for a status.
func (t *TableFormatter) getRowStyle(status runner.Status) lipgloss.Style {
	switch status {
	case runner.StatusApplied, runner.StatusPlanned:
		return t.styles.TableChangedRow
	case runner.StatusRejected, runner.StatusError:
		return t.styles.TableFailedRow
	default:
		return lipgloss.NewStyle()
	}
}

// formatLegend formats the legend explaining the table colors.
func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(" Legend: applied | planned | unchanged | rejected | error")
	}

	changedSample := t.styles.TableChangedRow.Render(" changed ")
	failedSample := t.styles.TableFailedRow.Render(" not applied ")

	return t.styles.TableLegend.Render(
		fmt.Sprintf(" Legend: %s  %s", changedSample, failedSample),
	)
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d tasks", stats.Tasks))

	if stats.Changed > 0 {
		label := "applied"
		if stats.DryRun {
			label = "planned"
		}
		parts = append(parts, t.styles.TableChangedRow.Render(fmt.Sprintf("%d %s", stats.Changed, label)))
	}
	if stats.Unchanged > 0 {
		parts = append(parts, t.styles.Dim.Render(fmt.Sprintf("%d unchanged", stats.Unchanged)))
	}
	if stats.Rejected > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d rejected", stats.Rejected)))
	}
	if stats.Errored > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d failed", stats.Errored)))
	}

	return " " + strings.Join(parts, " | ")
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= ellipsisWidth {
		return str[:maxLen]
	}
	return str[:maxLen-ellipsisWidth] + ellipsis
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= ellipsisWidth {
		return path[len(path)-maxLen:]
	}
	return ellipsis + path[len(path)-maxLen+ellipsisWidth:]
}
