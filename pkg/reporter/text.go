package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/quickfix/internal/ui/pretty"
	"github.com/yaklabco/quickfix/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Tasks) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No tasks to apply."))
		}
		return 0, nil
	}

	if r.opts.GroupByFile {
		r.reportGrouped(result)
	} else {
		r.reportFlat(result)
	}

	if r.opts.ShowSummary {
		if r.opts.DetailedSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
		} else {
			fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
		}
	}

	return result.Stats.Changed, nil
}

// reportGrouped writes outcomes grouped by file.
func (r *TextReporter) reportGrouped(result *runner.Result) {
	for _, group := range groupByFile(result.Tasks) {
		visible := r.visible(group.outcomes)
		if len(visible) == 0 {
			continue
		}

		path := relativePath(group.path, r.opts.WorkingDir)

		// File header
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(visible)))
		for _, outcome := range visible {
			fmt.Fprint(r.bw, r.styles.FormatOutcome(outcome, path))
		}

		// Blank line between files
		fmt.Fprintln(r.bw)
	}
}

// reportFlat writes outcomes in batch order without grouping.
func (r *TextReporter) reportFlat(result *runner.Result) {
	for _, outcome := range r.visible(result.Tasks) {
		fmt.Fprint(r.bw, r.styles.FormatOutcome(outcome, relativePath(outcome.Path, r.opts.WorkingDir)))
	}
}

// visible filters out unchanged outcomes unless ShowUnchanged is set.
func (r *TextReporter) visible(outcomes []runner.TaskOutcome) []runner.TaskOutcome {
	if r.opts.ShowUnchanged {
		return outcomes
	}
	kept := make([]runner.TaskOutcome, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Status() != runner.StatusUnchanged {
			kept = append(kept, outcome)
		}
	}
	return kept
}
