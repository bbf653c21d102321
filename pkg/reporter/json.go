package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/quickfix/pkg/runner"
)

// jsonVersion is the version of the JSON output schema.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string      `json:"version"`
	DryRun  bool        `json:"dryRun"`
	Tasks   []JSONTask  `json:"tasks"`
	Summary JSONSummary `json:"summary"`
}

// JSONTask represents a single task outcome.
type JSONTask struct {
	Index       int    `json:"index"`
	Path        string `json:"path"`
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
	Line        int    `json:"line,omitempty"`
	Column      int    `json:"col,omitempty"`
	Status      string `json:"status"`
	Kind        string `json:"kind,omitempty"`
	Error       string `json:"error,omitempty"`
	Edits       int    `json:"edits,omitempty"`
	Dropped     int    `json:"dropped,omitempty"`
	Clamped     int    `json:"clamped,omitempty"`
	Additions   int    `json:"additions,omitempty"`
	Deletions   int    `json:"deletions,omitempty"`
	Diff        string `json:"diff,omitempty"`
	BackupPath  string `json:"backupPath,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	Tasks          int            `json:"tasks"`
	Changed        int            `json:"changed"`
	Unchanged      int            `json:"unchanged"`
	Rejected       int            `json:"rejected"`
	Errored        int            `json:"errored"`
	FilesModified  int            `json:"filesModified"`
	EditsApplied   int            `json:"editsApplied"`
	EditsDropped   int            `json:"editsDropped"`
	EditsClamped   int            `json:"editsClamped"`
	Additions      int            `json:"additions"`
	Deletions      int            `json:"deletions"`
	RejectedByKind map[string]int `json:"rejectedByKind"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.Changed, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Tasks:   make([]JSONTask, 0),
		Summary: JSONSummary{
			RejectedByKind: make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	output.DryRun = result.Stats.DryRun
	output.Tasks = make([]JSONTask, 0, len(result.Tasks))

	for _, task := range result.Tasks {
		output.Tasks = append(output.Tasks, r.buildTask(task))
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		Tasks:          stats.Tasks,
		Changed:        stats.Changed,
		Unchanged:      stats.Unchanged,
		Rejected:       stats.Rejected,
		Errored:        stats.Errored,
		FilesModified:  stats.FilesModified,
		EditsApplied:   stats.EditsApplied,
		EditsDropped:   stats.EditsDropped,
		EditsClamped:   stats.EditsClamped,
		Additions:      stats.Additions,
		Deletions:      stats.Deletions,
		RejectedByKind: make(map[string]int, len(stats.RejectedByKind)),
	}
	for kind, count := range stats.RejectedByKind {
		output.Summary.RejectedByKind[kind] = count
	}

	return output
}

func (r *JSONReporter) buildTask(task runner.TaskOutcome) JSONTask {
	out := JSONTask{
		Index:       task.Index,
		Path:        relativePath(task.Path, r.opts.WorkingDir),
		Action:      string(task.Action),
		Description: task.Description,
		Line:        task.Location.Line,
		Column:      task.Location.Column,
		Status:      string(task.Status()),
		BackupPath:  task.BackupPath,
	}

	if err := task.Err(); err != nil {
		out.Error = err.Error()
	}
	if task.Error == nil && task.Outcome.Err != nil {
		out.Kind = task.Outcome.Kind().String()
	}

	if res := task.Outcome.Result; res != nil {
		if task.Diff != nil {
			out.Edits = len(res.Edits)
		}
		out.Dropped = res.Dropped
		out.Clamped = res.Clamped
	}

	if task.Diff != nil {
		out.Additions = task.Diff.Additions
		out.Deletions = task.Diff.Deletions
		out.Diff = task.Diff.String()
	}

	return out
}
