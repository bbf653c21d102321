package runner

import (
	"github.com/yaklabco/quickfix/pkg/document"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// TaskOutcome is the result of one task.
type TaskOutcome struct {
	// Index is the position of the task in the batch.
	Index int

	// Path is the resolved file path.
	Path string

	// Location is where the task applies in the original text.
	Location document.Position

	// Action is what the task did.
	Action Action

	// Description is the fix description or the violated rule.
	Description string

	// Outcome is the engine outcome. Zero when Error is set.
	Outcome quickfix.Outcome

	// Diff is the change made, or that would be made in dry-run mode.
	Diff *fix.Diff

	// Written is true if the file was written to disk.
	Written bool

	// BackupPath is the backup created before the first write, if any.
	BackupPath string

	// Error is set if the file could not be opened.
	Error error
}

// Status summarises a task outcome.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusPlanned   Status = "planned"
	StatusUnchanged Status = "unchanged"
	StatusRejected  Status = "rejected"
	StatusError     Status = "error"
)

// Status returns the outcome status. A change computed in dry-run mode is
// StatusPlanned.
func (o TaskOutcome) Status() Status {
	switch {
	case o.Error != nil:
		return StatusError
	case o.Outcome.Err != nil:
		return StatusRejected
	case o.Diff == nil:
		return StatusUnchanged
	case o.Written:
		return StatusApplied
	default:
		return StatusPlanned
	}
}

// Err returns the error that stopped the task, if any.
func (o TaskOutcome) Err() error {
	if o.Error != nil {
		return o.Error
	}
	return o.Outcome.Err
}

// Failed reports whether the task was rejected or could not run.
func (o TaskOutcome) Failed() bool {
	return o.Error != nil || o.Outcome.Err != nil
}

// Stats captures aggregate information about a run.
type Stats struct {
	// DryRun is true if changes were computed but not written.
	DryRun bool

	// Tasks is the number of tasks in the batch.
	Tasks int

	// Changed is the number of tasks that changed, or would change, a file.
	Changed int

	// Unchanged is the number of tasks that resolved to no change.
	Unchanged int

	// Rejected is the number of tasks the engine or host refused.
	Rejected int

	// Errored is the number of tasks whose file could not be opened.
	Errored int

	// FilesModified is the number of distinct files written.
	FilesModified int

	// EditsApplied is the number of resolved fix edits across all changes.
	EditsApplied int

	// EditsDropped is the number of unrecognized edits skipped.
	EditsDropped int

	// EditsClamped is the number of edits clamped to the document end.
	EditsClamped int

	// Additions and Deletions are diff line totals.
	Additions int
	Deletions int

	// RejectedByKind maps rejection kinds to counts.
	RejectedByKind map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Tasks contains the outcome for each task, in batch order.
	Tasks []TaskOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any task was rejected or errored.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.Rejected > 0 || r.Stats.Errored > 0
}

// HasChanges reports whether any task changed a file.
func (r *Result) HasChanges() bool {
	if r == nil {
		return false
	}
	return r.Stats.Changed > 0
}

func newStats() Stats {
	return Stats{
		RejectedByKind: make(map[string]int),
	}
}

// accumulate updates the result with a task outcome.
func (r *Result) accumulate(outcome TaskOutcome, written map[string]struct{}) {
	r.Tasks = append(r.Tasks, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.Errored++
		return
	case outcome.Outcome.Err != nil:
		r.Stats.Rejected++
		r.Stats.RejectedByKind[outcome.Outcome.Kind().String()]++
		return
	case outcome.Diff == nil:
		r.Stats.Unchanged++
	default:
		r.Stats.Changed++
		r.Stats.Additions += outcome.Diff.Additions
		r.Stats.Deletions += outcome.Diff.Deletions
	}

	if res := outcome.Outcome.Result; res != nil {
		if outcome.Diff != nil {
			r.Stats.EditsApplied += len(res.Edits)
		}
		r.Stats.EditsDropped += res.Dropped
		r.Stats.EditsClamped += res.Clamped
	}

	if outcome.Written {
		if _, seen := written[outcome.Path]; !seen {
			written[outcome.Path] = struct{}{}
			r.Stats.FilesModified++
		}
	}
}
