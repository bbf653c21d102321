package runner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/yaklabco/quickfix/pkg/document"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/suppress"
)

// ErrInvalidTask indicates a task with no path or without exactly one of a
// fix and a violation.
var ErrInvalidTask = errors.New("invalid task")

// Action names what a task does.
type Action string

const (
	ActionFix      Action = "fix"
	ActionSuppress Action = "suppress"
)

// Task is a single fix or suppression to apply to one file.
type Task struct {
	// Path is the file to modify.
	Path string

	// Fix is set for fix tasks.
	Fix *fix.Fix

	// Violation is set for suppression tasks. An unknown language is
	// detected from the file name and content.
	Violation *suppress.Violation
}

// Action returns what the task does.
func (t Task) Action() Action {
	if t.Violation != nil {
		return ActionSuppress
	}
	return ActionFix
}

// Location returns where the task applies: the violation start, or the
// start of the first edit. Zero for a fix without edits.
func (t Task) Location() document.Position {
	switch {
	case t.Violation != nil:
		return t.Violation.Range.Start
	case t.Fix != nil && len(t.Fix.Edits) > 0:
		return t.Fix.Edits[0].Range.Start
	default:
		return document.Position{}
	}
}

// Validate checks that the task is well formed.
func (t Task) Validate() error {
	if t.Path == "" {
		return fmt.Errorf("%w: missing path", ErrInvalidTask)
	}
	if (t.Fix == nil) == (t.Violation == nil) {
		return fmt.Errorf("%w: %s: exactly one of fix and violation is required", ErrInvalidTask, t.Path)
	}
	return nil
}

type wireTask struct {
	Path      string          `json:"path"`
	Fix       json.RawMessage `json:"fix,omitempty"`
	Violation json.RawMessage `json:"violation,omitempty"`
}

// DecodeTasks reads a JSON array of tasks of the form
//
//	[{"path": "main.py", "fix": {...}}, {"path": "app.ts", "violation": {...}}]
func DecodeTasks(r io.Reader) ([]Task, error) {
	var wire []wireTask
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]Task, 0, len(wire))
	for idx, w := range wire {
		task := Task{Path: w.Path}

		if hasValue(w.Fix) {
			f, err := fix.ParseFix(w.Fix)
			if err != nil {
				return nil, fmt.Errorf("task %d: %w", idx, err)
			}
			task.Fix = &f
		}
		if hasValue(w.Violation) {
			v, err := suppress.ParseViolation(w.Violation)
			if err != nil {
				return nil, fmt.Errorf("task %d: %w", idx, err)
			}
			task.Violation = &v
		}

		if err := task.Validate(); err != nil {
			return nil, fmt.Errorf("task %d: %w", idx, err)
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

func hasValue(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
