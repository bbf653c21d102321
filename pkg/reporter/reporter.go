// Package reporter formats runner results for output.
package reporter

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/quickfix/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of changes reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	// Default writer to stdout if not specified
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatTable:
		return NewTableReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// fileGroup is the outcomes of one file in batch order.
type fileGroup struct {
	path     string
	outcomes []runner.TaskOutcome
}

// groupByFile groups outcomes by path, keeping first-seen order.
func groupByFile(tasks []runner.TaskOutcome) []fileGroup {
	var groups []fileGroup
	index := make(map[string]int)

	for _, task := range tasks {
		idx, ok := index[task.Path]
		if !ok {
			idx = len(groups)
			index[task.Path] = idx
			groups = append(groups, fileGroup{path: task.Path})
		}
		groups[idx].outcomes = append(groups[idx].outcomes, task)
	}

	return groups
}

// relativePath returns path relative to workDir when it lies beneath it.
func relativePath(path, workDir string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
