package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/fsutil"
	"github.com/yaklabco/quickfix/pkg/host"
	"github.com/yaklabco/quickfix/pkg/language"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// Runner applies task batches with a quickfix.Engine.
type Runner struct {
	// Engine computes each change.
	Engine *quickfix.Engine
}

// New creates a new Runner with the given engine.
func New(engine *quickfix.Engine) *Runner {
	return &Runner{Engine: engine}
}

// Run applies tasks and returns their outcomes in batch order.
//
// Tasks on the same file run sequentially in batch order, each one seeing
// the text left by the previous one. Distinct files are processed
// concurrently. In dry-run mode every file is loaded into memory and never
// written.
func (r *Runner) Run(ctx context.Context, tasks []Task, opts Options) (*Result, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	result := &Result{
		Tasks: make([]TaskOutcome, 0, len(tasks)),
		Stats: newStats(),
	}
	result.Stats.Tasks = len(tasks)
	result.Stats.DryRun = opts.DryRun

	if len(tasks) == 0 {
		return result, nil
	}

	groups, order := groupByPath(tasks, workDir)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	outcomes := make([]TaskOutcome, len(tasks))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for _, path := range order {
		indices := groups[path]
		group.Go(func() error {
			fileOutcomes := r.processFile(groupCtx, path, workDir, tasks, indices, opts)

			mu.Lock()
			for _, outcome := range fileOutcomes {
				outcomes[outcome.Index] = outcome
			}
			mu.Unlock()

			return groupCtx.Err()
		})
	}

	waitErr := group.Wait()

	written := make(map[string]struct{})
	for _, outcome := range outcomes {
		if outcome.Path == "" {
			// Skipped by cancellation.
			continue
		}
		result.accumulate(outcome, written)
	}

	if waitErr != nil {
		return result, fmt.Errorf("run cancelled: %w", waitErr)
	}
	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// processFile runs every task addressed to one file.
func (r *Runner) processFile(
	ctx context.Context,
	path, workDir string,
	tasks []Task,
	indices []int,
	opts Options,
) []TaskOutcome {
	ctx = logging.WithFields(ctx, logging.FieldPath, path)
	logger := logging.FromContext(ctx)

	outcomes := make([]TaskOutcome, 0, len(indices))

	doc, backupPath, err := openDocument(ctx, path, opts)
	if err != nil {
		logger.Debug("open failed", logging.FieldError, err)
		for _, idx := range indices {
			outcomes = append(outcomes, TaskOutcome{
				Index:    idx,
				Path:     path,
				Location: tasks[idx].Location(),
				Action:   tasks[idx].Action(),
				Error:    err,
			})
		}
		return outcomes
	}

	displayPath := displayPath(path, workDir)

	for _, idx := range indices {
		if ctx.Err() != nil {
			break
		}

		task := tasks[idx]
		outcome := TaskOutcome{
			Index:    idx,
			Path:     path,
			Location: task.Location(),
			Action:   task.Action(),
		}

		switch outcome.Action {
		case ActionSuppress:
			violation := *task.Violation
			if violation.Language == language.TagUnknown {
				violation.Language = language.Detect(path, []byte(doc.Text()))
				logger.Debug("language detected", logging.FieldLanguage, violation.Language)
			}
			outcome.Description = violation.RuleIdentifier
			outcome.Outcome = r.Engine.Suppress(ctx, doc, violation)
		default:
			outcome.Description = task.Fix.Description
			outcome.Outcome = r.Engine.ApplyFix(ctx, doc, *task.Fix)
		}

		if outcome.Outcome.Applied {
			diff, err := fix.GenerateDiff(displayPath, outcome.Outcome.Original, outcome.Outcome.Text)
			if err != nil {
				logger.Warn("diff failed", logging.FieldError, err)
			}
			outcome.Diff = diff
			outcome.Written = !opts.DryRun
			if outcome.Written {
				outcome.BackupPath = backupPath()
			}
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// openDocument opens path as a file-backed document, or as an in-memory copy
// in dry-run mode. The returned function reports the backup path once one
// has been written.
func openDocument(ctx context.Context, path string, opts Options) (host.Document, func() string, error) {
	if opts.DryRun {
		content, _, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return host.NewMemoryDocument(string(content)), func() string { return "" }, nil
	}

	doc, err := host.OpenFile(ctx, path, host.Options{Backup: opts.Backup})
	if err != nil {
		return nil, nil, err
	}
	return doc, doc.BackupPath, nil
}

// groupByPath groups task indices by resolved path, keeping first-seen order.
func groupByPath(tasks []Task, workDir string) (map[string][]int, []string) {
	groups := make(map[string][]int)
	var order []string

	for idx, task := range tasks {
		path := task.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		if _, ok := groups[path]; !ok {
			order = append(order, path)
		}
		groups[path] = append(groups[path], idx)
	}

	return groups, order
}

// displayPath returns path relative to workDir when it lies beneath it.
func displayPath(path, workDir string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

func resolveWorkDir(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	return filepath.Abs(dir)
}
