// Package runner applies batches of fixes and suppressions to files on disk.
package runner

import "github.com/yaklabco/quickfix/pkg/fsutil"

// Options controls how a batch of tasks is applied.
type Options struct {
	// WorkingDir is the base directory used to resolve relative task paths
	// and to shorten paths in diffs. If empty, the process working
	// directory is used.
	WorkingDir string

	// Jobs controls the maximum number of files processed concurrently.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// DryRun computes results and diffs without writing files.
	DryRun bool

	// Backup selects where the original content is saved before the first
	// write to each file.
	Backup fsutil.BackupMode
}
