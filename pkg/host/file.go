package host

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/fsutil"
)

// Options configures a FileDocument.
type Options struct {
	// Backup selects where the pre-fix content is saved before the first
	// write. The zero value disables backups.
	Backup fsutil.BackupMode
}

// FileDocument is a Document backed by a file on disk.
//
// Writes are atomic. A write is refused with ErrStale when the file was
// modified by someone else since it was opened or last written.
type FileDocument struct {
	mu   sync.Mutex
	opts Options
	text string
	info *fsutil.FileInfo

	backupPath string
}

// OpenFile reads path into a FileDocument.
func OpenFile(ctx context.Context, path string, opts Options) (*FileDocument, error) {
	if opts.Backup == "" {
		opts.Backup = fsutil.BackupModeNone
	}
	if !opts.Backup.IsValid() {
		return nil, fmt.Errorf("unknown backup mode %q", opts.Backup)
	}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	return &FileDocument{
		opts: opts,
		text: string(content),
		info: info,
	}, nil
}

// Path returns the file path.
func (d *FileDocument) Path() string {
	return d.info.Path
}

// Text returns the text last read or written.
func (d *FileDocument) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// BackupPath returns the backup written by ReplaceText, or "" if none was.
func (d *FileDocument) BackupPath() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.backupPath
}

// ReplaceText writes newText to the file, keeping its permissions.
func (d *FileDocument) ReplaceText(ctx context.Context, newText string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	modified, err := fsutil.CheckModified(ctx, d.info)
	if err != nil {
		return fmt.Errorf("check %s: %w", d.info.Path, err)
	}
	if modified {
		return fmt.Errorf("%w: %s", ErrStale, d.info.Path)
	}

	created, err := fsutil.CreateBackup(ctx, d.info.Path, []byte(d.text), d.opts.Backup, d.info.Mode.Perm())
	if err != nil {
		return err
	}
	if created {
		d.backupPath = fsutil.BackupPath(d.info.Path, d.opts.Backup)
	}

	content := []byte(newText)
	if err := fsutil.WriteAtomic(ctx, d.info.Path, content, d.info.Mode.Perm()); err != nil {
		return err
	}
	d.text = newText

	info, err := fsutil.Describe(d.info.Path, content)
	if err != nil {
		// The write landed. Without fresh metadata the next write is
		// refused as stale instead of clobbering an unknown file.
		logging.FromContext(ctx).Debug("stat after write failed",
			logging.FieldPath, d.info.Path,
			logging.FieldError, err)
		info = &fsutil.FileInfo{
			Path: d.info.Path,
			Mode: d.info.Mode,
			Size: int64(len(content)),
			Hash: sha256.Sum256(content),
		}
	}
	d.info = info

	return nil
}
