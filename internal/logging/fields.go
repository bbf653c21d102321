// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Engine fields.
	FieldDescription = "description"
	FieldEdits       = "edits"
	FieldOperation   = "operation"
	FieldRange       = "range"
	FieldOffset      = "offset"
	FieldDropped     = "dropped"
	FieldClamped     = "clamped"
	FieldMerged      = "merged"
	FieldPolicy      = "policy"
	FieldKind        = "kind"
	FieldDryRun      = "dry_run"
	FieldBackup      = "backup"

	// Suppression fields.
	FieldRule     = "rule"
	FieldLanguage = "language"
	FieldLine     = "line"
	FieldToken    = "token"
	FieldMarker   = "marker"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
