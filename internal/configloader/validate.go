package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/fsutil"
	"github.com/yaklabco/quickfix/pkg/language"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "backups.mode").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.LogLevel != "" && !logging.ParseLevel(cfg.LogLevel) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: fmt.Sprintf("invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}

	if cfg.Conflicts != "" && !fix.ConflictPolicy(cfg.Conflicts).IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "conflicts",
			Value:   cfg.Conflicts,
			Message: fmt.Sprintf("invalid conflict policy %q; must be one of: reject, merge-deletions", cfg.Conflicts),
		})
	}

	if cfg.Backups.Mode != "" && !fsutil.BackupMode(cfg.Backups.Mode).IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "backups.mode",
			Value:   cfg.Backups.Mode,
			Message: fmt.Sprintf("invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode),
		})
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, table, json, diff", cfg.Format),
		})
	}

	validateSuppression(cfg, result)
	validateCommentTokens(cfg, result)

	return result
}

func validateSuppression(cfg *config.Config, result *ValidationResult) {
	marker := cfg.Suppression.Marker
	switch {
	case strings.TrimSpace(marker) == "":
		result.Errors = append(result.Errors, ValidationError{
			Field:   "suppression.marker",
			Value:   marker,
			Message: "marker must not be empty",
		})
	case strings.ContainsAny(marker, "\r\n"):
		result.Errors = append(result.Errors, ValidationError{
			Field:   "suppression.marker",
			Value:   marker,
			Message: "marker must be a single line",
		})
	case marker != config.DefaultMarker:
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "suppression.marker",
			Value:   marker,
			Message: fmt.Sprintf("custom marker %q is only honoured by analyzers configured for it", marker),
		})
	}
}

func validateCommentTokens(cfg *config.Config, result *ValidationResult) {
	builtin := language.DefaultTokens()

	for _, name := range sortedKeys(cfg.CommentTokens) {
		token := cfg.CommentTokens[name]
		field := "comment_tokens." + name

		if strings.TrimSpace(name) == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Value:   name,
				Message: "language name must not be empty",
			})
			continue
		}
		if strings.TrimSpace(token) == "" || strings.ContainsAny(token, "\r\n") {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Value:   token,
				Message: "comment token must be a non-empty single line",
			})
			continue
		}
		if _, known := builtin[language.ParseTag(name)]; !known {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   field,
				Value:   name,
				Message: fmt.Sprintf("language %q is not built in; adding it", name),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
