// Package config defines core configuration types for quickfix.
// These types are pure data structures; discovery and merging live in the
// configloader package.
package config

// Default values.
const (
	DefaultLogLevel   = "info"
	DefaultMarker     = "codiga-disable"
	DefaultConflicts  = "reject"
	DefaultBackupMode = "sidecar"
)

// SuppressionConfig controls the inserted suppression comments.
type SuppressionConfig struct {
	// Marker is the directive written after the comment token.
	Marker string `yaml:"marker"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar" or "none"
}

// Config is the root configuration structure for quickfix.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Conflicts is the overlapping edit policy: "reject" or "merge-deletions".
	Conflicts string `yaml:"conflicts"`

	// Suppression configures suppression comments.
	Suppression SuppressionConfig `yaml:"suppression"`

	// CommentTokens overrides or extends the language to comment token table.
	// Keys are language names or editor language ids.
	CommentTokens map[string]string `yaml:"comment_tokens,omitempty"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// DryRun shows what would change without writing.
	DryRun bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		Conflicts: DefaultConflicts,
		Suppression: SuppressionConfig{
			Marker: DefaultMarker,
		},
		CommentTokens: make(map[string]string),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    DefaultBackupMode,
		},
		Format: FormatText,
	}
}

// EffectiveBackupMode returns the backup mode after the enabled switch and
// the --no-backup flag are applied.
func (c *Config) EffectiveBackupMode() string {
	if c.NoBackups || !c.Backups.Enabled || c.Backups.Mode == "" {
		return "none"
	}
	return c.Backups.Mode
}
