package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/quickfix/internal/configloader"
	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/fsutil"
	"github.com/yaklabco/quickfix/pkg/language"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/reporter"
	"github.com/yaklabco/quickfix/pkg/runner"
)

// stdinPath names standard input in flags that take a file.
const stdinPath = "-"

// settings is the resolved configuration of one command invocation.
type settings struct {
	workDir string
	load    *configloader.LoadResult
	config  *config.Config
}

// commandContext returns the command context, or a background context when
// the command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadSettings discovers, merges and validates the configuration, with
// cliCfg holding values set by flags.
func loadSettings(cmd *cobra.Command, globals *globalFlags, cliCfg *config.Config) (*settings, error) {
	logger := logging.Default()

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:          workDir,
		ExplicitPath:        globals.configPath,
		IgnoreSystemConfig:  globals.noConfig,
		IgnoreUserConfig:    globals.noConfig,
		IgnoreProjectConfig: globals.noConfig,
		CLIConfig:           cliCfg,
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	cfg := loadResult.Config

	if !globals.debug {
		logging.SetLevel(cfg.LogLevel)
	}

	// Log warnings from config loading.
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldConfig, loadResult.LoadedFrom)
	}

	logger.Debug("configuration loaded",
		logging.FieldPolicy, cfg.Conflicts,
		logging.FieldMarker, cfg.Suppression.Marker,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldBackup, cfg.EffectiveBackupMode(),
	)

	return &settings{
		workDir: workDir,
		load:    loadResult,
		config:  cfg,
	}, nil
}

// resolver builds the comment token resolver from the configured overrides.
func (s *settings) resolver() (*language.Resolver, error) {
	resolver, err := language.NewResolver(s.config.CommentTokens)
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}
	return resolver, nil
}

// engine builds the quickfix engine from the configuration.
func (s *settings) engine() (*quickfix.Engine, error) {
	resolver, err := s.resolver()
	if err != nil {
		return nil, err
	}

	engine, err := quickfix.New(quickfix.Options{
		Resolver:  resolver,
		Marker:    s.config.Suppression.Marker,
		Conflicts: fix.ConflictPolicy(s.config.Conflicts),
	})
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}
	return engine, nil
}

// runFlags holds the flags shared by the commands that modify files.
type runFlags struct {
	dryRun        bool
	noBackups     bool
	backupMode    string
	conflicts     string
	format        string
	jobs          int
	compact       bool
	stats         bool
	showUnchanged bool
}

func addRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show changes without writing them")
	cmd.Flags().BoolVar(&flags.noBackups, "no-backups", false, "disable backup creation")
	cmd.Flags().StringVar(&flags.backupMode, "backup", config.DefaultBackupMode, "backup mode: sidecar, none")
	cmd.Flags().StringVar(&flags.conflicts, "conflicts", config.DefaultConflicts,
		"overlapping edit policy: reject, merge-deletions")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json, diff")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of files processed in parallel (0 = auto)")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print a detailed summary (text format)")
	cmd.Flags().BoolVar(&flags.showUnchanged, "show-unchanged", false, "list tasks that changed nothing")

	markFlagGroup(cmd.Flags(), flagGroupRun,
		"dry-run", "no-backups", "backup", "conflicts", "format", "jobs", "compact", "stats", "show-unchanged")
}

// cliConfig maps the flags the user set onto a config layer.
func (f *runFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{
		DryRun:    f.dryRun,
		NoBackups: f.noBackups,
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = config.OutputFormat(f.format)
	}
	if cmd.Flags().Changed("backup") {
		cfg.Backups.Mode = f.backupMode
	}
	if cmd.Flags().Changed("conflicts") {
		cfg.Conflicts = f.conflicts
	}
	return cfg
}

// runTasks applies tasks, reports the outcome and maps failures to
// ErrTasksNotApplied.
func runTasks(cmd *cobra.Command, globals *globalFlags, s *settings, flags *runFlags, tasks []runner.Task) error {
	ctx := commandContext(cmd)
	logger := logging.Default()

	engine, err := s.engine()
	if err != nil {
		return err
	}

	runOpts := runner.Options{
		WorkingDir: s.workDir,
		Jobs:       flags.jobs,
		DryRun:     s.config.DryRun,
		Backup:     fsutil.BackupMode(s.config.EffectiveBackupMode()),
	}

	logger.Debug("starting run",
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldDryRun, runOpts.DryRun,
		logging.FieldBackup, runOpts.Backup,
	)

	result, err := runner.New(engine).Run(ctx, tasks, runOpts)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	format, err := reporter.ParseFormat(string(s.config.Format))
	if err != nil {
		return errors.Join(ErrUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:          cmd.OutOrStdout(),
		Format:          format,
		Color:           globals.color,
		ShowSummary:     true,
		DetailedSummary: flags.stats,
		ShowUnchanged:   flags.showUnchanged,
		GroupByFile:     true,
		Compact:         flags.compact,
		WorkingDir:      s.workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrTasksNotApplied
	}
	return nil
}

// readInput reads a file, or standard input for "-". Standard input
// attached to a terminal is refused instead of blocking.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path != stdinPath {
		content, _, err := fsutil.ReadFile(commandContext(cmd), path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return content, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, fmt.Errorf("%w: expected input on stdin, but stdin is a terminal", ErrUsage)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, in); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return buf.Bytes(), nil
}
