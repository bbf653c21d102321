// Package cli provides the Cobra command structure for quickfix.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/quickfix/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags holds the persistent flags shared by all subcommands.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
	noConfig   bool
}

// NewRootCommand creates the root quickfix command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "quickfix",
		Short: "Apply analyzer quick fixes and suppression comments to source files",
		Long: `quickfix applies the fixes proposed by a static analyzer to source files,
or silences a violation by inserting a suppression comment above it.

Every change is computed from one snapshot of the file and written in a
single atomic replacement. Fixes with malformed, unanchorable or overlapping
edits are rejected as a whole and leave the file untouched. Dry-run mode
shows unified diffs, and sidecar backups keep the original content.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if globals.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&globals.noConfig, "no-config", false,
		"ignore system, user and project config files")
	rootCmd.PersistentFlags().StringVar(&globals.color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddGroup(commandGroups()...)
	rootCmd.AddCommand(
		inGroup(groupFix, newApplyCommand(globals)),
		inGroup(groupFix, newSuppressCommand(globals)),
		inGroup(groupSetup, newLanguagesCommand(globals)),
		inGroup(groupSetup, newConfigCommand(globals)),
		newVersionCommand(info),
	)

	// Apply styled help formatting.
	NewHelpFormatter(&globals.color).ApplyToCommand(rootCmd)

	return rootCmd
}

func inGroup(group string, cmd *cobra.Command) *cobra.Command {
	cmd.GroupID = group
	return cmd
}
