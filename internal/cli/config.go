package cli

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/quickfix/internal/configloader"
	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/language"
)

const (
	templateFormatYAML = "yaml"
	templateFormatJSON = "json"
)

func newConfigCommand(globals *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create quickfix configuration",
		Long: `Inspect the resolved configuration or create a configuration file.

Configuration is merged from, in increasing precedence:
  /etc/quickfix/config.yaml
  $XDG_CONFIG_HOME/quickfix/config.yaml
  .quickfix.yml in the project, searched upward to the VCS root
  the file named by --config
  QUICKFIX_* environment variables
  command line flags`,
	}

	cmd.AddCommand(newConfigShowCommand(globals))
	cmd.AddCommand(newConfigInitCommand())
	cmd.AddCommand(newConfigEnvCommand())
	cmd.AddCommand(newConfigPathCommand(globals))

	return cmd
}

func newConfigShowCommand(globals *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd, globals, &config.Config{})
			if err != nil {
				return err
			}

			header := "# Resolved quickfix configuration"
			for _, path := range s.load.LoadedFrom {
				header += "\n# Loaded from: " + path
			}

			out, err := s.config.ToYAMLWithHeader(header)
			if err != nil {
				return fmt.Errorf("render config: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// initFlags holds the flags for the config init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newConfigInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new quickfix configuration file",
		Long: `Create a new .quickfix.yml configuration file in the current directory
with the default marker, conflict policy and backup settings.`,
		Example: `  quickfix config init                      # Create minimal .quickfix.yml
  quickfix config init --full               # List every built-in comment token
  quickfix config init --format json        # Create .quickfix.json instead
  quickfix config init --output custom.yml  # Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all comment tokens")
	cmd.Flags().StringVar(&flags.format, "format", templateFormatYAML, "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: .quickfix.yml or .quickfix.json)")

	return cmd
}

func runConfigInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")

	if flags.format != templateFormatYAML && flags.format != templateFormatJSON {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".quickfix.yml"
		if flags.format == templateFormatJSON {
			outputPath = ".quickfix.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && flags.force {
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	}, builtinTokens)
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteConfig(absPath, content, flags.force); err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	return nil
}

// builtinTokens adapts the built-in comment token table to config templates.
func builtinTokens() map[string]string {
	table := language.DefaultTokens()
	tokens := make(map[string]string, len(table))
	for tag, token := range table {
		tokens[tag.String()] = token
	}
	return tokens
}

func newConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List supported environment variables",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			vars := configloader.ListEnvVars()
			out := cmd.OutOrStdout()
			for _, name := range slices.Sorted(maps.Keys(vars)) {
				fmt.Fprintf(out, "%-28s %s\n", name, vars[name])
			}
		},
	}
}

func newConfigPathCommand(globals *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where configuration files are looked up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd, globals, &config.Config{})
			if err != nil {
				return err
			}

			paths := &configloader.ConfigPaths{}
			if s.load.Paths != nil {
				paths = s.load.Paths
			}

			out := cmd.OutOrStdout()
			for _, entry := range []struct{ name, path string }{
				{"system", paths.System},
				{"user", paths.User},
				{"project", paths.Project},
				{"explicit", paths.Explicit},
			} {
				fmt.Fprintf(out, "%-9s %s\n", entry.name+":", displayConfigPath(entry.path))
			}

			if len(s.load.LoadedFrom) == 0 {
				fmt.Fprintln(out, "no configuration files loaded, using defaults")
				return nil
			}
			for _, path := range s.load.LoadedFrom {
				fmt.Fprintf(out, "loaded:   %s\n", path)
			}
			return nil
		},
	}
}

func displayConfigPath(path string) string {
	if path == "" {
		return "(none)"
	}
	return path
}
