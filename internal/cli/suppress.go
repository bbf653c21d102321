package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/quickfix/pkg/document"
	"github.com/yaklabco/quickfix/pkg/language"
	"github.com/yaklabco/quickfix/pkg/runner"
	"github.com/yaklabco/quickfix/pkg/suppress"
)

type suppressFlags struct {
	run           runFlags
	violationPath string
	line          int
	col           int
	endLine       int
	endCol        int
	rule          string
	language      string
	marker        string
}

func newSuppressCommand(globals *globalFlags) *cobra.Command {
	flags := &suppressFlags{}

	cmd := &cobra.Command{
		Use:   "suppress <file>",
		Short: "Insert a suppression comment above a violation",
		Long: `Insert a suppression comment on its own line above a violation.

The comment is the indentation of the violation line, the line comment token
of the file's language and the suppression marker, e.g. "    # codiga-disable".
The language is detected from the file unless --language is given.`,
		Example: `  quickfix suppress --line 12 main.py                   # Suppress line 12
  quickfix suppress --line 3 --language sql q.txt       # Force the language
  quickfix suppress --violation violation.json app.ts   # Read a violation
  quickfix suppress --line 5 --marker nolint --dry-run main.go  # Preview a custom marker`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuppress(cmd, args[0], globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.violationPath, "violation", "", "violation JSON file, or - for stdin")
	cmd.Flags().IntVar(&flags.line, "line", 0, "line of the violation (1-based)")
	cmd.Flags().IntVar(&flags.col, "col", 1, "column of the violation (1-based)")
	cmd.Flags().IntVar(&flags.endLine, "end-line", 0, "end line of the violation (default: --line)")
	cmd.Flags().IntVar(&flags.endCol, "end-col", 0, "end column of the violation (default: --col)")
	cmd.Flags().StringVar(&flags.rule, "rule", "", "identifier of the violated rule")
	cmd.Flags().StringVar(&flags.language, "language", "", "language of the file (default: detected)")
	cmd.Flags().StringVar(&flags.marker, "marker", "", "suppression marker (default: from config)")
	addRunFlags(cmd, &flags.run)

	return cmd
}

func runSuppress(cmd *cobra.Command, target string, globals *globalFlags, flags *suppressFlags) error {
	violation, err := flags.violation(cmd)
	if err != nil {
		return err
	}

	cliCfg := flags.run.cliConfig(cmd)
	cliCfg.Suppression.Marker = flags.marker

	s, err := loadSettings(cmd, globals, cliCfg)
	if err != nil {
		return err
	}

	return runTasks(cmd, globals, s, &flags.run, []runner.Task{{Path: target, Violation: &violation}})
}

// violation builds the violation from --violation or the position flags.
// --rule and --language override the decoded values.
func (f *suppressFlags) violation(cmd *cobra.Command) (suppress.Violation, error) {
	var violation suppress.Violation

	switch {
	case f.violationPath != "":
		data, err := readInput(cmd, f.violationPath)
		if err != nil {
			return violation, err
		}
		violation, err = suppress.ParseViolation(data)
		if err != nil {
			return violation, errors.Join(ErrUsage, err)
		}
	case f.line <= 0:
		return violation, fmt.Errorf("%w: --line or --violation is required", ErrUsage)
	default:
		start := document.Position{Line: f.line, Column: f.col}
		end := start
		if f.endLine > 0 {
			end.Line = f.endLine
		}
		if f.endCol > 0 {
			end.Column = f.endCol
		}
		violation.Range = document.Range{Start: start, End: end}
	}

	if cmd.Flags().Changed("rule") {
		violation.RuleIdentifier = f.rule
	}
	if cmd.Flags().Changed("language") {
		violation.Language = language.ParseTag(f.language)
	}

	return violation, nil
}
