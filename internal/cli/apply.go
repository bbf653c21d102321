package cli

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/runner"
)

type applyFlags struct {
	run       runFlags
	fixPath   string
	batchPath string
}

func newApplyCommand(globals *globalFlags) *cobra.Command {
	flags := &applyFlags{}

	cmd := &cobra.Command{
		Use:     "apply [file]",
		Short:   "Apply a fix to a file, or a batch of fixes and suppressions",
		Long:    applyLongDescription,
		Example: applyExamples,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args, globals, flags)
		},
	}

	cmd.Flags().StringVar(&flags.fixPath, "fix", stdinPath, "fix JSON file, or - for stdin")
	cmd.Flags().StringVar(&flags.batchPath, "batch", "", "task list JSON file, or - for stdin")
	addRunFlags(cmd, &flags.run)

	return cmd
}

const applyLongDescription = `Apply an analyzer fix to a file.

A fix is a JSON object with a description and a list of edits:

  {"description": "use const",
   "edits": [{"editType": "update", "content": "const",
              "start": {"line": 3, "col": 1}, "end": {"line": 3, "col": 4}}]}

Lines and columns are 1-based. Edit types are add, remove and update;
other types are skipped. A fix whose edits are malformed, out of range or
overlapping is rejected and the file is left untouched.

With --batch, reads a JSON array of tasks instead, each naming a path and
either a fix or a violation to suppress. Tasks on the same file run in
order, each seeing the result of the previous one.`

const applyExamples = `  quickfix apply --fix fix.json main.py            # Apply one fix
  analyzer --fix | quickfix apply main.py          # Read the fix from stdin
  quickfix apply --fix fix.json --dry-run main.py  # Show the diff only
  quickfix apply --batch tasks.json --format json  # Apply a batch, JSON report`

func runApply(cmd *cobra.Command, args []string, globals *globalFlags, flags *applyFlags) error {
	batch := flags.batchPath != ""
	switch {
	case batch && len(args) > 0:
		return fmt.Errorf("%w: --batch takes no file argument", ErrUsage)
	case batch && cmd.Flags().Changed("fix"):
		return fmt.Errorf("%w: --batch and --fix are mutually exclusive", ErrUsage)
	case !batch && len(args) == 0:
		return fmt.Errorf("%w: a file to fix or --batch is required", ErrUsage)
	}

	s, err := loadSettings(cmd, globals, flags.run.cliConfig(cmd))
	if err != nil {
		return err
	}

	var tasks []runner.Task
	if batch {
		tasks, err = readTasks(cmd, flags.batchPath)
	} else {
		tasks, err = readFixTask(cmd, flags.fixPath, args[0])
	}
	if err != nil {
		return err
	}

	return runTasks(cmd, globals, s, &flags.run, tasks)
}

func readTasks(cmd *cobra.Command, path string) ([]runner.Task, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}

	tasks, err := runner.DecodeTasks(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Join(ErrUsage, err)
	}
	return tasks, nil
}

func readFixTask(cmd *cobra.Command, fixPath, target string) ([]runner.Task, error) {
	data, err := readInput(cmd, fixPath)
	if err != nil {
		return nil, err
	}

	f, err := fix.ParseFix(data)
	if err != nil {
		return nil, errors.Join(ErrUsage, err)
	}
	return []runner.Task{{Path: target, Fix: &f}}, nil
}
