package cli_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/internal/cli"
	"github.com/yaklabco/quickfix/pkg/reporter"
)

const (
	testPython = "x = 1\ny = 2\n"

	// renameFix replaces "y" on line 2 with "z".
	renameFix = `{"description": "rename y", "edits": [
		{"editType": "update", "content": "z", "start": {"line": 2, "col": 1}, "end": {"line": 2, "col": 2}}]}`

	// identityFix replaces "y" on line 2 with "y".
	identityFix = `{"description": "keep y", "edits": [
		{"editType": "update", "content": "y", "start": {"line": 2, "col": 1}, "end": {"line": 2, "col": 2}}]}`

	// overlappingFix has two updates sharing column 2 of line 1.
	overlappingFix = `{"description": "overlap", "edits": [
		{"editType": "update", "content": "a", "start": {"line": 1, "col": 1}, "end": {"line": 1, "col": 3}},
		{"editType": "update", "content": "b", "start": {"line": 1, "col": 2}, "end": {"line": 1, "col": 4}}]}`
)

// executeCommand runs quickfix with args, ignoring every config file.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testBuildInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(append([]string{"--no-config", "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func decodeReport(t *testing.T, stdout string) reporter.JSONOutput {
	t.Helper()

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out), "stdout: %s", stdout)
	return out
}

func TestIntegration_ApplyFix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeFile(t, dir, "main.py", testPython)
	fixPath := writeFile(t, dir, "fix.json", renameFix)

	stdout, _, err := executeCommand(t, nil, "apply", "--fix", fixPath, target)
	require.NoError(t, err)

	assert.Equal(t, "x = 1\nz = 2\n", readFile(t, target))
	assert.Equal(t, testPython, readFile(t, target+".quickfix.bak"))
	assert.Contains(t, stdout, "applied")
}

func TestIntegration_ApplyFixFromStdin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeFile(t, dir, "main.py", testPython)

	_, _, err := executeCommand(t, strings.NewReader(renameFix), "apply", "--no-backups", target)
	require.NoError(t, err)

	assert.Equal(t, "x = 1\nz = 2\n", readFile(t, target))
	assert.NoFileExists(t, target+".quickfix.bak")
}

func TestIntegration_ApplyDryRunDiff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeFile(t, dir, "main.py", testPython)
	fixPath := writeFile(t, dir, "fix.json", renameFix)

	stdout, _, err := executeCommand(t, nil,
		"apply", "--fix", fixPath, "--dry-run", "--format", "diff", target)
	require.NoError(t, err)

	assert.Equal(t, testPython, readFile(t, target), "dry run must not write")
	assert.NoFileExists(t, target+".quickfix.bak")
	assert.Contains(t, stdout, "-y = 2")
	assert.Contains(t, stdout, "+z = 2")
	assert.Contains(t, stdout, "1 file changed")
}

func TestIntegration_ApplyRejectsOverlap(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeFile(t, dir, "main.py", testPython)
	fixPath := writeFile(t, dir, "fix.json", overlappingFix)

	stdout, _, err := executeCommand(t, nil, "apply", "--fix", fixPath, "--format", "json", target)
	require.ErrorIs(t, err, cli.ErrTasksNotApplied)
	assert.Equal(t, cli.ExitTasksNotApplied, cli.ExitCodeFromError(err))

	assert.Equal(t, testPython, readFile(t, target), "rejected fix must leave the file untouched")

	out := decodeReport(t, stdout)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "rejected", out.Tasks[0].Status)
	assert.Equal(t, "overlapping-edits", out.Tasks[0].Kind)
	assert.Equal(t, 1, out.Summary.Rejected)
}

func TestIntegration_ApplyIdentityFixSucceeds(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeFile(t, dir, "main.py", testPython)
	fixPath := writeFile(t, dir, "fix.json", identityFix)

	stdout, _, err := executeCommand(t, nil, "apply", "--fix", fixPath, "--format", "json", target)
	require.NoError(t, err)
	assert.Equal(t, cli.ExitSuccess, cli.ExitCodeFromError(err))

	assert.Equal(t, testPython, readFile(t, target))
	assert.NoFileExists(t, target+".quickfix.bak")

	out := decodeReport(t, stdout)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "unchanged", out.Tasks[0].Status)
	assert.Empty(t, out.Tasks[0].Kind)
	assert.Equal(t, 1, out.Summary.Unchanged)
	assert.Zero(t, out.Summary.FilesModified)
}

func TestIntegration_ApplyMissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fixPath := writeFile(t, dir, "fix.json", renameFix)

	stdout, _, err := executeCommand(t, nil,
		"apply", "--fix", fixPath, "--format", "json", filepath.Join(dir, "missing.py"))
	require.ErrorIs(t, err, cli.ErrTasksNotApplied)

	out := decodeReport(t, stdout)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "error", out.Tasks[0].Status)
	assert.NotEmpty(t, out.Tasks[0].Error)
}

func TestIntegration_ApplyBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pyFile := writeFile(t, dir, "main.py", testPython)
	goFile := writeFile(t, dir, "main.go", "package main\n\nfunc main() {\n\tprintln(1)\n}\n")

	tasks := `[
		{"path": ` + jsonString(pyFile) + `, "fix": ` + renameFix + `},
		{"path": ` + jsonString(pyFile) + `, "violation": {
			"range": {"start": {"line": 2, "col": 1}, "end": {"line": 2, "col": 6}},
			"ruleIdentifier": "unused-variable"}},
		{"path": ` + jsonString(goFile) + `, "violation": {
			"range": {"start": {"line": 4, "col": 2}, "end": {"line": 4, "col": 12}},
			"ruleIdentifier": "no-println", "language": "go"}}
	]`
	batchPath := writeFile(t, dir, "tasks.json", tasks)

	stdout, _, err := executeCommand(t, nil, "apply", "--batch", batchPath, "--format", "json")
	require.NoError(t, err)

	assert.Equal(t, "x = 1\n# codiga-disable\nz = 2\n", readFile(t, pyFile))
	assert.Equal(t, "package main\n\nfunc main() {\n\t// codiga-disable\n\tprintln(1)\n}\n", readFile(t, goFile))

	out := decodeReport(t, stdout)
	require.Len(t, out.Tasks, 3)
	assert.Equal(t, 3, out.Summary.Changed)
	assert.Equal(t, 2, out.Summary.FilesModified)
	for _, task := range out.Tasks {
		assert.Equal(t, "applied", task.Status)
	}
}

func TestIntegration_ApplyUsageErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeFile(t, dir, "main.py", testPython)
	batchPath := writeFile(t, dir, "tasks.json", "[]")
	fixPath := writeFile(t, dir, "fix.json", renameFix)
	badFix := writeFile(t, dir, "bad.json", "{not json")

	tests := []struct {
		name string
		args []string
	}{
		{"no file and no batch", []string{"apply"}},
		{"batch with file", []string{"apply", "--batch", batchPath, target}},
		{"batch with fix", []string{"apply", "--batch", batchPath, "--fix", fixPath}},
		{"invalid fix json", []string{"apply", "--fix", badFix, target}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := executeCommand(t, nil, tt.args...)
			require.ErrorIs(t, err, cli.ErrUsage)
			assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCodeFromError(err))
		})
	}

	assert.Equal(t, testPython, readFile(t, target))
}

func TestIntegration_Suppress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		content  string
		args     []string
		expected string
	}{
		{
			name:     "python indented line",
			file:     "main.py",
			content:  "def f():\n    return 1\n",
			args:     []string{"--line", "2", "--col", "5"},
			expected: "def f():\n    # codiga-disable\n    return 1\n",
		},
		{
			name:     "custom marker",
			file:     "main.go",
			content:  "package main\n\nvar x = 1\n",
			args:     []string{"--line", "3", "--marker", "nolint"},
			expected: "package main\n\n// nolint\nvar x = 1\n",
		},
		{
			name:     "forced language",
			file:     "query.txt",
			content:  "SELECT *\nFROM t\n",
			args:     []string{"--line", "1", "--language", "sql"},
			expected: "-- codiga-disable\nSELECT *\nFROM t\n",
		},
		{
			name:     "crlf line endings",
			file:     "main.rb",
			content:  "a = 1\r\n  b = 2\r\n",
			args:     []string{"--line", "2", "--col", "3"},
			expected: "a = 1\r\n  # codiga-disable\r\n  b = 2\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			target := writeFile(t, dir, tt.file, tt.content)

			args := append([]string{"suppress", "--no-backups"}, tt.args...)
			_, _, err := executeCommand(t, nil, append(args, target)...)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, readFile(t, target))
		})
	}
}

func TestIntegration_SuppressViolationFromStdin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeFile(t, dir, "app.ts", "const a = 1;\nlet b = 2;\n")

	violation := `{"range": {"start": {"line": 2, "col": 1}, "end": {"line": 2, "col": 4}},
		"ruleIdentifier": "prefer-const", "language": "typescript"}`

	_, _, err := executeCommand(t, strings.NewReader(violation),
		"suppress", "--violation", "-", "--no-backups", target)
	require.NoError(t, err)

	assert.Equal(t, "const a = 1;\n// codiga-disable\nlet b = 2;\n", readFile(t, target))
}

func TestIntegration_SuppressFailures(t *testing.T) {
	t.Parallel()

	t.Run("unsupported language", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		target := writeFile(t, dir, "notes.txt", "hello\n")

		stdout, _, err := executeCommand(t, nil, "suppress", "--line", "1", "--format", "json", target)
		require.ErrorIs(t, err, cli.ErrTasksNotApplied)
		assert.Equal(t, "hello\n", readFile(t, target))

		out := decodeReport(t, stdout)
		require.Len(t, out.Tasks, 1)
		assert.Equal(t, "rejected", out.Tasks[0].Status)
		assert.Equal(t, "unsupported-language", out.Tasks[0].Kind)
	})

	t.Run("row out of range", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		target := writeFile(t, dir, "main.py", testPython)

		stdout, _, err := executeCommand(t, nil, "suppress", "--line", "10", "--format", "json", target)
		require.ErrorIs(t, err, cli.ErrTasksNotApplied)
		assert.Equal(t, testPython, readFile(t, target))

		out := decodeReport(t, stdout)
		require.Len(t, out.Tasks, 1)
		assert.Equal(t, "row-out-of-range", out.Tasks[0].Kind)
	})

	t.Run("missing line", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		target := writeFile(t, dir, "main.py", testPython)

		_, _, err := executeCommand(t, nil, "suppress", target)
		require.ErrorIs(t, err, cli.ErrUsage)
	})
}

func TestIntegration_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "quickfix.yml", `
suppression:
  marker: quickfix-ignore
comment_tokens:
  sql: "#"
backups:
  mode: none
`)
	target := writeFile(t, dir, "query.txt", "SELECT 1\n")

	_, _, err := executeCommand(t, nil,
		"--config", cfgPath, "suppress", "--line", "1", "--language", "sql", target)
	require.NoError(t, err)

	assert.Equal(t, "# quickfix-ignore\nSELECT 1\n", readFile(t, target))
	assert.NoFileExists(t, target+".quickfix.bak")
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "quickfix.yml", "conflicts: sometimes\n")
	target := writeFile(t, dir, "main.py", testPython)

	_, _, err := executeCommand(t, nil, "--config", cfgPath, "suppress", "--line", "1", target)
	require.ErrorIs(t, err, cli.ErrConfig)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCodeFromError(err))
	assert.Equal(t, testPython, readFile(t, target))
}

func TestIntegration_ConfigInit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, ".quickfix.yml")

	_, _, err := executeCommand(t, nil, "config", "init", "--output", yamlPath)
	require.NoError(t, err)
	content := readFile(t, yamlPath)
	assert.Contains(t, content, "marker: codiga-disable")
	assert.Contains(t, content, "conflicts: reject")

	_, _, err = executeCommand(t, nil, "config", "init", "--output", yamlPath)
	require.Error(t, err, "existing file must not be overwritten")

	_, _, err = executeCommand(t, nil, "config", "init", "--full", "--force", "--output", yamlPath)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, yamlPath), `python: "#"`)

	jsonPath := filepath.Join(dir, ".quickfix.json")
	_, _, err = executeCommand(t, nil, "config", "init", "--format", "json", "--output", jsonPath)
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, jsonPath)), &cfg))
	assert.Equal(t, "reject", cfg["conflicts"])

	_, _, err = executeCommand(t, nil, "config", "init", "--format", "toml", "--output", jsonPath)
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_ConfigShow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "quickfix.yml", "suppression:\n  marker: nolint\n")

	stdout, _, err := executeCommand(t, nil, "--config", cfgPath, "config", "show")
	require.NoError(t, err)

	assert.Contains(t, stdout, "# Loaded from: "+cfgPath)
	assert.Contains(t, stdout, "marker: nolint")
	assert.Contains(t, stdout, "conflicts: reject")
}

func TestIntegration_ConfigEnvAndPath(t *testing.T) {
	t.Parallel()

	stdout, _, err := executeCommand(t, nil, "config", "env")
	require.NoError(t, err)
	assert.Contains(t, stdout, "QUICKFIX_")

	stdout, _, err = executeCommand(t, nil, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, stdout, "explicit:")
	assert.Contains(t, stdout, "using defaults")
}

func TestIntegration_Languages(t *testing.T) {
	t.Parallel()

	t.Run("json list", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCommand(t, nil, "languages", "--format", "json")
		require.NoError(t, err)

		var infos []struct {
			Language string `json:"language"`
			Token    string `json:"token"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &infos))

		tokens := make(map[string]string, len(infos))
		for _, info := range infos {
			tokens[info.Language] = info.Token
		}
		assert.Equal(t, "#", tokens["python"])
		assert.Equal(t, "//", tokens["go"])
		assert.Equal(t, "--", tokens["sql"])
	})

	t.Run("text list", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeCommand(t, nil, "languages")
		require.NoError(t, err)
		assert.Contains(t, stdout, "python")
		assert.Contains(t, stdout, "terraform")
	})

	t.Run("detect files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		pyFile := writeFile(t, dir, "main.py", testPython)
		script := writeFile(t, dir, "run", "#!/bin/bash\necho hi\n")

		stdout, _, err := executeCommand(t, nil, "languages", "--format", "json", pyFile, script)
		require.NoError(t, err)

		var infos []struct {
			Path     string `json:"path"`
			Language string `json:"language"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
		require.Len(t, infos, 2)
		assert.Equal(t, "python", infos[0].Language)
		assert.Equal(t, "shell", infos[1].Language)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeCommand(t, nil, "languages", "--format", "table")
		require.ErrorIs(t, err, cli.ErrUsage)
	})
}

func jsonString(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}
