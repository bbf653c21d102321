//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":     Build,
	"t":     Test.Default,
	"fmt":   Lint.Fmt,
	"gate":  CI.Gate,
	"smoke": Smoke,
}

// Namespace types group related targets.
type (
	Test st.Namespace
	Lint st.Namespace
	CI   st.Namespace
)

// Build compiles the quickfix binary with version info.
// Skips recompilation when source files have not changed.
func Build() error {
	rebuild, err := target.Dir("bin/quickfix", "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/quickfix is up to date")
		return nil
	}
	fmt.Println("Building quickfix...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/quickfix", "./cmd/quickfix")
}

// Clean removes build artifacts.
func Clean() error {
	if err := sh.Rm("bin"); err != nil {
		return err
	}
	return sh.Rm("coverage.out")
}

// Smoke builds quickfix and previews a sample fix and suppression on a
// scratch file.
func Smoke() error {
	st.Deps(Build)
	fmt.Println("Running smoke test...")

	dir, err := os.MkdirTemp("", "quickfix-smoke-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	sample := filepath.Join(dir, "main.py")
	if err := os.WriteFile(sample, []byte("def f():\n    return 1\n"), 0o644); err != nil {
		return fmt.Errorf("write sample: %w", err)
	}
	fixPath := filepath.Join(dir, "fix.json")
	sampleFix := `{"description": "rename", "edits": [{"editType": "update", "content": "g",
		"start": {"line": 1, "col": 5}, "end": {"line": 1, "col": 6}}]}`
	if err := os.WriteFile(fixPath, []byte(sampleFix), 0o644); err != nil {
		return fmt.Errorf("write fix: %w", err)
	}

	if err := sh.RunV("bin/quickfix", "--no-config", "apply", "--dry-run", "--format", "diff",
		"--fix", fixPath, sample); err != nil {
		return fmt.Errorf("apply fix: %w", err)
	}
	return sh.RunV("bin/quickfix", "--no-config", "suppress", "--dry-run", "--format", "diff",
		"--line", "2", "--col", "5", sample)
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race",
		"-p", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// Fuzz runs the position and fix fuzzers for FUZZTIME (default 30s) each.
func (Test) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	fuzzers := []struct{ name, pkg string }{
		{"FuzzToOffset", "./pkg/document"},
		{"FuzzApply", "./pkg/fix"},
	}
	for _, fz := range fuzzers {
		fmt.Printf("Fuzzing %s for %s...\n", fz.name, fuzzTime)
		if err := sh.RunV("go", "test", "-run", "^$", "-fuzz", "^"+fz.name+"$",
			"-fuzztime", fuzzTime, fz.pkg); err != nil {
			return fmt.Errorf("%s: %w", fz.name, err)
		}
	}
	return nil
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", "cmd", "internal", "pkg", "stavefile.go")
}

// Check verifies formatting and runs go vet.
func (Lint) Check() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg", "stavefile.go")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	return sh.RunV("go", "vet", "./...")
}

// Gate runs the checks required before merging.
func (CI) Gate() error {
	st.SerialDeps(Lint.Check, Build, Test.Default, CI.ModTidy, Smoke)
	fmt.Println("All gate checks passed")
	return nil
}

// ModTidy checks that go.mod and go.sum are tidy.
func (CI) ModTidy() error {
	modBefore, err := os.ReadFile("go.mod")
	if err != nil {
		return fmt.Errorf("read go.mod: %w", err)
	}
	sumBefore, err := os.ReadFile("go.sum")
	if err != nil {
		return fmt.Errorf("read go.sum: %w", err)
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	modAfter, err := os.ReadFile("go.mod")
	if err != nil {
		return fmt.Errorf("read go.mod after tidy: %w", err)
	}
	sumAfter, err := os.ReadFile("go.sum")
	if err != nil {
		return fmt.Errorf("read go.sum after tidy: %w", err)
	}

	if string(modBefore) != string(modAfter) || string(sumBefore) != string(sumAfter) {
		return errors.New("go.mod or go.sum changed after 'go mod tidy', commit the result")
	}
	return nil
}

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, date,
	)
}
