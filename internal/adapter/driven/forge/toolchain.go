// Package forge implements the Formatter and Builder ports on top of the
// Foundry toolchain (the forge executable).
package forge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ericfisherdev/solfmtbot/internal/domain/model"
	"github.com/ericfisherdev/solfmtbot/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.Formatter = (*Toolchain)(nil)
	_ driven.Builder   = (*Toolchain)(nil)
)

const defaultBinary = "forge"

// Toolchain invokes forge against a single project checkout. The style
// profile is resolved once at construction from the project's foundry.toml
// (or built-in defaults) and held for the lifetime of the run.
type Toolchain struct {
	repoDir    string
	bin        string
	configPath string // explicit style artifact, exported as FOUNDRY_CONFIG; empty for the conventional lookup
	style      model.StyleProfile
}

// NewToolchain creates a Toolchain for the project at repoDir. stylePath
// overrides where the style configuration artifact is looked up; empty means
// repoDir/foundry.toml. An explicitly named artifact must exist and is
// handed to every forge invocation through FOUNDRY_CONFIG, so the
// subprocess reads the same profile the run reports. The default lookup
// falls back to built-in defaults when absent.
func NewToolchain(repoDir, stylePath string) (*Toolchain, error) {
	if stylePath != "" {
		abs, err := filepath.Abs(stylePath)
		if err != nil {
			return nil, fmt.Errorf("resolving style configuration path %s: %w", stylePath, err)
		}
		stylePath = abs
	}

	style, err := LoadStyle(repoDir, stylePath)
	if err != nil {
		return nil, err
	}

	return &Toolchain{
		repoDir:    repoDir,
		bin:        defaultBinary,
		configPath: stylePath,
		style:      style,
	}, nil
}

// NewToolchainWithBinary creates a Toolchain invoking the given binary
// instead of forge. This constructor is intended for testing with stub
// executables.
func NewToolchainWithBinary(repoDir, stylePath, bin string) (*Toolchain, error) {
	t, err := NewToolchain(repoDir, stylePath)
	if err != nil {
		return nil, err
	}
	t.bin = bin
	return t, nil
}

// Style returns the resolved formatting profile.
func (t *Toolchain) Style() model.StyleProfile {
	return t.style
}

// Check runs `forge fmt --check` against a single file. Exit code 0 means
// compliant, exit code 1 means the file needs formatting; anything else is
// an invocation failure.
func (t *Toolchain) Check(ctx context.Context, file string) (bool, error) {
	err := t.run(ctx, "fmt", "--check", file)
	if err == nil {
		return true, nil
	}

	var ee *exitCodeError
	if errors.As(err, &ee) && ee.code == 1 {
		slog.Debug("format check failed", "file", file)
		return false, nil
	}
	return false, fmt.Errorf("format check on %s: %w", file, err)
}

// Format rewrites a single file in place via `forge fmt`.
func (t *Toolchain) Format(ctx context.Context, file string) error {
	if err := t.run(ctx, "fmt", file); err != nil {
		return fmt.Errorf("formatting %s: %w", file, err)
	}
	return nil
}

// Build compiles the project with `forge build --force`, clearing cache and
// artifacts so the result reflects the sources alone. A compile failure is
// reported in the BuildReport; the error return covers invocation problems
// only.
func (t *Toolchain) Build(ctx context.Context) (model.BuildReport, error) {
	start := time.Now()

	cmd := t.command(ctx, "build", "--force")

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()
	report := model.BuildReport{
		Success:  err == nil,
		Output:   combined.String(),
		Duration: time.Since(start).Round(time.Millisecond),
	}

	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			// The toolchain ran and the compile failed; that is a result,
			// not an invocation error.
			return report, nil
		}
		return report, fmt.Errorf("running %s build: %w", t.bin, err)
	}
	return report, nil
}

// command builds a forge invocation rooted in the project directory. An
// explicitly named style artifact is exported as FOUNDRY_CONFIG; otherwise
// the subprocess resolves foundry.toml by its own convention.
func (t *Toolchain) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, t.bin, args...)
	cmd.Dir = t.repoDir
	if t.configPath != "" {
		cmd.Env = append(os.Environ(), "FOUNDRY_CONFIG="+t.configPath)
	}
	return cmd
}

// run executes one forge subcommand in the project directory. Exit failures
// come back as *exitCodeError so callers can branch on the code.
func (t *Toolchain) run(ctx context.Context, args ...string) error {
	start := time.Now()

	cmd := t.command(ctx, args...)

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()

	slog.Debug("forge command",
		"args", strings.Join(args, " "),
		"duration", time.Since(start).Round(time.Millisecond),
		"ok", err == nil,
	)

	if err == nil {
		return nil
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &exitCodeError{
			code:   ee.ExitCode(),
			output: strings.TrimSpace(combined.String()),
		}
	}
	return err
}

// exitCodeError carries a forge exit code plus its trimmed combined output.
type exitCodeError struct {
	code   int
	output string
}

func (e *exitCodeError) Error() string {
	if e.output == "" {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return fmt.Sprintf("exit status %d: %s", e.code, e.output)
}
