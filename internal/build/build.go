package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

const (

	// Build tool invoked by [Cargo] when no command is set.
	defaultCommand = "cargo"

	// Exit code reported when the build command cannot be started.
	exitNotStarted = 127
)

// Arguments passed to the build tool for a release build.
var releaseArgs = []string{"build", "--release"}

// Runs a release build of the native component.
type Builder interface {
	Build(ctx context.Context) (*Result, error)
}

// Outcome of a single build invocation.
type Result struct {
	ExitCode int    // Exit status of the build process. Zero on success.
	Output   []byte // Combined stdout and stderr, opaque to the pipeline.
}

// Whether the build terminated with a success status.
func (r *Result) Succeeded() bool {
	return r != nil && r.ExitCode == 0
}

// Adapts an ordinary function to a [Builder].
type Func func(ctx context.Context) (*Result, error)

// Calls f(ctx).
func (f Func) Build(ctx context.Context) (*Result, error) {
	return f(ctx)
}

// Builds the plugin with cargo on the host.
type Cargo struct {
	Dir     string    // Project directory containing Cargo.toml. Empty uses the working directory.
	Command string    // Build tool executable. Empty uses "cargo".
	Log     io.Writer // Receives the build output as it is produced. May be nil.
}

// Runs "cargo build --release" and blocks until it terminates.
//
// The returned [Result] is never nil. A non-zero exit status, or a command
// that could not be started, yields an error wrapping [ErrBuildFailed].
func (c Cargo) Build(ctx context.Context) (*Result, error) {
	name := c.Command
	if name == "" {
		name = defaultCommand
	}

	var output bytes.Buffer
	w := io.Writer(&output)
	if c.Log != nil {
		w = io.MultiWriter(&output, c.Log)
	}

	cmd := exec.CommandContext(ctx, name, releaseArgs...)
	cmd.Dir = c.Dir
	cmd.Stdout = w
	cmd.Stderr = w

	slog.Debug("running build", "command", cmd.String(), "dir", c.Dir)

	err := cmd.Run()
	result := &Result{
		ExitCode: exitCode(cmd.ProcessState, err),
		Output:   output.Bytes(),
	}

	if err != nil {
		return result, fmt.Errorf("%w: exit code %d: %w", ErrBuildFailed, result.ExitCode, err)
	}

	return result, nil
}

// Maps the outcome of exec.Cmd.Run to a process exit code.
//
// A nil state means the process never started (missing executable, bad
// working directory).
func exitCode(state *os.ProcessState, err error) int {
	if err == nil {
		return 0
	}
	if state == nil {
		return exitNotStarted
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}

	return 1
}
