package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/refaudio/refpack/internal"
	"github.com/refaudio/refpack/internal/build"
	"github.com/refaudio/refpack/internal/pack"
	"github.com/refaudio/refpack/internal/paths"
)

// Represents the 'refpack package' command.
type PackageCmd struct {
	Output  string `short:"o" default:"${output}" help:"Output directory. Destroyed and recreated on every run." placeholder:"DIR"`
	Project string `short:"p" default:"." help:"Project directory containing Cargo.toml and scripts." placeholder:"DIR"`
	Binary  string `default:"${binary}" help:"File name of the compiled plugin." placeholder:"NAME"`
	Bundle  string `default:"${bundle}" help:"Name of the script bundle directory." placeholder:"NAME"`

	stdout io.Writer `kong:"-"` // Receives the summary line. Defaults to os.Stdout.
	stderr io.Writer `kong:"-"` // Receives the build output. Defaults to os.Stderr.
}

// Creates the release builder for a project. Tests replace it.
var newBuilder = func(project string, log io.Writer) build.Builder {
	return build.Cargo{Dir: project, Log: log}
}

// Executes the package command.
//
// Runs the packaging pipeline and reports the stage that failed, if any.
// Build output is mirrored to stderr (unless quiet) and to the build log in
// the state directory.
func (c *PackageCmd) Run(ctx context.Context) error {
	logFile := openBuildLog()
	if logFile != nil {
		defer logFile.Close()
	}

	result := pack.Run(ctx, pack.Options{
		Output:  c.Output,
		Project: c.Project,
		Binary:  c.Binary,
		Bundle:  c.Bundle,
		Builder: newBuilder(c.Project, c.buildOutput(logFile)),
	})

	if !result.OK() {
		slog.Debug("packaging stopped", "stage", result.Outcome.String())
		if result.Outcome == pack.BuildFailed && logFile != nil {
			slog.Info("build log written", "path", logFile.Name())
		}
		return result.Err
	}

	abs, err := filepath.Abs(result.Output)
	if err != nil {
		abs = result.Output
	}
	fmt.Fprintf(writerOr(c.stdout, os.Stdout), "packaged %s into %s\n", c.Binary, abs)
	return nil
}

// Returns the writer that receives the build output as it is produced.
func (c *PackageCmd) buildOutput(logFile *os.File) io.Writer {
	var writers []io.Writer
	if logFile != nil {
		writers = append(writers, logFile)
	}
	if !internal.IsQuiet() {
		writers = append(writers, writerOr(c.stderr, os.Stderr))
	}
	if len(writers) == 0 {
		return nil
	}
	return io.MultiWriter(writers...)
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}

// Opens the build log for writing, truncating the previous one.
//
// A log that cannot be opened is not fatal; the build runs without it.
func openBuildLog() *os.File {
	if err := os.MkdirAll(paths.State(), paths.DefaultDirMode); err != nil {
		slog.Warn("build log disabled", "error", err)
		return nil
	}
	f, err := os.OpenFile(paths.BuildLog(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		slog.Warn("build log disabled", "error", err)
		return nil
	}
	return f
}
