package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/refaudio/refpack/internal"
	"github.com/refaudio/refpack/internal/pack"
	"github.com/refaudio/refpack/internal/paths"
)

// Process exit statuses.
const (
	ExitSuccess         = 0 // The package was assembled.
	ExitFailure         = 1 // Usage or unexpected error.
	ExitBuildFailed     = 2 // The release build failed.
	ExitFileSystem      = 3 // The output root could not be reset or staging failed.
	ExitMissingArtifact = 4 // The build succeeded but left no binary.
)

// Represents the root command for refpack.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Suppress informational output."`
	Verbose bool       `short:"v" help:"Enable verbose output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Package PackageCmd `cmd:"" default:"withargs" help:"Build the plugin and assemble the package (default)."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Level of the default logger, adjustable after flag parsing.
var logLevel slog.LevelVar

// Creates the process logger seeded from build-time linker flags.
//
// The level is reconfigured after flag parsing via [Execute].
func Logger() *slog.Logger {
	logLevel.Set(internal.LogLevel())
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     &logLevel,
		AddSource: internal.IsVerbose(),
	})
	return slog.New(handler).WithGroup(internal.Name)
}

// Parses arguments, configures logging, and runs the selected subcommand.
//
// The context is never cancelled by refpack itself; a running build is
// waited on until it terminates.
func Execute(args []string) error {
	parser, err := kong.New(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Builds the ref_audio_engine plugin and stages it with its scripts into a REFramework package."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
			"output":  paths.DefaultOutput,
			"binary":  paths.BinaryName,
			"bundle":  paths.BundleName,
		},
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	configureLogger()

	return kongCtx.Run()
}

// Applies the CLI flags to the global mode switches and reinstalls the
// default logger so the level and source attributes reflect them.
func configureLogger() {
	if RootCmd.Debug {
		internal.SetDebug(true)
	}
	if RootCmd.Quiet {
		internal.SetQuiet(true)
	}
	if RootCmd.Verbose {
		internal.SetVerbose(true)
	}

	slog.SetDefault(Logger())
}

// Maps an error returned by [Execute] to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, pack.ErrBuildFailure):
		return ExitBuildFailed
	case errors.Is(err, pack.ErrMissingArtifact):
		return ExitMissingArtifact
	case errors.Is(err, pack.ErrFileSystem):
		return ExitFileSystem
	}
	return ExitFailure
}
