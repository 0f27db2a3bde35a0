package main

import (
	"log/slog"
	"os"

	"github.com/refaudio/refpack/internal"
	"github.com/refaudio/refpack/internal/cli"
)

// The entry point for refpack.
//
// Initializes logging, displays startup information, and executes the root
// command. A failed run is logged and mapped to a non-zero exit code that
// identifies the failing stage.
func main() {
	slog.SetDefault(cli.Logger())

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("refpack is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(os.Args[1:]); err != nil {
		slog.Error(err.Error())
		os.Exit(cli.ExitCode(err))
	}
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
