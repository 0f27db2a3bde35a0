// Parses flags, configures logging and runs the refpack commands.
//
// refpack accepts the following global flags:
//
//	-q, --quiet     Suppress informational output and the build output.
//	-v, --verbose   Include source locations in log records.
//	-d, --debug     Enable debug output.
//
// The package command is the default, so running refpack with no arguments
// packages the project in the working directory into ./publish.
//
// Flags override build-time defaults set via linker flags. After parsing,
// the global logger is reconfigured to reflect the final level before the
// command runs. [ExitCode] maps a command error to the process exit status.
package cli
