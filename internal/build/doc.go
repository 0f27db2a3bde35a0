// Package build invokes the release build of the native plugin.
//
// The pipeline only needs to know whether a build succeeded, so the build is
// modelled as a [Builder] with a single operation. [Cargo] runs "cargo build
// --release" on the host, waits for it to terminate and reports the exit
// status. Output of the build process is captured as opaque diagnostics and
// optionally mirrored to a log writer; it is never parsed.
//
// A non-zero exit status, or a build command that cannot be started, is
// reported as [ErrBuildFailed]. There is no timeout. The build stops early
// only if the caller cancels the context.
//
// Example usage:
//
//	result, err := build.Cargo{Dir: "."}.Build(ctx)
//	if errors.Is(err, build.ErrBuildFailed) {
//	    fmt.Println("build exited with", result.ExitCode)
//	}
package build
