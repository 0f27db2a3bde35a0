// Package pack assembles the distributable plugin package.
//
// A run is a strictly linear pipeline of four stages:
//
//	RESET → BUILD → STAGE_BINARY → STAGE_SCRIPTS
//
// The output root is first destroyed and recreated empty. The release build
// is then invoked and waited on. Only when it succeeds is the compiled
// binary copied to reframework/plugins and the script bundle copied to
// reframework/autorun. The first failing stage ends the run; nothing is
// retried and nothing is rolled back beyond the empty output root left by
// the reset.
//
// [Run] reports which stage failed through [Result.Outcome], and the error
// in [Result.Err] matches one of [ErrFileSystem], [ErrBuildFailure] or
// [ErrMissingArtifact] with errors.Is.
//
// Filesystem access and the build are injected through fsys.FS and
// build.Builder, so a run can be exercised without a compiler.
//
// Example usage:
//
//	result := pack.Run(ctx, pack.Options{
//	    Output:  "publish",
//	    Project: ".",
//	    Builder: build.Cargo{Dir: "."},
//	})
//	if result.Err != nil {
//	    return result.Err
//	}
package pack
