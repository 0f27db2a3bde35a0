package pack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/refaudio/refpack/internal/build"
	"github.com/refaudio/refpack/internal/fsys"
	"github.com/refaudio/refpack/internal/paths"
)

// Controls a packaging run.
type Options struct {
	Output  string        // Output root. Destroyed and recreated by the run.
	Project string        // Project directory holding the build output and scripts.
	Binary  string        // Binary file name. Defaults to [paths.BinaryName].
	Bundle  string        // Script bundle name. Defaults to [paths.BundleName].
	Builder build.Builder // Release build of the native component.
	FS      fsys.FS       // Filesystem access. Defaults to [fsys.OS].
}

// Packages the plugin into opts.Output.
//
// Stages run in order and the first failure stops the run. The returned
// [Result] is never nil; its Outcome names the stage that failed. Invalid
// options (no output root or builder, an output root that would swallow the
// project or the script bundle, artifact names that are not plain file
// names) fail before anything is touched and are reported as ResetFailed.
func Run(ctx context.Context, opts Options) *Result {
	if err := opts.validate(); err != nil {
		return (&Result{Output: opts.Output}).fail(ResetFailed, err)
	}

	return newPipeline(opts).run(ctx)
}

// Checks required fields and fills in defaults.
func (o *Options) validate() error {
	if o.Output == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidOptions)
	}
	if o.Builder == nil {
		return fmt.Errorf("%w: builder is required", ErrInvalidOptions)
	}
	if o.Project == "" {
		o.Project = "."
	}
	if o.Binary == "" {
		o.Binary = paths.BinaryName
	}
	if o.Bundle == "" {
		o.Bundle = paths.BundleName
	}
	if o.FS == nil {
		o.FS = fsys.OS{}
	}

	if err := checkName("binary", o.Binary); err != nil {
		return err
	}
	if err := checkName("bundle", o.Bundle); err != nil {
		return err
	}

	output, err := absPath(o.Output)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	project, err := absPath(o.Project)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	scripts, err := absPath(paths.ScriptSource(o.Project, o.Bundle))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	// The reset removes the output root, so it must not hold any source.
	if within(project, output) {
		return fmt.Errorf("%w: output %s would remove project %s", ErrInvalidOptions, o.Output, o.Project)
	}
	if within(scripts, output) || within(output, scripts) {
		return fmt.Errorf("%w: output %s overlaps script bundle %s", ErrInvalidOptions, o.Output, scripts)
	}

	return nil
}

// Requires a single path element naming a file or directory.
func checkName(kind, name string) error {
	if name == "." || name == ".." || filepath.Base(name) != name || filepath.IsAbs(name) {
		return fmt.Errorf("%w: %s name %q must be a plain file name", ErrInvalidOptions, kind, name)
	}
	return nil
}

// Returns the absolute, cleaned form of path with any symlinks in its
// existing part resolved.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	// Resolve the longest existing prefix; the rest may not exist yet.
	rest := ""
	for dir := abs; ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
	}
}

// Whether path is dir or lies below it. Both must be absolute and clean.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Holds the resolved locations for one run.
type pipeline struct {
	fs        fsys.FS       // Filesystem access.
	builder   build.Builder // Release build.
	output    string        // Output root.
	binarySrc string        // Binary as left by the build.
	binaryDst string        // Binary inside the package.
	bundleSrc string        // Script bundle in the project.
	bundleDst string        // Script bundle inside the package.
}

// Creates a new [pipeline] from validated options.
func newPipeline(opts Options) *pipeline {
	return &pipeline{
		fs:        opts.FS,
		builder:   opts.Builder,
		output:    opts.Output,
		binarySrc: paths.BuildOutput(opts.Project, opts.Binary),
		binaryDst: paths.PluginBinary(opts.Output, opts.Binary),
		bundleSrc: paths.ScriptSource(opts.Project, opts.Bundle),
		bundleDst: paths.AutorunBundle(opts.Output, opts.Bundle),
	}
}

// Runs RESET, BUILD, STAGE_BINARY and STAGE_SCRIPTS.
func (p *pipeline) run(ctx context.Context) *Result {
	result := &Result{Output: p.output}

	slog.Info("resetting output directory", "path", p.output)
	if err := Reset(p.fs, p.output); err != nil {
		return result.fail(ResetFailed, err)
	}

	slog.Info("building release")
	if err := p.build(ctx); err != nil {
		return result.fail(BuildFailed, err)
	}

	slog.Info("staging binary", "src", p.binarySrc, "dest", p.binaryDst)
	d, err := StageBinary(p.fs, p.binarySrc, p.binaryDst)
	if err != nil {
		return result.fail(StageBinaryFailed, err)
	}
	result.Binary = p.binaryDst
	result.Digest = d

	slog.Info("staging scripts", "src", p.bundleSrc, "dest", p.bundleDst)
	if err := StageScripts(p.fs, p.bundleSrc, p.bundleDst); err != nil {
		return result.fail(StageScriptsFailed, err)
	}
	result.Bundle = p.bundleDst

	slog.Info("package ready", "path", p.output, "digest", d.String())
	return result
}

// Invokes the builder and classifies any failure as [ErrBuildFailure].
//
// A builder that returns no error but a non-zero exit code is also treated
// as a failure.
func (p *pipeline) build(ctx context.Context) error {
	result, err := p.builder.Build(ctx)
	if err != nil {
		if errors.Is(err, ErrBuildFailure) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrBuildFailure, err)
	}
	if result != nil && !result.Succeeded() {
		return fmt.Errorf("%w: exit code %d", ErrBuildFailure, result.ExitCode)
	}
	return nil
}
