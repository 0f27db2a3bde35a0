package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/refaudio/refpack/internal/build"
	"github.com/refaudio/refpack/internal/pack"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitSuccess},
		{"build failure", fmt.Errorf("%w: exit code 1", pack.ErrBuildFailure), ExitBuildFailed},
		{"missing artifact", fmt.Errorf("%w: target/release/x.dll", pack.ErrMissingArtifact), ExitMissingArtifact},
		{"file system", fmt.Errorf("%w: permission denied", pack.ErrFileSystem), ExitFileSystem},
		{"other", errors.New("unexpected argument"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	err := Execute([]string{"publish-to-nexus"})
	if err == nil {
		t.Fatal("expected error for unknown argument")
	}
	if got := ExitCode(err); got != ExitFailure {
		t.Fatalf("ExitCode = %d, want %d", got, ExitFailure)
	}
}

// Creates a project with a release binary and a one-file script bundle.
func newProject(t *testing.T) string {
	t.Helper()
	project := t.TempDir()
	files := map[string]string{
		"target/release/ref_audio_engine.dll": "binary",
		"scripts/_AudioEngine/init.lua":       "-- init",
	}
	for rel, content := range files {
		path := filepath.Join(project, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return project
}

// Points the state directory, and so the build log, at a temporary location.
func isolateState(t *testing.T) string {
	t.Helper()
	state := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_STATE_HOME", state)
	xdg.Reload()
	return state
}

// Replaces the cargo builder with one that prints a line and exits with code.
func stubBuilder(t *testing.T, code int) {
	t.Helper()
	orig := newBuilder
	t.Cleanup(func() { newBuilder = orig })

	newBuilder = func(project string, log io.Writer) build.Builder {
		return build.Func(func(ctx context.Context) (*build.Result, error) {
			if log != nil {
				fmt.Fprintf(log, "Compiling ref_audio_engine in %s\n", project)
			}
			result := &build.Result{ExitCode: code}
			if code != 0 {
				return result, build.ErrBuildFailed
			}
			return result, nil
		})
	}
}

func requireEmptyDir(t *testing.T, path string) {
	t.Helper()
	entries, err := os.ReadDir(path)
	if err != nil {
		t.Fatalf("output root missing: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("output root has %d entries, want none", len(entries))
	}
}

func TestExecuteDefaultsToPackage(t *testing.T) {
	isolateState(t)
	stubBuilder(t, 0)
	project := newProject(t)
	t.Chdir(project)

	if err := Execute(nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for _, rel := range []string{
		"publish/reframework/plugins/ref_audio_engine.dll",
		"publish/reframework/autorun/_AudioEngine/init.lua",
	} {
		if _, err := os.Stat(filepath.Join(project, filepath.FromSlash(rel))); err != nil {
			t.Errorf("%s not staged: %v", rel, err)
		}
	}
}

func TestExecuteBuildFailure(t *testing.T) {
	isolateState(t)
	stubBuilder(t, 1)
	project := newProject(t)
	t.Chdir(project)

	err := Execute([]string{"package"})
	if err == nil {
		t.Fatal("expected build failure")
	}
	if !strings.Contains(err.Error(), "failed to build the package") {
		t.Fatalf("err = %q, want failure message", err)
	}
	if got := ExitCode(err); got != ExitBuildFailed {
		t.Fatalf("ExitCode = %d, want %d", got, ExitBuildFailed)
	}

	requireEmptyDir(t, filepath.Join(project, "publish"))
}

func TestExecuteRejectsOutputOverProject(t *testing.T) {
	isolateState(t)
	stubBuilder(t, 0)
	project := newProject(t)
	t.Chdir(project)

	err := Execute([]string{"-o", "."})
	if !errors.Is(err, pack.ErrInvalidOptions) {
		t.Fatalf("err = %v, want ErrInvalidOptions", err)
	}
	if _, err := os.Stat(filepath.Join(project, "scripts", "_AudioEngine", "init.lua")); err != nil {
		t.Fatalf("project sources removed: %v", err)
	}
}

func TestPackageCmd(t *testing.T) {
	state := isolateState(t)
	stubBuilder(t, 0)
	project := newProject(t)
	output := filepath.Join(t.TempDir(), "publish")
	var stdout, stderr bytes.Buffer

	cmd := &PackageCmd{
		Output:  output,
		Project: project,
		Binary:  "ref_audio_engine.dll",
		Bundle:  "_AudioEngine",
		stdout:  &stdout,
		stderr:  &stderr,
	}

	if err := cmd.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(output, "reframework", "plugins", "ref_audio_engine.dll")); err != nil {
		t.Fatalf("binary not staged: %v", err)
	}
	if _, err := os.Stat(filepath.Join(output, "reframework", "autorun", "_AudioEngine", "init.lua")); err != nil {
		t.Fatalf("scripts not staged: %v", err)
	}
	if !strings.Contains(stdout.String(), "packaged ref_audio_engine.dll") {
		t.Fatalf("stdout = %q, want summary line", stdout.String())
	}
	if strings.Contains(stderr.String(), "packaged") {
		t.Fatalf("stderr = %q, summary belongs on stdout", stderr.String())
	}
	if !strings.Contains(stderr.String(), "Compiling ref_audio_engine") {
		t.Fatalf("stderr = %q, want build output", stderr.String())
	}

	log, err := os.ReadFile(filepath.Join(state, "refpack", "build.log"))
	if err != nil {
		t.Fatalf("build log: %v", err)
	}
	if !strings.Contains(string(log), "Compiling ref_audio_engine") {
		t.Fatalf("build log = %q, want build output", log)
	}
}

func TestPackageCmdBuildFailure(t *testing.T) {
	isolateState(t)
	stubBuilder(t, 1)
	output := filepath.Join(t.TempDir(), "publish")

	cmd := &PackageCmd{
		Output:  output,
		Project: newProject(t),
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
	}

	err := cmd.Run(context.Background())
	if got := ExitCode(err); got != ExitBuildFailed {
		t.Fatalf("ExitCode = %d, want %d (err %v)", got, ExitBuildFailed, err)
	}
	requireEmptyDir(t, output)
}

func TestPackageCmdMissingBinary(t *testing.T) {
	isolateState(t)
	stubBuilder(t, 0)
	project := newProject(t)
	if err := os.Remove(filepath.Join(project, "target", "release", "ref_audio_engine.dll")); err != nil {
		t.Fatal(err)
	}

	cmd := &PackageCmd{
		Output:  filepath.Join(t.TempDir(), "publish"),
		Project: project,
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
	}

	err := cmd.Run(context.Background())
	if got := ExitCode(err); got != ExitMissingArtifact {
		t.Fatalf("ExitCode = %d, want %d (err %v)", got, ExitMissingArtifact, err)
	}
}

// Captures the default logger's records for the duration of a test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestPackageCmdBuildLogMessage(t *testing.T) {
	tests := []struct {
		name      string
		stateFile bool
		want      bool
	}{
		{"log opened", false, true},
		{"log unavailable", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := isolateState(t)
			if tt.stateFile {
				// A file where the state directory should be blocks the log.
				if err := os.WriteFile(filepath.Join(state, "refpack"), nil, 0644); err != nil {
					t.Fatal(err)
				}
			}
			stubBuilder(t, 1)
			logs := captureLog(t)

			cmd := &PackageCmd{
				Output:  filepath.Join(t.TempDir(), "publish"),
				Project: newProject(t),
				stdout:  &bytes.Buffer{},
				stderr:  &bytes.Buffer{},
			}
			if err := cmd.Run(context.Background()); err == nil {
				t.Fatal("expected build failure")
			}

			if got := strings.Contains(logs.String(), "build log written"); got != tt.want {
				t.Fatalf("build log message logged = %v, want %v\n%s", got, tt.want, logs.String())
			}
		})
	}
}
