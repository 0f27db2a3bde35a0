package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for the state subdirectory.
	toolName = "refpack"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

const (
	FrameworkDir = "reframework" // Top-level directory read by the host framework.
	PluginsDir   = "plugins"     // Native plugin directory under FrameworkDir.
	AutorunDir   = "autorun"     // Script directory under FrameworkDir.
)

const (
	BinaryName     = "ref_audio_engine.dll" // Compiled plugin file name.
	BundleName     = "_AudioEngine"         // Script bundle directory name.
	DefaultOutput  = "publish"              // Output root used when none is given.
	ScriptsDir     = "scripts"              // Directory holding script bundles in the project.
	TargetDir      = "target"               // Cargo build output directory.
	ReleaseProfile = "release"              // Cargo profile subdirectory under TargetDir.
)

// Destination of the plugin binary inside a package.
//
//	<root>/reframework/plugins/<name>
func PluginBinary(root, name string) string {
	return filepath.Join(root, FrameworkDir, PluginsDir, name)
}

// Destination of a script bundle inside a package.
//
//	<root>/reframework/autorun/<name>
func AutorunBundle(root, name string) string {
	return filepath.Join(root, FrameworkDir, AutorunDir, name)
}

// Location where a release build leaves the binary.
//
//	<project>/target/release/<name>
func BuildOutput(project, name string) string {
	return filepath.Join(project, TargetDir, ReleaseProfile, name)
}

// Location of a script bundle in the project.
//
//	<project>/scripts/<name>
func ScriptSource(project, name string) string {
	return filepath.Join(project, ScriptsDir, name)
}

// Path to the per-user state directory.
//
//	Linux:   $XDG_STATE_HOME/refpack or ~/.local/state/refpack
//	macOS:   ~/Library/Application Support/refpack
//	Windows: %LOCALAPPDATA%\refpack
func State() string {
	return filepath.Join(xdg.StateHome, toolName)
}

// Path to the log of the most recent build.
func BuildLog() string {
	return filepath.Join(State(), "build.log")
}
