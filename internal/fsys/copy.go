package fsys

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/refaudio/refpack/internal/paths"
)

// Writes the contents of hostPath to dst with the default file mode.
func copyFile(hostPath, dst string) error {
	in, err := os.Open(hostPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Copies the directory tree rooted at hostDir to dst, following symlinks.
//
// The root is resolved first, so a bundle that is itself a link to a
// directory is copied like any other. Linked files are copied by content
// and linked directories are descended into. A directory that links back to
// one of its ancestors is reported as an error.
func copyTree(hostDir, dst string) error {
	root, err := filepath.EvalSymlinks(hostDir)
	if err != nil {
		return err
	}
	return walkTree(root, dst, map[string]bool{})
}

// Walks one resolved directory. ancestors holds the resolved directories
// currently being copied.
func walkTree(root, dst string, ancestors map[string]bool) error {
	if ancestors[root] {
		return fmt.Errorf("symlink cycle at %s", root)
	}
	ancestors[root] = true
	defer delete(ancestors, root)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		return copyEntry(path, filepath.Join(dst, relPath), d, ancestors)
	})
}

// Copies a single directory, regular file or symlink target.
func copyEntry(hostPath, dst string, d fs.DirEntry, ancestors map[string]bool) error {
	mode := d.Type()

	switch {
	case mode.IsDir():
		return os.MkdirAll(dst, paths.DefaultDirMode)

	case mode.IsRegular():
		slog.Debug("copy", "src", hostPath, "dest", dst)
		return copyFile(hostPath, dst)

	case mode&fs.ModeSymlink != 0:
		return copyLink(hostPath, dst, ancestors)
	}

	return fmt.Errorf("unsupported file type %s at %s", mode, hostPath)
}

// Copies whatever a symlink points to. Dangling links are an error.
func copyLink(hostPath, dst string, ancestors map[string]bool) error {
	target, err := filepath.EvalSymlinks(hostPath)
	if err != nil {
		return err
	}

	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	slog.Debug("follow link", "src", hostPath, "target", target, "dest", dst)

	switch {
	case info.IsDir():
		return walkTree(target, dst, ancestors)
	case info.Mode().IsRegular():
		return copyFile(target, dst)
	}

	return fmt.Errorf("unsupported file type %s at %s", info.Mode().Type(), target)
}
