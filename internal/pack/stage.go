package pack

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/containerd/errdefs"
	"github.com/opencontainers/go-digest"
	"github.com/refaudio/refpack/internal/fsys"
)

// Guarantees that root exists as an empty directory.
//
// Anything already at root (a file or a populated directory) is removed
// first. Missing parent directories are created.
func Reset(fs fsys.FS, root string) error {
	exists, err := fs.Exists(root)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystem, err)
	}

	if exists {
		slog.Debug("removing previous output", "path", root)
		if err := fs.RemoveAll(root); err != nil {
			return fmt.Errorf("%w: %w", ErrFileSystem, err)
		}
	}

	if err := fs.MkdirAll(root); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystem, err)
	}

	return nil
}

// Copies the binary at src to dst, creating the parent directory of dst.
//
// A missing src is reported as [ErrMissingArtifact]. The copy is verified
// by comparing the digests of src and dst, and the digest is returned.
func StageBinary(fs fsys.FS, src, dst string) (digest.Digest, error) {
	if err := fs.MkdirAll(filepath.Dir(dst)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileSystem, err)
	}

	if err := fs.CopyFile(src, dst); err != nil {
		if errdefs.IsNotFound(err) {
			return "", fmt.Errorf("%w: %s: %w", ErrMissingArtifact, src, err)
		}
		return "", fmt.Errorf("%w: %w", ErrFileSystem, err)
	}

	want, err := fs.Digest(src)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileSystem, err)
	}

	got, err := fs.Digest(dst)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileSystem, err)
	}

	if got != want {
		return "", fmt.Errorf("%w: %w: %s has digest %s, want %s", ErrFileSystem, fsys.ErrCopy, dst, got, want)
	}

	return got, nil
}

// Copies the script bundle tree at src to dst.
//
// dst must not exist. Its parent directory is created by the copy.
func StageScripts(fs fsys.FS, src, dst string) error {
	if err := fs.CopyTree(src, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystem, err)
	}
	return nil
}
