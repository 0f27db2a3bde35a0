package fsys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/containerd/errdefs"
	"github.com/opencontainers/go-digest"
	"github.com/refaudio/refpack/internal/paths"
)

// Filesystem operations needed to assemble a package.
type FS interface {
	Exists(path string) (bool, error) // Whether anything (file, dir, link) is at path.
	RemoveAll(path string) error      // Removes path and all children. Absent paths are not an error.
	MkdirAll(path string) error       // Creates path and any missing parents.
	CopyFile(src, dst string) error   // Byte-exact copy of a single regular file.
	CopyTree(src, dst string) error   // Recursive copy of a directory. dst must not exist.

	Digest(path string) (digest.Digest, error) // Canonical digest of a file's contents.
}

// Implements [FS] on the host filesystem.
type OS struct{}

var _ FS = OS{}

// Whether anything exists at path. Symlinks are not followed.
func (OS) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, wrap(ErrFileSystemOperation, err)
}

// Removes path recursively.
func (OS) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return wrap(ErrFileSystemOperation, err)
	}
	return nil
}

// Creates a directory along with any missing parents.
func (OS) MkdirAll(path string) error {
	if err := os.MkdirAll(path, paths.DefaultDirMode); err != nil {
		return wrap(ErrFileSystemOperation, err)
	}
	return nil
}

// Copies the contents of src to dst, replacing dst if it exists.
//
// The parent of dst must already exist. A missing or non-regular src is
// reported as not found.
func (OS) CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return wrap(ErrCopy, notFound(err))
	}
	if !info.Mode().IsRegular() {
		return wrap(ErrCopy, fmt.Errorf("%w: %s is not a regular file", errdefs.ErrNotFound, src))
	}
	if err := copyFile(src, dst); err != nil {
		return wrap(ErrCopy, err)
	}
	return nil
}

// Copies the directory tree at src to dst.
//
// dst is created by the copy and must not exist beforehand. The parent of
// dst is created if missing. A failure part way through leaves whatever was
// already copied in place.
func (OS) CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return wrap(ErrCopy, notFound(err))
	}
	if !info.IsDir() {
		return wrap(ErrCopy, fmt.Errorf("%w: %s is not a directory", errdefs.ErrNotFound, src))
	}

	if _, err := os.Lstat(dst); err == nil {
		return wrap(ErrCopy, fmt.Errorf("%w: %s", errdefs.ErrAlreadyExists, dst))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return wrap(ErrCopy, err)
	}

	if err := copyTree(src, dst); err != nil {
		return wrap(ErrCopy, err)
	}
	return nil
}

// Joins a sentinel and its cause so both match with errors.Is.
func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Tags a "does not exist" error with errdefs.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", errdefs.ErrNotFound, err)
	}
	return err
}
