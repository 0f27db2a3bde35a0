// Package fsys is the filesystem capability used by the packaging pipeline.
//
// Every side effect the pipeline has on disk goes through the [FS]
// interface: existence checks, recursive removal, directory creation, and
// file and tree copies. [OS] implements it against the host filesystem.
// Tests substitute their own implementation to inject failures.
//
// Copies are content copies. File modes are normalised to the defaults in
// the paths package and timestamps are not preserved. Missing sources are
// reported with [errdefs.ErrNotFound] and occupied tree destinations with
// [errdefs.ErrAlreadyExists], so callers can classify failures with
// errdefs.IsNotFound and errdefs.IsAlreadyExists.
//
// Example usage:
//
//	var fs fsys.OS
//	if err := fs.CopyTree("scripts/_AudioEngine", "publish/reframework/autorun/_AudioEngine"); err != nil {
//	    return err
//	}
package fsys
