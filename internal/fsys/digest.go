package fsys

import (
	_ "crypto/sha256"
	"os"

	"github.com/opencontainers/go-digest"
)

// Returns the canonical (SHA-256) digest of the file at path.
func (OS) Digest(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", wrap(ErrFileSystemOperation, notFound(err))
	}
	defer f.Close()

	d, err := digest.Canonical.FromReader(f)
	if err != nil {
		return "", wrap(ErrFileSystemOperation, err)
	}
	return d, nil
}
