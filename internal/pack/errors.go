package pack

import "errors"

var (
	ErrFileSystem      = errors.New("file system error")
	ErrBuildFailure    = errors.New("failed to build the package")
	ErrMissingArtifact = errors.New("build artifact missing")
	ErrInvalidOptions  = errors.New("invalid options")
)
