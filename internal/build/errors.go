package build

import "errors"

var (
	ErrBuildFailed = errors.New("build failed")
)
