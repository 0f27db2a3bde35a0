package cli

import (
	"context"
	"fmt"

	"github.com/refaudio/refpack/internal"
)

// Represents the 'refpack version' command.
type VersionCmd struct{}

// Prints the version string.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.VersionString())
	return nil
}
