package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/katharostech/cast2gif/types"
)

// VersionCommand returns the version command.
// It reports the canonical project version and never touches the input.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "cast2gif %s (commit: %s)\n", types.Version, commit)
			return nil
		},
	}
}
