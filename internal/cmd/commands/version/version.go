package version

import (
	"github.com/umd-lib/iiif/internal/cmd/base"
	"github.com/umd-lib/iiif/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return "Usage: iiif version"
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
