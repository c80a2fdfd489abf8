package manifest

import (
	"context"
	"flag"
	"fmt"

	"github.com/umd-lib/iiif/internal/cmd/base"
	"github.com/umd-lib/iiif/pkg/presentation"
)

type Command struct {
	*base.Command

	flagFormat string
}

func (c *Command) Synopsis() string {
	return "Print the manifest of a repository item"
}

func (c *Command) Help() string {
	return `Usage: iiif manifest [options] <id>

  Resolve an item identifier such as "fcrepo:pcdm::aabbccdd-thesis" or
  "fedora2:umd:1234" and print its manifest.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("manifest", flag.ContinueOnError))
	c.ConfigFlag(f)
	base.FormatFlag(f, &c.flagFormat)
	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one item identifier")
		return 1
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}
	resolver, cleanup, err := c.NewResolver(cfg)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer cleanup()

	item, err := resolver.Resolve(f.Arg(0))
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	m, err := presentation.BuildManifest(context.Background(), item)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error building manifest: %v", err))
		return 1
	}

	out, err := base.Render(c.flagFormat, m)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(out)
	return 0
}
