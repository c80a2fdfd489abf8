package annotations

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
	flagQuery  string
}

func (c *Command) Synopsis() string {
	return "Print the search or text annotations of a page"
}

func (c *Command) Help() string {
	return `Usage: iiif annotations [options] <page id> <search|text>

  Print the search-hit annotations (with -q) or the text-overlay
  annotations of one page.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("annotations", flag.ContinueOnError))
	c.ConfigFlag(f)
	base.FormatFlag(f, &c.flagFormat)
	f.StringVar(&c.flagQuery, "q", "", "Search query, required for search lists")
	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 2 {
		c.UI.Error("expected a page identifier and a list name")
		return 1
	}
	pageID, list := f.Arg(0), f.Arg(1)

	switch list {
	case "search":
		if c.flagQuery == "" {
			c.UI.Error("-q is required for search annotations")
			return 1
		}
	case "text":
	default:
		c.UI.Error(fmt.Sprintf("unknown annotation list %q", list))
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

	item, err := resolver.Resolve(pageID)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	var result *presentation.AnnotationList
	ctx := context.Background()
	if list == "search" {
		result, err = item.SearchHits(ctx, item.ID(), c.flagQuery)
	} else {
		result, err = item.TextOverlays(ctx, item.ID())
	}
	if err != nil {
		c.UI.Error(fmt.Sprintf("error getting annotations: %v", err))
		return 1
	}

	out, err := base.Render(c.flagFormat, result)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(out)
	return 0
}
