package id

import (
	"flag"
	"fmt"

	"github.com/mitchellh/cli"

	"github.com/umd-lib/iiif/internal/cmd/base"
	"github.com/umd-lib/iiif/pkg/itemid"
	"github.com/umd-lib/iiif/pkg/pathcodec"
)

// Command is the parent of the id subcommands.
type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Encode and decode item identifiers"
}

func (c *Command) Help() string {
	return `Usage: iiif id <subcommand>

  Convert between repository paths and item identifiers.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}

// EncodeCommand turns a repository path into an item identifier.
type EncodeCommand struct {
	*base.Command
}

func (c *EncodeCommand) Synopsis() string {
	return "Encode a repository path as an item identifier"
}

func (c *EncodeCommand) Help() string {
	return `Usage: iiif id encode <prefix> <path>

  Example:
    iiif id encode fcrepo pcdm/aa/bb/cc/dd/aabbccdd-thesis
    fcrepo:pcdm::aabbccdd-thesis`
}

func (c *EncodeCommand) Run(args []string) int {
	f := base.NewFlagSet(flag.NewFlagSet("id encode", flag.ContinueOnError))
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 2 {
		c.UI.Error("expected a prefix and a path")
		return 1
	}

	provider := itemid.ProviderType(f.Arg(0))
	if !provider.IsValid() {
		c.UI.Error(fmt.Sprintf("unknown prefix %q (expected one of %v)",
			provider, itemid.ValidProviderTypes()))
		return 1
	}
	if f.Arg(1) == "" {
		c.UI.Error("path cannot be empty")
		return 1
	}

	c.UI.Output(pathcodec.EncodeID(string(provider), f.Arg(1)))
	return 0
}

// DecodeCommand turns an item identifier back into its repository path.
type DecodeCommand struct {
	*base.Command
}

func (c *DecodeCommand) Synopsis() string {
	return "Decode an item identifier into its repository path"
}

func (c *DecodeCommand) Help() string {
	return `Usage: iiif id decode <id>

  Example:
    iiif id decode fcrepo:pcdm::aabbccdd-thesis
    fcrepo	pcdm/aa/bb/cc/dd/aabbccdd-thesis`
}

func (c *DecodeCommand) Run(args []string) int {
	f := base.NewFlagSet(flag.NewFlagSet("id decode", flag.ContinueOnError))
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("expected exactly one item identifier")
		return 1
	}

	parsed, err := itemid.Parse(f.Arg(0))
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	path := parsed.Path()
	if parsed.Provider() == itemid.ProviderTypeFcrepo {
		path = pathcodec.Expand(path)
	}
	c.UI.Output(fmt.Sprintf("%s\t%s", parsed.Provider(), path))
	return 0
}
