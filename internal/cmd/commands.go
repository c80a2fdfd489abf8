package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/umd-lib/iiif/internal/cmd/base"
	"github.com/umd-lib/iiif/internal/cmd/commands/annotations"
	"github.com/umd-lib/iiif/internal/cmd/commands/id"
	"github.com/umd-lib/iiif/internal/cmd/commands/manifest"
	"github.com/umd-lib/iiif/internal/cmd/commands/serve"
	"github.com/umd-lib/iiif/internal/cmd/commands/version"
)

// Commands is the mapping of all available commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.New(log, ui)

	Commands = map[string]cli.CommandFactory{
		"serve": func() (cli.Command, error) {
			return &serve.Command{Command: b}, nil
		},
		"manifest": func() (cli.Command, error) {
			return &manifest.Command{Command: b}, nil
		},
		"annotations": func() (cli.Command, error) {
			return &annotations.Command{Command: b}, nil
		},
		"id": func() (cli.Command, error) {
			return &id.Command{Command: b}, nil
		},
		"id encode": func() (cli.Command, error) {
			return &id.EncodeCommand{Command: b}, nil
		},
		"id decode": func() (cli.Command, error) {
			return &id.DecodeCommand{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
