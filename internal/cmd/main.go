package cmd

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/umd-lib/iiif/internal/version"
)

// defaultCommand runs when iiif is invoked without arguments.
const defaultCommand = "serve"

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	name := filepath.Base(args[0])

	log := hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: os.Stderr,
		Level:  hclog.Info,
	})

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}
	initCommands(log, ui)

	runner := &cli.CLI{
		Name:     name,
		Args:     commandArgs(args[1:]),
		Version:  version.Version,
		Commands: Commands,
	}

	code, err := runner.Run()
	if err != nil {
		log.Error("error running command", "error", err)
		return 1
	}
	return code
}

// commandArgs maps the bare -v and -version flags to the version command
// and an empty command line to defaultCommand.
func commandArgs(args []string) []string {
	switch {
	case len(args) == 0:
		return []string{defaultCommand}
	case len(args) == 1 && (args[0] == "-v" || args[0] == "-version"):
		return []string{"version"}
	default:
		return args
	}
}
