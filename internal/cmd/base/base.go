// Package base holds what every CLI command shares: the UI, the logger, the
// filesystem configuration is read from and flag handling.
package base

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/umd-lib/iiif/internal/config"
)

// ConfigEnvVar overrides the default configuration path.
const ConfigEnvVar = "IIIF_CONFIG"

// Command is embedded by every command.
type Command struct {
	UI  cli.Ui
	Log hclog.Logger
	Fs  afero.Fs

	flagConfig string
}

// New returns a Command reading configuration from the OS filesystem.
func New(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{UI: ui, Log: log, Fs: afero.NewOsFs()}
}

// FlagSet is a flag.FlagSet that can render its own help text.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f, silencing its default usage output.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(&bytes.Buffer{})
	f.Usage = func() {}
	return &FlagSet{FlagSet: f}
}

// Help returns the flag descriptions for a command's help text.
func (f *FlagSet) Help() string {
	var b strings.Builder
	first := true
	f.VisitAll(func(fl *flag.Flag) {
		if first {
			b.WriteString("\n\nOptions:\n")
			first = false
		}
		fmt.Fprintf(&b, "\n  -%s", fl.Name)
		if fl.DefValue != "" {
			fmt.Fprintf(&b, "=%s", fl.DefValue)
		}
		fmt.Fprintf(&b, "\n      %s\n", fl.Usage)
	})
	return b.String()
}

// ConfigFlag registers the -config flag on f.
func (c *Command) ConfigFlag(f *FlagSet) {
	f.StringVar(
		&c.flagConfig, "config", config.DefaultConfigFile,
		"["+ConfigEnvVar+"] Path to the HCL configuration file",
	)
}

// LoadConfig reads the configuration named by -config, or by IIIF_CONFIG when
// the flag was left at its default, and applies its log level to c.Log.
func (c *Command) LoadConfig() (*config.Config, error) {
	path := c.flagConfig
	if path == "" || path == config.DefaultConfigFile {
		if val, ok := os.LookupEnv(ConfigEnvVar); ok && val != "" {
			path = val
		}
	}
	if path == "" {
		path = config.DefaultConfigFile
	}

	cfg, err := config.Load(c.Fs, path)
	if err != nil {
		return nil, err
	}
	c.Log.SetLevel(hclog.LevelFromString(cfg.LogLevel))
	c.Log.Debug("configuration loaded", "path", path)
	return cfg, nil
}
