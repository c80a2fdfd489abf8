// Package config loads the service configuration from an HCL file.
//
// Example:
//
//	log_level = "info"
//
//	server {
//	  addr = ":3000"
//	}
//
//	http {
//	  timeout     = "30s"
//	  max_retries = 2
//	}
//
//	fcrepo {
//	  fcrepo_url   = "https://fcrepo.lib.umd.edu/fcrepo/rest/"
//	  solr_url     = "https://solr.lib.umd.edu/solr/fedora4/"
//	  manifest_url = "https://iiif.lib.umd.edu/manifests/"
//	  image_url    = "https://iiif.lib.umd.edu/images/iiif/2/"
//	}
//
// String attributes may read the environment with env("NAME").
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	"github.com/umd-lib/iiif/pkg/fetch"
	"github.com/umd-lib/iiif/pkg/repository/adapters/fcrepo"
	"github.com/umd-lib/iiif/pkg/repository/adapters/fedora2"
)

// DefaultConfigFile is the file read when no path is given.
const DefaultConfigFile = "config.hcl"

// Config is the service configuration.
type Config struct {
	// LogLevel is one of trace, debug, info, warn or error.
	// Default: "info"
	LogLevel string `hcl:"log_level,optional" json:"log_level,omitempty"`

	Server  *Server         `hcl:"server,block" json:"server,omitempty"`
	HTTP    *HTTP           `hcl:"http,block" json:"http,omitempty"`
	Fcrepo  *fcrepo.Config  `hcl:"fcrepo,block" json:"fcrepo,omitempty"`
	Fedora2 *fedora2.Config `hcl:"fedora2,block" json:"fedora2,omitempty"`
}

// Server configures the HTTP API listener.
type Server struct {
	// Addr is the listen address.
	// Default: ":3000"
	Addr string `hcl:"addr,optional" json:"addr,omitempty"`

	// ReadTimeout, WriteTimeout and ShutdownTimeout are Go durations.
	ReadTimeout     string `hcl:"read_timeout,optional" json:"read_timeout,omitempty"`
	WriteTimeout    string `hcl:"write_timeout,optional" json:"write_timeout,omitempty"`
	ShutdownTimeout string `hcl:"shutdown_timeout,optional" json:"shutdown_timeout,omitempty"`
}

// HTTP configures outbound requests to the repository backends.
type HTTP struct {
	Timeout    string `hcl:"timeout,optional" json:"timeout,omitempty"`
	MaxRetries int    `hcl:"max_retries,optional" json:"max_retries,omitempty"`
	RetryDelay string `hcl:"retry_delay,optional" json:"retry_delay,omitempty"`
	TLSVerify  *bool  `hcl:"tls_verify,optional" json:"tls_verify,omitempty"`
	UserAgent  string `hcl:"user_agent,optional" json:"user_agent,omitempty"`
}

// Default returns a configuration with defaults applied and no backends.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Server == nil {
		c.Server = &Server{}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "30s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "60s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}

	if c.HTTP == nil {
		c.HTTP = &HTTP{}
	}
	defaults := fetch.DefaultConfig()
	if c.HTTP.Timeout == "" {
		c.HTTP.Timeout = defaults.Timeout.String()
	}
	if c.HTTP.RetryDelay == "" {
		c.HTTP.RetryDelay = defaults.RetryDelay.String()
	}
	if c.HTTP.TLSVerify == nil {
		c.HTTP.TLSVerify = defaults.TLSVerify
	}

	if c.Fcrepo != nil {
		c.Fcrepo.ApplyDefaults()
	}
	if c.Fedora2 != nil {
		c.Fedora2.ApplyDefaults()
	}
}

// Validate checks the whole configuration and reports every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if c.Server != nil {
		if err := c.Server.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("server: %w", err))
		}
	}
	if c.HTTP != nil {
		if err := c.HTTP.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("http: %w", err))
		}
	}
	if c.Fcrepo == nil && c.Fedora2 == nil {
		result = multierror.Append(result, errors.New("at least one of the fcrepo or fedora2 blocks is required"))
	}
	if c.Fcrepo != nil {
		if err := c.Fcrepo.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("fcrepo: %w", err))
		}
	}
	if c.Fedora2 != nil {
		if err := c.Fedora2.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("fedora2: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// isDuration validates a Go duration string.
var isDuration = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.ParseDuration(s); err != nil {
		return errors.New("must be a duration such as \"30s\"")
	}
	return nil
})

// Validate checks if the server configuration is valid.
func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Addr, validation.Required),
		validation.Field(&s.ReadTimeout, isDuration),
		validation.Field(&s.WriteTimeout, isDuration),
		validation.Field(&s.ShutdownTimeout, isDuration),
	)
}

// Durations returns the parsed read, write and shutdown timeouts.
func (s Server) Durations() (read, write, shutdown time.Duration) {
	read, _ = time.ParseDuration(s.ReadTimeout)
	write, _ = time.ParseDuration(s.WriteTimeout)
	shutdown, _ = time.ParseDuration(s.ShutdownTimeout)
	return read, write, shutdown
}

// Validate checks if the HTTP configuration is valid.
func (h HTTP) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Timeout, validation.Required, isDuration),
		validation.Field(&h.MaxRetries, validation.Min(0), validation.Max(10)),
		validation.Field(&h.RetryDelay, isDuration),
	)
}

// FetchConfig converts h to the transport configuration.
func (h HTTP) FetchConfig() (fetch.Config, error) {
	cfg := fetch.DefaultConfig()

	timeout, err := time.ParseDuration(h.Timeout)
	if err != nil {
		return fetch.Config{}, fmt.Errorf("invalid timeout: %w", err)
	}
	cfg.Timeout = timeout

	if h.RetryDelay != "" {
		delay, err := time.ParseDuration(h.RetryDelay)
		if err != nil {
			return fetch.Config{}, fmt.Errorf("invalid retry_delay: %w", err)
		}
		cfg.RetryDelay = delay
	}

	cfg.MaxRetries = h.MaxRetries
	if h.TLSVerify != nil {
		cfg.TLSVerify = h.TLSVerify
	}
	cfg.UserAgent = h.UserAgent

	return cfg, cfg.Validate()
}

// envFunc implements env(name) in configuration files.
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

// evalContext is the HCL evaluation context of configuration files.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

// Load reads, decodes and validates the configuration file at path.
func Load(fs afero.Fs, path string) (*Config, error) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(path, src)
}

// Parse decodes and validates configuration source. filename must end in
// ".hcl" (or ".json" for the JSON syntax).
func Parse(filename string, src []byte) (*Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, src, evalContext(), &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
