package fetch

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config contains configuration for outbound HTTP requests to repository
// backends (Solr, Fedora and the IIIF image server).
type Config struct {
	// Timeout for a single request attempt.
	// Default: 30 seconds
	Timeout time.Duration

	// TLSVerify controls TLS certificate verification.
	// Set to false only for development with self-signed certs.
	TLSVerify *bool

	// MaxRetries for requests failing with a transport error or a 5xx status.
	// Default: 0
	MaxRetries int

	// RetryDelay is the initial delay between retries. Later retries back off
	// exponentially.
	// Default: 500 milliseconds
	RetryDelay time.Duration

	// UserAgent is sent with every request when set.
	UserAgent string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	tlsVerify := true
	return Config{
		Timeout:    30 * time.Second,
		TLSVerify:  &tlsVerify,
		MaxRetries: 0,
		RetryDelay: 500 * time.Millisecond,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.MaxRetries, validation.Min(0)),
		validation.Field(&c.RetryDelay, validation.Min(time.Duration(0))),
	)
}

// NewHTTPClient creates an HTTP client configured from c.
func (c Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // opt-in for test repositories
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}

func (c Config) String() string {
	return fmt.Sprintf("timeout=%s max_retries=%d retry_delay=%s", c.Timeout, c.MaxRetries, c.RetryDelay)
}
