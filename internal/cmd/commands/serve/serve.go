package serve

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/umd-lib/iiif/internal/api"
	"github.com/umd-lib/iiif/internal/cmd/base"
	"github.com/umd-lib/iiif/internal/server"
)

type Command struct {
	*base.Command

	flagAddr string
}

func (c *Command) Synopsis() string {
	return "Run the IIIF presentation server"
}

func (c *Command) Help() string {
	return `Usage: iiif serve [options]

  Serve manifests and annotation lists over HTTP:

    GET /manifests
    GET /manifests/{id}/manifest
    GET /manifests/{id}/list/{search|text}?q=
    GET /health` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("serve", flag.ContinueOnError))
	c.ConfigFlag(f)
	f.StringVar(
		&c.flagAddr, "addr", "",
		"Listen address, overriding server.addr in the configuration",
	)
	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	httpServer, shutdown, cleanup, err := c.prepare()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.serve(ctx, httpServer, shutdown); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}

// prepare loads the configuration, applies -addr and builds the HTTP server.
// It also returns the shutdown timeout and a cleanup function releasing the
// repository backends.
func (c *Command) prepare() (*http.Server, time.Duration, func(), error) {
	cfg, err := c.LoadConfig()
	if err != nil {
		return nil, 0, nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if c.flagAddr != "" {
		cfg.Server.Addr = c.flagAddr
	}

	resolver, cleanup, err := c.NewResolver(cfg)
	if err != nil {
		return nil, 0, nil, err
	}

	srv := server.Server{
		Config:   cfg,
		Resolver: resolver,
		Logger:   c.Log,
	}

	read, write, shutdown := cfg.Server.Durations()
	return &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(srv),
		ReadTimeout:  read,
		WriteTimeout: write,
	}, shutdown, cleanup, nil
}

// serve runs httpServer until it fails or ctx is done, then shuts it down
// within the shutdown timeout.
func (c *Command) serve(ctx context.Context, httpServer *http.Server, shutdown time.Duration) error {
	ln, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		return fmt.Errorf("error starting server: %w", err)
	}
	c.Log.Info("listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error serving: %w", err)
	case <-ctx.Done():
	}

	c.Log.Info("shutting down", "timeout", shutdown)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdown)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	return nil
}
