package base

import (
	"fmt"

	"github.com/umd-lib/iiif/internal/config"
	"github.com/umd-lib/iiif/pkg/fetch"
	"github.com/umd-lib/iiif/pkg/repository"
	"github.com/umd-lib/iiif/pkg/repository/adapters/fcrepo"
	"github.com/umd-lib/iiif/pkg/repository/adapters/fedora2"
)

// NewResolver builds the shared HTTP client and registers a backend for every
// configured repository block. The returned function releases backend
// resources and must be called once the resolver is no longer used.
func (c *Command) NewResolver(cfg *config.Config) (*repository.Resolver, func(), error) {
	fetchCfg, err := cfg.HTTP.FetchConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("error configuring HTTP client: %w", err)
	}
	client := fetch.NewClient(fetchCfg, c.Log.Named("fetch"))

	resolver := repository.NewResolver(c.Log)
	var cleanups []func()
	cleanup := func() {
		for _, f := range cleanups {
			f()
		}
	}

	if cfg.Fcrepo != nil {
		b, err := fcrepo.NewBackend(*cfg.Fcrepo, client, c.Log)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating fcrepo backend: %w", err)
		}
		if err := resolver.Register(b); err != nil {
			return nil, nil, err
		}
	}

	if cfg.Fedora2 != nil {
		b, err := fedora2.NewBackend(*cfg.Fedora2, client, c.Log)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("error creating fedora2 backend: %w", err)
		}
		cleanups = append(cleanups, b.Release)
		if err := resolver.Register(b); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	c.Log.Info("repository backends registered", "backends", resolver.Providers())
	return resolver, cleanup, nil
}
