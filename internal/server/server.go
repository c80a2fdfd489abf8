package server

import (
	"github.com/hashicorp/go-hclog"

	"github.com/umd-lib/iiif/internal/config"
	"github.com/umd-lib/iiif/pkg/repository"
)

// Server contains the server configuration.
type Server struct {
	// Config is the config for the server.
	Config *config.Config

	// Resolver maps item identifiers to repository backends.
	Resolver *repository.Resolver

	// Logger is the logger for the server.
	Logger hclog.Logger
}
