// Package fcrepo serves items stored in Fedora 4 and indexed in Solr.
//
// Item identifiers are compressed repository paths (see pathcodec). One
// Solr query against the "pcdm" handler returns an item together with its
// pages and the image files of each page.
package fcrepo

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/umd-lib/iiif/pkg/annotation"
	"github.com/umd-lib/iiif/pkg/itemid"
	"github.com/umd-lib/iiif/pkg/pathcodec"
	"github.com/umd-lib/iiif/pkg/presentation"
	"github.com/umd-lib/iiif/pkg/repository"
	"github.com/umd-lib/iiif/pkg/solr"
)

// Prefix is the identifier prefix of fcrepo items.
const Prefix = itemid.ProviderTypeFcrepo

var _ repository.Backend = (*Backend)(nil)

// Backend creates fcrepo items. It is safe for concurrent use.
type Backend struct {
	config      Config
	solr        *solr.Client
	annotations *annotation.Extractor
	logger      hclog.Logger
}

// NewBackend validates cfg and creates a Backend whose HTTP requests go
// through getter.
func NewBackend(cfg Config, getter solr.Getter, logger hclog.Logger) (*Backend, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fcrepo configuration: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("fcrepo")

	client := solr.NewClient(cfg.SolrURL, getter)
	return &Backend{
		config:      cfg,
		solr:        client,
		annotations: annotation.NewExtractor(client, logger),
		logger:      logger,
	}, nil
}

// Provider implements repository.Backend.
func (b *Backend) Provider() itemid.ProviderType {
	return Prefix
}

// NewItem implements repository.Backend.
func (b *Backend) NewItem(id itemid.ItemID) (presentation.Item, error) {
	if id.Provider() != Prefix {
		return nil, &presentation.Error{
			Op:  "NewItem",
			Err: presentation.ErrInvalidID,
			Msg: fmt.Sprintf("%s is not an fcrepo identifier", id),
		}
	}
	return b.newItem(id.Path()), nil
}

func (b *Backend) newItem(path string) *Item {
	return &Item{
		backend: b,
		path:    path,
		uri:     b.pathToURI(path),
	}
}

// pathToURI returns the repository URI of a compressed path.
func (b *Backend) pathToURI(path string) string {
	return b.config.FcrepoURL + pathcodec.Expand(path)
}

// relative returns uri relative to the repository endpoint.
func (b *Backend) relative(uri string) string {
	return strings.TrimPrefix(uri, b.config.FcrepoURL)
}

// encodeURI returns the external identifier of a repository URI.
func (b *Backend) encodeURI(uri string) string {
	return pathcodec.EncodeID(string(Prefix), b.relative(uri))
}

// placeholder returns the image shown when a page has no usable image.
func (b *Backend) placeholder() presentation.Image {
	return presentation.Placeholder(b.config.ImageURL)
}
