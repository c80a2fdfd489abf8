// Package fedora2 serves items from the legacy Fedora 2 repository.
//
// Item identifiers are "pid" for a compound work or "pid_service" for a
// single image. A work's pages are listed in its METS structure map; image
// dimensions come from the fcrepo index when the work has been migrated,
// else from the IIIF image server.
package fedora2

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/panjf2000/ants/v2"

	"github.com/umd-lib/iiif/pkg/fetch"
	"github.com/umd-lib/iiif/pkg/itemid"
	"github.com/umd-lib/iiif/pkg/pathcodec"
	"github.com/umd-lib/iiif/pkg/presentation"
	"github.com/umd-lib/iiif/pkg/repository"
	"github.com/umd-lib/iiif/pkg/solr"
)

// Prefix is the identifier prefix of Fedora 2 items.
const Prefix = itemid.ProviderTypeFedora2

// Getter fetches raw and JSON documents. *fetch.Client implements it.
type Getter interface {
	solr.Getter
	Get(ctx context.Context, url string) ([]byte, error)
}

var (
	_ Getter             = (*fetch.Client)(nil)
	_ repository.Backend = (*Backend)(nil)
)

// Backend creates Fedora 2 items. It is safe for concurrent use; call
// Release when done.
type Backend struct {
	config     Config
	getter     Getter
	solr       *solr.Client
	fcrepoSolr *solr.Client
	pool       *ants.Pool
	logger     hclog.Logger
}

// NewBackend validates cfg and creates a Backend whose HTTP requests go
// through getter.
func NewBackend(cfg Config, getter Getter, logger hclog.Logger) (*Backend, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fedora2 configuration: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	pool, err := ants.NewPool(cfg.ImageLookupConcurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to create image lookup pool: %w", err)
	}

	return &Backend{
		config:     cfg,
		getter:     getter,
		solr:       solr.NewClient(cfg.SolrURL, getter),
		fcrepoSolr: solr.NewClient(cfg.FcrepoSolrURL, getter),
		pool:       pool,
		logger:     logger.Named("fedora2"),
	}, nil
}

// Release stops the image lookup workers. The backend should not be used
// after calling Release.
func (b *Backend) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
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
			Msg: fmt.Sprintf("%s is not a fedora2 identifier", id),
		}
	}

	pid, service, _ := strings.Cut(id.Path(), "_")
	if pid == "" {
		return nil, &presentation.Error{Op: "NewItem", Err: presentation.ErrInvalidID, Msg: "pid cannot be empty"}
	}
	return &Item{backend: b, pid: pid, service: service}, nil
}

// formatID returns the external identifier of pid.
func formatID(pid string) string {
	return pathcodec.FormatID(string(Prefix), pid)
}

// dimensions are an image's size as recorded in the fcrepo index.
type dimensions struct {
	Width  *int
	Height *int
}

// migratedWork is the fcrepo index record of a migrated Fedora 2 work.
type migratedWork struct {
	Pages struct {
		Docs []struct {
			ID         string   `solr:"id"`
			Identifier []string `solr:"identifier"`
		} `solr:"docs"`
	} `solr:"pages"`
	Images struct {
		Docs []struct {
			FileOf []string `solr:"pcdm_file_of"`
			Width  *int     `solr:"image_width"`
			Height *int     `solr:"image_height"`
		} `solr:"docs"`
	} `solr:"images"`
}

// migratedDimensions looks pid up in the fcrepo index and returns the
// dimensions of its images keyed by image PID. Works that were never
// migrated yield an empty map.
func (b *Backend) migratedDimensions(ctx context.Context, pid string) (map[string]dimensions, error) {
	params := url.Values{}
	params.Set("q", solr.FieldQuery("identifier", pid))
	params.Set("pages.fq", "rdf_type:pcdm\\:Object")
	params.Set("pages.fl", "id,display_title,page_number,identifier")
	params.Set("pages.rows", "1000")
	params.Set("images.fq", "rdf_type:pcdmuse\\:IntermediateFile")
	params.Set("images.rows", "1000")

	resp, err := b.fcrepoSolr.Query(ctx, solr.HandlerPCDM, params)
	if err != nil {
		return nil, err
	}

	dims := make(map[string]dimensions)
	raw := resp.Response.First()
	if raw == nil {
		return dims, nil
	}

	var work migratedWork
	if err := raw.Decode(&work); err != nil {
		return nil, err
	}

	pidForURI := make(map[string]string, len(work.Pages.Docs))
	for _, page := range work.Pages.Docs {
		if len(page.Identifier) > 0 {
			pidForURI[page.ID] = page.Identifier[0]
		}
	}
	for _, img := range work.Images.Docs {
		if len(img.FileOf) == 0 {
			continue
		}
		if imagePID, ok := pidForURI[img.FileOf[0]]; ok {
			dims[imagePID] = dimensions{Width: img.Width, Height: img.Height}
		}
	}
	return dims, nil
}

// imageInfo is the subset of an IIIF info.json document used here.
type imageInfo struct {
	Width  *int `json:"width"`
	Height *int `json:"height"`
}

// resolveImage returns the image of pid, using known dimensions when
// available and the image server's info.json otherwise.
func (b *Backend) resolveImage(ctx context.Context, pid string, known map[string]dimensions) presentation.ImageResult {
	id := formatID(pid)
	img := presentation.Image{
		ID:  id,
		URI: presentation.ImageURI(b.config.ImageURL, id, "jpg"),
	}

	if d, ok := known[pid]; ok && d.Width != nil && d.Height != nil {
		img.Width, img.Height = d.Width, d.Height
		return presentation.Resolved(img)
	}

	var info imageInfo
	if err := b.getter.GetJSON(ctx, b.config.ImageURL+id+"/info.json", &info); err != nil {
		return presentation.Unresolved("info.json request failed", err)
	}
	if info.Width == nil || info.Height == nil {
		return presentation.Unresolved("info.json has no dimensions", nil)
	}

	img.Width, img.Height = info.Width, info.Height
	return presentation.Resolved(img)
}

// placeholder returns the image shown when a page has no usable image.
func (b *Backend) placeholder() presentation.Image {
	return presentation.Placeholder(b.config.ImageURL)
}
