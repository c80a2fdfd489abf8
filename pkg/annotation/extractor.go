package annotation

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/umd-lib/iiif/pkg/presentation"
	"github.com/umd-lib/iiif/pkg/solr"
)

// Extractor queries a Solr core for the annotations of a page.
type Extractor struct {
	solr   *solr.Client
	logger hclog.Logger
}

// NewExtractor creates an Extractor backed by client.
func NewExtractor(client *solr.Client, logger hclog.Logger) *Extractor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Extractor{solr: client, logger: logger}
}

// SearchHits returns the regions of the page at pageURI matching query.
func (e *Extractor) SearchHits(ctx context.Context, pageURI, query, listID string) (*presentation.AnnotationList, error) {
	resp, err := e.solr.Query(ctx, solr.HandlerSelect, SearchParams(pageURI, query))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", presentation.ErrBackendUnavailable, err)
	}

	list := SearchHits(resp, listID)
	e.logger.Debug("search hits extracted",
		"page", pageURI,
		"documents", len(resp.Response.Docs),
		"hits", len(list.Annotations),
	)
	return list, nil
}

// TextOverlays returns every text block of the page at pageURI.
func (e *Extractor) TextOverlays(ctx context.Context, pageURI, listID string) (*presentation.AnnotationList, error) {
	resp, err := e.solr.Query(ctx, solr.HandlerSelect, TextParams(pageURI))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", presentation.ErrBackendUnavailable, err)
	}

	list := TextOverlays(resp, listID)
	if skipped := len(resp.Response.Docs) - len(list.Annotations); skipped > 0 {
		e.logger.Warn("skipped text blocks without a target", "page", pageURI, "skipped", skipped)
	}
	return list, nil
}
