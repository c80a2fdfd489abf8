package presentation

import "context"

// Item is a repository object that can be presented as a manifest or a
// canvas. Implementations fetch their backing document lazily, at most once,
// and are not safe for concurrent use: create one per request.
type Item interface {
	// BaseURI is the URI prefix of the manifest resources for this item.
	BaseURI() string

	// ID is the external identifier the item was created from.
	ID() string

	Label(ctx context.Context) (string, error)
	IsManifestLevel(ctx context.Context) (bool, error)
	IsCanvasLevel(ctx context.Context) (bool, error)

	// Pages returns the item's pages in display order.
	Pages(ctx context.Context) ([]Page, error)

	// Metadata never contains entries without a value.
	Metadata(ctx context.Context) (Metadata, error)

	License(ctx context.Context) (string, error)
	Attribution(ctx context.Context) (string, error)
	NavDate(ctx context.Context) (string, error)

	// ManifestID is the identifier of the manifest this item belongs to.
	ManifestID(ctx context.Context) (string, error)

	// SearchHits returns the regions of page pageRef matching query.
	SearchHits(ctx context.Context, pageRef, query string) (*AnnotationList, error)

	// TextOverlays returns every recognized text block of page pageRef.
	TextOverlays(ctx context.Context, pageRef string) (*AnnotationList, error)
}
