package fcrepo

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/umd-lib/iiif/pkg/annotation"
	"github.com/umd-lib/iiif/pkg/itemid"
	"github.com/umd-lib/iiif/pkg/pathcodec"
	"github.com/umd-lib/iiif/pkg/presentation"
	"github.com/umd-lib/iiif/pkg/solr"
)

// Query caps for the denormalized item lookup.
const (
	MaxPages  = 1000
	MaxImages = 1000
)

const canvasComponent = "page"

// document is an item's Solr document with its pages and their images
// attached by subqueries.
type document struct {
	ID              string   `solr:"id"`
	RDFType         []string `solr:"rdf_type"`
	Component       []string `solr:"component"`
	ContainingIssue []string `solr:"containing_issue"`
	DisplayTitle    string   `solr:"display_title"`
	Date            *string  `solr:"date"`
	DisplayDate     *string  `solr:"display_date"`
	Edition         *string  `solr:"issue_edition"`
	Volume          *string  `solr:"issue_volume"`
	Issue           *string  `solr:"issue_issue"`
	Rights          []string `solr:"rights"`
	Attribution     string   `solr:"attribution"`
	Citation        []string `solr:"citation"`
	Pages           struct {
		Docs []pageDocument `solr:"docs"`
	} `solr:"pages"`
}

type pageDocument struct {
	ID           string `solr:"id"`
	DisplayTitle string `solr:"display_title"`
	PageNumber   string `solr:"page_number"`
	Images       struct {
		Docs []imageDocument `solr:"docs"`
	} `solr:"images"`
}

type imageDocument struct {
	ID       string `solr:"id"`
	MimeType string `solr:"mime_type"`
	Width    *int   `solr:"image_width"`
	Height   *int   `solr:"image_height"`
}

// documentParams returns the pcdm handler parameters fetching the item at
// uri, its pages and their image files in one request.
func documentParams(uri string) url.Values {
	params := url.Values{}
	params.Set("q", solr.FieldQuery("id", uri))
	params.Set("fl", "id,rdf_type,component,containing_issue,display_title,date,issue_edition,issue_volume,issue_issue,"+
		"rights,attribution,pages:[subquery],citation,display_date,image_height,image_width,mime_type")
	params.Set("rows", "1")
	params.Set("pages.q", "{!terms f=id v=$row.pcdm_members}")
	params.Set("pages.fq", "component:Page")
	params.Set("pages.fl", "id,display_title,page_number,images:[subquery]")
	params.Set("pages.sort", "page_number asc")
	params.Set("pages.rows", fmt.Sprint(MaxPages))
	params.Set("pages.images.q", "{!terms f=id v=$row.pcdm_files}")
	params.Set("pages.images.fl", "id,pcdm_file_of,image_height,image_width,mime_type,display_title,rdf_type")
	params.Set("pages.images.fq", "mime_type:image/*")
	params.Set("pages.images.rows", fmt.Sprint(MaxImages))
	return params
}

var _ presentation.Item = (*Item)(nil)

// Item is one fcrepo object. It fetches its document on first use and is
// not safe for concurrent use.
type Item struct {
	backend *Backend
	path    string
	uri     string
	doc     *document
}

// URI returns the repository URI of the item.
func (i *Item) URI() string {
	return i.uri
}

// ID implements presentation.Item.
func (i *Item) ID() string {
	return pathcodec.FormatID(string(Prefix), i.path)
}

// BaseURI implements presentation.Item.
func (i *Item) BaseURI() string {
	return i.backend.config.ManifestURL + i.ID() + "/"
}

func (i *Item) document(ctx context.Context) (*document, error) {
	if i.doc != nil {
		return i.doc, nil
	}

	resp, err := i.backend.solr.Query(ctx, solr.HandlerPCDM, documentParams(i.uri))
	if err != nil {
		return nil, &presentation.Error{Op: "Document", Err: presentation.ErrBackendUnavailable, Msg: err.Error()}
	}

	raw := resp.Response.First()
	if raw == nil {
		return nil, presentation.NotFound("Document", "no Solr document with id "+i.uri)
	}

	var doc document
	if err := raw.Decode(&doc); err != nil {
		return nil, &presentation.Error{Op: "Document", Err: presentation.ErrMalformedSource, Msg: err.Error()}
	}

	i.backend.logger.Debug("fetched document", "uri", i.uri, "pages", len(doc.Pages.Docs))
	i.doc = &doc
	return i.doc, nil
}

// Label implements presentation.Item.
func (i *Item) Label(ctx context.Context) (string, error) {
	doc, err := i.document(ctx)
	if err != nil {
		return "", err
	}
	return doc.DisplayTitle, nil
}

// IsManifestLevel reports whether the item is a physical object rather
// than a collection.
func (i *Item) IsManifestLevel(ctx context.Context) (bool, error) {
	doc, err := i.document(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(doc.RDFType, "pcdm:Object") && !slices.Contains(doc.RDFType, "pcdm:Collection"), nil
}

// IsCanvasLevel reports whether the item is a single page.
func (i *Item) IsCanvasLevel(ctx context.Context) (bool, error) {
	doc, err := i.document(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range doc.Component {
		if strings.EqualFold(c, canvasComponent) {
			return true, nil
		}
	}
	return false, nil
}

// ManifestID implements presentation.Item. A page belongs to the manifest
// of the issue containing it.
func (i *Item) ManifestID(ctx context.Context) (string, error) {
	canvas, err := i.IsCanvasLevel(ctx)
	if err != nil {
		return "", err
	}
	if !canvas {
		return i.backend.encodeURI(i.uri), nil
	}

	if len(i.doc.ContainingIssue) == 0 || i.doc.ContainingIssue[0] == "" {
		return "", &presentation.Error{
			Op:  "ManifestID",
			Err: presentation.ErrMalformedSource,
			Msg: "page " + i.uri + " has no containing_issue",
		}
	}
	return i.backend.encodeURI(i.doc.ContainingIssue[0]), nil
}

// Pages implements presentation.Item.
func (i *Item) Pages(ctx context.Context) ([]presentation.Page, error) {
	doc, err := i.document(ctx)
	if err != nil {
		return nil, err
	}

	pages := make([]presentation.Page, 0, len(doc.Pages.Docs))
	for _, p := range doc.Pages.Docs {
		result := i.backend.selectImage(p.Images.Docs)
		if result.Err != nil {
			i.backend.logger.Debug("using placeholder image", "page", p.ID, "reason", result.Err)
		}
		pages = append(pages, presentation.Page{
			ID:    i.backend.encodeURI(p.ID),
			URI:   p.ID,
			Label: "Page " + p.PageNumber,
			Image: presentation.ResolveImage(result, i.backend.placeholder()),
		})
	}
	return pages, nil
}

// selectImage picks the preferred image file of a page.
func (b *Backend) selectImage(images []imageDocument) presentation.ImageResult {
	candidates := make([]presentation.Candidate, 0, len(images))
	for _, img := range images {
		candidates = append(candidates, presentation.Candidate{
			URI:      img.ID,
			MimeType: img.MimeType,
			Width:    img.Width,
			Height:   img.Height,
		})
	}

	c, ok := presentation.SelectPreferred(candidates, b.config.PreferredFormats)
	if !ok {
		return presentation.Unresolved("no image in a preferred format", nil)
	}

	// The image server reads the expanded path only.
	return presentation.Resolved(presentation.Image{
		ID:     pathcodec.FormatID(string(Prefix), b.relative(c.URI)),
		URI:    c.URI,
		Width:  c.Width,
		Height: c.Height,
	})
}

// Metadata implements presentation.Item.
func (i *Item) Metadata(ctx context.Context) (presentation.Metadata, error) {
	doc, err := i.document(ctx)
	if err != nil {
		return nil, err
	}

	displayDate := doc.DisplayDate
	if displayDate == nil && doc.Date != nil {
		d, _, _ := strings.Cut(*doc.Date, "T")
		displayDate = &d
	}

	var citation *string
	if doc.Citation != nil {
		c := strings.Join(doc.Citation, " ")
		citation = &c
	}

	m := presentation.Metadata{}
	m = presentation.AppendMetadata(m, "Date", displayDate)
	m = presentation.AppendMetadata(m, "Edition", doc.Edition)
	m = presentation.AppendMetadata(m, "Volume", doc.Volume)
	m = presentation.AppendMetadata(m, "Issue", doc.Issue)
	m = presentation.AppendMetadata(m, "Bibliographic Citation", citation)
	return m, nil
}

// License implements presentation.Item.
func (i *Item) License(ctx context.Context) (string, error) {
	doc, err := i.document(ctx)
	if err != nil {
		return "", err
	}
	if len(doc.Rights) == 0 {
		return "", nil
	}
	return doc.Rights[0], nil
}

// Attribution implements presentation.Item.
func (i *Item) Attribution(ctx context.Context) (string, error) {
	doc, err := i.document(ctx)
	if err != nil {
		return "", err
	}
	return doc.Attribution, nil
}

// NavDate implements presentation.Item.
func (i *Item) NavDate(ctx context.Context) (string, error) {
	doc, err := i.document(ctx)
	if err != nil {
		return "", err
	}
	if doc.Date == nil {
		return "", nil
	}
	return *doc.Date, nil
}

// pageURI resolves a page identifier to the repository URI of the page.
func (i *Item) pageURI(pageRef string) (string, string, error) {
	id, err := itemid.Parse(pageRef)
	if err != nil {
		return "", "", &presentation.Error{Op: "PageRef", Err: presentation.ErrInvalidID, Msg: err.Error()}
	}
	if id.Provider() != Prefix {
		return "", "", &presentation.Error{
			Op:  "PageRef",
			Err: presentation.ErrInvalidID,
			Msg: pageRef + " is not an fcrepo page",
		}
	}
	return id.String(), i.backend.pathToURI(id.Path()), nil
}

// SearchHits implements presentation.Item.
func (i *Item) SearchHits(ctx context.Context, pageRef, query string) (*presentation.AnnotationList, error) {
	pageID, uri, err := i.pageURI(pageRef)
	if err != nil {
		return nil, err
	}
	listID := annotation.SearchListID(i.backend.config.ManifestURL, pageID, query)
	return i.backend.annotations.SearchHits(ctx, uri, query, listID)
}

// TextOverlays implements presentation.Item.
func (i *Item) TextOverlays(ctx context.Context, pageRef string) (*presentation.AnnotationList, error) {
	pageID, uri, err := i.pageURI(pageRef)
	if err != nil {
		return nil, err
	}
	listID := annotation.TextListID(i.backend.config.ManifestURL, pageID)
	return i.backend.annotations.TextOverlays(ctx, uri, listID)
}
