package fedora2

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/araddon/dateparse"

	"github.com/umd-lib/iiif/pkg/annotation"
	"github.com/umd-lib/iiif/pkg/fetch"
	"github.com/umd-lib/iiif/pkg/itemid"
	"github.com/umd-lib/iiif/pkg/presentation"
	"github.com/umd-lib/iiif/pkg/solr"
)

// singleImageLabel labels the page of a single-image item without a title.
const singleImageLabel = "Image"

// document is an item's record in the Fedora 2 Solr core.
type document struct {
	PID          string   `solr:"pid"`
	DisplayTitle string   `solr:"displayTitle"`
	Dates        []string `solr:"dmDate"`
}

var _ presentation.Item = (*Item)(nil)

// Item is one Fedora 2 object. It fetches its documents on first use and
// is not safe for concurrent use.
type Item struct {
	backend *Backend
	pid     string
	service string
	doc     *document
	mets    *structMap
}

// PID returns the object PID.
func (i *Item) PID() string {
	return i.pid
}

// ID implements presentation.Item.
func (i *Item) ID() string {
	if i.service != "" {
		return formatID(i.pid + "_" + i.service)
	}
	return formatID(i.pid)
}

// BaseURI implements presentation.Item.
func (i *Item) BaseURI() string {
	return i.backend.config.ManifestURL + formatID(i.pid) + "/"
}

func (i *Item) document(ctx context.Context) (*document, error) {
	if i.doc != nil {
		return i.doc, nil
	}

	q := "pid:" + solr.Phrase(i.pid)
	if i.service != "" {
		q = "hasPart:" + solr.Phrase(i.pid)
	}

	resp, err := i.backend.solr.Query(ctx, solr.HandlerSelect, url.Values{"q": {q}})
	if err != nil {
		return nil, &presentation.Error{Op: "Document", Err: presentation.ErrBackendUnavailable, Msg: err.Error()}
	}

	raw := resp.Response.First()
	if raw == nil {
		return nil, presentation.NotFound("Document", "no Solr document for "+q)
	}

	var doc document
	if err := raw.Decode(&doc); err != nil {
		return nil, &presentation.Error{Op: "Document", Err: presentation.ErrMalformedSource, Msg: err.Error()}
	}

	i.doc = &doc
	return i.doc, nil
}

// structMap fetches the METS structure map of the item.
func (i *Item) structMap(ctx context.Context) (*structMap, error) {
	if i.mets != nil {
		return i.mets, nil
	}

	metsURL := fmt.Sprintf("%sfedora/get/%s/umd-bdef:rels-mets/getRels/", i.backend.config.Fedora2URL, i.pid)
	data, err := i.backend.getter.Get(ctx, metsURL)
	if err != nil {
		if fetch.IsNotFound(err) {
			return nil, presentation.NotFound("StructMap", "no METS for "+i.pid)
		}
		return nil, &presentation.Error{Op: "StructMap", Err: presentation.ErrBackendUnavailable, Msg: err.Error()}
	}

	m, err := parseMETS(data)
	if err != nil {
		return nil, &presentation.Error{Op: "StructMap", Err: presentation.ErrMalformedSource, Msg: err.Error()}
	}

	i.mets = m
	return i.mets, nil
}

// Label implements presentation.Item. Objects without a title are labelled
// with their PID.
func (i *Item) Label(ctx context.Context) (string, error) {
	doc, err := i.document(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(doc.DisplayTitle) == "" {
		return i.pid, nil
	}
	return doc.DisplayTitle, nil
}

// IsManifestLevel implements presentation.Item. Every Fedora 2 item is a
// manifest.
func (i *Item) IsManifestLevel(ctx context.Context) (bool, error) {
	return true, nil
}

// IsCanvasLevel implements presentation.Item.
func (i *Item) IsCanvasLevel(ctx context.Context) (bool, error) {
	return false, nil
}

// ManifestID implements presentation.Item. It is the item's own identifier,
// service suffix included.
func (i *Item) ManifestID(ctx context.Context) (string, error) {
	return i.ID(), nil
}

// pageSource is a page before its image is resolved.
type pageSource struct {
	pid   string
	label string
}

// Pages implements presentation.Item.
func (i *Item) Pages(ctx context.Context) ([]presentation.Page, error) {
	if i.service != "" {
		label, err := i.Label(ctx)
		if err != nil {
			return nil, err
		}
		if label == i.pid {
			label = singleImageLabel
		}
		return i.resolvePages(ctx, []pageSource{{pid: i.pid, label: label}}, nil), nil
	}

	known, err := i.backend.migratedDimensions(ctx, i.pid)
	if err != nil {
		i.backend.logger.Warn("fcrepo dimension lookup failed", "pid", i.pid, "error", err)
	}

	m, err := i.structMap(ctx)
	if err != nil {
		return nil, err
	}

	var sources []pageSource
	for position, entry := range m.images() {
		label := pageLabel(entry, position)
		for _, fileID := range entry.FileIDs {
			pid, ok := m.location(fileID)
			if !ok {
				i.backend.logger.Warn("skipping file without location",
					"pid", i.pid,
					"file_id", fileID,
					"error", presentation.ErrMalformedSource,
				)
				continue
			}
			sources = append(sources, pageSource{pid: pid, label: label})
		}
	}

	return i.resolvePages(ctx, sources, known), nil
}

// resolvePages resolves the image of every source on the backend's worker
// pool. Pages keep the order of sources. Once ctx is done the remaining
// lookups are neither submitted nor run, and their pages get the placeholder.
func (i *Item) resolvePages(ctx context.Context, sources []pageSource, known map[string]dimensions) []presentation.Page {
	results := make([]presentation.ImageResult, len(sources))

	var wg sync.WaitGroup
	for idx, src := range sources {
		if err := ctx.Err(); err != nil {
			results[idx] = presentation.Unresolved("image lookup canceled", err)
			continue
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[idx] = presentation.Unresolved("image lookup canceled", err)
				return
			}
			results[idx] = i.backend.resolveImage(ctx, src.pid, known)
		}
		if err := i.backend.pool.Submit(task); err != nil {
			wg.Done()
			results[idx] = presentation.Unresolved("image lookup not scheduled", err)
		}
	}
	wg.Wait()

	placeholder := i.backend.placeholder()
	pages := make([]presentation.Page, 0, len(sources))
	for idx, src := range sources {
		if results[idx].Err != nil {
			i.backend.logger.Debug("using placeholder image", "pid", src.pid, "reason", results[idx].Err)
		}

		label := src.label
		if label == "" {
			label = src.pid
		}
		pages = append(pages, presentation.Page{
			ID:    formatID(src.pid),
			Label: label,
			Image: presentation.ResolveImage(results[idx], placeholder),
		})
	}
	return pages
}

// Metadata implements presentation.Item: one Date entry per dmDate value.
func (i *Item) Metadata(ctx context.Context) (presentation.Metadata, error) {
	doc, err := i.document(ctx)
	if err != nil {
		return nil, err
	}

	m := presentation.Metadata{}
	for _, raw := range doc.Dates {
		t, err := dateparse.ParseAny(raw)
		if err != nil {
			i.backend.logger.Warn("skipping unparseable date", "pid", i.pid, "date", raw, "error", err)
			continue
		}
		date := t.Format("2006-01-02")
		m = presentation.AppendMetadata(m, "Date", &date)
	}
	return m, nil
}

// License implements presentation.Item. Fedora 2 records carry no license.
func (i *Item) License(ctx context.Context) (string, error) {
	return "", nil
}

// Attribution implements presentation.Item.
func (i *Item) Attribution(ctx context.Context) (string, error) {
	return "", nil
}

// NavDate implements presentation.Item.
func (i *Item) NavDate(ctx context.Context) (string, error) {
	return "", nil
}

// pageID validates a page reference and returns its canonical form.
func (i *Item) pageID(pageRef string) (string, error) {
	id, err := itemid.Parse(pageRef)
	if err != nil {
		return "", &presentation.Error{Op: "PageRef", Err: presentation.ErrInvalidID, Msg: err.Error()}
	}
	if id.Provider() != Prefix {
		return "", &presentation.Error{Op: "PageRef", Err: presentation.ErrInvalidID, Msg: pageRef + " is not a fedora2 page"}
	}
	return id.String(), nil
}

// SearchHits implements presentation.Item. Fedora 2 text is not indexed
// for highlighting, so the list is always empty.
func (i *Item) SearchHits(ctx context.Context, pageRef, query string) (*presentation.AnnotationList, error) {
	pageID, err := i.pageID(pageRef)
	if err != nil {
		return nil, err
	}
	return presentation.NewAnnotationList(annotation.SearchListID(i.backend.config.ManifestURL, pageID, query)), nil
}

// TextOverlays implements presentation.Item. The list is always empty.
func (i *Item) TextOverlays(ctx context.Context, pageRef string) (*presentation.AnnotationList, error) {
	pageID, err := i.pageID(pageRef)
	if err != nil {
		return nil, err
	}
	return presentation.NewAnnotationList(annotation.TextListID(i.backend.config.ManifestURL, pageID)), nil
}
