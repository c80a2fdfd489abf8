// Package annotation turns Solr-indexed OCR text into positioned
// annotations: search hits from highlighting markup and text overlays from
// coordinate-tagged text blocks.
//
// Indexed OCR text carries the region of each word as a "|x,y,w,h" tag
// after the word, e.g.
//
//	Maryland|120,340,88,22 Terrapins|214,340,130,22
package annotation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/umd-lib/iiif/pkg/presentation"
	"github.com/umd-lib/iiif/pkg/solr"
)

// Solr fields of an indexed annotation document.
const (
	FieldText             = "extracted_text"
	FieldSource           = "annotation_source"
	FieldResourceSelector = "resource_selector"
)

// TextOverlayRows caps the number of text blocks returned for one page.
const TextOverlayRows = 100

var (
	// highlightPattern matches one highlighted span; group 1 is its text.
	//
	//	<em>([^<]*)</em>
	highlightPattern = regexp.MustCompile(`<em>([^<]*)</em>`)

	// coordPattern matches one region "x,y,w,h" of four unsigned integers.
	coordPattern = regexp.MustCompile(`\d+,\d+,\d+,\d+`)

	// coordTagPattern matches one region tag "|x,y,w,h".
	coordTagPattern = regexp.MustCompile(`\|\d+,\d+,\d+,\d+`)
)

// HighlightedRegions returns every region found inside the highlighted
// spans of text, in order of appearance.
func HighlightedRegions(text string) []string {
	var regions []string
	for _, m := range highlightPattern.FindAllStringSubmatch(text, -1) {
		regions = append(regions, coordPattern.FindAllString(m[1], -1)...)
	}
	return regions
}

// StripCoordinateTags removes all "|x,y,w,h" tags from text.
func StripCoordinateTags(text string) string {
	return coordTagPattern.ReplaceAllString(text, "")
}

// SearchResultID returns the fragment identifier of the n-th search hit,
// counting from 1.
func SearchResultID(n int) string {
	return fmt.Sprintf("#search-result-%03d", n)
}

// SearchListID is the identifier of the search hit list of a page.
func SearchListID(manifestURL, pageID, query string) string {
	return strings.TrimSuffix(manifestURL, "/") + "/" + pageID + "/list/search?q=" + url.QueryEscape(query)
}

// TextListID is the identifier of the text overlay list of a page.
func TextListID(manifestURL, pageID string) string {
	return strings.TrimSuffix(manifestURL, "/") + "/" + pageID + "/list/text"
}

// baseParams selects the annotation documents attached to pageURI.
func baseParams(pageURI string) url.Values {
	params := url.Values{}
	params.Add("fq", "rdf_type:oa\\:Annotation")
	params.Add("fq", solr.FieldQuery(FieldSource, pageURI))
	params.Set("fl", "*")
	return params
}

// SearchParams returns the Solr parameters for highlighting query within
// the annotation documents of pageURI.
func SearchParams(pageURI, query string) url.Values {
	params := baseParams(pageURI)
	params.Set("q", query)
	params.Set("hl", "true")
	params.Set("hl.fl", FieldText)
	params.Set("hl.simple.pre", "<em>")
	params.Set("hl.simple.post", "</em>")
	params.Set("hl.method", "unified")
	return params
}

// TextParams returns the Solr parameters listing every annotation document
// of pageURI.
func TextParams(pageURI string) url.Values {
	params := baseParams(pageURI)
	params.Set("q", "*:*")
	params.Set("rows", fmt.Sprint(TextOverlayRows))
	return params
}

// SearchHits builds one search-result annotation per highlighted region in
// resp. Documents are visited in result order and hits are numbered
// sequentially across all of them.
func SearchHits(resp *solr.Response, listID string) *presentation.AnnotationList {
	list := presentation.NewAnnotationList(listID)

	count := 0
	for _, doc := range resp.Response.Docs {
		snippets := resp.Highlighting[doc.ID()][FieldText]
		if len(snippets) == 0 {
			continue
		}
		source, ok := doc.First(FieldSource)
		if !ok {
			continue
		}
		for _, snippet := range snippets {
			for _, region := range HighlightedRegions(snippet) {
				count++
				list.Annotations = append(list.Annotations, presentation.Annotation{
					ID:         SearchResultID(count),
					Type:       presentation.TypeSearchResult,
					Motivation: presentation.MotivationSearchResult,
					Target: presentation.Target{
						Source:   source,
						Selector: "xywh=" + region,
					},
				})
			}
		}
	}
	return list
}

// TextOverlays builds one text-region annotation per document in resp,
// preserving result order. Documents without a source or a resource
// selector cannot be placed and are left out.
func TextOverlays(resp *solr.Response, listID string) *presentation.AnnotationList {
	list := presentation.NewAnnotationList(listID)

	for _, doc := range resp.Response.Docs {
		source, ok := doc.First(FieldSource)
		if !ok {
			continue
		}
		selector, ok := doc.First(FieldResourceSelector)
		if !ok {
			continue
		}
		text, _ := doc.First(FieldText)

		list.Annotations = append(list.Annotations, presentation.Annotation{
			ID:         "#" + selector,
			Type:       presentation.TypeTextRegion,
			Motivation: presentation.MotivationTextRegion,
			Body:       &presentation.TextBody{Text: StripCoordinateTags(text)},
			Target: presentation.Target{
				Source:   source,
				Selector: selector,
			},
		})
	}
	return list
}
