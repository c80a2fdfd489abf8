package annotation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umd-lib/iiif/pkg/fetch"
	"github.com/umd-lib/iiif/pkg/presentation"
	"github.com/umd-lib/iiif/pkg/solr"
)

const pageURI = "http://fcrepo.example.edu/rest/pcdm/aa/bb/cc/dd/aabbccdd-page1"

func parseResponse(t *testing.T, raw string) *solr.Response {
	t.Helper()
	var resp solr.Response
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	return &resp
}

func TestHighlightedRegions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single hit",
			text: "the <em>Terrapins|214,340,130,22</em> won",
			want: []string{"214,340,130,22"},
		},
		{
			name: "two spans",
			text: "<em>Maryland|1,2,3,4</em> and <em>Terps|5,6,7,8</em>",
			want: []string{"1,2,3,4", "5,6,7,8"},
		},
		{
			name: "several regions in one span",
			text: "<em>College|1,1,1,1 Park|2,2,2,2</em>",
			want: []string{"1,1,1,1", "2,2,2,2"},
		},
		{
			name: "coordinates outside highlights ignored",
			text: "plain|9,9,9,9 <em>hit|1,2,3,4</em>",
			want: []string{"1,2,3,4"},
		},
		{
			name: "no highlight",
			text: "nothing|1,2,3,4",
			want: nil,
		},
		{
			name: "incomplete coordinates",
			text: "<em>hit|1,2,3</em>",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HighlightedRegions(tt.text))
		})
	}
}

func TestStripCoordinateTags(t *testing.T) {
	assert.Equal(t, "Maryland Terrapins", StripCoordinateTags("Maryland|120,340,88,22 Terrapins|214,340,130,22"))
	assert.Equal(t, "no tags", StripCoordinateTags("no tags"))
	assert.Equal(t, "partial|1,2", StripCoordinateTags("partial|1,2"))
}

func TestSearchResultID(t *testing.T) {
	assert.Equal(t, "#search-result-001", SearchResultID(1))
	assert.Equal(t, "#search-result-042", SearchResultID(42))
	assert.Equal(t, "#search-result-1000", SearchResultID(1000))
}

func TestListIDs(t *testing.T) {
	assert.Equal(t,
		"https://iiif.example.edu/manifests/fcrepo:pcdm::aabbccdd-page1/list/search?q=old+line",
		SearchListID("https://iiif.example.edu/manifests/", "fcrepo:pcdm::aabbccdd-page1", "old line"))
	assert.Equal(t,
		"https://iiif.example.edu/manifests/fcrepo:pcdm::aabbccdd-page1/list/text",
		TextListID("https://iiif.example.edu/manifests", "fcrepo:pcdm::aabbccdd-page1"))
}

func TestSearchHits_SequentialAcrossDocuments(t *testing.T) {
	resp := parseResponse(t, `{
		"response": {"numFound": 3, "start": 0, "docs": [
			{"id": "doc-1", "annotation_source": ["`+pageURI+`"]},
			{"id": "doc-2", "annotation_source": ["`+pageURI+`"]},
			{"id": "doc-3", "annotation_source": ["`+pageURI+`"]}
		]},
		"highlighting": {
			"doc-1": {"extracted_text": ["<em>a|1,1,1,1</em> <em>b|2,2,2,2</em>"]},
			"doc-2": {},
			"doc-3": {"extracted_text": ["<em>c|3,3,3,3</em>", "<em>d|4,4,4,4</em>"]}
		}
	}`)

	list := SearchHits(resp, "list-id")
	assert.Equal(t, "list-id", list.ID)
	require.Len(t, list.Annotations, 4)

	for i, want := range []string{"1,1,1,1", "2,2,2,2", "3,3,3,3", "4,4,4,4"} {
		a := list.Annotations[i]
		assert.Equal(t, SearchResultID(i+1), a.ID)
		assert.Equal(t, presentation.TypeSearchResult, a.Type)
		assert.Equal(t, presentation.MotivationSearchResult, a.Motivation)
		assert.Nil(t, a.Body)
		assert.Equal(t, pageURI, a.Target.Source)
		assert.Equal(t, "xywh="+want, a.Target.Selector)
	}
}

func TestSearchHits_NoHighlighting(t *testing.T) {
	resp := parseResponse(t, `{"response": {"numFound": 0, "start": 0, "docs": []}}`)

	list := SearchHits(resp, "list-id")
	assert.NotNil(t, list.Annotations)
	assert.Empty(t, list.Annotations)
}

func TestTextOverlays_OnePerDocument(t *testing.T) {
	resp := parseResponse(t, `{
		"response": {"numFound": 3, "start": 0, "docs": [
			{"id": "b1", "annotation_source": ["`+pageURI+`"], "resource_selector": ["xywh=10,10,100,20"],
			 "extracted_text": "Maryland|10,10,50,20 Terrapins|60,10,50,20"},
			{"id": "b2", "annotation_source": ["`+pageURI+`"], "resource_selector": ["xywh=10,40,100,20"],
			 "extracted_text": "Win|10,40,30,20"},
			{"id": "b3", "annotation_source": ["`+pageURI+`"], "resource_selector": ["xywh=10,70,100,20"]}
		]}
	}`)

	list := TextOverlays(resp, "text-list")
	require.Len(t, list.Annotations, 3)

	first := list.Annotations[0]
	assert.Equal(t, "#xywh=10,10,100,20", first.ID)
	assert.Equal(t, presentation.TypeTextRegion, first.Type)
	assert.Equal(t, presentation.MotivationTextRegion, first.Motivation)
	require.NotNil(t, first.Body)
	assert.Equal(t, "Maryland Terrapins", first.Body.Text)
	assert.Equal(t, presentation.Target{Source: pageURI, Selector: "xywh=10,10,100,20"}, first.Target)

	assert.Equal(t, "#xywh=10,40,100,20", list.Annotations[1].ID)
	assert.Equal(t, "Win", list.Annotations[1].Body.Text)
	assert.Equal(t, "", list.Annotations[2].Body.Text)
}

func TestTextOverlays_SkipsUnplaceableDocuments(t *testing.T) {
	resp := parseResponse(t, `{
		"response": {"numFound": 2, "start": 0, "docs": [
			{"id": "a1", "annotation_source": ["`+pageURI+`"], "resource_selector": ["xywh=0,0,5,5"], "extracted_text": "first"},
			{"id": "b1", "annotation_source": ["`+pageURI+`"]},
			{"id": "b2", "resource_selector": ["xywh=1,2,3,4"]},
			{"id": "a2", "annotation_source": ["`+pageURI+`"], "resource_selector": ["xywh=9,9,5,5"], "extracted_text": "last"}
		]}
	}`)

	list := TextOverlays(resp, "text-list")
	require.Len(t, list.Annotations, 2)
	assert.Equal(t, "#xywh=0,0,5,5", list.Annotations[0].ID)
	assert.Equal(t, "first", list.Annotations[0].Body.Text)
	assert.Equal(t, "#xywh=9,9,5,5", list.Annotations[1].ID)
	assert.Equal(t, "last", list.Annotations[1].Body.Text)
}

func TestExtractor(t *testing.T) {
	var lastQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery = r.URL.Query()
		assert.Equal(t, "/select", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("hl") == "true" {
			_, _ = w.Write([]byte(`{
				"response": {"numFound": 1, "start": 0, "docs": [{"id": "d", "annotation_source": ["` + pageURI + `"]}]},
				"highlighting": {"d": {"extracted_text": ["<em>old|1,2,3,4</em> <em>line|5,6,7,8</em>"]}}
			}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"response": {"numFound": 1, "start": 0, "docs": [
				{"id": "d", "annotation_source": ["` + pageURI + `"], "resource_selector": ["xywh=1,2,3,4"], "extracted_text": "old|1,2,3,4"}
			]}
		}`))
	}))
	defer server.Close()

	client := solr.NewClient(server.URL, fetch.NewClient(fetch.DefaultConfig(), nil))
	extractor := NewExtractor(client, hclog.NewNullLogger())
	ctx := context.Background()

	t.Run("search hits", func(t *testing.T) {
		list, err := extractor.SearchHits(ctx, pageURI, "old line", "search-list")
		require.NoError(t, err)
		assert.Len(t, list.Annotations, 2)

		assert.Equal(t, "old line", lastQuery["q"][0])
		assert.Equal(t, "unified", lastQuery["hl.method"][0])
		assert.Equal(t, "extracted_text", lastQuery["hl.fl"][0])
		assert.Contains(t, lastQuery["fq"], "rdf_type:oa\\:Annotation")
		assert.Contains(t, lastQuery["fq"], solr.FieldQuery(FieldSource, pageURI))
	})

	t.Run("text overlays", func(t *testing.T) {
		list, err := extractor.TextOverlays(ctx, pageURI, "text-list")
		require.NoError(t, err)
		require.Len(t, list.Annotations, 1)
		assert.Equal(t, "old", list.Annotations[0].Body.Text)

		assert.Equal(t, "*:*", lastQuery["q"][0])
		assert.Equal(t, "100", lastQuery["rows"][0])
		assert.Empty(t, lastQuery["hl"])
	})
}

func TestExtractor_BackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := solr.NewClient(server.URL, fetch.NewClient(fetch.DefaultConfig(), nil))
	extractor := NewExtractor(client, nil)

	_, err := extractor.TextOverlays(context.Background(), pageURI, "text-list")
	require.Error(t, err)
	assert.True(t, errors.Is(err, presentation.ErrBackendUnavailable))
}
