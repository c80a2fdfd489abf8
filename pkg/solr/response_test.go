package solr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testImage struct {
	ID       string `solr:"id"`
	MimeType string `solr:"mime_type"`
	Width    *int   `solr:"image_width"`
}

type testDoc struct {
	ID       string   `solr:"id"`
	RDFType  []string `solr:"rdf_type"`
	Rights   []string `solr:"rights"`
	Edition  *string  `solr:"issue_edition"`
	Volume   *string  `solr:"issue_volume"`
	Page     string   `solr:"page_number"`
	Children struct {
		Docs []testImage `solr:"docs"`
	} `solr:"images"`
}

func decodeDoc(t *testing.T, raw string) Doc {
	t.Helper()
	var d Doc
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return d
}

func TestDoc_Decode(t *testing.T) {
	d := decodeDoc(t, `{
		"id": "http://fcrepo/rest/pcdm/a",
		"rdf_type": "pcdm:Object",
		"rights": ["http://rightsstatements.org/vocab/NoC-US/1.0/"],
		"issue_edition": "Final",
		"issue_volume": null,
		"page_number": 7,
		"images": {"numFound": 1, "start": 0, "docs": [
			{"id": "http://fcrepo/rest/pcdm/a/f", "mime_type": "image/tiff", "image_width": 4000}
		]}
	}`)

	var out testDoc
	require.NoError(t, d.Decode(&out))

	assert.Equal(t, "http://fcrepo/rest/pcdm/a", out.ID)
	assert.Equal(t, []string{"pcdm:Object"}, out.RDFType, "single value becomes a slice")
	assert.Equal(t, []string{"http://rightsstatements.org/vocab/NoC-US/1.0/"}, out.Rights)
	require.NotNil(t, out.Edition)
	assert.Equal(t, "Final", *out.Edition)
	assert.Nil(t, out.Volume, "null stays nil")
	assert.Equal(t, "7", out.Page, "number becomes a string")

	require.Len(t, out.Children.Docs, 1)
	assert.Equal(t, "image/tiff", out.Children.Docs[0].MimeType)
	require.NotNil(t, out.Children.Docs[0].Width)
	assert.Equal(t, 4000, *out.Children.Docs[0].Width)
}

func TestDoc_Strings(t *testing.T) {
	d := decodeDoc(t, `{"one": "a", "many": ["b", "c"], "num": 3}`)

	assert.Equal(t, []string{"a"}, d.Strings("one"))
	assert.Equal(t, []string{"b", "c"}, d.Strings("many"))
	assert.Nil(t, d.Strings("num"))
	assert.Nil(t, d.Strings("missing"))

	first, ok := d.First("many")
	assert.True(t, ok)
	assert.Equal(t, "b", first)

	_, ok = d.First("missing")
	assert.False(t, ok)
}

func TestDocList_First(t *testing.T) {
	assert.Nil(t, DocList{}.First())
	assert.Equal(t, "x", DocList{Docs: []Doc{{"id": "x"}}}.First().ID())
}
