package annotations

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umd-lib/iiif/internal/cmd/base"
)

func newCommand(t *testing.T) (*Command, *cli.MockUi) {
	t.Helper()

	solr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"response": {"numFound": 1, "start": 0, "docs": [{"id": "a1",
				"annotation_source": ["http://fcrepo.test/rest/pcdm/11/22/33/44/11223344-page1"],
				"resource_selector": ["xywh=1,2,30,4"],
				"extracted_text": "Terps|1,2,3,4 win|5,2,3,4"}]}
		}`))
	}))
	t.Cleanup(solr.Close)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.hcl", []byte(`
fcrepo {
  fcrepo_url   = "http://fcrepo.test/rest/"
  solr_url     = "`+solr.URL+`/solr/"
  manifest_url = "https://iiif.test/manifests/"
  image_url    = "https://iiif.test/images/"
}
`), 0o644))

	ui := cli.NewMockUi()
	b := base.New(hclog.NewNullLogger(), ui)
	b.Fs = fs
	return &Command{Command: b}, ui
}

func TestRun_Text(t *testing.T) {
	c, ui := newCommand(t)

	code := c.Run([]string{"fcrepo:pcdm::11223344-page1", "text"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	out := ui.OutputWriter.String()
	assert.Contains(t, out, `"id": "https://iiif.test/manifests/fcrepo:pcdm::11223344-page1/list/text"`)
	assert.Contains(t, out, `"text": "Terps win"`)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing list", args: []string{"fcrepo:p1"}, wantErr: "expected a page identifier and a list name"},
		{name: "search without query", args: []string{"fcrepo:p1", "search"}, wantErr: "-q is required"},
		{name: "unknown list", args: []string{"fcrepo:p1", "ocr"}, wantErr: `unknown annotation list "ocr"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ui := newCommand(t)
			assert.Equal(t, 1, c.Run(tt.args))
			assert.Contains(t, ui.ErrorWriter.String(), tt.wantErr)
		})
	}
}
