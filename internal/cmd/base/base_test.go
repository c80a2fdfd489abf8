package base

import (
	"flag"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/umd-lib/iiif/pkg/itemid"
)

const bothBackends = `
fcrepo {
  fcrepo_url   = "http://fcrepo.test/rest/"
  solr_url     = "http://solr.test/solr/fedora4/"
  manifest_url = "https://iiif.test/manifests/"
  image_url    = "https://iiif.test/images/"
}

fedora2 {
  fedora2_url     = "http://fedora2.test/"
  solr_url        = "http://solr.test/solr/fedora/"
  fcrepo_solr_url = "http://solr.test/solr/fedora4/"
  manifest_url    = "https://iiif.test/manifests/"
  image_url       = "https://iiif.test/images/"
}
`

func newTestCommand(t *testing.T, files map[string]string) *Command {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	c := New(hclog.NewNullLogger(), cli.NewMockUi())
	c.Fs = fs
	return c
}

func TestLoadConfig(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		c := newTestCommand(t, map[string]string{"/etc/iiif.hcl": bothBackends})
		f := NewFlagSet(newFlagSet())
		c.ConfigFlag(f)
		require.NoError(t, f.Parse([]string{"-config", "/etc/iiif.hcl"}))

		cfg, err := c.LoadConfig()
		require.NoError(t, err)
		assert.NotNil(t, cfg.Fcrepo)
		assert.NotNil(t, cfg.Fedora2)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "/srv/iiif.hcl")
		c := newTestCommand(t, map[string]string{"/srv/iiif.hcl": bothBackends})
		c.ConfigFlag(NewFlagSet(newFlagSet()))

		_, err := c.LoadConfig()
		require.NoError(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		c := newTestCommand(t, nil)
		c.ConfigFlag(NewFlagSet(newFlagSet()))

		_, err := c.LoadConfig()
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestNewResolver(t *testing.T) {
	c := newTestCommand(t, map[string]string{"config.hcl": bothBackends})
	c.ConfigFlag(NewFlagSet(newFlagSet()))
	cfg, err := c.LoadConfig()
	require.NoError(t, err)

	resolver, cleanup, err := c.NewResolver(cfg)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t,
		[]itemid.ProviderType{itemid.ProviderTypeFcrepo, itemid.ProviderTypeFedora2},
		resolver.Providers())

	item, err := resolver.Resolve("fedora2:umd:1234")
	require.NoError(t, err)
	assert.Equal(t, "fedora2:umd:1234", item.ID())
}

func TestFlagSetHelp(t *testing.T) {
	f := NewFlagSet(newFlagSet())
	var format string
	FormatFlag(f, &format)

	help := f.Help()
	assert.Contains(t, help, "Options:")
	assert.Contains(t, help, "-format=json")
	assert.Contains(t, help, "Output format (json or yaml)")
}

func TestRender(t *testing.T) {
	v := map[string]any{"id": "fcrepo:x", "pages": []string{}}

	out, err := Render(FormatJSON, v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"fcrepo:x","pages":[]}`, out)

	out, err = Render(FormatYAML, v)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "fcrepo:x", decoded["id"])

	_, err = Render("xml", v)
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("test", flag.ContinueOnError)
}
