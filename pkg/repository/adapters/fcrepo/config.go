package fcrepo

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/umd-lib/iiif/pkg/presentation"
	"github.com/umd-lib/iiif/pkg/repository"
)

// Config contains configuration for the fcrepo backend.
//
// Example configuration (HCL):
//
//	fcrepo {
//	  fcrepo_url   = "https://fcrepo.lib.umd.edu/fcrepo/rest/"
//	  solr_url     = "https://solr.lib.umd.edu/solr/fedora4/"
//	  manifest_url = "https://iiif.lib.umd.edu/manifests/"
//	  image_url    = "https://iiif.lib.umd.edu/images/iiif/2/"
//	}
type Config struct {
	// FcrepoURL is the repository REST endpoint. Item paths are relative
	// to it.
	FcrepoURL string `hcl:"fcrepo_url" json:"fcrepo_url"`

	// SolrURL is the Solr core indexing the repository.
	SolrURL string `hcl:"solr_url" json:"solr_url"`

	// ManifestURL is the public base URL of manifest resources.
	ManifestURL string `hcl:"manifest_url" json:"manifest_url"`

	// ImageURL is the base URL of the IIIF image server.
	ImageURL string `hcl:"image_url" json:"image_url"`

	// PreferredFormats orders image MIME types from most to least preferred.
	// Default: presentation.DefaultPreferredFormats
	PreferredFormats []string `hcl:"preferred_formats,optional" json:"preferred_formats,omitempty"`
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if len(c.PreferredFormats) == 0 {
		c.PreferredFormats = append([]string(nil), presentation.DefaultPreferredFormats...)
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.FcrepoURL, validation.Required, repository.BaseURL),
		validation.Field(&c.SolrURL, validation.Required, repository.BaseURL),
		validation.Field(&c.ManifestURL, validation.Required, repository.BaseURL),
		validation.Field(&c.ImageURL, validation.Required, repository.BaseURL),
	)
}
