package fedora2

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/umd-lib/iiif/pkg/repository"
)

// DefaultImageLookupConcurrency is the number of image dimension lookups a
// backend runs at once.
const DefaultImageLookupConcurrency = 4

// Config contains configuration for the Fedora 2 backend.
//
// Example configuration (HCL):
//
//	fedora2 {
//	  fedora2_url     = "https://fedora2.lib.umd.edu/"
//	  solr_url        = "https://solr.lib.umd.edu/solr/fedora/"
//	  fcrepo_solr_url = "https://solr.lib.umd.edu/solr/fedora4/"
//	  manifest_url    = "https://iiif.lib.umd.edu/manifests/"
//	  image_url       = "https://iiif.lib.umd.edu/images/iiif/2/"
//	}
type Config struct {
	// Fedora2URL is the Fedora 2 server serving METS structure maps.
	Fedora2URL string `hcl:"fedora2_url" json:"fedora2_url"`

	// SolrURL is the Solr core indexing Fedora 2 objects.
	SolrURL string `hcl:"solr_url" json:"solr_url"`

	// FcrepoSolrURL is the fcrepo Solr core. Migrated objects found there
	// supply image dimensions without an image server round trip.
	FcrepoSolrURL string `hcl:"fcrepo_solr_url" json:"fcrepo_solr_url"`

	// ManifestURL is the public base URL of manifest resources.
	ManifestURL string `hcl:"manifest_url" json:"manifest_url"`

	// ImageURL is the base URL of the IIIF image server.
	ImageURL string `hcl:"image_url" json:"image_url"`

	// ImageLookupConcurrency bounds concurrent info.json requests.
	// Default: 4
	ImageLookupConcurrency int `hcl:"image_lookup_concurrency,optional" json:"image_lookup_concurrency,omitempty"`
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.ImageLookupConcurrency == 0 {
		c.ImageLookupConcurrency = DefaultImageLookupConcurrency
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Fedora2URL, validation.Required, repository.BaseURL),
		validation.Field(&c.SolrURL, validation.Required, repository.BaseURL),
		validation.Field(&c.FcrepoSolrURL, validation.Required, repository.BaseURL),
		validation.Field(&c.ManifestURL, validation.Required, repository.BaseURL),
		validation.Field(&c.ImageURL, validation.Required, repository.BaseURL),
		validation.Field(&c.ImageLookupConcurrency, validation.Min(1), validation.Max(64)),
	)
}
