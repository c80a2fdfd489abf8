// Package solr queries the Solr cores that index repository content.
package solr

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/umd-lib/iiif/pkg/fetch"
)

// Handler names used by the repository backends.
const (
	HandlerSelect = "select"
	HandlerPCDM   = "pcdm"
)

// Getter fetches and decodes a JSON document. *fetch.Client implements it.
type Getter interface {
	GetJSON(ctx context.Context, url string, out any) error
}

var _ Getter = (*fetch.Client)(nil)

// Client sends queries to one Solr core.
type Client struct {
	baseURL string
	getter  Getter
}

// NewClient creates a Client for the core at baseURL, e.g.
// "http://solr.example.edu/solr/fedora4/".
func NewClient(baseURL string, getter Getter) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{baseURL: baseURL, getter: getter}
}

// BaseURL returns the core URL, always ending in "/".
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Query runs params against handler and returns the decoded response.
// The response writer is always forced to JSON.
func (c *Client) Query(ctx context.Context, handler string, params url.Values) (*Response, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	q.Set("wt", "json")

	var resp Response
	if err := c.getter.GetJSON(ctx, c.baseURL+handler+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("solr %s query failed: %w", handler, err)
	}
	return &resp, nil
}

// Escape backslash-escapes the characters Solr's standard query parser
// treats as syntax inside a field value, e.g. the ':' in URIs and PIDs.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(`\:+-!(){}[]^"~*?/`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Phrase quotes s as a phrase value.
func Phrase(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}

// FieldQuery returns "field:value" with value escaped.
func FieldQuery(field, value string) string {
	return field + ":" + Escape(value)
}
