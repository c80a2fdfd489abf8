package solr

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Response is the JSON body of a Solr query.
type Response struct {
	Header       ResponseHeader                 `json:"responseHeader"`
	Response     DocList                        `json:"response"`
	Highlighting map[string]map[string][]string `json:"highlighting,omitempty"`
}

// ResponseHeader carries query status.
type ResponseHeader struct {
	Status int `json:"status"`
	QTime  int `json:"QTime"`
}

// DocList is a page of result documents. Subquery fields ("pages",
// "images") decode into the same shape.
type DocList struct {
	NumFound int   `json:"numFound" solr:"numFound"`
	Start    int   `json:"start" solr:"start"`
	Docs     []Doc `json:"docs" solr:"docs"`
}

// First returns the first document, or nil when there are none.
func (l DocList) First() Doc {
	if len(l.Docs) == 0 {
		return nil
	}
	return l.Docs[0]
}

// Doc is one Solr document. Field values keep Solr's loose typing: a
// multi-valued field may come back as a single value.
type Doc map[string]any

// ID returns the document's "id" field.
func (d Doc) ID() string {
	s, _ := d["id"].(string)
	return s
}

// Strings returns a field as a list of strings whether Solr stored it as a
// single value or a list.
func (d Doc) Strings(field string) []string {
	var out []string
	switch v := d[field].(type) {
	case string:
		out = []string{v}
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = v
	}
	return out
}

// First returns the first string value of a field.
func (d Doc) First(field string) (string, bool) {
	values := d.Strings(field)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Decode copies d into the struct pointed to by out using its solr struct
// tags. Single values are accepted for slice fields and numbers for string
// fields.
func (d Doc) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "solr",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(d)); err != nil {
		return fmt.Errorf("failed to decode solr document %q: %w", d.ID(), err)
	}
	return nil
}
