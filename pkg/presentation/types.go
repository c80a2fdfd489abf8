package presentation

// Page is one displayable surface of a manifest-level item.
type Page struct {
	ID    string `json:"id" yaml:"id"`
	URI   string `json:"uri,omitempty" yaml:"uri,omitempty"`
	Label string `json:"label" yaml:"label"`
	Image Image  `json:"image" yaml:"image"`
}

// Image is the single image shown on a page. Width and Height are nil when
// the backend did not report them.
type Image struct {
	ID     string `json:"id" yaml:"id"`
	URI    string `json:"uri,omitempty" yaml:"uri,omitempty"`
	Width  *int   `json:"width" yaml:"width"`
	Height *int   `json:"height" yaml:"height"`
}

// IsPlaceholder reports whether this is the stand-in for a missing image.
func (i Image) IsPlaceholder() bool {
	return i.ID == PlaceholderID
}

// MetadataEntry is one descriptive label/value pair.
type MetadataEntry struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Metadata is an ordered list of descriptive entries.
type Metadata []MetadataEntry

// AppendMetadata appends label/value pairs to m, skipping nil values.
func AppendMetadata(m Metadata, label string, value *string) Metadata {
	if value == nil {
		return m
	}
	return append(m, MetadataEntry{Label: label, Value: *value})
}

// Motivation is why an annotation is attached to its target.
type Motivation string

const (
	// MotivationSearchResult marks a highlighted search hit.
	MotivationSearchResult Motivation = "oa:highlighting"

	// MotivationTextRegion marks a block of recognized text painted on the page.
	MotivationTextRegion Motivation = "sc:painting"
)

const (
	// TypeSearchResult is the annotation type of search hits.
	TypeSearchResult = "umd:searchResult"

	// TypeTextRegion is the annotation type of text overlays.
	TypeTextRegion = "umd:articleSegment"
)

// AnnotationList is an ordered set of annotations on one page.
type AnnotationList struct {
	ID          string       `json:"id" yaml:"id"`
	Annotations []Annotation `json:"annotations" yaml:"annotations"`
}

// Annotation attaches an optional text body to a region of a resource.
type Annotation struct {
	ID         string     `json:"id" yaml:"id"`
	Type       string     `json:"type" yaml:"type"`
	Motivation Motivation `json:"motivation" yaml:"motivation"`
	Body       *TextBody  `json:"body,omitempty" yaml:"body,omitempty"`
	Target     Target     `json:"target" yaml:"target"`
}

// TextBody is the plain text content of an annotation.
type TextBody struct {
	Text string `json:"text" yaml:"text"`
}

// Target is a region of a resource. Selector is a media fragment such as
// "xywh=10,20,300,40".
type Target struct {
	Source   string `json:"source" yaml:"source"`
	Selector string `json:"selector" yaml:"selector"`
}

// NewAnnotationList returns a list with a non-nil, empty annotation slice.
func NewAnnotationList(id string) *AnnotationList {
	return &AnnotationList{ID: id, Annotations: []Annotation{}}
}
