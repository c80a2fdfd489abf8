package presentation

import (
	"context"
	"fmt"
)

// Manifest is the normalized description of one item, ready to be turned
// into a IIIF presentation document.
type Manifest struct {
	ID            string   `json:"id" yaml:"id"`
	Label         string   `json:"label" yaml:"label"`
	BaseURI       string   `json:"baseUri" yaml:"baseUri"`
	ManifestLevel bool     `json:"manifestLevel" yaml:"manifestLevel"`
	CanvasLevel   bool     `json:"canvasLevel" yaml:"canvasLevel"`
	Metadata      Metadata `json:"metadata" yaml:"metadata"`
	License       string   `json:"license,omitempty" yaml:"license,omitempty"`
	Attribution   string   `json:"attribution,omitempty" yaml:"attribution,omitempty"`
	NavDate       string   `json:"navDate,omitempty" yaml:"navDate,omitempty"`
	Pages         []Page   `json:"pages" yaml:"pages"`
}

// BuildManifest reads everything a manifest needs from item. The first
// failing read aborts the build.
func BuildManifest(ctx context.Context, item Item) (*Manifest, error) {
	m := &Manifest{BaseURI: item.BaseURI()}

	var err error
	if m.ID, err = item.ManifestID(ctx); err != nil {
		return nil, fmt.Errorf("error getting manifest ID: %w", err)
	}
	if m.Label, err = item.Label(ctx); err != nil {
		return nil, fmt.Errorf("error getting label: %w", err)
	}
	if m.ManifestLevel, err = item.IsManifestLevel(ctx); err != nil {
		return nil, fmt.Errorf("error classifying item: %w", err)
	}
	if m.CanvasLevel, err = item.IsCanvasLevel(ctx); err != nil {
		return nil, fmt.Errorf("error classifying item: %w", err)
	}
	if m.Metadata, err = item.Metadata(ctx); err != nil {
		return nil, fmt.Errorf("error getting metadata: %w", err)
	}
	if m.License, err = item.License(ctx); err != nil {
		return nil, fmt.Errorf("error getting license: %w", err)
	}
	if m.Attribution, err = item.Attribution(ctx); err != nil {
		return nil, fmt.Errorf("error getting attribution: %w", err)
	}
	if m.NavDate, err = item.NavDate(ctx); err != nil {
		return nil, fmt.Errorf("error getting nav date: %w", err)
	}
	if m.Pages, err = item.Pages(ctx); err != nil {
		return nil, fmt.Errorf("error getting pages: %w", err)
	}

	if m.Metadata == nil {
		m.Metadata = Metadata{}
	}
	if m.Pages == nil {
		m.Pages = []Page{}
	}

	return m, nil
}
