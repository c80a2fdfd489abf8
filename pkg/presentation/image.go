package presentation

import (
	"fmt"
	"strings"
)

const (
	// PlaceholderID is the image server identifier of the "image unavailable"
	// picture.
	PlaceholderID = "static:unavailable"

	// PlaceholderSize is the width and height of the placeholder picture.
	PlaceholderSize = 200
)

// DefaultPreferredFormats is the MIME type preference used when a backend
// has several encodings of the same image.
var DefaultPreferredFormats = []string{
	"image/tiff",
	"image/jpeg",
	"image/png",
	"image/gif",
}

// Candidate is one stored encoding of an image.
type Candidate struct {
	URI      string
	MimeType string
	Width    *int
	Height   *int
}

// SelectPreferred returns the candidate with the most preferred MIME type.
// When several candidates share that type the last one wins. It returns
// false if no candidate has a preferred type.
func SelectPreferred(candidates []Candidate, preferred []string) (Candidate, bool) {
	byType := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		byType[c.MimeType] = c
	}
	for _, mimeType := range preferred {
		if c, ok := byType[mimeType]; ok {
			return c, true
		}
	}
	return Candidate{}, false
}

// ImageResult is the outcome of resolving one image: either an Image or the
// reason it could not be resolved.
type ImageResult struct {
	Image *Image
	Err   error
}

// Resolved wraps a successfully resolved image.
func Resolved(img Image) ImageResult {
	return ImageResult{Image: &img}
}

// Unresolved records why an image could not be resolved.
func Unresolved(reason string, err error) ImageResult {
	if err == nil {
		return ImageResult{Err: &Error{Op: "ResolveImage", Err: ErrDegradedImage, Msg: reason}}
	}
	return ImageResult{Err: &Error{Op: "ResolveImage", Err: ErrDegradedImage, Msg: fmt.Sprintf("%s: %v", reason, err)}}
}

// ResolveImage always yields a usable image: the resolved one, or the
// placeholder when resolution failed.
func ResolveImage(r ImageResult, placeholder Image) Image {
	if r.Err != nil || r.Image == nil {
		return placeholder
	}
	return *r.Image
}

// Placeholder returns the "image unavailable" picture served by the image
// server at imageBaseURL.
func Placeholder(imageBaseURL string) Image {
	width, height := PlaceholderSize, PlaceholderSize
	return Image{
		ID:     PlaceholderID,
		URI:    ImageURI(imageBaseURL, PlaceholderID, "jpg"),
		Width:  &width,
		Height: &height,
	}
}

// ImageURI returns the full-size default rendition URI of an image on an
// IIIF image server.
func ImageURI(imageBaseURL, id, format string) string {
	return strings.TrimSuffix(imageBaseURL, "/") + "/" + id + "/full/full/0/default." + format
}
