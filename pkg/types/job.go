// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the convertkit converters:
// jobs and their sources, produced artifacts, progress reports, the help
// responder's conversation context, and configuration.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// TargetKind selects one of the four conversion workflows.
type TargetKind string

const (
	KindExportImages     TargetKind = "export-images"
	KindAssembleDocument TargetKind = "assemble-document"
	KindResizeDocument   TargetKind = "resize-document"
	KindResizeImage      TargetKind = "resize-image"
)

// Kinds lists every target kind in presentation order.
var Kinds = []TargetKind{
	KindExportImages,
	KindAssembleDocument,
	KindResizeDocument,
	KindResizeImage,
}

// Family is the media-type family a target kind accepts as input.
type Family string

const (
	FamilyDocument Family = "document"
	FamilyImage    Family = "image"
)

// MediaTypePDF is the only document media type the converters accept.
const MediaTypePDF = "application/pdf"

// ParseTargetKind maps a kind name to a TargetKind.
func ParseTargetKind(s string) (TargetKind, error) {
	k := TargetKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown target kind %q", s)
}

// SourceFamily returns the media-type family accepted by k.
func (k TargetKind) SourceFamily() Family {
	switch k {
	case KindExportImages, KindResizeDocument:
		return FamilyDocument
	default:
		return FamilyImage
	}
}

// NeedsDimensions reports whether k requires a target width and height.
func (k TargetKind) NeedsDimensions() bool {
	return k == KindResizeDocument || k == KindResizeImage
}

// MultiSource reports whether k accepts more than one source file.
func (k TargetKind) MultiSource() bool {
	return k == KindAssembleDocument
}

// FailureNotice is the single message users see when a job of kind k fails,
// whatever the cause.
func (k TargetKind) FailureNotice() string {
	switch k {
	case KindExportImages:
		return "Error converting PDF. Please try again."
	case KindAssembleDocument:
		return "Error creating PDF. Please try again."
	case KindResizeDocument:
		return "Error resizing PDF. Please try again."
	case KindResizeImage:
		return "Error resizing image. Please try again."
	}
	return "Conversion failed. Please try again."
}

// FamilyOf classifies a declared media type. It returns "" for media types
// no converter accepts.
func FamilyOf(mediaType string) Family {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case mt == MediaTypePDF:
		return FamilyDocument
	case strings.HasPrefix(mt, "image/"):
		return FamilyImage
	}
	return ""
}

// Source is one user-selected input file.
type Source struct {
	// Name is the file name as selected by the user (no directory).
	Name string `json:"name" yaml:"name"`

	// MediaType is the declared media type (e.g. "application/pdf", "image/png").
	MediaType string `json:"media_type" yaml:"media_type"`

	// Data holds the file contents.
	Data []byte `json:"-" yaml:"-"`
}

// Dimensions is a target box in pixels.
type Dimensions struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Valid reports whether both sides are positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// ParseDimensions parses width and height as typed by a user. Empty,
// non-numeric, zero, and negative values all report ErrInvalidParameters.
func ParseDimensions(width, height string) (Dimensions, error) {
	w, err := strconv.Atoi(strings.TrimSpace(width))
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: width %q is not a number", ErrInvalidParameters, width)
	}
	h, err := strconv.Atoi(strings.TrimSpace(height))
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: height %q is not a number", ErrInvalidParameters, height)
	}
	d := Dimensions{Width: w, Height: h}
	if !d.Valid() {
		return Dimensions{}, fmt.Errorf("%w: width and height must be positive, got %s", ErrInvalidParameters, d)
	}
	return d, nil
}

// Job is one user-initiated conversion request. A Job is not modified once
// a pipeline run starts.
type Job struct {
	Kind    TargetKind `json:"kind" yaml:"kind"`
	Sources []Source   `json:"sources" yaml:"sources"`

	// Params is the target box; required for the resize kinds, absent otherwise.
	Params *Dimensions `json:"params,omitempty" yaml:"params,omitempty"`

	// Combine asks resize-document to emit one multi-page document instead
	// of one document per page.
	Combine bool `json:"combine,omitempty" yaml:"combine,omitempty"`
}

// WorkUnit is one page or one image processed within a job. Ordinals are
// contiguous starting at 1.
type WorkUnit struct {
	Ordinal int
}
