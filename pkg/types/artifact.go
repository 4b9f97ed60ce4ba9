// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "math"

// Artifact is one produced output blob plus the metadata the presentation
// layer needs to preview and download it.
type Artifact struct {
	// Ordinal is the 1-based position of the artifact within its job.
	Ordinal int `json:"ordinal" yaml:"ordinal"`

	// Name is the suggested download file name (e.g. "page_3.jpg").
	Name string `json:"name" yaml:"name"`

	// MediaType of Data (e.g. "image/jpeg", "application/pdf").
	MediaType string `json:"media_type" yaml:"media_type"`

	// Data is the encoded output.
	Data []byte `json:"-" yaml:"-"`

	// Handle is the revocable display handle allocated for this artifact.
	Handle string `json:"handle" yaml:"handle"`

	// Width and Height are the raster dimensions of the encoded content.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	// Pages counts the pages of a document artifact; zero for images.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`
}

// Size returns the encoded size in bytes.
func (a Artifact) Size() int {
	return len(a.Data)
}

// ProgressState reports how far a job has come. It is recomputed after every
// work unit.
type ProgressState struct {
	Completed int    `json:"completed" yaml:"completed"`
	Total     int    `json:"total" yaml:"total"`
	Message   string `json:"message" yaml:"message"`
}

// Percent returns the completion percentage rounded to the nearest integer.
func (p ProgressState) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
}

// Done reports whether every unit has completed.
func (p ProgressState) Done() bool {
	return p.Total > 0 && p.Completed >= p.Total
}
