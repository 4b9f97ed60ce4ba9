// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns document pages and decoded images into raster
// surfaces at a requested scale or pixel box. Document pages are rendered
// with MuPDF through go-fitz; resampling uses golang.org/x/image/draw.
package render

import (
	"fmt"
	"image"

	fitz "github.com/gen2brain/go-fitz"
)

// pointsPerInch is the resolution at which a page box is measured.
const pointsPerInch = 72.0

// Document is an opened multi-page source. *fitz.Document satisfies it.
type Document interface {
	// NumPage returns the number of pages.
	NumPage() int

	// Bound returns the page box in points (72 DPI).
	Bound(page int) (image.Rectangle, error)

	// ImageDPI rasterizes a page at the given resolution.
	ImageDPI(page int, dpi float64) (*image.RGBA, error)

	Close() error
}

// Opener opens a document from its bytes.
type Opener func(data []byte) (Document, error)

// OpenDocument opens PDF bytes with MuPDF.
func OpenDocument(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	return doc, nil
}

// RenderPage rasterizes page (0-based) at scale relative to 72 DPI.
func RenderPage(doc Document, page int, scale float64) (*image.RGBA, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("render scale must be positive, got %v", scale)
	}
	img, err := doc.ImageDPI(page, pointsPerInch*scale)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", page+1, err)
	}
	return img, nil
}

// PageSize returns the page box size in points.
func PageSize(doc Document, page int) (width, height int, err error) {
	b, err := doc.Bound(page)
	if err != nil {
		return 0, 0, fmt.Errorf("measuring page %d: %w", page+1, err)
	}
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return 0, 0, fmt.Errorf("page %d has empty bounds %v", page+1, b)
	}
	return b.Dx(), b.Dy(), nil
}
