// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package encode

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/convertkit/pkg/types"
)

// Page sizes in points.
var (
	sizeA4     = fpdf.SizeType{Wd: 595.28, Ht: 841.89}
	sizeLetter = fpdf.SizeType{Wd: 612, Ht: 792}
)

// PageSpec describes how one raster is laid out on its page. A zero Width
// or Height sizes the page to the raster (1 px = 1 pt). Otherwise the page
// is Width x Height points and the raster is fitted and centered on it.
type PageSpec struct {
	Width  float64
	Height float64
}

// PageSpecFor maps a configured page size to a PageSpec.
func PageSpecFor(size types.PageSize) (PageSpec, error) {
	switch size {
	case types.PageA4, "":
		return PageSpec{Width: sizeA4.Wd, Height: sizeA4.Ht}, nil
	case types.PageLetter:
		return PageSpec{Width: sizeLetter.Wd, Height: sizeLetter.Ht}, nil
	case types.PageImage:
		return PageSpec{}, nil
	}
	return PageSpec{}, fmt.Errorf("unknown page size %q", size)
}

// Document assembles raster pages into a PDF. It is not safe for
// concurrent use.
type Document struct {
	pdf     *fpdf.Fpdf
	quality int
	pages   int
}

// NewDocument starts an empty document whose embedded images are JPEG
// encoded at quality.
func NewDocument(quality int) *Document {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           sizeA4,
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return &Document{pdf: pdf, quality: quality}
}

// Pages returns the number of pages added so far.
func (d *Document) Pages() int {
	return d.pages
}

// AddImagePage appends one page holding img laid out per spec.
func (d *Document) AddImagePage(img image.Image, spec PageSpec) error {
	b := img.Bounds()
	imgW, imgH := float64(b.Dx()), float64(b.Dy())
	if imgW <= 0 || imgH <= 0 {
		return errors.New("cannot add an empty image")
	}

	data, err := JPEG(img, d.quality)
	if err != nil {
		return err
	}

	pageW, pageH := spec.Width, spec.Height
	x, y, w, h := 0.0, 0.0, imgW, imgH
	if pageW <= 0 || pageH <= 0 {
		pageW, pageH = imgW, imgH
	} else {
		scale := min(pageW/imgW, pageH/imgH)
		w, h = imgW*scale, imgH*scale
		x, y = (pageW-w)/2, (pageH-h)/2
	}

	name := fmt.Sprintf("page-%d", d.pages+1)
	opt := fpdf.ImageOptions{ImageType: "JPG"}
	d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: pageW, Ht: pageH})
	d.pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(data))
	d.pdf.ImageOptions(name, x, y, w, h, false, opt, 0, "")
	if err := d.pdf.Error(); err != nil {
		return fmt.Errorf("adding page %d: %w", d.pages+1, err)
	}
	d.pages++
	return nil
}

// Bytes finalizes the document and returns the encoded PDF. The Document
// must not be used afterwards.
func (d *Document) Bytes() ([]byte, error) {
	if d.pages == 0 {
		return nil, errors.New("document has no pages")
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// SinglePage encodes img as a one-page PDF laid out per spec.
func SinglePage(img image.Image, spec PageSpec, quality int) ([]byte, error) {
	doc := NewDocument(quality)
	if err := doc.AddImagePage(img, spec); err != nil {
		return nil, err
	}
	return doc.Bytes()
}
