// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes JPEG, PNG, GIF, BMP, or WebP bytes. The returned
// format name is the registered decoder's ("jpeg", "png", ...).
func DecodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, "", fmt.Errorf("image has empty bounds %v", b)
	}
	return img, format, nil
}

// FitScale returns the largest scale at which a srcW x srcH box fits
// inside boxW x boxH: the minimum of the width and height ratios.
func FitScale(srcW, srcH, boxW, boxH int) float64 {
	if srcW <= 0 || srcH <= 0 {
		return 0
	}
	return math.Min(float64(boxW)/float64(srcW), float64(boxH)/float64(srcH))
}

// Flatten composites img onto an opaque white surface of the same size.
func Flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// Stretch resamples img to exactly width x height, ignoring aspect ratio.
func Stretch(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Letterbox scales img by FitScale into a width x height surface, centered
// on white. The result is always exactly width x height.
func Letterbox(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	b := img.Bounds()
	scale := FitScale(b.Dx(), b.Dy(), width, height)
	w := clamp(int(math.Round(float64(b.Dx())*scale)), 1, width)
	h := clamp(int(math.Round(float64(b.Dy())*scale)), 1, height)
	x := (width - w) / 2
	y := (height - h) / 2

	draw.CatmullRom.Scale(dst, image.Rect(x, y, x+w, y+h), img, b, draw.Over, nil)
	return dst
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
