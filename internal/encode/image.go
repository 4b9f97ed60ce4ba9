// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package encode turns raster surfaces into output blobs: single images in
// a requested container format, or multi-page PDF documents assembled with
// go-pdf/fpdf.
package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
)

// Media types produced by this package.
const (
	MediaJPEG = "image/jpeg"
	MediaPNG  = "image/png"
	MediaGIF  = "image/gif"
	MediaBMP  = "image/bmp"
	MediaPDF  = "application/pdf"
)

// OutputMediaType returns the media type Image will produce for a source of
// mediaType. Formats without an encoder fall back to PNG.
func OutputMediaType(mediaType string) string {
	switch strings.ToLower(mediaType) {
	case MediaJPEG, "image/jpg", "image/pjpeg":
		return MediaJPEG
	case MediaGIF:
		return MediaGIF
	case MediaBMP, "image/x-ms-bmp":
		return MediaBMP
	default:
		return MediaPNG
	}
}

// Extension returns the conventional file extension for an output media type.
func Extension(mediaType string) string {
	switch mediaType {
	case MediaJPEG:
		return ".jpg"
	case MediaGIF:
		return ".gif"
	case MediaBMP:
		return ".bmp"
	case MediaPDF:
		return ".pdf"
	default:
		return ".png"
	}
}

// RenameFor rewrites name's extension when it does not match mediaType.
// "photo.webp" encoded as PNG becomes "photo.png"; "photo.jpeg" stays.
func RenameFor(name, mediaType string) string {
	ext := filepath.Ext(name)
	if mimeForExt(ext) == mediaType {
		return name
	}
	return strings.TrimSuffix(name, ext) + Extension(mediaType)
}

func mimeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return MediaJPEG
	case ".gif":
		return MediaGIF
	case ".bmp":
		return MediaBMP
	case ".png":
		return MediaPNG
	}
	return ""
}

// JPEG encodes img at quality (1-100).
func JPEG(img image.Image, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("jpeg quality must be between 1 and 100, got %d", quality)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Image encodes img in the container OutputMediaType(mediaType) selects.
// quality applies to JPEG only. It returns the bytes and the media type
// actually produced.
func Image(img image.Image, mediaType string, quality int) ([]byte, string, error) {
	out := OutputMediaType(mediaType)
	var (
		buf bytes.Buffer
		err error
	)
	switch out {
	case MediaJPEG:
		data, jerr := JPEG(img, quality)
		return data, out, jerr
	case MediaGIF:
		err = gif.Encode(&buf, img, &gif.Options{NumColors: 256})
	case MediaBMP:
		err = bmp.Encode(&buf, img)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, "", fmt.Errorf("encoding %s: %w", out, err)
	}
	return buf.Bytes(), out, nil
}
