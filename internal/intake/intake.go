// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package intake turns user-selected files into job sources, detecting
// each file's media type from its extension and, failing that, its content.
package intake

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/convertkit/pkg/types"
)

// MediaType returns the media type for a file called name holding data.
// The extension wins when it maps to a known type; otherwise the first
// bytes are sniffed.
func MediaType(name string, data []byte) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return baseType(mt)
		}
	}
	return baseType(http.DetectContentType(data))
}

func baseType(mt string) string {
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		return parsed
	}
	return mt
}

// FromBytes builds a Source for data named name.
func FromBytes(name string, data []byte) types.Source {
	return types.Source{Name: name, MediaType: MediaType(name, data), Data: data}
}

// FromPath reads a file from disk into a Source named after its base name.
func FromPath(path string) (types.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Source{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return FromBytes(filepath.Base(path), data), nil
}

// FromPaths reads every path in order.
func FromPaths(paths []string) ([]types.Source, error) {
	sources := make([]types.Source, 0, len(paths))
	for _, p := range paths {
		src, err := FromPath(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// FromUpload reads one multipart file part into a Source.
func FromUpload(fh *multipart.FileHeader) (types.Source, error) {
	f, err := fh.Open()
	if err != nil {
		return types.Source{}, fmt.Errorf("opening upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return types.Source{}, fmt.Errorf("reading upload %s: %w", fh.Filename, err)
	}
	return FromBytes(filepath.Base(fh.Filename), data), nil
}
