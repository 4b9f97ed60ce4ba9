// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Conversion error taxonomy. Every pipeline failure matches exactly one of
// these with errors.Is.
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidParameters    = errors.New("invalid parameters")
	ErrDecode               = errors.New("decode failure")
	ErrRender               = errors.New("render failure")
	ErrEncode               = errors.New("encode failure")
)
