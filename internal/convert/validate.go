// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"github.com/pdiddy/convertkit/pkg/types"
)

// Validate checks a job before any render or encode work happens. Failures
// are *ConversionError values matching types.ErrUnsupportedMediaType or
// types.ErrInvalidParameters.
func Validate(job types.Job) error {
	kind, err := types.ParseTargetKind(string(job.Kind))
	if err != nil {
		return invalid(job.Kind, 0, types.ErrInvalidParameters, "%v", err)
	}

	switch {
	case len(job.Sources) == 0:
		return invalid(kind, 0, types.ErrInvalidParameters, "no source file selected")
	case len(job.Sources) > 1 && !kind.MultiSource():
		return invalid(kind, 0, types.ErrInvalidParameters, "%s takes exactly one source file, got %d", kind, len(job.Sources))
	}

	want := kind.SourceFamily()
	for i, src := range job.Sources {
		if got := types.FamilyOf(src.MediaType); got != want {
			return invalid(kind, i+1, types.ErrUnsupportedMediaType, "%s is %q, want a %s file", displayName(src), src.MediaType, want)
		}
	}

	if kind.NeedsDimensions() {
		if job.Params == nil {
			return invalid(kind, 0, types.ErrInvalidParameters, "width and height are required")
		}
		if !job.Params.Valid() {
			return invalid(kind, 0, types.ErrInvalidParameters, "width and height must be positive, got %s", job.Params)
		}
	} else if job.Params != nil {
		return invalid(kind, 0, types.ErrInvalidParameters, "%s does not take width and height", kind)
	}

	if job.Combine && kind != types.KindResizeDocument {
		return invalid(kind, 0, types.ErrInvalidParameters, "combine applies only to %s", types.KindResizeDocument)
	}
	return nil
}

func displayName(src types.Source) string {
	if src.Name == "" {
		return "source"
	}
	return src.Name
}
