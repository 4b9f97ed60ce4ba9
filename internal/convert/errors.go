// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"github.com/pdiddy/convertkit/pkg/types"
)

// Phase names the pipeline step in which a job failed.
type Phase string

const (
	PhaseValidate Phase = "validate"
	PhaseDecode   Phase = "decode"
	PhaseRender   Phase = "render"
	PhaseEncode   Phase = "encode"
)

// sentinel returns the taxonomy error a phase maps to. Validation errors
// carry their own sentinel in Err.
func (p Phase) sentinel() error {
	switch p {
	case PhaseDecode:
		return types.ErrDecode
	case PhaseRender:
		return types.ErrRender
	case PhaseEncode:
		return types.ErrEncode
	}
	return nil
}

// ConversionError reports why a job failed. Ordinal is the 1-based work
// unit that failed, or zero when the failure is not tied to one unit.
type ConversionError struct {
	Kind    types.TargetKind
	Phase   Phase
	Ordinal int
	Err     error
}

func (e *ConversionError) Error() string {
	if e.Ordinal > 0 {
		return fmt.Sprintf("%s: %s failed at unit %d: %v", e.Kind, e.Phase, e.Ordinal, e.Err)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Kind, e.Phase, e.Err)
}

// Unwrap exposes both the phase sentinel (types.ErrDecode, ...) and the cause.
func (e *ConversionError) Unwrap() []error {
	if s := e.Phase.sentinel(); s != nil {
		return []error{s, e.Err}
	}
	return []error{e.Err}
}

func invalid(kind types.TargetKind, ordinal int, sentinel error, format string, args ...any) *ConversionError {
	return &ConversionError{
		Kind:    kind,
		Phase:   PhaseValidate,
		Ordinal: ordinal,
		Err:     fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}
