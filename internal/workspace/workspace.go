// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workspace wires one independent converter instance per target
// kind. Each instance owns a result store and allows at most one job in
// flight; all instances share a display-handle registry and a pipeline
// that keeps no job state of its own.
package workspace

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/pdiddy/convertkit/internal/convert"
	"github.com/pdiddy/convertkit/internal/handles"
	"github.com/pdiddy/convertkit/internal/results"
	"github.com/pdiddy/convertkit/pkg/types"
)

// ErrBusy is returned when a job is started while another is in flight on
// the same instance.
var ErrBusy = errors.New("a conversion is already in progress")

// Runner executes conversion jobs. *convert.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, job types.Job, sink convert.Sink) ([]types.Artifact, error)
}

// Instance is one converter: a kind, its result store, and a busy flag.
type Instance struct {
	kind   types.TargetKind
	runner Runner
	store  *results.Store
	busy   atomic.Bool
	log    zerolog.Logger
}

// Kind returns the target kind this instance converts to.
func (i *Instance) Kind() types.TargetKind { return i.kind }

// Busy reports whether a job is in flight.
func (i *Instance) Busy() bool { return i.busy.Load() }

// Artifacts returns the artifacts of the last successful job in creation
// order.
func (i *Instance) Artifacts() []types.Artifact { return i.store.Get() }

// Clear drops the current artifacts and releases their handles.
func (i *Instance) Clear() { i.store.Clear() }

// Convert runs job on this instance. Starting a job invalidates the
// artifacts of the previous one; on success the new artifacts replace them.
// job.Kind is forced to the instance kind.
func (i *Instance) Convert(ctx context.Context, job types.Job, sink convert.Sink) ([]types.Artifact, error) {
	if !i.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer i.busy.Store(false)

	job.Kind = i.kind
	i.store.Clear()

	artifacts, err := i.runner.Run(ctx, job, sink)
	if err != nil {
		return nil, err
	}
	i.store.Replace(artifacts)
	i.log.Info().Str("kind", string(i.kind)).Int("artifacts", len(artifacts)).Msg("conversion complete")
	return i.store.Get(), nil
}

// Workspace holds the four converter instances.
type Workspace struct {
	registry  *handles.Registry
	instances map[types.TargetKind]*Instance
}

// New builds a workspace whose instances share one pipeline built from
// cfg. Pipeline options (for example a test document opener) pass through.
func New(cfg types.Config, log zerolog.Logger, opts ...convert.Option) *Workspace {
	reg := handles.NewRegistry()
	opts = append([]convert.Option{convert.WithLogger(log)}, opts...)
	return NewWithRunner(reg, convert.New(cfg, reg, opts...), log)
}

// NewWithRunner builds a workspace over an existing registry and runner.
func NewWithRunner(reg *handles.Registry, runner Runner, log zerolog.Logger) *Workspace {
	w := &Workspace{
		registry:  reg,
		instances: make(map[types.TargetKind]*Instance, len(types.Kinds)),
	}
	for _, kind := range types.Kinds {
		w.instances[kind] = &Instance{
			kind:   kind,
			runner: runner,
			store:  results.NewStore(reg),
			log:    log,
		}
	}
	return w
}

// Instance returns the converter instance for kind.
func (w *Workspace) Instance(kind types.TargetKind) (*Instance, bool) {
	inst, ok := w.instances[kind]
	return inst, ok
}

// Lookup resolves a display handle issued by any instance.
func (w *Workspace) Lookup(handle string) (types.Artifact, bool) {
	return w.registry.Lookup(handle)
}

// LiveHandles returns the number of unreleased display handles.
func (w *Workspace) LiveHandles() int {
	return w.registry.Len()
}
