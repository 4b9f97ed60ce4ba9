// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs conversion jobs: PDF pages to JPG images, images to
// one PDF, PDF page resizing, and image resizing. Every kind follows the
// same pipeline: validate the job, decompose the source into ordered work
// units, then render and encode each unit in strict order while reporting
// progress. The first failure aborts the job with no partial result.
package convert

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pdiddy/convertkit/internal/encode"
	"github.com/pdiddy/convertkit/internal/render"
	"github.com/pdiddy/convertkit/pkg/types"
)

// Output names for the single-artifact kinds.
const (
	assembledName = "converted_images.pdf"
	combinedName  = "resized_document.pdf"
)

// Sink receives progress and artifacts while a job runs. Calls arrive in
// work-unit order from the goroutine that called Run.
type Sink interface {
	Progress(types.ProgressState)
	Artifact(types.Artifact)
}

// SinkFuncs adapts plain functions to Sink. Nil fields are skipped.
type SinkFuncs struct {
	OnProgress func(types.ProgressState)
	OnArtifact func(types.Artifact)
}

func (s SinkFuncs) Progress(p types.ProgressState) {
	if s.OnProgress != nil {
		s.OnProgress(p)
	}
}

func (s SinkFuncs) Artifact(a types.Artifact) {
	if s.OnArtifact != nil {
		s.OnArtifact(a)
	}
}

// HandleAllocator issues and revokes display handles. *handles.Registry
// satisfies it.
type HandleAllocator interface {
	Allocate(types.Artifact) string
	Release(handle string)
}

// Pipeline runs jobs. It holds configuration and collaborators only; all
// job state lives in a per-run value, so one Pipeline can serve any number
// of converter instances.
type Pipeline struct {
	cfg     types.Config
	handles HandleAllocator
	open    render.Opener
	log     zerolog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithOpener replaces the MuPDF document opener.
func WithOpener(open render.Opener) Option {
	return func(p *Pipeline) { p.open = open }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// New creates a Pipeline that allocates display handles through h.
func New(cfg types.Config, h HandleAllocator, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		handles: h,
		open:    render.OpenDocument,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run is the job-scoped state of one Run call.
type run struct {
	ctx       context.Context
	job       types.Job
	sink      Sink
	handles   HandleAllocator
	log       zerolog.Logger
	total     int
	completed int
	artifacts []types.Artifact
}

// Run executes job and returns its artifacts in ordinal order. sink may be
// nil. On failure no artifacts are returned and any handles allocated by
// this run are released.
func (p *Pipeline) Run(ctx context.Context, job types.Job, sink Sink) ([]types.Artifact, error) {
	if sink == nil {
		sink = SinkFuncs{}
	}
	if err := Validate(job); err != nil {
		p.log.Debug().Err(err).Str("kind", string(job.Kind)).Msg("job rejected")
		return nil, err
	}

	r := &run{
		ctx:     ctx,
		job:     job,
		sink:    sink,
		handles: p.handles,
		log:     p.log.With().Str("kind", string(job.Kind)).Logger(),
	}
	r.log.Debug().Int("sources", len(job.Sources)).Msg("job started")

	var err error
	switch job.Kind {
	case types.KindExportImages:
		err = p.exportImages(r)
	case types.KindAssembleDocument:
		err = p.assembleDocument(r)
	case types.KindResizeDocument:
		err = p.resizeDocument(r)
	case types.KindResizeImage:
		err = p.resizeImage(r)
	}
	if err != nil {
		r.abandon()
		r.log.Error().Err(err).Int("completed", r.completed).Int("total", r.total).Msg("job failed")
		return nil, err
	}

	r.log.Debug().Int("artifacts", len(r.artifacts)).Msg("job finished")
	return r.artifacts, nil
}

func (r *run) fail(phase Phase, ordinal int, err error) error {
	return &ConversionError{Kind: r.job.Kind, Phase: phase, Ordinal: ordinal, Err: err}
}

// checkpoint stops the job between units once the context is done.
func (r *run) checkpoint() error {
	if err := r.ctx.Err(); err != nil {
		return fmt.Errorf("%s cancelled after %d of %d units: %w", r.job.Kind, r.completed, r.total, err)
	}
	return nil
}

func (r *run) emit(a types.Artifact) {
	a.Handle = r.handles.Allocate(a)
	r.artifacts = append(r.artifacts, a)
	r.sink.Artifact(a)
}

func (r *run) advance(message string) {
	r.completed++
	r.log.Debug().Int("completed", r.completed).Int("total", r.total).Msg(message)
	r.sink.Progress(types.ProgressState{
		Completed: r.completed,
		Total:     r.total,
		Message:   message,
	})
}

func (r *run) abandon() {
	for _, a := range r.artifacts {
		r.handles.Release(a.Handle)
	}
	r.artifacts = nil
}

// openDocument opens the job's single document source.
func (p *Pipeline) openDocument(r *run) (render.Document, error) {
	doc, err := p.open(r.job.Sources[0].Data)
	if err != nil {
		return nil, r.fail(PhaseDecode, 0, fmt.Errorf("opening %s: %w", displayName(r.job.Sources[0]), err))
	}
	if doc.NumPage() == 0 {
		doc.Close()
		return nil, r.fail(PhaseDecode, 0, fmt.Errorf("%s has no pages", displayName(r.job.Sources[0])))
	}
	return doc, nil
}

// exportImages renders every page at the export scale and encodes it as JPEG.
func (p *Pipeline) exportImages(r *run) error {
	doc, err := p.openDocument(r)
	if err != nil {
		return err
	}
	defer doc.Close()

	r.total = doc.NumPage()
	for i := 0; i < r.total; i++ {
		ordinal := i + 1
		if err := r.checkpoint(); err != nil {
			return err
		}

		img, err := render.RenderPage(doc, i, p.cfg.Export.Scale)
		if err != nil {
			return r.fail(PhaseRender, ordinal, err)
		}
		data, err := encode.JPEG(img, p.cfg.Export.Quality)
		if err != nil {
			return r.fail(PhaseEncode, ordinal, err)
		}

		r.emit(types.Artifact{
			Ordinal:   ordinal,
			Name:      fmt.Sprintf("page_%d.jpg", ordinal),
			MediaType: encode.MediaJPEG,
			Data:      data,
			Width:     img.Bounds().Dx(),
			Height:    img.Bounds().Dy(),
		})
		r.advance(fmt.Sprintf("Converted page %d of %d", ordinal, r.total))
	}
	return nil
}

// assembleDocument places every selected image on its own page of one PDF,
// in selection order.
func (p *Pipeline) assembleDocument(r *run) error {
	spec, err := encode.PageSpecFor(p.cfg.Assemble.PageSize)
	if err != nil {
		return r.fail(PhaseEncode, 0, err)
	}
	doc := encode.NewDocument(p.cfg.Assemble.Quality)

	r.total = len(r.job.Sources)
	for i, src := range r.job.Sources {
		ordinal := i + 1
		if err := r.checkpoint(); err != nil {
			return err
		}

		img, _, err := render.DecodeImage(src.Data)
		if err != nil {
			return r.fail(PhaseDecode, ordinal, fmt.Errorf("%s: %w", displayName(src), err))
		}
		if err := doc.AddImagePage(render.Flatten(img), spec); err != nil {
			return r.fail(PhaseEncode, ordinal, err)
		}
		r.advance(fmt.Sprintf("Processing image %d of %d", ordinal, r.total))
	}

	data, err := doc.Bytes()
	if err != nil {
		return r.fail(PhaseEncode, 0, err)
	}
	r.emit(types.Artifact{
		Ordinal:   1,
		Name:      assembledName,
		MediaType: encode.MediaPDF,
		Data:      data,
		Pages:     doc.Pages(),
	})
	return nil
}

// resizeDocument renders every page fitted into the target box, letterboxed
// onto a page of exactly that size. Pages become separate documents unless
// the job asks to combine them.
func (p *Pipeline) resizeDocument(r *run) error {
	doc, err := p.openDocument(r)
	if err != nil {
		return err
	}
	defer doc.Close()

	box := *r.job.Params
	spec := encode.PageSpec{Width: float64(box.Width), Height: float64(box.Height)}
	quality := p.cfg.Resize.Quality

	var combined *encode.Document
	if r.job.Combine {
		combined = encode.NewDocument(quality)
	}

	r.total = doc.NumPage()
	for i := 0; i < r.total; i++ {
		ordinal := i + 1
		if err := r.checkpoint(); err != nil {
			return err
		}

		pw, ph, err := render.PageSize(doc, i)
		if err != nil {
			return r.fail(PhaseRender, ordinal, err)
		}
		raster, err := render.RenderPage(doc, i, render.FitScale(pw, ph, box.Width, box.Height))
		if err != nil {
			return r.fail(PhaseRender, ordinal, err)
		}
		canvas := render.Letterbox(raster, box.Width, box.Height)

		if combined != nil {
			if err := combined.AddImagePage(canvas, spec); err != nil {
				return r.fail(PhaseEncode, ordinal, err)
			}
		} else {
			data, err := encode.SinglePage(canvas, spec, quality)
			if err != nil {
				return r.fail(PhaseEncode, ordinal, err)
			}
			r.emit(types.Artifact{
				Ordinal:   ordinal,
				Name:      fmt.Sprintf("resized_page_%d.pdf", ordinal),
				MediaType: encode.MediaPDF,
				Data:      data,
				Width:     box.Width,
				Height:    box.Height,
				Pages:     1,
			})
		}
		r.advance(fmt.Sprintf("Resizing page %d of %d", ordinal, r.total))
	}

	if combined == nil {
		return nil
	}
	data, err := combined.Bytes()
	if err != nil {
		return r.fail(PhaseEncode, 0, err)
	}
	r.emit(types.Artifact{
		Ordinal:   1,
		Name:      combinedName,
		MediaType: encode.MediaPDF,
		Data:      data,
		Width:     box.Width,
		Height:    box.Height,
		Pages:     combined.Pages(),
	})
	return nil
}

// resizeImage stretches the image to exactly the target box and re-encodes
// it in its original format where an encoder exists.
func (p *Pipeline) resizeImage(r *run) error {
	src := r.job.Sources[0]
	box := *r.job.Params
	r.total = 1

	if err := r.checkpoint(); err != nil {
		return err
	}
	img, _, err := render.DecodeImage(src.Data)
	if err != nil {
		return r.fail(PhaseDecode, 1, fmt.Errorf("%s: %w", displayName(src), err))
	}
	raster := render.Stretch(img, box.Width, box.Height)

	data, mediaType, err := encode.Image(raster, src.MediaType, p.cfg.Resize.Quality)
	if err != nil {
		return r.fail(PhaseEncode, 1, err)
	}

	name := filepath.Base(src.Name)
	if src.Name == "" {
		name = "image"
	}
	r.emit(types.Artifact{
		Ordinal:   1,
		Name:      "resized_" + encode.RenameFor(name, mediaType),
		MediaType: mediaType,
		Data:      data,
		Width:     box.Width,
		Height:    box.Height,
	})
	r.advance("Resized image 1 of 1")
	return nil
}
