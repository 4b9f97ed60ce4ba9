// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convertkit/internal/handles"
	"github.com/pdiddy/convertkit/internal/render"
	"github.com/pdiddy/convertkit/pkg/types"
)

// fakeDocument renders solid pages whose pixel size follows the requested DPI.
type fakeDocument struct {
	pages  []image.Rectangle
	failAt int // 1-based page that fails to render; zero never fails
	closed bool
}

func (d *fakeDocument) NumPage() int { return len(d.pages) }

func (d *fakeDocument) Bound(page int) (image.Rectangle, error) {
	if page < 0 || page >= len(d.pages) {
		return image.Rectangle{}, errors.New("page out of range")
	}
	return d.pages[page], nil
}

func (d *fakeDocument) ImageDPI(page int, dpi float64) (*image.RGBA, error) {
	if d.failAt == page+1 {
		return nil, errors.New("corrupt content stream")
	}
	b := d.pages[page]
	w := max(1, int(float64(b.Dx())*dpi/72))
	h := max(1, int(float64(b.Dy())*dpi/72))
	return solid(w, h, color.RGBA{R: 30, G: 60, B: 90, A: 255}), nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

// fakeOpener counts calls and hands out a fixed document or error.
type fakeOpener struct {
	doc   *fakeDocument
	err   error
	calls int
}

func (o *fakeOpener) open(data []byte) (render.Document, error) {
	o.calls++
	if o.err != nil {
		return nil, o.err
	}
	return o.doc, nil
}

// recorder collects everything a job reports.
type recorder struct {
	progress  []types.ProgressState
	artifacts []types.Artifact
}

func (r *recorder) Progress(p types.ProgressState) { r.progress = append(r.progress, p) }
func (r *recorder) Artifact(a types.Artifact)      { r.artifacts = append(r.artifacts, a) }

func (r *recorder) percents() []int {
	out := make([]int, len(r.progress))
	for i, p := range r.progress {
		out[i] = p.Percent()
	}
	return out
}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func pngSource(t *testing.T, name string, w, h int) types.Source {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h, color.RGBA{G: 128, A: 255})))
	return types.Source{Name: name, MediaType: "image/png", Data: buf.Bytes()}
}

func pdfSource() types.Source {
	return types.Source{Name: "report.pdf", MediaType: types.MediaTypePDF, Data: []byte("%PDF-1.7")}
}

func pages(n, w, h int) *fakeDocument {
	doc := &fakeDocument{}
	for i := 0; i < n; i++ {
		doc.pages = append(doc.pages, image.Rect(0, 0, w, h))
	}
	return doc
}

func newPipeline(opener *fakeOpener) (*Pipeline, *handles.Registry) {
	reg := handles.NewRegistry()
	return New(types.DefaultConfig(), reg, WithOpener(opener.open)), reg
}

func TestExportImages(t *testing.T) {
	opener := &fakeOpener{doc: pages(3, 100, 200)}
	p, reg := newPipeline(opener)
	rec := &recorder{}

	got, err := p.Run(context.Background(), types.Job{
		Kind:    types.KindExportImages,
		Sources: []types.Source{pdfSource()},
	}, rec)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, a := range got {
		assert.Equal(t, i+1, a.Ordinal)
		assert.Equal(t, "image/jpeg", a.MediaType)
		assert.NotEmpty(t, a.Handle)
		assert.Equal(t, 200, a.Width)
		assert.Equal(t, 400, a.Height)

		cfg, err := jpeg.DecodeConfig(bytes.NewReader(a.Data))
		require.NoError(t, err)
		assert.Equal(t, 200, cfg.Width)
		assert.Equal(t, 400, cfg.Height)
	}
	assert.Equal(t, "page_1.jpg", got[0].Name)
	assert.Equal(t, "page_3.jpg", got[2].Name)

	assert.Equal(t, []int{33, 67, 100}, rec.percents())
	assert.Equal(t, "Converted page 2 of 3", rec.progress[1].Message)
	assert.Equal(t, got, rec.artifacts)
	assert.Equal(t, 3, reg.Len())
	assert.True(t, opener.doc.closed)
}

func TestAssembleDocument(t *testing.T) {
	p, reg := newPipeline(&fakeOpener{})
	rec := &recorder{}

	got, err := p.Run(context.Background(), types.Job{
		Kind: types.KindAssembleDocument,
		Sources: []types.Source{
			pngSource(t, "a.png", 40, 30),
			pngSource(t, "b.png", 30, 40),
			pngSource(t, "c.png", 10, 10),
		},
	}, rec)
	require.NoError(t, err)
	require.Len(t, got, 1)

	a := got[0]
	assert.Equal(t, "converted_images.pdf", a.Name)
	assert.Equal(t, "application/pdf", a.MediaType)
	assert.Equal(t, 3, a.Pages)
	assert.True(t, bytes.HasPrefix(a.Data, []byte("%PDF-")))
	assert.Equal(t, []int{33, 67, 100}, rec.percents())
	assert.Equal(t, "Processing image 3 of 3", rec.progress[2].Message)
	assert.Equal(t, 1, reg.Len())
}

func TestResizeDocument(t *testing.T) {
	opener := &fakeOpener{doc: pages(2, 400, 400)}
	p, _ := newPipeline(opener)
	rec := &recorder{}

	got, err := p.Run(context.Background(), types.Job{
		Kind:    types.KindResizeDocument,
		Sources: []types.Source{pdfSource()},
		Params:  &types.Dimensions{Width: 100, Height: 50},
	}, rec)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i, a := range got {
		assert.Equal(t, i+1, a.Ordinal)
		assert.Equal(t, 100, a.Width)
		assert.Equal(t, 50, a.Height)
		assert.Equal(t, 1, a.Pages)
		assert.Contains(t, string(a.Data), "/MediaBox [0 0 100.00 50.00]")
	}
	assert.Equal(t, "resized_page_2.pdf", got[1].Name)
	assert.Equal(t, []int{50, 100}, rec.percents())
	assert.Equal(t, "Resizing page 1 of 2", rec.progress[0].Message)
}

func TestResizeDocumentCombined(t *testing.T) {
	opener := &fakeOpener{doc: pages(3, 612, 792)}
	p, _ := newPipeline(opener)

	got, err := p.Run(context.Background(), types.Job{
		Kind:    types.KindResizeDocument,
		Sources: []types.Source{pdfSource()},
		Params:  &types.Dimensions{Width: 300, Height: 300},
		Combine: true,
	}, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "resized_document.pdf", got[0].Name)
	assert.Equal(t, 3, got[0].Pages)
	assert.Equal(t, 300, got[0].Width)
}

func TestResizeImage(t *testing.T) {
	p, _ := newPipeline(&fakeOpener{})
	rec := &recorder{}

	got, err := p.Run(context.Background(), types.Job{
		Kind:    types.KindResizeImage,
		Sources: []types.Source{pngSource(t, "photos/cat.png", 400, 400)},
		Params:  &types.Dimensions{Width: 100, Height: 50},
	}, rec)
	require.NoError(t, err)
	require.Len(t, got, 1)

	a := got[0]
	assert.Equal(t, "resized_cat.png", a.Name)
	assert.Equal(t, "image/png", a.MediaType)
	cfg, err := png.DecodeConfig(bytes.NewReader(a.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
	assert.Equal(t, []int{100}, rec.percents())
	assert.Equal(t, "Resized image 1 of 1", rec.progress[0].Message)
}

func TestResizeImageKeepsJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(64, 64, color.White), nil))
	p, _ := newPipeline(&fakeOpener{})

	got, err := p.Run(context.Background(), types.Job{
		Kind:    types.KindResizeImage,
		Sources: []types.Source{{Name: "scan.jpg", MediaType: "image/jpeg", Data: buf.Bytes()}},
		Params:  &types.Dimensions{Width: 32, Height: 16},
	}, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "resized_scan.jpg", got[0].Name)
	assert.Equal(t, "image/jpeg", got[0].MediaType)
}

func TestValidationRejectsBeforeWork(t *testing.T) {
	img := types.Source{Name: "a.png", MediaType: "image/png", Data: []byte{1}}
	box := &types.Dimensions{Width: 10, Height: 10}

	tests := []struct {
		name    string
		job     types.Job
		want    error
		ordinal int
	}{
		{
			name: "unknown kind",
			job:  types.Job{Kind: "merge", Sources: []types.Source{pdfSource()}},
			want: types.ErrInvalidParameters,
		},
		{
			name: "no sources",
			job:  types.Job{Kind: types.KindExportImages},
			want: types.ErrInvalidParameters,
		},
		{
			name: "image given to export",
			job:  types.Job{Kind: types.KindExportImages, Sources: []types.Source{img}},
			want: types.ErrUnsupportedMediaType, ordinal: 1,
		},
		{
			name: "document among images",
			job:  types.Job{Kind: types.KindAssembleDocument, Sources: []types.Source{img, pdfSource()}},
			want: types.ErrUnsupportedMediaType, ordinal: 2,
		},
		{
			name: "two documents",
			job:  types.Job{Kind: types.KindExportImages, Sources: []types.Source{pdfSource(), pdfSource()}},
			want: types.ErrInvalidParameters,
		},
		{
			name: "resize without dimensions",
			job:  types.Job{Kind: types.KindResizeDocument, Sources: []types.Source{pdfSource()}},
			want: types.ErrInvalidParameters,
		},
		{
			name: "zero width",
			job: types.Job{Kind: types.KindResizeImage, Sources: []types.Source{img},
				Params: &types.Dimensions{Width: 0, Height: 10}},
			want: types.ErrInvalidParameters,
		},
		{
			name: "dimensions on export",
			job:  types.Job{Kind: types.KindExportImages, Sources: []types.Source{pdfSource()}, Params: box},
			want: types.ErrInvalidParameters,
		},
		{
			name: "combine on image resize",
			job:  types.Job{Kind: types.KindResizeImage, Sources: []types.Source{img}, Params: box, Combine: true},
			want: types.ErrInvalidParameters,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := &fakeOpener{doc: pages(1, 10, 10)}
			p, reg := newPipeline(opener)
			rec := &recorder{}

			got, err := p.Run(context.Background(), tt.job, rec)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.want)

			var ce *ConversionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, PhaseValidate, ce.Phase)
			assert.Equal(t, tt.ordinal, ce.Ordinal)

			assert.Zero(t, opener.calls)
			assert.Empty(t, rec.progress)
			assert.Zero(t, reg.Len())
		})
	}
}

func TestFailuresAbortWithPhaseAndUnit(t *testing.T) {
	t.Run("unreadable document", func(t *testing.T) {
		p, _ := newPipeline(&fakeOpener{err: errors.New("not a pdf")})
		_, err := p.Run(context.Background(), types.Job{
			Kind: types.KindExportImages, Sources: []types.Source{pdfSource()},
		}, nil)
		assert.ErrorIs(t, err, types.ErrDecode)
		assert.ErrorContains(t, err, "not a pdf")
	})

	t.Run("document without pages", func(t *testing.T) {
		doc := pages(0, 0, 0)
		p, _ := newPipeline(&fakeOpener{doc: doc})
		_, err := p.Run(context.Background(), types.Job{
			Kind: types.KindExportImages, Sources: []types.Source{pdfSource()},
		}, nil)
		assert.ErrorIs(t, err, types.ErrDecode)
		assert.True(t, doc.closed)
	})

	t.Run("render failure on second page", func(t *testing.T) {
		doc := pages(3, 50, 50)
		doc.failAt = 2
		p, reg := newPipeline(&fakeOpener{doc: doc})
		rec := &recorder{}

		got, err := p.Run(context.Background(), types.Job{
			Kind: types.KindExportImages, Sources: []types.Source{pdfSource()},
		}, rec)
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, types.ErrRender)

		var ce *ConversionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, PhaseRender, ce.Phase)
		assert.Equal(t, 2, ce.Ordinal)

		assert.Len(t, rec.progress, 1)
		assert.Zero(t, reg.Len(), "handles from the failed job must be released")
		assert.True(t, doc.closed)
	})

	t.Run("undecodable image", func(t *testing.T) {
		p, reg := newPipeline(&fakeOpener{})
		bad := types.Source{Name: "broken.png", MediaType: "image/png", Data: []byte("garbage")}

		_, err := p.Run(context.Background(), types.Job{
			Kind:    types.KindAssembleDocument,
			Sources: []types.Source{pngSource(t, "ok.png", 5, 5), bad},
		}, nil)
		assert.ErrorIs(t, err, types.ErrDecode)
		assert.ErrorContains(t, err, "broken.png")

		var ce *ConversionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, 2, ce.Ordinal)
		assert.Zero(t, reg.Len())
	})

	t.Run("encode failure", func(t *testing.T) {
		cfg := types.DefaultConfig()
		cfg.Export.Quality = 0
		reg := handles.NewRegistry()
		p := New(cfg, reg, WithOpener((&fakeOpener{doc: pages(2, 10, 10)}).open))

		_, err := p.Run(context.Background(), types.Job{
			Kind: types.KindExportImages, Sources: []types.Source{pdfSource()},
		}, nil)
		assert.ErrorIs(t, err, types.ErrEncode)

		var ce *ConversionError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, 1, ce.Ordinal)
	})
}

func TestCancellationStopsBetweenUnits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, reg := newPipeline(&fakeOpener{doc: pages(4, 20, 20)})
	var seen int
	sink := SinkFuncs{OnProgress: func(types.ProgressState) {
		seen++
		cancel()
	}}

	got, err := p.Run(ctx, types.Job{
		Kind: types.KindExportImages, Sources: []types.Source{pdfSource()},
	}, sink)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, context.Canceled)

	var ce *ConversionError
	assert.False(t, errors.As(err, &ce))
	assert.Equal(t, 1, seen)
	assert.Zero(t, reg.Len())
}

func TestConversionErrorMessage(t *testing.T) {
	err := &ConversionError{Kind: types.KindExportImages, Phase: PhaseRender, Ordinal: 3, Err: errors.New("boom")}
	assert.Equal(t, "export-images: render failed at unit 3: boom", err.Error())

	err = &ConversionError{Kind: types.KindAssembleDocument, Phase: PhaseEncode, Err: errors.New("boom")}
	assert.Equal(t, "assemble-document: encode failed: boom", err.Error())
	assert.ErrorIs(t, err, types.ErrEncode)
}
