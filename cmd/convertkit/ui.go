// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/convertkit/pkg/types"
)

var (
	noticeColor = color.New(color.FgRed, color.Bold)
	doneColor   = color.New(color.FgGreen)
	botColor    = color.New(color.FgCyan)
	userPrompt  = color.New(color.FgYellow, color.Bold)
)

// progressSink draws job progress as a bar on w. The bar is created on the
// first update, once the unit count is known.
type progressSink struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newProgressSink(w io.Writer) *progressSink {
	return &progressSink{w: w}
}

func (s *progressSink) Progress(p types.ProgressState) {
	if s.bar == nil {
		s.bar = progressbar.NewOptions(p.Total,
			progressbar.OptionSetWriter(s.w),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(p.Message),
			progressbar.OptionShowCount(),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(s.w)
			}),
		)
	}
	s.bar.Describe(p.Message)
	_ = s.bar.Set(p.Completed)
}

func (s *progressSink) Artifact(types.Artifact) {}

// abandon clears a bar left unfinished by a failed job.
func (s *progressSink) abandon() {
	if s.bar != nil && !s.bar.IsFinished() {
		_ = s.bar.Clear()
		fmt.Fprintln(s.w)
	}
}

// thinking shows a spinner on w while the assistant "thinks".
func thinking(w io.Writer) *spinner.Spinner {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	sp.Suffix = " thinking..."
	return sp
}

func printArtifact(w io.Writer, path string, a types.Artifact) {
	detail := humanize.Bytes(uint64(a.Size()))
	switch {
	case a.Pages > 1:
		detail = fmt.Sprintf("%d pages, %s", a.Pages, detail)
	case a.Width > 0 && a.Height > 0:
		detail = fmt.Sprintf("%dx%d, %s", a.Width, a.Height, detail)
	}
	doneColor.Fprintf(w, "✓ %s", path)
	fmt.Fprintf(w, " (%s)\n", detail)
}
