// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/convertkit/internal/intake"
	"github.com/pdiddy/convertkit/internal/workspace"
	"github.com/pdiddy/convertkit/pkg/types"
)

// conversion describes one CLI conversion request.
type conversion struct {
	kind    types.TargetKind
	paths   []string
	width   string
	height  string
	combine bool
}

func addOutFlag(cmd *cobra.Command) {
	cmd.Flags().String("out", ".", "directory to write results into")
}

func addDimensionFlags(cmd *cobra.Command) {
	cmd.Flags().String("width", "", "target width in pixels (required)")
	cmd.Flags().String("height", "", "target height in pixels (required)")
}

// runConversion runs c on a fresh converter instance, then writes every
// artifact into --out. Any failure is shown as the converter's single
// generic notice; the cause goes to the diagnostic log.
func runConversion(cmd *cobra.Command, c conversion) error {
	stderr := cmd.ErrOrStderr()
	fail := func(err error) error {
		logger.Debug().Err(err).Str("kind", string(c.kind)).Msg("conversion failed")
		noticeColor.Fprintln(stderr, c.kind.FailureNotice())
		return errReported
	}

	job, err := buildJob(c)
	if err != nil {
		return fail(err)
	}

	ws := workspace.New(cfg, logger)
	inst, _ := ws.Instance(c.kind)

	sink := newProgressSink(stderr)
	artifacts, err := inst.Convert(cmd.Context(), job, sink)
	if err != nil {
		sink.abandon()
		return fail(err)
	}

	outDir, _ := cmd.Flags().GetString("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fail(fmt.Errorf("creating output directory: %w", err))
	}
	for _, a := range artifacts {
		path := filepath.Join(outDir, a.Name)
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return fail(fmt.Errorf("writing %s: %w", path, err))
		}
		printArtifact(cmd.OutOrStdout(), path, a)
	}
	return nil
}

func buildJob(c conversion) (types.Job, error) {
	sources, err := intake.FromPaths(c.paths)
	if err != nil {
		return types.Job{}, err
	}
	job := types.Job{Kind: c.kind, Sources: sources, Combine: c.combine}

	if c.kind.NeedsDimensions() {
		dims, err := types.ParseDimensions(c.width, c.height)
		if err != nil {
			return types.Job{}, err
		}
		job.Params = &dims
	}
	return job, nil
}
