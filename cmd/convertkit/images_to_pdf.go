// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/convertkit/pkg/types"
)

var imagesToPDFCmd = &cobra.Command{
	Use:   "images-to-pdf FILE...",
	Short: "Combine images into one PDF, one image per page",
	Long: `images-to-pdf places each image on its own page, in the order given,
and writes converted_images.pdf into --out. Pages are A4 unless
assemble.page_size says letter or image.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConversion(cmd, conversion{kind: types.KindAssembleDocument, paths: args})
	},
}

func init() {
	addOutFlag(imagesToPDFCmd)
	rootCmd.AddCommand(imagesToPDFCmd)
}
