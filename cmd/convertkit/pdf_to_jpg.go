// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/convertkit/pkg/types"
)

var pdfToJPGCmd = &cobra.Command{
	Use:   "pdf-to-jpg FILE",
	Short: "Convert every page of a PDF to a JPG image",
	Long: `pdf-to-jpg renders each page of a PDF at twice its natural resolution
(export.scale) and writes page_1.jpg, page_2.jpg, ... into --out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConversion(cmd, conversion{kind: types.KindExportImages, paths: args})
	},
}

func init() {
	addOutFlag(pdfToJPGCmd)
	rootCmd.AddCommand(pdfToJPGCmd)
}
