// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/convertkit/pkg/types"
)

var resizePDFCmd = &cobra.Command{
	Use:   "resize-pdf FILE --width W --height H",
	Short: "Resize every page of a PDF to an exact size",
	Long: `resize-pdf fits each page into a W x H box, keeping its aspect ratio
and filling the margins with white, and writes one resized_page_N.pdf per
page. With --combine all pages go into resized_document.pdf instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetString("width")
		height, _ := cmd.Flags().GetString("height")
		combine, _ := cmd.Flags().GetBool("combine")
		return runConversion(cmd, conversion{
			kind:    types.KindResizeDocument,
			paths:   args,
			width:   width,
			height:  height,
			combine: combine,
		})
	},
}

func init() {
	addOutFlag(resizePDFCmd)
	addDimensionFlags(resizePDFCmd)
	resizePDFCmd.Flags().Bool("combine", false, "write all resized pages into one PDF")
	rootCmd.AddCommand(resizePDFCmd)
}
