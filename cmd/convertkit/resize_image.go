// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/convertkit/pkg/types"
)

var resizeImageCmd = &cobra.Command{
	Use:   "resize-image FILE --width W --height H",
	Short: "Resize an image to an exact size",
	Long: `resize-image stretches the image to exactly W x H pixels and writes
resized_<name> into --out, keeping the original format where possible.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetString("width")
		height, _ := cmd.Flags().GetString("height")
		return runConversion(cmd, conversion{
			kind:   types.KindResizeImage,
			paths:  args,
			width:  width,
			height: height,
		})
	},
}

func init() {
	addOutFlag(resizeImageCmd)
	addDimensionFlags(resizeImageCmd)
	rootCmd.AddCommand(resizeImageCmd)
}
