// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the convertkit CLI: four file
// converters, a help chat, and an HTTP server exposing both.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/convertkit/internal/observability"
	"github.com/pdiddy/convertkit/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// errReported marks a failure whose notice has already been shown.
var errReported = errors.New("failure already reported")

var (
	cfg    = types.DefaultConfig()
	logger = zerolog.Nop()
)

// rootCmd is the base command for the convertkit CLI.
var rootCmd = &cobra.Command{
	Use:   "convertkit",
	Short: "Convert PDFs to images, images to PDF, and resize both",
	Long: `convertkit converts files in memory: PDF pages to JPG images, a set of
images to one PDF, PDF pages to a fixed size, and images to a fixed size.

Each converter is a subcommand. "chat" answers questions about them and
"serve" exposes the converters and the chat over HTTP.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		v, err := newViper(cfgFile)
		if err != nil {
			return err
		}
		if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
			return fmt.Errorf("binding log level flag: %w", err)
		}

		loaded, err := loadConfig(v)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = observability.NewLogger(cfg.Log, os.Stderr)
		if used := v.ConfigFileUsed(); used != "" {
			logger.Info().Str("file", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./convertkit.yaml or ~/.config/convertkit/convertkit.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "diagnostic log level: debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
