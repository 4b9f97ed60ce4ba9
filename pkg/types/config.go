// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is a zerolog level name: debug, info, warn, error, disabled.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" for human-readable output or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// ExportConfig holds settings for the PDF to JPG converter.
type ExportConfig struct {
	// Scale is the render scale relative to 72 DPI (default 2).
	Scale float64 `json:"scale" yaml:"scale" mapstructure:"scale"`

	// Quality is the JPEG quality, 1-100 (default 95).
	Quality int `json:"quality" yaml:"quality" mapstructure:"quality"`
}

// PageSize selects the page geometry used when assembling images into a document.
type PageSize string

const (
	PageA4     PageSize = "a4"
	PageLetter PageSize = "letter"
	// PageImage sizes every page to its image, 1 px = 1 pt.
	PageImage PageSize = "image"
)

// AssembleConfig holds settings for the images to PDF converter.
type AssembleConfig struct {
	// PageSize is a4, letter, or image (default a4).
	PageSize PageSize `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// Quality is the JPEG quality used to embed each image (default 92).
	Quality int `json:"quality" yaml:"quality" mapstructure:"quality"`
}

// ResizeConfig holds settings shared by the PDF and image resizers.
type ResizeConfig struct {
	// Quality is the JPEG quality for resized output (default 90).
	Quality int `json:"quality" yaml:"quality" mapstructure:"quality"`
}

// AssistantConfig holds settings for the help responder.
type AssistantConfig struct {
	// KnowledgeFile optionally replaces the built-in knowledge base.
	KnowledgeFile string `json:"knowledge_file,omitempty" yaml:"knowledge_file,omitempty" mapstructure:"knowledge_file"`

	// ThinkingMin and ThinkingMax bound the simulated thinking delay.
	ThinkingMin time.Duration `json:"thinking_min" yaml:"thinking_min" mapstructure:"thinking_min"`
	ThinkingMax time.Duration `json:"thinking_max" yaml:"thinking_max" mapstructure:"thinking_max"`

	// Seed seeds the response variant picker; zero means time-based.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty" mapstructure:"seed"`
}

// ServerConfig holds settings for the HTTP presentation layer.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// MaxUploadMB caps a single conversion request body.
	MaxUploadMB int64 `json:"max_upload_mb" yaml:"max_upload_mb" mapstructure:"max_upload_mb"`

	// AllowedOrigins feeds the CORS middleware.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// ConvertRateLimit is the number of conversions allowed per IP per minute.
	ConvertRateLimit int `json:"convert_rate_limit" yaml:"convert_rate_limit" mapstructure:"convert_rate_limit"`

	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// Config groups every section of convertkit.yaml.
type Config struct {
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
	Export    ExportConfig    `json:"export" yaml:"export" mapstructure:"export"`
	Assemble  AssembleConfig  `json:"assemble" yaml:"assemble" mapstructure:"assemble"`
	Resize    ResizeConfig    `json:"resize" yaml:"resize" mapstructure:"resize"`
	Assistant AssistantConfig `json:"assistant" yaml:"assistant" mapstructure:"assistant"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultConfig returns the settings used when no config file overrides them.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Export: ExportConfig{
			Scale:   2,
			Quality: 95,
		},
		Assemble: AssembleConfig{
			PageSize: PageA4,
			Quality:  92,
		},
		Resize: ResizeConfig{
			Quality: 90,
		},
		Assistant: AssistantConfig{
			ThinkingMin: 500 * time.Millisecond,
			ThinkingMax: 2 * time.Second,
		},
		Server: ServerConfig{
			Addr:             ":8080",
			MaxUploadMB:      50,
			AllowedOrigins:   []string{"*"},
			ConvertRateLimit: 30,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// Validate reports the first setting that no converter could run with.
func (c Config) Validate() error {
	switch {
	case c.Export.Scale <= 0:
		return fmt.Errorf("export.scale must be positive, got %v", c.Export.Scale)
	case !validQuality(c.Export.Quality):
		return fmt.Errorf("export.quality must be 1-100, got %d", c.Export.Quality)
	case !validQuality(c.Assemble.Quality):
		return fmt.Errorf("assemble.quality must be 1-100, got %d", c.Assemble.Quality)
	case !validQuality(c.Resize.Quality):
		return fmt.Errorf("resize.quality must be 1-100, got %d", c.Resize.Quality)
	}

	switch c.Assemble.PageSize {
	case PageA4, PageLetter, PageImage:
	default:
		return fmt.Errorf("assemble.page_size must be a4, letter or image, got %q", c.Assemble.PageSize)
	}

	if c.Assistant.ThinkingMin < 0 || c.Assistant.ThinkingMax < c.Assistant.ThinkingMin {
		return fmt.Errorf("assistant thinking delay range [%v, %v) is invalid",
			c.Assistant.ThinkingMin, c.Assistant.ThinkingMax)
	}
	if c.Server.MaxUploadMB < 0 || c.Server.ConvertRateLimit < 0 {
		return fmt.Errorf("server limits must not be negative")
	}
	return nil
}

func validQuality(q int) bool {
	return q >= 1 && q <= 100
}
