// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero scale", func(c *Config) { c.Export.Scale = 0 }},
		{"export quality too high", func(c *Config) { c.Export.Quality = 101 }},
		{"assemble quality zero", func(c *Config) { c.Assemble.Quality = 0 }},
		{"resize quality negative", func(c *Config) { c.Resize.Quality = -5 }},
		{"unknown page size", func(c *Config) { c.Assemble.PageSize = "tabloid" }},
		{"negative thinking min", func(c *Config) { c.Assistant.ThinkingMin = -time.Second }},
		{"inverted thinking range", func(c *Config) {
			c.Assistant.ThinkingMin = 2 * time.Second
			c.Assistant.ThinkingMax = time.Second
		}},
		{"negative upload cap", func(c *Config) { c.Server.MaxUploadMB = -1 }},
		{"negative rate limit", func(c *Config) { c.Server.ConvertRateLimit = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfigValidateAcceptsZeroDelay(t *testing.T) {
	c := DefaultConfig()
	c.Assistant.ThinkingMin = 0
	c.Assistant.ThinkingMax = 0
	c.Server.ConvertRateLimit = 0
	assert.NoError(t, c.Validate())
}

func TestFailureNotice(t *testing.T) {
	assert.Equal(t, "Error converting PDF. Please try again.", KindExportImages.FailureNotice())
	assert.Equal(t, "Error resizing image. Please try again.", KindResizeImage.FailureNotice())
	assert.Equal(t, "Conversion failed. Please try again.", TargetKind("bogus").FailureNotice())
}
