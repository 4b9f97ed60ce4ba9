// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/convertkit/pkg/types"
)

// newViper prepares a viper instance: .env is loaded into the environment
// when present, defaults come from types.DefaultConfig, then the config
// file and CONVERTKIT_* variables override them.
func newViper(cfgFile string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, types.DefaultConfig())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("convertkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "convertkit"))
		}
	}

	v.SetEnvPrefix("CONVERTKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// setDefaults registers every key so environment overrides apply even when
// no config file mentions it.
func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("export.scale", d.Export.Scale)
	v.SetDefault("export.quality", d.Export.Quality)

	v.SetDefault("assemble.page_size", string(d.Assemble.PageSize))
	v.SetDefault("assemble.quality", d.Assemble.Quality)

	v.SetDefault("resize.quality", d.Resize.Quality)

	v.SetDefault("assistant.knowledge_file", d.Assistant.KnowledgeFile)
	v.SetDefault("assistant.thinking_min", d.Assistant.ThinkingMin)
	v.SetDefault("assistant.thinking_max", d.Assistant.ThinkingMax)
	v.SetDefault("assistant.seed", d.Assistant.Seed)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.convert_rate_limit", d.Server.ConvertRateLimit)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
}

// loadConfig decodes and validates the merged configuration.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
