// SPDX-License-Identifier: Apache-2.0

// Package config loads and validates engine configuration from YAML files
// and command line flags. Flags override file values; keys use snake_case
// in files and dashed names on the command line.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/miaopass-future/robotframework/pkg/model"
)

// Config is the engine configuration.
type Config struct {
	// LogLevel is the threshold for forwarding log messages to listeners.
	LogLevel string `koanf:"log_level" json:"log_level,omitempty" jsonschema:"enum=TRACE,enum=DEBUG,enum=INFO,enum=WARN,enum=ERROR,enum=NONE"`
	// LogFormat selects the engine's own log output format.
	LogFormat string `koanf:"log_format" json:"log_format,omitempty" jsonschema:"enum=json,enum=text"`
	// Listeners are textual listener references taken into use at startup.
	Listeners []string `koanf:"listeners" json:"listeners,omitempty"`
	// StrictListeners makes a failing listener import abort startup
	// instead of being reported and skipped.
	StrictListeners bool `koanf:"strict_listeners" json:"strict_listeners,omitempty"`
}

// Default returns the configuration used when no file or flags are given.
func Default() Config {
	return Config{
		LogLevel:  model.LevelInfo.String(),
		LogFormat: "json",
	}
}

// Load reads the config file at path (when non-empty) and overlays values
// from flags. Flags that were not changed keep the file's values.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.
				In("config").
				With("path", path).
				Wrapf(err, "loading config file failed")
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, any) {
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.In("config").Wrapf(err, "reading flags failed")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.In("config").Wrapf(err, "unmarshalling config failed")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values without touching the filesystem.
func (c Config) Validate() error {
	if _, err := model.ParseLevel(c.LogLevel); err != nil {
		return oops.
			In("config").
			Code("CONFIG_INVALID").
			With("log_level", c.LogLevel).
			Wrap(err)
	}
	switch c.LogFormat {
	case "", "json", "text":
	default:
		return oops.
			In("config").
			Code("CONFIG_INVALID").
			With("log_format", c.LogFormat).
			Errorf("log format must be json or text")
	}
	return nil
}
