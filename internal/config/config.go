// Package config loads the imgtool configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/imgtool/atlas"
	"github.com/gogpu/imgtool/resample"
)

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = "~/.config/imgtool/config.toml"

// Config holds settings that can also be given on the command line.
// Flags override file values.
type Config struct {
	Resampler    string  `toml:"resampler"`
	AtlasSize    int     `toml:"atlas_size"`
	AtlasPadding int     `toml:"atlas_padding"`
	FontSize     float64 `toml:"font_size"`
	GlyphFormat  string  `toml:"glyph_format"`
	LogLevel     string  `toml:"log_level"`

	// Workers bounds concurrent decoding. Zero uses GOMAXPROCS.
	Workers int `toml:"workers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Resampler:    string(resample.Default),
		AtlasSize:    256,
		AtlasPadding: 1,
		FontSize:     32,
		GlyphFormat:  "toml",
		LogLevel:     "info",
	}
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: invalid " + e.Field + ": " + e.Reason
}

// Load reads the file at path over the defaults. An empty path reads
// DefaultPath, which may be absent; an explicitly named file must exist.
// The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	data, err := os.ReadFile(expanded)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	default:
		return cfg, fmt.Errorf("config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", filepath.Base(expanded), err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := resample.New(resample.Kind(c.Resampler)); err != nil {
		return &ConfigError{Field: "resampler", Reason: fmt.Sprintf("unknown kind %q", c.Resampler)}
	}
	if err := (&atlas.ShelfPacker{Padding: c.AtlasPadding}).Validate(c.AtlasSize); err != nil {
		var ae *atlas.ConfigError
		if errors.As(err, &ae) {
			field := "atlas_size"
			if ae.Field == "Padding" {
				field = "atlas_padding"
			}
			return &ConfigError{Field: field, Reason: ae.Reason}
		}
		return err
	}
	if err := (&atlas.FontSource{Size: c.FontSize}).Validate(); err != nil {
		var ae *atlas.ConfigError
		if errors.As(err, &ae) {
			return &ConfigError{Field: "font_size", Reason: ae.Reason}
		}
		return err
	}
	if _, err := atlas.ParseGlyphFormat(c.GlyphFormat); err != nil {
		return &ConfigError{Field: "glyph_format", Reason: fmt.Sprintf("unknown format %q", c.GlyphFormat)}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Reason: fmt.Sprintf("%d is negative", c.Workers)}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return &ConfigError{Field: "log_level", Reason: err.Error()}
	}
	return nil
}

// ParseLevel maps "debug", "info", "warn" or "error" to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown level %q", s)
	}
	return l, nil
}

// Save writes c to path as TOML, creating parent directories.
func Save(path string, c Config) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(expanded, data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
