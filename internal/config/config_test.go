package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
resampler = "lanczos"
atlas_size = 512
log_level = "debug"
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lanczos", c.Resampler)
	assert.Equal(t, 512, c.AtlasSize)
	assert.Equal(t, "debug", c.LogLevel)
	// untouched keys keep defaults
	assert.Equal(t, 1, c.AtlasPadding)
	assert.InDelta(t, 32.0, c.FontSize, 1e-9)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"resampler", `resampler = "sinc"`, "resampler"},
		{"atlas size", `atlas_size = 3`, "atlas_size"},
		{"padding", `atlas_padding = -2`, "atlas_padding"},
		{"font size", `font_size = 0.5`, "font_size"},
		{"glyph format", `glyph_format = "xml"`, "glyph_format"},
		{"log level", `log_level = "loud"`, "log_level"},
		{"workers", `workers = -1`, "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			_, err := Load(path)
			var ce *ConfigError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestLoadSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("atlas_size = = 4"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.Resampler = "xdraw-catmullrom"
	want.GlyphFormat = "json"

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}
