// Package pipeline runs the imgtool jobs: atlas make, split and filter, font
// atlas generation and single-image processing.
//
// Every job receives an explicit *Context holding its collaborators; nothing
// is looked up from package state.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/imgtool"
	"github.com/gogpu/imgtool/atlas"
	"github.com/gogpu/imgtool/codec"
	"github.com/gogpu/imgtool/internal/config"
	"github.com/gogpu/imgtool/internal/parallel"
	"github.com/gogpu/imgtool/pixbuf"
	"github.com/gogpu/imgtool/resample"
)

var (
	// ErrNoInput is returned by Process when no input image is given.
	ErrNoInput = errors.New("pipeline: no input supplied")

	// ErrUnsupportedInput is returned for inputs that are not raster images.
	ErrUnsupportedInput = errors.New("pipeline: unsupported input")

	// ErrNoImages is returned by MakeAtlas for a directory without PNG files.
	ErrNoImages = errors.New("pipeline: no png files found")
)

// Codec decodes image bytes and encodes buffers to files.
type Codec interface {
	Decode(data []byte) (*pixbuf.Buffer, error)
	Encode(b *pixbuf.Buffer, path string) (int64, error)
}

// Loader reads and decodes an image file.
type Loader interface {
	Load(path string) (*pixbuf.Buffer, error)
}

// Context carries the collaborators shared by all jobs.
type Context struct {
	Codec     Codec
	Loader    Loader
	Resampler imgtool.Resampler
	Packer    atlas.Packer
	Exporter  atlas.Exporter
	Logger    *slog.Logger

	// Pool decodes atlas inputs concurrently. Nil loads them one by one.
	Pool *parallel.WorkerPool

	// GlyphFormat is used for glyph files written next to new atlases.
	GlyphFormat atlas.GlyphFormat

	// AtlasSize is the default atlas edge.
	AtlasSize int

	// FontSize is the default pixel size for font atlases.
	FontSize float64
}

// NewContext builds a Context with the stock collaborators configured
// from cfg. A nil logger uses imgtool.Logger().
func NewContext(cfg config.Config, logger *slog.Logger) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rs, err := resample.New(resample.Kind(cfg.Resampler))
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	gf, err := atlas.ParseGlyphFormat(cfg.GlyphFormat)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if logger == nil {
		logger = imgtool.Logger()
	}

	fc := &codec.FileCodec{}
	return &Context{
		Codec:       fc,
		Loader:      codec.NewLoader(fc),
		Resampler:   rs,
		Packer:      &atlas.ShelfPacker{Padding: cfg.AtlasPadding},
		Exporter:    &atlas.PNGExporter{Encoder: fc, Logger: logger},
		Logger:      logger,
		Pool:        parallel.NewWorkerPool(cfg.Workers),
		GlyphFormat: gf,
		AtlasSize:   cfg.AtlasSize,
		FontSize:    cfg.FontSize,
	}, nil
}

// Close stops the worker pool. The Context must not be used afterwards.
func (c *Context) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

func (c *Context) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return imgtool.Logger()
}
