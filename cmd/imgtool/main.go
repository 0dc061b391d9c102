// Command imgtool reconciles raster assets: it builds, splits and filters
// glyph atlases and composites and filters single images.
//
// Usage:
//
//	imgtool --input in.png --output out.png --input-filter dark2alpha
//	imgtool --input bg.png --paste logo.png --paste-rect rect:10,10,64,64 --output out.png
//	imgtool --make-png-atlas glyphs/ --make-png-atlas-size 512 --atlas-out sheet
//	imgtool --make-font-atlas font.ttf --font-size 24
//	imgtool --split-png-atlas sheet.png --glyphs sheet.toml --glyphs overrides.json
//	imgtool --filter-png-atlas sheet.toml
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/imgtool"
	"github.com/gogpu/imgtool/internal/config"
	"github.com/gogpu/imgtool/internal/pipeline"
)

type flags struct {
	input       string
	output      string
	inputFilter string
	inputScale  float64
	paste       string
	pasteRect   string
	resampler   string

	makeAtlas     string
	makeAtlasSize int
	makeFontAtlas string
	fontSize      float64
	splitAtlas    string
	glyphs        []string
	filterAtlas   string
	atlasOut      string

	configPath string
	verbose    bool
	quiet      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "imgtool:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "imgtool",
		Short:         "Composite images and canonicalize glyph atlases",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, &f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.input, "input", "", "input image")
	fl.StringVar(&f.output, "output", "", "output image")
	fl.StringVar(&f.inputFilter, "input-filter", "", "filter applied to the input [dark2alpha]")
	fl.Float64Var(&f.inputScale, "input-scale", 0, "scale the input by this factor")
	fl.StringVar(&f.paste, "paste", "", "image composited onto the input")
	fl.StringVar(&f.pasteRect, "paste-rect", "rect:0,0", "placement for --paste as rect:x,y[,w,h]")
	fl.StringVar(&f.resampler, "resampler", "", "resampler kind (default from config)")

	fl.StringVar(&f.makeAtlas, "make-png-atlas", "", "build a PNG atlas from the files in this directory")
	fl.IntVar(&f.makeAtlasSize, "make-png-atlas-size", 256, "atlas edge in pixels")
	fl.StringVar(&f.makeFontAtlas, "make-font-atlas", "", "build an atlas from this font file")
	fl.Float64Var(&f.fontSize, "font-size", 32, "pixel size for --make-font-atlas")
	fl.StringVar(&f.splitAtlas, "split-png-atlas", "", "split this atlas image back into individual files")
	fl.StringArrayVar(&f.glyphs, "glyphs", nil, "glyph file for --split-png-atlas, repeatable in priority order")
	fl.StringVar(&f.filterAtlas, "filter-png-atlas", "", "canonicalize this glyph file in place")
	fl.StringVar(&f.atlasOut, "atlas-out", "", "output prefix or directory for atlas modes")

	fl.StringVar(&f.configPath, "config", "", "config file (default "+config.DefaultPath+")")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log debug records")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "log warnings and errors only")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	return cmd
}

func run(cmd *cobra.Command, f *flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, f, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	imgtool.SetLogger(logger)

	ctx, err := pipeline.NewContext(cfg, logger)
	if err != nil {
		return err
	}
	defer ctx.Close()

	atlasMode := false
	if f.makeAtlas != "" {
		atlasMode = true
		if _, err := pipeline.MakeAtlas(ctx, f.makeAtlas, cfg.AtlasSize, f.atlasOut); err != nil {
			return err
		}
	}
	if f.makeFontAtlas != "" {
		atlasMode = true
		if _, err := pipeline.FontAtlas(ctx, f.makeFontAtlas, cfg.FontSize, cfg.AtlasSize, f.atlasOut); err != nil {
			return err
		}
	}
	if f.splitAtlas != "" {
		atlasMode = true
		if _, err := pipeline.SplitAtlas(ctx, f.splitAtlas, f.glyphs, f.atlasOut); err != nil {
			return err
		}
	}
	if f.filterAtlas != "" {
		atlasMode = true
		if err := pipeline.FilterAtlas(ctx, f.filterAtlas); err != nil {
			return err
		}
	}

	if f.input == "" && atlasMode {
		return nil
	}

	job, err := buildJob(f)
	if err != nil {
		return err
	}
	_, err = pipeline.Process(ctx, job)
	return err
}

// applyFlags lets explicitly set flags override config file values.
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("resampler") {
		cfg.Resampler = f.resampler
	}
	if fl.Changed("make-png-atlas-size") {
		cfg.AtlasSize = f.makeAtlasSize
	}
	if fl.Changed("font-size") {
		cfg.FontSize = f.fontSize
	}
}

func buildJob(f *flags) (pipeline.Job, error) {
	filter, err := imgtool.ParseFilter(f.inputFilter)
	if err != nil {
		return pipeline.Job{}, err
	}
	at, err := imgtool.ParsePlacement(f.pasteRect)
	if err != nil {
		return pipeline.Job{}, err
	}
	return pipeline.Job{
		Input:   f.input,
		Output:  f.output,
		Scale:   f.inputScale,
		Paste:   f.paste,
		PasteAt: at,
		Filter:  filter,
	}, nil
}
