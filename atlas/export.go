package atlas

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gogpu/imgtool/pixbuf"
)

// Exporter writes one image per registry entry.
type Exporter interface {
	Export(atlas *pixbuf.Buffer, entries []Entry, outDir string) ([]string, error)
}

// Encoder writes a buffer to a file and reports the bytes written.
// codec.FileCodec satisfies it.
type Encoder interface {
	Encode(b *pixbuf.Buffer, path string) (int64, error)
}

// PNGExporter crops each entry's rect out of the atlas and writes it as
// <id>.png in the output directory.
type PNGExporter struct {
	Encoder Encoder
	Logger  *slog.Logger
}

// Export validates every rect against the atlas before writing anything,
// creates outDir if needed, and returns the written paths in entry order.
func (e *PNGExporter) Export(atlas *pixbuf.Buffer, entries []Entry, outDir string) ([]string, error) {
	if err := atlas.Check(); err != nil {
		return nil, fmt.Errorf("atlas: export: %w", err)
	}
	for _, en := range entries {
		if en.Rect.Empty() || !en.Rect.Inside(atlas.Width(), atlas.Height()) {
			return nil, fmt.Errorf("%w: id %d at %v in %dx%d",
				ErrRectOutOfBounds, en.ID, en.Rect, atlas.Width(), atlas.Height())
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("atlas: export: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, en := range entries {
		r := en.Rect
		view := atlas.SubImage(r.X, r.Y, r.W, r.H)
		path := filepath.Join(outDir, strconv.Itoa(en.ID)+".png")
		n, err := e.Encoder.Encode(view, path)
		if err != nil {
			return paths, fmt.Errorf("atlas: export id %d: %w", en.ID, err)
		}
		if e.Logger != nil {
			e.Logger.Debug("export glyph", "id", en.ID, "rect", r.String(), "path", path, "bytes", n)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
