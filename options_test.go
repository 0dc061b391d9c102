package imgtool

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/imgtool/pixbuf"
)

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := NewCompositor(nil, WithLogger(l))
	assert.Same(t, l, c.logger())

	dst, err := pixbuf.New(2, 2, pixbuf.FormatRGBA8)
	require.NoError(t, err)
	src, err := pixbuf.New(2, 2, pixbuf.FormatRGBA8)
	require.NoError(t, err)

	require.NoError(t, c.Paste(dst, src, Placement{X: 0, Y: 0, W: -1, H: 2}))
	assert.Contains(t, buf.String(), "empty placement")
}

func TestCompositorDefaultLogger(t *testing.T) {
	c := NewCompositor(nil)
	assert.Same(t, Logger(), c.logger())
}
