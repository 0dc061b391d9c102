package codec

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"

	"github.com/gogpu/imgtool/pixbuf"
)

// Loader reads image files from disk. Load blocks until the file is read
// and decoded; there is no cancellation.
type Loader struct {
	codec *FileCodec
}

// NewLoader returns a Loader that decodes with c. A nil c uses a zero
// FileCodec.
func NewLoader(c *FileCodec) *Loader {
	if c == nil {
		c = &FileCodec{}
	}
	return &Loader{codec: c}
}

// Load reads and decodes the file at path. A leading "~" is expanded to the
// user's home directory.
func (l *Loader) Load(path string) (*pixbuf.Buffer, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("codec: load %s: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("codec: load: %w", err)
	}
	b, err := l.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("codec: load %s: %w", expanded, err)
	}
	return b, nil
}
