// Package bitmap decodes the BMP files shown by the viewer.
package bitmap

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/bmp"
)

// ErrInvalid reports a file whose headers or pixel data cannot be parsed.
var ErrInvalid = errors.New("invalid BMP file")

// Decoder decodes BMP streams.
type Decoder struct {
	// MaxPixels rejects images larger than the device can hold in memory.
	// Zero means no limit.
	MaxPixels int
}

// NewDecoder returns a Decoder limited to maxPixels pixels.
func NewDecoder(maxPixels int) *Decoder {
	return &Decoder{MaxPixels: maxPixels}
}

// Decode parses the headers first and only then reads pixel data, so an
// oversized or malformed file fails before any pixels are allocated.
func (d *Decoder) Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)

	header, err := br.Peek(headerPeek)
	if err != nil && len(header) < minHeader {
		return nil, fmt.Errorf("%w: reading header: %v", ErrInvalid, err)
	}
	cfg, err := bmp.DecodeConfig(bytes.NewReader(header))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrInvalid, cfg.Width, cfg.Height)
	}
	if d.MaxPixels > 0 && cfg.Width*cfg.Height > d.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalid, cfg.Width, cfg.Height, d.MaxPixels)
	}

	img, err := bmp.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return img, nil
}

// headerPeek covers the file header, the largest info header bmp supports and
// a full 8-bit palette.
const (
	headerPeek = 14 + 124 + 256*4
	minHeader  = 14 + 40
)
