package capture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// Encoder writes a still image in one format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	Extension() string
	MediaType() string
}

// PNGEncoder is the default lossless encoder.
type PNGEncoder struct{}

func (PNGEncoder) Encode(w io.Writer, img image.Image) error { return png.Encode(w, img) }
func (PNGEncoder) Extension() string                         { return "png" }
func (PNGEncoder) MediaType() string                         { return "image/png" }

// WebPEncoder writes lossless WebP.
type WebPEncoder struct{}

func (WebPEncoder) Encode(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}
func (WebPEncoder) Extension() string { return "webp" }
func (WebPEncoder) MediaType() string { return "image/webp" }

// NewEncoder returns the encoder for a format name ("png" or "webp").
func NewEncoder(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case "", "png":
		return PNGEncoder{}, nil
	case "webp":
		return WebPEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}
}
