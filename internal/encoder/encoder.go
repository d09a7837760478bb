// Package encoder writes optional preview-format exports of a batch run's
// primary output (a BMP, TIFF, or raw gray buffer converted to image.Image)
// alongside the manifest entry it is recorded in, so a viewer can show a
// compressed preview without round-tripping the domain-specific format.
package encoder

import (
	"image"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "jpeg", "webp", "avif", "png").
	Format() string

	// Encode converts the image to bytes at the given quality (1-100).
	Encode(img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp, avifenc) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}
